// Package alert provides the single-slot notification channel shared by the
// console views. It holds at most one current alert and pushes every change
// to its subscribers; a new subscriber immediately receives the latest value.
package alert

import "sync"

// Type classifies an alert for presentation.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Options describes one transient notification as delivered to subscribers,
// with all defaults resolved. Duration of zero means the displaying
// component applies its own default.
type Options struct {
	Message  string
	Type     Type
	Closable bool
	Duration int // milliseconds
}

// Option customises a fired alert.
type Option func(*Options)

// WithType sets the alert type. The default is info.
func WithType(t Type) Option {
	return func(o *Options) { o.Type = t }
}

// WithDuration sets the auto-dismiss duration in milliseconds.
func WithDuration(ms int) Option {
	return func(o *Options) { o.Duration = ms }
}

// NotClosable marks the alert as not manually dismissable.
func NotClosable() Option {
	return func(o *Options) { o.Closable = false }
}

// Service is the broadcast channel. There is no queue: a new Fire replaces
// whatever alert is current, dismissed or not. Last write wins.
type Service struct {
	mu      sync.Mutex
	current *Options
	subs    map[int]func(*Options)
	nextID  int
}

// New creates an empty alert service.
func New() *Service {
	return &Service{subs: make(map[int]func(*Options))}
}

// Fire replaces the current alert and notifies all subscribers
// synchronously. Unless overridden the alert is closable and of type info.
func (s *Service) Fire(message string, opts ...Option) {
	resolved := &Options{
		Message:  message,
		Type:     TypeInfo,
		Closable: true,
	}
	for _, opt := range opts {
		opt(resolved)
	}
	s.publish(resolved)
}

// Clear removes the current alert and notifies subscribers with nil.
func (s *Service) Clear() {
	s.publish(nil)
}

// Current returns the alert currently held, or nil.
func (s *Service) Current() *Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn and immediately invokes it with the current value
// (which may be nil). The returned function removes the subscription; fn is
// never called after it returns.
func (s *Service) Subscribe(fn func(*Options)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) publish(opts *Options) {
	s.mu.Lock()
	s.current = opts
	fns := make([]func(*Options), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(opts)
	}
}

// Success fires a success alert with default options.
func (s *Service) Success(message string) {
	s.Fire(message, WithType(TypeSuccess))
}

// Error fires an error alert with default options.
func (s *Service) Error(message string) {
	s.Fire(message, WithType(TypeError))
}
