package ui

import (
	"time"

	"product-console/internal/alert"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultAlertDuration is applied when a fired alert carries no duration.
const defaultAlertDuration = 3000 * time.Millisecond

type (
	// alertChangedMsg carries a new value from the alert service into the
	// update loop. nil means the current alert was cleared.
	alertChangedMsg struct{ opts *alert.Options }

	// dismissAlertMsg is the auto-dismiss timer firing. Ticks cannot be
	// revoked, so each carries the generation it was armed for and stale
	// ones are ignored.
	dismissAlertMsg struct{ gen int }
)

// alertView renders the current alert and owns its auto-dismiss timer. The
// timer is independent of the service: it only reaches back by calling
// Clear.
type alertView struct {
	service *alert.Service

	current *alert.Options
	// gen invalidates pending timers. Every display change bumps it, so a
	// tick armed for an earlier alert can never dismiss a later one.
	gen int
}

func newAlertView(service *alert.Service) alertView {
	return alertView{service: service}
}

func (v alertView) Update(msg tea.Msg) (alertView, tea.Cmd) {
	switch msg := msg.(type) {
	case alertChangedMsg:
		v.current = msg.opts
		v.gen++
		if msg.opts == nil {
			return v, nil
		}

		duration := defaultAlertDuration
		if msg.opts.Duration > 0 {
			duration = time.Duration(msg.opts.Duration) * time.Millisecond
		}
		gen := v.gen
		return v, tea.Tick(duration, func(time.Time) tea.Msg {
			return dismissAlertMsg{gen: gen}
		})

	case dismissAlertMsg:
		if msg.gen != v.gen || v.current == nil {
			return v, nil
		}
		v.current = nil
		v.gen++
		v.service.Clear()
		return v, nil
	}

	return v, nil
}

// Close dismisses the alert immediately without waiting for the
// subscription round trip. Non-closable alerts ignore it.
func (v alertView) Close() alertView {
	if v.current == nil || !v.current.Closable {
		return v
	}
	v.current = nil
	v.gen++
	v.service.Clear()
	return v
}

func (v alertView) View() string {
	if v.current == nil {
		return ""
	}

	style := alertStyles[v.current.Type]
	text := v.current.Message
	if v.current.Closable {
		text += "  [x]"
	}
	return style.Render(text)
}
