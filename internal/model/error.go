package model

import "errors"

// ErrNotFound is returned when the API reports no product for a given ID.
var ErrNotFound = errors.New("product not found")

// TransportError is the normalised form of any network or backend failure.
// Callers must not assume anything beyond the human-readable message.
type TransportError struct {
	Message string
}

func (e *TransportError) Error() string {
	return e.Message
}

// NewTransportError creates a transport error carrying only a message.
func NewTransportError(message string) *TransportError {
	return &TransportError{Message: message}
}
