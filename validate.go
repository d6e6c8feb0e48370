package astra

import (
	"fmt"
	"strings"
)

// Validate checks universal constraints on Request.
// Transport implementations may apply additional transport-specific validation.
func (r Request) Validate() error {
	switch r.Endpoint {
	case "", EndpointChat, EndpointBlocks:
		switch r.Context {
		case "", ContextFocus, ContextWorkbenchLeft, ContextWorkbenchRight:
		default:
			return fmt.Errorf("unknown context %q: %w", r.Context, ErrValidation)
		}
	case EndpointStudy:
		if r.SessionID == "" {
			return fmt.Errorf("study requests need a session id: %w", ErrValidation)
		}
	default:
		return fmt.Errorf("unknown endpoint %q: %w", r.Endpoint, ErrValidation)
	}
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("text must not be empty: %w", ErrValidation)
	}
	return nil
}
