package astra

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrUnauthorized indicates the server rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// RemoteError is an error the server reported inside the stream. It is
// delivered through Handler.OnError without ending the stream.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "remote: " + e.Message
}
