package actor

import "errors"

// ErrDisconnected indicates that a channel closed, a respond token was
// dropped without replying, or the driver backing a sender has already
// terminated. It is never retryable by the framework.
var ErrDisconnected = errors.New("actor: disconnected")

// ErrTimeout indicates that a channel_send exceeded its configured send
// timeout. This surfaces actor-to-actor deadlocks and back-pressure as a
// failure instead of an indefinite hang.
var ErrTimeout = errors.New("actor: send timeout")

// OtherError wraps an arbitrary domain error produced by a handler or by
// type-erasure downcasting. It satisfies errors.Unwrap so callers can use
// errors.As/errors.Is against the wrapped error.
type OtherError struct {
	// Err is the underlying wrapped error.
	Err error
}

// Error implements the error interface.
func (e *OtherError) Error() string {
	return e.Err.Error()
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped error.
func (e *OtherError) Unwrap() error {
	return e.Err
}

// Wrap constructs an OtherError from an arbitrary error. A nil error
// returns nil, so Wrap is safe to call unconditionally on a fallible
// operation's result.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return &OtherError{Err: err}
}

// IsDisconnected reports whether err (or any error it wraps) is
// ErrDisconnected.
func IsDisconnected(err error) bool {
	return errors.Is(err, ErrDisconnected)
}

// IsTimeout reports whether err (or any error it wraps) is ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
