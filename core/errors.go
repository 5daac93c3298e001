package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the wire, transport and deliberation layers.
// Match them with errors.Is; concrete failures wrap them with context.
var (
	// ErrResourceExhausted reports that no port in the configured range could be bound.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrMalformedFrame reports a stream that ended (or overflowed) before a frame field was complete.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrInvalidSender reports a decoded sender that is not a known peer.
	ErrInvalidSender = errors.New("invalid message sender")
	// ErrInvalidMessageKind reports a decoded message kind outside the known enumeration.
	ErrInvalidMessageKind = errors.New("invalid message kind")
	// ErrDeliveryFailed reports an outbound connect or write failure.
	ErrDeliveryFailed = errors.New("delivery failed")
	// ErrSchemaViolation reports a reasoning response that does not carry exactly one decision.
	ErrSchemaViolation = errors.New("response is not in the correct schema")
	// ErrUnknownPeer reports a lookup of a peer name absent from a peer table.
	ErrUnknownPeer = errors.New("unknown peer")
)

// Error wraps one of the sentinels above with the failing operation and an
// optional human readable detail.
type Error struct {
	Op     string // operation, e.g. "ear.handle" or "optimizer.parse"
	Err    error  // underlying sentinel or wrapped error
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

// Unwrap exposes the wrapped sentinel to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates an Error for op wrapping err.
func NewError(op string, err error, detail string) *Error {
	return &Error{Op: op, Err: err, Detail: detail}
}

// Errorf is NewError with a formatted detail.
func Errorf(op string, err error, format string, args ...any) *Error {
	return &Error{Op: op, Err: err, Detail: fmt.Sprintf(format, args...)}
}
