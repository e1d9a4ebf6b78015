package ecs

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrorKind classifies the taxonomy of error §7 of the design describes.
// PreconditionViolated and Capacity/NameConflict are always raised as a
// panic rather than returned, since they signal a programming error; only
// snapshot operations return an error value (SnapshotInvalid).
type ErrorKind int

const (
	// ErrPrecondition marks a structural change attempted during
	// iteration, or a get/single call against a missing entity or
	// component. Always a panic.
	ErrPrecondition ErrorKind = iota
	// ErrCapacity marks registration of more than MaxComponentTypes
	// distinct component types. Always a panic.
	ErrCapacity
	// ErrNameConflict marks a stable-name registration collision.
	// Always a panic.
	ErrNameConflict
	// ErrSnapshotInvalid marks a malformed or incompatible snapshot
	// stream. Returned to the caller of Load, never panics.
	ErrSnapshotInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case ErrPrecondition:
		return "precondition violated"
	case ErrCapacity:
		return "capacity exceeded"
	case ErrNameConflict:
		return "name conflict"
	case ErrSnapshotInvalid:
		return "snapshot invalid"
	default:
		return "unknown"
	}
}

// Error wraps an ErrorKind with a human-readable message and, for errors
// raised while decoding a snapshot stream, the underlying I/O error that
// triggered it. Load returns it (Save returns the underlying write or
// serializer error as is); everything else panics with it.
type Error struct {
	Kind  ErrorKind
	Msg   string
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ecs: %s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the underlying I/O error, if any, so callers can use
// errors.Is/errors.As against it (for example, checking io.EOF).
func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// wrapError builds a SnapshotInvalid-style error whose message is produced
// by pkgerrors.Wrapf, which appends cause's own message to the formatted
// context. Only that message string and cause itself are kept; the stack
// trace Wrapf records is discarded.
func wrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	wrapped := pkgerrors.Wrapf(cause, format, args...)
	return &Error{Kind: kind, Msg: wrapped.Error(), cause: cause}
}

func panicf(kind ErrorKind, format string, args ...any) {
	panic(newError(kind, format, args...))
}
