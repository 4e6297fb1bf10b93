package engine

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package matches exactly
// one of them under errors.Is. None of them is transient: callers abort the
// current game and never retry.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrProtocolViolation = errors.New("protocol violation")
	ErrValidation        = errors.New("validation error")
)

// Error carries the category, the failing operation and, when the failure
// happened inside the level recursion, the level it happened at.
type Error struct {
	Kind  error  // ErrConfiguration, ErrProtocolViolation or ErrValidation
	Op    string // e.g. "measure", "encode", "decode"
	Level int    // recursion level, -1 if not applicable
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	s := e.Kind.Error() + ": " + e.Op
	if e.Level >= 0 {
		s += fmt.Sprintf(" (level %d)", e.Level)
	}
	s += ": " + e.Msg
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches the error's category.
func (e *Error) Is(target error) bool { return target == e.Kind }

func configErrorf(op, format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Op: op, Level: -1, Msg: fmt.Sprintf(format, args...)}
}

func violationf(op string, level int, format string, args ...any) error {
	return &Error{Kind: ErrProtocolViolation, Op: op, Level: level, Msg: fmt.Sprintf(format, args...)}
}

func invalid(op, what string, cause error) error {
	return &Error{Kind: ErrValidation, Op: op, Level: -1, Msg: what, Cause: cause}
}
