package planner

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateItem   = errors.New("duplicate item")
	ErrNotAllowed      = errors.New("not allowed")
)

// ArgumentError reports a malformed coordinate or value passed across the
// planner API.
type ArgumentError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// GateError is returned when the edit gate refuses an operation.
type GateError struct {
	Op     string
	At     Coord
	Reason string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("cannot %s at %s: %s", e.Op, e.At, e.Reason)
}

func (e *GateError) Is(target error) bool {
	return target == ErrNotAllowed
}

func invalid(field, value, reason string) error {
	return &ArgumentError{Field: field, Value: value, Reason: reason}
}
