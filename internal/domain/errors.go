package domain

import (
	"errors"
	"fmt"
)

// ErrorKind category of an engine error, stable across transports
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not-found"
	KindValidation       ErrorKind = "validation"
	KindConflict         ErrorKind = "conflict"
	KindAlreadyCancelled ErrorKind = "already-cancelled"
)

// Machine-readable reasons carried by validation and conflict errors
const (
	ReasonPast             = "past"
	ReasonInvertedInterval = "inverted-interval"
	ReasonNotBookable      = "not-bookable"
	ReasonSlotTaken        = "slot-taken"
	ReasonInvalidInput     = "invalid-input"
	ReasonInvalidSchedule  = "invalid-schedule"
	ReasonInvertedRange    = "inverted-range"
	ReasonRangeTooLong     = "range-too-long"
	ReasonInvalidTime      = "invalid-time"
)

// Error is a terminal, caller-recoverable engine error.
// errors.Is matches by kind, and also by reason when the target has one.
type Error struct {
	Kind    ErrorKind
	Reason  string
	Message string
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s(%s): %s", e.Kind, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

// Kind sentinels for errors.Is
var (
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation       = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict         = &Error{Kind: KindConflict, Message: "conflict"}
	ErrAlreadyCancelled = &Error{Kind: KindAlreadyCancelled, Message: "already cancelled"}
)

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewValidationError(reason, message string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: message}
}

func NewConflictError(reason, message string) *Error {
	return &Error{Kind: KindConflict, Reason: reason, Message: message}
}

func NewAlreadyCancelledError(message string) *Error {
	return &Error{Kind: KindAlreadyCancelled, Message: message}
}

// AsError extracts the engine error from a wrapped chain
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
