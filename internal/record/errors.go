package record

import (
	"errors"
	"fmt"
)

// ValidationError reports why a candidate event was rejected. The code is
// stable for callers that branch on it; the message is safe to show to
// the end user as-is.
type ValidationError struct {
	// Code identifies the rejection category.
	Code ValidationCode

	// Message is a human-readable description.
	Message string

	// Position is the 1-based index of the offending event in the
	// time-sorted sequence. Only set for alternation violations.
	Position int
}

// ValidationCode categorizes validation rejections.
type ValidationCode string

const (
	// ErrCodeFutureDate rejects a day later than today in the local offset.
	ErrCodeFutureDate ValidationCode = "FUTURE_DATE"

	// ErrCodeFutureTimeToday rejects a time later than now on today's date.
	ErrCodeFutureTimeToday ValidationCode = "FUTURE_TIME_TODAY"

	// ErrCodeTooFarInPast rejects a day beyond the back-dating window.
	ErrCodeTooFarInPast ValidationCode = "TOO_FAR_IN_PAST"

	// ErrCodeImplausibleHour rejects a time inside the quiet-hours window.
	ErrCodeImplausibleHour ValidationCode = "IMPLAUSIBLE_HOUR"

	// ErrCodeDuplicateInstant rejects an instant already taken by another event.
	ErrCodeDuplicateInstant ValidationCode = "DUPLICATE_INSTANT"

	// ErrCodeBrokenAlternation rejects a sequence that stops alternating
	// in/out or starts with out.
	ErrCodeBrokenAlternation ValidationCode = "BROKEN_ALTERNATION"
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("%s: %s (position %d)", e.Code, e.Message, e.Position)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NewValidationError creates a ValidationError without position context.
func NewValidationError(code ValidationCode, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// NewAlternationError creates a broken-alternation error pointing at the
// 1-based position of the offending event in the sorted sequence.
func NewAlternationError(message string, position int) *ValidationError {
	return &ValidationError{Code: ErrCodeBrokenAlternation, Message: message, Position: position}
}
