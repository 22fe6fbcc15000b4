package present

import (
	"errors"
	"fmt"
)

// ValidationError reports a structural problem with a presentation.
// Detected before any engine state is created, so a failed validation
// never leaves partial rules behind.
type ValidationError struct {
	// Code identifies the error category.
	Code ValidationErrorCode

	// Message is a human-readable description.
	Message string

	// Relation is the index of the offending relation, or -1 when the
	// error is not tied to a particular relation.
	Relation int
}

// ValidationErrorCode categorizes presentation validation errors.
type ValidationErrorCode string

const (
	// ErrCodeEmptyAlphabet indicates relations over an empty alphabet.
	ErrCodeEmptyAlphabet ValidationErrorCode = "EMPTY_ALPHABET"

	// ErrCodeLetterOutOfRange indicates a relation letter outside the alphabet.
	ErrCodeLetterOutOfRange ValidationErrorCode = "LETTER_OUT_OF_RANGE"

	// ErrCodeEmptyWord indicates an empty relation side in a semigroup
	// presentation (only monoid presentations contain the empty word).
	ErrCodeEmptyWord ValidationErrorCode = "EMPTY_WORD"
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Relation > 0 || e.Code == ErrCodeLetterOutOfRange || e.Code == ErrCodeEmptyWord {
		return fmt.Sprintf("%s: %s (relation=%d)", e.Code, e.Message, e.Relation)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
