package kb

import (
	"errors"
	"fmt"
)

// RuntimeError reports a per-call error from an engine query. Queries
// never corrupt engine state: a failed call leaves the rule store and
// the run state exactly as they were.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string
}

// RuntimeErrorCode categorizes engine runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeLetterOutOfRange indicates a query word containing a
	// letter outside the presentation's alphabet.
	ErrCodeLetterOutOfRange RuntimeErrorCode = "LETTER_OUT_OF_RANGE"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLetterError reports whether err is (or wraps) an out-of-alphabet
// letter error.
func IsLetterError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeLetterOutOfRange
	}
	return false
}
