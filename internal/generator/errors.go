package generator

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrMissingCredential  = errors.New("API key is required")
	ErrNotInitialized     = errors.New("generation client has not been initialized; provide an API key")
	ErrInvalidCredential  = errors.New("API key is not valid")
	ErrServiceUnavailable = errors.New("generation service is unavailable")
)

// invalidKeyMarker is the fragment the Gemini API puts in its message when it rejects a key.
const invalidKeyMarker = "API key not valid"

// Classify maps a raw backend error onto ErrInvalidCredential or ErrServiceUnavailable.
// The result wraps both the kind and the original error, so errors.Is works for either.
// A nil error stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidCredential) || errors.Is(err, ErrServiceUnavailable) {
		return err
	}
	if strings.Contains(err.Error(), invalidKeyMarker) {
		return &classifiedError{kind: ErrInvalidCredential, cause: err}
	}
	return &classifiedError{kind: ErrServiceUnavailable, cause: err}
}

type classifiedError struct {
	kind  error
	cause error
}

func (e *classifiedError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *classifiedError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

// IsTransient reports whether err is worth retrying by hand.
func IsTransient(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, context.DeadlineExceeded)
}

// IsInvalidCredential reports whether err was classified as a rejected key.
func IsInvalidCredential(err error) bool {
	return errors.Is(err, ErrInvalidCredential)
}
