package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrEmptyContext is returned when a prompt is empty. It is raised
	// before any backend call and is never retried.
	ErrEmptyContext = errors.New("prompt context is empty")

	// ErrVerificationFailed is returned when a backend result carries an
	// attestation that fails validation. It is always fatal.
	ErrVerificationFailed = errors.New("result verification failed")
)

// ParseError reports backend output that could not be coerced into the
// requested shape.
type ParseError struct {
	Shape OutputShape
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse backend output as %s: %v", e.Shape, e.Err)
	}
	return fmt.Sprintf("cannot parse backend output as %s", e.Shape)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type nonRetryableError struct {
	err error
}

func (e *nonRetryableError) Error() string {
	return e.err.Error()
}

func (e *nonRetryableError) Unwrap() error {
	return e.err
}

// NonRetryable marks err so that DefaultShouldRetry refuses to retry it.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &nonRetryableError{err: err}
}

// IsNonRetryable reports whether err was marked with NonRetryable.
func IsNonRetryable(err error) bool {
	var marked *nonRetryableError
	return errors.As(err, &marked)
}

// DefaultShouldRetry is the retry predicate applied when a RetryPolicy does
// not set one: retry everything except malformed-call and malformed-output
// failures, verification failures, and context cancellation.
func DefaultShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrEmptyContext) || errors.Is(err, ErrVerificationFailed) {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var parseErr *ParseError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &parseErr) {
		return false
	}

	return !IsNonRetryable(err)
}
