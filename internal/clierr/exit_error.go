// Package clierr carries process exit codes on errors.
package clierr

import (
	"errors"
	"fmt"
)

const (
	CodeFailure    = 2
	CodeResolution = 3
	CodeTemplate   = 4
)

type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError wraps a cause with the exit code the process should end with.
type ExitError struct {
	code  int
	cause error
}

func (e *ExitError) Error() string { return e.cause.Error() }

func (e *ExitError) ExitCode() int { return e.code }

func (e *ExitError) Unwrap() error { return e.cause }

// Wrap attaches code to cause. A nil cause stays nil.
func Wrap(code int, cause error) error {
	if cause == nil {
		return nil
	}
	if code <= 0 {
		code = CodeFailure
	}
	return &ExitError{code: code, cause: cause}
}

func Wrapf(code int, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return Wrap(code, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), cause))
}

// ExitCodeOf extracts an exit code from any error, defaulting to CodeFailure.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return CodeFailure
}
