package errors

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid construction parameter. It is always
// raised before any network I/O happens.
type ConfigurationError struct {
	// Field names the offending parameter, e.g. "table_name".
	Field string

	// Reason describes why the value was rejected.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// NewConfigurationError creates a ConfigurationError for the given field.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

// ConnectionError reports a store or transport level failure.
type ConnectionError struct {
	// Op identifies the operation that failed, e.g. "open pool" or
	// "get-or-insert".
	Op string

	// Err is the underlying driver error.
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError wraps a driver error with the operation that raised it.
func NewConnectionError(op string, err error) *ConnectionError {
	return &ConnectionError{Op: op, Err: err}
}

// InvalidResponseError reports that the store responded with a shape that
// violates the gateway contract. Expected and Got carry row counts when the
// violation is a count mismatch; both are zero when the violation is a
// missing row.
type InvalidResponseError struct {
	Expected int
	Got      int
	Reason   string
}

func (e *InvalidResponseError) Error() string {
	if e.Expected != e.Got {
		return fmt.Sprintf("invalid store response: expected %d rows, got %d: %s", e.Expected, e.Got, e.Reason)
	}
	return fmt.Sprintf("invalid store response: %s", e.Reason)
}

// CanonicalisationError reports that a value could not be rendered to its
// canonical form.
type CanonicalisationError struct {
	Reason string
}

func (e *CanonicalisationError) Error() string {
	return fmt.Sprintf("canonicalisation failed: %s", e.Reason)
}

// NewCanonicalisationError creates a CanonicalisationError with the given
// reason.
func NewCanonicalisationError(format string, args ...any) *CanonicalisationError {
	return &CanonicalisationError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsConnectionError reports whether err is or wraps a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsInvalidResponseError reports whether err is or wraps an
// InvalidResponseError.
func IsInvalidResponseError(err error) bool {
	var ie *InvalidResponseError
	return errors.As(err, &ie)
}

// IsCanonicalisationError reports whether err is or wraps a
// CanonicalisationError.
func IsCanonicalisationError(err error) bool {
	var ce *CanonicalisationError
	return errors.As(err, &ce)
}
