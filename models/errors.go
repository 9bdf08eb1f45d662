package models

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a referenced artifact that is absent on disk.
// Handlers translate it to a 404.
var ErrNotFound = errors.New("file not found")

// ValidationError reports missing or malformed caller input. Never
// retried; maps to a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports a missing credential or setting. Surfaced
// before any network call is attempted; maps to a 500.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// NewConfigurationError builds a ConfigurationError with a formatted message.
func NewConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ProviderError reports a vendor call that failed or returned an
// unexpected shape. Raw carries the vendor payload for diagnostics.
type ProviderError struct {
	Provider string
	Message  string
	Raw      string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("%s: %s (response: %s)", e.Provider, e.Message, e.Raw)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// JobTimeoutError reports a polling loop that exhausted its attempt
// budget without the provider reaching a terminal status. Kept distinct
// from ProviderError so callers can decide whether re-submitting is
// worthwhile.
type JobTimeoutError struct {
	Provider string
	Attempts int
}

func (e *JobTimeoutError) Error() string {
	return fmt.Sprintf("%s: job still processing after %d polls", e.Provider, e.Attempts)
}

// ExtractionError reports a local media-processing failure. Detail
// carries the underlying codec/process diagnostic.
type ExtractionError struct {
	Message string
	Detail  string
}

func (e *ExtractionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}
