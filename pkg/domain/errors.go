package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every ConfigError.
var ErrConfiguration = errors.New("invalid configuration")

// ErrEncoding is matched by every EncodingError.
var ErrEncoding = errors.New("image encoding failed")

// ErrUnknownFormat is returned when an output format has no registered encoder.
var ErrUnknownFormat = errors.New("unknown image format")

// ErrSecretNotFound is returned when a secret name cannot be found in the store.
var ErrSecretNotFound = errors.New("secret not found")

// ErrCacheMiss is returned by avatar caches when no entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// ConfigError reports a single invalid generation setting.
// It is raised before any pixel work begins.
type ConfigError struct {
	Field  string // Setting name
	Reason string // Human-readable reason for failure
	Value  any    // The offending value
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s: %s (got %v)", e.Field, e.Reason, e.Value)
}

// Is makes errors.Is(err, ErrConfiguration) succeed.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// EncodingError wraps a failure from an image encoder or its sink.
// Unwrap returns the original error untouched.
type EncodingError struct {
	Format Format
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrEncoding) succeed.
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}
