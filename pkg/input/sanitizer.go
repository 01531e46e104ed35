// Package input guards user-supplied identifiers and words before they reach
// the generator or the dictionary.
package input

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 4KB (conservative default)
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "MOSAIC_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
	ErrEmpty         = errors.New("input is empty")
)

// Sanitizer enforces a byte limit on inputs. The zero value uses the
// environment override or DefaultMaxInputSize.
type Sanitizer struct {
	MaxSize int
}

// New returns a Sanitizer limited to maxSize bytes. Non-positive sizes fall
// back to the default.
func New(maxSize int) Sanitizer {
	return Sanitizer{MaxSize: maxSize}
}

func (s Sanitizer) limit() int {
	if s.MaxSize > 0 {
		return s.MaxSize
	}
	return MaxInputSize()
}

// Limit returns the effective byte limit.
func (s Sanitizer) Limit() int {
	return s.limit()
}

// Identifier only enforces the size limit. Any string, including the empty
// one and invalid UTF-8, is a valid avatar identifier; rewriting it would
// change the seed.
func (s Sanitizer) Identifier(input string) (string, error) {
	if limit := s.limit(); len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	return input, nil
}

// Word cleans a dictionary term: size limit, UTF-8 check, control characters
// removed and surrounding whitespace trimmed. An empty result is rejected.
func (s Sanitizer) Word(input string) (string, error) {
	clean, err := s.Sanitize(input)
	if err != nil {
		return "", err
	}
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return "", ErrEmpty
	}
	return clean, nil
}

// Sanitize cleans user input by enforcing size limits,
// validating UTF-8, and stripping dangerous control characters.
func (s Sanitizer) Sanitize(input string) (string, error) {
	// 1. Enforce Size Limit
	limit := s.limit()
	if len(input) > limit {
		// Reject rather than truncate.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	// 2. Validate UTF-8
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// 3. Strip Control Characters
	// Newline, tab and carriage return survive; ESC, NULL, BEL and the rest
	// are removed so they cannot reach logs or terminals.

	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Sanitize runs the default Sanitizer.
func Sanitize(input string) (string, error) {
	return Sanitizer{}.Sanitize(input)
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

// MaxInputSize returns the limit from EnvMaxInputSize, or the default.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
