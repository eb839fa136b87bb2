package errors

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// ValidateInstanceName validates an instance name before it is written into
// a solution record or used as a cache key component.
//
// The rules are conservative because the name ends up on its own line in a
// plain-text record:
//   - No empty names
//   - No control characters (newlines would corrupt the record)
//   - Maximum length of 256 characters
func ValidateInstanceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "instance name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "instance name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "instance name contains invalid control characters")
		}
	}
	return nil
}

// ValidateNonNegative rejects negative integer settings.
func ValidateNonNegative(field string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidOptions, "%s must not be negative, got %d", field, v)
	}
	return nil
}

// ValidatePositive rejects zero or negative integer settings.
func ValidatePositive(field string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidOptions, "%s must be positive, got %d", field, v)
	}
	return nil
}

// ValidateFraction validates a ratio in the half-open interval (0, 1].
// NaN and infinities are rejected.
func ValidateFraction(field string, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 || f > 1 {
		return New(ErrCodeInvalidOptions, "%s must be in (0, 1], got %v", field, f)
	}
	return nil
}

// ValidateChoice checks that v is one of the allowed values.
// Comparison is case-sensitive; allowed values are listed in the message.
func ValidateChoice(field, v string, allowed ...string) error {
	if slices.Contains(allowed, v) {
		return nil
	}
	return New(ErrCodeInvalidOptions, "%s must be one of [%s], got %q", field, strings.Join(allowed, ", "), v)
}
