package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePositive checks that an integer parameter is strictly positive.
func ValidatePositive(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %d", name, v)
	}
	return nil
}

// ValidateNonNegative checks that an integer parameter is zero or greater.
func ValidateNonNegative(name string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must be non-negative, got %d", name, v)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", name, v)
	}
	return nil
}

// ValidateFilename validates an output filename for safety.
// It must be a simple basename: the output directory is chosen separately
// and the pattern_/template_ prefixes are prepended to it.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}

	if len(filename) > 255 {
		return New(ErrCodeInvalidInput, "filename too long (max 255 characters)")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "filename contains invalid control characters")
		}
	}

	if strings.ContainsAny(filename, "/\\") || filename != filepath.Base(filename) {
		return New(ErrCodeInvalidInput, "filename cannot contain path separators: %q", filename)
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidInput, "filename cannot be a hidden file: %q", filename)
	}

	return nil
}
