package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateProportion checks that an edges proportion lies in (0, 1].
func ValidateProportion(p float64) error {
	if math.IsNaN(p) || p <= 0 || p > 1 {
		return New(ErrCodeInvalidConfig, "edges proportion %v outside (0, 1]", p)
	}
	return nil
}

// ValidateMinWeight checks that a node-filter threshold is a real number.
// Zero and negative thresholds are accepted and keep every node.
func ValidateMinWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeInvalidConfig, "min weight must be finite, got %v", w)
	}
	return nil
}

// ValidateOpacity checks that an opacity lies in [0, 1].
func ValidateOpacity(o float64) error {
	if math.IsNaN(o) || o < 0 || o > 1 {
		return New(ErrCodeInvalidConfig, "opacity %v outside [0, 1]", o)
	}
	return nil
}

// ValidateSeparator checks that a category separator is a non-empty string
// without whitespace.
func ValidateSeparator(sep string) error {
	if sep == "" {
		return New(ErrCodeInvalidConfig, "category separator cannot be empty")
	}
	if strings.IndexFunc(sep, unicode.IsSpace) >= 0 {
		return New(ErrCodeInvalidConfig, "category separator cannot contain whitespace")
	}
	return nil
}

// ValidatePath validates a user supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
