package errors

import (
	"math"
	"regexp"
	"unicode"
)

// idRegex matches schema, section, row and field ids.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateID validates an identifier used in schemas and preset lookups.
// It rejects ids that could not round-trip as raw value keys:
//   - No empty ids
//   - No control characters or whitespace
//   - Maximum length of 128 characters
//   - Must start with a letter or digit
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "%s id cannot be empty", kind)
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidID, "%s id too long (max 128 characters)", kind)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "%s id %q contains whitespace or control characters", kind, id)
		}
	}

	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid %s id: %q", kind, id)
	}

	return nil
}

// ValidateDimension validates a length in millimeters or points.
// Zero is allowed (it means "not set" for finish sizes); negative, NaN and
// infinite values are not.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidValue, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidValue, "%s cannot be negative (got %g)", name, v)
	}
	return nil
}

// ValidateCount validates a positive integer count such as a variant count.
func ValidateCount(name string, n, max int) error {
	if n < 1 {
		return New(ErrCodeInvalidValue, "%s must be at least 1 (got %d)", name, n)
	}
	if max > 0 && n > max {
		return New(ErrCodeInvalidValue, "%s too large (max %d, got %d)", name, max, n)
	}
	return nil
}
