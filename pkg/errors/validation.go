package errors

import (
	"math"
	"unicode"
)

// maxNodeIDLength bounds ids accepted from requests and gesture scripts.
const maxNodeIDLength = 1024

// ValidateNodeID checks an id received from outside the process (HTTP
// request, gesture script). Tree files are validated by the tree package.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains control characters")
		}
	}
	return nil
}

// ValidatePoint rejects NaN and infinite coordinates.
func ValidatePoint(x, y float64) error {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return New(ErrCodeInvalidInput, "coordinates must be finite, got (%v, %v)", x, y)
	}
	return nil
}
