package helpers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ClampFloor bounds value from below.
func ClampFloor(value float64, floor float64) float64 {
	if value < floor {
		return floor
	}
	return value
}

// FormatFloat renders value with the given number of decimal places.
func FormatFloat(value float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, value)
}

// ParseDecimal parses a user supplied decimal string. A missing or
// malformed value yields ok=false rather than an error, callers turn that
// into a validation message. NaN and infinities count as malformed:
// strconv accepts them but they poison every range comparison downstream.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func Min(a float64, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
