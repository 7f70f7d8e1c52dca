package progress

import "math"

// RoundHalfUp rounds to the nearest integer with midpoints rounded away from zero.
func RoundHalfUp(value float64) int {
	// strip float noise so 70.49999999 computed from 70.5 still rounds up
	scrubbed := math.Round(value*1e6) / 1e6
	return int(math.Round(scrubbed))
}

// Percentage returns round-half-up(100 * part / whole) using integer math.
// A zero or negative whole yields 0.
func Percentage(part, whole int) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	if part > whole {
		part = whole
	}
	return (200*part + whole) / (2 * whole)
}
