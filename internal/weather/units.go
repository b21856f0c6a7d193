package weather

import "math"

// CToF converts Celsius to whole degrees Fahrenheit.
func CToF(c float64) int {
	return int(RoundHalfUp(c*9/5 + 32))
}

// RoundHalfUp rounds to the nearest integer, with halves going towards +Inf
// (-2.5 becomes -2).
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
