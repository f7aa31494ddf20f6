// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/bankstacx/bankstacx/pkg/constants"
)

// ratioPrecision is the number of decimal places kept when rounding ratios
// for display.
const ratioPrecision = 1e6

// RoundRatio rounds a ratio to six decimals for display purposes. Engine
// computations always carry full precision.
func RoundRatio(val float64) float64 {
	return math.Round(val*ratioPrecision) / ratioPrecision
}

// RatioEqual checks if two ratio values agree within the standard tolerance.
func RatioEqual(a, b float64) bool {
	return WithinTolerance(a, b, constants.RatioTolerance)
}

// WithinTolerance checks if two values are within a specified tolerance.
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}
