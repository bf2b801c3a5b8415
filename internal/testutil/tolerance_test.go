package testutil

import (
	"math"
	"testing"
)

func TestRequireNearlyEqualSpecials(t *testing.T) {
	RequireNearlyEqual(t, math.NaN(), math.NaN(), 0)
	RequireNearlyEqual(t, math.Inf(1), math.Inf(1), 0)
	RequireNearlyEqual(t, math.Inf(-1), math.Inf(-1), 0)
	RequireNearlyEqual(t, 1.0, 1.0+1e-12, 1e-9)
}

func TestRequireSliceNearlyEqualNaN(t *testing.T) {
	a := []float64{math.NaN(), 1, 2}
	b := []float64{math.NaN(), 1, 2 + 1e-12}
	RequireSliceNearlyEqual(t, a, b, 1e-9)
}

func TestRequireFinite(t *testing.T) {
	RequireFinite(t, []float64{0, -1.5, 3e8})
}
