// Package metrics derives convergence metrics from error series and formats
// numbers for reports.
package metrics

import (
	"math"
)

// StepRatio is the ratio between consecutive step sizes in the input data.
const StepRatio = 2.0

// Order returns the empirical convergence order log2(|errPrev / errCurr|),
// where errPrev belongs to the larger step size. It returns NaN when either
// error is zero or non-finite, or when the ratio cannot be formed.
func Order(errPrev, errCurr float64) float64 {
	a := math.Abs(errPrev)
	b := math.Abs(errCurr)
	if a == 0 || b == 0 || !isFinite(a) || !isFinite(b) {
		return math.NaN()
	}
	ratio := a / b
	if !isFinite(ratio) || ratio == 0 {
		return math.NaN()
	}
	return math.Log2(ratio)
}

// Orders applies Order to consecutive entries of errs. The first entry has no
// predecessor and is NaN.
func Orders(errs []float64) []float64 {
	out := make([]float64, len(errs))
	for i := range errs {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = Order(errs[i-1], errs[i])
	}
	return out
}

// IsDefined reports whether an order value should be displayed.
func IsDefined(order float64) bool {
	return isFinite(order)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
