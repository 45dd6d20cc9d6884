//go:build fastmath

package stretch

import "github.com/meko-christian/algo-approx"

// magnitudes computes dst[k] = sqrt(re[k]^2 + im[k]^2) with a fast
// square root approximation.
func magnitudes(dst, re, im []float64) {
	for k := range dst {
		dst[k] = approx.FastSqrt(re[k]*re[k] + im[k]*im[k])
	}
}
