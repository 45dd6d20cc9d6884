//go:build !fastmath

package stretch

import "github.com/cwbudde/algo-vecmath"

// magnitudes computes dst[k] = sqrt(re[k]^2 + im[k]^2).
func magnitudes(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}
