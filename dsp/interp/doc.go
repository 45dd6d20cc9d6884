// Package interp provides the fractional interpolation kernel shared by the
// delay and the spectral transposer. [Linear2] is generic over float32 and
// float64 sample types.
package interp
