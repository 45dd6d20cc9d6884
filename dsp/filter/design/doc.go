// Package design provides Hz-domain front ends for the biquad designers.
//
// The biquad package works in normalized frequency and does not validate
// its inputs. The functions here take a frequency in Hz and a sample rate,
// reject non-finite or out-of-band parameters by returning zero
// Coefficients (or nil cascades), and then delegate to [biquad.Compute]
// with the requested [biquad.Design] method.
//
// Butterworth cascades of arbitrary order are built from second-order
// stages plus a first-order stage for odd orders.
package design
