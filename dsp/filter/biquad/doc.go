// Package biquad provides a float32 second-order IIR filter and the
// coefficient designs that configure it.
//
// A [Filter] runs Direct Form II Transposed with float32 coefficients and
// state. Design calls such as [Filter.Lowpass] or [Filter.Peak] compute all
// five coefficients in float64 and install them at once; the trailing
// [Design] argument picks one of four methods (bilinear, cookbook,
// one-sided, Vicanek) and defaults to [DesignCookbook].
//
// Frequencies are normalized to cycles per sample. The Hz-based wrappers in
// dsp/filter/design convert for callers that think in Hz. Parameters are
// trusted: q and bandwidth must be positive and frequencies inside (0, 0.5).
//
// One Filter holds one channel of state. Use one Filter per channel, or a
// [Chain] for a cascade.
package biquad
