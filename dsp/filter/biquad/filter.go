//nolint:funcorder
package biquad

import (
	"sync"

	archregistry "github.com/cwbudde/algo-stretch/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients holds the transfer function of one biquad with a0
// normalized to 1. Designs are computed at this precision and narrowed to
// float32 when installed in a Filter.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Filter is a single-channel biquad with float32 coefficients and state.
// The zero value is silent; use New for a pass-through filter.
type Filter struct {
	b0, b1, b2 float32
	a1, a2     float32

	d0, d1 float32
}

var (
	processBlockImpl     archregistry.ProcessBlockFn
	processBlockInitOnce sync.Once
)

// New returns a pass-through filter (B0 = 1) with zeroed state.
func New() *Filter {
	return &Filter{b0: 1}
}

// NewFromCoefficients returns a filter with the given coefficients.
func NewFromCoefficients(c Coefficients) *Filter {
	f := &Filter{}
	f.SetCoefficients(c)
	return f
}

// SetCoefficients installs all five coefficients. State is kept.
func (f *Filter) SetCoefficients(c Coefficients) {
	f.b0, f.b1, f.b2 = float32(c.B0), float32(c.B1), float32(c.B2)
	f.a1, f.a2 = float32(c.A1), float32(c.A2)
}

// Coefficients returns the installed coefficients.
func (f *Filter) Coefficients() Coefficients {
	return Coefficients{
		B0: float64(f.b0), B1: float64(f.b1), B2: float64(f.b2),
		A1: float64(f.a1), A2: float64(f.a2),
	}
}

// Lowpass designs a resonant lowpass at freq (cycles/sample).
func (f *Filter) Lowpass(freq, q float64, design ...Design) *Filter {
	return f.apply(Lowpass(freq, q, pick(design)))
}

// Highpass designs a resonant highpass at freq.
func (f *Filter) Highpass(freq, q float64, design ...Design) *Filter {
	return f.apply(Highpass(freq, q, pick(design)))
}

// Allpass designs a second-order allpass at freq.
func (f *Filter) Allpass(freq, q float64, design ...Design) *Filter {
	return f.apply(Allpass(freq, q, pick(design)))
}

// Bandpass designs a bandpass of the given width in octaves.
func (f *Filter) Bandpass(freq, octaves float64, design ...Design) *Filter {
	return f.apply(Bandpass(freq, octaves, pick(design)))
}

// Notch designs a notch of the given width in octaves.
func (f *Filter) Notch(freq, octaves float64, design ...Design) *Filter {
	return f.apply(Notch(freq, octaves, pick(design)))
}

// Peak designs a peaking EQ band.
func (f *Filter) Peak(freq, octaves, gainDB float64, design ...Design) *Filter {
	return f.apply(Peak(freq, octaves, gainDB, pick(design)))
}

// LowShelf designs a low shelf.
func (f *Filter) LowShelf(freq, gainDB float64, design ...Design) *Filter {
	return f.apply(LowShelf(freq, gainDB, pick(design)))
}

// HighShelf designs a high shelf.
func (f *Filter) HighShelf(freq, gainDB float64, design ...Design) *Filter {
	return f.apply(HighShelf(freq, gainDB, pick(design)))
}

func (f *Filter) apply(c Coefficients) *Filter {
	f.SetCoefficients(c)
	return f
}

func pick(design []Design) Design {
	if len(design) == 0 {
		return DefaultDesign
	}
	return design[0]
}

// ProcessSample filters one sample.
func (f *Filter) ProcessSample(x float32) float32 {
	y := f.b0*x + f.d0
	f.d0 = f.b1*x - f.a1*y + f.d1
	f.d1 = f.b2*x - f.a2*y

	return y
}

// ProcessBuffer filters len(input) samples into output, which must be at
// least as long. input and output may be the same slice. Zero-alloc.
func (f *Filter) ProcessBuffer(input, output []float32) {
	if len(input) == 0 {
		return
	}
	_ = output[len(input)-1] // bounds check hint

	processBlockInitOnce.Do(initProcessBlockKernel)

	coeffs := archregistry.Coefficients{
		B0: f.b0, B1: f.b1, B2: f.b2,
		A1: f.a1, A2: f.a2,
	}

	f.d0, f.d1 = processBlockImpl(coeffs, f.d0, f.d1, output[:len(input)], input)
}

// ProcessInPlace filters buf in place.
func (f *Filter) ProcessInPlace(buf []float32) {
	f.ProcessBuffer(buf, buf)
}

func initProcessBlockKernel() {
	entry := archregistry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		panic("biquad: no ProcessBlock kernel registered (missing generic fallback?)")
	}

	if entry.ProcessBlock == nil {
		panic("biquad: selected kernel missing ProcessBlock")
	}

	processBlockImpl = entry.ProcessBlock
}

// Reset clears the state registers. Coefficients are kept.
func (f *Filter) Reset() {
	f.d0 = 0
	f.d1 = 0
}

// State returns the current state registers [d0, d1].
func (f *Filter) State() [2]float32 {
	return [2]float32{f.d0, f.d1}
}

// SetState restores previously saved state registers.
func (f *Filter) SetState(state [2]float32) {
	f.d0 = state[0]
	f.d1 = state[1]
}
