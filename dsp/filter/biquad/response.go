package biquad

import (
	"math"
	"math/cmplx"
)

// Response computes H(e^jw) at freq in cycles/sample.
func (c Coefficients) Response(freq float64) complex128 {
	w := 2 * math.Pi * freq
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := ejw * ejw

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w
	return num / den
}

// MagnitudeSquared returns |H(f)|^2 in closed form.
func (c Coefficients) MagnitudeSquared(freq float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freq)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw
	return num / den
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c Coefficients) MagnitudeDB(freq float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freq))
}

// Phase returns the phase response in radians, in [-pi, pi].
func (c Coefficients) Phase(freq float64) float64 {
	return cmplx.Phase(c.Response(freq))
}

// DCGain returns H(1), the response to a constant input.
func (c Coefficients) DCGain() float64 {
	return (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
}

// NyquistGain returns H(-1).
func (c Coefficients) NyquistGain() float64 {
	return (c.B0 - c.B1 + c.B2) / (1 - c.A1 + c.A2)
}

// Response computes the cascaded response including the input gain.
func (c *Chain) Response(freq float64) complex128 {
	h := complex(float64(c.gain), 0)
	for i := range c.filters {
		h *= c.filters[i].Coefficients().Response(freq)
	}
	return h
}

// MagnitudeDB returns the cascaded magnitude response in dB.
func (c *Chain) MagnitudeDB(freq float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freq)))
}

// ImpulseResponse returns n samples of the filter's impulse response.
// State is saved and restored, so the filter is not modified.
func (f *Filter) ImpulseResponse(n int) []float32 {
	if n <= 0 {
		return nil
	}
	saved := f.State()
	f.Reset()
	ir := make([]float32, n)
	ir[0] = f.ProcessSample(1)
	for i := 1; i < n; i++ {
		ir[i] = f.ProcessSample(0)
	}
	f.SetState(saved)
	return ir
}

// ImpulseResponse returns n samples of the cascade impulse response.
// The chain state is saved and restored.
func (c *Chain) ImpulseResponse(n int) []float32 {
	if n <= 0 {
		return nil
	}
	saved := c.State()
	c.Reset()
	ir := make([]float32, n)
	ir[0] = c.ProcessSample(1)
	for i := 1; i < n; i++ {
		ir[i] = c.ProcessSample(0)
	}
	c.SetState(saved)
	return ir
}
