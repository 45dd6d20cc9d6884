package design

import (
	"math"

	"github.com/cwbudde/algo-stretch/dsp/filter/biquad"
)

const (
	defaultQ       = 1 / math.Sqrt2
	defaultOctaves = 1.0
)

// BilinearTransform converts an analog second-order polynomial
// c0*s^2 + c1*s + c2 into the digital z^-1-domain polynomial
// d0 + d1*z^-1 + d2*z^-2 using the bilinear transform.
//
// The returned coefficients are normalized such that d0 = 1.
func BilinearTransform(sCoeffs [3]float64, sampleRate float64) [3]float64 {
	if sampleRate <= 0 {
		return [3]float64{1, 0, 0}
	}

	k := 2 * sampleRate
	c0, c1, c2 := sCoeffs[0], sCoeffs[1], sCoeffs[2]

	d0 := c0*k*k + c1*k + c2
	d1 := -2*c0*k*k + 2*c2
	d2 := c0*k*k - c1*k + c2

	if d0 == 0 || math.IsNaN(d0) || math.IsInf(d0, 0) {
		return [3]float64{1, 0, 0}
	}

	return [3]float64{1, d1 / d0, d2 / d0}
}

// Lowpass designs a lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64, method biquad.Design) biquad.Coefficients {
	return withQ(biquad.ShapeLowpass, freq, q, sampleRate, method)
}

// Highpass designs a highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64, method biquad.Design) biquad.Coefficients {
	return withQ(biquad.ShapeHighpass, freq, q, sampleRate, method)
}

// Allpass designs an allpass biquad centered at freq (Hz).
func Allpass(freq, q, sampleRate float64, method biquad.Design) biquad.Coefficients {
	return withQ(biquad.ShapeAllpass, freq, q, sampleRate, method)
}

// Bandpass designs a unity-peak bandpass with the given bandwidth in octaves.
func Bandpass(freq, octaves, sampleRate float64, method biquad.Design) biquad.Coefficients {
	return withOctaves(biquad.ShapeBandpass, freq, octaves, 0, sampleRate, method)
}

// Notch designs a notch biquad centered at freq (Hz).
func Notch(freq, octaves, sampleRate float64, method biquad.Design) biquad.Coefficients {
	return withOctaves(biquad.ShapeNotch, freq, octaves, 0, sampleRate, method)
}

// Peak designs a peaking-EQ biquad with gain in dB.
func Peak(freq, gainDB, octaves, sampleRate float64, method biquad.Design) biquad.Coefficients {
	return withOctaves(biquad.ShapePeak, freq, octaves, gainDB, sampleRate, method)
}

// LowShelf designs a low-shelf biquad with gain in dB. The transition
// bandwidth is fixed at [biquad.LowShelfBandwidth].
func LowShelf(freq, gainDB, sampleRate float64, method biquad.Design) biquad.Coefficients {
	return withOctaves(biquad.ShapeLowShelf, freq, biquad.LowShelfBandwidth, gainDB, sampleRate, method)
}

// HighShelf designs a high-shelf biquad with gain in dB.
func HighShelf(freq, gainDB, sampleRate float64, method biquad.Design) biquad.Coefficients {
	return withOctaves(biquad.ShapeHighShelf, freq, biquad.HighShelfBandwidth, gainDB, sampleRate, method)
}

func withQ(shape biquad.Shape, freq, q, sampleRate float64, method biquad.Design) biquad.Coefficients {
	f, ok := normalizedFreq(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	return biquad.Compute(shape, f, positiveOr(q, defaultQ), 0, method)
}

func withOctaves(shape biquad.Shape, freq, octaves, gainDB, sampleRate float64, method biquad.Design) biquad.Coefficients {
	f, ok := normalizedFreq(freq, sampleRate)
	if !ok || !finite(gainDB) {
		return biquad.Coefficients{}
	}

	return biquad.Compute(shape, f, positiveOr(octaves, defaultOctaves), gainDB, method)
}

// normalizedFreq returns freq/sampleRate when 0 < freq < sampleRate/2.
func normalizedFreq(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || !finite(sampleRate) {
		return 0, false
	}

	if freq <= 0 || freq >= sampleRate/2 || !finite(freq) {
		return 0, false
	}

	return freq / sampleRate, true
}

func positiveOr(v, fallback float64) float64 {
	if v <= 0 || !finite(v) {
		return fallback
	}

	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
