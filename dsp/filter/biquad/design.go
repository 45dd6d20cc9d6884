package biquad

import "math"

// Design selects how an analog prototype is mapped to biquad coefficients.
//
// Some methods coincide. For the Q shapes (lowpass, highpass, allpass)
// Bilinear and Cookbook give identical coefficients below the cookbook's
// 0.49 frequency clamp. For shelves and allpass Vicanek has no matched
// form, so it gives the same coefficients as OneSided.
type Design int

const (
	// DesignBilinear is the plain bilinear transform, prewarped at the
	// centre frequency. Bandwidths are not corrected for warping.
	DesignBilinear Design = iota
	// DesignCookbook follows the Audio EQ Cookbook: bandwidths are
	// corrected for warping and the frequency is clamped below 0.49.
	DesignCookbook
	// DesignOneSided matches the lower edge of the analog transition band,
	// which tracks asymmetric analog responses more closely near Nyquist.
	DesignOneSided
	// DesignVicanek uses Vicanek's matched second-order designs, which keep
	// the analog magnitude at DC and Nyquist. Shapes without a matched form
	// fall back to the one-sided correction.
	DesignVicanek
)

// DefaultDesign is the method used when a design call omits one.
const DefaultDesign = DesignCookbook

// Designs lists every design method in enum order.
var Designs = [...]Design{DesignBilinear, DesignCookbook, DesignOneSided, DesignVicanek}

// String returns the method name.
func (d Design) String() string {
	switch d {
	case DesignBilinear:
		return "bilinear"
	case DesignCookbook:
		return "cookbook"
	case DesignOneSided:
		return "one-sided"
	default:
		return "vicanek"
	}
}

// resolve maps any value outside the named range to DesignVicanek.
func (d Design) resolve() Design {
	switch d {
	case DesignBilinear, DesignCookbook, DesignOneSided:
		return d
	default:
		return DesignVicanek
	}
}

// Shape identifies a biquad response type.
type Shape int

const (
	ShapeLowpass Shape = iota
	ShapeHighpass
	ShapeBandpass
	ShapeNotch
	ShapePeak
	ShapeLowShelf
	ShapeHighShelf
	ShapeAllpass
)

// Shapes lists every shape in enum order.
var Shapes = [...]Shape{
	ShapeLowpass, ShapeHighpass, ShapeBandpass, ShapeNotch,
	ShapePeak, ShapeLowShelf, ShapeHighShelf, ShapeAllpass,
}

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeLowpass:
		return "lowpass"
	case ShapeHighpass:
		return "highpass"
	case ShapeBandpass:
		return "bandpass"
	case ShapeNotch:
		return "notch"
	case ShapePeak:
		return "peak"
	case ShapeLowShelf:
		return "low-shelf"
	case ShapeHighShelf:
		return "high-shelf"
	case ShapeAllpass:
		return "allpass"
	default:
		return "unknown"
	}
}

// Fixed shelf bandwidths in octaves. The high-shelf value makes
// 1/(2Q) equal 1/sqrt(2), the cookbook's S=1 slope.
const (
	LowShelfBandwidth  = 2.0
	HighShelfBandwidth = 1.8999686269529916
)

// All frequencies below are normalized: cycles per sample, 0 < freq < 0.5.
// Parameters are not validated.

// Lowpass designs a resonant lowpass.
func Lowpass(freq, q float64, d Design) Coefficients {
	d = d.resolve()
	return compute(ShapeLowpass, qSpec(freq, q, d), 1, d)
}

// Highpass designs a resonant highpass.
func Highpass(freq, q float64, d Design) Coefficients {
	d = d.resolve()
	return compute(ShapeHighpass, qSpec(freq, q, d), 1, d)
}

// Allpass designs a second-order allpass centred on freq.
func Allpass(freq, q float64, d Design) Coefficients {
	d = d.resolve()
	return compute(ShapeAllpass, qSpec(freq, q, d), 1, d)
}

// Bandpass designs a 0 dB peak bandpass with the given bandwidth in octaves.
func Bandpass(freq, octaves float64, d Design) Coefficients {
	d = d.resolve()
	return compute(ShapeBandpass, octaveSpec(freq, octaves, d), 1, d)
}

// Notch designs a band-reject filter with the given bandwidth in octaves.
func Notch(freq, octaves float64, d Design) Coefficients {
	d = d.resolve()
	return compute(ShapeNotch, octaveSpec(freq, octaves, d), 1, d)
}

// Peak designs a peaking EQ. gainDB of 0 yields a pass-through.
func Peak(freq, octaves, gainDB float64, d Design) Coefficients {
	d = d.resolve()
	return compute(ShapePeak, octaveSpec(freq, octaves, d), dbToSqrtGain(gainDB), d)
}

// LowShelf designs a low shelf with bandwidth LowShelfBandwidth.
func LowShelf(freq, gainDB float64, d Design) Coefficients {
	d = d.resolve()
	return compute(ShapeLowShelf, octaveSpec(freq, LowShelfBandwidth, d), dbToSqrtGain(gainDB), d)
}

// HighShelf designs a high shelf with bandwidth HighShelfBandwidth.
func HighShelf(freq, gainDB float64, d Design) Coefficients {
	d = d.resolve()
	return compute(ShapeHighShelf, octaveSpec(freq, HighShelfBandwidth, d), dbToSqrtGain(gainDB), d)
}

// Compute designs any shape. param is Q for lowpass, highpass and allpass,
// bandwidth in octaves for bandpass, notch and peak, and is ignored for
// shelves.
func Compute(shape Shape, freq, param, gainDB float64, d Design) Coefficients {
	switch shape {
	case ShapeLowpass:
		return Lowpass(freq, param, d)
	case ShapeHighpass:
		return Highpass(freq, param, d)
	case ShapeBandpass:
		return Bandpass(freq, param, d)
	case ShapeNotch:
		return Notch(freq, param, d)
	case ShapePeak:
		return Peak(freq, param, gainDB, d)
	case ShapeLowShelf:
		return LowShelf(freq, gainDB, d)
	case ShapeHighShelf:
		return HighShelf(freq, gainDB, d)
	case ShapeAllpass:
		return Allpass(freq, param, d)
	default:
		return Coefficients{B0: 1}
	}
}

// dbToSqrtGain returns 10^(dB/40), the square root of the linear gain.
func dbToSqrtGain(db float64) float64 {
	return math.Pow(10, db*0.025)
}

type freqSpec struct {
	scaledFreq   float64
	w0           float64
	sinW0, cosW0 float64
	inv2Q        float64
}

func newFreqSpec(freq float64, d Design) freqSpec {
	if d == DesignCookbook {
		freq = min(0.49, freq)
	}
	w0 := 2 * math.Pi * freq
	return freqSpec{
		scaledFreq: freq,
		w0:         w0,
		sinW0:      math.Sin(w0),
		cosW0:      math.Cos(w0),
	}
}

func qSpec(freq, q float64, d Design) freqSpec {
	s := newFreqSpec(freq, d)
	s.inv2Q = 0.5 / q
	if d == DesignOneSided {
		s.oneSidedCompQ()
	}
	return s
}

func octaveSpec(freq, octaves float64, d Design) freqSpec {
	s := newFreqSpec(freq, d)
	if d == DesignCookbook {
		octaves *= s.w0 / s.sinW0
	}
	s.inv2Q = math.Sinh(math.Ln2 * 0.5 * octaves)
	if d == DesignOneSided {
		s.oneSidedCompQ()
	}
	return s
}

// oneSidedCompQ rewrites inv2Q so that the lower band edge lands where the
// analog prototype puts it, after bilinear warping.
func (s *freqSpec) oneSidedCompQ() {
	f1Factor := math.Sqrt(s.inv2Q*s.inv2Q+1) - s.inv2Q
	ctF1 := math.Tan(math.Pi * s.scaledFreq * f1Factor)
	invCtF0 := (1 + s.cosW0) / s.sinW0
	r := ctF1 * invCtF0
	s.inv2Q = 0.5/r - 0.5*r
}

func compute(shape Shape, s freqSpec, sqrtGain float64, d Design) Coefficients {
	if d == DesignVicanek {
		switch shape {
		case ShapeLowpass, ShapeHighpass, ShapeBandpass, ShapeNotch, ShapePeak:
			return vicanek(shape, s, sqrtGain)
		default:
			s.oneSidedCompQ()
		}
	}
	return cookbook(shape, s, sqrtGain)
}

func cookbook(shape Shape, s freqSpec, sqrtGain float64) Coefficients {
	alpha := s.sinW0 * s.inv2Q
	cosW0 := s.cosW0
	a := sqrtGain

	a0, a1, a2 := 1+alpha, -2*cosW0, 1-alpha
	var b0, b1, b2 float64

	switch shape {
	case ShapeHighpass:
		b1 = -1 - cosW0
		b0 = -0.5 * b1
		b2 = b0
	case ShapeBandpass:
		b0 = alpha
		b2 = -alpha
	case ShapeNotch:
		b0, b1, b2 = 1, -2*cosW0, 1
	case ShapePeak:
		b0 = 1 + alpha*a
		b1 = -2 * cosW0
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a2 = 1 - alpha/a
	case ShapeLowShelf:
		sqrtA2alpha := 2 * math.Sqrt(a) * alpha
		ap1, am1 := a+1, a-1
		b0 = a * (ap1 - am1*cosW0 + sqrtA2alpha)
		b1 = 2 * a * (am1 - ap1*cosW0)
		b2 = a * (ap1 - am1*cosW0 - sqrtA2alpha)
		a0 = ap1 + am1*cosW0 + sqrtA2alpha
		a1 = -2 * (am1 + ap1*cosW0)
		a2 = ap1 + am1*cosW0 - sqrtA2alpha
	case ShapeHighShelf:
		sqrtA2alpha := 2 * math.Sqrt(a) * alpha
		ap1, am1 := a+1, a-1
		b0 = a * (ap1 + am1*cosW0 + sqrtA2alpha)
		b1 = -2 * a * (am1 + ap1*cosW0)
		b2 = a * (ap1 + am1*cosW0 - sqrtA2alpha)
		a0 = ap1 - am1*cosW0 + sqrtA2alpha
		a1 = 2 * (am1 - ap1*cosW0)
		a2 = ap1 - am1*cosW0 - sqrtA2alpha
	case ShapeAllpass:
		b0 = 1 - alpha
		b1 = -2 * cosW0
		b2 = 1 + alpha
	default: // lowpass
		b1 = 1 - cosW0
		b0 = 0.5 * b1
		b2 = b0
	}

	inv := 1 / a0
	return Coefficients{
		B0: b0 * inv, B1: b1 * inv, B2: b2 * inv,
		A1: a1 * inv, A2: a2 * inv,
	}
}

// vicanek implements "Matched Second Order Digital Filters" (M. Vicanek,
// 2016): impulse-invariant poles with zeros fitted to the analog magnitude.
func vicanek(shape Shape, s freqSpec, sqrtGain float64) Coefficients {
	if shape == ShapeNotch {
		s.inv2Q *= 1 - s.scaledFreq*0.5
	}

	qFactor := 0.5 / s.inv2Q
	q := s.inv2Q
	if shape == ShapePeak {
		qFactor *= sqrtGain
		q /= sqrtGain
	}

	expmqw := math.Exp(-q * s.w0)
	var a1 float64
	if q <= 1 {
		a1 = -2 * expmqw * math.Cos(math.Sqrt(1-q*q)*s.w0)
	} else {
		a1 = -2 * expmqw * math.Cosh(math.Sqrt(q*q-1)*s.w0)
	}
	a2 := expmqw * expmqw

	sinHalf := math.Sin(s.w0 / 2)
	p1 := sinHalf * sinHalf
	p0 := 1 - p1
	p2 := 4 * p0 * p1

	bigA0 := (1 + a1 + a2) * (1 + a1 + a2)
	bigA1 := (1 - a1 + a2) * (1 - a1 + a2)
	bigA2 := -4 * a2
	weighted := bigA0*p0 + bigA1*p1 + bigA2*p2

	var b0, b1, b2 float64
	switch shape {
	case ShapeHighpass:
		b0 = math.Sqrt(weighted) * qFactor / (4 * p1)
		b1 = -2 * b0
		b2 = b0
	case ShapeBandpass:
		r1 := weighted
		r2 := -bigA0 + bigA1 + 4*(p0-p1)*bigA2
		bb2 := (r1 - r2*p1) / (4 * p1 * p1)
		bb1 := r2 + 4*(p1-p0)*bb2
		b1 = -0.5 * math.Sqrt(max(0, bb1))
		b0 = 0.5 * (math.Sqrt(max(0, bb2+b1*b1)) - b1)
		b2 = -b0 - b1
	case ShapeNotch:
		b0, b1, b2 = 1, -2*s.cosW0, 1
		scale := math.Sqrt(bigA0) / (b0 + b1 + b2)
		b0 *= scale
		b1 *= scale
		b2 *= scale
	case ShapePeak:
		g2 := (sqrtGain * sqrtGain) * (sqrtGain * sqrtGain)
		r1 := weighted * g2
		r2 := (-bigA0 + bigA1 + 4*(p0-p1)*bigA2) * g2
		bb0 := bigA0
		bb2 := (r1 - r2*p1 - bb0) / (4 * p1 * p1)
		bb1 := r2 + bb0 + 4*(p1-p0)*bb2
		w := 0.5 * (math.Sqrt(bb0) + math.Sqrt(max(0, bb1)))
		b0 = 0.5 * (w + math.Sqrt(max(0, w*w+bb2)))
		b1 = 0.5 * (math.Sqrt(bb0) - math.Sqrt(max(0, bb1)))
		b2 = -bb2 / (4 * b0)
	default: // lowpass
		r1 := weighted * qFactor * qFactor
		bb0 := bigA0
		bb1 := (r1 - bb0*p0) / p1
		b0 = 0.5 * (math.Sqrt(bb0) + math.Sqrt(max(0, bb1)))
		b1 = math.Sqrt(bb0) - b0
	}

	return Coefficients{B0: b0, B1: b1, B2: b2, A1: a1, A2: a2}
}
