package design

import (
	"math"

	"github.com/cwbudde/algo-stretch/dsp/filter/biquad"
)

// ButterworthLP designs a lowpass Butterworth cascade of order sections,
// lowest Q first. Odd orders end in a first-order section (B2=A2=0). It
// returns nil for order <= 0 or a cutoff outside (0, sampleRate/2).
func ButterworthLP(freq float64, order int, sampleRate float64, method biquad.Design) []biquad.Coefficients {
	return butterworth(biquad.ShapeLowpass, freq, order, sampleRate, method)
}

// ButterworthHP is the highpass counterpart of ButterworthLP.
func ButterworthHP(freq float64, order int, sampleRate float64, method biquad.Design) []biquad.Coefficients {
	return butterworth(biquad.ShapeHighpass, freq, order, sampleRate, method)
}

func butterworth(shape biquad.Shape, freq float64, order int, sampleRate float64, method biquad.Design) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return nil
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, withQ(shape, freq, butterworthQ(order, i), sampleRate, method))
	}

	if order%2 != 0 {
		sections = append(sections, firstOrder(shape, k))
	}

	return sections
}

// butterworthQ returns the Q of the pole pair at index, 1/(2 sin theta).
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}

	return 1 / (2 * s)
}

func bilinearK(freq, sampleRate float64) (float64, bool) {
	if _, ok := normalizedFreq(freq, sampleRate); !ok {
		return 0, false
	}

	return math.Tan(math.Pi * freq / sampleRate), true
}

// firstOrder is the bilinear one-pole section with prewarped k.
func firstOrder(shape biquad.Shape, k float64) biquad.Coefficients {
	norm := 1 / (1 + k)
	c := biquad.Coefficients{A1: (k - 1) * norm}

	if shape == biquad.ShapeHighpass {
		c.B0, c.B1 = norm, -norm
	} else {
		c.B0, c.B1 = k*norm, k*norm
	}

	return c
}
