package window

import "fmt"

// overlapFloor keeps the synthesis gain finite where the analysis window
// sums to (near) zero.
const overlapFloor = 1e-9

// OverlapAddGain returns, for each phase i in [0, hop), the sum of w[j]^2
// over every j congruent to i modulo hop. Frames windowed twice by w and
// overlap-added every hop samples are scaled by gain[i mod hop]. Entries
// are floored at a small positive value.
func OverlapAddGain(w []float64, hop int) ([]float64, error) {
	if hop <= 0 || hop > len(w) {
		return nil, fmt.Errorf("%w: hop %d for a window of %d", ErrInvalidHop, hop, len(w))
	}

	gain := make([]float64, hop)
	for j, v := range w {
		gain[j%hop] += v * v
	}

	for i := range gain {
		gain[i] = max(gain[i], overlapFloor)
	}

	return gain, nil
}

// SynthesisWindow returns w divided by its overlap-add gain, so that
// analysis with w followed by synthesis with the result reconstructs the
// input at unity gain for a constant hop.
func SynthesisWindow(w []float64, hop int) ([]float64, error) {
	gain, err := OverlapAddGain(w, hop)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(w))
	for j, v := range w {
		out[j] = v / gain[j%hop]
	}

	return out, nil
}
