package stretch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/interp"
	"github.com/cwbudde/algo-vecmath"
)

// maxJitter is the phase randomization, in radians, applied to non-peak
// bins when the playback rate is 0.
const maxJitter = 0.5 * math.Pi

// synthesize computes the analysis frame ending at input position p and
// overlap-adds its resynthesis into the output ring at output time t.
func (s *Stretch) synthesize(t, p int64, in [][]float32, rate float64) {
	interval := int64(s.interval)
	anchor := s.reanchor
	cached := s.havePrev && s.lastPos == p-interval

	jitterRate := rate
	if anchor {
		jitterRate = s.anchorRate
	}

	jitter := maxJitter * (1 - core.Clamp(jitterRate, 0, 1))

	for c := range s.chans {
		ch := &s.chans[c]
		s.analyze(c, p, in, s.spectrum, ch.phase)

		if !anchor {
			prev := ch.lastPhase
			if !cached {
				s.analyze(c, p-interval, in, s.other, ch.scratch)
				prev = ch.scratch
			}

			s.estimateFrequencies(ch.phase, prev)
		}

		spec := s.spectrum
		if s.transpose == 1 {
			s.lockPhases(ch, anchor, jitter)
		} else {
			spec = s.transposeSpectrum(ch, anchor, jitter)
		}

		s.overlapAdd(ch, t, spec)
		ch.phase, ch.lastPhase = ch.lastPhase, ch.phase
	}

	s.lastPos = p
	s.havePrev = true
	s.reanchor = false
	s.anchorRate = 1
}

// analyze windows the block ending at pos and writes its half spectrum
// and per-bin phases.
func (s *Stretch) analyze(c int, pos int64, in [][]float32, spec []complex128, phase []float64) {
	base := pos - int64(s.block)
	for j := range s.block {
		s.frame[j] = s.sample(c, base+int64(j), in)
	}

	clear(s.frame[s.block:])
	vecmath.MulBlockInPlace(s.frame[:s.block], s.analysis)

	if err := s.real.Forward(spec, s.frame); err != nil {
		panic(fmt.Errorf("stretch: forward transform: %w", err))
	}

	for k, v := range spec {
		phase[k] = math.Atan2(imag(v), real(v))
	}
}

// estimateFrequencies derives the instantaneous frequency of every bin,
// in radians/sample, from two analyses one interval apart.
func (s *Stretch) estimateFrequencies(phase, prev []float64) {
	hop := float64(s.interval)
	for k := range s.freq {
		dev := core.WrapPhase(phase[k] - prev[k] - s.omega[k]*hop)
		s.freq[k] = s.omega[k] + dev/hop
	}
}

// findPeaks collects local maxima of the power spectrum.
func (s *Stretch) findPeaks() {
	for k, v := range s.spectrum {
		s.re[k] = real(v)
		s.im[k] = imag(v)
	}

	vecmath.Power(s.mag2, s.re, s.im)

	s.peaks = s.peaks[:0]
	for k := 1; k < s.bins-1; k++ {
		if s.mag2[k] >= s.mag2[k-1] && s.mag2[k] > s.mag2[k+1] {
			s.peaks = append(s.peaks, k)
		}
	}
}

// lockPhases advances peak bins by their measured frequency and locks the
// remaining bins to their nearest peak, then rotates the spectrum onto
// the new phases in place.
func (s *Stretch) lockPhases(ch *channelState, anchor bool, jitter float64) {
	s.findPeaks()

	hop := float64(s.interval)

	switch {
	case anchor:
		copy(ch.synthPhase, ch.phase)
	case len(s.peaks) == 0:
		for k := range ch.synthPhase {
			ch.synthPhase[k] = core.WrapPhase(ch.synthPhase[k] + s.freq[k]*hop)
		}
	default:
		for _, pk := range s.peaks {
			ch.synthPhase[pk] = core.WrapPhase(ch.synthPhase[pk] + s.freq[pk]*hop)
		}

		peakIdx := 0
		for k := range ch.synthPhase {
			for peakIdx+1 < len(s.peaks) && absInt(s.peaks[peakIdx+1]-k) < absInt(s.peaks[peakIdx]-k) {
				peakIdx++
			}

			if pk := s.peaks[peakIdx]; k != pk {
				ch.synthPhase[k] = ch.synthPhase[pk] + (ch.phase[k] - ch.phase[pk])
			}
		}
	}

	s.applyJitter(ch, jitter)

	for k, v := range s.spectrum {
		sin, cos := math.Sincos(ch.synthPhase[k] - ch.phase[k])
		s.spectrum[k] = v * complex(cos, sin)
	}
}

// applyJitter randomizes non-peak bins. Peak bins keep their phase so
// tonal components stay coherent.
func (s *Stretch) applyJitter(ch *channelState, jitter float64) {
	if jitter <= 0 {
		return
	}

	peakIdx := 0
	for k := range ch.synthPhase {
		if peakIdx < len(s.peaks) && s.peaks[peakIdx] == k {
			peakIdx++
			continue
		}

		ch.synthPhase[k] += jitter * (2*s.rng.Float64() - 1)
	}
}

// transposeSpectrum resamples the spectrum along the frequency map and
// writes the result into s.other.
func (s *Stretch) transposeSpectrum(ch *channelState, anchor bool, jitter float64) []complex128 {
	s.findPeaks()
	magnitudes(s.mag2, s.re, s.im)

	hop := float64(s.interval)
	m := s.transpose
	limit := s.frequencyLimit()
	size := float64(s.fftSize)
	last := float64(s.bins - 1)

	for k := range s.other {
		src := unmapFrequency(float64(k)/size, m, limit) * size
		if src < 0 || src >= last {
			s.other[k] = 0
			ch.synthPhase[k] = 0

			continue
		}

		lo := int(src)
		frac := src - float64(lo)
		mag := interp.Linear2(frac, s.mag2[lo], s.mag2[lo+1])

		if anchor {
			nearest := lo
			if frac >= 0.5 {
				nearest++
			}

			ch.synthPhase[k] = ch.phase[nearest]
		} else {
			f := interp.Linear2(frac, s.freq[lo], s.freq[lo+1])
			out := mapFrequency(f/(2*math.Pi), m, limit) * 2 * math.Pi
			ch.synthPhase[k] = core.WrapPhase(ch.synthPhase[k] + out*hop)
		}

		s.other[k] = complex(mag, 0)
	}

	s.applyJitter(ch, jitter)

	for k, v := range s.other {
		sin, cos := math.Sincos(ch.synthPhase[k])
		s.other[k] = complex(real(v)*cos, real(v)*sin)
	}

	return s.other
}

// frequencyLimit returns the tonality limit in cycles/sample after
// scaling by the transpose factor. Without a limit every frequency is
// multiplied.
func (s *Stretch) frequencyLimit() float64 {
	if s.tonalityLimit > 0 {
		return s.tonalityLimit / math.Sqrt(s.transpose)
	}

	return 0.5
}

// mapFrequency maps an input frequency to its transposed output frequency.
// Both are in cycles/sample.
func mapFrequency(f, factor, limit float64) float64 {
	if f > limit {
		return f + (factor-1)*limit
	}

	return f * factor
}

// unmapFrequency inverts mapFrequency.
func unmapFrequency(f, factor, limit float64) float64 {
	if f > limit*factor {
		return f - (factor-1)*limit
	}

	return f / factor
}

// overlapAdd resynthesizes spec and adds it to the channel's ring
// starting at output time t.
func (s *Stretch) overlapAdd(ch *channelState, t int64, spec []complex128) {
	if err := s.real.Inverse(s.frame, spec); err != nil {
		panic(fmt.Errorf("stretch: inverse transform: %w", err))
	}

	block := s.frame[:s.block]
	vecmath.MulBlockInPlace(block, s.synthesis)

	ringLen := int64(len(ch.ring))
	start := int(t % ringLen)
	head := min(len(block), len(ch.ring)-start)

	vecmath.AddBlockInPlace(ch.ring[start:start+head], block[:head])
	if head < len(block) {
		vecmath.AddBlockInPlace(ch.ring[:len(block)-head], block[head:])
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
