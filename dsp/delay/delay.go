// Package delay provides the fractional Delay and MultiDelay used to
// shift signals by a sub-sample amount.
package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/interp"
)

// ErrInvalidLength is returned for non-positive sizes and channel counts.
var ErrInvalidLength = errors.New("delay: invalid length")

// Delay is a single-channel fractional delay. Each Process call writes one
// sample and then reads delaySamples behind it with linear interpolation,
// so a delay of 0 returns the input unchanged.
type Delay struct {
	buf []float32
	pos int
}

// New creates a Delay that supports delays up to maxDelay samples. The
// ring holds max(1, maxDelay)+1 samples.
func New(maxDelay int) (*Delay, error) {
	if maxDelay < 0 {
		return nil, fmt.Errorf("%w: max delay must be >= 0: %d", ErrInvalidLength, maxDelay)
	}

	return &Delay{buf: make([]float32, max(1, maxDelay)+1)}, nil
}

// MaxDelay returns the largest delay Process honours.
func (d *Delay) MaxDelay() int { return len(d.buf) - 1 }

// Process writes x and returns the sample delaySamples ago. Delays are
// clamped to [0, MaxDelay()].
func (d *Delay) Process(x float32, delaySamples float64) float32 {
	size := len(d.buf)
	d.buf[d.pos] = x

	delaySamples = min(max(delaySamples, 0), float64(size-1))
	whole := int(math.Floor(delaySamples))
	frac := float32(delaySamples - float64(whole))

	i0 := d.pos - whole
	if i0 < 0 {
		i0 += size
	}
	i1 := i0 - 1
	if i1 < 0 {
		i1 += size
	}

	d.pos++
	if d.pos == size {
		d.pos = 0
	}

	if frac == 0 {
		return d.buf[i0]
	}
	return interp.Linear2(frac, d.buf[i0], d.buf[i1])
}

// Reset clears the history.
func (d *Delay) Reset() {
	clear(d.buf)
	d.pos = 0
}

// MultiDelay applies the same delay to every channel of a frame.
type MultiDelay struct {
	lines []Delay
}

// NewMulti creates one Delay per channel.
func NewMulti(channels, maxDelay int) (*MultiDelay, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channels must be > 0: %d", ErrInvalidLength, channels)
	}

	m := &MultiDelay{lines: make([]Delay, channels)}
	for c := range m.lines {
		d, err := New(maxDelay)
		if err != nil {
			return nil, err
		}
		m.lines[c] = *d
	}

	return m, nil
}

// Channels returns the channel count.
func (m *MultiDelay) Channels() int { return len(m.lines) }

// ProcessFrame delays one frame in place. It panics if len(frame) differs
// from Channels().
func (m *MultiDelay) ProcessFrame(frame []float32, delaySamples float64) {
	if len(frame) != len(m.lines) {
		panic(fmt.Sprintf("delay: frame has %d channels, want %d", len(frame), len(m.lines)))
	}

	for c := range frame {
		frame[c] = m.lines[c].Process(frame[c], delaySamples)
	}
}

// Process delays every channel of v in place. It panics on a channel
// mismatch.
func (m *MultiDelay) Process(v buffer.View, delaySamples float64) {
	if v.Channels() != len(m.lines) {
		panic(fmt.Sprintf("delay: view has %d channels, want %d", v.Channels(), len(m.lines)))
	}

	for c := range m.lines {
		ch := v.Channel(c)
		for i, x := range ch {
			ch[i] = m.lines[c].Process(x, delaySamples)
		}
	}
}

// Reset clears every channel.
func (m *MultiDelay) Reset() {
	for c := range m.lines {
		m.lines[c].Reset()
	}
}
