package delay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
)

func TestNew(t *testing.T) {
	_, err := New(-1)
	require.ErrorIs(t, err, ErrInvalidLength)

	d, err := New(0)
	require.NoError(t, err)
	assert.Equal(t, 1, d.MaxDelay())

	d, err = New(64)
	require.NoError(t, err)
	assert.Equal(t, 64, d.MaxDelay())
}

func TestDelay_ZeroIsIdentity(t *testing.T) {
	d, err := New(8)
	require.NoError(t, err)

	for _, x := range []float32{1, -2, 3.5, 0} {
		assert.Equal(t, x, d.Process(x, 0))
	}
}

func TestDelay_IntegerDelay(t *testing.T) {
	d, err := New(8)
	require.NoError(t, err)

	var out []float32
	for i := range 10 {
		out = append(out, d.Process(float32(i+1), 3))
	}
	assert.Equal(t, []float32{0, 0, 0, 1, 2, 3, 4, 5, 6, 7}, out)
}

func TestDelay_FractionalIsLinear(t *testing.T) {
	d, err := New(8)
	require.NoError(t, err)

	var last float32
	for i := range 6 {
		last = d.Process(float32(i), 1.25)
	}
	// Between 4 (delay 1) and 3 (delay 2), a quarter of the way.
	assert.InDelta(t, 3.75, last, 1e-6)
}

func TestDelay_Clamping(t *testing.T) {
	d, err := New(2)
	require.NoError(t, err)

	var out []float32
	for i := range 5 {
		out = append(out, d.Process(float32(i+1), 50))
	}
	assert.Equal(t, []float32{0, 0, 1, 2, 3}, out)

	d.Reset()
	assert.Equal(t, float32(9), d.Process(9, -4))
}

func TestMultiDelay(t *testing.T) {
	_, err := NewMulti(0, 4)
	require.ErrorIs(t, err, ErrInvalidLength)

	m, err := NewMulti(2, 4)
	require.NoError(t, err)
	require.Equal(t, 2, m.Channels())

	left := []float32{1, 2, 3, 4, 5}
	right := []float32{-1, -2, -3, -4, -5}
	m.Process(buffer.ViewOf(left, right), 2)

	assert.Equal(t, []float32{0, 0, 1, 2, 3}, left)
	assert.Equal(t, []float32{0, 0, -1, -2, -3}, right)

	frame := []float32{6, -6}
	m.ProcessFrame(frame, 2)
	assert.Equal(t, []float32{4, -4}, frame)

	m.Reset()
	frame = []float32{7, -7}
	m.ProcessFrame(frame, 1)
	assert.Equal(t, []float32{0, 0}, frame)
}

func TestMultiDelay_ChannelMismatchPanics(t *testing.T) {
	m, err := NewMulti(2, 4)
	require.NoError(t, err)

	assert.Panics(t, func() { m.ProcessFrame([]float32{1}, 0) })
	assert.Panics(t, func() { m.Process(buffer.ViewOf([]float32{1}), 0) })
}
