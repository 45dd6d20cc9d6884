package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelCount is returned when a view is described with a channel
	// count that does not match the data.
	ErrChannelCount = errors.New("buffer: channel count mismatch")
	// ErrFrameCount is returned when a channel is shorter than the declared
	// frame count.
	ErrFrameCount = errors.New("buffer: channel shorter than frame count")
)

// ConstView is a read-only planar view of channels*frames samples.
// The zero value is an empty view with no channels.
type ConstView struct {
	data   [][]float32
	frames int
}

// View is a writable planar view of channels*frames samples.
type View struct {
	data   [][]float32
	frames int
}

// NewConstView wraps data as a view of the given shape. Each channel slice
// is truncated to frames. It panics if the shape is inconsistent.
func NewConstView(data [][]float32, channels, frames int) ConstView {
	v, err := NewConstViewChecked(data, channels, frames)
	if err != nil {
		panic(err)
	}
	return v
}

// NewConstViewChecked is NewConstView returning an error instead of
// panicking.
func NewConstViewChecked(data [][]float32, channels, frames int) (ConstView, error) {
	if err := checkShape(data, channels, frames); err != nil {
		return ConstView{}, err
	}
	return ConstView{data: data[:channels:channels], frames: frames}, nil
}

// ConstOf wraps per-channel slices of equal length.
func ConstOf(channels ...[]float32) ConstView {
	return NewConstView(channels, len(channels), commonLen(channels))
}

// NewView wraps data as a writable view. It panics if the shape is
// inconsistent.
func NewView(data [][]float32, channels, frames int) View {
	v, err := NewViewChecked(data, channels, frames)
	if err != nil {
		panic(err)
	}
	return v
}

// NewViewChecked is NewView returning an error instead of panicking.
func NewViewChecked(data [][]float32, channels, frames int) (View, error) {
	if err := checkShape(data, channels, frames); err != nil {
		return View{}, err
	}
	return View{data: data[:channels:channels], frames: frames}, nil
}

// ViewOf wraps per-channel slices of equal length.
func ViewOf(channels ...[]float32) View {
	return NewView(channels, len(channels), commonLen(channels))
}

// Channels returns the channel count.
func (v ConstView) Channels() int { return len(v.data) }

// Frames returns the number of samples per channel.
func (v ConstView) Frames() int { return v.frames }

// Channel returns channel c, exactly Frames() long.
func (v ConstView) Channel(c int) []float32 { return v.data[c][:v.frames:v.frames] }

// Slice returns the frames [from, to) of every channel. Slicing never
// copies, so the result aliases v.
func (v ConstView) Slice(from, to int) ConstView {
	if from < 0 || to < from || to > v.frames {
		panic(fmt.Sprintf("buffer: slice [%d:%d] out of range for %d frames", from, to, v.frames))
	}
	out := ConstView{data: make([][]float32, len(v.data)), frames: to - from}
	for c, ch := range v.data {
		out.data[c] = ch[from:to]
	}
	return out
}

// Channels returns the channel count.
func (v View) Channels() int { return len(v.data) }

// Frames returns the number of samples per channel.
func (v View) Frames() int { return v.frames }

// Channel returns channel c, exactly Frames() long.
func (v View) Channel(c int) []float32 { return v.data[c][:v.frames:v.frames] }

// Const returns a read-only view of the same memory.
func (v View) Const() ConstView { return ConstView(v) }

// Slice returns the frames [from, to) of every channel.
func (v View) Slice(from, to int) View {
	return View(v.Const().Slice(from, to))
}

// Zero clears every sample in the view.
func (v View) Zero() {
	for c := range v.data {
		clear(v.Channel(c))
	}
}

// CopyFrom copies min(v.Frames(), src.Frames()) frames from src and
// returns the number copied. Channel counts must match.
func (v View) CopyFrom(src ConstView) int {
	if src.Channels() != v.Channels() {
		panic(fmt.Errorf("%w: %d != %d", ErrChannelCount, src.Channels(), v.Channels()))
	}
	n := min(v.frames, src.frames)
	for c := range v.data {
		copy(v.data[c][:n], src.data[c][:n])
	}
	return n
}

func checkShape(data [][]float32, channels, frames int) error {
	if channels < 0 || channels > len(data) {
		return fmt.Errorf("%w: want %d, have %d slices", ErrChannelCount, channels, len(data))
	}
	if frames < 0 {
		return fmt.Errorf("%w: negative frame count %d", ErrFrameCount, frames)
	}
	for c := 0; c < channels; c++ {
		if len(data[c]) < frames {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrFrameCount, c, len(data[c]), frames)
		}
	}
	return nil
}

func commonLen(channels [][]float32) int {
	if len(channels) == 0 {
		return 0
	}
	n := len(channels[0])
	for c, ch := range channels[1:] {
		if len(ch) != n {
			panic(fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrFrameCount, c+1, len(ch), n))
		}
	}
	return n
}
