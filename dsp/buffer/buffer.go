package buffer

// Buffer owns planar storage for a fixed number of channels.
// Frames can be resized; capacity is reused where possible.
type Buffer struct {
	data   [][]float32
	frames int
}

// NewBuffer returns a zero-filled Buffer of the given shape.
// Negative sizes are treated as zero.
func NewBuffer(channels, frames int) *Buffer {
	channels = max(channels, 0)
	frames = max(frames, 0)
	b := &Buffer{data: make([][]float32, channels), frames: frames}
	for c := range b.data {
		b.data[c] = make([]float32, frames)
	}
	return b
}

// Channels returns the channel count.
func (b *Buffer) Channels() int { return len(b.data) }

// Frames returns the current number of samples per channel.
func (b *Buffer) Frames() int { return b.frames }

// Channel returns the samples of channel c.
func (b *Buffer) Channel(c int) []float32 { return b.data[c] }

// View returns a writable view over the whole buffer.
func (b *Buffer) View() View { return View{data: b.data, frames: b.frames} }

// ConstView returns a read-only view over the whole buffer.
func (b *Buffer) ConstView() ConstView { return b.View().Const() }

// Resize sets the frame count, reusing capacity when possible.
// Newly exposed samples are zeroed.
func (b *Buffer) Resize(frames int) {
	frames = max(frames, 0)
	for c, ch := range b.data {
		if frames <= cap(ch) {
			ch = ch[:frames]
			if frames > b.frames {
				clear(ch[b.frames:])
			}
		} else {
			grown := make([]float32, frames)
			copy(grown, ch[:b.frames])
			ch = grown
		}
		b.data[c] = ch
	}
	b.frames = frames
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	for c := range b.data {
		clear(b.data[c][:b.frames])
	}
}

// Copy returns a deep copy of the buffer.
func (b *Buffer) Copy() *Buffer {
	out := NewBuffer(len(b.data), b.frames)
	out.View().CopyFrom(b.ConstView())
	return out
}
