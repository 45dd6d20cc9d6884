package buffer

import "fmt"

// Interleave writes the frames of src into dst as frame-major samples
// (L R L R ...). dst must hold at least Channels()*Frames() samples.
func Interleave(dst []float32, src ConstView) {
	ch := src.Channels()
	need := ch * src.Frames()
	if len(dst) < need {
		panic(fmt.Sprintf("buffer: interleave needs %d samples, have %d", need, len(dst)))
	}
	for c := 0; c < ch; c++ {
		for i, x := range src.Channel(c) {
			dst[i*ch+c] = x
		}
	}
}

// Deinterleave splits frame-major samples from src into dst.
// src must hold at least Channels()*Frames() samples.
func Deinterleave(dst View, src []float32) {
	ch := dst.Channels()
	need := ch * dst.Frames()
	if len(src) < need {
		panic(fmt.Sprintf("buffer: deinterleave needs %d samples, have %d", need, len(src)))
	}
	for c := 0; c < ch; c++ {
		out := dst.Channel(c)
		for i := range out {
			out[i] = src[i*ch+c]
		}
	}
}
