// Package stretch implements a streaming phase-vocoder time-stretch and
// pitch-shift engine.
//
// The engine analyzes the input with overlapping windows of BlockSamples()
// length, taken every IntervalSamples() output samples, and resynthesizes
// each frame with phases advanced by the measured per-bin frequency.
// Spectral peaks carry their own phase; the bins around each peak are
// locked to it, which keeps partials coherent at any rate.
//
// The playback rate is implied by each Process call: consuming 100 input
// frames into 200 output frames plays at half speed. At rate 1 the output
// reproduces the input delayed by InputLatency()+OutputLatency() samples.
//
// Seek feeds pre-roll before a jump in the source and Flush drains the
// remaining output at the end of a stream. Offline wraps both for whole
// clips.
package stretch
