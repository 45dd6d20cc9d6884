// Package buffer provides planar multichannel float32 sample storage.
//
// [View] and [ConstView] are non-owning windows over caller memory: a fixed
// channel count of equally long per-channel slices. They are what the
// stretch engine and the stream adapter exchange. [Buffer] owns its storage
// and hands out views.
package buffer
