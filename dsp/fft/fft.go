// Package fft wraps algo-fft plans with the sizes and real-signal helpers
// the spectral processors use.
//
// Forward transforms are unnormalized. Inverse transforms are normalized by
// 1/N, so Inverse(Forward(x)) == x.
package fft

import (
	"errors"
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-stretch/dsp/core"
)

var (
	// ErrInvalidSize is returned for sizes that are not a positive power of two.
	ErrInvalidSize = errors.New("fft: size must be a positive power of two")
	// ErrLength is returned when a buffer does not match the transform size.
	ErrLength = errors.New("fft: buffer length does not match transform size")
)

// OptimalSize returns the smallest supported transform size >= minSize.
func OptimalSize(minSize int) int {
	return core.NextPowerOf2(minSize)
}

// FFT is a complex transform of fixed size.
type FFT struct {
	size int
	plan *algofft.Plan[complex128]
}

// New creates a complex FFT of the given size.
func New(size int) (*FFT, error) {
	if !core.IsPowerOf2(size) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("fft: failed to create plan of size %d: %w", size, err)
	}

	return &FFT{size: size, plan: plan}, nil
}

// Size returns the transform length.
func (f *FFT) Size() int { return f.size }

// Forward computes the DFT of src into dst. dst and src may alias.
func (f *FFT) Forward(dst, src []complex128) error {
	if len(dst) != f.size || len(src) != f.size {
		return fmt.Errorf("%w: dst=%d src=%d size=%d", ErrLength, len(dst), len(src), f.size)
	}

	return f.plan.Forward(dst, src)
}

// Inverse computes the normalized inverse DFT of src into dst.
func (f *FFT) Inverse(dst, src []complex128) error {
	if len(dst) != f.size || len(src) != f.size {
		return fmt.Errorf("%w: dst=%d src=%d size=%d", ErrLength, len(dst), len(src), f.size)
	}

	return f.plan.Inverse(dst, src)
}
