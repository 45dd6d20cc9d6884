package fft

import (
	"fmt"
	"math/cmplx"
)

// Real transforms real signals of a fixed size to and from their
// non-negative-frequency half spectrum of Bins() = size/2+1 values.
//
// Real owns a scratch buffer, so one instance must not be shared between
// goroutines. The transforms do not allocate.
type Real struct {
	fft  *FFT
	work []complex128
}

// NewReal creates a real transform of the given size, which must be a
// power of two >= 2.
func NewReal(size int) (*Real, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	f, err := New(size)
	if err != nil {
		return nil, err
	}

	return &Real{fft: f, work: make([]complex128, size)}, nil
}

// Size returns the time-domain length.
func (r *Real) Size() int { return r.fft.size }

// Bins returns the half-spectrum length.
func (r *Real) Bins() int { return r.fft.size/2 + 1 }

// Forward writes the first Bins() DFT values of src into dst.
func (r *Real) Forward(dst []complex128, src []float64) error {
	if len(src) != r.fft.size || len(dst) != r.Bins() {
		return fmt.Errorf("%w: dst=%d src=%d size=%d", ErrLength, len(dst), len(src), r.fft.size)
	}

	for i, x := range src {
		r.work[i] = complex(x, 0)
	}

	if err := r.fft.plan.Forward(r.work, r.work); err != nil {
		return err
	}

	copy(dst, r.work[:len(dst)])

	return nil
}

// Inverse reconstructs a real signal from its half spectrum. The imaginary
// parts of the DC and Nyquist bins are ignored.
func (r *Real) Inverse(dst []float64, src []complex128) error {
	n := r.fft.size
	if len(dst) != n || len(src) != r.Bins() {
		return fmt.Errorf("%w: dst=%d src=%d size=%d", ErrLength, len(dst), len(src), n)
	}

	half := n / 2
	r.work[0] = complex(real(src[0]), 0)
	r.work[half] = complex(real(src[half]), 0)

	for k := 1; k < half; k++ {
		r.work[k] = src[k]
		r.work[n-k] = cmplx.Conj(src[k])
	}

	if err := r.fft.plan.Inverse(r.work, r.work); err != nil {
		return err
	}

	for i := range dst {
		dst[i] = real(r.work[i])
	}

	return nil
}
