// Package stream adapts a stretch engine to interleaved float32 PCM
// byte streams.
package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/stretch"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/iamcalledrob/circular"
)

const (
	bytesPerSample     = 4
	defaultChunkFrames = 1024
)

var ErrInvalidRatio = errors.New("stream: ratio must be positive and finite")

// Option configures a Reader.
type Option func(*config)

type config struct {
	chunkFrames int
}

// WithChunkFrames sets how many input frames are fed to the engine per
// step. Default 1024.
func WithChunkFrames(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkFrames = n
		}
	}
}

// Reader reads interleaved little-endian float32 PCM from a source and
// yields the stretched stream in the same format. Every chunk of input
// frames becomes round(chunk*ratio) output frames; at the end of the
// source the engine is flushed so the latency tail is not lost.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	ctx    context.Context
	src    io.Reader
	engine *stretch.Stretch

	channels    int
	frameBytes  int
	chunkFrames int
	outFrames   int

	staging *circular.Buffer
	staged  int
	pending *circular.Buffer

	readBuf  []byte
	chunkBuf []byte
	outBytes []byte

	in     *buffer.Buffer
	out    *buffer.Buffer
	tail   *buffer.Buffer
	pcm    []float32
	srcEOF bool
	done   bool
	err    error

	framesIn  int64
	framesOut int64
}

var _ io.ReadCloser = (*Reader)(nil)

// NewReader wraps src. ratio is output frames per input frame, so 2
// doubles the duration.
func NewReader(ctx context.Context, src io.Reader, engine *stretch.Stretch, ratio float64, opts ...Option) (*Reader, error) {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRatio, ratio)
	}

	cfg := config{chunkFrames: defaultChunkFrames}
	for _, opt := range opts {
		opt(&cfg)
	}

	channels := engine.Channels()
	frameBytes := channels * bytesPerSample
	outFrames := max(1, int(math.Round(float64(cfg.chunkFrames)*ratio)))
	block := engine.BlockSamples()
	maxOut := max(outFrames, block)

	r := &Reader{
		ctx:         ctx,
		src:         src,
		engine:      engine,
		channels:    channels,
		frameBytes:  frameBytes,
		chunkFrames: cfg.chunkFrames,
		outFrames:   outFrames,
		staging:     circular.NewBuffer(2 * cfg.chunkFrames * frameBytes),
		pending:     circular.NewBuffer((outFrames + block + 1) * frameBytes),
		readBuf:     make([]byte, cfg.chunkFrames*frameBytes),
		chunkBuf:    make([]byte, cfg.chunkFrames*frameBytes),
		outBytes:    make([]byte, maxOut*frameBytes),
		in:          buffer.NewBuffer(channels, cfg.chunkFrames),
		out:         buffer.NewBuffer(channels, maxOut),
		tail:        buffer.NewBuffer(channels, block),
		pcm:         make([]float32, max(maxOut, cfg.chunkFrames)*channels),
	}

	logger.Debugf(ctx, "stream: channels=%d chunk=%d->%d block=%d", channels, cfg.chunkFrames, outFrames, block)

	return r, nil
}

// FramesIn returns the number of input frames consumed so far.
func (r *Reader) FramesIn() int64 { return r.framesIn }

// FramesOut returns the number of output frames produced so far.
func (r *Reader) FramesOut() int64 { return r.framesOut }

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (_ret int, _err error) {
	logger.Tracef(r.ctx, "Read, len:%d", len(p))
	defer func() { logger.Tracef(r.ctx, "/Read, len:%d: %d, %v", len(p), _ret, _err) }()

	if r.err != nil {
		return 0, r.err
	}

	for {
		n, err := r.pending.Read(p)
		if n > 0 {
			return n, nil
		}

		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("unable to read from the output buffer: %w", err)
		}

		if r.done {
			return 0, io.EOF
		}

		if err := r.ctx.Err(); err != nil {
			return 0, err
		}

		if err := r.step(); err != nil {
			r.err = err
			return 0, err
		}
	}
}

// Close closes the source when it is an io.Closer.
func (r *Reader) Close() error {
	var result *multierror.Error

	if c, ok := r.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("unable to close the source: %w", err))
		}
	}

	if r.err != nil && !errors.Is(r.err, context.Canceled) {
		result = multierror.Append(result, r.err)
	}

	r.done = true

	return result.ErrorOrNil()
}

// step advances the pipeline by at most one source read and one chunk.
func (r *Reader) step() error {
	chunkBytes := r.chunkFrames * r.frameBytes

	if !r.srcEOF && r.staged < chunkBytes {
		n, err := r.src.Read(r.readBuf[:chunkBytes-r.staged])
		logger.Tracef(r.ctx, "source Read: %d %v", n, err)

		if n > 0 {
			if _, werr := r.staging.Write(r.readBuf[:n]); werr != nil {
				return fmt.Errorf("unable to write to the staging buffer: %w", werr)
			}

			r.staged += n
		}

		switch {
		case errors.Is(err, io.EOF):
			r.srcEOF = true
		case err != nil:
			return fmt.Errorf("unable to read the source: %w", err)
		}
	}

	if r.staged >= chunkBytes {
		return r.processStaged(r.chunkFrames, r.outFrames)
	}

	if !r.srcEOF {
		return nil
	}

	return r.finish()
}

// finish processes the partial last chunk and flushes the engine.
func (r *Reader) finish() error {
	frames := r.staged / r.frameBytes
	if rem := r.staged % r.frameBytes; rem != 0 {
		logger.Warnf(r.ctx, "stream: dropping %d trailing bytes of an incomplete frame", rem)
	}

	if frames > 0 {
		outFrames := int(math.Round(float64(frames) * float64(r.outFrames) / float64(r.chunkFrames)))
		if err := r.processStaged(frames, outFrames); err != nil {
			return err
		}
	}

	r.engine.Flush(r.tail.View())
	r.framesOut += int64(r.tail.Frames())

	if err := r.emit(r.tail.ConstView()); err != nil {
		return err
	}

	logger.Debugf(r.ctx, "stream: finished, %d frames in, %d frames out", r.framesIn, r.framesOut)
	r.done = true
	r.staged = 0

	return nil
}

func (r *Reader) processStaged(frames, outFrames int) error {
	nbytes := frames * r.frameBytes

	n, err := r.staging.Read(r.chunkBuf[:nbytes])
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("unable to read from the staging buffer: %w", err)
	}

	if n != nbytes {
		return fmt.Errorf("staging buffer returned %d bytes, expected %d", n, nbytes)
	}

	r.staged -= nbytes

	DecodeFloat32LE(r.pcm[:frames*r.channels], r.chunkBuf[:nbytes])

	in := r.in.View().Slice(0, frames)
	buffer.Deinterleave(in, r.pcm[:frames*r.channels])

	out := r.out.View().Slice(0, outFrames)
	r.engine.Process(in.Const(), out)

	r.framesIn += int64(frames)
	r.framesOut += int64(outFrames)

	return r.emit(out.Const())
}

// emit interleaves v and queues it for Read.
func (r *Reader) emit(v buffer.ConstView) error {
	samples := v.Frames() * r.channels
	buffer.Interleave(r.pcm[:samples], v)
	EncodeFloat32LE(r.outBytes[:samples*bytesPerSample], r.pcm[:samples])

	if _, err := r.pending.Write(r.outBytes[:samples*bytesPerSample]); err != nil {
		return fmt.Errorf("unable to write to the output buffer: %w", err)
	}

	return nil
}

// DecodeFloat32LE decodes len(dst) little-endian float32 samples from src.
func DecodeFloat32LE(dst []float32, src []byte) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*bytesPerSample:]))
	}
}

// EncodeFloat32LE encodes src as little-endian float32 into dst.
func EncodeFloat32LE(dst []byte, src []float32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*bytesPerSample:], math.Float32bits(v))
	}
}
