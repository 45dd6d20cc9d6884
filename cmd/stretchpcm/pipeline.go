package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/delay"
	"github.com/cwbudde/algo-stretch/dsp/filter/biquad"
	"github.com/cwbudde/algo-stretch/dsp/filter/design"
	"github.com/cwbudde/algo-stretch/dsp/stretch/stream"
	"github.com/cwbudde/algo-vecmath"
	"github.com/facebookincubator/go-belt/tool/logger"
)

const (
	bytesPerSample = 4
	runFrames      = 4096
)

type postConfig struct {
	channels    int
	sampleRate  float64
	lowpassHz   float64
	highpassHz  float64
	filterOrder int
	delayMs     float64
}

// postProcessor filters, delays and meters the stretched output.
type postProcessor struct {
	chains       []*biquad.Chain
	delay        *delay.MultiDelay
	delaySamples float64
	scratch      []float64
	peak         float64
}

func newPostProcessor(cfg postConfig) (*postProcessor, error) {
	if cfg.channels <= 0 {
		return nil, fmt.Errorf("channels must be positive: %d", cfg.channels)
	}

	var coeffs []biquad.Coefficients

	if cfg.highpassHz > 0 {
		hp := design.ButterworthHP(cfg.highpassHz, cfg.filterOrder, cfg.sampleRate, biquad.DesignCookbook)
		if hp == nil {
			return nil, fmt.Errorf("invalid highpass: %v Hz, order %d", cfg.highpassHz, cfg.filterOrder)
		}

		coeffs = append(coeffs, hp...)
	}

	if cfg.lowpassHz > 0 {
		lp := design.ButterworthLP(cfg.lowpassHz, cfg.filterOrder, cfg.sampleRate, biquad.DesignCookbook)
		if lp == nil {
			return nil, fmt.Errorf("invalid lowpass: %v Hz, order %d", cfg.lowpassHz, cfg.filterOrder)
		}

		coeffs = append(coeffs, lp...)
	}

	p := &postProcessor{scratch: make([]float64, runFrames)}

	if len(coeffs) > 0 {
		p.chains = make([]*biquad.Chain, cfg.channels)
		for c := range p.chains {
			p.chains[c] = biquad.NewChain(coeffs)
		}
	}

	if cfg.delayMs < 0 || math.IsNaN(cfg.delayMs) {
		return nil, fmt.Errorf("delay must be >= 0: %v ms", cfg.delayMs)
	}

	if cfg.delayMs > 0 {
		p.delaySamples = cfg.delayMs * cfg.sampleRate / 1000

		d, err := delay.NewMulti(cfg.channels, int(math.Ceil(p.delaySamples)))
		if err != nil {
			return nil, fmt.Errorf("unable to create the delay: %w", err)
		}

		p.delay = d
	}

	return p, nil
}

// Process runs the chain in place on v and updates the peak meter.
func (p *postProcessor) Process(v buffer.View) {
	for c := range v.Channels() {
		ch := v.Channel(c)
		if p.chains != nil {
			p.chains[c].ProcessBuffer(ch, ch)
		}
	}

	if p.delay != nil {
		p.delay.Process(v, p.delaySamples)
	}

	for c := range v.Channels() {
		ch := v.Channel(c)
		for start := 0; start < len(ch); start += len(p.scratch) {
			part := ch[start:min(start+len(p.scratch), len(ch))]
			wide := p.scratch[:len(part)]

			for i, s := range part {
				wide[i] = float64(s)
			}

			p.peak = max(p.peak, vecmath.MaxAbs(wide))
		}
	}
}

// Peak returns the largest absolute output sample seen so far.
func (p *postProcessor) Peak() float64 { return p.peak }

// run copies the stretched stream from r to w through post.
func run(ctx context.Context, r io.Reader, w io.Writer, post *postProcessor, channels int) error {
	frameBytes := channels * bytesPerSample
	raw := make([]byte, runFrames*frameBytes)
	pcm := make([]float32, runFrames*channels)
	buf := buffer.NewBuffer(channels, runFrames)

	for {
		n, err := io.ReadFull(r, raw)
		if n%frameBytes != 0 {
			return fmt.Errorf("stream returned a partial frame: %d bytes", n)
		}

		if frames := n / frameBytes; frames > 0 {
			samples := frames * channels
			stream.DecodeFloat32LE(pcm[:samples], raw[:n])

			v := buf.View().Slice(0, frames)
			buffer.Deinterleave(v, pcm[:samples])
			post.Process(v)
			buffer.Interleave(pcm[:samples], v.Const())
			stream.EncodeFloat32LE(raw[:n], pcm[:samples])

			if _, werr := w.Write(raw[:n]); werr != nil {
				return fmt.Errorf("unable to write the output: %w", werr)
			}

			logger.Tracef(ctx, "wrote %d frames", frames)
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil
		default:
			return fmt.Errorf("unable to read the stretched stream: %w", err)
		}
	}
}
