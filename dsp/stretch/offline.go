package stretch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
)

// Offline stretches a whole clip to exactly outFrames frames. The engine
// latency is compensated, so output frame 0 lines up with input frame 0.
// The channel count is taken from in and overrides WithChannels.
func Offline(in buffer.ConstView, outFrames int, opts ...Option) (*buffer.Buffer, error) {
	if outFrames < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrames, outFrames)
	}

	opts = append(opts[:len(opts):len(opts)], WithChannels(in.Channels()))

	s, err := New(opts...)
	if err != nil {
		return nil, err
	}

	result := buffer.NewBuffer(in.Channels(), outFrames)
	if outFrames == 0 || in.Frames() == 0 {
		return result, nil
	}

	rate := float64(in.Frames()) / float64(outFrames)
	delay := int(math.Round(float64(s.InputLatency())/rate + float64(s.OutputLatency())))

	work := buffer.NewBuffer(in.Channels(), outFrames+delay)
	s.Process(in, work.View().Slice(0, outFrames))

	tail := buffer.NewBuffer(in.Channels(), int(math.Ceil(float64(delay)*rate)))
	s.Process(tail.ConstView(), work.View().Slice(outFrames, outFrames+delay))

	result.View().CopyFrom(work.ConstView().Slice(delay, outFrames+delay))

	return result, nil
}
