package stretch

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/fft"
	"github.com/cwbudde/algo-stretch/dsp/window"
)

// Stretch is a streaming time-stretch and pitch-shift engine.
//
// Every call to Process consumes in.Frames() input frames and produces
// out.Frames() output frames; the ratio between the two is the playback
// rate for that call. Analysis frames are taken every IntervalSamples()
// output samples, so the output timeline is independent of how the caller
// chunks its calls as long as each chunk keeps the same integer ratio.
//
// A Stretch is not safe for concurrent use.
type Stretch struct {
	channels   int
	sampleRate float64
	block      int
	interval   int
	fftSize    int
	bins       int
	windowType window.Type

	transpose     float64
	tonalityLimit float64

	real      *fft.Real
	analysis  []float64
	synthesis []float64
	omega     []float64

	chans []channelState

	// Absolute input and output sample counters.
	inputCount  int64
	outputCount int64

	// Position of the most recent analysis frame, valid when havePrev.
	lastPos  int64
	havePrev bool

	reanchor   bool
	anchorRate float64

	rng *rand.Rand

	// Scratch shared by all channels.
	frame    []float64
	spectrum []complex128
	other    []complex128
	re       []float64
	im       []float64
	mag2     []float64
	freq     []float64
	peaks    []int
	inData   [][]float32
	outData  [][]float32
}

type channelState struct {
	// Input history ring of block+interval samples.
	history []float32
	// Phases of the current analysis and of the previous frame.
	phase     []float64
	lastPhase []float64
	scratch   []float64
	// Output phase accumulators.
	synthPhase []float64
	// Overlap-add ring of 2*block samples.
	ring []float64
}

// New creates a Stretch. All invalid options are reported together.
func New(opts ...Option) (*Stretch, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}

	seed := cfg.seed
	if !cfg.seeded {
		seed = rand.Int64()
	}

	s := &Stretch{
		channels:      cfg.channels,
		sampleRate:    cfg.sampleRate,
		block:         cfg.block,
		interval:      cfg.interval,
		windowType:    cfg.window,
		transpose:     cfg.transpose,
		tonalityLimit: cfg.tonalityLimit,
		reanchor:      true,
		anchorRate:    1,
		rng:           rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}

	if err := s.rebuild(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Stretch) rebuild() error {
	s.fftSize = fft.OptimalSize(s.block)
	s.bins = s.fftSize/2 + 1

	r, err := fft.NewReal(s.fftSize)
	if err != nil {
		return fmt.Errorf("stretch: create transform: %w", err)
	}

	s.real = r

	s.analysis = window.Generate(s.windowType, s.block, window.WithPeriodic())

	s.synthesis, err = window.SynthesisWindow(s.analysis, s.interval)
	if err != nil {
		return fmt.Errorf("stretch: synthesis window: %w", err)
	}

	s.omega = make([]float64, s.bins)
	for k := range s.omega {
		s.omega[k] = 2 * math.Pi * float64(k) / float64(s.fftSize)
	}

	s.chans = make([]channelState, s.channels)
	for c := range s.chans {
		s.chans[c] = channelState{
			history:    make([]float32, s.block+s.interval),
			phase:      make([]float64, s.bins),
			lastPhase:  make([]float64, s.bins),
			scratch:    make([]float64, s.bins),
			synthPhase: make([]float64, s.bins),
			ring:       make([]float64, 2*s.block),
		}
	}

	s.frame = make([]float64, s.fftSize)
	s.spectrum = make([]complex128, s.bins)
	s.other = make([]complex128, s.bins)
	s.re = make([]float64, s.bins)
	s.im = make([]float64, s.bins)
	s.mag2 = make([]float64, s.bins)
	s.freq = make([]float64, s.bins)
	s.peaks = make([]int, 0, s.bins)
	s.inData = make([][]float32, s.channels)
	s.outData = make([][]float32, s.channels)

	return nil
}

// BlockSamples returns the analysis window length.
func (s *Stretch) BlockSamples() int { return s.block }

// IntervalSamples returns the output hop between analysis frames.
func (s *Stretch) IntervalSamples() int { return s.interval }

// InputLatency returns block/2.
func (s *Stretch) InputLatency() int { return s.block / 2 }

// OutputLatency returns block - block/2.
func (s *Stretch) OutputLatency() int { return s.block - s.block/2 }

// Channels returns the fixed channel count.
func (s *Stretch) Channels() int { return s.channels }

// SampleRate returns the sample rate in Hz.
func (s *Stretch) SampleRate() float64 { return s.sampleRate }

// TransposeFactor returns the current pitch multiplier.
func (s *Stretch) TransposeFactor() float64 { return s.transpose }

// TonalityLimit returns the tonality limit in cycles/sample.
func (s *Stretch) TonalityLimit() float64 { return s.tonalityLimit }

// SetTransposeFactor changes the pitch multiplier from the next frame on.
func (s *Stretch) SetTransposeFactor(factor, tonalityLimit float64) error {
	if err := validateTranspose(factor, tonalityLimit); err != nil {
		return err
	}

	s.transpose = factor
	s.tonalityLimit = tonalityLimit

	return nil
}

// SetTransposeSemitones is SetTransposeFactor in semitones.
func (s *Stretch) SetTransposeSemitones(semitones, tonalityLimit float64) error {
	if !core.IsFinite(semitones) {
		return fmt.Errorf("%w: semitones %v", ErrInvalidTranspose, semitones)
	}

	return s.SetTransposeFactor(core.SemitonesToRatio(semitones), tonalityLimit)
}

// Process stretches in.Frames() input frames into out.Frames() output
// frames. It panics when either view has the wrong channel count.
func (s *Stretch) Process(in buffer.ConstView, out buffer.View) {
	s.checkChannels("Process input", in.Channels())
	s.checkChannels("Process output", out.Channels())

	for c := range s.channels {
		s.inData[c] = in.Channel(c)
		s.outData[c] = out.Channel(c)
	}

	s.run(s.inData, in.Frames(), s.outData, out.Frames())
}

// Seek feeds in as pre-roll without producing output. The next frame
// re-anchors its phases, randomized according to |playbackRate|.
func (s *Stretch) Seek(in buffer.ConstView, playbackRate float64) {
	s.checkChannels("Seek input", in.Channels())

	for c := range s.channels {
		s.inData[c] = in.Channel(c)
	}

	s.pushHistory(s.inData, in.Frames())
	s.inputCount += int64(in.Frames())

	s.reanchor = true
	s.havePrev = false
	s.anchorRate = math.Abs(playbackRate)
	if !core.IsFinite(s.anchorRate) {
		s.anchorRate = 1
	}
}

// Flush drains the engine into out as if the input were followed by
// silence at rate 1. The first BlockSamples() flushed frames carry the
// remaining output; anything the window would still have spread beyond
// out is folded back into it. After a flush the engine holds no energy,
// so further flushes produce exact silence.
//
// Flush drains in one shot: request InputLatency()+OutputLatency() frames
// in a single call. Splitting the drain over several calls keeps only what
// the first call returns.
func (s *Stretch) Flush(out buffer.View) {
	s.checkChannels("Flush output", out.Channels())

	m := out.Frames()
	if m == 0 {
		return
	}

	delta := s.inputCount - s.outputCount
	for x := range s.block {
		t := s.outputCount + int64(x)
		if t%int64(s.interval) == 0 {
			s.synthesize(t, t+delta, nil, 1)
		}
	}

	plain := min(m, s.block)
	ringLen := int64(len(s.chans[0].ring))

	for c := range s.channels {
		dst := out.Channel(c)
		ring := s.chans[c].ring

		for i := range plain {
			dst[i] = float32(ring[(s.outputCount+int64(i))%ringLen])
		}

		for i := 0; i < plain && plain+i < 2*s.block; i++ {
			dst[plain-1-i] -= float32(ring[(s.outputCount+int64(plain+i))%ringLen])
		}

		clear(dst[plain:])
		clear(ring)
		clear(s.chans[c].history)
	}

	s.outputCount += int64(m)
	s.inputCount += int64(m)
	s.reanchor = true
	s.havePrev = false
	s.anchorRate = 1
}

func (s *Stretch) checkChannels(what string, got int) {
	if got != s.channels {
		panic(fmt.Sprintf("stretch: %s has %d channels, engine has %d", what, got, s.channels))
	}
}

// run is the shared body of Process. in may be nil for silence.
func (s *Stretch) run(in [][]float32, n int, out [][]float32, m int) {
	rate := 1.0
	if m > 0 {
		rate = float64(n) / float64(m)
	}

	interval := int64(s.interval)
	ringLen := int64(2 * s.block)

	for i := range m {
		t := s.outputCount + int64(i)
		if t%interval == 0 {
			p := s.inputCount + int64(i)*int64(n)/int64(m)
			s.synthesize(t, p, in, rate)
		}

		slot := t % ringLen
		for c := range s.channels {
			ring := s.chans[c].ring
			out[c][i] = float32(ring[slot])
			ring[slot] = 0
		}
	}

	s.pushHistory(in, n)
	s.inputCount += int64(n)
	s.outputCount += int64(m)
}

// pushHistory appends n input frames to the history rings.
func (s *Stretch) pushHistory(in [][]float32, n int) {
	for c := range s.channels {
		hist := s.chans[c].history
		histLen := int64(len(hist))

		for j := max(0, n-len(hist)); j < n; j++ {
			var v float32
			if in != nil {
				v = in[c][j]
			}

			hist[(s.inputCount+int64(j))%histLen] = v
		}
	}
}

// sample returns input sample idx of channel c. Indices at or past
// inputCount come from the pending call's input.
func (s *Stretch) sample(c int, idx int64, in [][]float32) float64 {
	if idx >= s.inputCount {
		if in == nil {
			return 0
		}

		return float64(in[c][idx-s.inputCount])
	}

	hist := s.chans[c].history
	histLen := int64(len(hist))

	if idx < 0 || idx < s.inputCount-histLen {
		return 0
	}

	return float64(hist[idx%histLen])
}
