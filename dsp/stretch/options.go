package stretch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/window"
	"github.com/hashicorp/go-multierror"
)

const (
	defaultChannels   = 1
	defaultSampleRate = 48000.0
	minBlock          = 2
)

// Preset selects a block/interval pair relative to the sample rate.
type Preset int

const (
	// PresetDefault uses a 120 ms block and a 30 ms interval.
	PresetDefault Preset = iota
	// PresetCheaper uses a 100 ms block and a 40 ms interval, which costs
	// less CPU at some loss of quality.
	PresetCheaper
)

// String returns the preset name.
func (p Preset) String() string {
	switch p {
	case PresetDefault:
		return "default"
	case PresetCheaper:
		return "cheaper"
	default:
		return fmt.Sprintf("Preset(%d)", int(p))
	}
}

// ParsePreset maps a preset name back to its value.
func ParsePreset(name string) (Preset, error) {
	switch name {
	case "default", "":
		return PresetDefault, nil
	case "cheaper":
		return PresetCheaper, nil
	default:
		return PresetDefault, fmt.Errorf("unknown preset %q", name)
	}
}

func (p Preset) seconds() (block, interval float64) {
	if p == PresetCheaper {
		return 0.1, 0.04
	}

	return 0.12, 0.03
}

// Option configures a Stretch at construction.
type Option func(*config)

type config struct {
	channels      int
	sampleRate    float64
	preset        Preset
	block         int
	interval      int
	explicitBlock bool
	seed          int64
	seeded        bool
	transpose     float64
	tonalityLimit float64
	window        window.Type
}

func defaultConfig() config {
	return config{
		channels:   defaultChannels,
		sampleRate: defaultSampleRate,
		preset:     PresetDefault,
		transpose:  1,
		window:     window.TypeHann,
	}
}

// WithChannels sets the channel count. Default 1.
func WithChannels(n int) Option {
	return func(c *config) { c.channels = n }
}

// WithSampleRate sets the sample rate in Hz. Default 48000.
func WithSampleRate(sr float64) Option {
	return func(c *config) { c.sampleRate = sr }
}

// WithPreset derives block and interval from the sample rate.
// An explicit WithBlock takes precedence.
func WithPreset(p Preset) Option {
	return func(c *config) { c.preset = p }
}

// WithBlock sets the analysis block length and the interval between
// analysis frames, both in samples.
func WithBlock(block, interval int) Option {
	return func(c *config) {
		c.block = block
		c.interval = interval
		c.explicitBlock = true
	}
}

// WithSeed makes the engine deterministic.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// WithTransposeFactor sets the pitch multiplier and the tonality limit in
// cycles/sample. A zero limit disables it.
func WithTransposeFactor(factor, tonalityLimit float64) Option {
	return func(c *config) {
		c.transpose = factor
		c.tonalityLimit = tonalityLimit
	}
}

// WithTransposeSemitones is WithTransposeFactor with the factor given in
// semitones.
func WithTransposeSemitones(semitones, tonalityLimit float64) Option {
	return WithTransposeFactor(core.SemitonesToRatio(semitones), tonalityLimit)
}

// WithWindow selects the analysis window. Default Hann.
func WithWindow(t window.Type) Option {
	return func(c *config) { c.window = t }
}

// resolve fills in block and interval and reports every invalid field.
func (c *config) resolve() error {
	var errs *multierror.Error

	if c.channels <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("%w: %d", ErrInvalidChannels, c.channels))
	}

	rateOK := core.IsFinite(c.sampleRate) && c.sampleRate > 0
	if !rateOK {
		errs = multierror.Append(errs, fmt.Errorf("%w: %v", ErrInvalidSampleRate, c.sampleRate))
	}

	if rateOK && !c.explicitBlock {
		b, i := c.preset.seconds()
		c.block = int(math.Round(b * c.sampleRate))
		c.interval = int(math.Round(i * c.sampleRate))
	}

	// Preset sizes are unknown without a valid sample rate.
	if (rateOK || c.explicitBlock) && (c.block < minBlock || c.interval < 1 || c.interval > c.block) {
		errs = multierror.Append(errs, fmt.Errorf("%w: block=%d interval=%d", ErrInvalidBlock, c.block, c.interval))
	}

	if err := validateTranspose(c.transpose, c.tonalityLimit); err != nil {
		errs = multierror.Append(errs, err)
	}

	if c.window < window.TypeRectangular || c.window > window.TypeKaiser {
		errs = multierror.Append(errs, fmt.Errorf("%w: %d", ErrInvalidWindow, int(c.window)))
	}

	return errs.ErrorOrNil()
}

func validateTranspose(factor, tonalityLimit float64) error {
	if !core.IsFinite(factor) || factor <= 0 {
		return fmt.Errorf("%w: factor %v", ErrInvalidTranspose, factor)
	}

	if !core.IsFinite(tonalityLimit) || tonalityLimit < 0 {
		return fmt.Errorf("%w: tonality limit %v", ErrInvalidTranspose, tonalityLimit)
	}

	return nil
}
