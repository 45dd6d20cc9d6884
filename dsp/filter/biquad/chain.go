package biquad

// Chain is an ordered cascade of filters processed in series, for example
// a highpass followed by a few peaking bands on one channel.
type Chain struct {
	filters []Filter
	gain    float32
}

type chainConfig struct {
	gain float32
}

// ChainOption configures a Chain.
type ChainOption func(*chainConfig)

// WithGain sets a gain applied to the input before the first stage.
// Default is 1.
func WithGain(g float32) ChainOption {
	return func(cfg *chainConfig) { cfg.gain = g }
}

// NewChain creates one stage per coefficient set, all with zero state.
func NewChain(coeffs []Coefficients, opts ...ChainOption) *Chain {
	cfg := chainConfig{gain: 1}
	for _, o := range opts {
		o(&cfg)
	}

	c := &Chain{
		filters: make([]Filter, len(coeffs)),
		gain:    cfg.gain,
	}
	for i := range coeffs {
		c.filters[i].SetCoefficients(coeffs[i])
	}

	return c
}

// ProcessSample runs x through every stage in order.
func (c *Chain) ProcessSample(x float32) float32 {
	x *= c.gain
	for i := range c.filters {
		x = c.filters[i].ProcessSample(x)
	}

	return x
}

// ProcessBuffer filters len(input) samples into output. The first stage
// reads input; later stages run in place on output.
func (c *Chain) ProcessBuffer(input, output []float32) {
	n := len(input)
	if n == 0 {
		return
	}
	out := output[:n]

	if c.gain != 1 {
		for i, x := range input {
			out[i] = x * c.gain
		}
	} else {
		copy(out, input)
	}

	for i := range c.filters {
		c.filters[i].ProcessInPlace(out)
	}
}

// Reset clears every stage's state.
func (c *Chain) Reset() {
	for i := range c.filters {
		c.filters[i].Reset()
	}
}

// Order returns the total filter order (2 per stage).
func (c *Chain) Order() int {
	return 2 * len(c.filters)
}

// NumSections returns the number of stages.
func (c *Chain) NumSections() int {
	return len(c.filters)
}

// Gain returns the input gain.
func (c *Chain) Gain() float32 { return c.gain }

// SetGain updates the input gain.
func (c *Chain) SetGain(g float32) { c.gain = g }

// UpdateCoefficients replaces the stage coefficients. When the stage count
// is unchanged, state is preserved so a live parameter change does not
// click; otherwise the stages are rebuilt with zero state.
func (c *Chain) UpdateCoefficients(coeffs []Coefficients) {
	if len(coeffs) != len(c.filters) {
		c.filters = make([]Filter, len(coeffs))
	}
	for i := range coeffs {
		c.filters[i].SetCoefficients(coeffs[i])
	}
}

// Filter returns the i-th stage for inspection or redesign.
func (c *Chain) Filter(i int) *Filter {
	return &c.filters[i]
}

// State returns a snapshot of all stage states.
func (c *Chain) State() [][2]float32 {
	states := make([][2]float32, len(c.filters))
	for i := range c.filters {
		states[i] = c.filters[i].State()
	}

	return states
}

// SetState restores previously saved stage states.
func (c *Chain) SetState(states [][2]float32) {
	for i := range c.filters {
		c.filters[i].SetState(states[i])
	}
}
