package design

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-stretch/dsp/filter/biquad"
)

func chainFor(sections []biquad.Coefficients) *biquad.Chain {
	return biquad.NewChain(sections)
}

func TestButterworth_SectionCount(t *testing.T) {
	for order := 1; order <= 8; order++ {
		want := (order + 1) / 2
		if got := len(ButterworthLP(1000, order, 48000, biquad.DesignCookbook)); got != want {
			t.Errorf("LP order=%d: %d sections, want %d", order, got, want)
		}
		if got := len(ButterworthHP(1000, order, 48000, biquad.DesignCookbook)); got != want {
			t.Errorf("HP order=%d: %d sections, want %d", order, got, want)
		}
	}
}

func TestButterworth_OddOrderHasFirstOrderSection(t *testing.T) {
	for _, sections := range [][]biquad.Coefficients{
		ButterworthLP(1000, 5, 48000, biquad.DesignCookbook),
		ButterworthHP(1000, 5, 48000, biquad.DesignCookbook),
	} {
		last := sections[len(sections)-1]
		if last.B2 != 0 || last.A2 != 0 {
			t.Fatalf("last section not first-order: %+v", last)
		}
		for _, s := range sections[:len(sections)-1] {
			if s.A2 == 0 {
				t.Fatalf("inner section should be second-order: %+v", s)
			}
		}
	}
}

func TestButterworth_Minus3dBAtCutoff(t *testing.T) {
	sr := 48000.0
	for _, order := range []int{1, 2, 3, 4, 6} {
		for _, freq := range []float64{200, 1000, 5000} {
			name := fmt.Sprintf("order=%d/f=%v", order, freq)
			t.Run(name, func(t *testing.T) {
				lp := chainFor(ButterworthLP(freq, order, sr, biquad.DesignCookbook))
				hp := chainFor(ButterworthHP(freq, order, sr, biquad.DesignCookbook))

				// float32 stage storage bounds the achievable accuracy.
				if db := lp.MagnitudeDB(freq / sr); !almostEqual(db, -3.0103, 0.01) {
					t.Errorf("LP cutoff = %.4f dB", db)
				}
				if db := hp.MagnitudeDB(freq / sr); !almostEqual(db, -3.0103, 0.01) {
					t.Errorf("HP cutoff = %.4f dB", db)
				}
			})
		}
	}
}

func TestButterworth_HigherOrderSteeperRolloff(t *testing.T) {
	sr := 48000.0
	lp2 := chainFor(ButterworthLP(1000, 2, sr, biquad.DesignCookbook))
	lp6 := chainFor(ButterworthLP(1000, 6, sr, biquad.DesignCookbook))
	if !(lp6.MagnitudeDB(8000/sr) < lp2.MagnitudeDB(8000/sr)-20) {
		t.Fatal("order 6 lowpass should attenuate far more than order 2")
	}

	hp2 := chainFor(ButterworthHP(1000, 2, sr, biquad.DesignCookbook))
	hp6 := chainFor(ButterworthHP(1000, 6, sr, biquad.DesignCookbook))
	if !(hp6.MagnitudeDB(125/sr) < hp2.MagnitudeDB(125/sr)-20) {
		t.Fatal("order 6 highpass should attenuate far more than order 2")
	}
}

func TestButterworth_AllSectionsStable(t *testing.T) {
	for _, d := range biquad.Designs {
		for _, order := range []int{1, 2, 3, 4, 7, 8} {
			for _, freq := range []float64{20, 1000, 20000} {
				for _, s := range ButterworthLP(freq, order, 48000, d) {
					if !s.Stable() {
						t.Fatalf("%v LP order=%d f=%v unstable: %+v", d, order, freq, s)
					}
				}
				for _, s := range ButterworthHP(freq, order, 48000, d) {
					if !s.Stable() {
						t.Fatalf("%v HP order=%d f=%v unstable: %+v", d, order, freq, s)
					}
				}
			}
		}
	}
}

func TestButterworth_InvalidInputs(t *testing.T) {
	if ButterworthLP(1000, 0, 48000, biquad.DesignCookbook) != nil {
		t.Fatal("order 0 should return nil")
	}
	if ButterworthHP(1000, -2, 48000, biquad.DesignCookbook) != nil {
		t.Fatal("negative order should return nil")
	}
	if ButterworthLP(30000, 4, 48000, biquad.DesignCookbook) != nil {
		t.Fatal("freq above Nyquist should return nil")
	}
	if ButterworthHP(1000, 4, 0, biquad.DesignCookbook) != nil {
		t.Fatal("sr=0 should return nil")
	}
}

func TestButterworthQ_KnownValues(t *testing.T) {
	if got := butterworthQ(2, 0); !almostEqual(got, 1/math.Sqrt2, 1e-12) {
		t.Fatalf("order=2 index=0: Q=%.10f", got)
	}
	if got, want := butterworthQ(4, 0), 1/(2*math.Sin(math.Pi/8)); !almostEqual(got, want, 1e-12) {
		t.Fatalf("order=4 index=0: Q=%.10f, want %.10f", got, want)
	}
	if got, want := butterworthQ(4, 1), 1/(2*math.Sin(3*math.Pi/8)); !almostEqual(got, want, 1e-12) {
		t.Fatalf("order=4 index=1: Q=%.10f, want %.10f", got, want)
	}
}

func TestButterworthFirstOrder(t *testing.T) {
	k, ok := bilinearK(1000, 48000)
	if !ok {
		t.Fatal("1 kHz at 48 kHz should be valid")
	}

	lp := firstOrder(biquad.ShapeLowpass, k)
	hp := firstOrder(biquad.ShapeHighpass, k)

	if !almostEqual(lp.DCGain(), 1, 1e-12) || !almostEqual(lp.NyquistGain(), 0, 1e-12) {
		t.Fatalf("LP gains: dc=%v nyq=%v", lp.DCGain(), lp.NyquistGain())
	}
	if !almostEqual(hp.DCGain(), 0, 1e-12) || !almostEqual(hp.NyquistGain(), 1, 1e-12) {
		t.Fatalf("HP gains: dc=%v nyq=%v", hp.DCGain(), hp.NyquistGain())
	}

	for _, f := range []float64{0, 24000, 25000} {
		if _, ok := bilinearK(f, 48000); ok {
			t.Fatalf("freq %v should be rejected", f)
		}
	}
}
