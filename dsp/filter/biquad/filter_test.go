package biquad

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-stretch/internal/testutil"
)

// tolerance for float32 processing comparisons.
const eps32 = 1e-6

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func passthrough() Coefficients {
	return Coefficients{B0: 1}
}

func handTraced() Coefficients {
	return Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
}

func TestNewIsPassThrough(t *testing.T) {
	f := New()
	if got := f.Coefficients(); got != passthrough() {
		t.Fatalf("New() coefficients = %+v, want pass-through", got)
	}
	if f.State() != [2]float32{} {
		t.Fatalf("initial state not zero: %v", f.State())
	}

	for _, x := range []float32{1, 0, -1, 0.5, 0.25} {
		if y := f.ProcessSample(x); y != x {
			t.Fatalf("ProcessSample(%v) = %v, want pass-through", x, y)
		}
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// n=0: y=0.25, d0=0.55, d1=0.24
	// n=1: y=0.55, d0=0.35, d1=-0.022
	// n=2: y=0.35, d0=0.048, d1=-0.014
	// n=3: y=0.048
	f := NewFromCoefficients(handTraced())

	want := []float64{0.25, 0.55, 0.35, 0.048, -0.0044, -0.0028}
	for i, w := range want {
		var x float32
		if i == 0 {
			x = 1
		}
		if y := f.ProcessSample(x); !almostEqual(float64(y), w, eps32) {
			t.Fatalf("n=%d: got %.9f, want %.9f", i, y, w)
		}
	}
}

func TestProcessBufferMatchesProcessSample(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 5, 8, 17, 256} {
		input := testutil.DeterministicNoise(int64(n), 0.8, n)

		ref := New().Lowpass(0.07, 2)
		want := make([]float32, n)
		for i, x := range input {
			want[i] = ref.ProcessSample(x)
		}

		f := New().Lowpass(0.07, 2)
		got := make([]float32, n)
		f.ProcessBuffer(input, got)
		testutil.RequireSliceNearlyEqual(t, got, want, eps32)

		if d, err := testutil.MaxAbsDiff(
			[]float32{f.State()[0], f.State()[1]},
			[]float32{ref.State()[0], ref.State()[1]},
		); err != nil || d > eps32 {
			t.Fatalf("n=%d: state diverged by %v", n, d)
		}
	}
}

func TestProcessBufferInPlaceAndChunked(t *testing.T) {
	input := testutil.DeterministicNoise(3, 1, 301)

	whole := New().Peak(0.12, 1, 6, DesignVicanek)
	want := make([]float32, len(input))
	whole.ProcessBuffer(input, want)

	chunked := New().Peak(0.12, 1, 6, DesignVicanek)
	got := append([]float32(nil), input...)
	for start := 0; start < len(got); start += 37 {
		end := min(start+37, len(got))
		chunked.ProcessInPlace(got[start:end])
	}

	testutil.RequireSliceNearlyEqual(t, got, want, eps32)
}

func TestResetMatchesFreshFilter(t *testing.T) {
	warmup := testutil.DeterministicNoise(1, 1, 512)
	input := testutil.DeterministicNoise(2, 1, 512)

	used := New().Bandpass(0.1, 1)
	scratch := make([]float32, len(warmup))
	used.ProcessBuffer(warmup, scratch)
	coeffs := used.Coefficients()

	used.Reset()
	if used.Coefficients() != coeffs {
		t.Fatal("Reset changed coefficients")
	}
	if used.State() != [2]float32{} {
		t.Fatalf("Reset left state %v", used.State())
	}

	fresh := New().Bandpass(0.1, 1)

	got := make([]float32, len(input))
	want := make([]float32, len(input))
	used.ProcessBuffer(input, got)
	fresh.ProcessBuffer(input, want)

	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("sample %d: reset filter %v != fresh filter %v", i, got[i], want[i])
		}
	}
}

func TestRedesignKeepsState(t *testing.T) {
	f := New().Lowpass(0.1, 0.7)
	f.ProcessSample(1)
	st := f.State()

	if got := f.Highpass(0.2, 0.7); got != f {
		t.Fatal("design methods must return the receiver")
	}
	if f.State() != st {
		t.Fatalf("redesign changed state: %v -> %v", st, f.State())
	}
}

func TestDCResponseConverges(t *testing.T) {
	const n = 8192
	dc := testutil.DC(1, n)
	out := make([]float32, n)

	for _, d := range Designs {
		for _, freq := range []float64{0.01, 0.05, 0.2, 0.4} {
			lp := New().Lowpass(freq, math.Sqrt2/2, d)
			lp.ProcessBuffer(dc, out)
			if y := float64(out[n-1]); !almostEqual(y, 1, 1e-3) {
				t.Errorf("%v lowpass f=%v: DC output %v, want 1", d, freq, y)
			}

			hp := New().Highpass(freq, math.Sqrt2/2, d)
			hp.ProcessBuffer(dc, out)
			if y := float64(out[n-1]); !almostEqual(y, 0, 1e-3) {
				t.Errorf("%v highpass f=%v: DC output %v, want 0", d, freq, y)
			}
		}
	}
}

func TestImpulseResponseDoesNotModifyState(t *testing.T) {
	f := NewFromCoefficients(handTraced())
	f.ProcessSample(0.3)
	st := f.State()

	ir := f.ImpulseResponse(4)
	testutil.RequireSliceNearlyEqual(t, ir, []float32{0.25, 0.55, 0.35, 0.048}, eps32)
	if f.State() != st {
		t.Fatal("ImpulseResponse modified state")
	}
	if f.ImpulseResponse(0) != nil {
		t.Fatal("ImpulseResponse(0) should be nil")
	}
}

func TestProcessBufferZeroAlloc(t *testing.T) {
	f := New().Lowpass(0.1, 0.7)
	buf := testutil.DeterministicNoise(5, 1, 1024)

	allocs := testing.AllocsPerRun(50, func() {
		f.ProcessInPlace(buf)
	})
	if allocs != 0 {
		t.Fatalf("ProcessInPlace allocated %v times per run", allocs)
	}
}

func BenchmarkProcessSample(b *testing.B) {
	f := New().Lowpass(0.05, 0.7)
	x := float32(0.5)
	for b.Loop() {
		x = f.ProcessSample(x)
	}
}

func BenchmarkProcessBuffer(b *testing.B) {
	f := New().Lowpass(0.05, 0.7)
	buf := testutil.DeterministicNoise(1, 1, 4096)

	b.SetBytes(int64(len(buf) * 4))
	b.ReportAllocs()
	for b.Loop() {
		f.ProcessInPlace(buf)
	}
}
