package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
	if !NearlyEqual(1e6, 1e6+1e-7, 0) {
		t.Fatal("default epsilon should be relative for large values")
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestSemitones(t *testing.T) {
	if got := SemitonesToRatio(12); got != 2 {
		t.Fatalf("SemitonesToRatio(12) = %v, want 2", got)
	}
	if got := SemitonesToRatio(-24); got != 0.25 {
		t.Fatalf("SemitonesToRatio(-24) = %v, want 0.25", got)
	}
	if got := RatioToSemitones(SemitonesToRatio(7)); !NearlyEqual(got, 7, 1e-12) {
		t.Fatalf("round trip = %v, want 7", got)
	}
}

func TestWrapPhase(t *testing.T) {
	for _, x := range []float64{0, 1, -1, 3, -3, 7, -7, 100, -100, math.Pi - 1e-9} {
		got := WrapPhase(x)
		if got < -math.Pi || got >= math.Pi {
			t.Fatalf("WrapPhase(%v) = %v out of range", x, got)
		}
		// Same angle modulo 2*pi.
		if d := math.Remainder(got-x, 2*math.Pi); math.Abs(d) > 1e-9 {
			t.Fatalf("WrapPhase(%v) = %v changes the angle", x, got)
		}
	}
}

func TestPowerOf2(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 3: 4, 1000: 1024, 1024: 1024, 5761: 8192}
	for n, want := range cases {
		if got := NextPowerOf2(n); got != want {
			t.Errorf("NextPowerOf2(%d) = %d, want %d", n, got, want)
		}
		if !IsPowerOf2(want) {
			t.Errorf("IsPowerOf2(%d) = false", want)
		}
	}
	for _, n := range []int{0, -4, 3, 6, 1023} {
		if IsPowerOf2(n) {
			t.Errorf("IsPowerOf2(%d) = true", n)
		}
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1) || IsFinite(math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Fatal("IsFinite misclassified")
	}
}
