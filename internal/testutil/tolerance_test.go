package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float32{1, 2, 3}, []float32{1, 2.5, 3})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d-0.5) > 1e-7 {
		t.Fatalf("MaxAbsDiff = %v, want 0.5", d)
	}

	if _, err := MaxAbsDiff([]float32{1}, []float32{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestEnergyAndArgMaxAbs(t *testing.T) {
	x := []float32{0.5, -2, 1}
	if got := Energy(x); got != 5.25 {
		t.Fatalf("Energy = %v, want 5.25", got)
	}
	if got := ArgMaxAbs(x); got != 1 {
		t.Fatalf("ArgMaxAbs = %d, want 1", got)
	}
	if got := ArgMaxAbs(nil); got != -1 {
		t.Fatalf("ArgMaxAbs(nil) = %d, want -1", got)
	}
}
