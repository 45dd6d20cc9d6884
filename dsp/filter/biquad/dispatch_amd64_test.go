//go:build amd64 && !purego

package biquad

import (
	"sync"
	"testing"

	archregistry "github.com/cwbudde/algo-stretch/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-stretch/internal/testutil"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func resetProcessBlockDispatchForTest() {
	processBlockImpl = nil
	processBlockInitOnce = sync.Once{}
}

func TestProcessBlockDispatch_AMD64Modes(t *testing.T) {
	tests := []struct {
		name     string
		features cpu.Features
		wantImpl string
	}{
		{
			name: "generic-forced",
			features: cpu.Features{
				ForceGeneric: true,
				Architecture: "amd64",
			},
			wantImpl: "generic",
		},
		{
			name: "sse2-only",
			features: cpu.Features{
				HasSSE2:      true,
				Architecture: "amd64",
			},
			wantImpl: "generic",
		},
		{
			name: "avx2",
			features: cpu.Features{
				HasSSE2:      true,
				HasAVX2:      true,
				Architecture: "amd64",
			},
			wantImpl: "avx2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu.SetForcedFeatures(tt.features)
			defer cpu.ResetDetection()

			resetProcessBlockDispatchForTest()
			defer resetProcessBlockDispatchForTest()

			entry := archregistry.Global.Lookup(cpu.DetectFeatures())
			if entry == nil {
				t.Fatal("Lookup returned nil")
			}
			if entry.Name != tt.wantImpl {
				t.Fatalf("expected %q, got %q", tt.wantImpl, entry.Name)
			}

			coeff := handTraced()
			ref := NewFromCoefficients(coeff)
			got := NewFromCoefficients(coeff)
			input := testutil.DeterministicNoise(77, 0.8, 37)

			want := make([]float32, len(input))
			for i, x := range input {
				want[i] = ref.ProcessSample(x)
			}

			out := make([]float32, len(input))
			got.ProcessBuffer(input, out)

			testutil.RequireSliceNearlyEqual(t, out, want, eps32)
			gs, rs := got.State(), ref.State()
			testutil.RequireSliceNearlyEqual(t, gs[:], rs[:], eps32)
		})
	}
}
