package registry

import (
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"
)

func TestRegistryLookupPrefersHigherPriority(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(OpEntry{Name: "generic", SIMDLevel: cpu.SIMDNone, Priority: 0})
	reg.Register(OpEntry{Name: "avx2", SIMDLevel: cpu.SIMDAVX2, Priority: 20})

	entry := reg.Lookup(cpu.Features{HasSSE2: true, HasAVX2: true})
	if entry == nil || entry.Name != "avx2" {
		t.Fatalf("expected avx2, got %#v", entry)
	}

	entry = reg.Lookup(cpu.Features{HasSSE2: true})
	if entry == nil || entry.Name != "generic" {
		t.Fatalf("expected generic, got %#v", entry)
	}
}

func TestRegistryLookupForceGeneric(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(OpEntry{Name: "avx2", SIMDLevel: cpu.SIMDAVX2, Priority: 20})
	reg.Register(OpEntry{Name: "generic", SIMDLevel: cpu.SIMDNone, Priority: 0})

	entry := reg.Lookup(cpu.Features{HasAVX2: true, ForceGeneric: true})
	if entry == nil || entry.Name != "generic" {
		t.Fatalf("expected generic with ForceGeneric, got %#v", entry)
	}
}

func TestRegistryLookupEmpty(t *testing.T) {
	reg := &OpRegistry{}
	if entry := reg.Lookup(cpu.Features{}); entry != nil {
		t.Fatalf("expected nil from empty registry, got %#v", entry)
	}
}

func TestRegistryEqualPriorityKeepsRegistrationOrder(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(OpEntry{Name: "first", SIMDLevel: cpu.SIMDNone, Priority: 5})
	reg.Register(OpEntry{Name: "second", SIMDLevel: cpu.SIMDNone, Priority: 5})

	entry := reg.Lookup(cpu.Features{})
	if entry == nil || entry.Name != "first" {
		t.Fatalf("expected first, got %#v", entry)
	}

	if n := len(reg.ListEntries()); n != 2 {
		t.Fatalf("ListEntries() len = %d, want 2", n)
	}

	reg.Reset()
	if n := len(reg.ListEntries()); n != 0 {
		t.Fatalf("after Reset ListEntries() len = %d, want 0", n)
	}
}
