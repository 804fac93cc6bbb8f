package bitness

import "testing"

func TestPairDispatch(t *testing.T) {
	cases := []struct {
		name        string
		pair        Pair
		sameBitness bool
		heavensGate bool
		narrowing   bool
	}{
		{"32-32", Pair{Width32, Width32}, true, false, false},
		{"64-64", Pair{Width64, Width64}, true, false, false},
		{"32-64", Pair{Width32, Width64}, false, true, false},
		{"64-32", Pair{Width64, Width32}, false, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.pair.SameBitness(); got != c.sameBitness {
				t.Errorf("SameBitness() = %v, want %v", got, c.sameBitness)
			}
			if got := c.pair.HeavensGate(); got != c.heavensGate {
				t.Errorf("HeavensGate() = %v, want %v", got, c.heavensGate)
			}
			if got := c.pair.Narrowing(); got != c.narrowing {
				t.Errorf("Narrowing() = %v, want %v", got, c.narrowing)
			}
		})
	}
}

func TestWidthSize(t *testing.T) {
	if Width32.Size() != 4 {
		t.Errorf("Width32.Size() = %d, want 4", Width32.Size())
	}
	if Width64.Size() != 8 {
		t.Errorf("Width64.Size() = %d, want 8", Width64.Size())
	}
}

func TestFromArch(t *testing.T) {
	cases := map[string]Width{
		"AMD64": Width64,
		"ARM64": Width64,
		"x86":   Width32,
		"":      Width32,
	}
	for arch, want := range cases {
		if got := fromArch(arch); got != want {
			t.Errorf("fromArch(%q) = %v, want %v", arch, got, want)
		}
	}
}

func TestHostBitnessPrefersWow6432Override(t *testing.T) {
	t.Setenv("PROCESSOR_ARCHITEW6432", "AMD64")
	t.Setenv("PROCESSOR_ARCHITECTURE", "x86")
	if got := HostBitness(); got != Width64 {
		t.Errorf("HostBitness() = %v, want Width64", got)
	}
}
