package engine

import (
	"errors"
	"testing"
)

// TestNewStackLevelLengths verifies level l has length n2 / 2^(l+1).
func TestNewStackLevelLengths(t *testing.T) {
	for _, n2 := range []int{1, 2, 4, 16, 64, 256} {
		s, err := NewStack(n2, 0.75, 1)
		if err != nil {
			t.Fatalf("NewStack(%d): %v", n2, err)
		}
		if got, want := s.Levels(), log2(n2); got != want {
			t.Errorf("n2=%d: Levels() = %d, want %d", n2, got, want)
		}
		want := n2 / 2
		for l := 0; l < s.Levels(); l++ {
			r, err := s.ResourceAt(l)
			if err != nil {
				t.Fatalf("n2=%d: ResourceAt(%d): %v", n2, l, err)
			}
			if r.Length() != want {
				t.Errorf("n2=%d level %d: length %d, want %d", n2, l, r.Length(), want)
			}
			if r.Bias() != 0.75 {
				t.Errorf("n2=%d level %d: bias %v", n2, l, r.Bias())
			}
			want /= 2
		}
	}
}

// TestNewStackRejectsBadParameters covers n2 and bias validation.
func TestNewStackRejectsBadParameters(t *testing.T) {
	for _, n2 := range []int{0, -2, 3, 9, 12} {
		if _, err := NewStack(n2, 0.5, 1); !errors.Is(err, ErrConfiguration) {
			t.Errorf("NewStack(%d): err = %v, want ErrConfiguration", n2, err)
		}
	}
	for _, bias := range []float64{-0.1, 1.5} {
		if _, err := NewStack(16, bias, 1); !errors.Is(err, ErrConfiguration) {
			t.Errorf("NewStack(bias=%v): err = %v, want ErrConfiguration", bias, err)
		}
	}
}

// TestResourceAtBounds verifies out-of-range lookups fail.
func TestResourceAtBounds(t *testing.T) {
	s, _ := NewStack(16, 0.5, 1)
	for _, l := range []int{-1, 4, 100} {
		if _, err := s.ResourceAt(l); !errors.Is(err, ErrProtocolViolation) {
			t.Errorf("ResourceAt(%d): err = %v, want ErrProtocolViolation", l, err)
		}
	}
}

// TestRebuildReplacesResources verifies Rebuild yields new fresh resources
// with unchanged parameters.
func TestRebuildReplacesResources(t *testing.T) {
	s, _ := NewStack(8, 0.9, 3)
	old := make([]*Resource, s.Levels())
	for l := range old {
		old[l], _ = s.ResourceAt(l)
		old[l].Measure(PartyA, NewBits(old[l].Length()))
	}

	s.Rebuild()
	if s.Levels() != len(old) {
		t.Fatalf("Levels() changed from %d to %d", len(old), s.Levels())
	}
	for l := range old {
		r, _ := s.ResourceAt(l)
		if r == old[l] {
			t.Errorf("level %d: Rebuild kept the old resource", l)
		}
		if r.Phase() != PhaseFresh {
			t.Errorf("level %d: phase %s after Rebuild", l, r.Phase())
		}
		if r.Length() != old[l].Length() || r.Bias() != old[l].Bias() {
			t.Errorf("level %d: parameters changed", l)
		}
	}
}

// TestStackSeedReproducible verifies two stacks with one seed replay the
// same outcomes across rebuilds, and different seeds do not.
func TestStackSeedReproducible(t *testing.T) {
	draw := func(seed uint64) []Bits {
		s, _ := NewStack(64, 0.5, seed)
		var outs []Bits
		for game := 0; game < 3; game++ {
			r, _ := s.ResourceAt(0)
			out, _ := r.Measure(PartyA, NewBits(r.Length()))
			outs = append(outs, out)
			s.Rebuild()
		}
		return outs
	}
	a, b, c := draw(11), draw(11), draw(12)
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Errorf("game %d: same seed diverged", i)
		}
	}
	if a[0].Equal(c[0]) && a[1].Equal(c[1]) {
		t.Error("different seeds produced identical outcomes")
	}
	if a[0].Equal(a[1]) {
		t.Error("consecutive games replayed the same outcome")
	}
}
