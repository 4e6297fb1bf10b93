package engine

import (
	"errors"
	"math/rand/v2"
	"testing"
)

// TestLayoutValidate covers every rule of Layout.Validate.
func TestLayoutValidate(t *testing.T) {
	if err := DefaultLayout().Validate(); err != nil {
		t.Fatalf("default layout invalid: %v", err)
	}
	mutate := []struct {
		name string
		fn   func(*Layout)
	}{
		{"zero field", func(l *Layout) { l.FieldSize = 0 }},
		{"n2 not power of two", func(l *Layout) { l.FieldSize = 3 }},
		{"zero comms", func(l *Layout) { l.CommsSize = 0 }},
		{"comms does not divide", func(l *Layout) { l.CommsSize = 3 }},
		{"enemy probability", func(l *Layout) { l.EnemyProbability = 1.1 }},
		{"channel noise", func(l *Layout) { l.ChannelNoise = -0.1 }},
		{"no games", func(l *Layout) { l.NumberOfGames = 0 }},
	}
	for _, m := range mutate {
		l := DefaultLayout()
		m.fn(&l)
		if err := l.Validate(); !errors.Is(err, ErrConfiguration) {
			t.Errorf("%s: err = %v, want ErrConfiguration", m.name, err)
		}
	}
}

// TestSimplePlayers verifies A copies the first m cells and B reads them.
func TestSimplePlayers(t *testing.T) {
	l := DefaultLayout()
	l.CommsSize = 4
	l.EnemyProbability = 1
	p, err := NewSimplePlayers(l, 1)
	if err != nil {
		t.Fatal(err)
	}
	a, b := p.Players()
	field := Bits{1, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	comm, err := a.Decide(field)
	if err != nil {
		t.Fatal(err)
	}
	if !comm.Equal(Bits{1, 0, 1, 1}) {
		t.Fatalf("comm = %s, want 1011", comm)
	}
	comm[0] = 0
	if field[0] != 1 {
		t.Error("comm aliases the field")
	}

	for gun := 0; gun < 4; gun++ {
		if got, _ := b.Decide(OneHot(16, gun), Bits{1, 0, 1, 1}); got != field[gun] {
			t.Errorf("gun=%d: shoot %d, want %d", gun, got, field[gun])
		}
	}
	// Outside the covered cells B falls back to Bernoulli(1) = 1.
	if got, _ := b.Decide(OneHot(16, 9), Bits{0, 0, 0, 0}); got != 1 {
		t.Errorf("uncovered gun: shoot %d, want 1", got)
	}

	if _, err := b.Decide(NewBits(16), Bits{0, 0, 0, 0}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty gun: err = %v", err)
	}
	if _, err := a.Decide(NewBits(3)); !errors.Is(err, ErrValidation) {
		t.Errorf("short field: err = %v", err)
	}
}

// TestMajorityPlayers verifies segment majorities, tie-breaking and B's
// segment lookup.
func TestMajorityPlayers(t *testing.T) {
	l := DefaultLayout()
	l.CommsSize = 4
	p, err := NewMajorityPlayers(l)
	if err != nil {
		t.Fatal(err)
	}
	a, b := p.Players()
	field := Bits{
		1, 1, 1, 0, // 3 ones -> 1
		0, 0, 0, 1, // 1 one  -> 0
		1, 0, 1, 0, // tie    -> 1
		0, 0, 0, 0, // none   -> 0
	}
	comm, err := a.Decide(field)
	if err != nil {
		t.Fatal(err)
	}
	if !comm.Equal(Bits{1, 0, 1, 0}) {
		t.Fatalf("comm = %s, want 1010", comm)
	}
	for gun := 0; gun < 16; gun++ {
		got, err := b.Decide(OneHot(16, gun), comm)
		if err != nil {
			t.Fatal(err)
		}
		if got != comm[gun/4] {
			t.Errorf("gun=%d: shoot %d, want %d", gun, got, comm[gun/4])
		}
	}
	if _, err := b.Decide(OneHot(16, 0), Bits{1}); !errors.Is(err, ErrValidation) {
		t.Errorf("short comm: err = %v", err)
	}
}

// TestRandomPlayers verifies output shapes and seed reproducibility.
func TestRandomPlayers(t *testing.T) {
	l := DefaultLayout()
	l.CommsSize = 8
	p1, _ := NewRandomPlayers(l, 3)
	p2, _ := NewRandomPlayers(l, 3)
	a1, b1 := p1.Players()
	a2, b2 := p2.Players()
	for i := 0; i < 20; i++ {
		c1, _ := a1.Decide(nil)
		c2, _ := a2.Decide(nil)
		if err := c1.Validate(8); err != nil {
			t.Fatal(err)
		}
		if !c1.Equal(c2) {
			t.Fatalf("round %d: same seed diverged", i)
		}
		s1, _ := b1.Decide(nil, nil)
		s2, _ := b2.Decide(nil, nil)
		if s1 != s2 || s1 > 1 {
			t.Fatalf("round %d: shoots %d/%d", i, s1, s2)
		}
	}

	bad := l
	bad.FieldSize = 3
	if _, err := NewRandomPlayers(bad, 1); !errors.Is(err, ErrConfiguration) {
		t.Errorf("bad layout: err = %v", err)
	}
}

// TestMajorityBeatsRandomOnBiasedField is a coarse sanity check of the
// majority strategy against its closed form.
func TestMajorityBeatsRandomOnBiasedField(t *testing.T) {
	l := DefaultLayout()
	l.EnemyProbability = 0.8
	p, _ := NewMajorityPlayers(l)
	a, b := p.Players()
	rng := rand.New(rand.NewPCG(9, 9))
	const games = 3000
	wins := 0
	for g := 0; g < games; g++ {
		field := randomField(rng, 16, l.EnemyProbability)
		gun := rng.IntN(16)
		comm, _ := a.Decide(field)
		if shoot, _ := b.Decide(OneHot(16, gun), comm); shoot == field[gun] {
			wins++
		}
	}
	want, _ := ExpectedWinRateMajority(l)
	if got := float64(wins) / games; !near(got, want, 0.04) {
		t.Errorf("majority win rate %.3f, want about %.3f", got, want)
	}
}
