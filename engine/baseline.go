package engine

import "math/rand/v2"

// Classical reference strategies. They need no shared resources and accept
// any valid layout, including comms sizes above 1.

// ---------------------------------------------------------------------------
// Random
// ---------------------------------------------------------------------------

// RandomPlayers ignore their inputs: A sends m fair bits, B shoots with
// probability 1/2.
type RandomPlayers struct {
	a *randomA
	b *randomB
}

type randomA struct {
	m   int
	rng *rand.Rand
}

type randomB struct{ rng *rand.Rand }

// NewRandomPlayers builds a seeded random pair.
func NewRandomPlayers(layout Layout, seed uint64) (*RandomPlayers, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(seed, pcgStream))
	return &RandomPlayers{
		a: &randomA{m: layout.CommsSize, rng: rng},
		b: &randomB{rng: rng},
	}, nil
}

func (p *RandomPlayers) Players() (PlayerA, PlayerB) { return p.a, p.b }
func (p *RandomPlayers) Reset()                      {}

func (a *randomA) Decide(field Bits) (Bits, error) {
	comm := make(Bits, a.m)
	for i := range comm {
		comm[i] = uint8(a.rng.IntN(2))
	}
	return comm, nil
}

func (b *randomB) Decide(gun, comm Bits) (uint8, error) {
	return uint8(b.rng.IntN(2)), nil
}

// ---------------------------------------------------------------------------
// Simple
// ---------------------------------------------------------------------------

// SimplePlayers send the first m cells verbatim. B answers with the
// matching comm bit when the gun falls inside them and otherwise shoots
// with probability EnemyProbability.
type SimplePlayers struct {
	a *simpleA
	b *simpleB
}

type simpleA struct{ layout Layout }

type simpleB struct {
	layout Layout
	rng    *rand.Rand
}

// NewSimplePlayers builds a simple pair; seed drives B's fallback guesses.
func NewSimplePlayers(layout Layout, seed uint64) (*SimplePlayers, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &SimplePlayers{
		a: &simpleA{layout: layout},
		b: &simpleB{layout: layout, rng: rand.New(rand.NewPCG(seed, pcgStream))},
	}, nil
}

func (p *SimplePlayers) Players() (PlayerA, PlayerB) { return p.a, p.b }
func (p *SimplePlayers) Reset()                      {}

func (a *simpleA) Decide(field Bits) (Bits, error) {
	if err := field.Validate(a.layout.N2()); err != nil {
		return nil, invalid("simple A", "field", err)
	}
	return field[:a.layout.CommsSize].Clone(), nil
}

func (b *simpleB) Decide(gun, comm Bits) (uint8, error) {
	idx, err := checkGunComm("simple B", b.layout, gun, comm)
	if err != nil {
		return 0, err
	}
	if idx < b.layout.CommsSize {
		return comm[idx], nil
	}
	if b.rng.Float64() < b.layout.EnemyProbability {
		return 1, nil
	}
	return 0, nil
}

// ---------------------------------------------------------------------------
// Majority
// ---------------------------------------------------------------------------

// MajorityPlayers split the field into m equal contiguous segments. A sends
// each segment's majority bit (ties count as 1); B answers with the bit of
// the segment the gun lies in.
type MajorityPlayers struct {
	a *majorityA
	b *majorityB
}

type majorityA struct{ layout Layout }
type majorityB struct{ layout Layout }

// NewMajorityPlayers builds a deterministic majority pair.
func NewMajorityPlayers(layout Layout) (*MajorityPlayers, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &MajorityPlayers{a: &majorityA{layout: layout}, b: &majorityB{layout: layout}}, nil
}

func (p *MajorityPlayers) Players() (PlayerA, PlayerB) { return p.a, p.b }
func (p *MajorityPlayers) Reset()                      {}

func (a *majorityA) Decide(field Bits) (Bits, error) {
	if err := field.Validate(a.layout.N2()); err != nil {
		return nil, invalid("majority A", "field", err)
	}
	m := a.layout.CommsSize
	seg := a.layout.N2() / m
	comm := make(Bits, m)
	for i := 0; i < m; i++ {
		ones := field[i*seg : (i+1)*seg].Sum()
		if 2*ones >= seg {
			comm[i] = 1
		}
	}
	return comm, nil
}

func (b *majorityB) Decide(gun, comm Bits) (uint8, error) {
	idx, err := checkGunComm("majority B", b.layout, gun, comm)
	if err != nil {
		return 0, err
	}
	return comm[idx/(b.layout.N2()/b.layout.CommsSize)], nil
}

// checkGunComm validates B's inputs and returns the gun position.
func checkGunComm(op string, layout Layout, gun, comm Bits) (int, error) {
	if err := gun.Validate(layout.N2()); err != nil {
		return 0, invalid(op, "gun", err)
	}
	idx, err := gun.OneHotIndex()
	if err != nil {
		return 0, invalid(op, "gun is not one-hot", err)
	}
	if err := comm.Validate(layout.CommsSize); err != nil {
		return 0, invalid(op, "comm", err)
	}
	return idx, nil
}
