package engine

import "math/rand/v2"

// pcgStream is the second PCG word for a stack's master stream.
const pcgStream = 0x9e3779b97f4a7c15

// ResourceLookup is the only capability the encoder and decoder need from
// whoever owns the resources: level-indexed access.
type ResourceLookup interface {
	Levels() int
	ResourceAt(level int) (*Resource, error)
}

// Stack holds one Resource per recursion level. For a flattened field of
// n2 = 2^L cells there are L levels and level l has length n2 / 2^(l+1),
// i.e. n2/2, n2/4, ..., 1.
//
// Every resource gets its own PCG stream drawn from the stack's master
// stream, so a stack built from the same seed replays the same games.
type Stack struct {
	n2     int
	bias   float64
	master *rand.Rand
	levels []*Resource
}

// NewStack validates n2 and bias and builds a fresh stack.
func NewStack(n2 int, bias float64, seed uint64) (*Stack, error) {
	if !isPowerOfTwo(n2) {
		return nil, configErrorf("stack", "n2 = %d is not a power of two", n2)
	}
	if !(bias >= 0 && bias <= 1) {
		return nil, configErrorf("stack", "bias %v outside [0, 1]", bias)
	}
	s := &Stack{
		n2:     n2,
		bias:   bias,
		master: rand.New(rand.NewPCG(seed, pcgStream)),
	}
	s.Rebuild()
	return s, nil
}

// N2 returns the flattened field length the stack was sized for.
func (s *Stack) N2() int { return s.n2 }

// Bias returns the bias shared by all levels.
func (s *Stack) Bias() float64 { return s.bias }

// Levels returns L = log2(n2). A nil stack has no levels.
func (s *Stack) Levels() int {
	if s == nil {
		return 0
	}
	return len(s.levels)
}

// ResourceAt returns the resource for level. Out-of-range levels are a
// protocol violation.
func (s *Stack) ResourceAt(level int) (*Resource, error) {
	if level < 0 || level >= s.Levels() {
		return nil, violationf("resource lookup", level, "stack has %d levels", s.Levels())
	}
	return s.levels[level], nil
}

// Rebuild discards every resource and creates fresh ones with the same
// length and bias. Call it between games, never during one.
func (s *Stack) Rebuild() {
	n := log2(s.n2)
	levels := make([]*Resource, n)
	for l := 0; l < n; l++ {
		rng := rand.New(rand.NewPCG(s.master.Uint64(), s.master.Uint64()))
		levels[l] = newResource(s.n2>>(l+1), s.bias, rng)
	}
	s.levels = levels
}
