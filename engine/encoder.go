package engine

// Encoder is Player A of the PR-assisted protocol. It compresses the field
// into a single communication bit by walking the resource stack top-down,
// halving its working vector at every level.
type Encoder struct {
	n2     int
	lookup ResourceLookup
}

// NewEncoder binds an encoder for an n2-cell field to lookup.
func NewEncoder(n2 int, lookup ResourceLookup) (*Encoder, error) {
	if err := checkLookup("encoder", n2, lookup); err != nil {
		return nil, err
	}
	return &Encoder{n2: n2, lookup: lookup}, nil
}

// collapse merges an (intermediate bit, outcome bit) pair into the next
// level's bit. Equal pairs collapse to 0, unequal pairs to 1. The decoder's
// parity rule relies on this polarity.
func collapse(a, b uint8) uint8 { return a ^ b }

// Decide returns the length-1 communication vector for field.
//
// At level l, with working vector v of length 2h:
//
//	measurement[k] = 0 if v[2k] == v[2k+1], else 1
//	outcome        = resource(l).Measure(A, measurement)   // first measurement
//	v'[k]          = collapse(v[2k], outcome[k])
//
// After L levels one bit remains. Every resource must be fresh; an encoder
// running twice without a Reset in between is a protocol violation.
func (e *Encoder) Decide(field Bits) (Bits, error) {
	if err := field.Validate(e.n2); err != nil {
		return nil, invalid("encode", "field", err)
	}

	cur := field.Clone()
	for level := 0; len(cur) > 1; level++ {
		if len(cur)%2 != 0 {
			return nil, violationf("encode", level, "intermediate field has odd length %d", len(cur))
		}
		half := len(cur) / 2

		res, err := e.lookup.ResourceAt(level)
		if err != nil {
			return nil, err
		}
		if res.Phase() != PhaseFresh {
			return nil, violationf("encode", level, "resource is %s, want fresh; players must be reset before each game", res.Phase())
		}
		if res.Length() != half {
			return nil, violationf("encode", level, "resource length %d, want %d", res.Length(), half)
		}

		measurement := make(Bits, half)
		for k := 0; k < half; k++ {
			if cur[2*k] != cur[2*k+1] {
				measurement[k] = 1
			}
		}

		outcome, err := res.Measure(PartyA, measurement)
		if err != nil {
			return nil, err
		}

		// The auxiliary pairs (cur[2k], outcome[k]) collapse straight into
		// the next level.
		next := make(Bits, half)
		for k := 0; k < half; k++ {
			next[k] = collapse(cur[2*k], outcome[k])
		}
		cur = next
	}

	if len(cur) != 1 {
		return nil, violationf("encode", -1, "final intermediate field has length %d, want 1", len(cur))
	}
	return Bits{cur[0]}, nil
}

// checkLookup verifies that lookup has exactly log2(n2) levels.
func checkLookup(op string, n2 int, lookup ResourceLookup) error {
	if !isPowerOfTwo(n2) {
		return configErrorf(op, "n2 = %d is not a power of two", n2)
	}
	if lookup == nil {
		return configErrorf(op, "nil resource lookup")
	}
	if got, want := lookup.Levels(), log2(n2); got != want {
		return configErrorf(op, "resource lookup has %d levels, want %d", got, want)
	}
	return nil
}
