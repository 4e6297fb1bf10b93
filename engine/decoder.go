package engine

// Decoder is Player B of the PR-assisted protocol. It follows the gun
// position down the same resource stack the encoder used, collects one
// outcome bit per level and combines them with the communication bit.
type Decoder struct {
	n2     int
	lookup ResourceLookup

	// tamper, when set, may modify the intermediate gun before the level's
	// invariant checks run. Tests use it to corrupt the recursion.
	tamper func(level int, gun Bits)
}

// NewDecoder binds a decoder for an n2-cell field to lookup.
func NewDecoder(n2 int, lookup ResourceLookup) (*Decoder, error) {
	if err := checkLookup("decoder", n2, lookup); err != nil {
		return nil, err
	}
	return &Decoder{n2: n2, lookup: lookup}, nil
}

// Decide returns the shoot decision (0 or 1) for a one-hot gun and a
// length-1 communication vector.
//
// At level l, with one-hot working vector g of length 2h, the active pair k
// is the only pair (g[2k], g[2k+1]) that is (0,1) or (1,0). The measurement
// is 1 at k when the pair is (0,1) and 0 everywhere else; it is the second
// measurement on resource(l), and outcome[k] is kept. g then shrinks to the
// one-hot vector of length h with a 1 at k.
//
// The decision is the parity of all kept outcome bits and comm[0]. With the
// encoder's XOR collapse this reproduces field[gun] exactly at bias 1.
//
// The intermediate gun must stay one-hot at every level and each resource
// must already carry party A's first measurement; anything else is a
// protocol violation.
func (d *Decoder) Decide(gun, comm Bits) (uint8, error) {
	if err := gun.Validate(d.n2); err != nil {
		return 0, invalid("decode", "gun", err)
	}
	if _, err := gun.OneHotIndex(); err != nil {
		return 0, invalid("decode", "gun is not one-hot", err)
	}
	if err := comm.Validate(1); err != nil {
		return 0, invalid("decode", "comm", err)
	}

	cur := gun.Clone()
	results := make(Bits, 0, d.lookup.Levels()+1)
	for level := 0; len(cur) > 1; level++ {
		if d.tamper != nil {
			d.tamper(level, cur)
		}
		if len(cur)%2 != 0 {
			return 0, violationf("decode", level, "intermediate gun has odd length %d", len(cur))
		}
		if _, err := cur.OneHotIndex(); err != nil {
			return 0, violationf("decode", level, "intermediate gun %s is not one-hot: %v", cur, err)
		}
		half := len(cur) / 2

		active := -1
		measurement := make(Bits, half)
		for k := 0; k < half; k++ {
			a, b := cur[2*k], cur[2*k+1]
			if a != b {
				if active >= 0 {
					return 0, violationf("decode", level, "active pairs at %d and %d", active, k)
				}
				active = k
			}
			if a == 0 && b == 1 {
				measurement[k] = 1
			}
		}
		if active < 0 {
			return 0, violationf("decode", level, "no active pair in %s", cur)
		}

		res, err := d.lookup.ResourceAt(level)
		if err != nil {
			return 0, err
		}
		if p, ok := res.FirstParty(); !ok || p != PartyA || res.Phase() != PhaseFirstMeasured {
			return 0, violationf("decode", level, "resource is %s, want first-measured by A; the encoder must decide first", res.Phase())
		}
		if res.Length() != half {
			return 0, violationf("decode", level, "resource length %d, want %d", res.Length(), half)
		}

		outcome, err := res.Measure(PartyB, measurement)
		if err != nil {
			return 0, err
		}
		results = append(results, outcome[active])
		cur = OneHot(half, active)
	}

	results = append(results, comm[0])
	return results.Parity(), nil
}
