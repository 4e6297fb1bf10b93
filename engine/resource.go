package engine

import "math/rand/v2"

// Resource is a two-party correlated-randomness box with a bias parameter,
// a biased relaxation of a PR box. Each game queries it at most twice, once
// per party:
//
//   - The first measurement returns length independent fair bits and
//     records (party, measurement, outcome).
//   - The second measurement returns, per index i, the first outcome bit
//     with probability Bias when the measurement pair (first[i], second[i])
//     is (0,0), (0,1) or (1,0), and with probability 1-Bias when it is
//     (1,1). Otherwise the complement is returned.
//
// At Bias 1 the second outcome is fully determined: outA XOR outB equals
// first[i] AND second[i]. At Bias 0.5 the second outcome is a fair coin.
//
// A Resource is not safe for concurrent use. It draws every random bit from
// the *rand.Rand it was built with.
type Resource struct {
	length int
	bias   float64
	rng    *rand.Rand

	phase       Phase
	measured    [2]bool
	firstParty  Party
	firstMeas   Bits
	firstResult Bits
}

// NewResource builds a fresh resource producing length-bit outcomes.
func NewResource(length int, bias float64, rng *rand.Rand) (*Resource, error) {
	if length < 1 {
		return nil, configErrorf("resource", "length %d, want >= 1", length)
	}
	if !(bias >= 0 && bias <= 1) {
		return nil, configErrorf("resource", "bias %v outside [0, 1]", bias)
	}
	if rng == nil {
		return nil, configErrorf("resource", "nil random source")
	}
	return newResource(length, bias, rng), nil
}

func newResource(length int, bias float64, rng *rand.Rand) *Resource {
	return &Resource{length: length, bias: bias, rng: rng}
}

// Length returns the number of bits per measurement and outcome.
func (r *Resource) Length() int { return r.length }

// Bias returns the correlation strength.
func (r *Resource) Bias() float64 { return r.bias }

// Phase returns where the resource is in its per-game lifecycle.
func (r *Resource) Phase() Phase { return r.phase }

// FirstParty returns the party that issued the first measurement.
// ok is false while the resource is fresh.
func (r *Resource) FirstParty() (p Party, ok bool) {
	if r.phase == PhaseFresh {
		return 0, false
	}
	return r.firstParty, true
}

// Measure performs party's measurement and returns its outcome.
//
// A party measuring twice, or a measurement of the wrong length or with
// non-binary entries, is a protocol violation and leaves the resource
// state unchanged.
func (r *Resource) Measure(p Party, measurement Bits) (Bits, error) {
	if p != PartyA && p != PartyB {
		return nil, violationf("measure", -1, "unknown party %s", p)
	}
	if r.measured[p] {
		return nil, violationf("measure", -1, "party %s has already measured this resource", p)
	}
	if err := measurement.Validate(r.length); err != nil {
		return nil, violationf("measure", -1, "malformed measurement: %v", err)
	}
	r.measured[p] = true

	if r.phase == PhaseFresh {
		return r.first(p, measurement), nil
	}
	return r.second(measurement), nil
}

// Reset returns the resource to PhaseFresh. The random source is kept, so
// the next first measurement continues the same stream.
func (r *Resource) Reset() {
	r.phase = PhaseFresh
	r.measured = [2]bool{}
	r.firstParty = 0
	r.firstMeas = nil
	r.firstResult = nil
}

func (r *Resource) first(p Party, measurement Bits) Bits {
	out := make(Bits, r.length)
	for i := range out {
		out[i] = uint8(r.rng.Uint64() & 1)
	}
	r.phase = PhaseFirstMeasured
	r.firstParty = p
	r.firstMeas = measurement.Clone()
	r.firstResult = out.Clone()
	return out
}

func (r *Resource) second(measurement Bits) Bits {
	out := make(Bits, r.length)
	for i := range out {
		keep := r.bias
		if r.firstMeas[i] == 1 && measurement[i] == 1 {
			keep = 1 - r.bias
		}
		out[i] = r.firstResult[i]
		if !(r.rng.Float64() < keep) {
			out[i] ^= 1
		}
	}
	r.phase = PhaseBothMeasured
	return out
}
