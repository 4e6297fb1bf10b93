package engine

import "fmt"

// Bits is a flat 0/1 vector. Fields, guns, measurements, outcomes and
// communication vectors all share this representation.
type Bits []uint8

// NewBits returns an all-zero vector of length n.
func NewBits(n int) Bits { return make(Bits, n) }

// OneHot returns a vector of length n with a single 1 at idx.
func OneHot(n, idx int) Bits {
	b := make(Bits, n)
	b[idx] = 1
	return b
}

// Clone returns a copy that shares no storage with b.
func (b Bits) Clone() Bits {
	out := make(Bits, len(b))
	copy(out, b)
	return out
}

// Equal reports whether b and o have the same length and entries.
func (b Bits) Equal(o Bits) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// Sum returns the number of ones.
func (b Bits) Sum() int {
	n := 0
	for _, v := range b {
		n += int(v)
	}
	return n
}

// Parity returns the XOR of all entries.
func (b Bits) Parity() uint8 {
	var p uint8
	for _, v := range b {
		p ^= v
	}
	return p & 1
}

// Validate checks that b has exactly n entries, each 0 or 1.
// A negative n skips the length check.
func (b Bits) Validate(n int) error {
	if n >= 0 && len(b) != n {
		return fmt.Errorf("length %d, want %d", len(b), n)
	}
	for i, v := range b {
		if v > 1 {
			return fmt.Errorf("entry %d is %d, want 0 or 1", i, v)
		}
	}
	return nil
}

// OneHotIndex returns the position of the single 1 in b.
// It fails unless b is binary with exactly one entry set.
func (b Bits) OneHotIndex() (int, error) {
	idx := -1
	for i, v := range b {
		switch v {
		case 0:
		case 1:
			if idx >= 0 {
				return -1, fmt.Errorf("entries %d and %d are both set", idx, i)
			}
			idx = i
		default:
			return -1, fmt.Errorf("entry %d is %d, want 0 or 1", i, v)
		}
	}
	if idx < 0 {
		return -1, fmt.Errorf("no entry set")
	}
	return idx, nil
}

// String renders b as a compact 0/1 string, e.g. "0110".
func (b Bits) String() string {
	buf := make([]byte, len(b))
	for i, v := range b {
		buf[i] = '0' + v
	}
	return string(buf)
}

// Party identifies who issues a measurement on a shared resource.
type Party uint8

const (
	PartyA Party = iota // field holder, issues the communication bit
	PartyB              // shooter, reads the communication bit
)

func (p Party) String() string {
	switch p {
	case PartyA:
		return "A"
	case PartyB:
		return "B"
	default:
		return fmt.Sprintf("Party(%d)", uint8(p))
	}
}

// Phase is the lifecycle position of a single Resource within one game.
type Phase uint8

const (
	PhaseFresh         Phase = iota // nobody has measured
	PhaseFirstMeasured              // one party measured, outcome recorded
	PhaseBothMeasured               // exhausted until Reset
)

func (p Phase) String() string {
	switch p {
	case PhaseFresh:
		return "fresh"
	case PhaseFirstMeasured:
		return "first-measured"
	case PhaseBothMeasured:
		return "both-measured"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

// log2 returns k such that 1<<k == n. n must be a power of two.
func log2(n int) int {
	k := 0
	for n > 1 {
		n >>= 1
		k++
	}
	return k
}
