// Package engine implements the PR-assisted QSeaBattle protocol.
//
// Player A sees a hidden bit field of n2 = 2^L cells and may send one bit to
// Player B, who must guess the value at a random gun position. Both players
// share a stack of L biased correlated-randomness resources (Resource), one
// per level of a binary tree over the field. The Encoder folds the field
// into the communication bit level by level; the Decoder follows the gun
// down the same levels and recovers field[gun] with probability
// 1/2 (1 + (2·bias - 1)^L).
//
// Everything here is single-threaded and deterministic given a seed. Run
// concurrent games on separate PRAssistedPlayers values.
package engine

// PlayerA sees the field and produces the communication vector.
type PlayerA interface {
	Decide(field Bits) (Bits, error)
}

// PlayerB sees the gun and the communication vector and decides whether to
// shoot (1) or not (0).
type PlayerB interface {
	Decide(gun, comm Bits) (uint8, error)
}

// Players hands out a matched pair of players. Reset is called once before
// every game.
type Players interface {
	Players() (PlayerA, PlayerB)
	Reset()
}

// PRAssistedPlayers owns the resource stack shared by a PR-assisted
// encoder/decoder pair. The pair is built lazily and cached; Reset rebuilds
// the resources it references but keeps the players themselves.
type PRAssistedPlayers struct {
	layout Layout
	stack  *Stack

	encoder *Encoder
	decoder *Decoder
}

var _ Players = (*PRAssistedPlayers)(nil)

// NewPRAssistedPlayers validates layout for the one-bit PR-assisted
// protocol and builds its resource stack. seed fixes every random bit the
// resources will ever produce.
func NewPRAssistedPlayers(layout Layout, bias float64, seed uint64) (*PRAssistedPlayers, error) {
	if layout.CommsSize != 1 {
		return nil, configErrorf("pr-assisted players", "comms size %d, want 1", layout.CommsSize)
	}
	if layout.FieldSize <= 0 {
		return nil, configErrorf("pr-assisted players", "field size %d, want > 0", layout.FieldSize)
	}
	stack, err := NewStack(layout.N2(), bias, seed)
	if err != nil {
		return nil, err
	}
	return &PRAssistedPlayers{layout: layout, stack: stack}, nil
}

// Layout returns the layout the players were built for.
func (p *PRAssistedPlayers) Layout() Layout { return p.layout }

// Stack exposes the resources the players share.
func (p *PRAssistedPlayers) Stack() ResourceLookup { return p.stack }

// Players returns the cached encoder/decoder pair.
func (p *PRAssistedPlayers) Players() (PlayerA, PlayerB) {
	a, b := p.pair()
	return a, b
}

// Pair is Players with concrete types.
func (p *PRAssistedPlayers) Pair() (*Encoder, *Decoder) { return p.pair() }

func (p *PRAssistedPlayers) pair() (*Encoder, *Decoder) {
	if p.encoder == nil || p.decoder == nil {
		// The stack was validated at construction, so neither can fail.
		p.encoder = &Encoder{n2: p.stack.N2(), lookup: p.stack}
		p.decoder = &Decoder{n2: p.stack.N2(), lookup: p.stack}
	}
	return p.encoder, p.decoder
}

// Reset replaces every resource with a fresh one.
func (p *PRAssistedPlayers) Reset() { p.stack.Rebuild() }
