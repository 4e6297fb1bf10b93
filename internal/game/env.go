// internal/game/env.go

package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/robhendrik/qseabattle/engine"
)

// Env holds the hidden state of one game: the enemy field and the gun
// position. It draws both from its own seeded source.
type Env struct {
	layout engine.Layout
	rng    *rand.Rand

	field engine.Bits
	gun   engine.Bits
	gunAt int
}

// NewEnv validates the layout and returns an environment with no game
// drawn yet.
func NewEnv(layout engine.Layout, seed uint64) (*Env, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("new env: %w", err)
	}
	return &Env{
		layout: layout,
		rng:    rand.New(rand.NewPCG(seed, envStream)),
		gunAt:  -1,
	}, nil
}

const envStream = 0x6a09e667f3bcc909

// Layout returns the layout the environment was built with.
func (e *Env) Layout() engine.Layout { return e.layout }

// Reset draws a Bernoulli(EnemyProbability) field and a uniform gun.
func (e *Env) Reset() {
	n2 := e.layout.N2()
	e.field = engine.NewBits(n2)
	for i := range e.field {
		if e.rng.Float64() < e.layout.EnemyProbability {
			e.field[i] = 1
		}
	}
	e.gunAt = e.rng.IntN(n2)
	e.gun = engine.OneHot(n2, e.gunAt)
}

// Provide returns copies of the current field and gun.
func (e *Env) Provide() (field, gun engine.Bits, err error) {
	if e.gunAt < 0 {
		return nil, nil, fmt.Errorf("provide: no game drawn, call Reset first: %w", engine.ErrProtocolViolation)
	}
	return e.field.Clone(), e.gun.Clone(), nil
}

// CellValue is the field value under the gun.
func (e *Env) CellValue() (uint8, error) {
	if e.gunAt < 0 {
		return 0, fmt.Errorf("cell value: no game drawn: %w", engine.ErrProtocolViolation)
	}
	return e.field[e.gunAt], nil
}

// Evaluate returns 1 when shoot matches the cell under the gun, else 0.
func (e *Env) Evaluate(shoot uint8) (float64, error) {
	if shoot > 1 {
		return 0, fmt.Errorf("evaluate: shoot = %d, want 0 or 1: %w", shoot, engine.ErrValidation)
	}
	cell, err := e.CellValue()
	if err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}
	if shoot == cell {
		return 1, nil
	}
	return 0, nil
}

// ApplyChannelNoise returns a copy of comm with each bit flipped
// independently with probability ChannelNoise.
func (e *Env) ApplyChannelNoise(comm engine.Bits) engine.Bits {
	out := comm.Clone()
	switch c := e.layout.ChannelNoise; c {
	case 0:
		return out
	case 1:
		for i := range out {
			out[i] ^= 1
		}
		return out
	default:
		for i := range out {
			if e.rng.Float64() < c {
				out[i] ^= 1
			}
		}
		return out
	}
}
