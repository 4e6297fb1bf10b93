// internal/game/game.go

// Package game runs QSeaBattle games and tournaments on top of the engine
// strategies.
package game

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/robhendrik/qseabattle/engine"
)

// Result is the record of a single played game.
type Result struct {
	Field     engine.Bits
	Gun       engine.Bits
	Comm      engine.Bits // as received by B, after channel noise
	Shoot     uint8
	CellValue uint8
	Reward    float64
}

// Option configures a Game or Tournament.
type Option func(*settings)

type settings struct {
	log logrus.FieldLogger
}

// WithLogger sets the logger used for per-game and per-tournament records.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// Game binds one environment to one pair of players. A decides before B
// in every round.
type Game struct {
	env     *Env
	players engine.Players
	log     logrus.FieldLogger
}

// NewGame returns a game over env and players.
func NewGame(env *Env, players engine.Players, opts ...Option) *Game {
	s := newSettings(opts)
	return &Game{env: env, players: players, log: s.log}
}

// Play runs one round: draw a fresh field and gun, reset the players, let A
// encode, pass comm through the channel, let B shoot and score the shot.
func (g *Game) Play(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	g.env.Reset()
	g.players.Reset()
	a, b := g.players.Players()

	field, gun, err := g.env.Provide()
	if err != nil {
		return Result{}, err
	}
	comm, err := a.Decide(field)
	if err != nil {
		g.log.WithError(err).WithField("field", field.String()).Warn("player A failed")
		return Result{}, fmt.Errorf("player A: %w", err)
	}
	noisy := g.env.ApplyChannelNoise(comm)
	shoot, err := b.Decide(gun, noisy)
	if err != nil {
		g.log.WithError(err).WithFields(logrus.Fields{
			"gun":  gun.String(),
			"comm": noisy.String(),
		}).Warn("player B failed")
		return Result{}, fmt.Errorf("player B: %w", err)
	}
	reward, err := g.env.Evaluate(shoot)
	if err != nil {
		return Result{}, err
	}
	cell, err := g.env.CellValue()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Field:     field,
		Gun:       gun,
		Comm:      noisy,
		Shoot:     shoot,
		CellValue: cell,
		Reward:    reward,
	}, nil
}
