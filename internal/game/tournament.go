// internal/game/tournament.go

package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/robhendrik/qseabattle/engine"
)

// Tournament plays layout.NumberOfGames games in sequence on one Game.
type Tournament struct {
	layout engine.Layout
	game   *Game
	log    logrus.FieldLogger
}

// NewTournament validates the layout and binds env and players into a Game.
func NewTournament(layout engine.Layout, env *Env, players engine.Players, opts ...Option) (*Tournament, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("new tournament: %w", err)
	}
	s := newSettings(opts)
	return &Tournament{
		layout: layout,
		game:   NewGame(env, players, opts...),
		log:    s.log,
	}, nil
}

// Run plays every game and returns the log. It stops at the first error.
func (t *Tournament) Run(ctx context.Context) (*Log, error) {
	out := NewLog()
	log := t.log.WithField("tournament_id", out.TournamentID)
	for i := 0; i < t.layout.NumberOfGames; i++ {
		res, err := t.game.Play(ctx)
		if err != nil {
			return out, fmt.Errorf("game %d: %w", i, err)
		}
		row := out.Append(res)
		log.WithFields(logrus.Fields{
			"game_id": row.GameID,
			"reward":  row.Reward,
		}).Debug("game finished")
	}
	mean, se := out.Outcome()
	log.WithFields(logrus.Fields{
		"games":  out.Len(),
		"mean":   mean,
		"stderr": se,
	}).Info("tournament finished")
	return out, nil
}

// Factory builds an independent Players from a seed.
type Factory func(seed uint64) (engine.Players, error)

// RunParallel splits layout.NumberOfGames across workers. Each worker gets
// its own Players from factory and its own Env, both seeded from seed, so
// no shared resource is touched by two games at once. Rows come back in a
// fixed order that does not depend on scheduling.
func RunParallel(ctx context.Context, layout engine.Layout, factory Factory, seed uint64, workers int, opts ...Option) (*Log, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("run parallel: %w", err)
	}
	if factory == nil {
		return nil, fmt.Errorf("run parallel: nil factory: %w", engine.ErrConfiguration)
	}
	if workers <= 0 {
		return nil, fmt.Errorf("run parallel: workers = %d, want > 0: %w", workers, engine.ErrConfiguration)
	}
	if workers > layout.NumberOfGames {
		workers = layout.NumberOfGames
	}
	s := newSettings(opts)
	out := NewLog()
	log := s.log.WithField("tournament_id", out.TournamentID)

	// Seeds are drawn up front so worker i always sees the same pair.
	master := rand.New(rand.NewPCG(seed, envStream))
	type job struct {
		games            int
		envSeed, plySeed uint64
		results          []Result
	}
	jobs := make([]job, workers)
	for i := range jobs {
		jobs[i].games = layout.NumberOfGames / workers
		if i < layout.NumberOfGames%workers {
			jobs[i].games++
		}
		jobs[i].envSeed, jobs[i].plySeed = master.Uint64(), master.Uint64()
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range jobs {
		j := &jobs[i]
		g.Go(func() error {
			players, err := factory(j.plySeed)
			if err != nil {
				return fmt.Errorf("worker %d: players: %w", i, err)
			}
			env, err := NewEnv(layout, j.envSeed)
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			game := NewGame(env, players, WithLogger(log.WithField("worker", i)))
			j.results = make([]Result, 0, j.games)
			for n := 0; n < j.games; n++ {
				res, err := game.Play(gctx)
				if err != nil {
					return fmt.Errorf("worker %d game %d: %w", i, n, err)
				}
				j.results = append(j.results, res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, j := range jobs {
		for _, res := range j.results {
			out.Append(res)
		}
	}
	mean, se := out.Outcome()
	log.WithFields(logrus.Fields{
		"games":   out.Len(),
		"workers": workers,
		"mean":    mean,
		"stderr":  se,
	}).Info("tournament finished")
	return out, nil
}
