package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robhendrik/qseabattle/engine"
	"github.com/robhendrik/qseabattle/internal/config"
	"github.com/robhendrik/qseabattle/internal/game"
)

type runFlags struct {
	config  string
	dotenv  string
	save    string
	players string
	bias    float64
	seed    uint64
	games   int
	workers int
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one tournament",
		Long: `Runs a tournament of number_of_games games and prints the mean reward,
its standard error and the closed-form reference for the chosen players.

Settings come from defaults, then --config, then .env, then QSB_* variables,
then flags. --write-config saves the resolved settings so the run can be
repeated with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTournament(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "YAML config file")
	fl.StringVar(&f.dotenv, "env-file", ".env", "dotenv file with QSB_* variables")
	fl.StringVar(&f.save, "write-config", "", "write the resolved settings to this YAML file")
	fl.StringVar(&f.players, "players", "", "players: pr, simple, majority or random")
	fl.Float64Var(&f.bias, "bias", 0, "PR correlation bias in [0, 1]")
	fl.Uint64Var(&f.seed, "seed", 0, "master seed")
	fl.IntVar(&f.games, "games", 0, "number of games")
	fl.IntVar(&f.workers, "workers", 0, "parallel workers")
	return cmd
}

func runTournament(cmd *cobra.Command, f *runFlags) error {
	cfg, err := config.Resolve(f.config, func(c *config.Config) { applyFlags(cmd, f, c) }, f.dotenv)
	if err != nil {
		return err
	}
	if f.save != "" {
		if err := cfg.Save(f.save); err != nil {
			return err
		}
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	layout := cfg.Layout.Engine()
	factory, reference, err := strategy(cfg)
	if err != nil {
		return err
	}
	log, err := game.RunParallel(cmd.Context(), layout, factory, cfg.Seed, cfg.Workers, game.WithLogger(logger))
	if err != nil {
		return err
	}

	mean, se := log.Outcome()
	limit, err := engine.InformationCausalityLimit(layout, 6)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "players:   %s\n", cfg.Players)
	fmt.Fprintf(out, "games:     %d\n", log.Len())
	fmt.Fprintf(out, "reward:    %.4f ± %.4f\n", mean, se)
	fmt.Fprintf(out, "reference: %.4f\n", reference)
	fmt.Fprintf(out, "IC limit:  %.4f\n", limit)
	return nil
}

func applyFlags(cmd *cobra.Command, f *runFlags, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("players") {
		cfg.Players = f.players
	}
	if fl.Changed("bias") {
		cfg.Bias = f.bias
	}
	if fl.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fl.Changed("games") {
		cfg.Layout.NumberOfGames = f.games
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
}

// strategy returns a factory for the configured players and the closed-form
// win rate to compare against.
func strategy(cfg *config.Config) (game.Factory, float64, error) {
	layout := cfg.Layout.Engine()
	switch cfg.Players {
	case config.PlayersAssisted:
		ref, err := engine.ExpectedWinRateAssisted(layout, cfg.Bias)
		if err != nil {
			return nil, 0, err
		}
		return func(seed uint64) (engine.Players, error) {
			p, err := engine.NewPRAssistedPlayers(layout, cfg.Bias, seed)
			if err != nil {
				return nil, err
			}
			return p, nil
		}, ref, nil
	case config.PlayersSimple:
		ref, err := engine.ExpectedWinRateSimple(layout)
		if err != nil {
			return nil, 0, err
		}
		return func(seed uint64) (engine.Players, error) {
			p, err := engine.NewSimplePlayers(layout, seed)
			if err != nil {
				return nil, err
			}
			return p, nil
		}, ref, nil
	case config.PlayersMajority:
		ref, err := engine.ExpectedWinRateMajority(layout)
		if err != nil {
			return nil, 0, err
		}
		return func(uint64) (engine.Players, error) {
			p, err := engine.NewMajorityPlayers(layout)
			if err != nil {
				return nil, err
			}
			return p, nil
		}, ref, nil
	case config.PlayersRandom:
		return func(seed uint64) (engine.Players, error) {
			p, err := engine.NewRandomPlayers(layout, seed)
			if err != nil {
				return nil, err
			}
			return p, nil
		}, 0.5, nil
	}
	return nil, 0, fmt.Errorf("unknown players %q: %w", cfg.Players, engine.ErrConfiguration)
}
