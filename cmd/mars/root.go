package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"corewar/config"
	"corewar/internal/debugger"
	"corewar/internal/engineio/logger"
	"corewar/mars"
	"corewar/parse"
	"corewar/point"
)

var log = logger.New(os.Stderr, nil, slog.LevelInfo, slog.LevelWarn)

// Exit codes documented for scripted use, per spec.md §6/§7. 0 always means
// the round reached a winner or a tie; everything else means it never
// started.
const (
	exitOK               = 0
	exitLoadFailure      = 1
	exitParseFailure     = 2
	exitConfigError      = 3
	exitPlacementFailure = 4
)

func exitCodeFor(err error) int {
	var parseErr *parse.ParseError
	var cfgErr *config.ConfigError
	var placeErr *mars.PlacementError
	switch {
	case errors.As(err, &parseErr):
		return exitParseFailure
	case errors.As(err, &cfgErr):
		return exitConfigError
	case errors.As(err, &placeErr):
		return exitPlacementFailure
	case err != nil:
		return exitLoadFailure
	default:
		return exitOK
	}
}

type runFlags struct {
	rounds    int
	paused    bool
	size      string
	cycles    int
	processes int
	length    int
	distance  int
	seed      int64
	seedSet   bool
}

func newRootCmd() *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "mars WARRIOR [WARRIOR...]",
		Short: "Run Core War rounds between Redcode warriors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRounds(cmd, f, args)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.rounds, "rounds", 1, "number of rounds to play")
	flags.BoolVar(&f.paused, "paused", false, "start in the interactive debugger instead of running to completion")
	flags.StringVar(&f.size, "size", "8000", "core size, \"x\" or \"x:y\"")
	flags.IntVar(&f.cycles, "cycles", 80000, "cycle cap before a round is declared a tie")
	flags.IntVar(&f.processes, "processes", 8000, "max processes per warrior")
	flags.IntVar(&f.length, "length", 100, "max instructions per warrior")
	flags.IntVar(&f.distance, "distance", 100, "minimum separation between placed warriors")
	flags.Int64Var(&f.seed, "seed", 0, "RNG seed for placement (deterministic rounds)")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		f.seedSet = cmd.Flags().Changed("seed")
	}

	return cmd
}

func runRounds(cmd *cobra.Command, f *runFlags, paths []string) error {
	extent, err := point.Parse(f.size)
	if err != nil {
		return fmt.Errorf("mars: %w", err)
	}
	if extent.Y == 0 {
		extent.Y = 1
	}

	cfg := config.Config{
		CoreSizeX:    extent.X,
		CoreSizeY:    extent.Y,
		Cycles:       f.cycles,
		MaxProcesses: f.processes,
		MaxLength:    f.length,
		MinDistance:  f.distance,
		RNGSeed:      f.seed,
		SeedSet:      f.seedSet,
	}

	sources, err := loadWarriors(paths)
	if err != nil {
		log.Warn("load failed", "error", err)
		return err
	}
	log.Info("warriors loaded", "count", len(sources), "core_size", cfg.Extent())

	if f.paused {
		return debugger.Run(cfg, sources)
	}

	for n := 0; n < f.rounds; n++ {
		round, err := mars.NewRound(cfg, sources, nil)
		if err != nil {
			log.Warn("round setup failed", "round", n+1, "error", err)
			return err
		}
		log.Info("round started", "round", n+1)
		res := round.Step()
		for !res.Done {
			res = round.Step()
		}
		log.Info("round finished", "round", n+1, "cycle", round.Cycle(), "tied", res.Tied, "winner", res.Winner)
		reportResult(cmd, n, sources, res)
	}
	return nil
}

func reportResult(cmd *cobra.Command, n int, sources []mars.WarriorSource, res mars.CycleResult) {
	out := cmd.OutOrStdout()
	switch {
	case res.Tied:
		fmt.Fprintf(out, "round %d: tie\n", n+1)
	case res.Winner >= 0 && res.Winner < len(sources):
		fmt.Fprintf(out, "round %d: %s wins\n", n+1, sources[res.Winner].Label)
	default:
		fmt.Fprintf(out, "round %d: no winner\n", n+1)
	}
}

func loadWarriors(paths []string) ([]mars.WarriorSource, error) {
	sources := make([]mars.WarriorSource, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("mars: reading %s: %w", p, err)
		}
		img, err := parse.Parse(string(data))
		if err != nil {
			return nil, err
		}
		sources[i] = mars.WarriorSource{Label: warriorLabel(p), Image: img}
	}
	return sources, nil
}

func warriorLabel(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			base = path[i+1:]
			break
		}
	}
	return base
}
