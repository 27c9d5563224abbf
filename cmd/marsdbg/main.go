// Command marsdbg starts the interactive Core War debugger directly on a
// set of warrior files, bypassing the round-repetition and reporting
// logic of cmd/mars. It is the standalone form of the same TUI cmd/mars
// reaches via --paused.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"corewar/config"
	"corewar/internal/debugger"
	"corewar/mars"
	"corewar/parse"
	"corewar/point"
)

func main() {
	size := pflag.String("size", "8000", "core size, \"x\" or \"x:y\"")
	cycles := pflag.Int("cycles", 80000, "cycle cap before a round is declared a tie")
	processes := pflag.Int("processes", 8000, "max processes per warrior")
	length := pflag.Int("length", 100, "max instructions per warrior")
	distance := pflag.Int("distance", 100, "minimum separation between placed warriors")
	seed := pflag.Int64("seed", 0, "RNG seed for placement (deterministic rounds)")
	pflag.Parse()

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "marsdbg: at least one warrior file is required")
		os.Exit(1)
	}

	extent, err := point.Parse(*size)
	if err != nil {
		fmt.Fprintln(os.Stderr, "marsdbg:", err)
		os.Exit(1)
	}
	if extent.Y == 0 {
		extent.Y = 1
	}

	cfg := config.Config{
		CoreSizeX:    extent.X,
		CoreSizeY:    extent.Y,
		Cycles:       *cycles,
		MaxProcesses: *processes,
		MaxLength:    *length,
		MinDistance:  *distance,
		RNGSeed:      *seed,
		SeedSet:      pflag.Lookup("seed").Changed,
	}

	sources := make([]mars.WarriorSource, pflag.NArg())
	for i, path := range pflag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "marsdbg:", err)
			os.Exit(1)
		}
		img, err := parse.Parse(string(data))
		if err != nil {
			fmt.Fprintln(os.Stderr, "marsdbg:", err)
			os.Exit(1)
		}
		sources[i] = mars.WarriorSource{Label: path, Image: img}
	}

	if err := debugger.Run(cfg, sources); err != nil {
		fmt.Fprintln(os.Stderr, "marsdbg:", err)
		os.Exit(1)
	}
}
