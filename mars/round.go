// Package mars implements the MARS execution engine: placement, operand
// resolution, per-opcode semantics, and the round-robin process
// scheduler of spec.md §4.4/§5.
//
// Round owns all mutable state — core, warriors, cycle counter — as
// receiver fields rather than package globals, per spec.md §9's
// "thread the Round value through all operations" design note (the
// teacher's Cpu/Bus split over package state is adapted the same way:
// gone/cpu.Cpu holds *mem.Bus by pointer and no package-level var holds
// simulator state either).
package mars

import (
	"math/rand/v2"

	"corewar/config"
	"corewar/core"
	"corewar/event"
	"corewar/parse"
	"corewar/point"
	"corewar/redcode"
)

// WarriorSource is one warrior's already-parsed image plus the display
// label an embedder (a loader reading warrior files) assigns it.
type WarriorSource struct {
	Label string
	Image parse.Image
}

// Round is the MARS engine: a core, the warriors loaded into it in play
// order, and the scheduling state the Core API of spec.md §6 exposes
// through Step/ReadCell/SetPC/Queues.
type Round struct {
	core     *core.Core
	warriors []*Warrior
	cfg      config.Config
	sink     event.Sink
	rng      *rand.Rand
	cycle    int
	done     bool
}

// CycleResult reports the outcome of a single Step call, per spec.md §6.
type CycleResult struct {
	Winner int // warrior ID, or -1 if none yet / tie
	Tied   bool
	Done   bool
	Events []event.Event
}

// NewRound builds a Round: validates cfg, parses nothing itself (sources
// arrive pre-parsed), checks every image's length against max_length, and
// places every warrior in the core, seeding its process queue. Returns a
// *config.ConfigError or *PlacementError on failure, per spec.md §7.
func NewRound(cfg config.Config, sources []WarriorSource, sink event.Sink) (*Round, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = event.NopSink{}
	}

	images := make([]parsedImage, len(sources))
	for i, s := range sources {
		if len(s.Image.Instructions) > cfg.MaxLength {
			return nil, &PlacementError{Warrior: i, MinDistance: cfg.MinDistance, Attempts: 0}
		}
		images[i] = parsedImage{label: s.Label, instructions: s.Image.Instructions, startOffset: s.Image.StartOffset}
	}

	c := core.New(cfg.Extent(), sink)

	var rng *rand.Rand
	if cfg.SeedSet {
		rng = rand.New(rand.NewPCG(uint64(cfg.RNGSeed), uint64(cfg.RNGSeed)>>1|1))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	warriors, err := placeWarriors(c, images, cfg.MinDistance, rng)
	if err != nil {
		return nil, err
	}

	return &Round{core: c, warriors: warriors, cfg: cfg, sink: sink, rng: rng}, nil
}

// ReadCell returns the instruction at p, per spec.md §6's read_cell.
func (r *Round) ReadCell(p point.Point) redcode.Instruction {
	return r.core.Read(p)
}

// SetPC overwrites the next program counter of warrior id's head process,
// for REPL use per spec.md §6.
func (r *Round) SetPC(warriorID int, p point.Point) {
	if warriorID < 0 || warriorID >= len(r.warriors) {
		return
	}
	r.warriors[warriorID].queue.setFront(point.Normalise(p, r.core.Extent()))
}

// Queues returns each warrior's process queue in FIFO order, per spec.md
// §6's queues(round).
func (r *Round) Queues() map[int][]point.Point {
	out := make(map[int][]point.Point, len(r.warriors))
	for _, w := range r.warriors {
		out[w.ID] = w.queue.Snapshot()
	}
	return out
}

// Cycle returns the number of cycles executed so far.
func (r *Round) Cycle() int { return r.cycle }

// Done reports whether the round has already terminated.
func (r *Round) Done() bool { return r.done }

// livingCount returns how many warriors still have a non-empty queue.
func (r *Round) livingCount() int {
	n := 0
	for _, w := range r.warriors {
		if w.Alive() {
			n++
		}
	}
	return n
}
