package mars

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"corewar/config"
	"corewar/core"
	"corewar/event"
	"corewar/parse"
	"corewar/point"
	"corewar/redcode"
)

// newManualRound builds a Round directly from a pre-populated core,
// bypassing placement, so scenario tests can pin instructions at exact
// addresses as spec.md §8 describes them.
func newManualRound(extent point.Point, cfg config.Config, sink event.Sink, starts ...point.Point) (*Round, *core.Core) {
	if sink == nil {
		sink = event.NopSink{}
	}
	c := core.New(extent, sink)
	warriors := make([]*Warrior, len(starts))
	for i, s := range starts {
		w := &Warrior{ID: i, Label: "w"}
		w.queue.PushBack(s, cfg.MaxProcesses)
		warriors[i] = w
	}
	r := &Round{core: c, warriors: warriors, cfg: cfg, sink: sink}
	return r, c
}

func TestImpWritesOneAheadAndAdvancesByOne(t *testing.T) {
	cfg := config.Default()
	cfg.CoreSizeX, cfg.CoreSizeY, cfg.Cycles = 50, 1, 5
	r, c := newManualRound(cfg.Extent(), cfg, nil, point.Point{X: 10})

	imp := redcode.Instruction{
		Op: redcode.MOV, Mod: redcode.ModI, Step: redcode.StepD,
		A: redcode.Operand{Mode: redcode.Direct, Value: 0},
		B: redcode.Operand{Mode: redcode.Direct, Value: 1},
	}
	c.Write(point.Point{X: 10}, imp)

	for i := 0; i < 4; i++ {
		res := r.Step()
		assert.False(t, res.Done)
		wantPC := 11 + i
		assert.Equal(t, []point.Point{{X: wantPC}}, r.Queues()[0])
		got := c.Read(point.Point{X: wantPC})
		got.Line, got.Label = 0, ""
		assert.Equal(t, imp, got)
	}
}

func TestDwarfBombsFourFurtherEveryThreeCycles(t *testing.T) {
	cfg := config.Default()
	cfg.CoreSizeX, cfg.CoreSizeY, cfg.Cycles = 1000, 1, 100
	origin := 100
	r, c := newManualRound(cfg.Extent(), cfg, nil, point.Point{X: origin})

	add := redcode.Instruction{Op: redcode.ADD, Mod: redcode.ModAB, Step: redcode.StepD,
		A: redcode.Operand{Mode: redcode.Immediate, Value: 4},
		B: redcode.Operand{Mode: redcode.Direct, Value: 3}}
	mov := redcode.Instruction{Op: redcode.MOV, Mod: redcode.ModI, Step: redcode.StepD,
		A: redcode.Operand{Mode: redcode.Direct, Value: 2},
		B: redcode.Operand{Mode: redcode.Indirect, Value: 2}}
	jmp := redcode.Instruction{Op: redcode.JMP, Mod: redcode.ModB, Step: redcode.StepD,
		A: redcode.Operand{Mode: redcode.Direct, Value: -2}}
	dat := redcode.Instruction{Op: redcode.DAT, Mod: redcode.ModF,
		A: redcode.Operand{Mode: redcode.Immediate, Value: 0},
		B: redcode.Operand{Mode: redcode.Immediate, Value: 0}}

	c.Write(point.Point{X: origin}, add)
	c.Write(point.Point{X: origin + 1}, mov)
	c.Write(point.Point{X: origin + 2}, jmp)
	c.Write(point.Point{X: origin + 3}, dat)

	for round := 1; round <= 3; round++ {
		r.Step() // ADD bombs the template's B-field
		r.Step() // MOV bombs the copy forward
		r.Step() // JMP back to ADD

		wantBombField := 4 * round
		wantBombAddr := origin + 3 + wantBombField

		template := c.Read(point.Point{X: origin + 3})
		assert.Equal(t, wantBombField, template.B.Value, "round %d", round)

		bomb := c.Read(point.Point{X: wantBombAddr})
		assert.Equal(t, redcode.DAT, bomb.Op, "round %d", round)
	}
}

func TestMovWithImmediateSourceReplacesOnlyDestinationBField(t *testing.T) {
	cfg := config.Default()
	cfg.CoreSizeX, cfg.CoreSizeY, cfg.Cycles = 50, 1, 5
	r, c := newManualRound(cfg.Extent(), cfg, nil, point.Point{X: 10})

	// MOV #4, $1 parses with the default modifier I (redcode.DefaultModifier
	// always returns ModI for MOV), but an immediate A-operand must still
	// replace only the destination's B-field, not the whole cell.
	mov := redcode.Instruction{Op: redcode.MOV, Mod: redcode.ModI, Step: redcode.StepD,
		A: redcode.Operand{Mode: redcode.Immediate, Value: 4},
		B: redcode.Operand{Mode: redcode.Direct, Value: 1}}
	dst := redcode.Instruction{Op: redcode.SPL, Mod: redcode.ModB, Step: redcode.StepD,
		A: redcode.Operand{Mode: redcode.Direct, Value: 7}, B: redcode.Operand{Mode: redcode.Direct, Value: 9}}
	c.Write(point.Point{X: 10}, mov)
	c.Write(point.Point{X: 11}, dst)

	r.Step()

	got := c.Read(point.Point{X: 11})
	assert.Equal(t, redcode.SPL, got.Op)
	assert.Equal(t, redcode.Direct, got.A.Mode)
	assert.Equal(t, 7, got.A.Value)
	assert.Equal(t, 4, got.B.Value)
}

func TestDivisionByZeroKillsProcess(t *testing.T) {
	cfg := config.Default()
	cfg.CoreSizeX, cfg.CoreSizeY, cfg.Cycles = 50, 1, 10
	sink := &event.CollectSink{}
	r, c := newManualRound(cfg.Extent(), cfg, sink, point.Point{X: 5})

	div := redcode.Instruction{Op: redcode.DIV, Mod: redcode.ModAB, Step: redcode.StepD,
		A: redcode.Operand{Mode: redcode.Immediate, Value: 0},
		B: redcode.Operand{Mode: redcode.Direct, Value: 1}}
	dat := redcode.Instruction{Op: redcode.DAT, Mod: redcode.ModF,
		A: redcode.Operand{Mode: redcode.Immediate, Value: 1},
		B: redcode.Operand{Mode: redcode.Immediate, Value: 1}}
	c.Write(point.Point{X: 5}, div)
	c.Write(point.Point{X: 6}, dat)

	res := r.Step()
	assert.True(t, res.Done)
	assert.Empty(t, r.Queues()[0])

	var sawKill bool
	for _, e := range sink.Events {
		if e.Type == event.ProcessKilled {
			sawKill = true
		}
	}
	assert.True(t, sawKill)
}

func TestSplBoundsNeverExceedMaxProcesses(t *testing.T) {
	cfg := config.Default()
	cfg.CoreSizeX, cfg.CoreSizeY, cfg.Cycles = 20, 1, 1000
	cfg.MaxProcesses = 4
	r, c := newManualRound(cfg.Extent(), cfg, nil, point.Point{X: 0})

	spl := redcode.Instruction{Op: redcode.SPL, Mod: redcode.ModB, Step: redcode.StepD,
		A: redcode.Operand{Mode: redcode.Direct, Value: 0},
		B: redcode.Operand{Mode: redcode.Direct, Value: 0}}
	for i := 0; i < cfg.CoreSizeX; i++ {
		c.Write(point.Point{X: i}, spl)
	}

	for i := 0; i < 40; i++ {
		r.Step()
		assert.LessOrEqual(t, len(r.Queues()[0]), cfg.MaxProcesses)
	}
}

func TestSteppingSAdvancesYInTwoDCore(t *testing.T) {
	cfg := config.Default()
	cfg.CoreSizeX, cfg.CoreSizeY, cfg.Cycles = 8, 4, 20
	r, c := newManualRound(cfg.Extent(), cfg, nil, point.Point{X: 0, Y: 0})

	ins := redcode.Instruction{Op: redcode.MOV, Mod: redcode.ModI, Step: redcode.StepS,
		A: redcode.Operand{Mode: redcode.Direct, Value: 0},
		B: redcode.Operand{Mode: redcode.Direct, Value: 0}}
	for y := 0; y < cfg.CoreSizeY; y++ {
		c.Write(point.Point{X: 0, Y: y}, ins)
	}

	want := []point.Point{{X: 0, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: 3}, {X: 0, Y: 0}, {X: 0, Y: 1}}
	for _, w := range want {
		r.Step()
		assert.Equal(t, []point.Point{w}, r.Queues()[0])
	}
}

func TestPredecrementVisibleToSourceResolution(t *testing.T) {
	cfg := config.Default()
	cfg.CoreSizeX, cfg.CoreSizeY, cfg.Cycles = 200, 1, 10
	r, c := newManualRound(cfg.Extent(), cfg, nil, point.Point{X: 10})

	// DAT.F #0, #5 at X=50; MOV at 10 reaches it via <40 (50-10).
	dat := redcode.Instruction{Op: redcode.DAT, Mod: redcode.ModF,
		A: redcode.Operand{Mode: redcode.Immediate, Value: 0},
		B: redcode.Operand{Mode: redcode.Immediate, Value: 5}}
	c.Write(point.Point{X: 50}, dat)

	marker := redcode.Instruction{Op: redcode.NOP, Mod: redcode.ModB, Step: redcode.StepD,
		A: redcode.Operand{Mode: redcode.Direct, Value: 7}, B: redcode.Operand{Mode: redcode.Direct, Value: 9}}
	c.Write(point.Point{X: 54}, marker) // X + decremented B(4) = 54

	mov := redcode.Instruction{Op: redcode.MOV, Mod: redcode.ModI, Step: redcode.StepD,
		A: redcode.Operand{Mode: redcode.Predecrement, Value: 40},
		B: redcode.Operand{Mode: redcode.Direct, Value: 1}}
	c.Write(point.Point{X: 10}, mov)

	r.Step()

	assert.Equal(t, 4, c.Read(point.Point{X: 50}).B.Value)
	got := c.Read(point.Point{X: 11})
	got.Line, got.Label = 0, ""
	assert.Equal(t, marker, got)
}

func TestFairnessEachLivingWarriorGetsOneSlotPerCycle(t *testing.T) {
	cfg := config.Default()
	cfg.CoreSizeX, cfg.CoreSizeY, cfg.Cycles = 100, 1, 10
	sink := &event.CollectSink{}
	r, c := newManualRound(cfg.Extent(), cfg, sink, point.Point{X: 0}, point.Point{X: 50})

	const n = 5
	nop := redcode.Instruction{Op: redcode.NOP, Step: redcode.StepD}
	for i := 0; i < n; i++ {
		c.Write(point.Point{X: i}, nop)
		c.Write(point.Point{X: 50 + i}, nop)
	}

	counts := map[int]int{}
	for i := 0; i < n; i++ {
		res := r.Step()
		for _, e := range res.Events {
			if e.Type == event.Executed {
				counts[e.WarriorID]++
			}
		}
	}
	assert.Equal(t, n, counts[0])
	assert.Equal(t, n, counts[1])
}

func TestCycleCapEndsInTie(t *testing.T) {
	cfg := config.Default()
	cfg.CoreSizeX, cfg.CoreSizeY, cfg.Cycles = 20, 1, 3
	r, c := newManualRound(cfg.Extent(), cfg, nil, point.Point{X: 0}, point.Point{X: 10})

	nop := redcode.Instruction{Op: redcode.NOP, Step: redcode.StepD}
	for i := 0; i < cfg.Cycles; i++ {
		c.Write(point.Point{X: i}, nop)
		c.Write(point.Point{X: 10 + i}, nop)
	}

	var last CycleResult
	for i := 0; i < 3; i++ {
		last = r.Step()
	}
	assert.True(t, last.Done)
	assert.True(t, last.Tied)
}

func TestDeterminismGivenSameSeed(t *testing.T) {
	src := []WarriorSource{
		{Label: "a", Image: mustParse(t, "ADD.AB #4, $3\nMOV.I $2, @2\nJMP.B $-2\nDAT.F #0, #0")},
		{Label: "b", Image: mustParse(t, "MOV.I $0, $1")},
	}
	cfg := config.Default()
	cfg.CoreSizeX, cfg.CoreSizeY, cfg.Cycles, cfg.MinDistance = 2000, 1, 50, 10
	cfg.RNGSeed, cfg.SeedSet = 42, true

	run := func() []event.Event {
		r, err := NewRound(cfg, src, nil)
		assert.NoError(t, err)
		var all []event.Event
		for i := 0; i < cfg.Cycles; i++ {
			res := r.Step()
			all = append(all, res.Events...)
			if res.Done {
				break
			}
		}
		return all
	}

	a := run()
	b := run()
	assert.Equal(t, a, b)
}

func mustParse(t *testing.T, src string) parse.Image {
	t.Helper()
	img, err := parse.Parse(src)
	assert.NoError(t, err)
	return img
}
