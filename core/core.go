// Package core implements the fixed-size, circular memory array warriors
// share. It mirrors gone/mem.Bus (a flat fixed-size byte array addressed
// through a single accessor), generalised to a 2D Instruction array
// addressed through point.Normalise.
package core

import (
	"corewar/event"
	"corewar/point"
	"corewar/redcode"
)

// A Core is the MARS memory array: Cx*Cy Instructions, initialised to the
// canonical dead cell, addressed by a Point that is always normalised on
// entry. Every read and write funnels through point.Normalise, so out-of-bounds
// access is definitionally impossible once a Point exists.
type Core struct {
	cells  []redcode.Instruction
	extent point.Point
	sink   event.Sink
}

// New allocates a core of extent.X * extent.Y cells, all DAT.F $0, $0, and
// wires it to sink for WRITE events. A nil sink is a valid no-op sink.
func New(extent point.Point, sink event.Sink) *Core {
	if sink == nil {
		sink = event.NopSink{}
	}
	c := &Core{
		cells:  make([]redcode.Instruction, extent.X*extent.Y),
		extent: extent,
		sink:   sink,
	}
	for i := range c.cells {
		c.cells[i] = redcode.Dead
	}
	return c
}

// Extent returns the core's (Cx, Cy).
func (c *Core) Extent() point.Point { return c.extent }

// Size returns the total number of cells, Cx*Cy.
func (c *Core) Size() int { return len(c.cells) }

func (c *Core) index(p point.Point) int {
	return point.Index(point.Normalise(p, c.extent), c.extent)
}

// Read returns the instruction at p, normalising p first.
func (c *Core) Read(p point.Point) redcode.Instruction {
	return c.cells[c.index(p)]
}

// Write stores ins at p, normalising p first, and emits a WRITE event.
func (c *Core) Write(p point.Point, ins redcode.Instruction) {
	np := point.Normalise(p, c.extent)
	c.cells[point.Index(np, c.extent)] = ins
	c.sink.Emit(event.Event{Type: event.Write, Addr: np, Instruction: ins})
}

// Load copies image into the core starting at origin, wrapping as
// necessary; it does not emit WRITE events (used only at round setup,
// before any process runs).
func (c *Core) Load(origin point.Point, image []redcode.Instruction) {
	for i, ins := range image {
		np := point.Normalise(origin.AddScalar(i), c.extent)
		c.cells[point.Index(np, c.extent)] = ins
	}
}

// Snapshot returns a defensive copy of every cell, for observers (spec.md
// §4.3's "snapshot() for observers").
func (c *Core) Snapshot() []redcode.Instruction {
	out := make([]redcode.Instruction, len(c.cells))
	copy(out, c.cells)
	return out
}
