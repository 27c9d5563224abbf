package mars

import (
	"corewar/core"
	"corewar/event"
	"corewar/point"
	"corewar/redcode"
)

// resolved is the outcome of resolving one operand: the effective address
// it names, and any post-increment this resolution deferred (per spec.md
// §9: "defer post-increments to a finalisation pass after the opcode
// body"). deferred.addr is the zero Point and pending is false when no
// increment is pending.
type resolved struct {
	addr     point.Point
	deferred deferredIncrement
}

type deferredIncrement struct {
	addr    point.Point
	pending bool
}

// resolveOperand computes an operand's effective address relative to pc,
// per the table in spec.md §4.4. Pre-decrement is applied immediately
// (write-through, visible to whatever resolves next); post-increment is
// returned for the caller to apply later, after the opcode body runs.
func resolveOperand(c *core.Core, sink event.Sink, pc point.Point, op redcode.Operand, warriorID int) resolved {
	switch op.Mode {
	case redcode.Immediate:
		return resolved{addr: pc}

	case redcode.Direct:
		return resolved{addr: normaliseIn(c, pc.AddScalar(op.Value))}

	case redcode.Indirect:
		ptr := normaliseIn(c, pc.AddScalar(op.Value))
		target := ptr.AddScalar(fieldB(c.Read(ptr)))
		return resolved{addr: normaliseIn(c, target)}

	case redcode.Predecrement:
		ptr := normaliseIn(c, pc.AddScalar(op.Value))
		cell := c.Read(ptr)
		cell.B.Value = fieldB(cell) - 1
		c.Write(ptr, cell)
		emit(sink, event.BDec, warriorID, pc, ptr, cell)
		target := ptr.AddScalar(cell.B.Value)
		return resolved{addr: normaliseIn(c, target)}

	case redcode.Postincrement:
		ptr := normaliseIn(c, pc.AddScalar(op.Value))
		cell := c.Read(ptr)
		target := ptr.AddScalar(fieldB(cell))
		return resolved{addr: normaliseIn(c, target), deferred: deferredIncrement{addr: ptr, pending: true}}

	default:
		return resolved{addr: normaliseIn(c, pc.AddScalar(op.Value))}
	}
}

// applyDeferred performs a postponed post-increment side effect, once the
// opcode body that triggered it has finished reading memory.
func applyDeferred(c *core.Core, sink event.Sink, warriorID int, pc point.Point, d deferredIncrement) {
	if !d.pending {
		return
	}
	cell := c.Read(d.addr)
	cell.B.Value = fieldB(cell) + 1
	c.Write(d.addr, cell)
	emit(sink, event.BInc, warriorID, pc, d.addr, cell)
}

func normaliseIn(c *core.Core, p point.Point) point.Point { return point.Normalise(p, c.Extent()) }

func fieldB(ins redcode.Instruction) int { return ins.B.Value }

func emit(sink event.Sink, t event.Type, warriorID int, pc, addr point.Point, ins redcode.Instruction) {
	sink.Emit(event.Event{Type: t, WarriorID: warriorID, PC: pc, Addr: addr, Instruction: ins})
}
