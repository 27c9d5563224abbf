// Package event defines the MARS event model: the named events spec.md §6
// requires ("EXECUTED", "I_READ", ... ) and the Sink interface observers
// implement to receive them.
//
// A Sink is synchronous and must not re-enter the engine (spec.md §5):
// Round.Step calls Emit inline, on the goroutine that is executing the
// cycle, before moving on to the next field access.
package event

import (
	"corewar/point"
	"corewar/redcode"
)

// Type names one of the event kinds spec.md §6 lists as normative.
type Type string

const (
	Executed       Type = "EXECUTED"
	IRead          Type = "I_READ"
	Write          Type = "I_WRITE" // core.Core.Write always emits this
	ARead          Type = "A_READ"
	AWrite         Type = "A_WRITE"
	BRead          Type = "B_READ"
	BWrite         Type = "B_WRITE"
	ADec           Type = "A_DEC"
	BDec           Type = "B_DEC"
	AInc           Type = "A_INC"
	BInc           Type = "B_INC"
	AArith         Type = "A_ARITH"
	BArith         Type = "B_ARITH"
	ProcessSplit   Type = "PROCESS_SPLIT"
	ProcessKilled  Type = "PROCESS_KILLED"
	WarriorKilled  Type = "WARRIOR_KILLED"
)

// Event carries a type, the process counter that produced it, the memory
// address it concerns (when applicable), and which warrior was running.
// Instruction is populated for I_WRITE (and EXECUTED) so observers can
// render the new cell contents without a follow-up Core.Read.
type Event struct {
	Type        Type
	WarriorID   int
	PC          point.Point
	Addr        point.Point
	Instruction redcode.Instruction
	Dropped     bool // PROCESS_SPLIT only: true if the child was discarded (queue full)
}

// Sink receives events as they occur.
type Sink interface {
	Emit(Event)
}

// NopSink discards every event; it is the default when a Round is built
// without an explicit sink.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// CollectSink accumulates every event it receives, in order. It exists for
// tests (and for Round.Step's own CycleResult.Events, which is built by
// wrapping the caller's sink in one of these) — the same role the
// teacher's debugger.model plays by reading *Cpu fields directly after
// each tick, just generalised into something assertable.
type CollectSink struct {
	Events []Event
}

func (s *CollectSink) Emit(e Event) { s.Events = append(s.Events, e) }

// Tee forwards every event to both sinks, used internally so a Round can
// report events to the caller's sink while also collecting them for the
// CycleResult it returns from Step.
type Tee struct {
	A, B Sink
}

func (t Tee) Emit(e Event) {
	t.A.Emit(e)
	t.B.Emit(e)
}
