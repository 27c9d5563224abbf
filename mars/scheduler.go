package mars

import (
	"corewar/event"
	"corewar/point"
	"corewar/redcode"
)

// Step runs one cycle: one execution slot per living warrior, in round
// order, per spec.md §4.4/§5 ("each living warrior gets exactly one slot
// per cycle"). It returns the events emitted through the round's sink
// during the cycle and, once the round has ended, the winner (or a tie).
// The I_WRITE events that core.Core.Write emits go to the round's sink
// only and are not included in CycleResult.Events.
func (r *Round) Step() CycleResult {
	if r.done {
		return CycleResult{Winner: -1, Done: true}
	}

	collect := &event.CollectSink{}
	tee := event.Tee{A: r.sink, B: collect}

	aliveBefore := r.livingCount()
	var soleSurvivor int = -1
	if aliveBefore == 1 {
		soleSurvivor = r.soleAliveID()
	}

	for _, w := range r.warriors {
		if !w.Alive() {
			continue
		}
		executeOne(r, w, tee)
	}

	r.cycle++
	aliveAfter := r.livingCount()

	result := CycleResult{Winner: -1, Events: collect.Events}

	switch {
	case aliveAfter == 1 && len(r.warriors) > 1:
		result.Winner = r.soleAliveID()
		result.Done = true
	case aliveAfter == 0:
		if aliveBefore == 1 {
			result.Winner = soleSurvivor
		} else {
			result.Tied = true
		}
		result.Done = true
	case r.cycle >= r.cfg.Cycles:
		result.Tied = true
		result.Done = true
	}

	r.done = result.Done
	return result
}

func (r *Round) soleAliveID() int {
	for _, w := range r.warriors {
		if w.Alive() {
			return w.ID
		}
	}
	return -1
}

// executeOne runs a single process slot for w: dequeue its head PC, fetch
// and dispatch the instruction there, and enqueue whatever successor the
// opcode produces.
func executeOne(r *Round, w *Warrior, sink event.Sink) {
	pc := w.queue.PopFront()
	ins := r.core.Read(pc)
	emit(sink, event.IRead, w.ID, pc, pc, ins)

	srcRes := resolveOperand(r.core, sink, pc, ins.A, w.ID)
	src := r.core.Read(srcRes.addr)
	emit(sink, event.ARead, w.ID, pc, srcRes.addr, src)

	dstRes := resolveOperand(r.core, sink, pc, ins.B, w.ID)
	dst := r.core.Read(dstRes.addr)
	emit(sink, event.BRead, w.ID, pc, dstRes.addr, dst)

	ex := &execCtx{
		round: r, warriorID: w.ID, pc: pc, ins: ins,
		srcAddr: srcRes.addr, dstAddr: dstRes.addr, src: src, dst: dst,
		deferredA: srcRes.deferred, deferredB: dstRes.deferred,
	}

	fn, ok := opcodeTable[ins.Op]
	if !ok {
		fn = execNOP
	}
	out := fn(ex)

	applyDeferred(r.core, sink, w.ID, pc, ex.deferredA)
	applyDeferred(r.core, sink, w.ID, pc, ex.deferredB)

	emit(sink, event.Executed, w.ID, pc, pc, ins)

	enqueueSuccessor(r, w, pc, ins, out, sink)
}

func stepVector(s redcode.Stepping) point.Point {
	switch s {
	case redcode.StepS:
		return point.Point{X: 0, Y: 1}
	case redcode.StepQ:
		return point.Point{X: -1, Y: 0}
	case redcode.StepW:
		return point.Point{X: 0, Y: -1}
	default: // StepD
		return point.Point{X: 1, Y: 0}
	}
}

// enqueueSuccessor computes and pushes the next PC(s) for w, per the
// outcome its opcode produced and the successor-PC rules of spec.md
// §4.4.
func enqueueSuccessor(r *Round, w *Warrior, pc point.Point, ins redcode.Instruction, out outcome, sink event.Sink) {
	extent := r.core.Extent()
	step := stepVector(ins.Step)

	switch out.kind {
	case stepKill:
		if !w.Alive() {
			emit(sink, event.WarriorKilled, w.ID, pc, pc, ins)
		}
		return

	case stepJump:
		w.queue.PushBack(point.Normalise(out.target, extent), r.cfg.MaxProcesses)

	case stepSkip:
		next := point.Normalise(pc.Add(step.MulScalar(2)), extent)
		w.queue.PushBack(next, r.cfg.MaxProcesses)

	case stepSplit:
		next := point.Normalise(pc.Add(step), extent)
		w.queue.PushBack(next, r.cfg.MaxProcesses)
		child := point.Normalise(out.target, extent)
		ok := w.queue.PushBack(child, r.cfg.MaxProcesses)
		sink.Emit(event.Event{Type: event.ProcessSplit, WarriorID: w.ID, PC: pc, Addr: child, Instruction: ins, Dropped: !ok})

	default: // stepNormal
		next := point.Normalise(pc.Add(step), extent)
		w.queue.PushBack(next, r.cfg.MaxProcesses)
	}
}
