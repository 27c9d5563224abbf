package mars

import (
	"corewar/core"
	"corewar/event"
	"corewar/point"
	"corewar/redcode"
)

// execCtx carries everything an opcode body needs: the resolved
// addresses and the instructions read from them, captured by
// executeOne's fixed resolution order (spec.md §9):
// source resolved and snapshotted before destination resolution can
// mutate anything, destination snapshotted immediately before use.
type execCtx struct {
	round     *Round
	warriorID int
	pc        point.Point
	ins       redcode.Instruction

	srcAddr point.Point
	dstAddr point.Point
	src     redcode.Instruction
	dst     redcode.Instruction // current contents at dstAddr, read just before the body runs

	deferredA deferredIncrement
	deferredB deferredIncrement
}

func (ex *execCtx) core() *core.Core { return ex.round.core }
func (ex *execCtx) sink() event.Sink { return ex.round.sink }

func (ex *execCtx) emit(t event.Type, addr point.Point, ins redcode.Instruction) {
	emit(ex.sink(), t, ex.warriorID, ex.pc, addr, ins)
}

// writeDst writes ins back to dstAddr. core.Core.Write emits the I_WRITE
// event; the field-level A_WRITE/B_WRITE/arithmetic events are emitted by
// the opcode bodies themselves.
func (ex *execCtx) writeDst(ins redcode.Instruction) {
	ex.core().Write(ex.dstAddr, ins)
}

func execDAT(ex *execCtx) outcome {
	ex.emit(event.ProcessKilled, ex.pc, ex.ins)
	return outcome{kind: stepKill}
}

func execNOP(ex *execCtx) outcome {
	return outcome{kind: stepNormal}
}

func execJMP(ex *execCtx) outcome {
	return outcome{kind: stepJump, target: ex.srcAddr}
}

func execJMZ(ex *execCtx) outcome {
	if allZero(ex.dst, testFields(ex.ins.Mod)) {
		return outcome{kind: stepJump, target: ex.srcAddr}
	}
	return outcome{kind: stepNormal}
}

func execJMN(ex *execCtx) outcome {
	if !allZero(ex.dst, testFields(ex.ins.Mod)) {
		return outcome{kind: stepJump, target: ex.srcAddr}
	}
	return outcome{kind: stepNormal}
}

func execDJN(ex *execCtx) outcome {
	result := ex.dst
	fields := testFields(ex.ins.Mod)
	for _, isA := range fields {
		result = setField(result, isA, getField(result, isA)-1)
		if isA {
			ex.emit(event.ADec, ex.dstAddr, result)
		} else {
			ex.emit(event.BDec, ex.dstAddr, result)
		}
	}
	ex.writeDst(result)
	if !allZero(result, fields) {
		return outcome{kind: stepJump, target: ex.srcAddr}
	}
	return outcome{kind: stepNormal}
}

func execSPL(ex *execCtx) outcome {
	return outcome{kind: stepSplit, target: ex.srcAddr}
}

func execMOV(ex *execCtx) outcome {
	if ex.ins.A.Mode == redcode.Immediate {
		result := ex.dst
		result.B.Value = ex.src.A.Value
		ex.writeDst(result)
		ex.emit(event.BWrite, ex.dstAddr, result)
		return outcome{kind: stepNormal}
	}
	if ex.ins.Mod == redcode.ModI {
		ex.writeDst(ex.src)
		ex.emit(event.AWrite, ex.dstAddr, ex.src)
		ex.emit(event.BWrite, ex.dstAddr, ex.src)
		return outcome{kind: stepNormal}
	}
	result := ex.dst
	for _, pair := range fieldPairs(ex.ins.Mod) {
		v := getField(ex.src, pair.srcIsA)
		result = setField(result, pair.dstIsA, v)
		if pair.dstIsA {
			ex.emit(event.AWrite, ex.dstAddr, result)
		} else {
			ex.emit(event.BWrite, ex.dstAddr, result)
		}
	}
	ex.writeDst(result)
	return outcome{kind: stepNormal}
}

func execArith(ex *execCtx, apply func(a, b int) (int, bool)) outcome {
	result := ex.dst
	for _, pair := range fieldPairs(ex.ins.Mod) {
		a := getField(ex.src, pair.srcIsA)
		b := getField(result, pair.dstIsA)
		v, ok := apply(a, b)
		if !ok {
			ex.emit(event.ProcessKilled, ex.pc, ex.ins)
			return outcome{kind: stepKill}
		}
		result = setField(result, pair.dstIsA, v)
		if pair.dstIsA {
			ex.emit(event.AArith, ex.dstAddr, result)
		} else {
			ex.emit(event.BArith, ex.dstAddr, result)
		}
	}
	ex.writeDst(result)
	return outcome{kind: stepNormal}
}

func execADD(ex *execCtx) outcome {
	extent := ex.core().Extent().X
	return execArith(ex, func(a, b int) (int, bool) { return point.Point{X: a + b}.Mod(point.Point{X: extent}).X, true })
}

func execSUB(ex *execCtx) outcome {
	extent := ex.core().Extent().X
	return execArith(ex, func(a, b int) (int, bool) { return point.Point{X: b - a}.Mod(point.Point{X: extent}).X, true })
}

func execMUL(ex *execCtx) outcome {
	extent := ex.core().Extent().X
	return execArith(ex, func(a, b int) (int, bool) { return point.Point{X: a * b}.Mod(point.Point{X: extent}).X, true })
}

func execDIV(ex *execCtx) outcome {
	extent := ex.core().Extent().X
	return execArith(ex, func(a, b int) (int, bool) {
		if a == 0 {
			return 0, false
		}
		return point.Point{X: b / a}.Mod(point.Point{X: extent}).X, true
	})
}

func execMOD(ex *execCtx) outcome {
	extent := ex.core().Extent().X
	return execArith(ex, func(a, b int) (int, bool) {
		if a == 0 {
			return 0, false
		}
		return point.Point{X: b % a}.Mod(point.Point{X: extent}).X, true
	})
}

func execSLT(ex *execCtx) outcome {
	if compareFields(ex.src, ex.dst, ex.ins.Mod, func(a, b int) bool { return a < b }) {
		return outcome{kind: stepSkip}
	}
	return outcome{kind: stepNormal}
}

func execCMP(ex *execCtx) outcome {
	if instructionsEqual(ex.ins.Mod, ex.src, ex.dst) {
		return outcome{kind: stepSkip}
	}
	return outcome{kind: stepNormal}
}

func execSNE(ex *execCtx) outcome {
	if !instructionsEqual(ex.ins.Mod, ex.src, ex.dst) {
		return outcome{kind: stepSkip}
	}
	return outcome{kind: stepNormal}
}

func instructionsEqual(mod redcode.Modifier, a, b redcode.Instruction) bool {
	if mod == redcode.ModI {
		return a.Op == b.Op && a.Mod == b.Mod && a.A == b.A && a.B == b.B
	}
	return compareFields(a, b, mod, func(x, y int) bool { return x == y })
}

func compareFields(src, dst redcode.Instruction, mod redcode.Modifier, pred func(a, b int) bool) bool {
	for _, pair := range fieldPairs(mod) {
		a := getField(src, pair.srcIsA)
		b := getField(dst, pair.dstIsA)
		if !pred(a, b) {
			return false
		}
	}
	return true
}

// fieldPair names one (source field, destination field) selection made by
// a modifier, per the table in spec.md §4.4.
type fieldPair struct {
	srcIsA bool
	dstIsA bool
}

// fieldPairs returns the field selection for a two-instruction opcode.
// Per spec.md §4.4's footnote, the I modifier behaves as F for every
// opcode except MOV/CMP/SNE, which handle it as a whole-instruction copy
// or comparison before ever reaching this table.
func fieldPairs(mod redcode.Modifier) []fieldPair {
	if mod == redcode.ModI {
		mod = redcode.ModF
	}
	switch mod {
	case redcode.ModA:
		return []fieldPair{{true, true}}
	case redcode.ModB:
		return []fieldPair{{false, false}}
	case redcode.ModAB:
		return []fieldPair{{true, false}}
	case redcode.ModBA:
		return []fieldPair{{false, true}}
	case redcode.ModX:
		return []fieldPair{{true, false}, {false, true}}
	default: // F
		return []fieldPair{{true, true}, {false, false}}
	}
}

// testFields selects which field(s) of a single instruction JMZ/JMN/DJN
// examine or mutate. A and AB test/mutate the A field only; B and BA the
// B field only; F, X and I test/mutate both — there being only one
// instruction in play, AB/BA collapse to their leading field rather than
// crossing between two instructions (see DESIGN.md).
func testFields(mod redcode.Modifier) []bool {
	switch mod {
	case redcode.ModA, redcode.ModAB:
		return []bool{true}
	case redcode.ModB, redcode.ModBA:
		return []bool{false}
	default: // F, X, I
		return []bool{true, false}
	}
}

func allZero(ins redcode.Instruction, fields []bool) bool {
	for _, isA := range fields {
		if getField(ins, isA) != 0 {
			return false
		}
	}
	return true
}

func getField(ins redcode.Instruction, isA bool) int {
	if isA {
		return ins.A.Value
	}
	return ins.B.Value
}

func setField(ins redcode.Instruction, isA bool, v int) redcode.Instruction {
	if isA {
		ins.A.Value = v
	} else {
		ins.B.Value = v
	}
	return ins
}
