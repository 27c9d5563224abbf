package mars

import (
	"corewar/point"
	"corewar/redcode"
)

// stepKind names how a process's successor PC (or PCs) is determined
// after an opcode body runs, per spec.md §4.4's "Successor PC" table.
type stepKind int

const (
	stepNormal stepKind = iota // PC += stepping vector
	stepSkip                   // PC += 2 * stepping vector
	stepJump                   // PC replaced with target
	stepKill                   // process dies, nothing requeued
	stepSplit                  // normal step enqueued, plus target enqueued as a child
)

// outcome is what an opcode body hands back to the scheduler.
type outcome struct {
	kind   stepKind
	target point.Point
}

// opcodeFunc executes one instruction's semantics against an already
// resolved execCtx and reports how its process's successor PC(s) should
// be computed.
type opcodeFunc func(ex *execCtx) outcome

// opcodeTable dispatches on redcode.Opcode, directly grounded on
// gone/cpu/opcodes.go's map[byte]Opcode{Instruction: (*Cpu).ADC, ...}
// shape: a flat map from the instruction's selector to a method value,
// substituting redcode.Opcode for the 6502 byte and execCtx for *Cpu.
var opcodeTable = map[redcode.Opcode]opcodeFunc{
	redcode.DAT: execDAT,
	redcode.MOV: execMOV,
	redcode.ADD: execADD,
	redcode.SUB: execSUB,
	redcode.MUL: execMUL,
	redcode.DIV: execDIV,
	redcode.MOD: execMOD,
	redcode.JMP: execJMP,
	redcode.JMZ: execJMZ,
	redcode.JMN: execJMN,
	redcode.DJN: execDJN,
	redcode.SPL: execSPL,
	redcode.SLT: execSLT,
	redcode.CMP: execCMP,
	redcode.SNE: execSNE,
	redcode.NOP: execNOP,
}
