package redcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeByNameAcceptsSEQAlias(t *testing.T) {
	op, ok := OpcodeByName("SEQ")
	assert.True(t, ok)
	assert.Equal(t, CMP, op)

	op, ok = OpcodeByName("MOV")
	assert.True(t, ok)
	assert.Equal(t, MOV, op)

	_, ok = OpcodeByName("NOPE")
	assert.False(t, ok)
}

func TestDefaultModifierTable(t *testing.T) {
	assert.Equal(t, ModF, DefaultModifier(DAT, Direct))
	assert.Equal(t, ModI, DefaultModifier(MOV, Direct))
	assert.Equal(t, ModI, DefaultModifier(SNE, Direct))
	assert.Equal(t, ModB, DefaultModifier(ADD, Immediate))
	assert.Equal(t, ModF, DefaultModifier(ADD, Direct))
	assert.Equal(t, ModB, DefaultModifier(JMP, Direct))
	assert.Equal(t, ModB, DefaultModifier(SPL, Direct))
}

func TestInstructionStringRoundTrips(t *testing.T) {
	i := Instruction{
		Op:   MOV,
		Mod:  ModI,
		Step: StepD,
		A:    Operand{Mode: Direct, Value: 0},
		B:    Operand{Mode: Direct, Value: 1},
	}
	assert.Equal(t, "MOV.I.D $0, $1", i.String())
}

func TestDeadCellIsCanonical(t *testing.T) {
	assert.Equal(t, "DAT.F.D $0, $0", Dead.String())
}
