package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"corewar/redcode"
)

func TestParsesImpSingleLine(t *testing.T) {
	img, err := Parse("MOV.I $0, $1")
	assert.NoError(t, err)
	assert.Len(t, img.Instructions, 1)
	assert.Equal(t, redcode.MOV, img.Instructions[0].Op)
	assert.Equal(t, redcode.ModI, img.Instructions[0].Mod)
	assert.Equal(t, redcode.StepD, img.Instructions[0].Step)
	assert.Equal(t, redcode.Operand{Mode: redcode.Direct, Value: 0}, img.Instructions[0].A)
	assert.Equal(t, redcode.Operand{Mode: redcode.Direct, Value: 1}, img.Instructions[0].B)
}

func TestParsesDwarfWithLabelsAndJump(t *testing.T) {
	src := `
start   ADD.AB  #4, $3
        MOV.I   $2, @2
        JMP.B   $-2
        DAT.F   #0, #0
`
	img, err := Parse(src)
	assert.NoError(t, err)
	assert.Len(t, img.Instructions, 4)
	assert.Equal(t, "start", img.Instructions[0].Label)
	assert.Equal(t, redcode.JMP, img.Instructions[2].Op)
	assert.Equal(t, -2, img.Instructions[2].A.Value)
	assert.Equal(t, redcode.DAT, img.Instructions[3].Op)
}

func TestDefaultModifierAppliedWhenOmitted(t *testing.T) {
	img, err := Parse("JMP $5")
	assert.NoError(t, err)
	assert.Equal(t, redcode.ModB, img.Instructions[0].Mod)
}

func TestSingleOperandDefaultsBToDollarZero(t *testing.T) {
	img, err := Parse("JMP $5")
	assert.NoError(t, err)
	assert.Equal(t, redcode.Operand{Mode: redcode.Direct, Value: 0}, img.Instructions[0].B)
}

func TestOrgSetsStartOffsetByLabel(t *testing.T) {
	src := `
        ORG     loop
        DAT.F   #0, #0
loop    MOV.I   $0, $1
`
	img, err := Parse(src)
	assert.NoError(t, err)
	assert.Equal(t, 1, img.StartOffset)
}

func TestEndOverridesOrg(t *testing.T) {
	src := `
        ORG     1
        DAT.F   #0, #0
        MOV.I   $0, $1
        END     0
`
	img, err := Parse(src)
	assert.NoError(t, err)
	assert.Equal(t, 0, img.StartOffset)
}

func TestCommentsAndBlankLinesIgnored(t *testing.T) {
	src := "\n; a comment\n\nDAT.F #0, #0  ; trailing comment\n"
	img, err := Parse(src)
	assert.NoError(t, err)
	assert.Len(t, img.Instructions, 1)
}

func TestCaseInsensitiveMnemonics(t *testing.T) {
	img, err := Parse("mov.i $0, $1")
	assert.NoError(t, err)
	assert.Equal(t, redcode.MOV, img.Instructions[0].Op)
}

func TestSeqIsAliasForCmp(t *testing.T) {
	img, err := Parse("SEQ $0, $1")
	assert.NoError(t, err)
	assert.Equal(t, redcode.CMP, img.Instructions[0].Op)
}

func TestUnknownMnemonicFails(t *testing.T) {
	_, err := Parse("FROB $0, $1")
	assert.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, UnknownMnemonic, perr.Category)
}

func TestUnresolvedLabelFails(t *testing.T) {
	_, err := Parse("JMP nowhere")
	assert.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, UnresolvedLabel, perr.Category)
}

func TestDuplicateLabelFails(t *testing.T) {
	src := `
x   DAT.F #0, #0
x   DAT.F #0, #0
`
	_, err := Parse(src)
	assert.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, DuplicateLabel, perr.Category)
}

func TestLabelPlusOffsetExpression(t *testing.T) {
	src := `
start   DAT.F #0, #0
        DAT.F #0, #0
        JMP   start+1
`
	img, err := Parse(src)
	assert.NoError(t, err)
	assert.Equal(t, 1-2, img.Instructions[2].A.Value)
}

func TestDirectModeIsDefaultForDigitOperand(t *testing.T) {
	img, err := Parse("DAT.F 0, 0")
	assert.NoError(t, err)
	assert.Equal(t, redcode.Direct, img.Instructions[0].A.Mode)
}

// TestRoundTripsCanonicalForm checks the spec.md §8 parser round-trip
// property: parsing an instruction's own String() rendering reproduces an
// equal instruction.
func TestRoundTripsCanonicalForm(t *testing.T) {
	cases := []redcode.Instruction{
		{Op: redcode.MOV, Mod: redcode.ModI, Step: redcode.StepD,
			A: redcode.Operand{Mode: redcode.Direct, Value: 0},
			B: redcode.Operand{Mode: redcode.Direct, Value: 1}},
		{Op: redcode.ADD, Mod: redcode.ModAB, Step: redcode.StepS,
			A: redcode.Operand{Mode: redcode.Immediate, Value: 4},
			B: redcode.Operand{Mode: redcode.Indirect, Value: -3}},
		{Op: redcode.DAT, Mod: redcode.ModF, Step: redcode.StepD,
			A: redcode.Operand{Mode: redcode.Predecrement, Value: 0},
			B: redcode.Operand{Mode: redcode.Postincrement, Value: 0}},
	}
	for _, want := range cases {
		img, err := Parse(want.String())
		assert.NoError(t, err)
		got := img.Instructions[0]
		got.Line, got.Label = 0, ""
		assert.Equal(t, want, got)
	}
}
