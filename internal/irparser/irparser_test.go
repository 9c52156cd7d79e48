package irparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midend/internal/mir"
)

const diamondSrc = `
# a trivial diamond
@function main ( )
	%entry
	cond := 1 < 2
	%if cond %goto &trueB
	%goto &falseB
falseB:
	a := 2
	%goto &join
trueB:
	a := 1
join:
	%print a
	%exit
@end function
`

func TestParseStringBuildsDiamond(t *testing.T) {
	prog, err := ParseString("test.mir", diamondSrc)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)

	fn := prog.Functions[0]
	assert.Equal(t, "main", fn.Name)

	var sawIf, sawGoto, sawPrint bool
	for _, inst := range fn.Insts {
		switch inst.Op {
		case mir.IF:
			sawIf = true
			assert.NotNil(t, inst.Operand2)
		case mir.GOTO:
			sawGoto = true
			assert.NotNil(t, inst.Operand1)
		case mir.PRINT:
			sawPrint = true
		}
	}
	assert.True(t, sawIf)
	assert.True(t, sawGoto)
	assert.True(t, sawPrint)
}

func TestParseStringResolvesLabelsToInstructionIDs(t *testing.T) {
	prog, err := ParseString("test.mir", diamondSrc)
	require.NoError(t, err)
	fn := prog.Functions[0]

	var gotoInst, trueBFirst *mir.Inst
	for _, inst := range fn.Insts {
		if inst.Op == mir.GOTO && gotoInst == nil {
			gotoInst = inst
		}
		if inst.Label == "trueB" {
			trueBFirst = inst
		}
	}
	require.NotNil(t, gotoInst)
	require.NotNil(t, trueBFirst)
	assert.Equal(t, trueBFirst.UniqueID, gotoInst.Operand1.PtrID)
}

func TestParseStringAssignCall(t *testing.T) {
	src := `
@function f ( x )
	%entry
	y := g ( x )
	%print y
	%exit
@end function
`
	prog, err := ParseString("test.mir", src)
	require.NoError(t, err)
	fn := prog.Functions[0]

	var sawCallAssign bool
	for _, inst := range fn.Insts {
		if inst.Op == mir.CALL_ASSIGN {
			sawCallAssign = true
			assert.Equal(t, "g", inst.Operand1.Func)
			assert.Len(t, inst.Operand2.Args, 1)
		}
	}
	assert.True(t, sawCallAssign)
}

func TestParseStringUnknownLabelFails(t *testing.T) {
	src := `
@function f ( )
	%entry
	%goto &nowhere
	%exit
@end function
`
	_, err := ParseString("test.mir", src)
	require.Error(t, err)
}

func TestParseStringRejectsMalformedInstruction(t *testing.T) {
	src := `
@function f ( )
	%entry
	x := := 1
	%exit
@end function
`
	_, err := ParseString("test.mir", src)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}
