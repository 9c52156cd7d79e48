package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatIncludesCodeAndMessage(t *testing.T) {
	r := NewReporter("test.mir", "@function main\n\tPRINT x\n@end function\n")
	d := Errorf(ErrBadBranchTarget, Position{Line: 2, Column: 8}, "branch target %q is not defined", "Lbad")

	out := r.Format(d)
	assert.Contains(t, out, ErrBadBranchTarget)
	assert.Contains(t, out, `branch target "Lbad" is not defined`)
	assert.Contains(t, out, "test.mir:2:8")
}

func TestFormatUnderlinesOffendingLine(t *testing.T) {
	r := NewReporter("test.mir", "\tASSIGN 1, a\n")
	d := Errorf(ErrTypeMismatch, Position{Line: 1, Column: 9}, "mismatched operand types")
	d.Length = 3

	out := r.Format(d)
	assert.Contains(t, out, "ASSIGN 1, a")
	assert.Contains(t, out, "^^^")
}

func TestWarnUsesWarningLevel(t *testing.T) {
	d := Warnf(WarnNonConvergence, Position{Line: 1, Column: 1}, "dataflow did not converge within the iteration ceiling")
	assert.Equal(t, LevelWarning, d.Level)
	assert.Equal(t, WarnNonConvergence, d.Code)
}

func TestFormatOutOfRangeLineOmitsSourceSnippet(t *testing.T) {
	r := NewReporter("test.mir", "only one line\n")
	d := Errorf(ErrIRParse, Position{Line: 99, Column: 1}, "unexpected end of input")

	out := r.Format(d)
	assert.Contains(t, out, ErrIRParse)
	assert.NotContains(t, out, "only one line")
}
