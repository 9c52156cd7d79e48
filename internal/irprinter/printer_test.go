package irprinter

import (
	"strconv"
	"strings"
	"testing"

	"midend/internal/driver"
	"midend/internal/irparser"
	"midend/internal/mir"
)

const src = `
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

func TestPrintFunctionEmitsHeaderAndFooter(t *testing.T) {
	mir.ResetIDs()
	prog, err := irparser.ParseString("t.mir", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	fn := prog.Functions[0]

	res, err := driver.OptimizeFunction(fn.Insts, driver.Options{SCCP: true, SSAPeriod: driver.SSAAlways})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	out := PrintFunction(Function{Name: fn.Name, Params: fn.Params, Insts: res.Graph.AllInsts()})
	if !strings.HasPrefix(out, "@function main (  )\n") {
		t.Fatalf("missing function header, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "@end function\n") {
		t.Fatalf("missing function footer, got:\n%s", out)
	}
}

func TestPrintFunctionLabelsEveryBranchTarget(t *testing.T) {
	mir.ResetIDs()
	prog, err := irparser.ParseString("t.mir", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	fn := prog.Functions[0]

	res, err := driver.OptimizeFunction(fn.Insts, driver.Options{SSAPeriod: driver.SSAAlways})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	out := PrintFunction(Function{Name: fn.Name, Params: fn.Params, Insts: res.Graph.AllInsts()})
	for _, inst := range res.Graph.AllInsts() {
		if inst.Op == mir.GOTO {
			want := "ptr" + strconv.FormatInt(inst.Operand1.PtrID, 10) + ":"
			if !strings.Contains(out, want) {
				t.Fatalf("expected label %q in output:\n%s", want, out)
			}
		}
	}
}
