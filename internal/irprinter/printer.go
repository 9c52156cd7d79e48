// Package irprinter renders optimized instruction streams back into the
// textual three-address form spec.md §6 describes: a tab-indented,
// address-prefixed instruction per line, bracketed by an
// `@function ... @end function` header and footer.
package irprinter

import (
	"fmt"
	"strings"

	"midend/internal/mir"
)

// Function is the minimal shape irprinter needs: a name, its parameter
// names, and its final (already address-renumbered) instruction list.
type Function struct {
	Name   string
	Params []string
	Insts  []*mir.Inst
}

// PrintFunction renders one function. Branch instructions always print
// their target as `&ptrN` (mir.Inst.String already does this for IF and
// GOTO), so the label definition line emitted here uses the same
// `ptrN:` spelling rather than any source-level label name the
// instruction may still carry — after a CFG-changing pass (SCCP
// folding, LCM insertion) original label names no longer correspond to
// anything reparseable, so the pointer id is the only name guaranteed
// to still resolve.
func PrintFunction(fn Function) string {
	targets := branchTargets(fn.Insts)

	var b strings.Builder
	fmt.Fprintf(&b, "@function %s ( %s )\n", fn.Name, strings.Join(fn.Params, " "))
	for _, inst := range fn.Insts {
		if targets[inst.UniqueID] {
			fmt.Fprintf(&b, "ptr%d:\n", inst.UniqueID)
		}
		fmt.Fprintf(&b, "\t%s\n", inst.String())
	}
	b.WriteString("@end function\n")
	return b.String()
}

// PrintProgram renders every function, separated by a blank line.
func PrintProgram(functions []Function) string {
	var parts []string
	for _, fn := range functions {
		parts = append(parts, PrintFunction(fn))
	}
	return strings.Join(parts, "\n")
}

func branchTargets(insts []*mir.Inst) map[int64]bool {
	targets := map[int64]bool{}
	for _, inst := range insts {
		switch inst.Op {
		case mir.GOTO:
			if inst.Operand1 != nil {
				targets[inst.Operand1.PtrID] = true
			}
		case mir.IF:
			if inst.Operand2 != nil {
				targets[inst.Operand2.PtrID] = true
			}
		}
	}
	return targets
}
