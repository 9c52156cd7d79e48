package sccp

import (
	"fmt"

	"midend/internal/cfg"
	"midend/internal/lattice"
	"midend/internal/mir"
)

// EvalError wraps a fatal constant-folding evaluation failure (division
// by zero, incompatible operand types) at a specific instruction, per
// spec.md §7: "Evaluation error ... Fatal per function; the optimizer
// must not silently produce wrong code."
type EvalError struct {
	Inst *mir.Inst
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("sccp: fatal evaluation error at inst %d: %v", e.Inst.UniqueID, e.Err)
}
func (e *EvalError) Unwrap() error { return e.Err }

// Fold rewrites a function's instructions in place using an SCCP fixed
// point: every SSA use that resolved to a constant is replaced by its
// literal, every evaluatable instruction whose operands are now both
// literal is folded to an ASSIGN, and every IF whose condition resolved
// to a constant is rewritten to the unconditional GOTO it degenerates
// to (spec.md §4.8). A division-by-zero or type-mismatch discovered
// while folding a fully-constant expression is fatal and aborts the
// fold immediately, returning an *EvalError: scenario 6 of spec.md §8
// requires the whole-function pipeline to abort rather than emit wrong
// code.
func Fold(g *cfg.Graph, res *Result) ([]string, error) {
	var warnings []string

	propagateConstants(g, res)

	for _, inst := range g.AllInsts() {
		if !inst.Op.IsExpression() || inst.Operand2 == nil {
			continue
		}
		if !inst.Operand1.IsConst() || !inst.Operand2.IsConst() {
			continue
		}
		val, err := Eval(inst.Op, inst.Operand1, inst.Operand2)
		if err != nil {
			return warnings, &EvalError{Inst: inst, Err: err}
		}
		inst.Op = mir.ASSIGN
		inst.Operand1 = val
		inst.Operand2 = nil
	}

	for _, blk := range g.Blocks {
		term := blk.Terminator()
		if term == nil || term.Op != mir.IF || !term.Operand1.IsConst() {
			continue
		}
		if Truthy(term.Operand1) {
			term.Op = mir.GOTO
			term.Operand1 = mir.PtrOperand(term.Operand2.PtrID)
			term.Operand2 = nil
			continue
		}
		falseTarget := blk.OrderedSuccessors[1]
		falseBlk := g.Block(falseTarget)
		var targetID int64
		if all := falseBlk.Insts.All(); len(all) > 0 {
			targetID = all[0].UniqueID
		}
		term.Op = mir.GOTO
		term.Operand1 = mir.PtrOperand(targetID)
		term.Operand2 = nil
	}

	return warnings, nil
}

// propagateConstants replaces every SSA use whose cell resolved to a
// single constant with that literal operand, throughout the function.
func propagateConstants(g *cfg.Graph, res *Result) {
	isConstSSA := func(o *mir.Operand) bool {
		if o == nil || o.Type != mir.SSA_VAR {
			return false
		}
		c, ok := res.Cells[o.SSA.Key()]
		return ok && c.State == lattice.ConstValue
	}
	valueOf := func(o *mir.Operand) *mir.Operand {
		return res.Cells[o.SSA.Key()].Value
	}
	for _, inst := range g.AllInsts() {
		inst.ReplaceUses(isConstSSA, valueOf)
	}
}
