package irparser

import (
	"fmt"

	"midend/internal/diag"
	"midend/internal/mir"
)

// Function is one parsed function body, ready to hand to
// internal/driver.OptimizeFunction.
type Function struct {
	Name   string
	Params []string
	Insts  []*mir.Inst
}

// Program is every function a source file defines.
type Program struct {
	Functions []*Function
}

// patch records a branch instruction whose target label wasn't known
// yet when the instruction was built; resolved once every label in the
// function has been seen.
type patch struct {
	inst  *mir.Inst
	label string
	slot  int // 1 -> Operand1 (GOTO target), 2 -> Operand2 (IF target)
}

func build(p *program) (*Program, error) {
	out := &Program{}
	for _, fn := range p.Functions {
		built, err := buildFunction(fn)
		if err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, built)
	}
	return out, nil
}

func buildFunction(fn *functionDecl) (*Function, error) {
	vars := map[string]*mir.Variable{}
	getVar := func(name string) *mir.Variable {
		if v, ok := vars[name]; ok {
			return v
		}
		v := mir.NewLocal(name)
		vars[name] = v
		return v
	}

	labelTargets := map[string]int64{}
	var insts []*mir.Inst
	var patches []patch
	pendingLabel := ""

	for _, it := range fn.Items {
		if it.Label != nil {
			pendingLabel = it.Label.Name
			continue
		}

		inst, targetLabel, slot, err := buildInst(it.Inst, getVar)
		if err != nil {
			return nil, err
		}
		if pendingLabel != "" {
			inst.Label = pendingLabel
			labelTargets[pendingLabel] = inst.UniqueID
			pendingLabel = ""
		}
		insts = append(insts, inst)
		if targetLabel != "" {
			patches = append(patches, patch{inst: inst, label: targetLabel, slot: slot})
		}
	}

	if pendingLabel != "" {
		return nil, fmt.Errorf("irparser: function %q ends with label %q attached to no instruction", fn.Name, pendingLabel)
	}

	for _, pa := range patches {
		targetID, ok := labelTargets[pa.label]
		if !ok {
			return nil, &ParseError{Diagnostic: diag.Errorf(diag.ErrBadBranchTarget, diag.Position{},
				"branch target %q is not defined in function %q", pa.label, fn.Name)}
		}
		switch pa.slot {
		case 1:
			pa.inst.Operand1 = mir.PtrOperand(targetID)
		case 2:
			pa.inst.Operand2 = mir.PtrOperand(targetID)
		}
	}

	return &Function{Name: fn.Name, Params: fn.Params, Insts: insts}, nil
}

// buildInst constructs one instruction. targetLabel/slot are non-empty
// only for GOTO/IF, whose branch target operand is filled in later by
// the patch pass above once every label in the function is known.
func buildInst(il *instLine, getVar func(string) *mir.Variable) (inst *mir.Inst, targetLabel string, slot int, err error) {
	switch {
	case il.Entry:
		return mir.New(mir.ENTRY, nil, nil, nil), "", 0, nil
	case il.Exit:
		return mir.New(mir.EXIT, nil, nil, nil), "", 0, nil
	case il.Init != nil:
		return mir.New(mir.INIT, valueOperand(il.Init, getVar), nil, nil), "", 0, nil
	case il.Print != nil:
		return mir.New(mir.PRINT, valueOperand(il.Print, getVar), nil, nil), "", 0, nil
	case il.If != nil:
		inst := mir.New(mir.IF, valueOperand(il.If.Cond, getVar), nil, nil)
		return inst, il.If.Target, 2, nil
	case il.Goto != nil:
		inst := mir.New(mir.GOTO, nil, nil, nil)
		return inst, il.Goto.Target, 1, nil
	case il.Call != nil:
		args := make([]*mir.Operand, len(il.Call.Args))
		for i, a := range il.Call.Args {
			args[i] = valueOperand(a, getVar)
		}
		return mir.New(mir.CALL, mir.FuncOperand(il.Call.Func), mir.ArgsOperand(args), nil), "", 0, nil
	case il.Assign != nil:
		result := mir.VarOperand(getVar(il.Assign.Result))
		switch {
		case il.Assign.Call != nil:
			args := make([]*mir.Operand, len(il.Assign.Call.Args))
			for i, a := range il.Assign.Call.Args {
				args[i] = valueOperand(a, getVar)
			}
			return mir.New(mir.CALL_ASSIGN, mir.FuncOperand(il.Assign.Call.Func), mir.ArgsOperand(args), result), "", 0, nil
		case il.Assign.Binary.Rest != nil:
			op := mir.Operator(il.Assign.Binary.Rest.Op)
			left := valueOperand(il.Assign.Binary.Left, getVar)
			right := valueOperand(il.Assign.Binary.Rest.Right, getVar)
			return mir.New(op, left, right, result), "", 0, nil
		default:
			left := valueOperand(il.Assign.Binary.Left, getVar)
			return mir.New(mir.ASSIGN, left, nil, result), "", 0, nil
		}
	}
	return nil, "", 0, fmt.Errorf("irparser: instruction line matched no known form")
}

func valueOperand(v *value, getVar func(string) *mir.Variable) *mir.Operand {
	switch {
	case v.Float != nil:
		return mir.FloatOperand(*v.Float)
	case v.Int != nil:
		return mir.IntOperand(*v.Int)
	case v.Bool != nil:
		return mir.BoolOperand(*v.Bool == "%true")
	case v.Ident != nil:
		return mir.VarOperand(getVar(*v.Ident))
	}
	return mir.VoidOperand()
}
