// Package sccp implements Sparse Conditional Constant Propagation
// (spec.md §4.7) over a function's SSA form, plus the constant-folding
// rewrite pass that consumes its fixed point (spec.md §4.8).
package sccp

import (
	"midend/internal/cfg"
	"midend/internal/lattice"
	"midend/internal/mir"
	"midend/internal/ssa"
)

// Result is the fixed point SCCP reaches: the per-SSA-name constant
// lattice cells plus which blocks and edges turned out executable.
type Result struct {
	Cells            map[string]lattice.ConstCell
	ExecutableBlocks map[int]bool
	ExecutableEdges  map[cfg.Edge]bool
	Warnings         []string
}

type analyzer struct {
	g       *cfg.Graph
	sg      *ssa.Graph
	lat     lattice.ConstLattice
	cells   map[string]lattice.ConstCell
	execB   map[int]bool
	execE   map[cfg.Edge]bool
	instByID map[int64]*mir.Inst
	flowWL   []cfg.Edge
	ssaWL    []*mir.Inst
	warnings []string
}

// Analyze runs SCCP to a fixed point over g, using the SSA def-use
// edges already built by internal/ssa.
func Analyze(g *cfg.Graph, sg *ssa.Graph) *Result {
	a := &analyzer{
		g:        g,
		sg:       sg,
		cells:    map[string]lattice.ConstCell{},
		execB:    map[int]bool{},
		execE:    map[cfg.Edge]bool{},
		instByID: map[int64]*mir.Inst{},
	}
	for key := range sg.DefMap {
		a.cells[key] = a.lat.Top()
	}
	for _, inst := range g.AllInsts() {
		a.instByID[inst.UniqueID] = inst
	}

	a.flowWL = append(a.flowWL, cfg.Edge{From: -1, To: g.EntryID})

	for len(a.flowWL) > 0 || len(a.ssaWL) > 0 {
		if len(a.flowWL) > 0 {
			e := a.flowWL[0]
			a.flowWL = a.flowWL[1:]
			a.processFlowEdge(e)
			continue
		}
		inst := a.ssaWL[0]
		a.ssaWL = a.ssaWL[1:]
		a.processInstAgain(inst)
	}

	return &Result{
		Cells:            a.cells,
		ExecutableBlocks: a.execB,
		ExecutableEdges:  a.execE,
		Warnings:         a.warnings,
	}
}

func (a *analyzer) processFlowEdge(e cfg.Edge) {
	if a.execE[e] {
		return
	}
	a.execE[e] = true
	firstTime := !a.execB[e.To]
	a.execB[e.To] = true

	blk := a.g.Block(e.To)
	if blk == nil {
		return
	}
	for _, phi := range blk.Insts.Phis() {
		a.evalPhi(phi, e.To)
	}
	if firstTime {
		for _, inst := range blk.Insts.Ordinary() {
			a.evalInst(inst, e.To)
		}
		// A block that ends without IF/GOTO falls through to its single
		// successor, whose edge becomes executable with the block.
		if term := blk.Terminator(); term == nil || (term.Op != mir.IF && term.Op != mir.GOTO) {
			for _, s := range blk.OrderedSuccessors {
				a.flowWL = append(a.flowWL, cfg.Edge{From: e.To, To: s})
			}
		}
	}
}

func (a *analyzer) processInstAgain(inst *mir.Inst) {
	blockID, ok := a.g.BlockOf(inst.UniqueID)
	if !ok || !a.execB[blockID] {
		return
	}
	if inst.IsPhi() {
		a.evalPhi(inst, blockID)
	} else {
		a.evalInst(inst, blockID)
	}
}

func (a *analyzer) cellOf(o *mir.Operand) lattice.ConstCell {
	switch {
	case o == nil:
		return a.lat.Top()
	case o.IsConst():
		return lattice.ValueCell(o)
	case o.Type == mir.SSA_VAR:
		if c, ok := a.cells[o.SSA.Key()]; ok {
			return c
		}
		// used but never defined in this function: a parameter or
		// global, treated conservatively as unknown.
		return a.lat.Bottom()
	default:
		return a.lat.Bottom()
	}
}

func (a *analyzer) evalPhi(phi *mir.Inst, blockID int) {
	preds := a.g.Preds[blockID]
	merged := a.lat.Top()
	first := true
	for i, arg := range phi.PhiArgs {
		if i >= len(preds) {
			continue
		}
		edge := cfg.Edge{From: preds[i], To: blockID}
		if !a.execE[edge] {
			continue
		}
		c := a.cellOf(arg)
		if first {
			merged = c
			first = false
			continue
		}
		merged = a.lat.Meet(merged, c)
	}
	a.updateCell(phi, merged)
}

func (a *analyzer) evalInst(inst *mir.Inst, blockID int) {
	switch inst.Op {
	case mir.IF:
		cond := a.cellOf(inst.Operand1)
		blk := a.g.Block(blockID)
		switch cond.State {
		case lattice.ConstValue:
			if Truthy(cond.Value) {
				a.flowWL = append(a.flowWL, cfg.Edge{From: blockID, To: blk.OrderedSuccessors[0]})
			} else {
				a.flowWL = append(a.flowWL, cfg.Edge{From: blockID, To: blk.OrderedSuccessors[1]})
			}
		case lattice.ConstBottom:
			a.flowWL = append(a.flowWL, cfg.Edge{From: blockID, To: blk.OrderedSuccessors[0]})
			a.flowWL = append(a.flowWL, cfg.Edge{From: blockID, To: blk.OrderedSuccessors[1]})
		}
		return
	case mir.GOTO:
		blk := a.g.Block(blockID)
		if len(blk.OrderedSuccessors) > 0 {
			a.flowWL = append(a.flowWL, cfg.Edge{From: blockID, To: blk.OrderedSuccessors[0]})
		}
		return
	}
	if !inst.IsAssignment() {
		return
	}

	var newCell lattice.ConstCell
	switch inst.Op {
	case mir.ASSIGN:
		newCell = a.cellOf(inst.Operand1)
	case mir.CALL_ASSIGN:
		// calls are opaque: spec.md's non-goals exclude interprocedural
		// analysis, so a call's result is never a tracked constant.
		newCell = a.lat.Bottom()
	default:
		av, bv := a.cellOf(inst.Operand1), a.cellOf(inst.Operand2)
		switch {
		case av.State == lattice.ConstBottom || bv.State == lattice.ConstBottom:
			newCell = a.lat.Bottom()
		case av.State == lattice.ConstTop || bv.State == lattice.ConstTop:
			newCell = a.lat.Top()
		default:
			val, err := Eval(inst.Op, av.Value, bv.Value)
			if err != nil {
				newCell = a.lat.Bottom()
				a.warnings = append(a.warnings, err.Error())
			} else {
				newCell = lattice.ValueCell(val)
			}
		}
	}
	a.updateCell(inst, newCell)
}

func (a *analyzer) updateCell(inst *mir.Inst, newCell lattice.ConstCell) {
	if inst.Result == nil || inst.Result.Type != mir.SSA_VAR {
		return
	}
	key := inst.Result.SSA.Key()
	old, ok := a.cells[key]
	if ok && cellsEqual(old, newCell) {
		return
	}
	a.cells[key] = newCell
	for _, succID := range a.sg.Succ[inst.UniqueID] {
		if use, ok := a.instByID[succID]; ok {
			a.ssaWL = append(a.ssaWL, use)
		}
	}
}

func cellsEqual(a, b lattice.ConstCell) bool {
	if a.State != b.State {
		return false
	}
	if a.State == lattice.ConstValue {
		return a.Value.LiteralEqual(b.Value)
	}
	return true
}
