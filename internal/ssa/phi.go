// Package ssa builds minimal SSA form over a CFG: phi placement at the
// iterated dominance frontier of each variable's definition sites,
// dominator-tree renaming, and SSA def-use edge construction
// (spec.md §4.3, §4.4).
package ssa

import (
	"sort"

	"midend/internal/cfg"
	"midend/internal/mir"
)

// PhiMeta remembers, for every inserted phi instruction, which
// original variable it merges — needed during renaming, since the
// phi's own Result operand is rewritten to a fresh SSA name before its
// argument slots are filled in by predecessors.
type PhiMeta struct {
	Var    *mir.Variable
	BlockID int
}

// Builder owns the bookkeeping shared by phi insertion and renaming.
type Builder struct {
	G        *cfg.Graph
	PhiOwner map[int64]*PhiMeta // instruction UniqueID -> owning variable/block
}

// InsertPhis places phi instructions at the iterated dominance
// frontier of each variable's definition blocks (spec.md §4.3).
func InsertPhis(g *cfg.Graph) *Builder {
	b := &Builder{G: g, PhiOwner: map[int64]*PhiMeta{}}

	defBlocks := map[string]map[int]bool{}
	varByName := map[string]*mir.Variable{}
	for _, blk := range g.Blocks {
		for _, inst := range blk.Insts.Ordinary() {
			def := inst.DefinedOperand()
			if def == nil || def.Type != mir.VAR {
				continue
			}
			name := def.Var.Name
			varByName[name] = def.Var
			if defBlocks[name] == nil {
				defBlocks[name] = map[int]bool{}
			}
			defBlocks[name][blk.ID] = true
		}
	}

	var names []string
	for n := range defBlocks {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		v := varByName[name]
		hasPhi := map[int]bool{}
		var worklist []int
		inWorklist := map[int]bool{}
		for blkID := range defBlocks[name] {
			worklist = append(worklist, blkID)
			inWorklist[blkID] = true
		}
		sort.Ints(worklist)

		for len(worklist) > 0 {
			cur := worklist[0]
			worklist = worklist[1:]
			for _, y := range g.DF[cur] {
				if hasPhi[y] {
					continue
				}
				hasPhi[y] = true
				phi := newPhi(g, y, v)
				b.PhiOwner[phi.UniqueID] = &PhiMeta{Var: v, BlockID: y}
				if !inWorklist[y] {
					inWorklist[y] = true
					worklist = append(worklist, y)
				}
			}
		}
	}
	return b
}

func newPhi(g *cfg.Graph, blockID int, v *mir.Variable) *mir.Inst {
	blk := g.ByID[blockID]
	nPreds := len(g.Preds[blockID])
	args := make([]*mir.Operand, nPreds)
	for i := range args {
		args[i] = mir.VarOperand(v)
	}
	phi := &mir.Inst{
		UniqueID: mir.NextID(),
		Op:       mir.PHI,
		Result:   mir.VarOperand(v),
		PhiArgs:  args,
	}
	blk.Insts.InsertPhi(phi)
	g.ByInstID[phi.UniqueID] = blockID
	return phi
}
