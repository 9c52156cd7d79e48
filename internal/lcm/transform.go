package lcm

import (
	"fmt"
	"sort"

	"midend/internal/cfg"
	"midend/internal/mir"
)

// Transform applies the two-phase LCM rewrite over g using an already
// computed Passes fixed point: insert a single recomputation of each
// expression at every Latest placement site, then replace every
// original computation covered by UsedIn with a read of the hoisted
// temporary (spec.md §4.9). Each expression gets one compiler-generated
// variable shared across all of its insertion sites; since the IR is
// already in SSA form, each insertion site still gets its own fresh
// SSA version of that variable.
func Transform(g *cfg.Graph, u *Universe, p *Passes) {
	tempVarByKey := map[string]*mir.Variable{}
	insertedSSA := map[string]map[int]*mir.SSAVariable{}
	inserted := map[int64]bool{}
	nextTempID := 0

	insertionSites := map[string][]int{}
	for _, b := range u.BlockIDs {
		for _, key := range p.Latest[b].Keys() {
			insertionSites[key] = append(insertionSites[key], b)
		}
	}

	for key, blocks := range insertionSites {
		sort.Ints(blocks)
		expr := u.ByKey[key]
		tv, ok := tempVarByKey[key]
		if !ok {
			tv = &mir.Variable{Name: fmt.Sprintf("%%lcm%d", nextTempID), Scope: mir.Local, CompilerGenerated: true}
			nextTempID++
			tempVarByKey[key] = tv
		}
		siteMap := map[int]*mir.SSAVariable{}
		for version, b := range blocks {
			ssaVar := &mir.SSAVariable{Original: tv, Version: version}
			inst := mir.New(expr.Op, expr.Operand1, expr.Operand2, mir.SSAOperand(ssaVar))
			g.Block(b).Insts.PrependOrdinary(inst)
			inserted[inst.UniqueID] = true
			siteMap[b] = ssaVar
		}
		insertedSSA[key] = siteMap
	}

	for _, blk := range g.Blocks {
		for _, inst := range blk.Insts.Ordinary() {
			if inserted[inst.UniqueID] {
				continue
			}
			expr, ok := mir.NewExpression(inst)
			if !ok {
				continue
			}
			sites, hasInsertions := insertedSSA[expr.Key()]
			if !hasInsertions || !p.UsedIn[blk.ID].Contains(expr.Key()) {
				continue
			}
			temp := dominatingInsertion(g, sites, blk.ID)
			if temp == nil {
				continue
			}
			inst.Op = mir.ASSIGN
			inst.Operand1 = mir.SSAOperand(temp)
			inst.Operand2 = nil
		}
	}
}

// dominatingInsertion returns the SSA temp from whichever insertion
// site dominates blockID, preferring the one closest to blockID when
// more than one does (they are always totally ordered by dominance).
func dominatingInsertion(g *cfg.Graph, sites map[int]*mir.SSAVariable, blockID int) *mir.SSAVariable {
	var best *mir.SSAVariable
	bestBlock := -1
	for b, ssaVar := range sites {
		if !g.Dominates(b, blockID) {
			continue
		}
		if best == nil || g.Dominates(bestBlock, b) {
			best = ssaVar
			bestBlock = b
		}
	}
	return best
}
