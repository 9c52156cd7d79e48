package cfg

import "midend/internal/mir"

// SplitCriticalEdges returns a flat instruction list for the function g
// was built from with every critical edge — a branch with more than one
// successor landing on a block with more than one predecessor — broken
// by a single-instruction GOTO trampoline block. spec.md §4.9's
// correctness invariant (c) forbids placing an LCM temporary on an
// edge; §9 notes the original's own critical-edge splitter
// (`CriticalEdgeSpliter`) was left half-implemented and tells
// implementations to either finish the job or document LCM as unsafe
// on such CFGs. This finishes the job: called once before LCM, it
// guarantees every block LCM might insert into has a single
// predecessor or the inserted expression is only ever latest in a
// block that already dominates every use along that edge.
//
// Only conditional branches can be critical sources: a GOTO or
// fall-through terminator always has exactly one successor, so its
// single outgoing edge can never be critical regardless of the
// destination's predecessor count.
//
// If g has no critical edges, the instructions are returned unchanged.
func SplitCriticalEdges(g *Graph, insts []*mir.Inst) []*mir.Inst {
	indexOf := map[int64]int{}
	for i, inst := range insts {
		indexOf[inst.UniqueID] = i
	}

	exitAnchor := len(insts)
	for i, inst := range insts {
		if inst.Op == mir.EXIT {
			exitAnchor = i
			break
		}
	}

	byIndex := map[int][]*mir.Inst{}
	any := false

	for _, blk := range g.Blocks {
		if blk.BranchType != BranchCond {
			continue
		}
		term := blk.Terminator()
		trueTgt := blk.OrderedSuccessors[0]
		falseTgt := blk.OrderedSuccessors[1]

		if len(g.Preds[trueTgt]) > 1 {
			trampoline := &mir.Inst{UniqueID: mir.NextID(), Op: mir.GOTO, Operand1: mir.PtrOperand(term.Operand2.PtrID)}
			term.Operand2 = mir.PtrOperand(trampoline.UniqueID)
			byIndex[exitAnchor] = append(byIndex[exitAnchor], trampoline)
			any = true
		}
		if len(g.Preds[falseTgt]) > 1 {
			targetFirst := g.Block(falseTgt).Insts.All()[0]
			trampoline := &mir.Inst{UniqueID: mir.NextID(), Op: mir.GOTO, Operand1: mir.PtrOperand(targetFirst.UniqueID)}
			at := indexOf[targetFirst.UniqueID]
			byIndex[at] = append(byIndex[at], trampoline)
			any = true
		}
	}

	if !any {
		return insts
	}

	var out []*mir.Inst
	for i, inst := range insts {
		out = append(out, byIndex[i]...)
		out = append(out, inst)
	}
	if extra, ok := byIndex[len(insts)]; ok {
		out = append(out, extra...)
	}
	return out
}
