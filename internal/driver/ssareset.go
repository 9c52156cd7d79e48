package driver

import (
	"midend/internal/cfg"
	"midend/internal/mir"
)

// resetToVarForm strips any prior SSA renaming back to plain VAR
// operands and discards existing phi instructions, so InsertPhis/Rename
// can derive a fresh, correct SSA form after a structural edit (SCCP
// folding or LCM's insertions can add, remove or merge blocks, which
// invalidates previously placed phis and their argument-slot indexing).
func resetToVarForm(g *cfg.Graph) {
	isSSA := func(o *mir.Operand) bool { return o != nil && o.Type == mir.SSA_VAR }
	toVar := func(o *mir.Operand) *mir.Operand { return mir.VarOperand(o.SSA.Original) }

	for _, blk := range g.Blocks {
		// A rebuilt CFG can leave an old phi after a non-phi instruction
		// (its block's branch targets name the first non-phi), so phis
		// are dropped wherever they sit, not only from the leading prefix.
		var ordinary []*mir.Inst
		for _, inst := range blk.Insts.Ordinary() {
			if inst.IsPhi() {
				continue
			}
			if inst.Result != nil && inst.Result.Type == mir.SSA_VAR {
				inst.Result = mir.VarOperand(inst.Result.SSA.Original)
			}
			inst.ReplaceUses(isSSA, toVar)
			ordinary = append(ordinary, inst)
		}
		blk.Insts.Set(ordinary)
	}
}
