package ssa

import (
	"sort"

	"midend/internal/mir"
)

type renamer struct {
	b        *Builder
	stacks   map[string][]*mir.SSAVariable
	counters map[string]int
}

// Rename performs the dominator-tree renaming walk of spec.md §4.3,
// rewriting every VAR operand to a versioned SSA_VAR and filling in
// phi argument slots as each predecessor block is processed.
func Rename(b *Builder) {
	r := &renamer{b: b, stacks: map[string][]*mir.SSAVariable{}, counters: map[string]int{}}

	// Reserve version 0 of every used variable for the implicit
	// definition top() hands out when no definition is on the stack
	// (function parameters, globals), so real definitions start at 1.
	seen := map[string]bool{}
	for _, blk := range b.G.Blocks {
		for _, inst := range blk.Insts.All() {
			for _, u := range inst.UsedOperands() {
				if u.Type == mir.VAR && !seen[u.Var.Name] {
					seen[u.Var.Name] = true
				}
			}
		}
	}
	var names []string
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		r.counters[n] = 1
	}

	r.walk(b.G.EntryID, names)
}

func (r *renamer) push(v *mir.Variable) *mir.SSAVariable {
	version := r.counters[v.Name]
	r.counters[v.Name] = version + 1
	ssa := &mir.SSAVariable{Original: v, Version: version}
	r.stacks[v.Name] = append(r.stacks[v.Name], ssa)
	return ssa
}

func (r *renamer) top(name string) *mir.SSAVariable {
	stack := r.stacks[name]
	if len(stack) == 0 {
		// Used before any definition on this path: treat as an
		// implicit version-0 definition (parameter/global).
		return &mir.SSAVariable{Original: &mir.Variable{Name: name, Scope: mir.Local}, Version: 0}
	}
	return stack[len(stack)-1]
}

func (r *renamer) walk(blockID int, allVarNames []string) {
	g := r.b.G
	blk := g.ByID[blockID]
	pushCount := map[string]int{}

	for _, phi := range blk.Insts.Phis() {
		meta := r.b.PhiOwner[phi.UniqueID]
		ssa := r.push(meta.Var)
		pushCount[meta.Var.Name]++
		phi.Result = mir.SSAOperand(ssa)
	}

	for _, inst := range blk.Insts.Ordinary() {
		rewriteUse := func(o *mir.Operand) *mir.Operand {
			if o.Type != mir.VAR {
				return o
			}
			return mir.SSAOperand(r.top(o.Var.Name))
		}
		inst.ReplaceUses(func(o *mir.Operand) bool { return o.Type == mir.VAR }, rewriteUse)

		if def := inst.DefinedOperand(); def != nil && def.Type == mir.VAR {
			ssa := r.push(def.Var)
			pushCount[def.Var.Name]++
			inst.Result = mir.SSAOperand(ssa)
		}
	}

	for _, succ := range g.Succs[blockID] {
		predIdx := -1
		for idx, p := range g.Preds[succ] {
			if p == blockID {
				predIdx = idx
				break
			}
		}
		if predIdx == -1 {
			continue
		}
		for _, phi := range g.ByID[succ].Insts.Phis() {
			meta := r.b.PhiOwner[phi.UniqueID]
			phi.PhiArgs[predIdx] = mir.SSAOperand(r.top(meta.Var.Name))
		}
	}

	for _, child := range blk.DominatorChildren {
		r.walk(child, allVarNames)
	}

	for name, n := range pushCount {
		stack := r.stacks[name]
		r.stacks[name] = stack[:len(stack)-n]
	}
}
