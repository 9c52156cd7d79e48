package cfg

import "sort"

// ComputeDominators runs the classical iterative dominator algorithm
// (spec.md §4.2), then derives immediate dominators with a
// deterministic (smallest-block-id) tie-break instead of the random
// choice spec.md §9 flags as a bug in the source material.
func ComputeDominators(g *Graph) {
	all := map[int]bool{}
	for _, id := range g.RankOrder {
		all[id] = true
	}

	g.Dom = map[int]map[int]bool{}
	g.Dom[g.EntryID] = map[int]bool{g.EntryID: true}
	for _, id := range g.RankOrder {
		if id == g.EntryID {
			continue
		}
		full := map[int]bool{}
		for b := range all {
			full[b] = true
		}
		g.Dom[id] = full
	}

	changed := true
	for changed {
		changed = false
		for _, b := range g.RankOrder {
			if b == g.EntryID {
				continue
			}
			var newDom map[int]bool
			for _, p := range g.Preds[b] {
				if !all[p] {
					continue
				}
				if newDom == nil {
					newDom = map[int]bool{}
					for k := range g.Dom[p] {
						newDom[k] = true
					}
					continue
				}
				for k := range newDom {
					if !g.Dom[p][k] {
						delete(newDom, k)
					}
				}
			}
			if newDom == nil {
				newDom = map[int]bool{}
			}
			newDom[b] = true
			if !sameSet(newDom, g.Dom[b]) {
				g.Dom[b] = newDom
				changed = true
			}
		}
	}

	g.Idom = map[int]int{}
	for _, b := range g.RankOrder {
		if b == g.EntryID {
			continue
		}
		var tmp []int
		for d := range g.Dom[b] {
			if d != b {
				tmp = append(tmp, d)
			}
		}
		toRemove := map[int]bool{}
		for _, s := range tmp {
			for _, t := range tmp {
				if s == t {
					continue
				}
				if g.Dom[s][t] {
					toRemove[t] = true
				}
			}
		}
		var refined []int
		for _, t := range tmp {
			if !toRemove[t] {
				refined = append(refined, t)
			}
		}
		sort.Ints(refined)
		if len(refined) > 0 {
			g.Idom[b] = refined[0]
		}
	}

	for _, block := range g.Blocks {
		block.IdomID = -1
		block.DominatorChildren = nil
	}
	for child, parent := range g.Idom {
		g.ByID[child].IdomID = parent
		g.ByID[parent].DominatorChildren = append(g.ByID[parent].DominatorChildren, child)
	}
	for _, block := range g.Blocks {
		sort.Ints(block.DominatorChildren)
	}
}

func sameSet(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// Dominates reports whether block a dominates block b (a == b counts).
func (g *Graph) Dominates(a, b int) bool {
	return g.Dom[b][a]
}
