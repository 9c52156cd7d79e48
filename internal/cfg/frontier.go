package cfg

import "sort"

// ComputeDominanceFrontier fills in g.DF using the dominator-tree
// post-order algorithm of spec.md §4.2. Must run after ComputeDominators.
func ComputeDominanceFrontier(g *Graph) {
	g.DF = map[int][]int{}
	for _, id := range g.RankOrder {
		g.DF[id] = nil
	}
	visited := map[int]bool{}
	var visit func(i int)
	visit = func(i int) {
		if visited[i] {
			return
		}
		visited[i] = true
		set := map[int]bool{}

		for _, y := range g.Succs[i] {
			if g.Idom[y] != i {
				set[y] = true
			}
		}
		for _, c := range g.ByID[i].DominatorChildren {
			visit(c)
			for _, y := range g.DF[c] {
				if g.Idom[y] != i {
					set[y] = true
				}
			}
		}

		var ordered []int
		for y := range set {
			ordered = append(ordered, y)
		}
		sort.Ints(ordered)
		g.DF[i] = ordered
	}
	visit(g.EntryID)
}
