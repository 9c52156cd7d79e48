package lcm

import (
	"midend/internal/cfg"
	"midend/internal/dataflow"
	"midend/internal/lattice"
)

// unionLattice reuses ExprSetLattice's Top/Bottom/Leq but meets by
// union instead of intersection, for the "used expressions" may-pass.
type unionLattice struct {
	lattice.ExprSetLattice
}

func (unionLattice) Meet(a, b lattice.ExprSet) lattice.ExprSet { return a.Union(b) }

// Passes holds the fixed point of all four LCM dataflow passes plus
// the derived Earliest/Latest placement sets (spec.md §4.9).
type Passes struct {
	AntIn, AntOut     map[int]lattice.ExprSet
	AvailIn, AvailOut map[int]lattice.ExprSet
	Earliest          map[int]lattice.ExprSet
	PPIn, PPOut       map[int]lattice.ExprSet
	Latest            map[int]lattice.ExprSet
	UsedIn, UsedOut   map[int]lattice.ExprSet
}

// Run chains the four passes over g using the gen/kill sets in u.
func Run(g *cfg.Graph, u *Universe) *Passes {
	lat := lattice.ExprSetLattice{Universe: u.Keys}
	p := &Passes{}

	// 1. Anticipated expressions: backward, must (intersect).
	antRes := dataflow.Run(dataflow.Framework[lattice.ExprSet]{
		Direction: dataflow.Backward,
		Lattice:   lat,
		Blocks:    u.BlockIDs,
		Preds:     g.Preds,
		Succs:     g.Succs,
		Source:    g.ExitID,
		Init:      lat.Bottom(),
		Safe:      lat.Top(),
		Transfer: func(b int, out lattice.ExprSet) lattice.ExprSet {
			return u.DEExpr[b].Union(out.Diff(u.Kill[b]))
		},
	})
	p.AntIn, p.AntOut = antRes.In, antRes.Out

	// 2. Available expressions: forward, must (intersect) — the
	// classical available-expressions problem, independent of
	// anticipation.
	availRes := dataflow.Run(dataflow.Framework[lattice.ExprSet]{
		Direction: dataflow.Forward,
		Lattice:   lat,
		Blocks:    u.BlockIDs,
		Preds:     g.Preds,
		Succs:     g.Succs,
		Source:    g.EntryID,
		Init:      lat.Bottom(),
		Safe:      lat.Top(),
		Transfer: func(b int, in lattice.ExprSet) lattice.ExprSet {
			return u.DEExpr[b].Union(in.Diff(u.Kill[b]))
		},
	})
	p.AvailIn, p.AvailOut = availRes.In, availRes.Out

	// Earliest: the soonest an anticipated computation could be placed
	// without being already available.
	p.Earliest = map[int]lattice.ExprSet{}
	for _, b := range u.BlockIDs {
		p.Earliest[b] = p.AntIn[b].Diff(p.AvailIn[b])
	}

	// 3. Postponable expressions: forward, must (intersect), gen =
	// Earliest, kill = locally-used (DEExpr again: once the block
	// itself needs the value, it can't be postponed past it).
	ppRes := dataflow.Run(dataflow.Framework[lattice.ExprSet]{
		Direction: dataflow.Forward,
		Lattice:   lat,
		Blocks:    u.BlockIDs,
		Preds:     g.Preds,
		Succs:     g.Succs,
		Source:    g.EntryID,
		Init:      lat.Bottom(),
		Safe:      lat.Top(),
		Transfer: func(b int, in lattice.ExprSet) lattice.ExprSet {
			return p.Earliest[b].Union(in).Diff(u.DEExpr[b])
		},
	})
	p.PPIn, p.PPOut = ppRes.In, ppRes.Out

	// Latest: the placement sites chosen from Earliest-or-postponable,
	// pinned down where the block itself uses the expression or some
	// successor can no longer postpone it.
	p.Latest = map[int]lattice.ExprSet{}
	for _, b := range u.BlockIDs {
		epp := p.Earliest[b].Union(p.PPIn[b])
		var succEPP lattice.ExprSet
		succs := g.Succs[b]
		if len(succs) == 0 {
			succEPP = u.Keys // empty intersection over no successors
		} else {
			first := true
			for _, s := range succs {
				sEPP := p.Earliest[s].Union(p.PPIn[s])
				if first {
					succEPP = sEPP
					first = false
				} else {
					succEPP = succEPP.Intersect(sEPP)
				}
			}
		}
		notPostponableFurther := u.Keys.Diff(succEPP)
		p.Latest[b] = epp.Intersect(u.DEExpr[b].Union(notPostponableFurther))
	}

	// 4. Used expressions: backward, may (union) — where, after
	// insertion, the original computations can be replaced by a read
	// of the hoisted temporary.
	usedRes := dataflow.Run(dataflow.Framework[lattice.ExprSet]{
		Direction: dataflow.Backward,
		Lattice:   unionLattice{lat},
		Blocks:    u.BlockIDs,
		Preds:     g.Preds,
		Succs:     g.Succs,
		Source:    g.ExitID,
		Init:      lat.Top(),
		Safe:      lat.Bottom(),
		Transfer: func(b int, out lattice.ExprSet) lattice.ExprSet {
			return u.DEExpr[b].Union(out.Diff(p.Latest[b]))
		},
	})
	p.UsedIn, p.UsedOut = usedRes.In, usedRes.Out

	return p
}
