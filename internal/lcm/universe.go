// Package lcm implements Lazy Code Motion / partial redundancy
// elimination (spec.md §4.9) as four chained dataflow passes over the
// shared expression-set lattice: anticipated, available, postponable
// and used expressions, plus the earliest/latest derivation and the
// two-phase insertion/rewrite transform.
package lcm

import (
	"midend/internal/cfg"
	"midend/internal/lattice"
	"midend/internal/mir"
)

// Universe collects the per-function bookkeeping every LCM pass reads:
// the fixed expression universe, a representative instruction per
// expression key, and each block's locally-generated (DEExpr) and
// locally-killed sets.
type Universe struct {
	Keys    lattice.ExprSet
	ByKey   map[string]mir.Expression
	DEExpr  map[int]lattice.ExprSet
	Kill    map[int]lattice.ExprSet
	BlockIDs []int
}

// Build scans every block for expression-valued instructions (binary
// arithmetic/comparison operators) and computes the universe
// and per-block gen/kill sets the four passes need.
func Build(g *cfg.Graph) *Universe {
	u := &Universe{ByKey: map[string]mir.Expression{}, DEExpr: map[int]lattice.ExprSet{}, Kill: map[int]lattice.ExprSet{}}

	var keys []string
	for _, blk := range g.Blocks {
		u.BlockIDs = append(u.BlockIDs, blk.ID)
		for _, inst := range blk.Insts.Ordinary() {
			if expr, ok := mir.NewExpression(inst); ok {
				key := expr.Key()
				if _, seen := u.ByKey[key]; !seen {
					u.ByKey[key] = expr
					keys = append(keys, key)
				}
			}
		}
	}
	u.Keys = lattice.NewExprSet(keys...)

	for _, blk := range g.Blocks {
		live := map[string]bool{}
		killedHere := map[string]bool{}
		for _, inst := range blk.Insts.Ordinary() {
			if def := inst.DefinedOperand(); def != nil {
				name := def.VariableName()
				if name != "" {
					for key, expr := range u.ByKey {
						if expr.UsesVariable(name) {
							delete(live, key)
							killedHere[key] = true
						}
					}
				}
			}
			if expr, ok := mir.NewExpression(inst); ok {
				live[expr.Key()] = true
			}
		}
		var liveKeys, killKeys []string
		for k := range live {
			liveKeys = append(liveKeys, k)
		}
		for k := range killedHere {
			killKeys = append(killKeys, k)
		}
		u.DEExpr[blk.ID] = lattice.NewExprSet(liveKeys...)
		u.Kill[blk.ID] = lattice.NewExprSet(killKeys...)
	}

	return u
}
