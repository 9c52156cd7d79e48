package ssa

import (
	"midend/internal/cfg"
	"midend/internal/loopanalysis"
	"midend/internal/mir"
)

// EdgeKind classifies an SSA def-use edge (spec.md §3).
type EdgeKind string

const (
	Regular      EdgeKind = "REGULAR"
	PhiArg       EdgeKind = "PHI_ARG"
	LoopCarried  EdgeKind = "LOOP_CARRIED"
)

// Edge is a def-use edge between a definition instruction and a use.
type Edge struct {
	Source, Target      *mir.Inst
	SrcBlock, DestBlock int
	Variable            *mir.SSAVariable
	Kind                EdgeKind
}

// Graph holds the SSA def-use edges for one function plus the
// def_map/succ lookups spec.md §4.4 says the SCCP driver needs.
type Graph struct {
	Edges  []*Edge
	DefMap map[string]*mir.Inst   // SSA name key -> defining instruction
	Succ   map[int64][]int64      // defining instruction id -> successor (user) instruction ids
}

// BuildEdges walks every block's instructions after renaming and
// records SSA def-use edges, marking loop-carried phi-argument edges
// (spec.md §4.4).
func BuildEdges(g *cfg.Graph, loops *loopanalysis.Forest) *Graph {
	sg := &Graph{DefMap: map[string]*mir.Inst{}, Succ: map[int64][]int64{}}

	for _, blk := range g.Blocks {
		for _, inst := range blk.Insts.All() {
			if def := inst.DefinedOperand(); def != nil && def.Type == mir.SSA_VAR {
				sg.DefMap[def.SSA.Key()] = inst
			}
		}
	}

	addEdge := func(e *Edge) {
		sg.Edges = append(sg.Edges, e)
		sg.Succ[e.Source.UniqueID] = append(sg.Succ[e.Source.UniqueID], e.Target.UniqueID)
	}

	for _, blk := range g.Blocks {
		for _, inst := range blk.Insts.Ordinary() {
			for _, use := range inst.UsedOperands() {
				if use.Type != mir.SSA_VAR {
					continue
				}
				def, ok := sg.DefMap[use.SSA.Key()]
				if !ok {
					continue
				}
				srcBlock, _ := g.BlockOf(def.UniqueID)
				addEdge(&Edge{Source: def, Target: inst, SrcBlock: srcBlock, DestBlock: blk.ID, Variable: use.SSA, Kind: Regular})
			}
		}
		for _, phi := range blk.Insts.Phis() {
			preds := g.Preds[blk.ID]
			for i, arg := range phi.PhiArgs {
				if arg.Type != mir.SSA_VAR {
					continue
				}
				def, ok := sg.DefMap[arg.SSA.Key()]
				if !ok {
					continue
				}
				srcBlock, _ := g.BlockOf(def.UniqueID)
				kind := PhiArg
				if i < len(preds) {
					predBlock := preds[i]
					if loop := loops.LoopOf(blk.ID); loop != nil && loop.Contains(srcBlock) && srcBlock != loop.Header && predBlock == srcBlock {
						kind = LoopCarried
					}
				}
				addEdge(&Edge{Source: def, Target: phi, SrcBlock: srcBlock, DestBlock: blk.ID, Variable: arg.SSA, Kind: kind})
			}
		}
	}

	return sg
}
