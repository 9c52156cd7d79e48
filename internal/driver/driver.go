// Package driver orchestrates the per-function optimization pipeline:
// CFG construction, dominator/frontier/loop analysis, SSA construction,
// and the optional SCCP and LCM passes (spec.md §4.10).
package driver

import (
	"fmt"

	"midend/internal/cfg"
	"midend/internal/lcm"
	"midend/internal/loopanalysis"
	"midend/internal/mir"
	"midend/internal/sccp"
	"midend/internal/ssa"
)

// PREKind selects the partial-redundancy pass LCM implements, or none.
type PREKind string

const (
	PRENone PREKind = ""
	PRELCM  PREKind = "lcm"
)

// SSAPeriod controls when SSA renaming re-runs relative to the passes
// that mutate the instruction stream. spec.md §9 leaves the exact
// meaning of "postpone" open; DESIGN.md records the decision to treat
// it identically to "always" (renaming re-runs after every
// structure-changing pass, since postponing it further has no observed
// benefit once SCCP has already folded branches).
type SSAPeriod string

const (
	SSAAlways   SSAPeriod = "always"
	SSANever    SSAPeriod = "never"
	SSAPostpone SSAPeriod = "postpone"
)

// Options selects which optimizations a function's pipeline runs.
type Options struct {
	SCCP      bool
	PRE       PREKind
	SSAPeriod SSAPeriod
}

// FunctionResult is everything a caller needs after optimizing one
// function: the final CFG (already rebuilt fresh after any structural
// edits) and any non-fatal warnings accumulated along the way.
type FunctionResult struct {
	Graph    *cfg.Graph
	Warnings []string
}

// OptimizeFunction runs the full pipeline over one function's flat
// instruction list and returns a FunctionResult holding the final CFG
// (whose AllInsts carry renumbered addresses) and any warnings.
func OptimizeFunction(insts []*mir.Inst, opts Options) (*FunctionResult, error) {
	g, err := buildAndAnalyze(insts)
	if err != nil {
		return nil, err
	}
	ssaForm(g, opts.SSAPeriod)

	var warnings []string

	if opts.SCCP {
		sg := ssa.BuildEdges(g, loopanalysis.Analyze(g))
		res := sccp.Analyze(g, sg)
		foldWarnings, foldErr := sccp.Fold(g, res)
		warnings = append(warnings, foldWarnings...)
		if foldErr != nil {
			return nil, fmt.Errorf("driver: %w", foldErr)
		}

		// Folding IF->GOTO and constant-propagating operands changes
		// the CFG's shape, so rebuild it fresh before any further pass
		// reads dominance or loop information.
		g, err = buildAndAnalyze(g.AllInsts())
		if err != nil {
			return nil, err
		}
		ssaForm(g, opts.SSAPeriod)
	}

	if opts.PRE == PRELCM {
		// LCM only ever inserts at block tops (never on an edge), so
		// every critical edge must be broken first, per spec.md §4.9's
		// correctness invariant (c) and §9's note on the original's
		// half-implemented splitter.
		split := cfg.SplitCriticalEdges(g, g.AllInsts())
		g, err = buildAndAnalyze(split)
		if err != nil {
			return nil, err
		}
		ssaForm(g, opts.SSAPeriod)

		u := lcm.Build(g)
		p := lcm.Run(g, u)
		lcm.Transform(g, u, p)

		g, err = buildAndAnalyze(g.AllInsts())
		if err != nil {
			return nil, err
		}
		ssaForm(g, opts.SSAPeriod)
	}

	RenumberAddresses(g.AllInsts())
	return &FunctionResult{Graph: g, Warnings: warnings}, nil
}

// buildAndAnalyze runs the structural front half of the pipeline: CFG
// construction, dominators and the dominance frontier. It does not
// touch SSA form — callers decide separately whether to (re)run it,
// since repeating phi placement on already-renamed SSA operands would
// double-count each original variable's definition sites.
func buildAndAnalyze(insts []*mir.Inst) (*cfg.Graph, error) {
	g, err := cfg.Build(insts)
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}
	cfg.ComputeDominators(g)
	cfg.ComputeDominanceFrontier(g)
	return g, nil
}

// ssaForm (re)derives phi placement and renaming, honoring SSAPeriod.
// It always strips back to plain VAR operands first, since any earlier
// SSA naming is invalidated the moment the CFG it was built over
// changes shape.
func ssaForm(g *cfg.Graph, period SSAPeriod) {
	resetToVarForm(g)
	if period == SSANever {
		return
	}
	b := ssa.InsertPhis(g)
	ssa.Rename(b)
}
