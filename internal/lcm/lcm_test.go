package lcm

import (
	"testing"

	"midend/internal/cfg"
	"midend/internal/mir"
)

// buildPartialRedundancy builds:
//   entry -> branch(if cond) -> trueB: t := x+y  \
//                             -> falseB: (noop) -> GOTO join
//   trueB falls through to join
//   join: r := x+y (redundant on the true path); print r; exit
//
// x and y are never reassigned in the function, so SCCP-style SSA
// naming treats them as a single implicit version#0 throughout.
func buildPartialRedundancy(t *testing.T) (*cfg.Graph, *mir.SSAVariable, *mir.SSAVariable) {
	t.Helper()
	mir.ResetIDs()

	xVar, yVar := mir.NewGlobal("x"), mir.NewGlobal("y")
	xSSA := &mir.SSAVariable{Original: xVar, Version: 0}
	ySSA := &mir.SSAVariable{Original: yVar, Version: 0}

	condSSA := &mir.SSAVariable{Original: mir.NewLocal("cond"), Version: 0}
	tSSA := &mir.SSAVariable{Original: mir.NewLocal("t"), Version: 0}
	rSSA := &mir.SSAVariable{Original: mir.NewLocal("r"), Version: 0}
	dummySSA := &mir.SSAVariable{Original: mir.NewLocal("dummy"), Version: 0}

	iEntry := mir.New(mir.ENTRY, nil, nil, nil)
	iCondAssign := mir.New(mir.ASSIGN, mir.BoolOperand(true), nil, mir.SSAOperand(condSSA))

	iTrueCompute := mir.New(mir.ADD, mir.SSAOperand(xSSA), mir.SSAOperand(ySSA), mir.SSAOperand(tSSA)) // trueB
	iJoinRecompute := mir.New(mir.ADD, mir.SSAOperand(xSSA), mir.SSAOperand(ySSA), mir.SSAOperand(rSSA)) // join

	iIf := mir.New(mir.IF, mir.SSAOperand(condSSA), mir.PtrOperand(iTrueCompute.UniqueID), nil)
	iFalseNoop := mir.New(mir.ASSIGN, mir.IntOperand(0), nil, mir.SSAOperand(dummySSA)) // falseB
	iGoto := mir.New(mir.GOTO, mir.PtrOperand(iJoinRecompute.UniqueID), nil, nil)
	iPrint := mir.New(mir.PRINT, mir.SSAOperand(rSSA), nil, nil)
	iExit := mir.New(mir.EXIT, nil, nil, nil)

	insts := []*mir.Inst{
		iEntry, iCondAssign, iIf, iFalseNoop, iGoto, iTrueCompute, iJoinRecompute, iPrint, iExit,
	}
	g, err := cfg.Build(insts)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	cfg.ComputeDominators(g)
	cfg.ComputeDominanceFrontier(g)
	return g, xSSA, ySSA
}

func TestLatestPlacementSkipsUnneededFalseBranch(t *testing.T) {
	g, _, _ := buildPartialRedundancy(t)
	u := Build(g)
	p := Run(g, u)

	trueBlock := g.ByID[3]  // iTrueCompute
	falseBlock := g.ByID[2] // iFalseNoop, iGoto
	joinBlock := g.ByID[4]  // iJoinRecompute, iPrint, iExit

	var key string
	for k := range u.ByKey {
		key = k
	}
	if key == "" {
		t.Fatalf("expected exactly one expression key in the universe")
	}

	if !p.Latest[trueBlock.ID].Contains(key) {
		t.Fatalf("expected Latest to hold at trueB where the expression is already computed")
	}
	if !p.Latest[joinBlock.ID].Contains(key) {
		t.Fatalf("expected Latest to hold at the join, eliminating its redundant recomputation")
	}
	if p.Latest[falseBlock.ID].Contains(key) {
		t.Fatalf("Latest should not place a speculative computation on the false branch")
	}
}

func TestTransformInsertsAndRewrites(t *testing.T) {
	g, _, _ := buildPartialRedundancy(t)
	u := Build(g)
	p := Run(g, u)
	Transform(g, u, p)

	trueBlock := g.ByID[3]
	trueOrd := trueBlock.Insts.Ordinary()
	if len(trueOrd) != 2 {
		t.Fatalf("expected trueB to gain one inserted instruction, got %d instructions", len(trueOrd))
	}
	if trueOrd[0].Op != mir.ADD {
		t.Fatalf("expected the inserted recomputation first, got %s", trueOrd[0].Op)
	}
	if trueOrd[1].Op != mir.ASSIGN || trueOrd[1].Operand1.Type != mir.SSA_VAR {
		t.Fatalf("expected the original computation rewritten to a copy from the temp, got %s", trueOrd[1].Op)
	}
	if trueOrd[1].Operand1.SSA.Key() != trueOrd[0].Result.SSA.Key() {
		t.Fatalf("trueB's rewritten copy should read the temp defined in the same block")
	}

	joinBlock := g.ByID[4]
	joinOrd := joinBlock.Insts.Ordinary()
	if len(joinOrd) != 4 {
		t.Fatalf("expected join to gain one inserted instruction (ADD, ASSIGN, PRINT, EXIT), got %d", len(joinOrd))
	}
	if joinOrd[0].Op != mir.ADD {
		t.Fatalf("expected the inserted recomputation first at join, got %s", joinOrd[0].Op)
	}
	if joinOrd[1].Op != mir.ASSIGN || joinOrd[1].Operand1.SSA.Key() != joinOrd[0].Result.SSA.Key() {
		t.Fatalf("join's redundant recomputation should have been rewritten to a copy from its own temp")
	}
}
