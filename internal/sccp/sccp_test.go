package sccp

import (
	"testing"

	"midend/internal/cfg"
	"midend/internal/lattice"
	"midend/internal/loopanalysis"
	"midend/internal/mir"
	"midend/internal/ssa"
)

// buildConstDiamond builds entry -> branch(if cond=true) -> {trueB: a:=1 ;
// falseB: a:=2} -> join: print a -> exit, where cond is a compile-time
// constant, so the false branch is unreachable.
func buildConstDiamond(t *testing.T) (*cfg.Graph, *ssa.Graph) {
	t.Helper()
	mir.ResetIDs()

	a := mir.NewLocal("a")
	cond := mir.NewLocal("cond")

	iEntry := mir.New(mir.ENTRY, nil, nil, nil)
	iCondAssign := mir.New(mir.ASSIGN, mir.BoolOperand(true), nil, mir.VarOperand(cond))

	iTrue := mir.New(mir.ASSIGN, mir.IntOperand(1), nil, mir.VarOperand(a)) // trueB
	iJoin := mir.New(mir.PRINT, mir.VarOperand(a), nil, nil)               // join

	iIf := mir.New(mir.IF, mir.VarOperand(cond), mir.PtrOperand(iTrue.UniqueID), nil)
	iFalse := mir.New(mir.ASSIGN, mir.IntOperand(2), nil, mir.VarOperand(a)) // falseB
	iGoto := mir.New(mir.GOTO, mir.PtrOperand(iJoin.UniqueID), nil, nil)
	iExit := mir.New(mir.EXIT, nil, nil, nil)

	insts := []*mir.Inst{
		iEntry, iCondAssign, iIf, iFalse, iGoto, iTrue, iJoin, iExit,
	}
	g, err := cfg.Build(insts)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	cfg.ComputeDominators(g)
	cfg.ComputeDominanceFrontier(g)

	b := ssa.InsertPhis(g)
	ssa.Rename(b)
	loops := loopanalysis.Analyze(g)
	sg := ssa.BuildEdges(g, loops)

	return g, sg
}

func TestSCCPMarksFalseBranchDead(t *testing.T) {
	g, sg := buildConstDiamond(t)
	res := Analyze(g, sg)

	falseBlockID := g.ByID[1].OrderedSuccessors[1]
	trueBlockID := g.ByID[1].OrderedSuccessors[0]

	if res.ExecutableBlocks[falseBlockID] {
		t.Fatalf("the always-false branch should never become executable")
	}
	if !res.ExecutableBlocks[trueBlockID] {
		t.Fatalf("the always-true branch should be executable")
	}
}

func TestSCCPJoinPhiResolvesToConstant(t *testing.T) {
	g, sg := buildConstDiamond(t)
	res := Analyze(g, sg)

	joinBlock := g.ByID[4]
	phis := joinBlock.Insts.Phis()
	if len(phis) != 1 {
		t.Fatalf("expected one phi at the join block, got %d", len(phis))
	}
	key := phis[0].Result.SSA.Key()
	cell, ok := res.Cells[key]
	if !ok || cell.State != lattice.ConstValue || cell.Value.IntVal != 1 {
		t.Fatalf("expected join phi to resolve to constant 1, got %+v", cell)
	}
}

func TestFoldRewritesIfToGoto(t *testing.T) {
	g, sg := buildConstDiamond(t)
	res := Analyze(g, sg)
	if _, err := Fold(g, res); err != nil {
		t.Fatalf("unexpected fold error: %v", err)
	}

	branch := g.ByID[1]
	term := branch.Terminator()
	if term.Op != mir.GOTO {
		t.Fatalf("a statically-true IF should fold to a GOTO, got %s", term.Op)
	}
}

// TestFoldDivisionByZeroIsFatal exercises spec.md §8 scenario 6: folding
// a division with a compile-time-zero divisor must abort the fold with
// a fatal error rather than silently leaving wrong code behind.
func TestFoldDivisionByZeroIsFatal(t *testing.T) {
	mir.ResetIDs()

	x := mir.NewLocal("x")
	iEntry := mir.New(mir.ENTRY, nil, nil, nil)
	iDiv := mir.New(mir.DIV, mir.IntOperand(5), mir.IntOperand(0), mir.VarOperand(x))
	iExit := mir.New(mir.EXIT, nil, nil, nil)
	insts := []*mir.Inst{iEntry, iDiv, iExit}

	g, err := cfg.Build(insts)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	cfg.ComputeDominators(g)
	cfg.ComputeDominanceFrontier(g)
	b := ssa.InsertPhis(g)
	ssa.Rename(b)
	sg := ssa.BuildEdges(g, loopanalysis.Analyze(g))

	res := Analyze(g, sg)
	if _, err := Fold(g, res); err == nil {
		t.Fatalf("expected division by zero to abort folding with a fatal error")
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := Eval(mir.DIV, mir.IntOperand(1), mir.IntOperand(0))
	if err == nil {
		t.Fatalf("expected division by zero to be rejected")
	}
}

func TestEvalWideningToFloat(t *testing.T) {
	v, err := Eval(mir.ADD, mir.IntOperand(1), mir.FloatOperand(2.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type != mir.FLOAT || v.FloatVal != 3.5 {
		t.Fatalf("expected 3.5 (FLOAT), got %v", v)
	}
}

func TestEvalRejectsStringArithmetic(t *testing.T) {
	_, err := Eval(mir.ADD, mir.StrOperand("a"), mir.IntOperand(1))
	if err == nil {
		t.Fatalf("expected STR operand in arithmetic to be rejected")
	}
}
