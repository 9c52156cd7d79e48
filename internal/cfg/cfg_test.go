package cfg

import (
	"testing"

	"midend/internal/mir"
)

// buildDiamond constructs:
//
//	entry -> [x:=1; t:=x>0; if t -> L] -> { [y:=1; goto J] (false), [y:=2] (true, falls through) } -> J:[z:=y; exit]
func buildDiamond(t *testing.T) *Graph {
	t.Helper()
	mir.ResetIDs()

	x := mir.NewLocal("x")
	y := mir.NewLocal("y")
	tv := mir.NewLocal("t")
	z := mir.NewLocal("z")

	iEntry := mir.New(mir.ENTRY, nil, nil, nil)
	iAssignX := mir.New(mir.ASSIGN, mir.IntOperand(1), nil, mir.VarOperand(x))
	iCmp := mir.New(mir.GE, mir.VarOperand(x), mir.IntOperand(0), mir.VarOperand(tv))

	iTrueTarget := mir.New(mir.ASSIGN, mir.IntOperand(2), nil, mir.VarOperand(y)) // L: y := 2
	iJoinTarget := mir.New(mir.ASSIGN, mir.VarOperand(y), nil, mir.VarOperand(z)) // J: z := y

	iIf := mir.New(mir.IF, mir.VarOperand(tv), mir.PtrOperand(iTrueTarget.UniqueID), nil)
	iAssignY1 := mir.New(mir.ASSIGN, mir.IntOperand(1), nil, mir.VarOperand(y))
	iGoto := mir.New(mir.GOTO, mir.PtrOperand(iJoinTarget.UniqueID), nil, nil)
	iExit := mir.New(mir.EXIT, nil, nil, nil)

	insts := []*mir.Inst{
		iEntry, iAssignX, iCmp, iIf, iAssignY1, iGoto, iTrueTarget, iJoinTarget, iExit,
	}

	g, err := Build(insts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ComputeDominators(g)
	ComputeDominanceFrontier(g)
	return g
}

func TestCFGSoundness(t *testing.T) {
	g := buildDiamond(t)
	if len(g.Blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(g.Blocks))
	}
	for _, b := range g.Blocks {
		for _, s := range g.Succs[b.ID] {
			found := false
			for _, p := range g.Preds[s] {
				if p == b.ID {
					found = true
				}
			}
			if !found {
				t.Fatalf("block %d has succ %d but succ's preds don't list it back", b.ID, s)
			}
		}
	}
	if len(g.Succs[g.ExitID]) != 0 {
		t.Fatalf("exit block should have no successors")
	}
}

func TestCFGCondBranchWiring(t *testing.T) {
	g := buildDiamond(t)
	branchBlock := g.Blocks[1] // [x:=1; t:=x>0; if ...]
	if branchBlock.BranchType != BranchCond {
		t.Fatalf("expected cond branch block")
	}
	trueTgt := branchBlock.OrderedSuccessors[0]
	falseTgt := branchBlock.OrderedSuccessors[1]
	if g.FlowLabel(branchBlock.ID, trueTgt) != True {
		t.Fatalf("slot 0 should be labeled TRUE")
	}
	if g.FlowLabel(branchBlock.ID, falseTgt) != False {
		t.Fatalf("slot 1 should be labeled FALSE")
	}
}

func TestDominatorsDiamond(t *testing.T) {
	g := buildDiamond(t)
	// Block 0: entry; Block 1: branch; Block 2: false-path (y:=1;goto);
	// Block 3: true-path (y:=2); Block 4: join (z:=y; exit).
	entry, branch, falseB, trueB, join := 0, 1, 2, 3, 4

	if g.Idom[branch] != entry {
		t.Fatalf("idom(branch) should be entry, got %d", g.Idom[branch])
	}
	if g.Idom[falseB] != branch || g.Idom[trueB] != branch {
		t.Fatalf("idom(falseB)=%d idom(trueB)=%d, want both %d", g.Idom[falseB], g.Idom[trueB], branch)
	}
	if g.Idom[join] != branch {
		t.Fatalf("idom(join) should be branch (nearest common dominator), got %d", g.Idom[join])
	}
}

func TestDominanceFrontierDiamond(t *testing.T) {
	g := buildDiamond(t)
	falseB, trueB, join := 2, 3, 4

	for _, b := range []int{falseB, trueB} {
		found := false
		for _, y := range g.DF[b] {
			if y == join {
				found = true
			}
		}
		if !found {
			t.Fatalf("DF(%d) should contain join block %d, got %v", b, join, g.DF[b])
		}
	}
}

func TestDFPlusFixedPoint(t *testing.T) {
	g := buildDiamond(t)
	seed := []int{2, 3}
	df := g.DFPlus(seed)
	if !df[4] {
		t.Fatalf("DF+({false,true}) should include the join block")
	}
}

func TestBuildRejectsMissingEntry(t *testing.T) {
	mir.ResetIDs()
	insts := []*mir.Inst{mir.New(mir.ASSIGN, mir.IntOperand(1), nil, mir.VarOperand(mir.NewLocal("x")))}
	if _, err := Build(insts); err == nil {
		t.Fatalf("expected error for missing ENTRY")
	}
}

func TestBuildRejectsBadTarget(t *testing.T) {
	mir.ResetIDs()
	entry := mir.New(mir.ENTRY, nil, nil, nil)
	gotoInst := mir.New(mir.GOTO, mir.PtrOperand(99999), nil, nil)
	if _, err := Build([]*mir.Inst{entry, gotoInst}); err == nil {
		t.Fatalf("expected error for dangling goto target")
	}
}
