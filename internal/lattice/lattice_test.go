package lattice

import (
	"testing"

	"midend/internal/mir"
)

func TestConstLatticeMeet(t *testing.T) {
	var l ConstLattice
	five := ValueCell(mir.IntOperand(5))
	six := ValueCell(mir.IntOperand(6))

	if m := l.Meet(TopCell(), five); m.State != ConstValue || m.Value.IntVal != 5 {
		t.Fatalf("Top meet Constant should yield the constant, got %v", m)
	}
	if m := l.Meet(five, five); m.State != ConstValue {
		t.Fatalf("identical constants should meet to themselves")
	}
	if m := l.Meet(five, six); m.State != ConstBottom {
		t.Fatalf("differing constants should meet to Bottom")
	}
	if m := l.Meet(BottomCell(), five); m.State != ConstBottom {
		t.Fatalf("Bottom absorbs everything")
	}
}

func TestConstLatticeLeqMonotoneChain(t *testing.T) {
	var l ConstLattice
	five := ValueCell(mir.IntOperand(5))
	if !l.Leq(TopCell(), five) {
		t.Fatalf("Top <= Constant should hold")
	}
	if !l.Leq(five, BottomCell()) {
		t.Fatalf("Constant <= Bottom should hold")
	}
	if l.Leq(BottomCell(), five) {
		t.Fatalf("Bottom <= Constant should not hold")
	}
}

func TestExprSetLatticeMeetIsIntersection(t *testing.T) {
	universe := NewExprSet("a+b", "c*d", "e-f")
	l := ExprSetLattice{Universe: universe}

	x := NewExprSet("a+b", "c*d")
	y := NewExprSet("c*d", "e-f")

	m := l.Meet(x, y)
	if m.Len() != 1 || !m.Contains("c*d") {
		t.Fatalf("expected meet to be {c*d}, got %v", m.Keys())
	}
	if !l.Leq(m, x) {
		t.Fatalf("the meet should be <= both operands")
	}
	top := l.Top()
	if !top.Equal(universe) {
		t.Fatalf("Top should equal the universe")
	}
	if l.Bottom().Len() != 0 {
		t.Fatalf("Bottom should be empty")
	}
}

func TestProductLatticePointwiseMeet(t *testing.T) {
	l := ProductLattice{Vars: map[string]DefSetLattice{
		"x": {All: NewDefSet(1, 2)},
		"y": {All: NewDefSet(3)},
	}}
	a := NewProductState()
	a.PerVar["x"] = NewDefSet(1)
	a.PerVar["y"] = NewDefSet(3)

	b := NewProductState()
	b.PerVar["x"] = NewDefSet(2)
	b.PerVar["y"] = NewDefSet(3)

	m := l.Meet(a, b)
	if !m.PerVar["x"].Equal(NewDefSet(1, 2)) {
		t.Fatalf("expected x to union to {1,2}, got %v", m.PerVar["x"])
	}
	if !m.PerVar["y"].Equal(NewDefSet(3)) {
		t.Fatalf("expected y to stay {3}")
	}
}
