package lattice

// DefSet is a power-set-of-definition-points lattice element, keyed by
// instruction UniqueID: "power-set of definition points keyed by
// variable" from spec.md §2/§9. Meet is union here (reaching
// definitions grows monotonically as more defs become reachable),
// Bottom is the empty set and Top would be the set of all definitions
// of the variable in the function.
type DefSet struct {
	ids map[int64]bool
}

func NewDefSet(ids ...int64) DefSet {
	s := DefSet{ids: map[int64]bool{}}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

func (d DefSet) Contains(id int64) bool { return d.ids[id] }
func (d DefSet) Len() int               { return len(d.ids) }

func (d DefSet) Union(other DefSet) DefSet {
	r := NewDefSet()
	for id := range d.ids {
		r.ids[id] = true
	}
	for id := range other.ids {
		r.ids[id] = true
	}
	return r
}

func (d DefSet) Equal(other DefSet) bool {
	if len(d.ids) != len(other.ids) {
		return false
	}
	for id := range d.ids {
		if !other.ids[id] {
			return false
		}
	}
	return true
}

func (d DefSet) Subset(other DefSet) bool {
	for id := range d.ids {
		if !other.ids[id] {
			return false
		}
	}
	return true
}

// DefSetLattice is the ∪-meet (reaching definitions) lattice for a
// single variable: Bottom = ∅, Top = the variable's full definition set.
type DefSetLattice struct {
	All DefSet
}

func (l DefSetLattice) Top() DefSet            { return l.All }
func (l DefSetLattice) Bottom() DefSet         { return NewDefSet() }
func (l DefSetLattice) Meet(a, b DefSet) DefSet { return a.Union(b) }
func (l DefSetLattice) Leq(a, b DefSet) bool    { return a.Subset(b) }

// ProductState is a product-lattice element: one DefSet per variable
// name, the "product lattice of per-variable powersets" from spec.md
// §2/§9 ("meet of the product lattice is pointwise").
type ProductState struct {
	PerVar map[string]DefSet
}

func NewProductState() ProductState {
	return ProductState{PerVar: map[string]DefSet{}}
}

// ProductLattice combines one DefSetLattice per tracked variable name.
type ProductLattice struct {
	Vars map[string]DefSetLattice
}

func (l ProductLattice) Top() ProductState {
	p := NewProductState()
	for name, vl := range l.Vars {
		p.PerVar[name] = vl.Top()
	}
	return p
}

func (l ProductLattice) Bottom() ProductState {
	p := NewProductState()
	for name, vl := range l.Vars {
		p.PerVar[name] = vl.Bottom()
	}
	return p
}

// Meet applies each variable's own lattice meet pointwise.
func (l ProductLattice) Meet(a, b ProductState) ProductState {
	p := NewProductState()
	for name, vl := range l.Vars {
		p.PerVar[name] = vl.Meet(a.PerVar[name], b.PerVar[name])
	}
	return p
}

func (l ProductLattice) Leq(a, b ProductState) bool {
	for name, vl := range l.Vars {
		if !vl.Leq(a.PerVar[name], b.PerVar[name]) {
			return false
		}
	}
	return true
}
