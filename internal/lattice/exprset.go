package lattice

// ExprSet is a set of expression keys (see mir.Expression.Key), the
// lattice element LCM's four dataflow passes compute over (spec.md §4.9).
type ExprSet struct {
	set map[string]bool
}

// NewExprSet builds a set from the given keys.
func NewExprSet(keys ...string) ExprSet {
	s := ExprSet{set: map[string]bool{}}
	for _, k := range keys {
		s.set[k] = true
	}
	return s
}

func (e ExprSet) Contains(k string) bool { return e.set[k] }

func (e ExprSet) Len() int { return len(e.set) }

func (e ExprSet) Keys() []string {
	var ks []string
	for k := range e.set {
		ks = append(ks, k)
	}
	return ks
}

// Union, Intersect and Diff all return freshly allocated sets.
func (e ExprSet) Union(other ExprSet) ExprSet {
	r := NewExprSet()
	for k := range e.set {
		r.set[k] = true
	}
	for k := range other.set {
		r.set[k] = true
	}
	return r
}

func (e ExprSet) Intersect(other ExprSet) ExprSet {
	r := NewExprSet()
	for k := range e.set {
		if other.set[k] {
			r.set[k] = true
		}
	}
	return r
}

func (e ExprSet) Diff(other ExprSet) ExprSet {
	r := NewExprSet()
	for k := range e.set {
		if !other.set[k] {
			r.set[k] = true
		}
	}
	return r
}

func (e ExprSet) Equal(other ExprSet) bool {
	if len(e.set) != len(other.set) {
		return false
	}
	for k := range e.set {
		if !other.set[k] {
			return false
		}
	}
	return true
}

func (e ExprSet) Subset(other ExprSet) bool {
	for k := range e.set {
		if !other.set[k] {
			return false
		}
	}
	return true
}

// ExprSetLattice is the ∩-meet lattice over a fixed universe of
// expression keys: Top = the full universe, Bottom = the empty set,
// used directly by the anticipated, available and postponable LCM
// passes; the used pass in internal/lcm wraps it with a union meet.
type ExprSetLattice struct {
	Universe ExprSet
}

func (l ExprSetLattice) Top() ExprSet    { return l.Universe }
func (l ExprSetLattice) Bottom() ExprSet { return NewExprSet() }
func (l ExprSetLattice) Meet(a, b ExprSet) ExprSet { return a.Intersect(b) }
func (l ExprSetLattice) Leq(a, b ExprSet) bool     { return a.Subset(b) }
