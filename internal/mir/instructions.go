package mir

// Insts is an ordered instruction sequence with an explicit split
// between a leading run of phi instructions and the ordinary
// instructions that follow, per spec.md §3's phi_insts_idx_end
// invariant: "all phi instructions in a block precede any non-phi
// instruction of that block".
type Insts struct {
	list          []*Inst
	phiInstsIdxEnd int
}

// NewInsts wraps a plain instruction slice, computing the phi prefix
// length from the instructions themselves.
func NewInsts(insts []*Inst) *Insts {
	ii := &Insts{list: insts}
	ii.recomputeSplit()
	return ii
}

func (ii *Insts) recomputeSplit() {
	n := 0
	for _, inst := range ii.list {
		if inst.IsPhi() {
			n++
		} else {
			break
		}
	}
	ii.phiInstsIdxEnd = n
}

// PhiInstsIdxEnd returns the count of leading phi instructions.
func (ii *Insts) PhiInstsIdxEnd() int { return ii.phiInstsIdxEnd }

// Phis returns the phi-prefix slice.
func (ii *Insts) Phis() []*Inst { return ii.list[:ii.phiInstsIdxEnd] }

// Ordinary returns the non-phi suffix slice.
func (ii *Insts) Ordinary() []*Inst { return ii.list[ii.phiInstsIdxEnd:] }

// All returns the full sequence.
func (ii *Insts) All() []*Inst { return ii.list }

// Len returns the total instruction count.
func (ii *Insts) Len() int { return len(ii.list) }

// InsertPhi appends a phi instruction at the end of the phi-prefix, preserving
// the invariant that phi instructions precede ordinary ones.
func (ii *Insts) InsertPhi(phi *Inst) {
	ii.list = append(ii.list[:ii.phiInstsIdxEnd], append([]*Inst{phi}, ii.list[ii.phiInstsIdxEnd:]...)...)
	ii.phiInstsIdxEnd++
}

// PrependOrdinary inserts a non-phi instruction immediately after the
// phi prefix, at the top of the ordinary section (used by LCM to
// insert temporaries at the top of a block, after any phis).
func (ii *Insts) PrependOrdinary(inst *Inst) {
	ii.list = append(ii.list[:ii.phiInstsIdxEnd], append([]*Inst{inst}, ii.list[ii.phiInstsIdxEnd:]...)...)
}

// Append adds an ordinary instruction at the end of the sequence.
func (ii *Insts) Append(inst *Inst) {
	ii.list = append(ii.list, inst)
}

// Set overwrites the underlying slice, e.g. after a rewrite pass, and
// recomputes the phi/ordinary split.
func (ii *Insts) Set(insts []*Inst) {
	ii.list = insts
	ii.recomputeSplit()
}
