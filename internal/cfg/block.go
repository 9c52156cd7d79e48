// Package cfg builds a control-flow graph from a flat MIR instruction
// list and computes the classical dominator tree and dominance
// frontier over it (spec.md §4.1, §4.2).
package cfg

import "midend/internal/mir"

// BranchType classifies how a block's terminator wires its successors.
type BranchType string

const (
	BranchJump   BranchType = "jump"
	BranchCond   BranchType = "cond"
	BranchSwitch BranchType = "switch" // modeled, never constructed — see DESIGN.md
)

// BasicBlock is a maximal straight-line run of instructions with a
// single entry and a single terminator, per spec.md §3.
type BasicBlock struct {
	ID         int
	Insts      *mir.Insts
	BranchType BranchType

	// OrderedSuccessors holds successor block ids in slot order: for
	// BranchCond, slot 0 is the TRUE target and slot 1 is the FALSE
	// fall-through; for BranchJump, slot 0 is the unique successor.
	OrderedSuccessors []int

	Preorder int
	Rank     int

	// IdomID is -1 for the entry block, and for any block not yet
	// reached by dominator computation.
	IdomID           int
	DominatorChildren []int
}

// Terminator returns the block's last instruction, or nil for an empty
// block (the synthetic trailing exit block may legitimately be empty).
func (b *BasicBlock) Terminator() *mir.Inst {
	ord := b.Insts.Ordinary()
	if len(ord) == 0 {
		return nil
	}
	return ord[len(ord)-1]
}

// NewBlock constructs a block with no successors wired yet.
func NewBlock(id int, insts []*mir.Inst) *BasicBlock {
	return &BasicBlock{
		ID:     id,
		Insts:  mir.NewInsts(insts),
		IdomID: -1,
	}
}
