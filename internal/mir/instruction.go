package mir

import (
	"fmt"
	"sync/atomic"
)

// idCounter is the process-wide monotonic unique-id source described in
// spec.md §5: functions may be optimized concurrently, so allocation is
// an atomic fetch-add rather than a plain counter.
var idCounter int64

// NextID hands out the next globally unique instruction id.
func NextID() int64 {
	return atomic.AddInt64(&idCounter, 1)
}

// ResetIDs rewinds the counter. Tests use this to get reproducible ids;
// production drivers never call it.
func ResetIDs() {
	atomic.StoreInt64(&idCounter, 0)
}

// Inst is a single three-address MIR instruction. UniqueID is assigned
// at construction and never changes; Address is assigned later, after
// all structural edits, by a dedicated renumbering pass (internal/driver).
type Inst struct {
	UniqueID int64
	Address  int
	Offset   int

	Op       Operator
	Operand1 *Operand
	Operand2 *Operand
	Result   *Operand

	// PhiArgs holds one operand per predecessor slot when Op == PHI,
	// ordered identically to the owning block's predecessor list.
	PhiArgs []*Operand

	// Label carries the instruction's own label definition, if the
	// source text defined one directly on this instruction's line.
	Label string
}

// New constructs an instruction with a fresh unique id.
func New(op Operator, op1, op2, result *Operand) *Inst {
	return &Inst{UniqueID: NextID(), Op: op, Operand1: op1, Operand2: op2, Result: result}
}

// IsAssignment reports whether this instruction defines Result.
func (i *Inst) IsAssignment() bool { return i.Op.IsAssignment() }

// IsArithmetic reports whether Op is in the Arithmetic set.
func (i *Inst) IsArithmetic() bool { return i.Op.IsArithmetic() }

// IsPhi reports whether this is a phi pseudo-instruction.
func (i *Inst) IsPhi() bool { return i.Op.IsPhi() }

// IsBranch reports whether this is a conditional branch (IF).
func (i *Inst) IsBranch() bool { return i.Op.IsBranch() }

// IsJump reports whether this is an unconditional jump (GOTO).
func (i *Inst) IsJump() bool { return i.Op.IsJump() }

// IsTerminator reports whether this instruction ends its block.
func (i *Inst) IsTerminator() bool { return i.Op.IsTerminator() }

// DefinedOperand returns the operand this instruction defines, or nil
// if it defines nothing (branches, prints, stores, calls-without-assign).
func (i *Inst) DefinedOperand() *Operand {
	if !i.IsAssignment() {
		return nil
	}
	return i.Result
}

// UsedOperands returns every operand this instruction reads, expanding
// ARGS vectors and PHI argument slots. Order is stable: Operand1,
// Operand2, then PhiArgs in predecessor order.
func (i *Inst) UsedOperands() []*Operand {
	var uses []*Operand
	collect := func(o *Operand) {
		if o == nil || o.Type == VOID || o.Type == FUNCTION {
			return
		}
		if o.Type == ARGS {
			uses = append(uses, o.Args...)
			return
		}
		uses = append(uses, o)
	}
	switch i.Op {
	case PHI:
		uses = append(uses, i.PhiArgs...)
	default:
		collect(i.Operand1)
		collect(i.Operand2)
	}
	return uses
}

// ReplaceUses rewrites in place every used operand (Operand1, Operand2,
// ARGS entries, or PHI argument slots) for which `match` returns true,
// replacing it with `with(operand)`.
func (i *Inst) ReplaceUses(match func(*Operand) bool, with func(*Operand) *Operand) {
	rewrite := func(o *Operand) *Operand {
		if o == nil {
			return o
		}
		if o.Type == ARGS {
			for idx, a := range o.Args {
				if match(a) {
					o.Args[idx] = with(a)
				}
			}
			return o
		}
		if match(o) {
			return with(o)
		}
		return o
	}
	switch i.Op {
	case PHI:
		for idx, a := range i.PhiArgs {
			if match(a) {
				i.PhiArgs[idx] = with(a)
			}
		}
	default:
		i.Operand1 = rewrite(i.Operand1)
		i.Operand2 = rewrite(i.Operand2)
	}
}

func (i *Inst) String() string {
	addr := fmt.Sprintf("[addr:%04d] ", i.Address)
	switch i.Op {
	case ENTRY:
		return addr + "%entry"
	case EXIT:
		return addr + "%exit"
	case INIT:
		return addr + fmt.Sprintf("%%init %s", i.Operand1)
	case PRINT:
		return addr + fmt.Sprintf("%%print %s", i.Operand1)
	case GOTO:
		return addr + fmt.Sprintf("%%goto &ptr%d", i.Operand1.PtrID)
	case IF:
		return addr + fmt.Sprintf("%%if %s %%goto &ptr%d", i.Operand1, i.Operand2.PtrID)
	case CALL:
		return addr + fmt.Sprintf("%s %s", i.Operand1.Func, i.Operand2)
	case CALL_ASSIGN:
		return addr + fmt.Sprintf("%s := %s %s", i.Result, i.Operand1.Func, i.Operand2)
	case ASSIGN:
		return addr + fmt.Sprintf("%s := %s", i.Result, i.Operand1)
	case PHI:
		s := fmt.Sprintf("%s := phi(", i.Result)
		for idx, a := range i.PhiArgs {
			if idx > 0 {
				s += ", "
			}
			s += a.String()
		}
		return addr + s + ")"
	default:
		return addr + fmt.Sprintf("%s := %s %s %s", i.Result, i.Operand1, i.Op, i.Operand2)
	}
}
