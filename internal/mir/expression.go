package mir

import "fmt"

// Expression is the value-numbering key LCM (internal/lcm) collects
// expressions into: an operator plus its two operand values. Equality
// is hash-plus-structural, matching spec.md §3.
type Expression struct {
	Op       Operator
	Operand1 *Operand
	Operand2 *Operand
	hash     uint64
}

// NewExpression builds an Expression from a binary instruction,
// returning ok=false for instructions that are not expressions.
func NewExpression(i *Inst) (Expression, bool) {
	if !i.Op.IsExpression() {
		return Expression{}, false
	}
	e := Expression{Op: i.Op, Operand1: i.Operand1, Operand2: i.Operand2}
	e.hash = e.computeHash()
	return e, true
}

func operandHashValue(o *Operand) string {
	if o == nil {
		return "<nil>"
	}
	switch o.Type {
	case VAR:
		return "v:" + o.Var.Name
	case SSA_VAR:
		return "s:" + o.SSA.Key()
	default:
		return o.String()
	}
}

func (e Expression) computeHash() uint64 {
	var h uint64 = 1469598103934665603 // FNV offset basis
	mix := func(s string) {
		for i := 0; i < len(s); i++ {
			h ^= uint64(s[i])
			h *= 1099511628211
		}
	}
	mix(string(e.Op))
	mix(operandHashValue(e.Operand1))
	mix(operandHashValue(e.Operand2))
	return h
}

// Hash returns the precomputed structural hash.
func (e Expression) Hash() uint64 { return e.hash }

// Equal reports structural equality: same operator and same operand
// identities (by SSA name / literal value / variable name).
func (e Expression) Equal(other Expression) bool {
	if e.hash != other.hash || e.Op != other.Op {
		return false
	}
	return operandHashValue(e.Operand1) == operandHashValue(other.Operand1) &&
		operandHashValue(e.Operand2) == operandHashValue(other.Operand2)
}

// Key returns a comparable map/set key for this expression.
func (e Expression) Key() string {
	return fmt.Sprintf("%s(%s,%s)", e.Op, operandHashValue(e.Operand1), operandHashValue(e.Operand2))
}

func (e Expression) String() string {
	return fmt.Sprintf("%s %s %s", e.Operand1, e.Op, e.Operand2)
}

// UsesVariable reports whether the expression reads the named original
// variable (regardless of SSA version), used by LCM's eKill computation.
func (e Expression) UsesVariable(name string) bool {
	return e.Operand1.VariableName() == name || e.Operand2.VariableName() == name
}
