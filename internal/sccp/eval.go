package sccp

import (
	"fmt"
	"math"

	"midend/internal/mir"
)

// Truthy implements the boolean-truthiness rule of spec.md §4.8: every
// value is truthy except the literal BOOL(false).
func Truthy(v *mir.Operand) bool {
	return !(v != nil && v.Type == mir.BOOL && !v.BoolVal)
}

// Eval constant-folds one evaluatable binary operator over two literal
// operands, per the numeric semantics of spec.md §4.8.
func Eval(op mir.Operator, a, b *mir.Operand) (*mir.Operand, error) {
	switch {
	case op.IsArithmetic():
		return evalArithmetic(op, a, b)
	case op.IsComparison():
		return evalComparison(op, a, b)
	}
	return nil, fmt.Errorf("sccp: operator %s is not evaluatable", op)
}

func evalArithmetic(op mir.Operator, a, b *mir.Operand) (*mir.Operand, error) {
	if a.Type == mir.STR || b.Type == mir.STR {
		return nil, fmt.Errorf("sccp: arithmetic operator %s is not defined on STR operands", op)
	}
	if a.Type == mir.BOOL || b.Type == mir.BOOL {
		return nil, fmt.Errorf("sccp: arithmetic operator %s is not defined on BOOL operands", op)
	}
	if a.Type == mir.FLOAT || b.Type == mir.FLOAT {
		af, bf := asFloat(a), asFloat(b)
		switch op {
		case mir.ADD:
			return mir.FloatOperand(af + bf), nil
		case mir.SUB:
			return mir.FloatOperand(af - bf), nil
		case mir.MUL:
			return mir.FloatOperand(af * bf), nil
		case mir.DIV:
			if bf == 0 {
				return nil, fmt.Errorf("sccp: division by zero")
			}
			return mir.FloatOperand(af / bf), nil
		case mir.MOD:
			if bf == 0 {
				return nil, fmt.Errorf("sccp: division by zero")
			}
			return mir.FloatOperand(math.Mod(af, bf)), nil
		}
	}
	ai, bi := a.IntVal, b.IntVal
	switch op {
	case mir.ADD:
		return mir.IntOperand(ai + bi), nil
	case mir.SUB:
		return mir.IntOperand(ai - bi), nil
	case mir.MUL:
		return mir.IntOperand(ai * bi), nil
	case mir.DIV:
		if bi == 0 {
			return nil, fmt.Errorf("sccp: division by zero")
		}
		return mir.IntOperand(ai / bi), nil
	case mir.MOD:
		if bi == 0 {
			return nil, fmt.Errorf("sccp: division by zero")
		}
		return mir.IntOperand(ai % bi), nil
	}
	return nil, fmt.Errorf("sccp: unhandled arithmetic operator %s", op)
}

func evalComparison(op mir.Operator, a, b *mir.Operand) (*mir.Operand, error) {
	switch {
	case isNumeric(a) && isNumeric(b):
		af, bf := asFloat(a), asFloat(b)
		return mir.BoolOperand(compareFloat(op, af, bf)), nil
	case a.Type == mir.STR && b.Type == mir.STR:
		return mir.BoolOperand(compareString(op, a.StrVal, b.StrVal)), nil
	case a.Type == mir.BOOL && b.Type == mir.BOOL:
		if op != mir.EQ && op != mir.NEQ {
			return nil, fmt.Errorf("sccp: ordering comparison %s is not defined on BOOL operands", op)
		}
		eq := a.BoolVal == b.BoolVal
		if op == mir.NEQ {
			eq = !eq
		}
		return mir.BoolOperand(eq), nil
	}
	return nil, fmt.Errorf("sccp: comparison %s between mismatched operand types %s and %s", op, a.Type, b.Type)
}

func isNumeric(o *mir.Operand) bool { return o.Type == mir.INT || o.Type == mir.FLOAT }

func asFloat(o *mir.Operand) float64 {
	if o.Type == mir.FLOAT {
		return o.FloatVal
	}
	return float64(o.IntVal)
}

func compareFloat(op mir.Operator, a, b float64) bool {
	switch op {
	case mir.LE:
		return a < b
	case mir.GE:
		return a > b
	case mir.LEQ:
		return a <= b
	case mir.GEQ:
		return a >= b
	case mir.EQ:
		return a == b
	case mir.NEQ:
		return a != b
	}
	return false
}

func compareString(op mir.Operator, a, b string) bool {
	switch op {
	case mir.LE:
		return a < b
	case mir.GE:
		return a > b
	case mir.LEQ:
		return a <= b
	case mir.GEQ:
		return a >= b
	case mir.EQ:
		return a == b
	case mir.NEQ:
		return a != b
	}
	return false
}
