package analyzer

import (
	"errors"
	"math"

	"github.com/arnavsurve/slangc/internal/compiler/symbols"
)

var (
	ErrIntOverflow     = errors.New("integer overflow in constant expression")
	ErrDivisionByZero  = errors.New("division by zero in constant expression")
	ErrNotFoldable     = errors.New("operands cannot be folded")
	errUnknownOperator = errors.New("unknown operator")
)

// foldPrefix evaluates a unary operator on a constant operand. Operand types
// have already been checked.
func foldPrefix(op string, v any) (any, error) {
	switch op {
	case "-":
		if i, ok := v.(int32); ok {
			return checkedInt(-int64(i))
		}
	case "!":
		if b, ok := v.(bool); ok {
			return !b, nil
		}
	default:
		return nil, errUnknownOperator
	}
	return nil, ErrNotFoldable
}

// foldInfix evaluates a binary operator on two constant operands of the same
// type. int32 arithmetic that leaves the int32 range is an error rather than
// wrapping.
func foldInfix(op string, left, right any) (any, error) {
	switch l := left.(type) {
	case int32:
		r, ok := right.(int32)
		if !ok {
			return nil, ErrNotFoldable
		}
		switch op {
		case "+":
			return checkedInt(int64(l) + int64(r))
		case "-":
			return checkedInt(int64(l) - int64(r))
		case "*":
			return checkedInt(int64(l) * int64(r))
		case "/":
			if r == 0 {
				return nil, ErrDivisionByZero
			}
			return checkedInt(int64(l) / int64(r))
		case "==":
			return l == r, nil
		case "!=":
			return l != r, nil
		}
	case bool:
		r, ok := right.(bool)
		if !ok {
			return nil, ErrNotFoldable
		}
		switch op {
		case "&&":
			return l && r, nil
		case "||":
			return l || r, nil
		case "==":
			return l == r, nil
		case "!=":
			return l != r, nil
		}
	case string:
		r, ok := right.(string)
		if !ok {
			return nil, ErrNotFoldable
		}
		switch op {
		case "+":
			return l + r, nil
		case "==":
			return l == r, nil
		case "!=":
			return l != r, nil
		}
	default:
		return nil, ErrNotFoldable
	}
	return nil, errUnknownOperator
}

func checkedInt(v int64) (any, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return nil, ErrIntOverflow
	}
	return int32(v), nil
}

// store writes a folded value into a variable of the matching kind.
func store(v symbols.Variable, value any) bool {
	switch x := value.(type) {
	case int32:
		if s, ok := symbols.AsInt(v); ok {
			s.SetValue(x)
			return true
		}
	case bool:
		if s, ok := symbols.AsBool(v); ok {
			s.SetValue(x)
			return true
		}
	case string:
		if s, ok := symbols.AsString(v); ok {
			s.SetValue(x)
			return true
		}
	}
	return false
}
