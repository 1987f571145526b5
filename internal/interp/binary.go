package interp

import (
	"github.com/sam-decook/glox/internal/ast"
	"github.com/sam-decook/glox/internal/token"
)

// evalBinary implements the binary operator table: numeric arithmetic
// and comparison require both operands be Number, "+" also accepts two
// Strings for concatenation, and "=="/"!=" work on any pair of values
// via IsEqual. Division by zero is never special-cased: Go's float64
// division already yields +Inf/-Inf/NaN, which Number.String renders
// as "inf"/"-inf"/"NaN".
func (in *Interpreter) evalBinary(b *ast.Binary) (Value, error) {
	left, err := in.eval(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(b.Right)
	if err != nil {
		return nil, err
	}

	switch b.Op.Type {
	case token.EqualEqual:
		return Bool(IsEqual(left, right)), nil
	case token.BangEqual:
		return Bool(!IsEqual(left, right)), nil

	case token.Plus:
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs, nil
			}
		}
		return nil, runtimeErr(b.Op, "Operands must be two numbers or two strings.")

	case token.Minus, token.Star, token.Slash,
		token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		ln, rn, err := numberOperands(b.Op, left, right)
		if err != nil {
			return nil, err
		}
		switch b.Op.Type {
		case token.Minus:
			return ln - rn, nil
		case token.Star:
			return ln * rn, nil
		case token.Slash:
			return ln / rn, nil
		case token.Greater:
			return Bool(ln > rn), nil
		case token.GreaterEqual:
			return Bool(ln >= rn), nil
		case token.Less:
			return Bool(ln < rn), nil
		default: // LessEqual
			return Bool(ln <= rn), nil
		}

	default:
		panic("interp: unhandled binary operator " + b.Op.Type.String())
	}
}

func numberOperands(op token.Token, left, right Value) (Number, Number, error) {
	ln, ok := left.(Number)
	if !ok {
		return 0, 0, runtimeErr(op, "Operands must be numbers.")
	}
	rn, ok := right.(Number)
	if !ok {
		return 0, 0, runtimeErr(op, "Operands must be numbers.")
	}
	return ln, rn, nil
}
