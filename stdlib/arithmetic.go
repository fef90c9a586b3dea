// Package stdlib populates an Engine's native function table with the
// built-in operators and helper functions a script expects to find already
// registered (spec.md's "stdlib is out of scope" bundles, supplied here the
// way the teacher ships its own builtin_*.go files as init-time
// registrations rather than as a separate optional library).
package stdlib

import (
	"math"

	"github.com/appellation/rhai/rhai"
)

// RegisterArithmetic wires the binary/unary operator dispatch table: every
// arithmetic, bitwise, and comparison spelling the parser can emit
// (makeOperatorCall/foldOrCallUnaryMinus in parser.go derive a native's name
// directly from TokenKind.String(), e.g. "+", "==", "<<"), each dispatching
// on its operand's runtime ValueType since a single registered name must
// serve int, float, and (for "+") string operands alike.
//
// Grounded on the teacher's gql/builtin_ops.go (builtinPlus/builtinMinus/...,
// one Go function per infix spelling, switching on Value.Type()); Opts.Unchecked
// and Opts.OnlyI32 are carried over from gql's analogous checked-arithmetic
// knobs.
func RegisterArithmetic(e *rhai.Engine) {
	rhai.RegisterRawFn(e, "+", 2, func(args []rhai.Value) (rhai.Value, error) { return arith(e, "+", args[0], args[1]) })
	rhai.RegisterRawFn(e, "-", 2, func(args []rhai.Value) (rhai.Value, error) { return arith(e, "-", args[0], args[1]) })
	rhai.RegisterRawFn(e, "*", 2, func(args []rhai.Value) (rhai.Value, error) { return arith(e, "*", args[0], args[1]) })
	rhai.RegisterRawFn(e, "/", 2, func(args []rhai.Value) (rhai.Value, error) { return arith(e, "/", args[0], args[1]) })
	rhai.RegisterRawFn(e, "%", 2, func(args []rhai.Value) (rhai.Value, error) { return arith(e, "%", args[0], args[1]) })
	rhai.RegisterRawFn(e, "**", 2, func(args []rhai.Value) (rhai.Value, error) { return pow(args[0], args[1]) })

	rhai.RegisterRawFn(e, "&", 2, func(args []rhai.Value) (rhai.Value, error) { return bitwise(e, "&", args[0], args[1]) })
	rhai.RegisterRawFn(e, "|", 2, func(args []rhai.Value) (rhai.Value, error) { return bitwise(e, "|", args[0], args[1]) })
	rhai.RegisterRawFn(e, "^", 2, func(args []rhai.Value) (rhai.Value, error) { return bitwise(e, "^", args[0], args[1]) })
	rhai.RegisterRawFn(e, "<<", 2, func(args []rhai.Value) (rhai.Value, error) { return shift(e, "<<", args[0], args[1]) })
	rhai.RegisterRawFn(e, ">>", 2, func(args []rhai.Value) (rhai.Value, error) { return shift(e, ">>", args[0], args[1]) })

	rhai.RegisterRawFn(e, "==", 2, func(args []rhai.Value) (rhai.Value, error) { return cmp(args[0], args[1], "==") })
	rhai.RegisterRawFn(e, "!=", 2, func(args []rhai.Value) (rhai.Value, error) { return cmp(args[0], args[1], "!=") })
	rhai.RegisterRawFn(e, "<", 2, func(args []rhai.Value) (rhai.Value, error) { return cmp(args[0], args[1], "<") })
	rhai.RegisterRawFn(e, "<=", 2, func(args []rhai.Value) (rhai.Value, error) { return cmp(args[0], args[1], "<=") })
	rhai.RegisterRawFn(e, ">", 2, func(args []rhai.Value) (rhai.Value, error) { return cmp(args[0], args[1], ">") })
	rhai.RegisterRawFn(e, ">=", 2, func(args []rhai.Value) (rhai.Value, error) { return cmp(args[0], args[1], ">=") })

	rhai.RegisterRawFn(e, "!", 1, func(args []rhai.Value) (rhai.Value, error) { return not(args[0]) })
	rhai.RegisterRawFn(e, "-", 1, func(args []rhai.Value) (rhai.Value, error) { return negate(e, args[0]) })
}

func arithError(op string, a, b rhai.Value) error {
	return &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "invalid operand types for " + op + ": " + a.Type().String() + ", " + b.Type().String()}
}

func arith(e *rhai.Engine, op string, a, b rhai.Value) (rhai.Value, error) {
	switch {
	case a.Type() == rhai.IntType && b.Type() == rhai.IntType:
		x, y := a.Int(), b.Int()
		switch op {
		case "+":
			return checkedInt(e, x+y, overflowsAddI64(x, y))
		case "-":
			return checkedInt(e, x-y, overflowsSubI64(x, y))
		case "*":
			return checkedInt(e, x*y, overflowsMulI64(x, y))
		case "/":
			if y == 0 {
				return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "division by zero"}
			}
			return checkedInt(e, x/y, false)
		case "%":
			if y == 0 {
				return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "division by zero"}
			}
			return rhai.NewInt(x % y), nil
		}
	case a.Type() == rhai.FloatType || b.Type() == rhai.FloatType:
		x, xok := asFloat(a)
		y, yok := asFloat(b)
		if xok && yok {
			switch op {
			case "+":
				return rhai.NewFloat(x + y), nil
			case "-":
				return rhai.NewFloat(x - y), nil
			case "*":
				return rhai.NewFloat(x * y), nil
			case "/":
				return rhai.NewFloat(x / y), nil
			}
		}
	case op == "+" && a.Type() == rhai.StringType && b.Type() == rhai.StringType:
		return rhai.NewString(a.Str() + b.Str()), nil
	}
	return rhai.Value{}, arithError(op, a, b)
}

func asFloat(v rhai.Value) (float64, bool) {
	switch v.Type() {
	case rhai.FloatType:
		return v.Float(), true
	case rhai.IntType:
		return float64(v.Int()), true
	default:
		return 0, false
	}
}

func overflowsAddI64(a, b int64) bool {
	c := a + b
	return (c > a) != (b > 0)
}

func overflowsSubI64(a, b int64) bool {
	c := a - b
	return (c < a) != (b > 0)
}

func overflowsMulI64(a, b int64) bool {
	if a == 0 || b == 0 {
		return false
	}
	c := a * b
	return c/b != a
}

func checkedInt(e *rhai.Engine, result int64, overflowed bool) (rhai.Value, error) {
	if !e.Opts.Unchecked {
		if overflowed {
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "integer overflow"}
		}
		if e.Opts.OnlyI32 && (result > math.MaxInt32 || result < math.MinInt32) {
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "integer overflow (32-bit)"}
		}
	}
	return rhai.NewInt(result), nil
}

func pow(a, b rhai.Value) (rhai.Value, error) {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return rhai.Value{}, arithError("**", a, b)
	}
	if a.Type() == rhai.IntType && b.Type() == rhai.IntType && b.Int() >= 0 {
		return rhai.NewInt(int64(math.Pow(af, bf))), nil
	}
	return rhai.NewFloat(math.Pow(af, bf)), nil
}

func bitwise(e *rhai.Engine, op string, a, b rhai.Value) (rhai.Value, error) {
	if a.Type() != rhai.IntType || b.Type() != rhai.IntType {
		return rhai.Value{}, arithError(op, a, b)
	}
	x, y := a.Int(), b.Int()
	switch op {
	case "&":
		return rhai.NewInt(x & y), nil
	case "|":
		return rhai.NewInt(x | y), nil
	case "^":
		return rhai.NewInt(x ^ y), nil
	}
	return rhai.Value{}, arithError(op, a, b)
}

func shift(e *rhai.Engine, op string, a, b rhai.Value) (rhai.Value, error) {
	if a.Type() != rhai.IntType || b.Type() != rhai.IntType {
		return rhai.Value{}, arithError(op, a, b)
	}
	x, y := a.Int(), b.Int()
	if y < 0 {
		return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "negative shift amount"}
	}
	if op == "<<" {
		return rhai.NewInt(x << uint64(y)), nil
	}
	return rhai.NewInt(x >> uint64(y)), nil
}

func cmp(a, b rhai.Value, op string) (rhai.Value, error) {
	if a.Type() != b.Type() {
		if af, aok := asFloat(a); aok {
			if bf, bok := asFloat(b); bok {
				return rhai.NewBool(floatCompare(af, bf, op)), nil
			}
		}
		return rhai.NewBool(op == "!="), nil
	}
	switch a.Type() {
	case rhai.IntType:
		return rhai.NewBool(intCompare(a.Int(), b.Int(), op)), nil
	case rhai.FloatType:
		return rhai.NewBool(floatCompare(a.Float(), b.Float(), op)), nil
	case rhai.StringType:
		return rhai.NewBool(stringCompare(a.Str(), b.Str(), op)), nil
	case rhai.CharType:
		return rhai.NewBool(intCompare(int64(a.Char()), int64(b.Char()), op)), nil
	case rhai.BoolType:
		x, y := a.Bool(), b.Bool()
		switch op {
		case "==":
			return rhai.NewBool(x == y), nil
		case "!=":
			return rhai.NewBool(x != y), nil
		default:
			return rhai.NewBool(false), nil
		}
	case rhai.UnitType:
		return rhai.NewBool(op == "==" || op == "<=" || op == ">="), nil
	default:
		h1, h2 := a.Hash(), b.Hash()
		switch op {
		case "==":
			return rhai.NewBool(h1 == h2), nil
		case "!=":
			return rhai.NewBool(h1 != h2), nil
		default:
			return rhai.NewBool(false), nil
		}
	}
}

func intCompare(a, b int64, op string) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func floatCompare(a, b float64, op string) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func stringCompare(a, b string, op string) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func not(v rhai.Value) (rhai.Value, error) {
	if v.Type() != rhai.BoolType {
		return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorBooleanArgMismatch}
	}
	return rhai.NewBool(!v.Bool()), nil
}

func negate(e *rhai.Engine, v rhai.Value) (rhai.Value, error) {
	switch v.Type() {
	case rhai.IntType:
		x := v.Int()
		if !e.Opts.Unchecked && x == math.MinInt64 {
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "integer overflow"}
		}
		return rhai.NewInt(-x), nil
	case rhai.FloatType:
		return rhai.NewFloat(-v.Float()), nil
	default:
		return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "invalid operand type for unary -: " + v.Type().String()}
	}
}
