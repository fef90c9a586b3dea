package stdlib

import (
	"github.com/samber/lo"

	"github.com/appellation/rhai/rhai"
)

// RegisterArrays wires the array natives. Mutation helpers (push/pop/
// insert/clear) return the new Array Value rather than mutating in place:
// a script's `arr.push(x)` desugars to a method call that evaluates to the
// new array, and that result is not written back to `arr`. len,
// is_empty, contains, and remove are polymorphic across strings/arrays/maps
// and so are registered once in core.go instead of here.
//
// lo.Reverse comes from github.com/samber/lo, pulled in for exactly this
// kind of small collection transform (the teacher doesn't ship an array
// stdlib of its own since gql's Table type plays that role; this bundle is
// grounded on lo's generic collection-helper style instead).
func RegisterArrays(e *rhai.Engine) {
	rhai.RegisterDynamicFn1(e, "reverse", func(v rhai.Value) rhai.Value {
		return rhai.NewArray(lo.Reverse(append([]rhai.Value{}, v.Array()...)))
	})
	rhai.RegisterDynamicFn2(e, "push", func(v, item rhai.Value) rhai.Value {
		return rhai.NewArray(append(append([]rhai.Value{}, v.Array()...), item))
	})
	rhai.RegisterRawFn(e, "pop", 1, func(args []rhai.Value) (rhai.Value, error) {
		elems := args[0].Array()
		if len(elems) == 0 {
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArrayBounds, Msg: "pop on empty array"}
		}
		return rhai.NewArray(append([]rhai.Value{}, elems[:len(elems)-1]...)), nil
	})
	rhai.RegisterRawFn(e, "concat", 2, func(args []rhai.Value) (rhai.Value, error) {
		out := append(append([]rhai.Value{}, args[0].Array()...), args[1].Array()...)
		return rhai.NewArray(out), nil
	})
	rhai.RegisterRawFn(e, "insert", 3, func(args []rhai.Value) (rhai.Value, error) {
		arr, idxV, item := args[0], args[1], args[2]
		if idxV.Type() != rhai.IntType {
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArrayBounds}
		}
		elems := arr.Array()
		idx := int(idxV.Int())
		if idx < 0 || idx > len(elems) {
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArrayBounds}
		}
		out := make([]rhai.Value, 0, len(elems)+1)
		out = append(out, elems[:idx]...)
		out = append(out, item)
		out = append(out, elems[idx:]...)
		return rhai.NewArray(out), nil
	})
	rhai.RegisterDynamicFn1(e, "clear", func(rhai.Value) rhai.Value {
		return rhai.NewArray(nil)
	})
}
