package stdlib

import (
	"strings"

	"github.com/appellation/rhai/rhai"
)

// RegisterCore wires the natives that are polymorphic across more than one
// of the stdlib bundles: len/is_empty/contains/remove each apply to
// strings, arrays, and/or maps under the identical name and arity. Since
// signatureHash (rhai/func.go) keys a registration solely on (qualifier,
// name, arity), registering these once per bundle would silently collide —
// the last RegisterAll call would shadow the earlier ones, the same
// failure mode arithmetic.go's RegisterRawFn dispatch was built to avoid.
// So, like the binary operators, they live here as single raw registrations
// that switch on the receiver's runtime Value.Type().
func RegisterCore(e *rhai.Engine) {
	rhai.RegisterRawFn(e, "len", 1, func(args []rhai.Value) (rhai.Value, error) {
		v := args[0]
		switch v.Type() {
		case rhai.StringType:
			return rhai.NewInt(int64(len(v.Str()))), nil
		case rhai.ArrayType:
			return rhai.NewInt(int64(len(v.Array()))), nil
		case rhai.MapType:
			return rhai.NewInt(int64(v.MapLen())), nil
		default:
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorRuntime, Msg: "len() expects a string, array, or map"}
		}
	})

	rhai.RegisterRawFn(e, "is_empty", 1, func(args []rhai.Value) (rhai.Value, error) {
		v := args[0]
		switch v.Type() {
		case rhai.StringType:
			return rhai.NewBool(len(v.Str()) == 0), nil
		case rhai.ArrayType:
			return rhai.NewBool(len(v.Array()) == 0), nil
		case rhai.MapType:
			return rhai.NewBool(v.MapLen() == 0), nil
		default:
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorRuntime, Msg: "is_empty() expects a string, array, or map"}
		}
	})

	rhai.RegisterRawFn(e, "contains", 2, func(args []rhai.Value) (rhai.Value, error) {
		a, b := args[0], args[1]
		switch a.Type() {
		case rhai.StringType:
			if b.Type() != rhai.StringType {
				return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorRuntime, Msg: "contains() on a string expects a string"}
			}
			return rhai.NewBool(strings.Contains(a.Str(), b.Str())), nil
		case rhai.ArrayType:
			for _, elem := range a.Array() {
				if elem.Type() == b.Type() && elem.Hash() == b.Hash() {
					return rhai.NewBool(true), nil
				}
			}
			return rhai.NewBool(false), nil
		case rhai.MapType:
			if b.Type() != rhai.StringType {
				return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorRuntime, Msg: "contains() on a map expects a string key"}
			}
			_, ok := a.MapGet(b.Str())
			return rhai.NewBool(ok), nil
		default:
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorRuntime, Msg: "contains() expects a string, array, or map"}
		}
	})

	rhai.RegisterRawFn(e, "remove", 2, func(args []rhai.Value) (rhai.Value, error) {
		a, b := args[0], args[1]
		switch a.Type() {
		case rhai.ArrayType:
			return removeArrayIndex(a, b)
		case rhai.MapType:
			return removeMapKey(a, b)
		default:
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorRuntime, Msg: "remove() expects an array or map"}
		}
	})
}

func removeArrayIndex(arr, idxV rhai.Value) (rhai.Value, error) {
	if idxV.Type() != rhai.IntType {
		return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArrayBounds}
	}
	elems := arr.Array()
	idx := int(idxV.Int())
	if idx < 0 || idx >= len(elems) {
		return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArrayBounds}
	}
	out := make([]rhai.Value, 0, len(elems)-1)
	out = append(out, elems[:idx]...)
	out = append(out, elems[idx+1:]...)
	return rhai.NewArray(out), nil
}

func removeMapKey(m, keyV rhai.Value) (rhai.Value, error) {
	if keyV.Type() != rhai.StringType {
		return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorIndexNotFound}
	}
	key := keyV.Str()
	keys := m.MapKeys()
	entries := make(map[string]rhai.Value, len(keys))
	order := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == key {
			continue
		}
		v, _ := m.MapGet(k)
		entries[k] = v
		order = append(order, k)
	}
	return rhai.NewMap(entries, order), nil
}
