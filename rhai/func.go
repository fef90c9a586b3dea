package rhai

import (
	"fmt"
	"sync"

	"github.com/appellation/rhai/hash"
	"github.com/appellation/rhai/symbol"
)

// nativeFn is the common internal shape every RegisterFn/RegisterDynamicFn/
// RegisterResultFn adapter compiles down to.
type nativeFn func(args []Value) (Value, error)

// funcEntry is one row of a FuncTable, addressed solely by its signature
// hash (spec.md §4.4).
type funcEntry struct {
	hash      hash.Hash
	qualifier []symbol.ID
	name      symbol.ID
	arity     int

	native nativeFn    // set for a registered native.
	script *ScriptFunc // set for a script-defined `fn`.
}

// signatureHash resolves the Open Question recorded in DESIGN.md: hashes
// are composed from (qualifier path, name, arity) only, NOT from concrete
// argument types. Two natives registered under the same name and arity but
// different parameter types collide and the second silently replaces the
// first, mirroring ordinary Go map-assignment overwrite semantics rather
// than raising a registration-time ambiguity error.
func signatureHash(qualifier []symbol.ID, name symbol.ID, arity int) hash.Hash {
	h := hash.String("rhai-fn-sig")
	for _, q := range qualifier {
		h = h.Merge(q.Hash())
	}
	h = h.Merge(name.Hash())
	placeholder := hash.String("rhai-arg")
	for i := 0; i < arity; i++ {
		h = h.Merge(placeholder)
	}
	return h
}

// variableHash composes the cached hash stored on a qualified Variable
// node (spec.md §3). Unlike signatureHash it carries no arity term: a
// variable reference has no argument list, only a qualifier path and name.
func variableHash(qualifier []symbol.ID, name symbol.ID) hash.Hash {
	h := hash.String("rhai-var")
	for _, q := range qualifier {
		h = h.Merge(q.Hash())
	}
	h = h.Merge(name.Hash())
	return h
}

// FuncTable is a hash-indexed dispatch table shared by natives, operators,
// and script functions alike (spec.md §4.4). Engine owns one as its global
// native/stdlib library; the `fn` declarations an AST parsed are kept in
// its own Funcs map (keyed by the same signatureHash), not in a FuncTable.
type FuncTable struct {
	mu     sync.RWMutex
	byHash map[hash.Hash]*funcEntry
}

func newFuncTable() *FuncTable {
	return &FuncTable{byHash: map[hash.Hash]*funcEntry{}}
}

func (t *FuncTable) registerNative(qualifier []symbol.ID, name symbol.ID, arity int, fn nativeFn) {
	h := signatureHash(qualifier, name, arity)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byHash[h] = &funcEntry{hash: h, qualifier: qualifier, name: name, arity: arity, native: fn}
}

func (t *FuncTable) registerScript(qualifier []symbol.ID, sf *ScriptFunc) {
	h := signatureHash(qualifier, sf.Name, len(sf.Params))
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byHash[h] = &funcEntry{hash: h, qualifier: qualifier, name: sf.Name, arity: len(sf.Params), script: sf}
}

func (t *FuncTable) lookup(h hash.Hash) (*funcEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.byHash[h]
	return e, ok
}

// retain keeps only entries whose name passes keep. AST.RetainFunctions
// (merge.go) does not use it; it filters AST.Funcs directly.
func (t *FuncTable) retain(keep func(name symbol.ID) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for h, e := range t.byHash {
		if !keep(e.name) {
			delete(t.byHash, h)
		}
	}
}

// --- Conversions between Go values and the engine's Value union ---------
//
// Grounded on samber/lo's style of small, composable generic helpers
// (github.com/samber/lo, pulled into go.mod for the stdlib array builtins):
// one generic function per direction, dispatching on the instantiated type
// via a type switch over `any(x)` rather than reflection.

func valueOf[T any](x T) Value {
	switch v := any(x).(type) {
	case Value:
		return v
	case int64:
		return NewInt(v)
	case int:
		return NewInt(int64(v))
	case float64:
		return NewFloat(v)
	case bool:
		return NewBool(v)
	case rune:
		return NewChar(v)
	case string:
		return NewString(v)
	case nil:
		return Unit
	default:
		return NewVariant(x)
	}
}

func fromValue[T any](v Value) (T, error) {
	var zero T
	switch any(zero).(type) {
	case Value:
		return any(v).(T), nil
	case int64:
		if v.typ != IntType {
			return zero, wrongType("int", v.typ)
		}
		return any(v.Int()).(T), nil
	case int:
		if v.typ != IntType {
			return zero, wrongType("int", v.typ)
		}
		return any(int(v.Int())).(T), nil
	case float64:
		if v.typ != FloatType {
			return zero, wrongType("float", v.typ)
		}
		return any(v.Float()).(T), nil
	case bool:
		if v.typ != BoolType {
			return zero, wrongType("bool", v.typ)
		}
		return any(v.Bool()).(T), nil
	case rune:
		if v.typ != CharType {
			return zero, wrongType("char", v.typ)
		}
		return any(v.Char()).(T), nil
	case string:
		if v.typ != StringType {
			return zero, wrongType("string", v.typ)
		}
		return any(v.Str()).(T), nil
	default:
		if v.typ != VariantType {
			return zero, wrongType(fmt.Sprintf("%T", zero), v.typ)
		}
		t, ok := v.Variant().(T)
		if !ok {
			return zero, wrongType(fmt.Sprintf("%T", zero), v.typ)
		}
		return t, nil
	}
}

// --- RegisterFn: plain Go signature, automatic Value conversion ---------

// RegisterFn0 registers a zero-argument native returning R.
func RegisterFn0[R any](e *Engine, name string, fn func() R) {
	e.registerFn(name, 0, func(args []Value) (Value, error) {
		return valueOf(fn()), nil
	})
}

// RegisterFn1 registers a one-argument native.
func RegisterFn1[A1, R any](e *Engine, name string, fn func(A1) R) {
	e.registerFn(name, 1, func(args []Value) (Value, error) {
		a1, err := fromValue[A1](args[0])
		if err != nil {
			return Value{}, err
		}
		return valueOf(fn(a1)), nil
	})
}

// RegisterFn2 registers a two-argument native.
func RegisterFn2[A1, A2, R any](e *Engine, name string, fn func(A1, A2) R) {
	e.registerFn(name, 2, func(args []Value) (Value, error) {
		a1, err := fromValue[A1](args[0])
		if err != nil {
			return Value{}, err
		}
		a2, err := fromValue[A2](args[1])
		if err != nil {
			return Value{}, err
		}
		return valueOf(fn(a1, a2)), nil
	})
}

// RegisterFn3 registers a three-argument native.
func RegisterFn3[A1, A2, A3, R any](e *Engine, name string, fn func(A1, A2, A3) R) {
	e.registerFn(name, 3, func(args []Value) (Value, error) {
		a1, err := fromValue[A1](args[0])
		if err != nil {
			return Value{}, err
		}
		a2, err := fromValue[A2](args[1])
		if err != nil {
			return Value{}, err
		}
		a3, err := fromValue[A3](args[2])
		if err != nil {
			return Value{}, err
		}
		return valueOf(fn(a1, a2, a3)), nil
	})
}

// RegisterFn4 registers a four-argument native.
func RegisterFn4[A1, A2, A3, A4, R any](e *Engine, name string, fn func(A1, A2, A3, A4) R) {
	e.registerFn(name, 4, func(args []Value) (Value, error) {
		a1, err := fromValue[A1](args[0])
		if err != nil {
			return Value{}, err
		}
		a2, err := fromValue[A2](args[1])
		if err != nil {
			return Value{}, err
		}
		a3, err := fromValue[A3](args[2])
		if err != nil {
			return Value{}, err
		}
		a4, err := fromValue[A4](args[3])
		if err != nil {
			return Value{}, err
		}
		return valueOf(fn(a1, a2, a3, a4)), nil
	})
}

// --- RegisterDynamicFn: typed args, but the return is already a Value ---
//
// Used for natives whose result type is input-dependent (identity-like
// helpers, container accessors) where wrapping through valueOf would lose
// information already captured in a Value (e.g. preserving an Array's
// backing store instead of re-boxing its elements).

// RegisterDynamicFn1 registers a one-argument native returning Value directly.
func RegisterDynamicFn1[A1 any](e *Engine, name string, fn func(A1) Value) {
	e.registerFn(name, 1, func(args []Value) (Value, error) {
		a1, err := fromValue[A1](args[0])
		if err != nil {
			return Value{}, err
		}
		return fn(a1), nil
	})
}

// RegisterDynamicFn2 registers a two-argument native returning Value directly.
func RegisterDynamicFn2[A1, A2 any](e *Engine, name string, fn func(A1, A2) Value) {
	e.registerFn(name, 2, func(args []Value) (Value, error) {
		a1, err := fromValue[A1](args[0])
		if err != nil {
			return Value{}, err
		}
		a2, err := fromValue[A2](args[1])
		if err != nil {
			return Value{}, err
		}
		return fn(a1, a2), nil
	})
}

// --- RegisterRawFn: full control over argument inspection ---------------

// RegisterRawFn registers a native that receives and returns Values
// directly, with no automatic Go-type conversion. This is the escape hatch
// the typed Register* families don't cover: a single operator name (e.g.
// "+") must dispatch on its operands' *runtime* ValueType, since
// signatureHash carries no type information and a second RegisterFn2
// registration under the same name/arity would just silently overwrite the
// first (exactly like two ordinary Go map assignments to the same key).
func RegisterRawFn(e *Engine, name string, arity int, fn func(args []Value) (Value, error)) {
	e.registerFn(name, arity, fn)
}

// --- RegisterResultFn: Go-idiomatic fallible natives ---------------------

// RegisterResultFn1 registers a one-argument native that can fail. A
// returned *EngineError aborts evaluation with its own kind and the
// call-site position (if it had none); any other returned error is
// reported as ErrorFunctionArgsMismatch at the call site.
func RegisterResultFn1[A1, R any](e *Engine, name string, fn func(A1) (R, error)) {
	e.registerFn(name, 1, func(args []Value) (Value, error) {
		a1, err := fromValue[A1](args[0])
		if err != nil {
			return Value{}, err
		}
		r, err := fn(a1)
		if err != nil {
			return Value{}, err
		}
		return valueOf(r), nil
	})
}

// RegisterResultFn2 registers a two-argument native that can fail.
func RegisterResultFn2[A1, A2, R any](e *Engine, name string, fn func(A1, A2) (R, error)) {
	e.registerFn(name, 2, func(args []Value) (Value, error) {
		a1, err := fromValue[A1](args[0])
		if err != nil {
			return Value{}, err
		}
		a2, err := fromValue[A2](args[1])
		if err != nil {
			return Value{}, err
		}
		r, err := fn(a1, a2)
		if err != nil {
			return Value{}, err
		}
		return valueOf(r), nil
	})
}
