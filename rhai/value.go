package rhai

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync/atomic"
	"unsafe"

	"github.com/appellation/rhai/hash"
)

// Value is a unified, compact representation of a dynamically-typed script
// value. It is cheaply clonable: scalars are copied by value, aggregates
// (Array, Map) are clone-shared and only actually duplicated at the point a
// mutation would otherwise be observed through another reference
// (copy-on-write), exactly as spec.md §3/§9 describes.
//
// This is grounded on the teacher's (grailbio/gql) Value struct shape
// (typ + uint64 payload + unsafe.Pointer), narrowed to the spec's closed
// 9-variant set (no Date/Duration/Struct/Table/Func/FileName/Enum).
type Value struct {
	typ ValueType
	v   uint64
	p   unsafe.Pointer
}

// Valid reports whether v stores a real value. Only a default-constructed
// Value{} returns false; Unit is a valid value.
func (v Value) Valid() bool { return v.typ != InvalidType }

// Type returns v's dynamic type tag.
func (v Value) Type() ValueType { return v.typ }

// Unit is the singleton `()` value.
var Unit = Value{typ: UnitType}

// NewBool creates a Bool value.
func NewBool(b bool) Value {
	if b {
		return Value{typ: BoolType, v: 1}
	}
	return Value{typ: BoolType, v: 0}
}

// True and False are the two Bool singletons.
var (
	True  = NewBool(true)
	False = NewBool(false)
)

// Bool extracts the boolean payload.
//
// REQUIRES: v.Type() == BoolType.
func (v Value) Bool() bool {
	if v.typ != BoolType {
		panic(wrongType("bool", v.typ))
	}
	return v.v != 0
}

// NewInt creates an Int value.
func NewInt(i int64) Value {
	return Value{typ: IntType, v: uint64(i)}
}

// Int extracts the integer payload.
//
// REQUIRES: v.Type() == IntType.
func (v Value) Int() int64 {
	if v.typ != IntType {
		panic(wrongType("int", v.typ))
	}
	return int64(v.v)
}

// NewFloat creates a Float value.
func NewFloat(f float64) Value {
	return Value{typ: FloatType, v: *(*uint64)(unsafe.Pointer(&f))}
}

// Float extracts the float payload.
//
// REQUIRES: v.Type() == FloatType.
func (v Value) Float() float64 {
	if v.typ != FloatType {
		panic(wrongType("float", v.typ))
	}
	return *(*float64)(unsafe.Pointer(&v.v))
}

// NewChar creates a Char value.
func NewChar(r rune) Value {
	return Value{typ: CharType, v: uint64(r)}
}

// Char extracts the rune payload.
//
// REQUIRES: v.Type() == CharType.
func (v Value) Char() rune {
	if v.typ != CharType {
		panic(wrongType("char", v.typ))
	}
	return rune(v.v)
}

// NewString creates a String value. The backing string is treated as
// immutable; scripts that "mutate" a string always produce a new one.
func NewString(s string) Value {
	return Value{typ: StringType, p: unsafe.Pointer(&s)}
}

// Str extracts the string payload.
//
// REQUIRES: v.Type() == StringType.
func (v Value) Str() string {
	if v.typ != StringType {
		panic(wrongType("string", v.typ))
	}
	return *(*string)(v.p)
}

// arrayData is the copy-on-write backing store for an Array value. refs
// counts how many Value structs currently share this *arrayData; a mutation
// site that observes refs > 1 must clone before writing.
type arrayData struct {
	refs  int32
	elems []Value
}

// NewArray creates an Array value from the given elements. The slice is
// taken by reference (not copied): callers must not retain and mutate it
// afterwards except through the returned Value's mutation API.
func NewArray(elems []Value) Value {
	return Value{typ: ArrayType, p: unsafe.Pointer(&arrayData{refs: 1, elems: elems})}
}

func (v Value) arrayData() *arrayData {
	if v.typ != ArrayType {
		panic(wrongType("array", v.typ))
	}
	return (*arrayData)(v.p)
}

// Array returns the element slice. The caller must not mutate it in place;
// use ArraySet/ArrayPush (via the engine's chain-write path) instead, which
// honor copy-on-write.
func (v Value) Array() []Value {
	return v.arrayData().elems
}

// ArraySet writes elems[idx] = val, cloning the backing store first if it is
// shared with another Value. Returns the (possibly new) Value; callers must
// replace their binding with the returned Value.
func (v Value) ArraySet(idx int, val Value) (Value, error) {
	ad := v.arrayData()
	if idx < 0 || idx >= len(ad.elems) {
		return Value{}, &EngineError{Kind: ErrorArrayBounds, Pos: NoPosition}
	}
	if atomic.LoadInt32(&ad.refs) > 1 {
		cloned := make([]Value, len(ad.elems))
		copy(cloned, ad.elems)
		atomic.AddInt32(&ad.refs, -1)
		ad = &arrayData{refs: 1, elems: cloned}
	}
	ad.elems[idx] = val
	return Value{typ: ArrayType, p: unsafe.Pointer(ad)}, nil
}

// mapEntry preserves insertion order for iteration/Display purposes, though
// spec.md §3 says order is not semantically observable.
type mapEntry struct {
	key string
	val Value
}

// mapData is the copy-on-write backing store for a Map value.
type mapData struct {
	refs    int32
	entries []mapEntry
	index   map[string]int
}

// NewMap creates a Map value from the given key order and key->value pairs.
func NewMap(entries map[string]Value, order []string) Value {
	md := &mapData{refs: 1, index: make(map[string]int, len(order))}
	for _, k := range order {
		md.index[k] = len(md.entries)
		md.entries = append(md.entries, mapEntry{key: k, val: entries[k]})
	}
	return Value{typ: MapType, p: unsafe.Pointer(md)}
}

func (v Value) mapData() *mapData {
	if v.typ != MapType {
		panic(wrongType("map", v.typ))
	}
	return (*mapData)(v.p)
}

// MapGet looks up key, returning (value, found).
func (v Value) MapGet(key string) (Value, bool) {
	md := v.mapData()
	i, ok := md.index[key]
	if !ok {
		return Value{}, false
	}
	return md.entries[i].val, true
}

// MapKeys returns the keys in insertion order.
func (v Value) MapKeys() []string {
	md := v.mapData()
	keys := make([]string, len(md.entries))
	for i, e := range md.entries {
		keys[i] = e.key
	}
	return keys
}

// MapLen returns the number of entries.
func (v Value) MapLen() int { return len(v.mapData().entries) }

// MapSet writes key->val, cloning the backing store first if shared. The key
// must already exist (the chain engine's write path looks up the accessor
// before writing); adding brand-new keys is done at Map-literal construction
// time only, matching spec.md's closed chain-write semantics.
func (v Value) MapSet(key string, val Value) (Value, error) {
	md := v.mapData()
	i, ok := md.index[key]
	if !ok {
		return Value{}, &EngineError{Kind: ErrorIndexNotFound, Pos: NoPosition}
	}
	if atomic.LoadInt32(&md.refs) > 1 {
		cloned := make([]mapEntry, len(md.entries))
		copy(cloned, md.entries)
		idx := make(map[string]int, len(md.index))
		for k, v := range md.index {
			idx[k] = v
		}
		atomic.AddInt32(&md.refs, -1)
		md = &mapData{refs: 1, entries: cloned, index: idx}
		i = md.index[key]
	}
	md.entries[i].val = val
	return Value{typ: MapType, p: unsafe.Pointer(md)}, nil
}

// variantData boxes an opaque host value along with its type-identity token.
type variantData struct {
	typ     reflect.Type
	payload interface{}
}

// NewVariant creates an opaque host value, e.g. a time.Time returned by the
// time stdlib bundle. The type identity token is payload's dynamic type.
func NewVariant(payload interface{}) Value {
	return Value{typ: VariantType, p: unsafe.Pointer(&variantData{typ: reflect.TypeOf(payload), payload: payload})}
}

// Variant extracts the boxed host payload.
//
// REQUIRES: v.Type() == VariantType.
func (v Value) Variant() interface{} {
	if v.typ != VariantType {
		panic(wrongType("variant", v.typ))
	}
	return (*variantData)(v.p).payload
}

// VariantTypeID returns the reflect.Type identity token of a Variant value,
// or nil for any other type.
func (v Value) VariantTypeID() reflect.Type {
	if v.typ != VariantType {
		return nil
	}
	return (*variantData)(v.p).typ
}

// Clone returns a Value that shares any aggregate backing store with v but
// is safe to hand out as an independent binding: subsequent mutation of
// either copy triggers copy-on-write (see ArraySet/MapSet).
func (v Value) Clone() Value {
	switch v.typ {
	case ArrayType:
		atomic.AddInt32(&v.arrayData().refs, 1)
	case MapType:
		atomic.AddInt32(&v.mapData().refs, 1)
	}
	return v
}

// TypeID returns a comparable identity for v's runtime type. For
// Variant values this is the boxed payload's concrete Go type; for every
// other variant it is the ValueType tag itself.
func (v Value) TypeID() interface{} {
	if v.typ == VariantType {
		return v.VariantTypeID()
	}
	return v.typ
}

// Hash computes a content hash of v, used by the `==` operator's default
// implementation for array/map elements (spec.md §4.4 "In" semantics) and by
// the contains native's array element match (stdlib/core.go).
func (v Value) Hash() hash.Hash {
	switch v.typ {
	case InvalidType, UnitType:
		return hash.String("()")
	case BoolType:
		if v.Bool() {
			return hash.String("true")
		}
		return hash.String("false")
	case IntType:
		return hash.Uint64(uint64(v.Int()))
	case FloatType:
		return hash.Uint64(v.v)
	case CharType:
		return hash.Uint64(uint64(v.Char()))
	case StringType:
		return hash.String(v.Str())
	case ArrayType:
		h := hash.String("[array]")
		for _, e := range v.Array() {
			h = h.Merge(e.Hash())
		}
		return h
	case MapType:
		h := hash.String("[map]")
		for _, k := range v.MapKeys() {
			val, _ := v.MapGet(k)
			h = h.Add(hash.String(k).Merge(val.Hash()))
		}
		return h
	case VariantType:
		return hash.String(fmt.Sprintf("%v", v.Variant()))
	default:
		return 0
	}
}

// String renders v for diagnostics/display. It is not guaranteed to be valid
// rhai source (e.g. arrays/maps use Go-flavored separators), matching the
// teacher's own ASTNode.String() disclaimer.
func (v Value) String() string {
	switch v.typ {
	case InvalidType:
		return "<invalid>"
	case UnitType:
		return "()"
	case BoolType:
		return fmt.Sprintf("%v", v.Bool())
	case IntType:
		return fmt.Sprintf("%d", v.Int())
	case FloatType:
		return fmt.Sprintf("%v", v.Float())
	case CharType:
		return fmt.Sprintf("%q", v.Char())
	case StringType:
		return v.Str()
	case ArrayType:
		parts := make([]string, len(v.Array()))
		for i, e := range v.Array() {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case MapType:
		keys := v.MapKeys()
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			val, _ := v.MapGet(k)
			parts[i] = fmt.Sprintf("%s: %s", k, val.String())
		}
		return "#{" + strings.Join(parts, ", ") + "}"
	case VariantType:
		return fmt.Sprintf("%v", v.Variant())
	default:
		return "<unknown>"
	}
}

func wrongType(expected string, got ValueType) error {
	return fmt.Errorf("expected value of type %s, got %v", expected, got)
}
