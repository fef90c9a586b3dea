package rhai

//go:generate stringer -type ValueType value_type.go

// ValueType identifies the dynamic type tag carried by every Value. The set
// is closed: Unit, Bool, Int, Float, Char, String, Array, Map, Variant (spec
// §3). There is no separate function type: the language has no first-class
// function values, only named calls dispatched through the function table.
type ValueType byte

const (
	// InvalidType is the zero value; a default-constructed Value is not a
	// valid value at all (Value.Valid() reports false for it).
	InvalidType ValueType = iota
	// UnitType is the single-inhabitant "no value" type, written `()`.
	UnitType
	// BoolType represents true/false.
	BoolType
	// IntType represents a platform-configured signed integer (32 or 64
	// bits, see Engine.Opts.OnlyI32).
	IntType
	// FloatType represents a 64-bit float. When Engine.Opts.NoFloat is set
	// the parser rejects float literals; natives can still return floats.
	FloatType
	// CharType represents a single Unicode code point.
	CharType
	// StringType represents an immutable-by-default, shared string.
	StringType
	// ArrayType represents an ordered sequence of Value, copy-on-write.
	ArrayType
	// MapType represents a string-keyed mapping to Value, copy-on-write,
	// insertion order not observable to scripts.
	MapType
	// VariantType represents an opaque host-provided value, carrying a
	// reflect.Type identity token plus the boxed payload.
	VariantType
)

func (t ValueType) String() string {
	switch t {
	case InvalidType:
		return "invalid"
	case UnitType:
		return "()"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case CharType:
		return "char"
	case StringType:
		return "string"
	case ArrayType:
		return "array"
	case MapType:
		return "map"
	case VariantType:
		return "variant"
	default:
		return "unknown"
	}
}
