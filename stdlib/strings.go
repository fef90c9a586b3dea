package stdlib

import (
	"fmt"
	"strings"

	"github.com/appellation/rhai/rhai"
)

// RegisterStrings wires the string-manipulation natives, grounded on the
// teacher's builtin_ops.go string helpers (string_len, substring,
// string_replace, string_has_prefix/suffix, string_count, sprintf), carried
// over under rhai-flavored names (sub_string/replace/...). len and contains
// are polymorphic across strings/arrays/maps and so are registered once in
// core.go instead of here.
func RegisterStrings(e *rhai.Engine) {
	rhai.RegisterFn1(e, "to_upper", strings.ToUpper)
	rhai.RegisterFn1(e, "to_lower", strings.ToLower)
	rhai.RegisterFn1(e, "trim", strings.TrimSpace)
	rhai.RegisterFn2(e, "starts_with", func(s, prefix string) bool { return strings.HasPrefix(s, prefix) })
	rhai.RegisterFn2(e, "ends_with", func(s, suffix string) bool { return strings.HasSuffix(s, suffix) })
	rhai.RegisterFn2(e, "count_matches", func(s, substr string) int64 { return int64(strings.Count(s, substr)) })
	rhai.RegisterFn3(e, "replace", func(s, old, new string) string { return strings.Replace(s, old, new, -1) })

	rhai.RegisterRawFn(e, "sub_string", 2, func(args []rhai.Value) (rhai.Value, error) { return subString(args[0], args[1], nil) })
	rhai.RegisterRawFn(e, "sub_string", 3, func(args []rhai.Value) (rhai.Value, error) { return subString(args[0], args[1], &args[2]) })

	rhai.RegisterFn2(e, "split", func(s, sep string) rhai.Value {
		parts := strings.Split(s, sep)
		elems := make([]rhai.Value, len(parts))
		for i, p := range parts {
			elems[i] = rhai.NewString(p)
		}
		return rhai.NewArray(elems)
	})

	rhai.RegisterRawFn(e, "to_string", 1, func(args []rhai.Value) (rhai.Value, error) {
		return rhai.NewString(toDisplayString(args[0])), nil
	})

	rhai.RegisterRawFn(e, "print", 1, func(args []rhai.Value) (rhai.Value, error) {
		fmt.Println(toDisplayString(args[0]))
		return rhai.Unit, nil
	})
}

func toDisplayString(v rhai.Value) string {
	if v.Type() == rhai.StringType {
		return v.Str()
	}
	return v.String()
}

func subString(src, fromV rhai.Value, toV *rhai.Value) (rhai.Value, error) {
	if src.Type() != rhai.StringType || fromV.Type() != rhai.IntType {
		return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorStringBounds, Msg: "sub_string expects (string, int[, int])"}
	}
	s := src.Str()
	from := fromV.Int()
	to := int64(len(s))
	if toV != nil {
		if toV.Type() != rhai.IntType {
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorStringBounds, Msg: "sub_string expects an int end offset"}
		}
		to = toV.Int()
	}
	if to > int64(len(s)) {
		to = int64(len(s))
	}
	if from < 0 || from > to {
		return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorStringBounds}
	}
	return rhai.NewString(s[from:to]), nil
}
