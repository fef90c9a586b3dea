package stdlib

import (
	"github.com/appellation/rhai/rhai"
)

// RegisterMaps wires the map natives: keys/values. A Map's `.field`
// read/write sugar is handled natively by the chain engine (rhai/eval.go's
// evalChainRead/assignToChain), so this bundle only needs to cover the
// method-call surface spec.md §4.3 lists (`m.keys()`, ...), not property
// access itself. len, is_empty, contains, and remove are polymorphic across
// strings/arrays/maps and so are registered once in core.go instead of here.
func RegisterMaps(e *rhai.Engine) {
	rhai.RegisterDynamicFn1(e, "keys", func(v rhai.Value) rhai.Value {
		keys := v.MapKeys()
		elems := make([]rhai.Value, len(keys))
		for i, k := range keys {
			elems[i] = rhai.NewString(k)
		}
		return rhai.NewArray(elems)
	})
	rhai.RegisterDynamicFn1(e, "values", func(v rhai.Value) rhai.Value {
		keys := v.MapKeys()
		elems := make([]rhai.Value, len(keys))
		for i, k := range keys {
			elems[i], _ = v.MapGet(k)
		}
		return rhai.NewArray(elems)
	})
}
