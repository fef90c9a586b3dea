package stdlib

import "github.com/appellation/rhai/rhai"

// RegisterAll wires every stdlib bundle into e. Hosts that want a narrower
// surface (e.g. Opts.NoFloat is set, or a sandboxed embedding that doesn't
// want the time bundle's wall-clock access) call the individual Register*
// functions directly instead.
func RegisterAll(e *rhai.Engine) {
	RegisterArithmetic(e)
	RegisterCore(e)
	RegisterStrings(e)
	RegisterArrays(e)
	RegisterMaps(e)
	RegisterTime(e)
}
