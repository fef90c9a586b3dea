package rhai

import (
	"github.com/appellation/rhai/hash"
	"github.com/appellation/rhai/symbol"
)

// Merge combines two compiled ASTs into one, as when a host links a
// library script against a main script (spec.md §8 tested invariant:
// "merging two ASTs, the right-hand AST's same-signature function
// overrides the left-hand one's"). The receiver's statements run first,
// then other's; other's function entries win on a hash collision, exactly
// the map-assignment overwrite semantics signatureHash already documents
// for a single FuncTable.
func (a *AST) Merge(other *AST) *AST {
	stmts := make([]Stmt, 0, len(a.Stmts)+len(other.Stmts))
	stmts = append(stmts, a.Stmts...)
	stmts = append(stmts, other.Stmts...)

	funcs := make(map[hash.Hash]*ScriptFunc, len(a.Funcs)+len(other.Funcs))
	for h, sf := range a.Funcs {
		funcs[h] = sf
	}
	for h, sf := range other.Funcs {
		funcs[h] = sf
	}
	return &AST{Stmts: stmts, Funcs: funcs}
}

// ClearFunctions drops every script function from ast, keeping only its
// top-level statements. Used when a host wants to run a script's
// side-effecting body without exposing its `fn` library to later merges.
func (a *AST) ClearFunctions() {
	a.Funcs = map[hash.Hash]*ScriptFunc{}
}

// RetainFunctions keeps only the functions whose name satisfies keep,
// dropping the rest. Grounded on FuncTable.retain (func.go), which performs
// the identical filter for the Engine's native/stdlib table; AST.Funcs is a
// bare map rather than a *FuncTable since an AST's function library is
// parser-private and never needs the table's RWMutex.
func (a *AST) RetainFunctions(keep func(name symbol.ID) bool) {
	for h, sf := range a.Funcs {
		if !keep(sf.Name) {
			delete(a.Funcs, h)
		}
	}
}
