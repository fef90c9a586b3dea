package rhai

import "github.com/appellation/rhai/symbol"

// scopeEntry is one binding on the Scope stack.
type scopeEntry struct {
	name  symbol.ID
	kind  BindingKind
	value Value
}

// Scope is an ordered stack of (name, kind, value) bindings, innermost
// block on top. Lookup is reverse linear search so shadowing falls out for
// free: a nested `let x` simply pushes a new entry over the outer one.
//
// Grounded on the teacher's gql/eval.go callFrame, which keeps the two most
// recent bindings inline (sym0/sym1) before spilling to a slice; that
// micro-optimization target a hot path this engine doesn't share (gql
// resolves columns by row-scoped binding on every row), so Scope here is a
// plain slice — still cheap since push/rewind never allocate once the
// slice's capacity has grown to the deepest scope seen so far.
type Scope struct {
	entries []scopeEntry
}

// NewScope returns an empty Scope.
func NewScope() *Scope { return &Scope{} }

// Len reports the current number of live bindings.
func (s *Scope) Len() int { return len(s.entries) }

// Push appends a new binding and returns the stack depth before the push,
// so the caller can later Rewind back to it.
func (s *Scope) Push(name symbol.ID, kind BindingKind, value Value) int {
	mark := len(s.entries)
	s.entries = append(s.entries, scopeEntry{name: name, kind: kind, value: value})
	return mark
}

// Rewind truncates the stack back to mark, discarding every binding pushed
// since. Blocks/loop-bodies/function-frames call this on every exit path
// (normal, break, continue, return, or error) so that scope never leaks
// between sibling blocks (spec.md §5 Scope lifecycle invariant).
func (s *Scope) Rewind(mark int) {
	s.entries = s.entries[:mark]
}

// find returns the index of the innermost binding named name, or -1.
func (s *Scope) find(name symbol.ID) int {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].name == name {
			return i
		}
	}
	return -1
}

// Get looks up name, reporting whether it resolved.
func (s *Scope) Get(name symbol.ID) (Value, BindingKind, bool) {
	i := s.find(name)
	if i < 0 {
		return Value{}, Normal, false
	}
	e := s.entries[i]
	return e.value, e.kind, true
}

// GetAt fetches the binding ResolvedOffset slots down from the current top
// of stack, the fast path a VariableExpr.HasOffset node takes (spec.md §3).
func (s *Scope) GetAt(offsetFromTop int) (Value, BindingKind) {
	i := len(s.entries) - 1 - offsetFromTop
	e := s.entries[i]
	return e.value, e.kind
}

// SetAt overwrites the value of the binding ResolvedOffset slots down from
// the top of stack. Callers must have already rejected Constant bindings.
func (s *Scope) SetAt(offsetFromTop int, v Value) {
	i := len(s.entries) - 1 - offsetFromTop
	s.entries[i].value = v
}

// Set overwrites the innermost binding named name, reporting whether one
// existed.
func (s *Scope) Set(name symbol.ID, v Value) bool {
	i := s.find(name)
	if i < 0 {
		return false
	}
	s.entries[i].value = v
	return true
}

// Names returns every currently bound name, outermost first, for use by
// AST.ClearFunctions-adjacent inspection and REPL completion.
func (s *Scope) Names() []symbol.ID {
	out := make([]symbol.ID, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.name
	}
	return out
}
