package rhai

import (
	"strings"

	"github.com/appellation/rhai/hash"
	"github.com/appellation/rhai/symbol"
)

// evaluator walks one AST against one Scope. It is not reused across
// concurrent evaluations; Engine.EvalWithScope constructs a fresh one per
// call (spec.md §5 "the scope is owned by the current evaluation and never
// escapes it").
type evaluator struct {
	engine *Engine
	ast    *AST
	scope  *Scope
}

// run evaluates every top-level statement in order, returning the value of
// the last one (spec.md §8 scenario 2). A bare top-level `return expr;`
// ends the program early with that value, matching common script-host
// convention; `break`/`continue` escaping to top level is a defensive
// runtime error since the parser rejects them earlier (spec.md §7).
func (ev *evaluator) run() (Value, error) {
	result := Unit
	for _, st := range ev.ast.Stmts {
		v, err := ev.execStmt(st)
		if err != nil {
			if ee, ok := err.(*EngineError); ok && ee.isSignal() {
				if ee.Kind == signalReturn {
					return ee.Value, nil
				}
				return Value{}, errf(ErrorRuntime, ee.Pos, "break/continue escaped top level")
			}
			return Value{}, err
		}
		result = v
	}
	return result, nil
}

func (ev *evaluator) checkTerminated(pos Position) error {
	if ev.engine.isTerminated() {
		return errf(ErrorTerminated, pos, "")
	}
	return nil
}

// executeBlock runs a block's statements in a fresh scope frame, rewinding
// on every exit path (spec.md §8 "scope length is restored").
func (ev *evaluator) executeBlock(b *BlockStmt) (Value, error) {
	mark := ev.scope.Len()
	defer ev.scope.Rewind(mark)
	result := Unit
	for _, st := range b.Stmts {
		v, err := ev.execStmt(st)
		if err != nil {
			return Value{}, err
		}
		result = v
	}
	return result, nil
}

func asLoopSignal(err error) (isBreak, isContinue bool) {
	ee, ok := err.(*EngineError)
	if !ok || ee.Kind != signalBreak {
		return false, false
	}
	if ee.IsBreak {
		return true, false
	}
	return false, true
}

func asReturnSignal(err error) (Value, bool) {
	ee, ok := err.(*EngineError)
	if !ok || ee.Kind != signalReturn {
		return Value{}, false
	}
	return ee.Value, true
}

func (ev *evaluator) execStmt(st Stmt) (Value, error) {
	if err := ev.checkTerminated(st.Pos()); err != nil {
		return Value{}, err
	}
	switch s := st.(type) {
	case *NoopStmt:
		return Unit, nil

	case *BlockStmt:
		return ev.executeBlock(s)

	case *IfStmt:
		g, err := ev.evalExpr(s.Guard)
		if err != nil {
			return Value{}, err
		}
		gb, err := ev.asBool(g, s.Guard.Pos())
		if err != nil {
			return Value{}, err
		}
		if gb {
			return ev.executeBlock(s.Then)
		}
		if s.Else != nil {
			return ev.execStmt(s.Else)
		}
		return Unit, nil

	case *WhileStmt:
		for {
			if err := ev.checkTerminated(s.Pos()); err != nil {
				return Value{}, err
			}
			g, err := ev.evalExpr(s.Guard)
			if err != nil {
				return Value{}, err
			}
			gb, err := ev.asBool(g, s.Guard.Pos())
			if err != nil {
				return Value{}, err
			}
			if !gb {
				return Unit, nil
			}
			if _, err := ev.executeBlock(s.Body); err != nil {
				isBreak, isCont := asLoopSignal(err)
				if isBreak {
					return Unit, nil
				}
				if isCont {
					continue
				}
				return Value{}, err
			}
		}

	case *LoopStmt:
		for {
			if err := ev.checkTerminated(s.Pos()); err != nil {
				return Value{}, err
			}
			if _, err := ev.executeBlock(s.Body); err != nil {
				isBreak, isCont := asLoopSignal(err)
				if isBreak {
					return Unit, nil
				}
				if isCont {
					continue
				}
				return Value{}, err
			}
		}

	case *ForStmt:
		return ev.execFor(s)

	case *LetStmt:
		v := Unit
		if s.Init != nil {
			var err error
			v, err = ev.evalExpr(s.Init)
			if err != nil {
				return Value{}, err
			}
		}
		ev.scope.Push(s.Name, Normal, v.Clone())
		return Unit, nil

	case *ConstStmt:
		v, err := ev.evalExpr(s.Init)
		if err != nil {
			return Value{}, err
		}
		ev.scope.Push(s.Name, Constant, v.Clone())
		return Unit, nil

	case *ExprStmt:
		return ev.evalExpr(s.X)

	case *ContinueStmt:
		return Value{}, errContinue()

	case *BreakStmt:
		return Value{}, errBreak()

	case *ReturnOrThrowStmt:
		v := Unit
		if s.X != nil {
			var err error
			v, err = ev.evalExpr(s.X)
			if err != nil {
				return Value{}, err
			}
		}
		if s.IsThrow {
			return Value{}, errThrow(s.Pos(), v)
		}
		return Value{}, errReturn(v)

	case *ImportStmt:
		v, err := ev.evalExpr(s.Path)
		if err != nil {
			return Value{}, err
		}
		ev.scope.Push(s.Alias, Module, v)
		return Unit, nil

	case *ExportStmt:
		for _, name := range s.Names {
			if isPrivateFunc(ev.ast, name.Name) {
				return Value{}, errf(ErrorRuntime, s.Pos(), "cannot export private function %q", name.Name.Str())
			}
		}
		return Unit, nil

	default:
		return Value{}, errf(ErrorRuntime, st.Pos(), "unhandled statement %T", st)
	}
}

func (ev *evaluator) execFor(s *ForStmt) (Value, error) {
	iterVal, err := ev.evalExpr(s.Iter)
	if err != nil {
		return Value{}, err
	}
	items, err := ev.iterate(iterVal, s.Pos())
	if err != nil {
		return Value{}, err
	}
	for _, item := range items {
		if err := ev.checkTerminated(s.Pos()); err != nil {
			return Value{}, err
		}
		mark := ev.scope.Push(s.Name, Normal, item.Clone())
		_, err := ev.executeBlock(s.Body)
		ev.scope.Rewind(mark)
		if err != nil {
			isBreak, isCont := asLoopSignal(err)
			if isBreak {
				break
			}
			if isCont {
				continue
			}
			return Value{}, err
		}
	}
	return Unit, nil
}

// iterate produces the element sequence for a `for` loop. Array, String,
// and Map are the only iterables (spec.md §4.4 "the evaluator pushes the
// loop variable"); any other type fails closed with ErrorForMismatch, and
// no iterator can be registered for another type.
func (ev *evaluator) iterate(v Value, pos Position) ([]Value, error) {
	switch v.Type() {
	case ArrayType:
		return append([]Value(nil), v.Array()...), nil
	case StringType:
		s := v.Str()
		out := make([]Value, 0, len(s))
		for _, r := range s {
			out = append(out, NewChar(r))
		}
		return out, nil
	case MapType:
		keys := v.MapKeys()
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = NewString(k)
		}
		return out, nil
	default:
		return nil, errf(ErrorForMismatch, pos, "type %s is not iterable", v.Type())
	}
}

func (ev *evaluator) asBool(v Value, pos Position) (bool, error) {
	if v.Type() != BoolType {
		return false, errf(ErrorBooleanArgMismatch, pos, "expected bool, got %s", v.Type())
	}
	return v.Bool(), nil
}

func (ev *evaluator) evalExpr(e Expr) (Value, error) {
	switch x := e.(type) {
	case *IntConstExpr:
		return NewInt(x.Val), nil
	case *FloatConstExpr:
		return NewFloat(x.Val), nil
	case *CharConstExpr:
		return NewChar(x.Val), nil
	case *StringConstExpr:
		return NewString(x.Val), nil
	case *TrueExpr:
		return True, nil
	case *FalseExpr:
		return False, nil
	case *UnitExpr:
		return Unit, nil
	case *VariableExpr:
		return ev.evalVariable(x)
	case *PropertyExpr:
		return Value{}, errf(ErrorDotExpr, x.Pos(), "property node evaluated outside a chain")
	case *StmtExprExpr:
		return ev.executeBlock(x.Block)
	case *IfExpr:
		g, err := ev.evalExpr(x.Guard)
		if err != nil {
			return Value{}, err
		}
		gb, err := ev.asBool(g, x.Guard.Pos())
		if err != nil {
			return Value{}, err
		}
		if gb {
			return ev.evalExpr(x.Then)
		}
		return ev.evalExpr(x.Else)
	case *FnCallExpr:
		return ev.evalFnCall(x)
	case *AssignExpr:
		return ev.evalAssign(x)
	case *DotExpr, *IndexExpr:
		return ev.evalChainRead(x)
	case *ArrayExpr:
		items := make([]Value, len(x.Items))
		for i, it := range x.Items {
			v, err := ev.evalExpr(it)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return NewArray(items), nil
	case *MapExpr:
		order := make([]string, len(x.Keys))
		vals := make(map[string]Value, len(x.Keys))
		for i, k := range x.Keys {
			v, err := ev.evalExpr(x.Values[i])
			if err != nil {
				return Value{}, err
			}
			order[i] = k
			vals[k] = v
		}
		return NewMap(vals, order), nil
	case *InExpr:
		return ev.evalIn(x)
	case *AndExpr:
		l, err := ev.evalExpr(x.LHS)
		if err != nil {
			return Value{}, err
		}
		lb, err := ev.asBool(l, x.LHS.Pos())
		if err != nil {
			return Value{}, err
		}
		if !lb {
			return False, nil
		}
		r, err := ev.evalExpr(x.RHS)
		if err != nil {
			return Value{}, err
		}
		rb, err := ev.asBool(r, x.RHS.Pos())
		if err != nil {
			return Value{}, err
		}
		return NewBool(rb), nil
	case *OrExpr:
		l, err := ev.evalExpr(x.LHS)
		if err != nil {
			return Value{}, err
		}
		lb, err := ev.asBool(l, x.LHS.Pos())
		if err != nil {
			return Value{}, err
		}
		if lb {
			return True, nil
		}
		r, err := ev.evalExpr(x.RHS)
		if err != nil {
			return Value{}, err
		}
		rb, err := ev.asBool(r, x.RHS.Pos())
		if err != nil {
			return Value{}, err
		}
		return NewBool(rb), nil
	default:
		return Value{}, errf(ErrorRuntime, e.Pos(), "unhandled expression %T", e)
	}
}

func (ev *evaluator) evalVariable(x *VariableExpr) (Value, error) {
	if x.HasOffset {
		v, _ := ev.scope.GetAt(x.ResolvedOffset)
		return v, nil
	}
	if len(x.Qualifier) == 0 {
		if v, kind, ok := ev.scope.Get(x.Name); ok && kind != Module {
			return v, nil
		}
		return Value{}, errf(ErrorRuntime, x.Pos(), "variable %q not found", x.Name.Str())
	}
	return ev.evalQualifiedVariable(x)
}

// evalQualifiedVariable implements spec.md §9's "a::b::f resolves a by
// module-kind lookup in the scope, then chases the path in the value":
// an imported module is represented as a Map value, and each further
// qualifier segment is a key lookup into it.
func (ev *evaluator) evalQualifiedVariable(x *VariableExpr) (Value, error) {
	first := x.Qualifier[0]
	cur, kind, ok := ev.scope.Get(first)
	if !ok || kind != Module {
		return Value{}, errf(ErrorRuntime, x.Pos(), "module %q not found", first.Str())
	}
	for _, seg := range x.Qualifier[1:] {
		if cur.Type() != MapType {
			return Value{}, errf(ErrorIndexNotFound, x.Pos(), "module member %q not found", seg.Str())
		}
		v, found := cur.MapGet(seg.Str())
		if !found {
			return Value{}, errf(ErrorIndexNotFound, x.Pos(), "module member %q not found", seg.Str())
		}
		cur = v
	}
	if cur.Type() != MapType {
		return Value{}, errf(ErrorIndexNotFound, x.Pos(), "module member %q not found", x.Name.Str())
	}
	v, found := cur.MapGet(x.Name.Str())
	if !found {
		return Value{}, errf(ErrorIndexNotFound, x.Pos(), "module member %q not found", x.Name.Str())
	}
	return v, nil
}

// isPrivateFunc reports whether ast declares a `private fn` under name, for
// any arity (spec.md §4.2's Export resolution: "a private function cannot
// be named in an export list").
func isPrivateFunc(ast *AST, name symbol.ID) bool {
	for _, sf := range ast.Funcs {
		if sf.Name == name && sf.Private {
			return true
		}
	}
	return false
}

// lookupCallable resolves a signature hash against the AST's private
// script-function library first, then the engine's global native/stdlib
// table (spec.md §4.3 "script and native share the table").
func (ev *evaluator) lookupCallable(h hash.Hash) (*funcEntry, bool) {
	if sf, ok := ev.ast.Funcs[h]; ok {
		return &funcEntry{hash: h, name: sf.Name, arity: len(sf.Params), script: sf}, true
	}
	return ev.engine.natives.lookup(h)
}

func (ev *evaluator) evalFnCall(x *FnCallExpr) (Value, error) {
	args := make([]Value, len(x.Args))
	for i, a := range x.Args {
		v, err := ev.evalExpr(a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	entry, ok := ev.lookupCallable(x.Hash)
	if !ok {
		if x.Default != nil {
			return *x.Default, nil
		}
		return Value{}, errf(ErrorFunctionNotFound, x.Pos(), "%s/%d", x.Name.Str(), len(args))
	}
	return ev.invoke(entry, args, x.Pos())
}

// invoke calls either a script function (fresh frame, Return signal mapped
// to its value) or a native (uniform nativeFn signature), stamping the
// call-site position on any error that doesn't already carry one (spec.md
// §7).
func (ev *evaluator) invoke(entry *funcEntry, args []Value, pos Position) (Value, error) {
	if entry.script != nil {
		return ev.callScript(entry.script, args, pos)
	}
	if len(args) != entry.arity {
		return Value{}, errf(ErrorFunctionArgsMismatch, pos, "%s: expected %d args, got %d", entry.name.Str(), entry.arity, len(args))
	}
	v, err := entry.native(args)
	if err != nil {
		if ee, ok := err.(*EngineError); ok {
			return Value{}, withCallSitePosition(ee, pos)
		}
		return Value{}, errf(ErrorFunctionArgsMismatch, pos, "%s: %v", entry.name.Str(), err)
	}
	return v, nil
}

func (ev *evaluator) callScript(sf *ScriptFunc, args []Value, pos Position) (Value, error) {
	if len(args) != len(sf.Params) {
		return Value{}, errf(ErrorFunctionArgsMismatch, pos, "%s: expected %d args, got %d", sf.Name.Str(), len(sf.Params), len(args))
	}
	savedScope := ev.scope
	ev.scope = NewScope()
	for i, p := range sf.Params {
		ev.scope.Push(p, Normal, args[i].Clone())
	}
	v, err := ev.executeBlock(sf.Body)
	ev.scope = savedScope
	if err != nil {
		if rv, ok := asReturnSignal(err); ok {
			return rv, nil
		}
		if ee, ok := err.(*EngineError); ok {
			return Value{}, withCallSitePosition(ee, pos)
		}
		return Value{}, err
	}
	return v, nil
}

// --- Chain (dot/index) read and write ------------------------------------

func (ev *evaluator) evalChainRead(e Expr) (Value, error) {
	switch x := e.(type) {
	case *DotExpr:
		lhs, err := ev.evalExpr(x.LHS)
		if err != nil {
			return Value{}, err
		}
		return ev.readProp(lhs, x.RHS, x.Pos())
	case *IndexExpr:
		lhs, err := ev.evalExpr(x.LHS)
		if err != nil {
			return Value{}, err
		}
		idx, err := ev.evalExpr(x.RHS)
		if err != nil {
			return Value{}, err
		}
		return ev.readIndex(lhs, idx, x.Pos())
	}
	return Value{}, errf(ErrorDotExpr, e.Pos(), "not a chain node")
}

func (ev *evaluator) readProp(container Value, rhs Expr, pos Position) (Value, error) {
	switch r := rhs.(type) {
	case *PropertyExpr:
		if container.Type() == MapType {
			if v, ok := container.MapGet(r.Name.Str()); ok {
				return v, nil
			}
			return Value{}, errf(ErrorIndexNotFound, pos, "no property %q", r.Name.Str())
		}
		entry, ok := ev.lookupCallable(r.GetterHash)
		if !ok {
			return Value{}, errf(ErrorDotExpr, pos, "no getter for %q on %s", r.Name.Str(), container.Type())
		}
		return ev.invoke(entry, []Value{container}, pos)
	case *FnCallExpr:
		args := make([]Value, len(r.Args)+1)
		args[0] = container
		for i, a := range r.Args {
			v, err := ev.evalExpr(a)
			if err != nil {
				return Value{}, err
			}
			args[i+1] = v
		}
		entry, ok := ev.lookupCallable(r.Hash)
		if !ok {
			if r.Default != nil {
				return *r.Default, nil
			}
			return Value{}, errf(ErrorFunctionNotFound, pos, "%s/%d", r.Name.Str(), len(args))
		}
		return ev.invoke(entry, args, pos)
	default:
		return Value{}, errf(ErrorDotExpr, pos, "invalid right-hand side of `.`")
	}
}

func (ev *evaluator) readIndex(container, idx Value, pos Position) (Value, error) {
	switch container.Type() {
	case ArrayType:
		if idx.Type() != IntType {
			return Value{}, errf(ErrorArrayBounds, pos, "array index must be int")
		}
		arr := container.Array()
		i := int(idx.Int())
		if i < 0 || i >= len(arr) {
			return Value{}, errf(ErrorArrayBounds, pos, "index %d out of bounds", i)
		}
		return arr[i], nil
	case MapType:
		if idx.Type() != StringType {
			return Value{}, errf(ErrorIndexNotFound, pos, "map index must be string")
		}
		if v, ok := container.MapGet(idx.Str()); ok {
			return v, nil
		}
		return Value{}, errf(ErrorIndexNotFound, pos, "no key %q", idx.Str())
	case StringType:
		if idx.Type() != IntType {
			return Value{}, errf(ErrorStringBounds, pos, "string index must be int")
		}
		runes := []rune(container.Str())
		i := int(idx.Int())
		if i < 0 || i >= len(runes) {
			return Value{}, errf(ErrorStringBounds, pos, "index %d out of bounds", i)
		}
		return NewChar(runes[i]), nil
	default:
		return Value{}, errf(ErrorIndexNotFound, pos, "type %s is not indexable", container.Type())
	}
}

func (ev *evaluator) evalAssign(x *AssignExpr) (Value, error) {
	val, err := ev.evalExpr(x.Value)
	if err != nil {
		return Value{}, err
	}
	// val may alias an Array/Map another binding already owns (`b = a;`,
	// `a[0] = b;`); Clone bumps its refcount so ArraySet/MapSet's
	// copy-on-write branch fires instead of silently mutating both.
	val = val.Clone()
	if err := ev.assignToChain(x.Target, val); err != nil {
		return Value{}, err
	}
	return val, nil
}

// assignToChain implements the write side of the chain engine (spec.md
// §4.4): it reads down to the penultimate container, computes the new
// (possibly copy-on-write-rebound) container value, then recurses upward
// to write that new container back into its own parent place, terminating
// at a Variable root.
func (ev *evaluator) assignToChain(target Expr, val Value) error {
	switch t := target.(type) {
	case *VariableExpr:
		return ev.writeVariable(t, val)

	case *DotExpr:
		prop, ok := t.RHS.(*PropertyExpr)
		if !ok {
			return errf(ErrorDotExpr, t.Pos(), "dot assignment target is not a property")
		}
		container, err := ev.evalExpr(t.LHS)
		if err != nil {
			return err
		}
		var newContainer Value
		if container.Type() == MapType {
			nc, err := container.MapSet(prop.Name.Str(), val)
			if err != nil {
				return withCallSitePosition(err.(*EngineError), t.Pos())
			}
			newContainer = nc
		} else {
			entry, ok := ev.lookupCallable(prop.SetterHash)
			if !ok {
				return errf(ErrorDotExpr, t.Pos(), "no setter for %q on %s", prop.Name.Str(), container.Type())
			}
			if _, err := ev.invoke(entry, []Value{container, val}, t.Pos()); err != nil {
				return err
			}
			newContainer = container
		}
		return ev.assignToChain(t.LHS, newContainer)

	case *IndexExpr:
		container, err := ev.evalExpr(t.LHS)
		if err != nil {
			return err
		}
		idx, err := ev.evalExpr(t.RHS)
		if err != nil {
			return err
		}
		var newContainer Value
		switch container.Type() {
		case ArrayType:
			if idx.Type() != IntType {
				return errf(ErrorArrayBounds, t.Pos(), "array index must be int")
			}
			nc, err := container.ArraySet(int(idx.Int()), val)
			if err != nil {
				return withCallSitePosition(err.(*EngineError), t.Pos())
			}
			newContainer = nc
		case MapType:
			if idx.Type() != StringType {
				return errf(ErrorIndexNotFound, t.Pos(), "map index must be string")
			}
			nc, err := container.MapSet(idx.Str(), val)
			if err != nil {
				return withCallSitePosition(err.(*EngineError), t.Pos())
			}
			newContainer = nc
		default:
			return errf(ErrorIndexNotFound, t.Pos(), "type %s does not support index assignment", container.Type())
		}
		return ev.assignToChain(t.LHS, newContainer)

	default:
		return errf(ErrorDotExpr, target.Pos(), "not assignable")
	}
}

func (ev *evaluator) writeVariable(t *VariableExpr, val Value) error {
	if t.HasOffset {
		_, kind := ev.scope.GetAt(t.ResolvedOffset)
		if kind == Constant {
			return errf(ErrorAssignmentToConstant, t.Pos(), "%s", t.Name.Str())
		}
		ev.scope.SetAt(t.ResolvedOffset, val)
		return nil
	}
	if _, kind, ok := ev.scope.Get(t.Name); ok {
		if kind == Constant {
			return errf(ErrorAssignmentToConstant, t.Pos(), "%s", t.Name.Str())
		}
		ev.scope.Set(t.Name, val)
		return nil
	}
	return errf(ErrorRuntime, t.Pos(), "variable %q not found", t.Name.Str())
}

// --- `in` operator ----------------------------------------------------------

func (ev *evaluator) evalIn(x *InExpr) (Value, error) {
	l, err := ev.evalExpr(x.LHS)
	if err != nil {
		return Value{}, err
	}
	r, err := ev.evalExpr(x.RHS)
	if err != nil {
		return Value{}, err
	}
	switch r.Type() {
	case StringType:
		var needle string
		switch l.Type() {
		case CharType:
			needle = string(l.Char())
		case StringType:
			needle = l.Str()
		default:
			return Value{}, errf(ErrorInExpr, x.Pos(), "left side of `in` over a string must be char or string")
		}
		return NewBool(strings.Contains(r.Str(), needle)), nil
	case ArrayType:
		for _, elem := range r.Array() {
			if ev.valuesEqual(elem, l, x.Pos()) {
				return True, nil
			}
		}
		return False, nil
	case MapType:
		if l.Type() != StringType {
			return Value{}, errf(ErrorInExpr, x.Pos(), "map membership test requires a string key")
		}
		_, ok := r.MapGet(l.Str())
		return NewBool(ok), nil
	default:
		return Value{}, errf(ErrorInExpr, x.Pos(), "right side of `in` must be string, array, or map")
	}
}

// valuesEqual dispatches through the registered `==` operator, returning
// false (never an error) when no operator is registered for the operand
// types — spec.md §4.4 "uses the registered == for the element type
// (returns false on absence of an operator)".
func (ev *evaluator) valuesEqual(a, b Value, pos Position) bool {
	h := signatureHash(nil, symbol.Intern("=="), 2)
	entry, ok := ev.lookupCallable(h)
	if !ok {
		return false
	}
	v, err := ev.invoke(entry, []Value{a, b}, pos)
	if err != nil || v.Type() != BoolType {
		return false
	}
	return v.Bool()
}
