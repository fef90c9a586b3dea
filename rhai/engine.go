package rhai

import (
	"sync/atomic"

	"github.com/appellation/rhai/symbol"
)

// Opts configures an Engine. These were compile-time feature toggles in
// the source; here they are runtime construction options (spec.md §6).
type Opts struct {
	// OnlyI32 narrows the integer width exposed to scripts to 32 bits.
	// The core Value representation still stores int64; this flag only
	// gates the bounds check natives perform (wired in stdlib/arithmetic.go).
	OnlyI32 bool
	// NoFloat disables float literals and the `no_float`-gated constructs.
	NoFloat bool
	// NoIndex disables array literals and `[]` indexing.
	NoIndex bool
	// NoObject disables map literals and `.` property/method access.
	NoObject bool
	// NoModule disables `import`/`export`/`::`.
	NoModule bool
	// NoFunction disables `fn` declarations.
	NoFunction bool
	// Unchecked skips arithmetic overflow checks and similar guards.
	Unchecked bool
	// Sync enables the shared-ownership evaluation mode described in
	// spec.md §5, required before EvalConcurrently (concurrency.go) may be
	// used safely from more than one goroutine against the same Engine.
	Sync bool
}

// Engine is the host-facing entry point: it owns the global native
// function library (populated by RegisterFn/RegisterDynamicFn/
// RegisterResultFn and by the stdlib bundles) and compiles/evaluates
// scripts against it (spec.md §6).
//
// Grounded on the teacher's gql.Opts/Session split (gql/gql.go): one
// struct holds feature flags, a second separately-constructed value owns
// registered state, mirrored here as Opts and Engine.
type Engine struct {
	Opts *Opts

	natives    *FuncTable
	terminated int32 // atomic flag, spec.md §5 cooperative cancellation
}

// NewEngine constructs an Engine with default options (nothing disabled,
// 64-bit ints, float enabled, single-threaded ownership).
func NewEngine() *Engine {
	return &Engine{Opts: &Opts{}, natives: newFuncTable()}
}

// NewEngineWithOpts constructs an Engine under the given options.
func NewEngineWithOpts(opts Opts) *Engine {
	return &Engine{Opts: &opts, natives: newFuncTable()}
}

func (e *Engine) registerFn(name string, arity int, fn nativeFn) {
	e.natives.registerNative(nil, symbol.Intern(name), arity, fn)
}

// Terminate sets the cooperative cancellation flag consulted between
// statements (spec.md §5); the next statement boundary raises
// ErrorTerminated.
func (e *Engine) Terminate() { atomic.StoreInt32(&e.terminated, 1) }

// Reset clears a previously set Terminate flag, allowing the Engine to run
// further scripts.
func (e *Engine) Reset() { atomic.StoreInt32(&e.terminated, 0) }

func (e *Engine) isTerminated() bool { return atomic.LoadInt32(&e.terminated) != 0 }

// Compile parses source into an AST using this Engine's Opts, without
// evaluating it. The returned AST has already been through Optimize, so it
// is immutable from here on and safe to share across EvalConcurrently's
// parallel scopes (spec.md §5).
func (e *Engine) Compile(source string) (*AST, error) {
	ast, err := Parse("<script>", source, e.Opts)
	if err != nil {
		return nil, err
	}
	return Optimize(ast), nil
}

// Eval compiles and evaluates source in a fresh Scope, returning the value
// of its last expression statement.
func (e *Engine) Eval(source string) (Value, error) {
	ast, err := e.Compile(source)
	if err != nil {
		return Value{}, err
	}
	return e.EvalAST(ast)
}

// EvalAST evaluates a previously compiled AST in a fresh Scope.
func (e *Engine) EvalAST(ast *AST) (Value, error) {
	return e.EvalWithScope(NewScope(), ast)
}

// EvalWithScope evaluates ast against scope, preserving post-evaluation
// bindings in scope (spec.md §6 "eval_with_scope").
func (e *Engine) EvalWithScope(scope *Scope, ast *AST) (Value, error) {
	ev := &evaluator{engine: e, ast: ast, scope: scope}
	v, err := ev.run()
	if err != nil {
		if ee, ok := err.(*EngineError); ok {
			return Value{}, ee
		}
		return Value{}, errWrap(ErrorRuntime, NoPosition, err)
	}
	return v, nil
}

// EvalSource compiles source and evaluates it against scope, preserving
// post-evaluation bindings in scope, for callers that don't need the
// intermediate AST.
func (e *Engine) EvalSource(scope *Scope, source string) (Value, error) {
	ast, err := e.Compile(source)
	if err != nil {
		return Value{}, err
	}
	return e.EvalWithScope(scope, ast)
}

// EvalAs compiles and evaluates source, then coerces the result to T via
// fromValue, reporting ErrorMismatchOutputType on a coercion failure
// (spec.md §6 "eval<T>(source) → T | EngineError").
func EvalAs[T any](e *Engine, source string) (T, error) {
	var zero T
	v, err := e.Eval(source)
	if err != nil {
		return zero, err
	}
	out, convErr := fromValue[T](v)
	if convErr != nil {
		return zero, errf(ErrorMismatchOutputType, NoPosition, "%v", convErr)
	}
	return out, nil
}
