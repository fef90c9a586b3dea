package rhai

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseErrorKind enumerates every way a parse can fail (spec.md §4.5:
// "ParseError has its own variant set for lexical, grammatical, and
// semantic parse failures, each with position").
type ParseErrorKind int

const (
	_ ParseErrorKind = iota
	// LexError wraps a lexical failure (bad escape, unterminated string,
	// numeric overflow in a literal, unknown operator).
	LexError
	// UnexpectedToken is raised when the parser expected one of a set of
	// tokens and found something else.
	UnexpectedToken
	// MalformedNumber is raised for a numeric literal that doesn't fit its
	// target type (e.g. negating MIN_INT with floats disabled).
	MalformedNumber
	// DuplicatedProperty is raised for a map literal with a repeated key.
	DuplicatedProperty
	// DuplicatedParam is raised for a function/closure parameter list with
	// a repeated name.
	DuplicatedParam
	// DuplicatedExport is raised for an export list with a repeated name.
	DuplicatedExport
	// AssignmentToConstant is raised when the LHS of `=` resolves to a
	// binding of kind Constant.
	AssignmentToConstant
	// NotAssignable is raised when the LHS of `=` is not a place (variable,
	// index chain, or dot chain ending at a property).
	NotAssignable
	// ConstInitNotConstant is raised when a `const` initializer is not a
	// constant expression.
	ConstInitNotConstant
	// BreakOutsideLoop is raised for `break` outside a breakable form.
	BreakOutsideLoop
	// ContinueOutsideLoop is raised for `continue` outside a breakable form.
	ContinueOutsideLoop
	// FunctionNotAtGlobalScope is raised for `fn` nested inside a block.
	FunctionNotAtGlobalScope
	// PrivateWithoutFn is raised for a `private` keyword not followed by `fn`.
	PrivateWithoutFn
	// IndexTypeMismatch is raised for a statically-known bad index type
	// (float/bool array index, integer map key, negative literal index).
	IndexTypeMismatch
	// FeatureDisabled is raised when a construct is used while its
	// Engine.Opts flag disables it (no_index, no_object, no_module,
	// no_function).
	FeatureDisabled
	// UnexpectedEOF is raised when input ends mid-construct.
	UnexpectedEOF
)

// ParseError is a fatal, single-position compile-step error.
type ParseError struct {
	Kind ParseErrorKind
	Pos  Position
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: %s", e.Pos, e.Msg)
}

func newParseError(kind ParseErrorKind, pos Position, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ErrorKind enumerates the unified Result channel's error/signal variants
// (spec.md §4.5). Return, Break, Continue, and Throw are control-flow
// signals riding the same channel as genuine errors (spec.md §4.4/§9); every
// statement-level handler catches exactly the signal(s) it owns, and any
// signal that escapes its owner is a bug in the parser's breakable-context
// tracking (caught instead at parse time as BreakOutsideLoop/ContinueOutsideLoop).
type ErrorKind int

const (
	_ ErrorKind = iota
	ErrorParsing
	ErrorFunctionNotFound
	ErrorFunctionArgsMismatch
	ErrorArithmetic
	ErrorRuntime
	ErrorMismatchOutputType
	ErrorIndexNotFound
	ErrorArrayBounds
	ErrorStringBounds
	ErrorBooleanArgMismatch
	ErrorAssignmentToConstant
	ErrorDotExpr
	ErrorInExpr
	ErrorForMismatch
	ErrorTerminated

	// The following are control-flow signals, not "errors" in the usual
	// sense; they never reach a host caller of Eval/EvalAST.
	signalReturn
	signalBreak
	signalContinue
)

// EngineError is the engine's single closed error/signal sum type.
type EngineError struct {
	Kind ErrorKind
	Pos  Position

	// Msg is the human-readable message for ordinary errors.
	Msg string
	// Value carries the thrown value for ErrorRuntime (a `throw expr`), or
	// the returned value for the internal signalReturn variant.
	Value Value
	// IsBreak distinguishes signalBreak (true) from signalContinue
	// (false) when Kind == signalBreak.
	IsBreak bool
	// Parse is set when Kind == ErrorParsing.
	Parse *ParseError
	// cause is an optional wrapped underlying error (I/O, host native
	// function failure), attached via github.com/pkg/errors so %+v prints
	// a stack trace in diagnostics.
	cause error
}

func (e *EngineError) Error() string {
	switch e.Kind {
	case ErrorParsing:
		return e.Parse.Error()
	case ErrorFunctionNotFound:
		return fmt.Sprintf("%s: function not found: %s", e.Pos, e.Msg)
	case ErrorFunctionArgsMismatch:
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	case ErrorArithmetic:
		return fmt.Sprintf("%s: arithmetic error: %s", e.Pos, e.Msg)
	case ErrorRuntime:
		if !e.Value.Valid() {
			return fmt.Sprintf("%s: runtime error: %s", e.Pos, e.Msg)
		}
		return fmt.Sprintf("%s: runtime error: %s", e.Pos, e.Value.String())
	case ErrorMismatchOutputType:
		return fmt.Sprintf("%s: output type mismatch: %s", e.Pos, e.Msg)
	case ErrorIndexNotFound:
		return fmt.Sprintf("%s: index not found", e.Pos)
	case ErrorArrayBounds:
		return fmt.Sprintf("%s: array index out of bounds", e.Pos)
	case ErrorStringBounds:
		return fmt.Sprintf("%s: string index out of bounds", e.Pos)
	case ErrorBooleanArgMismatch:
		return fmt.Sprintf("%s: expected bool operand", e.Pos)
	case ErrorAssignmentToConstant:
		return fmt.Sprintf("%s: assignment to constant %s", e.Pos, e.Msg)
	case ErrorDotExpr:
		return fmt.Sprintf("%s: invalid property access: %s", e.Pos, e.Msg)
	case ErrorInExpr:
		return fmt.Sprintf("%s: invalid `in` operands: %s", e.Pos, e.Msg)
	case ErrorForMismatch:
		return fmt.Sprintf("%s: value is not iterable: %s", e.Pos, e.Msg)
	case ErrorTerminated:
		return "terminated by host"
	default:
		return fmt.Sprintf("%s: signal escaped its owner (%d)", e.Pos, e.Kind)
	}
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *EngineError) Unwrap() error { return e.cause }

// isSignal reports whether e represents control flow rather than a genuine
// error. Signals are consumed internally by eval.go and never surface to a
// host caller of Compile/Eval/EvalAST.
func (e *EngineError) isSignal() bool {
	switch e.Kind {
	case signalReturn, signalBreak, signalContinue:
		return true
	default:
		return false
	}
}

func errReturn(v Value) *EngineError { return &EngineError{Kind: signalReturn, Value: v} }
func errBreak() *EngineError         { return &EngineError{Kind: signalBreak, IsBreak: true} }
func errContinue() *EngineError      { return &EngineError{Kind: signalBreak, IsBreak: false} }

func errf(kind ErrorKind, pos Position, format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func errThrow(pos Position, v Value) *EngineError {
	return &EngineError{Kind: ErrorRuntime, Pos: pos, Value: v}
}

func errWrap(kind ErrorKind, pos Position, cause error) *EngineError {
	return &EngineError{Kind: kind, Pos: pos, Msg: cause.Error(), cause: errors.WithStack(cause)}
}

// withCallSitePosition re-stamps pos onto err if err doesn't already carry
// one, implementing spec.md §7's "position is re-stamped when an error
// crosses a call boundary".
func withCallSitePosition(err *EngineError, pos Position) *EngineError {
	if err.Pos.IsNone() {
		err.Pos = pos
	}
	return err
}
