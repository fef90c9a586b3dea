package rhai

import (
	"github.com/appellation/rhai/hash"
	"github.com/appellation/rhai/symbol"
)

// BindingKind classifies a scope/parser-stack entry (spec.md §3/§4.2).
type BindingKind int

const (
	// Normal is an ordinary, reassignable `let` binding.
	Normal BindingKind = iota
	// Constant is a `const` binding; assigning to it is a parse-time error.
	Constant
	// Module is an `import ... as name` binding; only qualified lookups
	// (`name::...`) resolve against it, never plain variable lookup.
	Module
)

// Stmt is a statement-level AST node (spec.md §3).
type Stmt interface {
	Pos() Position
	stmtNode()
}

// Expr is an expression-level AST node (spec.md §3).
type Expr interface {
	Pos() Position
	exprNode()
}

type posEmbed struct{ P Position }

func (p posEmbed) Pos() Position { return p.P }

// --- Statements -------------------------------------------------------

// NoopStmt is an empty statement (`;` with nothing before it).
type NoopStmt struct{ posEmbed }

// BlockStmt is `{ stmts... }`.
type BlockStmt struct {
	posEmbed
	Stmts []Stmt
}

// IfStmt is `if guard { then } else else_`. Else is nil if absent; Else may
// itself be a *BlockStmt or another *IfStmt (the `else if` chain).
type IfStmt struct {
	posEmbed
	Guard Expr
	Then  *BlockStmt
	Else  Stmt
}

// WhileStmt is `while guard { body }`, a breakable context.
type WhileStmt struct {
	posEmbed
	Guard Expr
	Body  *BlockStmt
}

// LoopStmt is `loop { body }`, an unconditional breakable context.
type LoopStmt struct {
	posEmbed
	Body *BlockStmt
}

// ForStmt is `for name in iter { body }`, a breakable context that binds
// name fresh on each iteration.
type ForStmt struct {
	posEmbed
	Name symbol.ID
	Iter Expr
	Body *BlockStmt
}

// LetStmt is `let name;` or `let name = init;`.
type LetStmt struct {
	posEmbed
	Name symbol.ID
	Init Expr // nil if the binding starts at Unit.
}

// ConstStmt is `const name = init;`; Init must be a constant expression
// (checked by the parser, see parser.go's isConstExpr).
type ConstStmt struct {
	posEmbed
	Name symbol.ID
	Init Expr
}

// ExprStmt is a bare expression used as a statement.
type ExprStmt struct {
	posEmbed
	X Expr
}

// ContinueStmt is `continue;`; only valid inside a breakable context.
type ContinueStmt struct{ posEmbed }

// BreakStmt is `break;`; only valid inside a breakable context.
type BreakStmt struct{ posEmbed }

// ReturnOrThrowStmt is `return expr?;` or `throw expr?;`.
type ReturnOrThrowStmt struct {
	posEmbed
	IsThrow bool
	X       Expr // nil for a bare `return;`
}

// ImportStmt is `import expr as alias;`. Modules are first-class values
// bound under BindingKind Module (spec.md §9).
type ImportStmt struct {
	posEmbed
	Path  Expr
	Alias symbol.ID
}

// ExportName is one entry of an `export a, b as c` list.
type ExportName struct {
	Name   symbol.ID
	Rename symbol.ID // Invalid if no `as` clause.
}

// ExportStmt is `export a, b as c, ...;`.
type ExportStmt struct {
	posEmbed
	Names []ExportName
}

func (*NoopStmt) stmtNode()          {}
func (*BlockStmt) stmtNode()         {}
func (*IfStmt) stmtNode()            {}
func (*WhileStmt) stmtNode()         {}
func (*LoopStmt) stmtNode()          {}
func (*ForStmt) stmtNode()           {}
func (*LetStmt) stmtNode()           {}
func (*ConstStmt) stmtNode()         {}
func (*ExprStmt) stmtNode()          {}
func (*ContinueStmt) stmtNode()      {}
func (*BreakStmt) stmtNode()         {}
func (*ReturnOrThrowStmt) stmtNode() {}
func (*ImportStmt) stmtNode()        {}
func (*ExportStmt) stmtNode()        {}

// --- Expressions --------------------------------------------------------

// IntConstExpr is an integer literal.
type IntConstExpr struct {
	posEmbed
	Val int64
}

// FloatConstExpr is a float literal.
type FloatConstExpr struct {
	posEmbed
	Val float64
}

// CharConstExpr is a char literal.
type CharConstExpr struct {
	posEmbed
	Val rune
}

// StringConstExpr is a string literal.
type StringConstExpr struct {
	posEmbed
	Val string
}

// TrueExpr is the `true` literal.
type TrueExpr struct{ posEmbed }

// FalseExpr is the `false` literal.
type FalseExpr struct{ posEmbed }

// UnitExpr is the `()` literal (also produced implicitly by an empty block).
type UnitExpr struct{ posEmbed }

// VariableExpr is a (possibly qualified) name reference.
//
// ResolvedOffset/HasOffset implement spec.md §3's invariant: HasOffset is
// true iff parsing resolved the name to a lexical binding at depth
// ResolvedOffset from the top of the scope stack; false defers to a
// by-name lookup at evaluation time (host-scope or module value).
type VariableExpr struct {
	posEmbed
	Qualifier      []symbol.ID
	Name           symbol.ID
	Hash           hash.Hash
	ResolvedOffset int
	HasOffset      bool
}

// PropertyExpr exists only as the right child of a DotExpr/IndexExpr
// (spec.md §3 invariant). GetterHash/SetterHash are the precomputed
// signature hashes of the internal `get$name`/`set$name` accessor
// functions (spec.md §4.4).
type PropertyExpr struct {
	posEmbed
	Name       symbol.ID
	GetterHash hash.Hash
	SetterHash hash.Hash
}

// StmtExprExpr is a block used in expression position; its value is the
// value of its last statement (of whatever kind), or Unit if empty.
type StmtExprExpr struct {
	posEmbed
	Block *BlockStmt
}

// IfExpr is `if guard { then } else { else_ }` used in expression position
// (spec.md §4.2: "if-as-expression").
type IfExpr struct {
	posEmbed
	Guard Expr
	Then  Expr
	Else  Expr
}

// FnCallExpr is a (possibly qualified) function call. Default, if non-nil,
// is returned instead of raising ErrorFunctionNotFound when Hash has no
// registered callable (used for comparison operators and `!`, spec.md
// §4.4/§7).
type FnCallExpr struct {
	posEmbed
	Qualifier []symbol.ID
	Name      symbol.ID
	Hash      hash.Hash
	Args      []Expr
	Default   *Value
}

// AssignExpr is `target = value` (or the op-assign desugaring thereof).
type AssignExpr struct {
	posEmbed
	Target Expr
	Value  Expr
}

// DotExpr is `lhs.rhs`; rhs is always a *PropertyExpr or a *FnCallExpr
// (method call, arity bumped by one for the implicit receiver).
type DotExpr struct {
	posEmbed
	LHS Expr
	RHS Expr
}

// IndexExpr is `lhs[rhs]`. Chained indexing nests on the left: `a[i][j]` is
// IndexExpr{IndexExpr{a, i}, j}; the chain is not right-associative.
type IndexExpr struct {
	posEmbed
	LHS Expr
	RHS Expr
}

// ArrayExpr is an array literal `[item, ...]`.
type ArrayExpr struct {
	posEmbed
	Items []Expr
}

// MapExpr is a map literal `#{key: expr, ...}`.
type MapExpr struct {
	posEmbed
	Keys   []string
	Values []Expr
}

// InExpr is `lhs in rhs`.
type InExpr struct {
	posEmbed
	LHS Expr
	RHS Expr
}

// AndExpr is `lhs && rhs`, short-circuiting.
type AndExpr struct {
	posEmbed
	LHS Expr
	RHS Expr
}

// OrExpr is `lhs || rhs`, short-circuiting.
type OrExpr struct {
	posEmbed
	LHS Expr
	RHS Expr
}

func (*IntConstExpr) exprNode()    {}
func (*FloatConstExpr) exprNode()  {}
func (*CharConstExpr) exprNode()   {}
func (*StringConstExpr) exprNode() {}
func (*TrueExpr) exprNode()        {}
func (*FalseExpr) exprNode()       {}
func (*UnitExpr) exprNode()        {}
func (*VariableExpr) exprNode()    {}
func (*PropertyExpr) exprNode()    {}
func (*StmtExprExpr) exprNode()    {}
func (*IfExpr) exprNode()          {}
func (*FnCallExpr) exprNode()      {}
func (*AssignExpr) exprNode()      {}
func (*DotExpr) exprNode()         {}
func (*IndexExpr) exprNode()       {}
func (*ArrayExpr) exprNode()       {}
func (*MapExpr) exprNode()         {}
func (*InExpr) exprNode()          {}
func (*AndExpr) exprNode()         {}
func (*OrExpr) exprNode()          {}

// AST is the output of Compile: a sequence of top-level statements plus the
// function library they (and any merged-in AST) contributed.
//
// AST trees are created by parsing, mutated only by the optimizer, then
// shared read-only by (possibly many concurrent) evaluations (spec.md §3
// Lifecycles).
type AST struct {
	Stmts []Stmt
	Funcs map[hash.Hash]*ScriptFunc
}

// ScriptFunc is a `fn` declaration harvested into the function library.
type ScriptFunc struct {
	Name    symbol.ID
	Private bool
	Params  []symbol.ID
	Body    *BlockStmt
	Pos     Position
}
