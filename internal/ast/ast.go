// Package ast defines Cobra64's abstract syntax tree. Every node
// carries its source Span so later stages can attach diagnostics to
// exact source locations, following the span-carrying node convention
// used throughout the teacher compiler's own AST.
package ast

import (
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/position"
)

// Program is the root node: the concatenation of every source file
// given on the command line, in argument order.
type Program struct {
	Items []TopLevelItem
}

// TopLevelItem is implemented by every node that can appear at
// top level: function/variable/constant declarations and data blocks.
type TopLevelItem interface{ topLevelItem() }

// FuncDecl declares a function: a name, typed parameters, a return
// type (Void for none), and a body block.
type FuncDecl struct {
	Name       string
	Params     []Param
	ReturnType cbtype.Type
	Body       Block
	Span       position.Span
}

func (*FuncDecl) topLevelItem() {}

// Param is one function parameter.
type Param struct {
	Name string
	Type cbtype.Type
	Span position.Span
}

// VarDecl declares a module- or block-scoped mutable variable with an
// explicit type and an optional initializer.
type VarDecl struct {
	Name    string
	Type    cbtype.Type
	Init    Expr // nil if uninitialized
	Span    position.Span
}

func (*VarDecl) topLevelItem() {}
func (*VarDecl) stmt()         {}

// ConstDecl declares a compile-time constant; its value must be a
// constant expression resolvable by the analyzer.
type ConstDecl struct {
	Name  string
	Type  cbtype.Type
	Value Expr
	Span  position.Span
}

func (*ConstDecl) topLevelItem() {}
func (*ConstDecl) stmt()         {}

// DataEntry is one line inside a data block: either a literal list of
// byte values or an include(path, offset, length) slice of an external
// file resolved by package include at code-generation time.
type DataEntry struct {
	Bytes  []byte // non-nil for an inline byte-literal entry
	Path   string // non-empty for an include(...) entry
	Offset uint32
	Length uint32
	Span   position.Span
}

// DataBlock declares a named region of binary data emitted after the
// generated code, addressable from expressions by name. Align is the
// byte boundary the block's start address is padded up to (0 means no
// padding is applied).
type DataBlock struct {
	Name    string
	Align   uint16
	Entries []DataEntry
	Span    position.Span
}

func (*DataBlock) topLevelItem() {}

// Block is an ordered sequence of statements, the unit produced by
// parsing an Indent..Dedent region.
type Block struct {
	Stmts []Stmt
	Span  position.Span
}

// Stmt is implemented by every statement node.
type Stmt interface{ stmt() }

// ExprStmt is a bare expression evaluated for its side effects (a
// built-in or function call).
type ExprStmt struct {
	X    Expr
	Span position.Span
}

func (*ExprStmt) stmt() {}

// AssignOp identifies the operator of an assignment statement.
type AssignOp int

const (
	Assign AssignOp = iota
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	ModAssign
	AndAssign
	OrAssign
	XorAssign
	ShlAssign
	ShrAssign
)

// AssignStmt assigns Value to Target using Op, where Target is an
// Ident or IndexExpr.
type AssignStmt struct {
	Target Expr
	Op     AssignOp
	Value  Expr
	Span   position.Span
}

func (*AssignStmt) stmt() {}

// IfStmt models if/elif*/else as a chain: each ElifClause is checked
// in order, and Else runs if none matched and it is non-nil.
type IfStmt struct {
	Cond  Expr
	Then  Block
	Elifs []ElifClause
	Else  *Block
	Span  position.Span
}

func (*IfStmt) stmt() {}

// ElifClause is one "elif cond:" arm of an IfStmt.
type ElifClause struct {
	Cond Expr
	Body Block
	Span position.Span
}

// WhileStmt is a condition-checked-first loop.
type WhileStmt struct {
	Cond Expr
	Body Block
	Span position.Span
}

func (*WhileStmt) stmt() {}

// ForStmt models "for IDENT in LOW to|downto HIGH:". Downto reports
// whether the loop counts down (downto) or up (to).
type ForStmt struct {
	Var    string
	Low    Expr
	High   Expr
	Downto bool
	Body   Block
	Span   position.Span
}

func (*ForStmt) stmt() {}

// ReturnStmt optionally carries a value; Value is nil for a bare
// "return" inside a Void function.
type ReturnStmt struct {
	Value Expr // nil for bare return
	Span  position.Span
}

func (*ReturnStmt) stmt() {}

// BreakStmt exits the nearest enclosing loop.
type BreakStmt struct{ Span position.Span }

func (*BreakStmt) stmt() {}

// ContinueStmt jumps to the next iteration of the nearest enclosing loop.
type ContinueStmt struct{ Span position.Span }

func (*ContinueStmt) stmt() {}

// PassStmt is a no-op placeholder statement.
type PassStmt struct{ Span position.Span }

func (*PassStmt) stmt() {}

// Expr is implemented by every expression node.
type Expr interface {
	expr()
	SpanOf() position.Span
}

// Ident references a variable, constant, or parameter by name.
type Ident struct {
	Name string
	Span position.Span
}

func (*Ident) expr()                   {}
func (e *Ident) SpanOf() position.Span { return e.Span }

// IntLit is an integer literal in its original radix; Value is its
// decoded 16-bit magnitude.
type IntLit struct {
	Value uint16
	Span  position.Span
}

func (*IntLit) expr()                   {}
func (e *IntLit) SpanOf() position.Span { return e.Span }

// DecimalLit is a literal with a fractional part or exponent, carried
// as text until the analyzer fixes its type and the generator encodes
// it accordingly. The type comes from the literal alone: Float when it
// has an exponent or lies outside the 12.4 range, Fixed otherwise. The
// type of the variable or parameter it is assigned to is not consulted.
type DecimalLit struct {
	Text string
	Span position.Span
}

func (*DecimalLit) expr()                   {}
func (e *DecimalLit) SpanOf() position.Span { return e.Span }

// BoolLit is a literal true/false.
type BoolLit struct {
	Value bool
	Span  position.Span
}

func (*BoolLit) expr()                   {}
func (e *BoolLit) SpanOf() position.Span { return e.Span }

// StringLit is a decoded string literal's contents.
type StringLit struct {
	Value string
	Span  position.Span
}

func (*StringLit) expr()                   {}
func (e *StringLit) SpanOf() position.Span { return e.Span }

// CharLit is a decoded single-byte character literal.
type CharLit struct {
	Value byte
	Span  position.Span
}

func (*CharLit) expr()                   {}
func (e *CharLit) SpanOf() position.Span { return e.Span }

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	Eq
	NotEq
	Lt
	Gt
	LtEq
	GtEq
	LogAnd
	LogOr
)

// BinaryExpr is a two-operand expression.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Span  position.Span
}

func (*BinaryExpr) expr()                   {}
func (e *BinaryExpr) SpanOf() position.Span { return e.Span }

// UnaryOp identifies a unary operator.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
	BitNot
)

// UnaryExpr is a single-operand expression.
type UnaryExpr struct {
	Op   UnaryOp
	X    Expr
	Span position.Span
}

func (*UnaryExpr) expr()                   {}
func (e *UnaryExpr) SpanOf() position.Span { return e.Span }

// IndexExpr is an array index expression, "Array[Index]".
type IndexExpr struct {
	Array Expr
	Index Expr
	Span  position.Span
}

func (*IndexExpr) expr()                   {}
func (e *IndexExpr) SpanOf() position.Span { return e.Span }

// CallExpr is a function or built-in call.
type CallExpr struct {
	Callee string
	Args   []Expr
	Span   position.Span
}

func (*CallExpr) expr()                   {}
func (e *CallExpr) SpanOf() position.Span { return e.Span }

// CastExpr is an explicit "X as TYPE" conversion.
type CastExpr struct {
	X      Expr
	Target cbtype.Type
	Span   position.Span
}

func (*CastExpr) expr()                   {}
func (e *CastExpr) SpanOf() position.Span { return e.Span }

// ArrayLit is an array literal, "[e0, e1, ...]".
type ArrayLit struct {
	Elems []Expr
	Span  position.Span
}

func (*ArrayLit) expr()                   {}
func (e *ArrayLit) SpanOf() position.Span { return e.Span }
