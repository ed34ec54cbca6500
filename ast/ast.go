package ast

// Program is the complete output of the parser: an ordered list of class
// declarations.  It is immutable once parsed; the analyzer never writes to it.
type Program struct {
	Classes []*ClassDecl
}

// ClassDecl is a single `class ... { ... };` declaration.
type ClassDecl struct {
	Name string

	// Parent is empty when the class does not name a parent; such classes
	// inherit Object
	Parent string

	Features []Feature
	Line     int
}

// Feature is either an attribute or a method of a class.
type Feature interface {
	featureNode()
}

// Attribute is a `name : Type [<- init];` feature.
type Attribute struct {
	Name string
	Type string
	Init Expr // nil when no initializer is present
	Line int
}

// Method is a `name(params) : Return { body };` feature.
type Method struct {
	Name   string
	Params []Param
	Return string
	Body   Expr
	Line   int
}

// Param is a single formal parameter of a method.
type Param struct {
	Name string
	Type string
}

func (*Attribute) featureNode() {}
func (*Method) featureNode()    {}

// -----------------------------------------------------------------------------

// Expr is the interface for all expression nodes.  Every node carries the
// source line it started on.
type Expr interface {
	Pos() int
	exprNode()
}

// Ident is a bare identifier reference, including `self`.
type Ident struct {
	Name string
	Line int
}

// IntLit is an integer literal.
type IntLit struct {
	Value int
	Line  int
}

// StringLit is a string literal with escapes already processed.
type StringLit struct {
	Value string
	Line  int
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	Line  int
}

// Assign is `name <- value`.
type Assign struct {
	Name  string
	Value Expr
	Line  int
}

// Dispatch covers all three call shapes: implicit `m(...)` (Recv nil),
// instance `e.m(...)`, and static `e@T.m(...)` (Static non-empty).
type Dispatch struct {
	Recv   Expr
	Static string
	Method string
	Args   []Expr
	Line   int
}

// Cond is `if pred then ... else ... fi`.
type Cond struct {
	Pred Expr
	Then Expr
	Else Expr
	Line int
}

// While is `while pred loop body pool`.
type While struct {
	Pred Expr
	Body Expr
	Line int
}

// Block is `{ e1; e2; ... }`.
type Block struct {
	Exprs []Expr
	Line  int
}

// LetBinding is one `name : Type [<- init]` binding of a let.
type LetBinding struct {
	Name string
	Type string
	Init Expr // nil when no initializer is present
	Line int
}

// Let is `let bindings in body`.
type Let struct {
	Bindings []*LetBinding
	Body     Expr
	Line     int
}

// CaseBranch is one `name : Type => body;` arm of a case.
type CaseBranch struct {
	Name string
	Type string
	Body Expr
	Line int
}

// Case is `case scrutinee of branches esac`.
type Case struct {
	Scrutinee Expr
	Branches  []*CaseBranch
	Line      int
}

// New is `new T`.
type New struct {
	Type string
	Line int
}

// IsVoid is `isvoid e`.
type IsVoid struct {
	Operand Expr
	Line    int
}

// UnaryOp is `~e` or `not e`.
type UnaryOp struct {
	Op      string
	Operand Expr
	Line    int
}

// BinaryOp is an arithmetic (`+ - * /`) or comparison (`< <= =`) application.
type BinaryOp struct {
	Op    string
	Left  Expr
	Right Expr
	Line  int
}

// Paren is an explicitly parenthesized expression.
type Paren struct {
	Inner Expr
	Line  int
}

func (e *Ident) Pos() int     { return e.Line }
func (e *IntLit) Pos() int    { return e.Line }
func (e *StringLit) Pos() int { return e.Line }
func (e *BoolLit) Pos() int   { return e.Line }
func (e *Assign) Pos() int    { return e.Line }
func (e *Dispatch) Pos() int  { return e.Line }
func (e *Cond) Pos() int      { return e.Line }
func (e *While) Pos() int     { return e.Line }
func (e *Block) Pos() int     { return e.Line }
func (e *Let) Pos() int       { return e.Line }
func (e *Case) Pos() int      { return e.Line }
func (e *New) Pos() int       { return e.Line }
func (e *IsVoid) Pos() int    { return e.Line }
func (e *UnaryOp) Pos() int   { return e.Line }
func (e *BinaryOp) Pos() int  { return e.Line }
func (e *Paren) Pos() int     { return e.Line }

func (*Ident) exprNode()     {}
func (*IntLit) exprNode()    {}
func (*StringLit) exprNode() {}
func (*BoolLit) exprNode()   {}
func (*Assign) exprNode()    {}
func (*Dispatch) exprNode()  {}
func (*Cond) exprNode()      {}
func (*While) exprNode()     {}
func (*Block) exprNode()     {}
func (*Let) exprNode()       {}
func (*Case) exprNode()      {}
func (*New) exprNode()       {}
func (*IsVoid) exprNode()    {}
func (*UnaryOp) exprNode()   {}
func (*BinaryOp) exprNode()  {}
func (*Paren) exprNode()     {}
