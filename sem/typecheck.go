package sem

import (
	"strconv"

	"coolc/ast"
	"coolc/typing"
)

// checker walks every attribute initializer and method body of one analysis
// run, inferring a static type for each expression node.  Inferred types go
// into a fresh side mapping keyed by node identity; the parse output itself
// is never mutated.
type checker struct {
	table *ClassTable
	c     *Collector
	types map[ast.Expr]typing.DataType

	// class is the enclosing class name, used to resolve SELF_TYPE and as
	// the target of implicit dispatch
	class string

	// scopes is the stack of lexical scopes mapping identifier -> declared
	// type; innermost last
	scopes []map[string]typing.DataType
}

// checkExpressions type-checks every user class against the completed class
// table and returns the inferred-type mapping.
func checkExpressions(classes []*ast.ClassDecl, table *ClassTable, c *Collector) map[ast.Expr]typing.DataType {
	w := &checker{
		table: table,
		c:     c,
		types: make(map[ast.Expr]typing.DataType),
	}

	for _, decl := range classes {
		w.checkClass(decl)
	}

	return w.types
}

// checkClass checks all attribute initializers and method bodies of a class.
// The base scope holds the implicit receiver and every attribute visible in
// the class, inherited ones included.
func (w *checker) checkClass(decl *ast.ClassDecl) {
	info, ok := w.table.Get(decl.Name)
	if !ok {
		return
	}

	w.class = decl.Name

	base := make(map[string]typing.DataType, len(info.Attributes)+1)
	base["self"] = typing.SelfType{}
	for name, dt := range info.Attributes {
		base[name] = dt
	}
	w.scopes = []map[string]typing.DataType{base}

	for _, feat := range decl.Features {
		switch f := feat.(type) {
		case *ast.Attribute:
			if f.Init == nil {
				continue
			}
			found := w.check(f.Init)
			declared := declaredType(f.Type)
			if !w.table.Conforms(found, declared, w.class) {
				w.c.Add(&SemanticError{
					Kind:     TypeMismatch,
					Line:     f.Init.Pos(),
					Expected: declared.Repr(),
					Found:    found.Repr(),
					Where:    "in attribute '" + f.Name + "'",
				})
			}
		case *ast.Method:
			w.pushScope()
			for _, p := range f.Params {
				w.define(p.Name, declaredType(p.Type))
			}

			found := w.check(f.Body)
			declared := declaredType(f.Return)
			if !w.table.Conforms(found, declared, w.class) {
				w.c.Add(&SemanticError{
					Kind:     TypeMismatch,
					Line:     f.Body.Pos(),
					Expected: declared.Repr(),
					Found:    found.Repr(),
					Where:    "in method '" + f.Name + "'",
				})
			}
			w.popScope()
		}
	}
}

// -----------------------------------------------------------------------------

// check infers the static type of one expression node, collecting diagnostics
// for every violation it finds.  It always returns a best-effort type (the
// error sentinel on failure) so siblings keep being checked.
func (w *checker) check(e ast.Expr) typing.DataType {
	var result typing.DataType

	switch v := e.(type) {
	case *ast.Ident:
		dt, ok := w.lookup(v.Name)
		if !ok {
			w.c.Add(&SemanticError{Kind: UndefinedVariable, Line: v.Line, Name: v.Name})
			dt = typing.ErrorType{}
		}
		result = dt
	case *ast.IntLit:
		result = typing.IntType
	case *ast.StringLit:
		result = typing.StringType
	case *ast.BoolLit:
		result = typing.BoolType
	case *ast.Assign:
		result = w.checkAssign(v)
	case *ast.BinaryOp:
		result = w.checkBinaryOp(v)
	case *ast.UnaryOp:
		result = w.checkUnaryOp(v)
	case *ast.IsVoid:
		w.check(v.Operand)
		result = typing.BoolType
	case *ast.New:
		result = w.checkNew(v)
	case *ast.Dispatch:
		result = w.checkDispatch(v)
	case *ast.Cond:
		result = w.checkCond(v)
	case *ast.While:
		w.requireBool(w.check(v.Pred), v.Pred.Pos())
		w.check(v.Body)
		result = typing.ObjectType
	case *ast.Block:
		result = typing.ObjectType
		for _, sub := range v.Exprs {
			result = w.check(sub)
		}
	case *ast.Let:
		result = w.checkLet(v)
	case *ast.Case:
		result = w.checkCase(v)
	case *ast.Paren:
		result = w.check(v.Inner)
	default:
		result = typing.ErrorType{}
	}

	w.types[e] = result
	return result
}

func (w *checker) checkAssign(v *ast.Assign) typing.DataType {
	found := w.check(v.Value)

	declared, ok := w.lookup(v.Name)
	if !ok {
		w.c.Add(&SemanticError{Kind: UndefinedVariable, Line: v.Line, Name: v.Name})
		return found
	}

	if !w.table.Conforms(found, declared, w.class) {
		w.c.Add(&SemanticError{
			Kind:     TypeMismatch,
			Line:     v.Line,
			Expected: declared.Repr(),
			Found:    found.Repr(),
		})
	}

	return found
}

func (w *checker) checkBinaryOp(v *ast.BinaryOp) typing.DataType {
	left := w.check(v.Left)
	right := w.check(v.Right)

	switch v.Op {
	case "+", "-", "*", "/":
		w.requireInt(left, v.Left.Pos())
		w.requireInt(right, v.Right.Pos())
		return typing.IntType
	case "<", "<=":
		w.requireInt(left, v.Left.Pos())
		w.requireInt(right, v.Right.Pos())
		return typing.BoolType
	default:
		// `=` compares references, so any two types are permitted
		return typing.BoolType
	}
}

func (w *checker) checkUnaryOp(v *ast.UnaryOp) typing.DataType {
	operand := w.check(v.Operand)

	if v.Op == "~" {
		w.requireInt(operand, v.Operand.Pos())
		return typing.IntType
	}

	w.requireBool(operand, v.Operand.Pos())
	return typing.BoolType
}

func (w *checker) checkNew(v *ast.New) typing.DataType {
	if v.Type == "SELF_TYPE" {
		return typing.SelfType{}
	}

	if _, ok := w.table.Get(v.Type); !ok {
		w.c.Add(&SemanticError{Kind: UndefinedClass, Line: v.Line, Name: v.Type})
		return typing.ErrorType{}
	}

	return typing.ClassType(v.Type)
}

func (w *checker) checkDispatch(v *ast.Dispatch) typing.DataType {
	argTypes := make([]typing.DataType, len(v.Args))
	for i, arg := range v.Args {
		argTypes[i] = w.check(arg)
	}

	// the implicit receiver is self
	var recv typing.DataType = typing.SelfType{}
	if v.Recv != nil {
		recv = w.check(v.Recv)
	}
	if typing.IsError(recv) {
		return typing.ErrorType{}
	}

	lookupClass := w.table.resolve(recv, w.class)
	if v.Static != "" {
		if _, ok := w.table.Get(v.Static); !ok {
			w.c.Add(&SemanticError{Kind: UndefinedClass, Line: v.Line, Name: v.Static})
			return typing.ErrorType{}
		}
		if !w.table.Conforms(recv, typing.ClassType(v.Static), w.class) {
			w.c.Add(&SemanticError{
				Kind:  StaticDispatchError,
				Line:  v.Line,
				Name:  v.Static,
				Found: w.table.resolve(recv, w.class),
			})
			return typing.ErrorType{}
		}
		lookupClass = v.Static
	}

	sig, ok := w.table.Method(lookupClass, v.Method)
	if !ok {
		w.c.Add(&SemanticError{
			Kind:     ArgumentCountMismatch,
			Line:     v.Line,
			Name:     v.Method,
			Expected: "0",
			Found:    strconv.Itoa(len(argTypes)),
		})
		return typing.ErrorType{}
	}

	if len(argTypes) != len(sig.Params) {
		w.c.Add(&SemanticError{
			Kind:     ArgumentCountMismatch,
			Line:     v.Line,
			Name:     v.Method,
			Expected: strconv.Itoa(len(sig.Params)),
			Found:    strconv.Itoa(len(argTypes)),
		})
		return typing.ErrorType{}
	}

	for i, found := range argTypes {
		if !w.table.Conforms(found, sig.Params[i], w.class) {
			w.c.Add(&SemanticError{
				Kind:     TypeMismatch,
				Line:     v.Args[i].Pos(),
				Expected: sig.Params[i].Repr(),
				Found:    found.Repr(),
			})
		}
	}

	// a SELF_TYPE return stands for the receiver: it stays SELF_TYPE for
	// implicit/self dispatch and otherwise resolves to the target's static
	// type
	if typing.IsSelf(sig.Return) {
		if v.Static != "" {
			return typing.ClassType(v.Static)
		}
		return recv
	}

	return sig.Return
}

func (w *checker) checkCond(v *ast.Cond) typing.DataType {
	w.requireBool(w.check(v.Pred), v.Pred.Pos())

	thenType := w.check(v.Then)
	elseType := w.check(v.Else)
	return w.table.Join(thenType, elseType, w.class)
}

func (w *checker) checkLet(v *ast.Let) typing.DataType {
	w.pushScope()
	defer w.popScope()

	// each binding extends the environment seen by the ones after it and by
	// the body
	for _, b := range v.Bindings {
		var declared typing.DataType = typing.ErrorType{}
		if b.Type == "SELF_TYPE" {
			declared = typing.SelfType{}
		} else if _, ok := w.table.Get(b.Type); ok {
			declared = typing.ClassType(b.Type)
		} else {
			w.c.Add(&SemanticError{Kind: UndefinedClass, Line: b.Line, Name: b.Type})
		}

		if b.Init != nil {
			found := w.check(b.Init)
			if !w.table.Conforms(found, declared, w.class) {
				w.c.Add(&SemanticError{
					Kind:     TypeMismatch,
					Line:     b.Init.Pos(),
					Expected: declared.Repr(),
					Found:    found.Repr(),
				})
			}
		}

		w.define(b.Name, declared)
	}

	return w.check(v.Body)
}

func (w *checker) checkCase(v *ast.Case) typing.DataType {
	w.check(v.Scrutinee)

	if len(v.Branches) == 0 {
		w.c.Add(&SemanticError{Kind: MissingCaseBranch, Line: v.Line})
		return typing.ErrorType{}
	}

	var result typing.DataType = typing.ErrorType{}
	seen := make(map[string]bool)
	for _, br := range v.Branches {
		if seen[br.Type] {
			w.c.Add(&SemanticError{Kind: DuplicateCaseBranch, Line: br.Line, Name: br.Type})
		}
		seen[br.Type] = true

		var bound typing.DataType = typing.ErrorType{}
		if _, ok := w.table.Get(br.Type); ok {
			bound = typing.ClassType(br.Type)
		} else {
			w.c.Add(&SemanticError{Kind: UndefinedClass, Line: br.Line, Name: br.Type})
		}

		w.pushScope()
		w.define(br.Name, bound)
		branchType := w.check(br.Body)
		w.popScope()

		result = w.table.Join(result, branchType, w.class)
	}

	return result
}

// -----------------------------------------------------------------------------

// requireInt reports a mismatch unless the operand is exactly Int.  The error
// sentinel passes silently.
func (w *checker) requireInt(dt typing.DataType, line int) {
	if typing.IsError(dt) || typing.Equals(dt, typing.IntType) {
		return
	}

	w.c.Add(&SemanticError{
		Kind:     TypeMismatch,
		Line:     line,
		Expected: typing.IntType.Repr(),
		Found:    dt.Repr(),
	})
}

// requireBool reports a mismatch unless the operand is exactly Bool.
func (w *checker) requireBool(dt typing.DataType, line int) {
	if typing.IsError(dt) || typing.Equals(dt, typing.BoolType) {
		return
	}

	w.c.Add(&SemanticError{
		Kind:     TypeMismatch,
		Line:     line,
		Expected: typing.BoolType.Repr(),
		Found:    dt.Repr(),
	})
}

// -----------------------------------------------------------------------------

func (w *checker) pushScope() {
	w.scopes = append(w.scopes, make(map[string]typing.DataType))
}

func (w *checker) popScope() {
	w.scopes = w.scopes[:len(w.scopes)-1]
}

// define binds an identifier in the innermost scope.
func (w *checker) define(name string, dt typing.DataType) {
	w.scopes[len(w.scopes)-1][name] = dt
}

// lookup searches the scope stack innermost-out to facilitate shadowing.
func (w *checker) lookup(name string) (typing.DataType, bool) {
	for i := len(w.scopes) - 1; i > -1; i-- {
		if dt, ok := w.scopes[i][name]; ok {
			return dt, true
		}
	}

	return nil, false
}
