package sem

import (
	"coolc/ast"
	"coolc/typing"
)

// Result is the complete outcome of one analysis run: the ordered diagnostics
// plus, when the hierarchy was usable, the inferred-type mapping and the
// class table the checks ran against.
type Result struct {
	Errors []*SemanticError

	// Types maps expression node identity to the node's inferred static
	// type; nil when analysis halted on a structural error
	Types map[ast.Expr]typing.DataType

	Table *ClassTable
}

// Failed returns whether the run produced any diagnostic.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// TypeOf returns the inferred static type of an expression node.
func (r *Result) TypeOf(e ast.Expr) (typing.DataType, bool) {
	dt, ok := r.Types[e]
	return dt, ok
}

// Analyze runs the full semantic pipeline over a parsed program: hierarchy
// validation, class table construction, override checking, and expression
// type checking, in that order.  A structurally invalid hierarchy halts
// analysis after all structural errors from that one pass are reported; every
// later stage is recoverable and runs to completion.  Analysis is a pure
// function of its input: the program is never mutated and re-running on the
// same valid input yields identical results.
func Analyze(prog *ast.Program) *Result {
	c := &Collector{}

	if !checkHierarchy(prog.Classes, c) {
		return &Result{Errors: c.Errors()}
	}

	table := newClassTable(prog.Classes, c)
	checkOverrides(prog.Classes, table, c)
	types := checkExpressions(prog.Classes, table, c)

	return &Result{
		Errors: c.Errors(),
		Types:  types,
		Table:  table,
	}
}
