package sem

import (
	"coolc/ast"
	"coolc/typing"
)

// checkOverrides validates every method a user class declares against the
// nearest ancestor definition of the same name.  An override must match the
// ancestor signature exactly: same parameter count, same parameter types in
// order, same return type.  Covariant return types are not permitted.  A
// method with no ancestor definition is an unconstrained fresh declaration.
func checkOverrides(classes []*ast.ClassDecl, table *ClassTable, c *Collector) {
	for _, decl := range classes {
		info, ok := table.Get(decl.Name)
		if !ok || info.Parent == nil {
			continue
		}

		for _, feat := range decl.Features {
			m, ok := feat.(*ast.Method)
			if !ok {
				continue
			}

			// the parent's merged method map already holds the nearest
			// ancestor definition of each name
			inherited, ok := info.Parent.Methods[m.Name]
			if !ok {
				continue
			}

			own := methodSig(decl.Name, m)
			if !sameSignature(own, inherited) {
				c.Add(&SemanticError{
					Kind:     InvalidOverride,
					Class:    decl.Name,
					Name:     m.Name,
					Parent:   inherited.DefinedIn,
					Expected: inherited.String(),
					Found:    own.String(),
				})
			}
		}
	}
}

// sameSignature compares two signatures for the exact match override rules
// require.
func sameSignature(a, b *MethodSig) bool {
	if len(a.Params) != len(b.Params) || !typing.Equals(a.Return, b.Return) {
		return false
	}

	for i, p := range a.Params {
		if !typing.Equals(p, b.Params[i]) {
			return false
		}
	}

	return true
}
