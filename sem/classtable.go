package sem

import (
	"strings"

	"coolc/ast"
	"coolc/typing"
)

// MethodSig is the resolved signature of a method: its parameter types in
// order, its return type, and the class that defined it.
type MethodSig struct {
	Name      string
	Params    []typing.DataType
	Return    typing.DataType
	DefinedIn string
}

// String renders the signature the way diagnostics quote it, eg.
// `foo(Int, String): Bool`.
func (ms *MethodSig) String() string {
	params := make([]string, len(ms.Params))
	for i, p := range ms.Params {
		params[i] = p.Repr()
	}

	return ms.Name + "(" + strings.Join(params, ", ") + "): " + ms.Return.Repr()
}

// ClassInfo is the authoritative per-class metadata derived from a validated
// hierarchy.  Attributes and Methods include everything inherited: each class
// starts from a copy of its parent's maps and overlays its own features.
type ClassInfo struct {
	Name string

	// Parent is nil only for Object
	Parent *ClassInfo

	Attributes map[string]typing.DataType
	Methods    map[string]*MethodSig

	// Decl is nil for built-in classes
	Decl *ast.ClassDecl
}

// ClassTable indexes ClassInfo by class name and answers the conformance and
// join queries the type checker is built on.
type ClassTable struct {
	classes map[string]*ClassInfo
}

// -----------------------------------------------------------------------------

// builtinDef describes one fixed built-in class.  The built-in signatures are
// process-wide read-only data; they are merged into fresh ClassInfo maps at
// the start of each run rather than shared as mutable state.
type builtinDef struct {
	name    string
	methods []*MethodSig
}

var builtinDefs = []builtinDef{
	{
		name: "Object",
		methods: []*MethodSig{
			{Name: "abort", Return: typing.ObjectType, DefinedIn: "Object"},
			{Name: "type_name", Return: typing.StringType, DefinedIn: "Object"},
		},
	},
	{
		name: "IO",
		methods: []*MethodSig{
			{Name: "out_string", Params: []typing.DataType{typing.StringType}, Return: typing.IOType, DefinedIn: "IO"},
			{Name: "out_int", Params: []typing.DataType{typing.IntType}, Return: typing.IOType, DefinedIn: "IO"},
			{Name: "in_string", Return: typing.StringType, DefinedIn: "IO"},
			{Name: "in_int", Return: typing.IntType, DefinedIn: "IO"},
		},
	},
	{
		name: "String",
		methods: []*MethodSig{
			{Name: "length", Return: typing.IntType, DefinedIn: "String"},
			{Name: "concat", Params: []typing.DataType{typing.StringType}, Return: typing.StringType, DefinedIn: "String"},
			{Name: "substr", Params: []typing.DataType{typing.IntType, typing.IntType}, Return: typing.StringType, DefinedIn: "String"},
		},
	},
	{name: "Int"},
	{name: "Bool"},
}

// -----------------------------------------------------------------------------

// newClassTable builds ClassInfo for every class in parent-before-child
// order.  It requires a structurally valid hierarchy.  Declaration errors
// (duplicate attributes/methods) are collected, not fatal: entries are still
// produced best-effort so the later stages can run.
func newClassTable(classes []*ast.ClassDecl, c *Collector) *ClassTable {
	t := &ClassTable{classes: make(map[string]*ClassInfo)}

	// seed the built-ins; everything but Object hangs off Object
	object := &ClassInfo{
		Name:       "Object",
		Attributes: make(map[string]typing.DataType),
		Methods:    make(map[string]*MethodSig),
	}
	for _, ms := range builtinDefs[0].methods {
		object.Methods[ms.Name] = ms
	}
	t.classes["Object"] = object

	for _, def := range builtinDefs[1:] {
		info := &ClassInfo{
			Name:       def.name,
			Parent:     object,
			Attributes: make(map[string]typing.DataType),
			Methods:    make(map[string]*MethodSig),
		}
		for name, ms := range object.Methods {
			info.Methods[name] = ms
		}
		for _, ms := range def.methods {
			info.Methods[ms.Name] = ms
		}
		t.classes[def.name] = info
	}

	// order user classes parent-before-child; acyclicity makes this a plain
	// worklist over resolved parents
	decls := make(map[string]*ast.ClassDecl, len(classes))
	for _, decl := range classes {
		decls[decl.Name] = decl
	}

	pending := append([]*ast.ClassDecl(nil), classes...)
	for len(pending) > 0 {
		var next []*ast.ClassDecl
		for _, decl := range pending {
			parent := decl.Parent
			if parent == "" {
				parent = "Object"
			}

			parentInfo, ok := t.classes[parent]
			if !ok {
				next = append(next, decl)
				continue
			}

			t.classes[decl.Name] = t.buildClassInfo(decl, parentInfo, c)
		}

		pending = next
	}

	return t
}

// buildClassInfo copies the parent's member maps and overlays one class's own
// features, reporting duplicate members as it goes.
func (t *ClassTable) buildClassInfo(decl *ast.ClassDecl, parent *ClassInfo, c *Collector) *ClassInfo {
	info := &ClassInfo{
		Name:       decl.Name,
		Parent:     parent,
		Attributes: make(map[string]typing.DataType, len(parent.Attributes)),
		Methods:    make(map[string]*MethodSig, len(parent.Methods)),
		Decl:       decl,
	}
	for name, dt := range parent.Attributes {
		info.Attributes[name] = dt
	}
	for name, ms := range parent.Methods {
		info.Methods[name] = ms
	}

	ownMethods := make(map[string]bool)
	for _, feat := range decl.Features {
		switch f := feat.(type) {
		case *ast.Attribute:
			// attributes may never be redeclared, inherited ones included
			if _, ok := info.Attributes[f.Name]; ok {
				c.Add(&SemanticError{Kind: DuplicateAttribute, Class: decl.Name, Name: f.Name})
				continue
			}
			info.Attributes[f.Name] = declaredType(f.Type)
		case *ast.Method:
			if ownMethods[f.Name] {
				c.Add(&SemanticError{Kind: DuplicateMethod, Class: decl.Name, Name: f.Name})
				continue
			}
			ownMethods[f.Name] = true
			info.Methods[f.Name] = methodSig(decl.Name, f)
		}
	}

	return info
}

// declaredType converts a declared type name into its representation; the
// SELF_TYPE marker is kept distinct and never pre-resolved.
func declaredType(name string) typing.DataType {
	if name == "SELF_TYPE" {
		return typing.SelfType{}
	}

	return typing.ClassType(name)
}

// methodSig builds the signature of a declared method.
func methodSig(class string, m *ast.Method) *MethodSig {
	params := make([]typing.DataType, len(m.Params))
	for i, p := range m.Params {
		params[i] = declaredType(p.Type)
	}

	return &MethodSig{
		Name:      m.Name,
		Params:    params,
		Return:    declaredType(m.Return),
		DefinedIn: class,
	}
}

// -----------------------------------------------------------------------------

// Get returns the ClassInfo for a class name.
func (t *ClassTable) Get(name string) (*ClassInfo, bool) {
	info, ok := t.classes[name]
	return info, ok
}

// AttributeType looks up the declared type of an attribute visible in a
// class, its ancestors' attributes included.
func (t *ClassTable) AttributeType(class, name string) (typing.DataType, bool) {
	info, ok := t.classes[class]
	if !ok {
		return nil, false
	}

	dt, ok := info.Attributes[name]
	return dt, ok
}

// Method looks up the signature of a method visible in a class, walking the
// ancestor chain through the inherited entries.
func (t *ClassTable) Method(class, name string) (*MethodSig, bool) {
	info, ok := t.classes[class]
	if !ok {
		return nil, false
	}

	ms, ok := info.Methods[name]
	return ms, ok
}

// resolve maps a type to a concrete class name, resolving the SELF_TYPE
// marker to the enclosing class.
func (t *ClassTable) resolve(dt typing.DataType, enclosing string) string {
	if typing.IsSelf(dt) {
		return enclosing
	}

	return dt.Repr()
}

// Conforms reports whether type a conforms to type b: a equals b, or b is
// SELF_TYPE and a is the same SELF_TYPE in context, or a (with SELF_TYPE
// resolved to the enclosing class) is a descendant of b.  The error sentinel
// conforms in both directions so failed nodes do not cascade.
func (t *ClassTable) Conforms(a, b typing.DataType, enclosing string) bool {
	if typing.IsError(a) || typing.IsError(b) {
		return true
	}

	if typing.Equals(a, b) {
		return true
	}

	// SELF_TYPE-in-C conforms only to itself and to ancestors of C; a
	// concrete class never conforms to SELF_TYPE since the receiver's
	// runtime class may be any descendant
	if typing.IsSelf(b) {
		return false
	}

	cur := t.resolve(a, enclosing)
	target := b.Repr()
	for {
		info, ok := t.classes[cur]
		if !ok {
			return false
		}
		if cur == target {
			return true
		}
		if info.Parent == nil {
			return false
		}
		cur = info.Parent.Name
	}
}

// Join returns the least upper bound of two types: their lowest common
// ancestor in the inheritance tree.  SELF_TYPE joins with itself to itself
// and otherwise resolves to the enclosing class first; the error sentinel is
// absorbed by the other side.
func (t *ClassTable) Join(a, b typing.DataType, enclosing string) typing.DataType {
	if typing.IsError(a) {
		return b
	}
	if typing.IsError(b) {
		return a
	}

	if typing.IsSelf(a) && typing.IsSelf(b) {
		return typing.SelfType{}
	}

	// collect every ancestor of a up to the root, then walk b's chain until
	// it first lands in that set
	ancestors := make(map[string]bool)
	cur := t.resolve(a, enclosing)
	for {
		info, ok := t.classes[cur]
		if !ok {
			return typing.ObjectType
		}
		ancestors[cur] = true
		if info.Parent == nil {
			break
		}
		cur = info.Parent.Name
	}

	cur = t.resolve(b, enclosing)
	for {
		info, ok := t.classes[cur]
		if !ok {
			return typing.ObjectType
		}
		if ancestors[cur] {
			return typing.ClassType(cur)
		}
		if info.Parent == nil {
			break
		}
		cur = info.Parent.Name
	}

	return typing.ObjectType
}
