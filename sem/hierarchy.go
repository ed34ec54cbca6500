package sem

import "coolc/ast"

// builtinClassNames is the fixed set of classes every program gets for free.
var builtinClassNames = map[string]bool{
	"Object": true,
	"IO":     true,
	"Int":    true,
	"String": true,
	"Bool":   true,
}

// sealedParents are the types nothing may inherit from.
var sealedParents = map[string]bool{
	"Int":       true,
	"String":    true,
	"Bool":      true,
	"SELF_TYPE": true,
}

// traversal colors for cycle detection
const (
	colorWhite = iota // unvisited
	colorGray         // in progress on the current chain
	colorBlack        // fully processed
)

// checkHierarchy decides the structural legality of the inheritance graph:
// duplicate class names (including redeclared built-ins and the reserved name
// SELF_TYPE), undefined parents, inheritance from sealed basic types, and
// inheritance cycles.  All structural errors found are collected in this one
// pass; it returns whether the hierarchy is usable by the later stages.
func checkHierarchy(classes []*ast.ClassDecl, c *Collector) bool {
	valid := true

	// detect duplicate class names; only the first declaration of a name
	// participates in the graph
	seen := make(map[string]bool)
	var declared []*ast.ClassDecl
	for _, decl := range classes {
		if seen[decl.Name] || builtinClassNames[decl.Name] || decl.Name == "SELF_TYPE" {
			c.Add(&SemanticError{Kind: DuplicateClass, Class: decl.Name})
			valid = false
			continue
		}

		seen[decl.Name] = true
		declared = append(declared, decl)
	}

	// build the child -> parent adjacency over a name-indexed map; the raw
	// parent pointers are arbitrary and may be cyclic, so no owning tree is
	// materialized until acyclicity is confirmed
	parents := make(map[string]string)
	excluded := make(map[string]bool)
	for _, decl := range declared {
		parent := decl.Parent
		if parent == "" {
			parent = "Object"
		}

		if sealedParents[parent] {
			c.Add(&SemanticError{Kind: IllegalInheritance, Class: decl.Name, Parent: parent})
			valid = false
			// keep the class out of cycle traversal so one bad parent does
			// not also report a bogus cycle
			excluded[decl.Name] = true
			continue
		}

		if !seen[parent] && !builtinClassNames[parent] {
			c.Add(&SemanticError{Kind: UndefinedParent, Class: decl.Name, Parent: parent})
			valid = false
			excluded[decl.Name] = true
			continue
		}

		parents[decl.Name] = parent
	}

	// three-color traversal along parent chains; a gray node reached again
	// before the root is a back-edge.  The root's definitional self-reference
	// (Object -> Object) never enters the traversal since built-ins are
	// colored black up front.
	colors := make(map[string]int)
	for name := range builtinClassNames {
		colors[name] = colorBlack
	}

	for _, decl := range declared {
		if colors[decl.Name] != colorWhite || excluded[decl.Name] {
			continue
		}

		var chain []string
		cur := decl.Name
		for colors[cur] == colorWhite && !excluded[cur] {
			colors[cur] = colorGray
			chain = append(chain, cur)
			cur = parents[cur]
		}

		if colors[cur] == colorGray {
			// back-edge: the cycle is the tail of the chain starting at cur
			start := 0
			for i, name := range chain {
				if name == cur {
					start = i
					break
				}
			}
			c.Add(&SemanticError{Kind: InheritanceCycle, Cycle: chain[start:]})
			valid = false
		}

		for _, name := range chain {
			colors[name] = colorBlack
		}
	}

	return valid
}
