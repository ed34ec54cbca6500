package sem

import (
	"strings"
	"testing"

	"coolc/ast"
	"coolc/syntax"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()

	prog, err := syntax.ParseSource(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return prog
}

func kindsOf(errs []*SemanticError) []ErrorKind {
	kinds := make([]ErrorKind, len(errs))
	for i, e := range errs {
		kinds[i] = e.Kind
	}

	return kinds
}

func countKind(errs []*SemanticError, kind ErrorKind) int {
	n := 0
	for _, e := range errs {
		if e.Kind == kind {
			n++
		}
	}

	return n
}

func TestHierarchyStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ErrorKind
	}{
		{
			name: "duplicate class",
			src:  `class A {}; class A {};`,
			want: DuplicateClass,
		},
		{
			name: "redeclared built-in",
			src:  `class Int {};`,
			want: DuplicateClass,
		},
		{
			name: "undefined parent",
			src:  `class A inherits B {};`,
			want: UndefinedParent,
		},
		{
			name: "inherit from Int",
			src:  `class A inherits Int {};`,
			want: IllegalInheritance,
		},
		{
			name: "inherit from Bool",
			src:  `class A inherits Bool {};`,
			want: IllegalInheritance,
		},
		{
			name: "inherit from String",
			src:  `class A inherits String {};`,
			want: IllegalInheritance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Analyze(mustParse(t, tt.src))

			if len(res.Errors) != 1 {
				t.Fatalf("expected exactly one error, got %v", kindsOf(res.Errors))
			}
			if res.Errors[0].Kind != tt.want {
				t.Errorf("expected kind %d, got %d", tt.want, res.Errors[0].Kind)
			}

			// structural errors gate all later stages
			if res.Types != nil {
				t.Error("expected analysis to halt before type checking")
			}
		})
	}
}

func TestHierarchyCycle(t *testing.T) {
	res := Analyze(mustParse(t, `class A inherits B {}; class B inherits A {};`))

	if len(res.Errors) != 1 || res.Errors[0].Kind != InheritanceCycle {
		t.Fatalf("expected exactly one InheritanceCycle, got %v", kindsOf(res.Errors))
	}

	cycle := res.Errors[0].Cycle
	if len(cycle) != 2 {
		t.Fatalf("expected two cycle participants, got %v", cycle)
	}

	found := map[string]bool{}
	for _, name := range cycle {
		found[name] = true
	}
	if !found["A"] || !found["B"] {
		t.Errorf("expected cycle to name A and B, got %v", cycle)
	}
}

func TestHierarchySelfCycle(t *testing.T) {
	res := Analyze(mustParse(t, `class A inherits A {};`))

	if len(res.Errors) != 1 || res.Errors[0].Kind != InheritanceCycle {
		t.Fatalf("expected exactly one InheritanceCycle, got %v", kindsOf(res.Errors))
	}
}

func TestHierarchyBadParentExcludedFromCycleTraversal(t *testing.T) {
	// B's parent is undefined; B must not also appear in a bogus cycle
	res := Analyze(mustParse(t, `class A inherits B {}; class B inherits C {};`))

	for _, e := range res.Errors {
		if e.Kind == InheritanceCycle {
			t.Fatalf("unexpected cycle diagnostic: %v", e)
		}
	}
	if countKind(res.Errors, UndefinedParent) != 1 {
		t.Errorf("expected one UndefinedParent, got %v", kindsOf(res.Errors))
	}
}

func TestHierarchyAllStructuralErrorsReportedTogether(t *testing.T) {
	src := `
		class A inherits Int {};
		class B inherits Missing {};
		class C {};
		class C {};
	`
	res := Analyze(mustParse(t, src))

	if countKind(res.Errors, IllegalInheritance) != 1 ||
		countKind(res.Errors, UndefinedParent) != 1 ||
		countKind(res.Errors, DuplicateClass) != 1 {
		t.Errorf("expected one of each structural kind, got %v", kindsOf(res.Errors))
	}
}

func TestHierarchyValidProgram(t *testing.T) {
	src := `
		class A {};
		class B inherits A {};
		class C inherits B {};
	`
	res := Analyze(mustParse(t, src))

	if res.Failed() {
		t.Fatalf("expected no errors, got %v", kindsOf(res.Errors))
	}
	if res.Types == nil || res.Table == nil {
		t.Error("expected a completed analysis result")
	}
}

func TestClassNamedSelfTypeRejected(t *testing.T) {
	res := Analyze(mustParse(t, `class SELF_TYPE {};`))

	if len(res.Errors) != 1 || res.Errors[0].Kind != DuplicateClass {
		t.Fatalf("expected exactly one DuplicateClass, got %v", kindsOf(res.Errors))
	}
}
