package sem

import (
	"strings"
	"testing"

	"coolc/ast"
	"coolc/typing"

	"github.com/go-test/deep"
)

// findMethodBody returns the body expression of a named method so tests can
// look its inferred type up in the result mapping.
func findMethodBody(t *testing.T, prog *ast.Program, class, method string) ast.Expr {
	t.Helper()

	for _, decl := range prog.Classes {
		if decl.Name != class {
			continue
		}
		for _, feat := range decl.Features {
			if m, ok := feat.(*ast.Method); ok && m.Name == method {
				return m.Body
			}
		}
	}

	t.Fatalf("method %s.%s not found", class, method)
	return nil
}

func TestLiteralAndOperatorTypes(t *testing.T) {
	tests := []struct {
		name string
		body string
		ret  string
		want typing.DataType
	}{
		{"int literal", "42", "Int", typing.IntType},
		{"string literal", `"hi"`, "String", typing.StringType},
		{"bool literal", "true", "Bool", typing.BoolType},
		{"arithmetic", "1 + 2 * 3", "Int", typing.IntType},
		{"comparison", "1 < 2", "Bool", typing.BoolType},
		{"equality of unrelated types", `1 = "one"`, "Bool", typing.BoolType},
		{"negation", "~5", "Int", typing.IntType},
		{"logical not", "not false", "Bool", typing.BoolType},
		{"isvoid", "isvoid 1", "Bool", typing.BoolType},
		{"while is Object", "while false loop 1 pool", "Object", typing.ObjectType},
		{"block takes the last type", `{ 1; "two"; true; }`, "Bool", typing.BoolType},
		{"let body type", "let x : Int <- 1 in x + 1", "Int", typing.IntType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, `class Main { f() : `+tt.ret+` { `+tt.body+` }; };`)
			res := Analyze(prog)

			if res.Failed() {
				t.Fatalf("unexpected errors: %v", kindsOf(res.Errors))
			}

			got, ok := res.TypeOf(findMethodBody(t, prog, "Main", "f"))
			if !ok {
				t.Fatal("no inferred type for method body")
			}
			if !typing.Equals(got, tt.want) {
				t.Errorf("inferred %s, want %s", got.Repr(), tt.want.Repr())
			}
		})
	}
}

func TestMethodBodyMustConformToReturnType(t *testing.T) {
	res := Analyze(mustParse(t, `class Main { foo() : Int { "hello" }; };`))

	if len(res.Errors) != 1 || res.Errors[0].Kind != TypeMismatch {
		t.Fatalf("expected exactly one TypeMismatch, got %v", kindsOf(res.Errors))
	}

	e := res.Errors[0]
	if e.Expected != "Int" || e.Found != "String" {
		t.Errorf("expected Int/String mismatch, got %q/%q", e.Expected, e.Found)
	}
	if !strings.Contains(e.Where, "foo") {
		t.Errorf("diagnostic should name the method: %q", e.Where)
	}
}

func TestAttributeInitializerMustConform(t *testing.T) {
	res := Analyze(mustParse(t, `class Main { x : Int <- "oops"; };`))

	if len(res.Errors) != 1 || res.Errors[0].Kind != TypeMismatch {
		t.Fatalf("expected exactly one TypeMismatch, got %v", kindsOf(res.Errors))
	}
	if !strings.Contains(res.Errors[0].Where, "x") {
		t.Errorf("diagnostic should name the attribute: %q", res.Errors[0].Where)
	}
}

func TestCondPredicateAndJoin(t *testing.T) {
	src := `
		class C {};
		class A inherits C {};
		class B inherits C {};
		class Main { f() : C { if 1 < 2 then new A else new B fi }; };
	`
	prog := mustParse(t, src)
	res := Analyze(prog)

	if res.Failed() {
		t.Fatalf("unexpected errors: %v", kindsOf(res.Errors))
	}

	got, _ := res.TypeOf(findMethodBody(t, prog, "Main", "f"))
	if !typing.Equals(got, typing.ClassType("C")) {
		t.Errorf("conditional should join to the lowest common ancestor C, got %s", got.Repr())
	}

	// a non-Bool predicate is a mismatch, but both arms still check and the
	// result is still their join
	bad := `
		class C {};
		class A inherits C {};
		class B inherits C {};
		class Main { f() : C { if 1 then new A else new B fi }; };
	`
	badRes := Analyze(mustParse(t, bad))
	if countKind(badRes.Errors, TypeMismatch) != 1 {
		t.Errorf("expected one TypeMismatch for the predicate, got %v", kindsOf(badRes.Errors))
	}
}

func TestArithmeticOperandMismatch(t *testing.T) {
	res := Analyze(mustParse(t, `class Main { f() : Int { 1 + "two" }; };`))

	if countKind(res.Errors, TypeMismatch) != 1 {
		t.Fatalf("expected one TypeMismatch, got %v", kindsOf(res.Errors))
	}
	if res.Errors[0].Expected != "Int" || res.Errors[0].Found != "String" {
		t.Errorf("expected Int/String mismatch, got %+v", res.Errors[0])
	}
}

func TestUndefinedVariable(t *testing.T) {
	res := Analyze(mustParse(t, `class Main { f() : Int { y }; };`))

	// the undefined identifier yields the error sentinel, so the body's
	// conformance check stays quiet
	if len(res.Errors) != 1 || res.Errors[0].Kind != UndefinedVariable {
		t.Fatalf("expected exactly one UndefinedVariable, got %v", kindsOf(res.Errors))
	}
	if res.Errors[0].Name != "y" {
		t.Errorf("expected the diagnostic to name y, got %s", res.Errors[0].Name)
	}
}

func TestAssignmentConformance(t *testing.T) {
	ok := `
		class A {};
		class B inherits A {};
		class Main { x : A; f() : A { x <- new B }; };
	`
	res := Analyze(mustParse(t, ok))
	if res.Failed() {
		t.Fatalf("assigning a subtype should be legal, got %v", kindsOf(res.Errors))
	}

	bad := `
		class A {};
		class B inherits A {};
		class Main { x : B; f() : A { x <- new A }; };
	`
	res = Analyze(mustParse(t, bad))
	if countKind(res.Errors, TypeMismatch) != 1 {
		t.Errorf("assigning a supertype should fail, got %v", kindsOf(res.Errors))
	}
}

func TestParametersAndAttributesInScope(t *testing.T) {
	src := `
		class Main {
			total : Int;
			add(n : Int) : Int { total + n };
		};
	`
	res := Analyze(mustParse(t, src))
	if res.Failed() {
		t.Fatalf("unexpected errors: %v", kindsOf(res.Errors))
	}
}

func TestLetShadowing(t *testing.T) {
	src := `
		class Main {
			x : String;
			f() : Int { let x : Int <- 1 in x + 1 };
		};
	`
	res := Analyze(mustParse(t, src))
	if res.Failed() {
		t.Fatalf("let binding should shadow the attribute, got %v", kindsOf(res.Errors))
	}
}

func TestLetBindingErrors(t *testing.T) {
	t.Run("initializer must conform", func(t *testing.T) {
		res := Analyze(mustParse(t, `class Main { f() : Int { let x : Int <- "no" in x }; };`))
		if countKind(res.Errors, TypeMismatch) != 1 {
			t.Errorf("expected one TypeMismatch, got %v", kindsOf(res.Errors))
		}
	})

	t.Run("undefined binding type", func(t *testing.T) {
		res := Analyze(mustParse(t, `class Main { f() : Int { let x : Missing in 1 }; };`))
		if countKind(res.Errors, UndefinedClass) != 1 {
			t.Errorf("expected one UndefinedClass, got %v", kindsOf(res.Errors))
		}
	})

	t.Run("later bindings see earlier ones", func(t *testing.T) {
		res := Analyze(mustParse(t, `class Main { f() : Int { let x : Int <- 1, y : Int <- x + 1 in y }; };`))
		if res.Failed() {
			t.Errorf("unexpected errors: %v", kindsOf(res.Errors))
		}
	})
}

func TestDispatch(t *testing.T) {
	base := `
		class A { f(n : Int) : Int { n }; };
	`

	t.Run("valid dispatch", func(t *testing.T) {
		res := Analyze(mustParse(t, base+`class Main { g() : Int { (new A).f(1) }; };`))
		if res.Failed() {
			t.Fatalf("unexpected errors: %v", kindsOf(res.Errors))
		}
	})

	t.Run("unknown method", func(t *testing.T) {
		res := Analyze(mustParse(t, base+`class Main { g() : Int { (new A).nope(1) }; };`))
		if len(res.Errors) != 1 || res.Errors[0].Kind != ArgumentCountMismatch {
			t.Fatalf("expected one ArgumentCountMismatch, got %v", kindsOf(res.Errors))
		}
		if res.Errors[0].Expected != "0" || res.Errors[0].Found != "1" {
			t.Errorf("unknown methods report a zero-parameter expectation, got %+v", res.Errors[0])
		}
	})

	t.Run("wrong arity", func(t *testing.T) {
		res := Analyze(mustParse(t, base+`class Main { g() : Int { (new A).f(1, 2) }; };`))
		if len(res.Errors) != 1 || res.Errors[0].Kind != ArgumentCountMismatch {
			t.Fatalf("expected one ArgumentCountMismatch, got %v", kindsOf(res.Errors))
		}
		if res.Errors[0].Expected != "1" || res.Errors[0].Found != "2" {
			t.Errorf("unexpected counts: %+v", res.Errors[0])
		}
	})

	t.Run("argument type mismatch", func(t *testing.T) {
		res := Analyze(mustParse(t, base+`class Main { g() : Int { (new A).f("one") }; };`))
		if countKind(res.Errors, TypeMismatch) != 1 {
			t.Fatalf("expected one TypeMismatch, got %v", kindsOf(res.Errors))
		}
	})

	t.Run("implicit receiver is self", func(t *testing.T) {
		res := Analyze(mustParse(t, `class Main { f() : Int { 1 }; g() : Int { f() }; };`))
		if res.Failed() {
			t.Fatalf("unexpected errors: %v", kindsOf(res.Errors))
		}
	})

	t.Run("inherited method via self", func(t *testing.T) {
		res := Analyze(mustParse(t, `class Main inherits IO { g() : IO { out_string("hi") }; };`))
		if res.Failed() {
			t.Fatalf("unexpected errors: %v", kindsOf(res.Errors))
		}
	})
}

func TestStaticDispatch(t *testing.T) {
	base := `
		class A { f() : Int { 1 }; };
		class B inherits A { f() : Int { 2 }; };
	`

	t.Run("ancestor target is legal", func(t *testing.T) {
		res := Analyze(mustParse(t, base+`class Main { g() : Int { (new B)@A.f() }; };`))
		if res.Failed() {
			t.Fatalf("unexpected errors: %v", kindsOf(res.Errors))
		}
	})

	t.Run("non-ancestor target", func(t *testing.T) {
		src := base + `
			class C {};
			class Main { g() : Int { (new B)@C.f() }; };
		`
		res := Analyze(mustParse(t, src))
		if len(res.Errors) != 1 || res.Errors[0].Kind != StaticDispatchError {
			t.Fatalf("expected one StaticDispatchError, got %v", kindsOf(res.Errors))
		}
		if res.Errors[0].Name != "C" || res.Errors[0].Found != "B" {
			t.Errorf("diagnostic should name target and receiver: %+v", res.Errors[0])
		}
	})

	t.Run("undefined target", func(t *testing.T) {
		res := Analyze(mustParse(t, base+`class Main { g() : Int { (new B)@Missing.f() }; };`))
		if len(res.Errors) != 1 || res.Errors[0].Kind != UndefinedClass {
			t.Fatalf("expected one UndefinedClass, got %v", kindsOf(res.Errors))
		}
	})
}

func TestSelfTypeDispatch(t *testing.T) {
	src := `
		class A { dup() : SELF_TYPE { self }; };
		class B inherits A { only_b() : Int { 1 }; };
		class Main { g() : Int { (new B).dup().only_b() }; };
	`
	prog := mustParse(t, src)
	res := Analyze(prog)

	// dup() on a B receiver returns B, so only_b resolves
	if res.Failed() {
		t.Fatalf("unexpected errors: %v", kindsOf(res.Errors))
	}
}

func TestSelfTypeMethodReturn(t *testing.T) {
	ok := `class A { dup() : SELF_TYPE { self }; };`
	res := Analyze(mustParse(t, ok))
	if res.Failed() {
		t.Fatalf("returning self from SELF_TYPE should be legal, got %v", kindsOf(res.Errors))
	}

	// a concrete class never conforms to a declared SELF_TYPE return
	bad := `class A { dup() : SELF_TYPE { new A }; };`
	res = Analyze(mustParse(t, bad))
	if countKind(res.Errors, TypeMismatch) != 1 {
		t.Errorf("expected one TypeMismatch, got %v", kindsOf(res.Errors))
	}
}

func TestNewExpressions(t *testing.T) {
	t.Run("new SELF_TYPE", func(t *testing.T) {
		res := Analyze(mustParse(t, `class A { dup() : SELF_TYPE { new SELF_TYPE }; };`))
		if res.Failed() {
			t.Fatalf("unexpected errors: %v", kindsOf(res.Errors))
		}
	})

	t.Run("new undefined class", func(t *testing.T) {
		res := Analyze(mustParse(t, `class Main { f() : Object { new Missing }; };`))
		if len(res.Errors) != 1 || res.Errors[0].Kind != UndefinedClass {
			t.Fatalf("expected one UndefinedClass, got %v", kindsOf(res.Errors))
		}
	})
}

func TestCaseExpressions(t *testing.T) {
	t.Run("result joins all branches", func(t *testing.T) {
		src := `
			class C {};
			class A inherits C {};
			class B inherits C {};
			class Main {
				f() : C { case new A of a : A => new A; b : B => new B; esac };
			};
		`
		prog := mustParse(t, src)
		res := Analyze(prog)
		if res.Failed() {
			t.Fatalf("unexpected errors: %v", kindsOf(res.Errors))
		}

		got, _ := res.TypeOf(findMethodBody(t, prog, "Main", "f"))
		if !typing.Equals(got, typing.ClassType("C")) {
			t.Errorf("case should join branch types to C, got %s", got.Repr())
		}
	})

	t.Run("duplicate branch type", func(t *testing.T) {
		src := `
			class Main {
				f() : Int { case 1 of x : Int => 1; y : Int => 2; esac };
			};
		`
		res := Analyze(mustParse(t, src))
		if countKind(res.Errors, DuplicateCaseBranch) != 1 {
			t.Fatalf("expected exactly one DuplicateCaseBranch, got %v", kindsOf(res.Errors))
		}
		if res.Errors[0].Name != "Int" {
			t.Errorf("diagnostic should name the repeated type, got %s", res.Errors[0].Name)
		}
	})

	t.Run("undefined branch type", func(t *testing.T) {
		src := `
			class Main {
				f() : Object { case 1 of x : Missing => x; esac };
			};
		`
		res := Analyze(mustParse(t, src))
		if countKind(res.Errors, UndefinedClass) != 1 {
			t.Errorf("expected one UndefinedClass, got %v", kindsOf(res.Errors))
		}
	})

	t.Run("branch variable is bound to the branch type", func(t *testing.T) {
		src := `
			class Main {
				f() : Int { case new Object of n : Int => n + 1; esac };
			};
		`
		res := Analyze(mustParse(t, src))
		if res.Failed() {
			t.Fatalf("unexpected errors: %v", kindsOf(res.Errors))
		}
	})
}

func TestErrorSentinelDoesNotCascade(t *testing.T) {
	// one undefined variable inside a larger expression tree yields one
	// diagnostic, not one per enclosing node
	src := `
		class Main {
			f() : Int { (y + 1) * 2 };
		};
	`
	res := Analyze(mustParse(t, src))

	if len(res.Errors) != 1 || res.Errors[0].Kind != UndefinedVariable {
		t.Fatalf("expected exactly one UndefinedVariable, got %v", kindsOf(res.Errors))
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	src := `
		class C {};
		class A inherits C { f(n : Int) : Int { n * 2 }; };
		class B inherits C {};
		class Main inherits IO {
			a : A <- new A;
			g() : C { if a.f(1) < 3 then new A else new B fi };
		};
	`
	prog := mustParse(t, src)

	first := Analyze(prog)
	second := Analyze(prog)

	if first.Failed() || second.Failed() {
		t.Fatalf("unexpected errors: %v / %v", kindsOf(first.Errors), kindsOf(second.Errors))
	}

	if diff := deep.Equal(first.Errors, second.Errors); diff != nil {
		t.Errorf("diagnostics differ between runs: %v", diff)
	}

	if len(first.Types) != len(second.Types) {
		t.Fatalf("type mappings differ in size: %d vs %d", len(first.Types), len(second.Types))
	}
	for node, dt := range first.Types {
		other, ok := second.Types[node]
		if !ok {
			t.Fatalf("second run missing a node typed %s in the first", dt.Repr())
		}
		if !typing.Equals(dt, other) {
			t.Errorf("node typed %s in the first run, %s in the second", dt.Repr(), other.Repr())
		}
	}
}
