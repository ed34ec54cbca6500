package sem

import (
	"strings"
	"testing"
)

func TestOverrides(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantError bool
	}{
		{
			name: "identical signature is a valid override",
			src: `
				class A { f(x : Int) : Int { x }; };
				class B inherits A { f(x : Int) : Int { x + 1 }; };
			`,
			wantError: false,
		},
		{
			name: "changed return type",
			src: `
				class A { f(x : Int) : Int { x }; };
				class B inherits A { f(x : Int) : Bool { true }; };
			`,
			wantError: true,
		},
		{
			name: "changed parameter type",
			src: `
				class A { f(x : Int) : Int { x }; };
				class B inherits A { f(x : String) : Int { 1 }; };
			`,
			wantError: true,
		},
		{
			name: "changed parameter count",
			src: `
				class A { f(x : Int) : Int { x }; };
				class B inherits A { f() : Int { 1 }; };
			`,
			wantError: true,
		},
		{
			name: "covariant return is not permitted",
			src: `
				class P {};
				class Q inherits P {};
				class A { f() : P { new P }; };
				class B inherits A { f() : Q { new Q }; };
			`,
			wantError: true,
		},
		{
			name: "fresh method with an unrelated name",
			src: `
				class A { f() : Int { 1 }; };
				class B inherits A { g() : Bool { true }; };
			`,
			wantError: false,
		},
		{
			name: "built-in method override must match",
			src: `
				class A inherits IO { out_string(s : String) : Int { 1 }; };
			`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Analyze(mustParse(t, tt.src))

			got := countKind(res.Errors, InvalidOverride)
			if tt.wantError && got != 1 {
				t.Errorf("expected one InvalidOverride, got %v", kindsOf(res.Errors))
			}
			if !tt.wantError && got != 0 {
				t.Errorf("expected no InvalidOverride, got %v", kindsOf(res.Errors))
			}
		})
	}
}

func TestOverrideDiagnosticQuotesBothSignatures(t *testing.T) {
	src := `
		class A { f(x : Int) : Int { x }; };
		class B inherits A { f(x : Int) : Bool { true }; };
	`
	res := Analyze(mustParse(t, src))

	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", kindsOf(res.Errors))
	}

	e := res.Errors[0]
	if e.Class != "B" || e.Name != "f" || e.Parent != "A" {
		t.Errorf("diagnostic should locate the override: %+v", e)
	}
	if e.Expected != "f(Int): Int" || e.Found != "f(Int): Bool" {
		t.Errorf("diagnostic should quote both signatures: expected=%q found=%q", e.Expected, e.Found)
	}

	msg := e.Error()
	if !strings.Contains(msg, "f(Int): Int") || !strings.Contains(msg, "f(Int): Bool") {
		t.Errorf("rendered message should quote both signatures: %s", msg)
	}
}

func TestOverrideAcrossSkippedGeneration(t *testing.T) {
	// C overrides a method defined two levels up; the nearest ancestor
	// definition is still A's
	src := `
		class A { f() : Int { 1 }; };
		class B inherits A {};
		class C inherits B { f() : String { "x" }; };
	`
	res := Analyze(mustParse(t, src))

	if countKind(res.Errors, InvalidOverride) != 1 {
		t.Fatalf("expected one InvalidOverride, got %v", kindsOf(res.Errors))
	}
	if res.Errors[0].Parent != "A" {
		t.Errorf("expected the diagnostic to name A as the defining ancestor, got %s", res.Errors[0].Parent)
	}
}
