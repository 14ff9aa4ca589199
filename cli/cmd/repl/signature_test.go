package repl

import (
	"slices"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   functionCall
	}{
		{"first argument", "push(", 5, functionCall{"push", 0, true}},
		{"second argument", "push(a, ", 8, functionCall{"push", 1, true}},
		{"array argument", "len([1, 2], ", 12, functionCall{"len", 1, true}},
		{"hash argument", `f({"a": 1, "b": 2}, `, 20, functionCall{"f", 1, true}},
		{"comma in string", `puts("a, b", `, 13, functionCall{"puts", 1, true}},
		{"nested call", "f(g(1, 2", 8, functionCall{"g", 1, true}},
		{"after nested call", "f(g(1), ", 8, functionCall{"f", 1, true}},
		{"space before paren", "add (1", 6, functionCall{"add", 0, true}},
		{"closed call", "f(1)", 4, functionCall{}},
		{"cursor before paren", "f(1)", 1, functionCall{}},
		{"function literal", "fn(x", 4, functionCall{}},
		{"condition", "if (x", 5, functionCall{}},
		{"grouping", "(1 + ", 5, functionCall{}},
		{"array literal", "[1, ", 4, functionCall{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(functionCall{})); diff != "" {
				t.Errorf("detectFunctionCall(%q, %d) mismatch (-want +got):\n%s",
					tt.input, tt.cursor, diff)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	m := newTestModel(t, `let add = fn(a, b) { a + b }; let n = 1; let len = fn(s) { 0 };`)

	tests := []struct {
		name   string
		params []string
		ok     bool
	}{
		{"add", []string{"a", "b"}, true},
		{"push", []string{"array", "value"}, true},
		{"quote", []string{"expression"}, true},
		{"len", []string{"s"}, true},
		{"n", nil, false},
		{"missing", nil, false},
	}

	for _, tt := range tests {
		params, ok := signature(m.interp, tt.name)
		if ok != tt.ok {
			t.Errorf("signature(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}

		if diff := cmp.Diff(tt.params, params); diff != "" {
			t.Errorf("signature(%q) mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name     string
		params   []string
		argIndex int
	}{
		{"push", []string{"array", "value"}, 1},
		{"puts", []string{"...values"}, 3},
		{"f", nil, 0},
	}

	want := []string{"push(array, value)", "puts(...values)", "f()"}

	for i, tt := range tests {
		got := ansi.Strip(renderSignatureHint(tt.name, tt.params, tt.argIndex))
		if got != want[i] {
			t.Errorf("renderSignatureHint(%q) = %q, want %q", tt.name, got, want[i])
		}
	}
}

func TestSpecialForms(t *testing.T) {
	forms := specialForms()

	if !slices.IsSorted(forms) {
		t.Errorf("specialForms() not sorted: %v", forms)
	}

	for _, name := range []string{"quote", "unquote", "len", "puts"} {
		if !slices.Contains(forms, name) {
			t.Errorf("specialForms() missing %q", name)
		}
	}
}
