package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/monkey/lang"
)

const fmtSource = `let add = fn(a, b) { a + b }; add(1, 2 * 3)`

func TestFmt_Native(t *testing.T) {
	tests := []struct {
		indent int
		want   string
	}{
		{2, "let add = fn(a, b) (a + b);\nadd(1, (2 * 3))\n"},
		{0, "let add = fn(a, b) (a + b); add(1, (2 * 3))\n"},
	}

	for _, tt := range tests {
		var out bytes.Buffer

		path := writeFile(t, t.TempDir(), "prog.mk", fmtSource)

		if err := (&Native{Indent: tt.indent, Source: path, out: &out}).Run(t.Context()); err != nil {
			t.Fatalf("Run: %v", err)
		}

		if out.String() != tt.want {
			t.Errorf("indent %d: output = %q, want %q", tt.indent, out.String(), tt.want)
		}
	}
}

func TestFmt_JSON(t *testing.T) {
	var out bytes.Buffer

	path := writeFile(t, t.TempDir(), "prog.mk", fmtSource)

	if err := (&JSON{Indent: 2, Source: path, out: &out}).Run(t.Context()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var tree map[string]any
	if err := json.Unmarshal(out.Bytes(), &tree); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}

	if tree["node"] != "Program" {
		t.Errorf("node = %v, want Program", tree["node"])
	}

	stmts, ok := tree["statements"].([]any)
	if !ok || len(stmts) != 2 {
		t.Fatalf("statements = %v", tree["statements"])
	}

	if kind := stmts[0].(map[string]any)["node"]; kind != "LetStatement" {
		t.Errorf("first statement = %v, want LetStatement", kind)
	}
}

func TestFmt_YAML(t *testing.T) {
	var out bytes.Buffer

	path := writeFile(t, t.TempDir(), "prog.mk", `let x = 1;`)

	if err := (&YAML{Indent: 2, Source: path, out: &out}).Run(t.Context()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{"node: Program", "node: LetStatement"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q does not contain %q", out.String(), want)
		}
	}
}

func TestFmt_AST(t *testing.T) {
	var out bytes.Buffer

	path := writeFile(t, t.TempDir(), "prog.mk", `let x = 1;`)

	if err := (&AST{Indent: 2, Source: path, out: &out}).Run(t.Context()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{"ast.Program", "ast.LetStatement", "ast.IntegerLiteral"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestFmt_InvalidSyntax(t *testing.T) {
	path := writeFile(t, t.TempDir(), "prog.mk", `let = ;`)

	commands := map[string]interface{ Run(context.Context) error }{
		"native": &Native{Indent: 2, Source: path, out: &bytes.Buffer{}},
		"json":   &JSON{Indent: 2, Source: path, out: &bytes.Buffer{}},
		"yaml":   &YAML{Indent: 2, Source: path, out: &bytes.Buffer{}},
		"ast":    &AST{Indent: 2, Source: path, out: &bytes.Buffer{}},
	}

	for name, c := range commands {
		t.Run(name, func(t *testing.T) {
			if err := c.Run(t.Context()); !errors.Is(err, lang.ErrParse) {
				t.Errorf("error = %v, want ErrParse", err)
			}
		})
	}
}
