package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ardnew/monkey/lang/ast"
	"github.com/ardnew/monkey/lang/object"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the syntax tree to nested Go maps and slices. Every node
// becomes a map whose "node" key names its kind.
func (p *Program) ToMap() map[string]any {
	stmts := make([]any, len(p.Statements))
	for i, s := range p.Statements {
		stmts[i] = nodeToMap(s)
	}

	return map[string]any{
		"node":       "Program",
		"statements": stmts,
	}
}

func nodeToMap(node ast.Node) any {
	switch n := node.(type) {
	case nil:
		return nil

	case *ast.LetStatement:
		return map[string]any{
			"node":  "LetStatement",
			"name":  n.Name.Value,
			"value": exprToMap(n.Value),
		}

	case *ast.ReturnStatement:
		return map[string]any{
			"node":  "ReturnStatement",
			"value": exprToMap(n.ReturnValue),
		}

	case *ast.ExpressionStatement:
		return map[string]any{
			"node":       "ExpressionStatement",
			"expression": exprToMap(n.Expression),
		}

	case *ast.BlockStatement:
		if n == nil {
			return nil
		}

		stmts := make([]any, len(n.Statements))
		for i, s := range n.Statements {
			stmts[i] = nodeToMap(s)
		}

		return map[string]any{
			"node":       "BlockStatement",
			"statements": stmts,
		}

	case *ast.Identifier:
		return map[string]any{"node": "Identifier", "value": n.Value}

	case *ast.IntegerLiteral:
		return map[string]any{"node": "IntegerLiteral", "value": n.Value}

	case *ast.StringLiteral:
		return map[string]any{"node": "StringLiteral", "value": n.Value}

	case *ast.Boolean:
		return map[string]any{"node": "Boolean", "value": n.Value}

	case *ast.PrefixExpression:
		return map[string]any{
			"node":     "PrefixExpression",
			"operator": n.Operator,
			"right":    exprToMap(n.Right),
		}

	case *ast.InfixExpression:
		return map[string]any{
			"node":     "InfixExpression",
			"operator": n.Operator,
			"left":     exprToMap(n.Left),
			"right":    exprToMap(n.Right),
		}

	case *ast.IfExpression:
		m := map[string]any{
			"node":        "IfExpression",
			"condition":   exprToMap(n.Condition),
			"consequence": nodeToMap(n.Consequence),
		}
		if n.Alternative != nil {
			m["alternative"] = nodeToMap(n.Alternative)
		}

		return m

	case *ast.FunctionLiteral:
		params := make([]any, len(n.Parameters))
		for i, id := range n.Parameters {
			params[i] = id.Value
		}

		return map[string]any{
			"node":       "FunctionLiteral",
			"parameters": params,
			"body":       nodeToMap(n.Body),
		}

	case *ast.CallExpression:
		return map[string]any{
			"node":      "CallExpression",
			"function":  exprToMap(n.Function),
			"arguments": exprsToList(n.Arguments),
		}

	case *ast.ArrayLiteral:
		return map[string]any{
			"node":     "ArrayLiteral",
			"elements": exprsToList(n.Elements),
		}

	case *ast.IndexExpression:
		return map[string]any{
			"node":  "IndexExpression",
			"left":  exprToMap(n.Left),
			"index": exprToMap(n.Index),
		}

	case *ast.HashLiteral:
		pairs := make([]any, len(n.Pairs))
		for i, pair := range n.Pairs {
			pairs[i] = map[string]any{
				"key":   exprToMap(pair.Key),
				"value": exprToMap(pair.Value),
			}
		}

		return map[string]any{
			"node":  "HashLiteral",
			"pairs": pairs,
		}

	default:
		return map[string]any{"node": fmt.Sprintf("%T", node)}
	}
}

// exprToMap guards against a nil interface holding no expression.
func exprToMap(e ast.Expression) any {
	if e == nil {
		return nil
	}

	return nodeToMap(e)
}

func exprsToList(exprs []ast.Expression) []any {
	list := make([]any, len(exprs))
	for i, e := range exprs {
		list[i] = exprToMap(e)
	}

	return list
}

// ToNative converts a runtime value to its native Go form.
// Hash keys become strings: string keys keep their content and other
// keys use their inspected form. Values with no data form, such as
// functions, become their inspected text.
func ToNative(obj object.Object) any {
	switch o := obj.(type) {
	case nil, *object.Null:
		return nil

	case *object.Integer:
		return o.Value

	case *object.Boolean:
		return o.Value

	case *object.String:
		return o.Value

	case *object.Array:
		list := make([]any, len(o.Elements))
		for i, el := range o.Elements {
			list[i] = ToNative(el)
		}

		return list

	case *object.Hash:
		m := make(map[string]any, o.Len())
		for _, pair := range o.All() {
			m[hashKeyString(pair.Key)] = ToNative(pair.Value)
		}

		return m

	case *object.ReturnValue:
		return ToNative(o.Value)

	case *object.Error:
		return map[string]any{"error": o.Message}

	default:
		return obj.Inspect()
	}
}

func hashKeyString(key object.Object) string {
	if s, ok := key.(*object.String); ok {
		return s.Value
	}

	return key.Inspect()
}

// FormatValue writes obj to w in the named format: "inspect" for the
// Monkey display form, or "json" or "yaml" for the native form.
func FormatValue(ctx context.Context, w io.Writer, obj object.Object, format string, indent int) error {
	switch strings.ToLower(format) {
	case "", "inspect":
		if _, err := fmt.Fprintln(w, obj.Inspect()); err != nil {
			return ErrFormat.Wrap(err)
		}

		return nil

	case "json":
		var (
			data []byte
			err  error
		)

		if indent > 0 {
			data, err = json.MarshalIndent(ToNative(obj), "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(ToNative(obj))
		}

		if err != nil {
			return ErrFormat.Wrap(err)
		}

		if _, err = fmt.Fprintln(w, string(data)); err != nil {
			return ErrFormat.Wrap(err)
		}

		return nil

	case "yaml":
		return writeYAML(ctx, w, ToNative(obj), indent)

	default:
		return ErrFormat.Wrap(fmt.Errorf("unknown format %q", format))
	}
}
