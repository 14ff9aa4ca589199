package evaluator

import (
	"strconv"

	"github.com/ardnew/monkey/lang/ast"
	"github.com/ardnew/monkey/lang/object"
	"github.com/ardnew/monkey/lang/token"
)

func isQuoteCall(node *ast.CallExpression) bool {
	id, ok := node.Function.(*ast.Identifier)

	return ok && id.Value == "quote"
}

func isUnquoteCall(node ast.Node) bool {
	call, ok := node.(*ast.CallExpression)
	if !ok {
		return false
	}

	id, ok := call.Function.(*ast.Identifier)

	return ok && id.Value == "unquote"
}

// quote wraps node without evaluating it. Calls to unquote inside node are
// evaluated in env and spliced back in as AST nodes. The program's own tree
// is left untouched.
func (e *Evaluator) quote(node ast.Node, env *object.Environment) object.Object {
	node, err := e.evalUnquoteCalls(ast.Clone(node), env)
	if err != nil {
		return err
	}

	return &object.Quote{Node: node}
}

// evalUnquoteCalls replaces each unquote call in quoted with the literal
// form of its evaluated argument. The first runtime error stops the
// replacement and is returned.
func (e *Evaluator) evalUnquoteCalls(quoted ast.Node, env *object.Environment) (ast.Node, *object.Error) {
	var failed *object.Error

	node := ast.Modify(quoted, func(node ast.Node) ast.Node {
		if failed != nil || !isUnquoteCall(node) {
			return node
		}

		call := node.(*ast.CallExpression)
		if len(call.Arguments) != 1 {
			return node
		}

		unquoted := e.Eval(call.Arguments[0], env)
		if err, ok := unquoted.(*object.Error); ok {
			failed = err

			return node
		}

		if converted := convertObjectToASTNode(unquoted); converted != nil {
			return converted
		}

		return node
	})

	return node, failed
}

// convertObjectToASTNode returns the literal node producing obj, or nil if obj
// has no literal form.
func convertObjectToASTNode(obj object.Object) ast.Node {
	switch obj := obj.(type) {
	case *object.Integer:
		lit := strconv.FormatInt(obj.Value, 10)

		if obj.Value < 0 {
			// Integer literals are unsigned.
			return &ast.PrefixExpression{
				Token:    token.Token{Type: token.MINUS, Literal: "-"},
				Operator: "-",
				Right: &ast.IntegerLiteral{
					Token: token.Token{Type: token.INT, Literal: lit[1:]},
					Value: -obj.Value,
				},
			}
		}

		return &ast.IntegerLiteral{Token: token.Token{Type: token.INT, Literal: lit}, Value: obj.Value}

	case *object.Boolean:
		t := token.Token{Type: token.FALSE, Literal: "false"}
		if obj.Value {
			t = token.Token{Type: token.TRUE, Literal: "true"}
		}

		return &ast.Boolean{Token: t, Value: obj.Value}

	case *object.String:
		return &ast.StringLiteral{Token: token.Token{Type: token.STRING, Literal: obj.Value}, Value: obj.Value}

	case *object.Quote:
		return obj.Node

	default:
		return nil
	}
}
