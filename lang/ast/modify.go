package ast

// ModifierFunc rewrites a single node. It returns the replacement node, which
// may be the argument itself.
type ModifierFunc func(Node) Node

// Modify walks node in post-order, replacing each child with the result of
// modifier applied to the already-modified child, and finally returns
// modifier(node). Children whose replacement has the wrong node kind for
// their slot are left unchanged. The tree is rewritten in place; [Clone] it
// first to keep the original.
func Modify(node Node, modifier ModifierFunc) Node {
	switch node := node.(type) {
	case *Program:
		for i, s := range node.Statements {
			node.Statements[i] = modifyStatement(s, modifier)
		}

	case *ExpressionStatement:
		node.Expression = modifyExpression(node.Expression, modifier)

	case *BlockStatement:
		for i, s := range node.Statements {
			node.Statements[i] = modifyStatement(s, modifier)
		}

	case *ReturnStatement:
		node.ReturnValue = modifyExpression(node.ReturnValue, modifier)

	case *LetStatement:
		node.Value = modifyExpression(node.Value, modifier)

	case *PrefixExpression:
		node.Right = modifyExpression(node.Right, modifier)

	case *InfixExpression:
		node.Left = modifyExpression(node.Left, modifier)
		node.Right = modifyExpression(node.Right, modifier)

	case *IndexExpression:
		node.Left = modifyExpression(node.Left, modifier)
		node.Index = modifyExpression(node.Index, modifier)

	case *IfExpression:
		node.Condition = modifyExpression(node.Condition, modifier)
		node.Consequence = modifyBlock(node.Consequence, modifier)
		node.Alternative = modifyBlock(node.Alternative, modifier)

	case *FunctionLiteral:
		for i, p := range node.Parameters {
			if id, ok := Modify(p, modifier).(*Identifier); ok {
				node.Parameters[i] = id
			}
		}

		node.Body = modifyBlock(node.Body, modifier)

	case *CallExpression:
		node.Function = modifyExpression(node.Function, modifier)
		for i, a := range node.Arguments {
			node.Arguments[i] = modifyExpression(a, modifier)
		}

	case *ArrayLiteral:
		for i, e := range node.Elements {
			node.Elements[i] = modifyExpression(e, modifier)
		}

	case *HashLiteral:
		for i, p := range node.Pairs {
			node.Pairs[i] = HashPair{
				Key:   modifyExpression(p.Key, modifier),
				Value: modifyExpression(p.Value, modifier),
			}
		}
	}

	return modifier(node)
}

func modifyStatement(s Statement, modifier ModifierFunc) Statement {
	if s == nil {
		return nil
	}

	if m, ok := Modify(s, modifier).(Statement); ok {
		return m
	}

	return s
}

func modifyExpression(e Expression, modifier ModifierFunc) Expression {
	if e == nil {
		return nil
	}

	if m, ok := Modify(e, modifier).(Expression); ok {
		return m
	}

	return e
}

func modifyBlock(b *BlockStatement, modifier ModifierFunc) *BlockStatement {
	if b == nil {
		return nil
	}

	if m, ok := Modify(b, modifier).(*BlockStatement); ok {
		return m
	}

	return b
}

// Inspect traverses node in pre-order, calling f for each node. If f returns
// false, the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	switch node := node.(type) {
	case *Program:
		for _, s := range node.Statements {
			Inspect(s, f)
		}

	case *BlockStatement:
		for _, s := range node.Statements {
			Inspect(s, f)
		}

	case *ExpressionStatement:
		inspectExpr(node.Expression, f)

	case *ReturnStatement:
		inspectExpr(node.ReturnValue, f)

	case *LetStatement:
		Inspect(node.Name, f)
		inspectExpr(node.Value, f)

	case *PrefixExpression:
		inspectExpr(node.Right, f)

	case *InfixExpression:
		inspectExpr(node.Left, f)
		inspectExpr(node.Right, f)

	case *IndexExpression:
		inspectExpr(node.Left, f)
		inspectExpr(node.Index, f)

	case *IfExpression:
		inspectExpr(node.Condition, f)
		if node.Consequence != nil {
			Inspect(node.Consequence, f)
		}
		if node.Alternative != nil {
			Inspect(node.Alternative, f)
		}

	case *FunctionLiteral:
		for _, p := range node.Parameters {
			Inspect(p, f)
		}
		if node.Body != nil {
			Inspect(node.Body, f)
		}

	case *CallExpression:
		inspectExpr(node.Function, f)
		for _, a := range node.Arguments {
			inspectExpr(a, f)
		}

	case *ArrayLiteral:
		for _, e := range node.Elements {
			inspectExpr(e, f)
		}

	case *HashLiteral:
		for _, p := range node.Pairs {
			inspectExpr(p.Key, f)
			inspectExpr(p.Value, f)
		}
	}
}

func inspectExpr(e Expression, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

// Clone returns a deep copy of node. Tokens are copied by value.
func Clone(node Node) Node {
	switch node := node.(type) {
	case *Program:
		return &Program{Statements: cloneStatements(node.Statements)}

	case *LetStatement:
		return &LetStatement{
			Token: node.Token,
			Name:  cloneIdent(node.Name),
			Value: cloneExpr(node.Value),
		}

	case *ReturnStatement:
		return &ReturnStatement{Token: node.Token, ReturnValue: cloneExpr(node.ReturnValue)}

	case *ExpressionStatement:
		return &ExpressionStatement{Token: node.Token, Expression: cloneExpr(node.Expression)}

	case *BlockStatement:
		return cloneBlock(node)

	case *Identifier:
		return cloneIdent(node)

	case *IntegerLiteral:
		c := *node
		return &c

	case *StringLiteral:
		c := *node
		return &c

	case *Boolean:
		c := *node
		return &c

	case *PrefixExpression:
		return &PrefixExpression{Token: node.Token, Operator: node.Operator, Right: cloneExpr(node.Right)}

	case *InfixExpression:
		return &InfixExpression{
			Token:    node.Token,
			Left:     cloneExpr(node.Left),
			Operator: node.Operator,
			Right:    cloneExpr(node.Right),
		}

	case *IfExpression:
		return &IfExpression{
			Token:       node.Token,
			Condition:   cloneExpr(node.Condition),
			Consequence: cloneBlock(node.Consequence),
			Alternative: cloneBlock(node.Alternative),
		}

	case *FunctionLiteral:
		params := make([]*Identifier, len(node.Parameters))
		for i, p := range node.Parameters {
			params[i] = cloneIdent(p)
		}

		return &FunctionLiteral{Token: node.Token, Parameters: params, Body: cloneBlock(node.Body)}

	case *CallExpression:
		return &CallExpression{
			Token:     node.Token,
			Function:  cloneExpr(node.Function),
			Arguments: cloneExprs(node.Arguments),
		}

	case *ArrayLiteral:
		return &ArrayLiteral{Token: node.Token, Elements: cloneExprs(node.Elements)}

	case *IndexExpression:
		return &IndexExpression{Token: node.Token, Left: cloneExpr(node.Left), Index: cloneExpr(node.Index)}

	case *HashLiteral:
		pairs := make([]HashPair, len(node.Pairs))
		for i, p := range node.Pairs {
			pairs[i] = HashPair{Key: cloneExpr(p.Key), Value: cloneExpr(p.Value)}
		}

		return &HashLiteral{Token: node.Token, Pairs: pairs}
	}

	return node
}

func cloneStatements(stmts []Statement) []Statement {
	if stmts == nil {
		return nil
	}

	c := make([]Statement, len(stmts))
	for i, s := range stmts {
		c[i], _ = Clone(s).(Statement)
	}

	return c
}

func cloneExprs(exprs []Expression) []Expression {
	if exprs == nil {
		return nil
	}

	c := make([]Expression, len(exprs))
	for i, e := range exprs {
		c[i] = cloneExpr(e)
	}

	return c
}

func cloneExpr(e Expression) Expression {
	if e == nil {
		return nil
	}

	c, _ := Clone(e).(Expression)

	return c
}

func cloneIdent(id *Identifier) *Identifier {
	if id == nil {
		return nil
	}

	c := *id

	return &c
}

func cloneBlock(b *BlockStatement) *BlockStatement {
	if b == nil {
		return nil
	}

	return &BlockStatement{Token: b.Token, Statements: cloneStatements(b.Statements)}
}
