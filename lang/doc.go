// Package lang is the entry point to the Monkey interpreter.
//
// Monkey is a small dynamically typed language with first-class functions,
// closures, integers, booleans, strings, arrays and hashes. Source text flows
// through the [lexer], the Pratt [parser], and the tree-walking [evaluator]:
//
//	source ──lexer──▶ tokens ──parser──▶ *ast.Program ──evaluator──▶ object.Object
//
// # Example
//
//	let fib = fn(n) {
//	  if (n < 2) { return n; }
//	  fib(n - 1) + fib(n - 2)
//	};
//
//	let people = [{"name": "Alice", "age": 24}, {"name": "Bob", "age": 99}];
//	puts(fib(10), people[1]["name"], len("héllo"));
//
// # Parsing
//
// [ParseString] and [ParseReader] return a [*Program] or a [*ParseError]
// listing every diagnostic the parser recorded. Parsed programs are cached by
// an XXH3 digest of their source, so parsing the same text twice shares one
// tree. The cache holds a bounded number of sources and is dropped when full;
// [ClearCache] drops it explicitly.
//
// # Evaluation
//
// An [Interpreter] keeps a top-level environment across calls to
// [Interpreter.Run], which is what an interactive session needs:
//
//	in := lang.New(lang.WithOutput(os.Stdout))
//	in.Run(ctx, "let x = 2;")
//	result, err := in.Run(ctx, "x * 21") // 42
//
// Runtime errors are values inside the language. When one reaches the top
// level, Run returns it wrapped in [ErrRuntime].
//
// # Output formats
//
// A [Program] renders as canonical Monkey source ([Program.Format]), as a JSON
// or YAML tree ([Program.FormatJSON], [Program.FormatYAML]), or as a Go-syntax
// dump of the AST ([Program.FormatAST]). Evaluated objects convert to native
// Go values with [ToNative].
//
// [lexer]: github.com/ardnew/monkey/lang/lexer
// [parser]: github.com/ardnew/monkey/lang/parser
// [evaluator]: github.com/ardnew/monkey/lang/evaluator
package lang
