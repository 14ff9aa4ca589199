package evaluator

import (
	"fmt"
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/ardnew/monkey/lang/object"
)

// builtins is the fixed table of host functions. Identifiers bound in the
// environment shadow these names.
var builtins = map[string]*object.Builtin{
	"len": {Name: "len", Fn: func(args ...object.Object) object.Object {
		if err := checkArity(args, 1); err != nil {
			return err
		}

		switch arg := args[0].(type) {
		case *object.String:
			return &object.Integer{Value: int64(utf8.RuneCountInString(arg.Value))}
		case *object.Array:
			return &object.Integer{Value: int64(len(arg.Elements))}
		default:
			return newError("argument to 'len' not supported, got %s", args[0].Type())
		}
	}},

	"first": {Name: "first", Fn: func(args ...object.Object) object.Object {
		arr, err := arrayArg("first", args, 1)
		if err != nil {
			return err
		}

		if len(arr.Elements) > 0 {
			return arr.Elements[0]
		}

		return NULL
	}},

	"last": {Name: "last", Fn: func(args ...object.Object) object.Object {
		arr, err := arrayArg("last", args, 1)
		if err != nil {
			return err
		}

		if n := len(arr.Elements); n > 0 {
			return arr.Elements[n-1]
		}

		return NULL
	}},

	"rest": {Name: "rest", Fn: func(args ...object.Object) object.Object {
		arr, err := arrayArg("rest", args, 1)
		if err != nil {
			return err
		}

		if len(arr.Elements) > 0 {
			return &object.Array{Elements: slices.Clone(arr.Elements[1:])}
		}

		return NULL
	}},

	"push": {Name: "push", Fn: func(args ...object.Object) object.Object {
		arr, err := arrayArg("push", args, 2)
		if err != nil {
			return err
		}

		elements := make([]object.Object, len(arr.Elements), len(arr.Elements)+1)
		copy(elements, arr.Elements)

		return &object.Array{Elements: append(elements, args[1])}
	}},
}

// Builtins returns the names of every builtin function, including puts,
// sorted.
func Builtins() []string {
	names := slices.Collect(maps.Keys(builtins))
	names = append(names, "puts")
	slices.Sort(names)

	return names
}

// makeBuiltins returns the static table extended with the builtins bound to
// this evaluator.
func (e *Evaluator) makeBuiltins() map[string]*object.Builtin {
	table := maps.Clone(builtins)

	table["puts"] = &object.Builtin{Name: "puts", Fn: func(args ...object.Object) object.Object {
		for _, arg := range args {
			fmt.Fprintln(e.out, arg.Inspect())
		}

		return NULL
	}}

	return table
}

func checkArity(args []object.Object, want int) *object.Error {
	if len(args) != want {
		return newError("wrong number of arguments. got=%d, want=%d", len(args), want)
	}

	return nil
}

// arrayArg validates the argument count and that the first argument is an
// array.
func arrayArg(name string, args []object.Object, want int) (*object.Array, *object.Error) {
	if err := checkArity(args, want); err != nil {
		return nil, err
	}

	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, newError("argument to '%s' must be ARRAY, got %s", name, args[0].Type())
	}

	return arr, nil
}
