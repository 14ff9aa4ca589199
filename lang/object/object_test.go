package object

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringHashKey(t *testing.T) {
	hello1 := &String{Value: "Hello World"}
	hello2 := &String{Value: "Hello World"}
	diff1 := &String{Value: "My name is johnny"}
	diff2 := &String{Value: "My name is johnny"}

	if hello1.HashKey() != hello2.HashKey() {
		t.Errorf("strings with same content have different hash keys")
	}

	if diff1.HashKey() != diff2.HashKey() {
		t.Errorf("strings with same content have different hash keys")
	}

	if hello1.HashKey() == diff1.HashKey() {
		t.Errorf("strings with different content have same hash keys")
	}
}

func TestHashKeyTypeTagged(t *testing.T) {
	keys := []Hashable{
		&Integer{Value: 1},
		&Boolean{Value: true},
		&String{Value: "1"},
	}

	seen := map[HashKey]Hashable{}
	for _, k := range keys {
		if prev, ok := seen[k.HashKey()]; ok {
			t.Errorf("%s %s collides with %s %s", k.Type(), k.Inspect(), prev.Type(), prev.Inspect())
		}

		seen[k.HashKey()] = k
	}
}

func TestHashOrder(t *testing.T) {
	h := NewHash(0)
	h.Set(&String{Value: "b"}, &Integer{Value: 1})
	h.Set(&Integer{Value: 2}, &Integer{Value: 2})
	h.Set(&Boolean{Value: false}, &Integer{Value: 3})
	h.Set(&String{Value: "b"}, &Integer{Value: 4})

	if got, want := h.Inspect(), "{b: 4, 2: 2, false: 3}"; got != want {
		t.Errorf("Inspect() = %q, want %q", got, want)
	}

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}

	v, ok := h.Get(&Integer{Value: 2})
	if !ok || v.Inspect() != "2" {
		t.Errorf("Get(2) = %v, %v", v, ok)
	}

	if _, ok := h.Get(&String{Value: "missing"}); ok {
		t.Errorf("Get(missing) reported a hit")
	}
}

func TestEnvironment(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("a", &Integer{Value: 1})
	outer.Set("b", &Integer{Value: 2})

	inner := NewEnclosedEnvironment(outer)
	inner.Set("b", &Integer{Value: 20})
	inner.Set("c", &Integer{Value: 30})

	tests := []struct {
		env  *Environment
		name string
		want string
		ok   bool
	}{
		{inner, "a", "1", true},
		{inner, "b", "20", true},
		{inner, "c", "30", true},
		{outer, "b", "2", true},
		{outer, "c", "", false},
		{inner, "missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.env.Get(tt.name)
			if ok != tt.ok {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}

			if ok && got.Inspect() != tt.want {
				t.Errorf("Get(%q) = %s, want %s", tt.name, got.Inspect(), tt.want)
			}
		})
	}

	if diff := cmp.Diff([]string{"a", "b", "c"}, inner.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	if inner.Outer() != outer {
		t.Errorf("Outer() did not return the enclosing environment")
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{&Integer{Value: -7}, "-7"},
		{&Boolean{Value: true}, "true"},
		{&String{Value: "hi"}, "hi"},
		{&Null{}, "null"},
		{&Error{Message: "boom"}, "ERROR: boom"},
		{&ReturnValue{Value: &Integer{Value: 3}}, "3"},
		{&Array{Elements: []Object{&Integer{Value: 1}, &String{Value: "x"}}}, "[1, x]"},
		{&Builtin{Name: "len"}, "builtin function"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.obj.Inspect(); got != tt.want {
				t.Errorf("Inspect() = %q, want %q", got, tt.want)
			}
		})
	}
}
