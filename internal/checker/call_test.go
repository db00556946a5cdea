package checker

import (
	"testing"

	"github.com/funvibe/shapecheck/internal/ast"
	"github.com/funvibe/shapecheck/internal/diagnostics"
	ts "github.com/funvibe/shapecheck/internal/typesystem"
)

// positional wraps plain argument types.
func positional(types ...ts.Type) []ast.Argument {
	args := make([]ast.Argument, len(types))
	for i, t := range types {
		args[i] = ast.Argument{Type: t}
	}
	return args
}

func expectCall(t *testing.T, c *Checker, f ts.Type, args []ast.Argument, kinds ...diagnostics.Kind) []*diagnostics.Diagnostic {
	t.Helper()
	ds := c.CheckCall(f, args)
	got := diagnostics.KindsOf(ds)
	if len(got) != len(kinds) {
		t.Fatalf("CheckCall(%s) expected %v, got:\n%s", f, kinds, render(ds))
	}
	for i := range kinds {
		if got[i] != kinds[i] {
			t.Fatalf("CheckCall(%s) expected %v, got:\n%s", f, kinds, render(ds))
		}
	}
	return ds
}

func TestCallArity(t *testing.T) {
	c := New(nil)
	two := fn(t, ts.Void, p("a", ts.String), p("b", ts.Number))

	expectCall(t, c, two, positional(ts.String), diagnostics.TooFewArguments)
	expectCall(t, c, two, positional(ts.String, ts.Number))
	expectCall(t, c, two, positional(ts.String, ts.Number, ts.Boolean), diagnostics.TooManyArguments)

	optional := fn(t, ts.Void, p("a", ts.String), ts.Param{Name: "b", Type: ts.Number, Optional: true})
	expectCall(t, c, optional, positional(ts.String))
	expectCall(t, c, optional, positional(ts.String, ts.Undefined))
	expectCall(t, c, optional, positional(ts.StringLit("x"), ts.NumberLit(2)))
}

func TestCallRest(t *testing.T) {
	c := New(nil)
	logWarriors := fn(t, ts.Void,
		p("greeting", ts.String),
		ts.Param{Name: "names", Type: ts.TArray{Elem: ts.String}, Rest: true},
	)

	expectCall(t, c, logWarriors, positional(ts.String))
	expectCall(t, c, logWarriors, positional(ts.String, ts.String, ts.StringLit("Sun Tzu")))
	expectCall(t, c, logWarriors, nil, diagnostics.TooFewArguments)
	ds := expectCall(t, c, logWarriors, positional(ts.String, ts.String, ts.Number), diagnostics.TypeMismatch)
	if got := ds[0].Path.String(); got != "arg[2]" {
		t.Errorf("path = %q, want arg[2]", got)
	}
}

func TestCallSpread(t *testing.T) {
	c := New(nil)
	logWarriors := fn(t, ts.Void,
		p("greeting", ts.String),
		ts.Param{Name: "names", Type: ts.TArray{Elem: ts.String}, Rest: true},
	)
	warriors := ts.TArray{Elem: ts.String}

	expectCall(t, c, logWarriors, []ast.Argument{{Type: ts.String}, {Type: warriors, Spread: true}})
	expectCall(t, c, logWarriors, []ast.Argument{{Type: ts.String}, {Type: ts.TArray{Elem: ts.Number}, Spread: true}}, diagnostics.TypeMismatch)

	// An array spread cannot fill fixed parameters
	expectCall(t, c, logWarriors, []ast.Argument{{Type: warriors, Spread: true}}, diagnostics.TypeMismatch)

	// A tuple spread fills positions one by one
	pair := fn(t, ts.Void, p("a", ts.String), p("b", ts.Number))
	expectCall(t, c, pair, []ast.Argument{{Type: ts.TupleOf(ts.String, ts.Number), Spread: true}})
	expectCall(t, c, pair, []ast.Argument{{Type: ts.TupleOf(ts.String), Spread: true}}, diagnostics.TooFewArguments)

	expectCall(t, c, pair, []ast.Argument{{Type: ts.String}, {Type: ts.Number, Spread: true}}, diagnostics.TypeMismatch)

	// Optional tuple slots may be absent and read as undefined when present
	maybe, err := ts.NewTuple(ts.TupleElem{Type: ts.String}, ts.TupleElem{Type: ts.Number, Optional: true})
	if err != nil {
		t.Fatal(err)
	}
	ds := expectCall(t, c, pair, []ast.Argument{{Type: maybe, Spread: true}}, diagnostics.TooFewArguments)
	if ds[0].Message != "expected 2 argument(s), but got 1" {
		t.Errorf("message = %q", ds[0].Message)
	}
	optionalSecond := fn(t, ts.Void, p("a", ts.String), ts.Param{Name: "b", Type: ts.Number, Optional: true})
	expectCall(t, c, optionalSecond, []ast.Argument{{Type: maybe, Spread: true}})
	expectCall(t, c, logWarriors, []ast.Argument{{Type: ts.String}, {Type: maybe, Spread: true}}, diagnostics.TypeMismatch)
}

func TestCallNonFunction(t *testing.T) {
	c := New(nil)
	expectCall(t, c, ts.Any, positional(ts.String, ts.Number))
	expectCall(t, c, ts.String, nil, diagnostics.TypeMismatch)
}

func TestWriteReadonly(t *testing.T) {
	c := New(nil)
	book := obj(t,
		ts.Member{Name: "title", Type: ts.String, Readonly: true},
		ts.Member{Name: "pages", Type: ts.Number},
		ts.Member{Name: "subtitle", Type: ts.String, Optional: true},
	)

	ds := c.CheckWrite(book, "title", ts.String)
	if len(ds) != 1 || ds[0].Kind != diagnostics.InvalidReadonlyAssignment {
		t.Fatalf("write to readonly member: %s", render(ds))
	}
	if got := ds[0].Path.String(); got != ".title" {
		t.Errorf("path = %q, want .title", got)
	}

	if ds := c.CheckWrite(book, "pages", ts.NumberLit(10)); len(ds) > 0 {
		t.Errorf("write to mutable member: %s", render(ds))
	}
	if ds := c.CheckWrite(book, "pages", ts.String); len(ds) != 1 || ds[0].Kind != diagnostics.TypeMismatch {
		t.Errorf("incompatible write: %s", render(ds))
	}
	if ds := c.CheckWrite(book, "subtitle", ts.Undefined); len(ds) > 0 {
		t.Errorf("optional member accepts undefined: %s", render(ds))
	}
	if ds := c.CheckWrite(book, "author", ts.String); len(ds) != 1 || ds[0].Kind != diagnostics.MissingRequiredMember {
		t.Errorf("write to absent member: %s", render(ds))
	}

	// Reading through a readonly view is still fine
	expectAssignable(t, c, obj(t, ts.Member{Name: "title", Type: ts.String}, ts.Member{Name: "pages", Type: ts.Number}), book)
}
