package checker

import (
	"fmt"

	"github.com/funvibe/shapecheck/internal/ast"
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// callEntry is one argument position after tuple spreads are expanded.
// An unbounded entry stands for any number of elements of Type; an optional
// one comes from an optional tuple slot and may not be supplied at all.
type callEntry struct {
	Type      typesystem.Type
	Arg       int
	Unbounded bool
	Optional  bool
}

// CheckCall checks a call of fn with args: the argument count against the
// required and fixed parameter counts, then every argument against the
// parameter (or rest element) it lands on.
func (c *Checker) CheckCall(fn typesystem.Type, args []ast.Argument) []*diagnostics.Diagnostic {
	resolved, err := typesystem.Unwrap(c.resolver, fn)
	if err != nil {
		return one(diagnostics.New(diagnostics.TypeMismatch, nil, nil, fn, "%s", err))
	}
	if typesystem.IsSpecial(resolved, typesystem.SpecialAny) {
		return nil
	}
	f, ok := resolved.(typesystem.TFunc)
	if !ok {
		return one(diagnostics.New(diagnostics.TypeMismatch, nil, nil, fn, "type '%s' is not callable", fn))
	}

	entries, spreadErr := c.expandArguments(args)
	if spreadErr != nil {
		return one(spreadErr)
	}

	fixed := f.Fixed()
	rest, hasRest := f.RestParam()
	bounded, supplied := len(entries), 0
	for i, e := range entries {
		if e.Unbounded {
			bounded = i
			break
		}
		if !e.Optional {
			supplied++
		}
	}
	actual := argumentTuple(args)

	if bounded < len(entries) && (!hasRest || bounded < len(fixed)) {
		return one(diagnostics.New(diagnostics.TypeMismatch, diagnostics.Path{diagnostics.ArgumentStep(entries[bounded].Arg)}, f, actual,
			"a spread argument must either have a tuple type or be passed to a rest parameter"))
	}
	if supplied < f.RequiredCount() {
		return one(diagnostics.New(diagnostics.TooFewArguments, nil, f, actual,
			"expected %s argument(s), but got %d", arity(f), supplied))
	}
	if !hasRest && len(entries) > len(fixed) {
		return one(diagnostics.New(diagnostics.TooManyArguments, nil, f, actual,
			"expected %s argument(s), but got %d", arity(f), len(entries)))
	}

	w := c.newWalk()
	var ds []*diagnostics.Diagnostic
	for i, e := range entries {
		path := diagnostics.Path{diagnostics.ArgumentStep(e.Arg)}
		if e.Unbounded || i >= len(fixed) {
			ds = append(ds, w.assign(e.Type, typesystem.RestElem(rest.Type), path)...)
			continue
		}
		ds = append(ds, w.assign(e.Type, fixed[i].EffectiveType(), path)...)
	}
	return ds
}

func (c *Checker) expandArguments(args []ast.Argument) ([]callEntry, *diagnostics.Diagnostic) {
	var entries []callEntry
	for i, a := range args {
		if !a.Spread {
			entries = append(entries, callEntry{Type: a.Type, Arg: i})
			continue
		}
		spread, err := typesystem.Unwrap(c.resolver, a.Type)
		if err != nil {
			return nil, diagnostics.New(diagnostics.TypeMismatch, diagnostics.Path{diagnostics.ArgumentStep(i)}, nil, a.Type, "%s", err)
		}
		switch s := spread.(type) {
		case typesystem.TTuple:
			for _, el := range s.Elements {
				entries = append(entries, callEntry{Type: slotType(el), Arg: i, Optional: el.Optional})
			}
		case typesystem.TArray:
			entries = append(entries, callEntry{Type: s.Elem, Arg: i, Unbounded: true})
		case typesystem.TSpecial:
			if s.Kind != typesystem.SpecialAny {
				return nil, diagnostics.New(diagnostics.TypeMismatch, diagnostics.Path{diagnostics.ArgumentStep(i)}, nil, a.Type,
					"spread argument of type '%s' is not an array or tuple", a.Type)
			}
			entries = append(entries, callEntry{Type: typesystem.Any, Arg: i, Unbounded: true})
		default:
			return nil, diagnostics.New(diagnostics.TypeMismatch, diagnostics.Path{diagnostics.ArgumentStep(i)}, nil, a.Type,
				"spread argument of type '%s' is not an array or tuple", a.Type)
		}
	}
	return entries, nil
}

func arity(f typesystem.TFunc) string {
	req := f.RequiredCount()
	if _, ok := f.RestParam(); ok {
		return fmt.Sprintf("at least %d", req)
	}
	if total := len(f.Params); total != req {
		return fmt.Sprintf("%d-%d", req, total)
	}
	return fmt.Sprintf("%d", req)
}

// argumentTuple renders the argument list as a tuple for reporting.
func argumentTuple(args []ast.Argument) typesystem.Type {
	elems := make([]typesystem.Type, len(args))
	for i, a := range args {
		if a.Spread {
			elems[i] = typesystem.RestElem(a.Type)
			if tup, ok := a.Type.(typesystem.TTuple); ok {
				elems[i] = tup
			}
			continue
		}
		elems[i] = a.Type
	}
	return typesystem.TupleOf(elems...)
}
