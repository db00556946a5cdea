package analyzer

import (
	"fmt"

	"github.com/funvibe/shapecheck/internal/ast"
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// slotEntry is one element position after spreads are expanded.
type slotEntry struct {
	Type typesystem.Type
	// Element is the index of the literal element that produced this entry.
	Element int
	// Unbounded marks an array spread standing for any number of elements.
	Unbounded bool
}

// InferArrayLiteral infers the type of an array literal. With a tuple
// context of fitting arity each slot is checked and the tuple is the result;
// with an array context each element is checked against the element type and
// the array is the result. Without context the result is an array of the
// union of the widened element types.
func (a *Analyzer) InferArrayLiteral(elements []ast.Element, contextual typesystem.Type) (typesystem.Type, []*diagnostics.Diagnostic) {
	entries, ds := a.expandElements(elements)
	if len(ds) > 0 {
		return typesystem.TArray{Elem: typesystem.Any}, ds
	}

	if contextual == nil {
		return inferWithoutContext(entries), nil
	}
	resolved := a.resolve(contextual)
	if typesystem.IsSpecial(resolved, typesystem.SpecialAny) || typesystem.IsSpecial(resolved, typesystem.SpecialUnknown) {
		return inferWithoutContext(entries), nil
	}

	switch ctx := a.pickArrayContext(resolved, entries).(type) {
	case typesystem.TTuple:
		ds := a.checkAgainstTuple(entries, ctx)
		if len(ds) > 0 {
			return inferWithoutContext(entries), ds
		}
		if _, isTuple := resolved.(typesystem.TTuple); isTuple {
			return contextual, nil
		}
		return ctx, nil
	case typesystem.TArray:
		ds := a.checkAgainstArray(entries, ctx)
		if len(ds) > 0 {
			return inferWithoutContext(entries), ds
		}
		if _, isArray := resolved.(typesystem.TArray); isArray {
			return contextual, nil
		}
		return ctx, nil
	}

	// The context is not array-like at all: infer freely, then the whole
	// literal must still fit.
	inferred := inferWithoutContext(entries)
	return inferred, a.checker.IsAssignable(inferred, contextual)
}

func (a *Analyzer) expandElements(elements []ast.Element) ([]slotEntry, []*diagnostics.Diagnostic) {
	var entries []slotEntry
	for i, el := range elements {
		if !el.Spread {
			entries = append(entries, slotEntry{Type: el.Type, Element: i})
			continue
		}
		switch spread := a.resolve(el.Type).(type) {
		case typesystem.TTuple:
			for _, slot := range spread.Elements {
				t := slot.Type
				if slot.Optional {
					t = typesystem.NewUnion(t, typesystem.Undefined)
				}
				entries = append(entries, slotEntry{Type: t, Element: i})
			}
		case typesystem.TArray:
			entries = append(entries, slotEntry{Type: spread.Elem, Element: i, Unbounded: true})
		case typesystem.TSpecial:
			if spread.Kind != typesystem.SpecialAny {
				return nil, []*diagnostics.Diagnostic{notIterable(i, el.Type)}
			}
			entries = append(entries, slotEntry{Type: typesystem.Any, Element: i, Unbounded: true})
		default:
			return nil, []*diagnostics.Diagnostic{notIterable(i, el.Type)}
		}
	}
	return entries, nil
}

func notIterable(element int, t typesystem.Type) *diagnostics.Diagnostic {
	return diagnostics.New(diagnostics.TypeMismatch, diagnostics.Path{diagnostics.ElementStep(element)}, nil, t,
		"type '%s' is not an array type and cannot be spread", t)
}

// pickArrayContext chooses the array-like member of a contextual type. A
// tuple whose arity fits the literal wins over an array; a union offers
// its members in order.
func (a *Analyzer) pickArrayContext(resolved typesystem.Type, entries []slotEntry) typesystem.Type {
	candidates := []typesystem.Type{resolved}
	if u, ok := resolved.(typesystem.TUnion); ok {
		candidates = candidates[:0]
		for _, m := range u.Types {
			candidates = append(candidates, a.resolve(m))
		}
	}
	var (
		firstTuple typesystem.Type
		array      typesystem.Type
	)
	for _, c := range candidates {
		switch ctx := c.(type) {
		case typesystem.TTuple:
			if fitsTuple(entries, ctx) {
				return ctx
			}
			if firstTuple == nil {
				firstTuple = ctx
			}
		case typesystem.TArray:
			if array == nil {
				array = ctx
			}
		}
	}
	if array != nil {
		return array
	}
	return firstTuple
}

func fitsTuple(entries []slotEntry, t typesystem.TTuple) bool {
	for _, e := range entries {
		if e.Unbounded {
			return false
		}
	}
	return len(entries) >= t.Required() && len(entries) <= len(t.Elements)
}

func (a *Analyzer) checkAgainstTuple(entries []slotEntry, t typesystem.TTuple) []*diagnostics.Diagnostic {
	for _, e := range entries {
		if e.Unbounded {
			return []*diagnostics.Diagnostic{diagnostics.New(diagnostics.TypeMismatch, diagnostics.Path{diagnostics.ElementStep(e.Element)}, t, typesystem.TArray{Elem: e.Type},
				"a variable-length array spread cannot fill fixed-length tuple '%s'", t)}
		}
	}
	if !fitsTuple(entries, t) {
		actual := entryTuple(entries)
		return []*diagnostics.Diagnostic{diagnostics.New(diagnostics.TupleLengthMismatch, nil, t, actual,
			"source has %d element(s) but target '%s' allows %s", len(entries), t, tupleArity(t))}
	}
	var ds []*diagnostics.Diagnostic
	for i, e := range entries {
		slot := t.Elements[i]
		target := slot.Type
		if slot.Optional {
			target = typesystem.NewUnion(target, typesystem.Undefined)
		}
		for _, d := range a.checker.IsAssignable(e.Type, target) {
			d.Path = append(diagnostics.Path{diagnostics.SlotStep(i)}, d.Path...)
			ds = append(ds, d)
		}
	}
	return ds
}

func (a *Analyzer) checkAgainstArray(entries []slotEntry, t typesystem.TArray) []*diagnostics.Diagnostic {
	var ds []*diagnostics.Diagnostic
	for _, e := range entries {
		for _, d := range a.checker.IsAssignable(e.Type, t.Elem) {
			d.Path = append(diagnostics.Path{diagnostics.ElementStep(e.Element)}, d.Path...)
			ds = append(ds, d)
		}
	}
	return ds
}

// inferWithoutContext widens every entry and unions them. An empty literal
// has nothing to widen and infers never[].
func inferWithoutContext(entries []slotEntry) typesystem.Type {
	if len(entries) == 0 {
		return typesystem.TArray{Elem: typesystem.Never}
	}
	members := make([]typesystem.Type, len(entries))
	for i, e := range entries {
		members[i] = Widen(e.Type)
	}
	return typesystem.TArray{Elem: typesystem.NewUnion(members...)}
}

func entryTuple(entries []slotEntry) typesystem.Type {
	types := make([]typesystem.Type, len(entries))
	for i, e := range entries {
		types[i] = e.Type
	}
	return typesystem.TupleOf(types...)
}

func tupleArity(t typesystem.TTuple) string {
	if t.Required() == len(t.Elements) {
		return fmt.Sprintf("%d", len(t.Elements))
	}
	return fmt.Sprintf("%d-%d", t.Required(), len(t.Elements))
}
