package analyzer

import (
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// DynamicIndex is the index of an element access whose position is not a
// constant, as in `xs[i]`.
const DynamicIndex = -1

// IndexAccess is the type read by `t[index]`. Arrays yield their element
// type; tuples yield the slot type, widened with undefined for optional
// slots, and report a constant index past the end. Unions distribute.
func (a *Analyzer) IndexAccess(t typesystem.Type, index int) (typesystem.Type, []*diagnostics.Diagnostic) {
	path := diagnostics.Path{diagnostics.ElementStep(index)}
	switch r := a.resolve(t).(type) {
	case typesystem.TArray:
		return r.Elem, nil
	case typesystem.TTuple:
		if index == DynamicIndex {
			members := make([]typesystem.Type, 0, len(r.Elements)+1)
			for _, el := range r.Elements {
				members = append(members, el.Type)
				if el.Optional {
					members = append(members, typesystem.Undefined)
				}
			}
			return typesystem.NewUnion(members...), nil
		}
		if index < 0 || index >= len(r.Elements) {
			return typesystem.Undefined, []*diagnostics.Diagnostic{diagnostics.New(diagnostics.TupleLengthMismatch, diagnostics.Path{diagnostics.SlotStep(index)}, t, nil,
				"tuple type '%s' of length '%d' has no element at index '%d'", t, len(r.Elements), index)}
		}
		el := r.Elements[index]
		if el.Optional {
			return typesystem.NewUnion(el.Type, typesystem.Undefined), nil
		}
		return el.Type, nil
	case typesystem.TUnion:
		var (
			members []typesystem.Type
			ds      []*diagnostics.Diagnostic
		)
		for _, m := range r.Types {
			mt, mds := a.IndexAccess(m, index)
			ds = append(ds, mds...)
			members = append(members, mt)
		}
		return typesystem.NewUnion(members...), ds
	case typesystem.TSpecial:
		if r.Kind == typesystem.SpecialAny {
			return typesystem.Any, nil
		}
	}
	return typesystem.Any, []*diagnostics.Diagnostic{diagnostics.New(diagnostics.TypeMismatch, path, nil, t,
		"type '%s' cannot be indexed by a number", t)}
}

// elementType is the type `t.push(...)` accepts.
func (a *Analyzer) elementType(t typesystem.Type) (typesystem.Type, []*diagnostics.Diagnostic) {
	switch r := a.resolve(t).(type) {
	case typesystem.TArray:
		return r.Elem, nil
	case typesystem.TTuple:
		return a.IndexAccess(r, DynamicIndex)
	case typesystem.TSpecial:
		if r.Kind == typesystem.SpecialAny {
			return typesystem.Any, nil
		}
	}
	return typesystem.Never, []*diagnostics.Diagnostic{diagnostics.New(diagnostics.TypeMismatch, nil, nil, t,
		"property 'push' does not exist on type '%s'", t)}
}
