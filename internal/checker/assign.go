package checker

import (
	"fmt"

	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// Checker decides structural compatibility between types. It holds no
// mutable state, so one Checker may serve concurrent callers.
type Checker struct {
	resolver typesystem.Resolver
}

// New creates a Checker that resolves named types through r. A nil resolver
// is allowed when no named types are involved.
func New(r typesystem.Resolver) *Checker {
	return &Checker{resolver: r}
}

// IsAssignable reports every incompatibility found when a value of type
// source is used where target is expected. A nil result means the assignment
// is permitted.
func (c *Checker) IsAssignable(source, target typesystem.Type) []*diagnostics.Diagnostic {
	return c.newWalk().assign(source, target, nil)
}

// typePair represents a pair of types being compared for co-induction
type typePair struct {
	source string
	target string
}

// walk is the state of one top-level comparison. visiting holds the pairs
// currently on the call stack; it is never shared between invocations.
type walk struct {
	resolver typesystem.Resolver
	visiting map[typePair]bool
}

func (c *Checker) newWalk() *walk {
	return &walk{resolver: c.resolver, visiting: make(map[typePair]bool)}
}

func identity(t typesystem.Type) string {
	if ref, ok := t.(typesystem.TNamed); ok {
		return "#" + ref.ID
	}
	return t.String()
}

func (w *walk) assign(src, tgt typesystem.Type, path diagnostics.Path) []*diagnostics.Diagnostic {
	if src == nil || tgt == nil {
		return one(diagnostics.Mismatch(path, tgt, src))
	}

	_, srcNamed := src.(typesystem.TNamed)
	_, tgtNamed := tgt.(typesystem.TNamed)
	if srcNamed || tgtNamed {
		return w.assignNamed(src, tgt, path)
	}

	if typesystem.Equal(src, tgt) {
		return nil
	}

	switch {
	case typesystem.IsSpecial(src, typesystem.SpecialAny), typesystem.IsSpecial(tgt, typesystem.SpecialAny):
		return nil
	case typesystem.IsSpecial(tgt, typesystem.SpecialUnknown):
		return nil
	case typesystem.IsSpecial(src, typesystem.SpecialUnknown):
		return one(diagnostics.Mismatch(path, tgt, src))
	case typesystem.IsSpecial(src, typesystem.SpecialNever):
		return nil
	case typesystem.IsSpecial(tgt, typesystem.SpecialNever):
		return one(diagnostics.Mismatch(path, tgt, src))
	}

	// Unions are distributed before any variance rule, source side first.
	if u, ok := src.(typesystem.TUnion); ok {
		return w.assignFromUnion(u, tgt, path)
	}
	if u, ok := tgt.(typesystem.TUnion); ok {
		return w.assignToUnion(src, u, path)
	}

	switch t := tgt.(type) {
	case typesystem.TSpecial:
		// void accepts undefined; every other special only accepts itself
		if t.Kind == typesystem.SpecialVoid && typesystem.IsSpecial(src, typesystem.SpecialUndefined) {
			return nil
		}
	case typesystem.TPrim:
		if lit, ok := src.(typesystem.TLiteral); ok && lit.Kind == t.Kind {
			return nil
		}
	case typesystem.TArray:
		return w.assignToArray(src, t, path)
	case typesystem.TTuple:
		return w.assignToTuple(src, t, path)
	case typesystem.TFunc:
		return w.assignToFunc(src, t, path)
	case typesystem.TObject:
		return w.assignToObject(src, t, path)
	}
	return one(diagnostics.Mismatch(path, tgt, src))
}

// assignNamed unwraps named references under the cycle guard. A pair that is
// already being compared further up the stack is assumed compatible; the
// outer comparison decides the final verdict.
func (w *walk) assignNamed(src, tgt typesystem.Type, path diagnostics.Path) []*diagnostics.Diagnostic {
	if typesystem.Equal(src, tgt) {
		return nil
	}
	key := typePair{source: identity(src), target: identity(tgt)}
	if w.visiting[key] {
		return nil
	}
	w.visiting[key] = true
	defer delete(w.visiting, key)

	s, err := typesystem.Unwrap(w.resolver, src)
	if err != nil {
		return one(diagnostics.New(diagnostics.TypeMismatch, path, tgt, src, "%s", err))
	}
	t, err := typesystem.Unwrap(w.resolver, tgt)
	if err != nil {
		return one(diagnostics.New(diagnostics.TypeMismatch, path, tgt, src, "%s", err))
	}

	_, stillSrc := s.(typesystem.TNamed)
	_, stillTgt := t.(typesystem.TNamed)
	if stillSrc || stillTgt {
		// No resolver: distinct names cannot be compared structurally
		if typesystem.IsSpecial(s, typesystem.SpecialAny) || typesystem.IsSpecial(t, typesystem.SpecialAny) ||
			typesystem.IsSpecial(t, typesystem.SpecialUnknown) || typesystem.IsSpecial(s, typesystem.SpecialNever) {
			return nil
		}
		return one(diagnostics.Mismatch(path, tgt, src))
	}
	return w.assign(s, t, path)
}

func (w *walk) assignFromUnion(src typesystem.TUnion, tgt typesystem.Type, path diagnostics.Path) []*diagnostics.Diagnostic {
	for _, member := range src.Types {
		if len(w.assign(member, tgt, path)) > 0 {
			return one(diagnostics.New(diagnostics.TypeMismatch, path, tgt, src,
				"type '%s' is not assignable to type '%s': member '%s' is not assignable", src, tgt, member))
		}
	}
	return nil
}

func (w *walk) assignToUnion(src typesystem.Type, tgt typesystem.TUnion, path diagnostics.Path) []*diagnostics.Diagnostic {
	var sameShape [][]*diagnostics.Diagnostic
	for _, member := range tgt.Types {
		ds := w.assign(src, member, path)
		if len(ds) == 0 {
			return nil
		}
		if sameVariant(src, member) {
			sameShape = append(sameShape, ds)
		}
	}
	// One candidate of the same shape gives a more precise report than the union as a whole
	if len(sameShape) == 1 {
		return sameShape[0]
	}
	return one(diagnostics.Mismatch(path, tgt, src))
}

func sameVariant(a, b typesystem.Type) bool {
	switch a.(type) {
	case typesystem.TArray:
		_, ok := b.(typesystem.TArray)
		return ok
	case typesystem.TTuple:
		_, ok := b.(typesystem.TTuple)
		return ok
	case typesystem.TFunc:
		_, ok := b.(typesystem.TFunc)
		return ok
	case typesystem.TObject:
		_, ok := b.(typesystem.TObject)
		return ok
	}
	return false
}

func (w *walk) assignToArray(src typesystem.Type, tgt typesystem.TArray, path diagnostics.Path) []*diagnostics.Diagnostic {
	switch s := src.(type) {
	case typesystem.TArray:
		return w.assign(s.Elem, tgt.Elem, path.Append(diagnostics.ElementStep(-1)))
	case typesystem.TTuple:
		var ds []*diagnostics.Diagnostic
		for i, el := range s.Elements {
			ds = append(ds, w.assign(slotType(el), tgt.Elem, path.Append(diagnostics.SlotStep(i)))...)
		}
		return ds
	}
	return one(diagnostics.Mismatch(path, tgt, src))
}

// slotType is what reading a tuple slot yields.
func slotType(el typesystem.TupleElem) typesystem.Type {
	if el.Optional {
		return typesystem.NewUnion(el.Type, typesystem.Undefined)
	}
	return el.Type
}

func (w *walk) assignToTuple(src typesystem.Type, tgt typesystem.TTuple, path diagnostics.Path) []*diagnostics.Diagnostic {
	switch s := src.(type) {
	case typesystem.TArray:
		return one(diagnostics.New(diagnostics.TypeMismatch, path, tgt, s,
			"variable-length array '%s' is not assignable to fixed-length tuple '%s'", s, tgt))
	case typesystem.TTuple:
		// Every source slot needs a target slot, and every required target
		// slot needs a required source slot. Shape mismatches stop here.
		if len(s.Elements) > len(tgt.Elements) || s.Required() < tgt.Required() {
			return one(diagnostics.New(diagnostics.TupleLengthMismatch, path, tgt, s,
				"source has %s element(s) but target allows %s", tupleLength(s), tupleLength(tgt)))
		}
		var ds []*diagnostics.Diagnostic
		for i, el := range s.Elements {
			ds = append(ds, w.assign(el.Type, tgt.Elements[i].Type, path.Append(diagnostics.SlotStep(i)))...)
		}
		return ds
	}
	return one(diagnostics.Mismatch(path, tgt, src))
}

func (w *walk) assignToFunc(src typesystem.Type, tgt typesystem.TFunc, path diagnostics.Path) []*diagnostics.Diagnostic {
	s, ok := src.(typesystem.TFunc)
	if !ok {
		return one(diagnostics.Mismatch(path, tgt, src))
	}

	// Calling through the target must never under-supply the source's
	// required parameters. Fewer source parameters are always fine.
	supplied := len(tgt.Fixed())
	if _, hasRest := tgt.RestParam(); !hasRest && s.RequiredCount() > supplied {
		return one(diagnostics.New(diagnostics.TooFewArguments, path.Append(diagnostics.ParamStep(supplied)), tgt, s,
			"source requires %d argument(s) but target supplies at most %d", s.RequiredCount(), supplied))
	}

	var ds []*diagnostics.Diagnostic
	n := len(s.Fixed())
	if len(tgt.Fixed()) > n {
		n = len(tgt.Fixed())
	}
	for i := 0; i < n; i++ {
		tp, _, tok := tgt.ParamTypeAt(i)
		sp, _, sok := s.ParamTypeAt(i)
		if !tok || !sok {
			continue
		}
		// Parameters are contravariant: the target's parameter must fit the source's.
		// Optional parameters compare with their undefined included.
		ds = append(ds, w.assign(tp, sp, path.Append(diagnostics.ParamStep(i)))...)
	}
	if sRest, ok := s.RestParam(); ok {
		if tRest, ok := tgt.RestParam(); ok {
			ds = append(ds, w.assign(typesystem.RestElem(tRest.Type), typesystem.RestElem(sRest.Type), path.Append(diagnostics.RestStep()))...)
		}
	}

	// A void target return means the caller ignores the result
	if !typesystem.IsSpecial(tgt.ReturnType, typesystem.SpecialVoid) {
		ds = append(ds, w.assign(s.ReturnType, tgt.ReturnType, path.Append(diagnostics.ReturnStep()))...)
	}
	return ds
}

func (w *walk) assignToObject(src typesystem.Type, tgt typesystem.TObject, path diagnostics.Path) []*diagnostics.Diagnostic {
	s, ok := src.(typesystem.TObject)
	if !ok {
		// {} accepts every non-nullish value
		if len(tgt.Members) == 0 && !isNullish(src) {
			return nil
		}
		return one(diagnostics.Mismatch(path, tgt, src))
	}

	var ds []*diagnostics.Diagnostic
	for _, name := range tgt.Names() {
		tm := tgt.Members[name]
		p := path.Append(diagnostics.PropertyStep(name))
		sm, found := s.Members[name]
		if !found {
			if !tm.Optional {
				ds = append(ds, diagnostics.New(diagnostics.MissingRequiredMember, p, tm.Type, nil,
					"property '%s' is missing in type '%s' but required in type '%s'", name, s, tgt))
			}
			continue
		}
		if sm.Optional && !tm.Optional {
			ds = append(ds, diagnostics.New(diagnostics.MissingRequiredMember, p, tm.Type, sm.Type,
				"property '%s' is optional in type '%s' but required in type '%s'", name, s, tgt))
			continue
		}
		// readonly on either side does not affect reading through the target
		ds = append(ds, w.assign(sm.Type, tm.Type, p)...)
	}
	return ds
}

func isNullish(t typesystem.Type) bool {
	return typesystem.IsSpecial(t, typesystem.SpecialUndefined) ||
		typesystem.IsSpecial(t, typesystem.SpecialNull) ||
		typesystem.IsSpecial(t, typesystem.SpecialVoid)
}

func tupleLength(t typesystem.TTuple) string {
	if req := t.Required(); req != len(t.Elements) {
		return fmt.Sprintf("%d-%d", req, len(t.Elements))
	}
	return fmt.Sprintf("%d", len(t.Elements))
}

func one(d *diagnostics.Diagnostic) []*diagnostics.Diagnostic {
	return []*diagnostics.Diagnostic{d}
}
