package analyzer

import (
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// Widen maps a literal-inferred type to the type it has once it leaves a
// literal context: literals become their primitive, unions widen member-wise.
// Widening is idempotent, so an already-widened type is returned unchanged.
func Widen(t typesystem.Type) typesystem.Type {
	switch x := t.(type) {
	case typesystem.TLiteral:
		return x.Primitive()
	case typesystem.TUnion:
		members := make([]typesystem.Type, len(x.Types))
		for i, m := range x.Types {
			members[i] = Widen(m)
		}
		return typesystem.NewUnion(members...)
	}
	return t
}

// SlotState is where an unannotated container slot is in its lifecycle.
type SlotState int

const (
	// SlotEvolving: created from an empty literal with no annotation; every
	// write folds the written type into the slot's type.
	SlotEvolving SlotState = iota
	// SlotWidened: the value left its literal context; the type is final.
	SlotWidened
	// SlotDeclared: an explicit annotation applies; the type is final.
	SlotDeclared
)

func (s SlotState) String() string {
	switch s {
	case SlotEvolving:
		return "evolving"
	case SlotWidened:
		return "widened"
	case SlotDeclared:
		return "declared"
	}
	return "unknown"
}

type slotKind int

const (
	arraySlot slotKind = iota
	objectSlot
)

// Slot tracks the type of a variable initialized with an empty array or
// object literal. While evolving, writes widen the slot; once widened or
// declared, writes are checked for assignability and never change it.
type Slot struct {
	analyzer *Analyzer
	kind     slotKind
	state    SlotState
	elems    []typesystem.Type
	members  map[string]typesystem.Type
	final    typesystem.Type
}

// NewArraySlot starts an evolving slot for `let xs = []`.
func (a *Analyzer) NewArraySlot() *Slot {
	return &Slot{analyzer: a, kind: arraySlot, state: SlotEvolving}
}

// NewObjectSlot starts an evolving slot for `let o = {}`.
func (a *Analyzer) NewObjectSlot() *Slot {
	return &Slot{analyzer: a, kind: objectSlot, state: SlotEvolving, members: make(map[string]typesystem.Type)}
}

// newDeclaredSlot starts a slot whose annotation is t.
func (a *Analyzer) newDeclaredSlot(t typesystem.Type) *Slot {
	return &Slot{analyzer: a, state: SlotDeclared, final: t}
}

// State returns the slot's lifecycle state.
func (s *Slot) State() SlotState {
	return s.state
}

// Type returns the slot's current type. An evolving array slot with no
// writes yet is the evolving marker any[]; an evolving object slot is {}.
func (s *Slot) Type() typesystem.Type {
	if s.state != SlotEvolving {
		return s.final
	}
	if s.kind == objectSlot {
		// SetMember only records named, typed members
		ms := make(map[string]typesystem.Member, len(s.members))
		for name, t := range s.members {
			ms[name] = typesystem.Member{Name: name, Type: t}
		}
		return typesystem.TObject{Members: ms}
	}
	if len(s.elems) == 0 {
		return typesystem.TArray{Elem: typesystem.Any}
	}
	return typesystem.TArray{Elem: typesystem.NewUnion(s.elems...)}
}

// Settle marks the point the value leaves its literal context (passed as an
// argument, returned, captured). The evolved type becomes final. Settling a
// widened or declared slot does nothing.
func (s *Slot) Settle() typesystem.Type {
	if s.state == SlotEvolving {
		s.final = s.Type()
		s.state = SlotWidened
	}
	return s.final
}

// Annotate applies an explicit annotation. Whatever was written so far must
// be assignable to it; afterwards the annotation is the slot's type.
func (s *Slot) Annotate(t typesystem.Type) []*diagnostics.Diagnostic {
	var ds []*diagnostics.Diagnostic
	if s.state == SlotEvolving && (len(s.elems) > 0 || len(s.members) > 0) {
		ds = s.analyzer.checker.IsAssignable(s.Type(), t)
	}
	s.final = t
	s.state = SlotDeclared
	return ds
}

// Push models `xs.push(value)`.
func (s *Slot) Push(value typesystem.Type) []*diagnostics.Diagnostic {
	if s.state == SlotEvolving {
		if s.kind != arraySlot {
			return []*diagnostics.Diagnostic{diagnostics.New(diagnostics.TypeMismatch, nil, nil, s.Type(),
				"property 'push' does not exist on type '%s'", s.Type())}
		}
		s.fold(Widen(value))
		return nil
	}
	elem, ds := s.analyzer.elementType(s.final)
	if len(ds) > 0 {
		return ds
	}
	return s.analyzer.checker.IsAssignable(value, elem)
}

// SetIndex models `xs[index] = value`.
func (s *Slot) SetIndex(index int, value typesystem.Type) []*diagnostics.Diagnostic {
	if s.state == SlotEvolving {
		if s.kind != arraySlot {
			return []*diagnostics.Diagnostic{diagnostics.New(diagnostics.TypeMismatch, diagnostics.Path{diagnostics.ElementStep(index)}, nil, s.Type(),
				"type '%s' cannot be indexed by a number", s.Type())}
		}
		s.fold(Widen(value))
		return nil
	}
	elem, ds := s.analyzer.IndexAccess(s.final, index)
	if len(ds) > 0 {
		return ds
	}
	// Reading an optional tuple slot yields undefined too; writing it accepts the same
	return s.analyzer.checker.IsAssignable(value, elem)
}

// SetMember models `o.name = value`. A write without a member name or a
// value is malformed and leaves the slot untouched.
func (s *Slot) SetMember(name string, value typesystem.Type) ([]*diagnostics.Diagnostic, error) {
	if name == "" {
		return nil, typesystem.NewMalformedTypeError("object", "member write without a name")
	}
	if value == nil {
		return nil, typesystem.NewMalformedTypeError("object", "member write %s has no type", name)
	}
	if s.state == SlotEvolving {
		if s.kind != objectSlot {
			return []*diagnostics.Diagnostic{diagnostics.New(diagnostics.TypeMismatch, diagnostics.Path{diagnostics.PropertyStep(name)}, nil, s.Type(),
				"property '%s' does not exist on type '%s'", name, s.Type())}, nil
		}
		if prev, ok := s.members[name]; ok {
			s.members[name] = typesystem.NewUnion(prev, Widen(value))
		} else {
			s.members[name] = Widen(value)
		}
		return nil, nil
	}
	return s.analyzer.checker.CheckWrite(s.final, name, value), nil
}

func (s *Slot) fold(t typesystem.Type) {
	for _, e := range s.elems {
		if typesystem.Equal(e, t) {
			return
		}
	}
	s.elems = append(s.elems, t)
}
