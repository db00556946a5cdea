package typesystem

import "sort"

// NewTuple builds a tuple type, rejecting a required slot after an optional one.
func NewTuple(elems ...TupleElem) (TTuple, error) {
	seenOptional := false
	for i, el := range elems {
		if el.Type == nil {
			return TTuple{}, NewMalformedTypeError("tuple", "slot %d has no type", i)
		}
		if el.Optional {
			seenOptional = true
		} else if seenOptional {
			return TTuple{}, NewMalformedTypeError("tuple", "required slot %d follows an optional slot", i)
		}
	}
	return TTuple{Elements: append([]TupleElem(nil), elems...)}, nil
}

// TupleOf builds a tuple of required slots.
func TupleOf(types ...Type) TTuple {
	elems := make([]TupleElem, len(types))
	for i, t := range types {
		elems[i] = TupleElem{Type: t}
	}
	return TTuple{Elements: elems}
}

// NewFunc builds a function type. Required parameters may not follow optional
// or rest parameters, and a rest parameter must be last and array-typed.
func NewFunc(params []Param, ret Type) (TFunc, error) {
	if ret == nil {
		return TFunc{}, NewMalformedTypeError("function", "missing return type")
	}
	seenOptional := false
	for i, p := range params {
		if p.Type == nil {
			return TFunc{}, NewMalformedTypeError("function", "parameter %d (%s) has no type", i, p.Name)
		}
		if p.Rest {
			if i != len(params)-1 {
				return TFunc{}, NewMalformedTypeError("function", "rest parameter %s must be last", p.Name)
			}
			if p.Optional {
				return TFunc{}, NewMalformedTypeError("function", "rest parameter %s cannot be optional", p.Name)
			}
			switch p.Type.(type) {
			case TArray:
			case TSpecial:
				if !IsSpecial(p.Type, SpecialAny) {
					return TFunc{}, NewMalformedTypeError("function", "rest parameter %s must be an array type, got %s", p.Name, p.Type)
				}
			default:
				return TFunc{}, NewMalformedTypeError("function", "rest parameter %s must be an array type, got %s", p.Name, p.Type)
			}
			continue
		}
		if p.Optional {
			seenOptional = true
		} else if seenOptional {
			return TFunc{}, NewMalformedTypeError("function", "required parameter %s follows an optional parameter", p.Name)
		}
	}
	return TFunc{Params: append([]Param(nil), params...), ReturnType: ret}, nil
}

// FuncOf builds a function type of required, positionally named parameters.
func FuncOf(ret Type, params ...Type) TFunc {
	ps := make([]Param, len(params))
	for i, p := range params {
		ps[i] = Param{Name: paramName(i), Type: p}
	}
	return TFunc{Params: ps, ReturnType: ret}
}

func paramName(i int) string {
	return string(rune('a' + i%26))
}

// NewObject builds an object type, rejecting duplicate member names.
func NewObject(members ...Member) (TObject, error) {
	m := make(map[string]Member, len(members))
	for _, member := range members {
		if member.Name == "" {
			return TObject{}, NewMalformedTypeError("object", "member without a name")
		}
		if member.Type == nil {
			return TObject{}, NewMalformedTypeError("object", "member %s has no type", member.Name)
		}
		if _, dup := m[member.Name]; dup {
			return TObject{}, NewMalformedTypeError("object", "duplicate member %s", member.Name)
		}
		m[member.Name] = member
	}
	return TObject{Members: m}, nil
}

// NewUnion creates a normalized union type.
// It flattens nested unions, removes duplicates, and sorts types.
// A single remaining member is returned as is; no members yields never.
func NewUnion(types ...Type) Type {
	flat := make([]Type, 0, len(types))
	for _, t := range types {
		if u, ok := t.(TUnion); ok {
			flat = append(flat, u.Types...)
		} else if t != nil && !IsSpecial(t, SpecialNever) {
			flat = append(flat, t)
		}
	}

	// any and unknown absorb every other member
	for _, top := range []SpecialKind{SpecialAny, SpecialUnknown} {
		for _, t := range flat {
			if IsSpecial(t, top) {
				return TSpecial{Kind: top}
			}
		}
	}

	unique := make([]Type, 0, len(flat))
	for _, t := range flat {
		dup := false
		for _, u := range unique {
			if Equal(t, u) {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, t)
		}
	}

	switch len(unique) {
	case 0:
		return Never
	case 1:
		return unique[0]
	}

	// Sort for deterministic comparison
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})
	return TUnion{Types: unique}
}
