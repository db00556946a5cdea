package typesystem

// Equal reports whether two types are structurally identical: same variant and
// recursively equal attributes. Union membership is compared ignoring order;
// named types are equal iff they share an identity.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case TPrim:
		y, ok := b.(TPrim)
		return ok && x.Kind == y.Kind
	case TLiteral:
		y, ok := b.(TLiteral)
		return ok && x.Kind == y.Kind && x.Value == y.Value
	case TSpecial:
		y, ok := b.(TSpecial)
		return ok && x.Kind == y.Kind
	case TNamed:
		y, ok := b.(TNamed)
		return ok && x.ID == y.ID
	case TArray:
		y, ok := b.(TArray)
		return ok && Equal(x.Elem, y.Elem)
	case TTuple:
		y, ok := b.(TTuple)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if x.Elements[i].Optional != y.Elements[i].Optional || !Equal(x.Elements[i].Type, y.Elements[i].Type) {
				return false
			}
		}
		return true
	case TFunc:
		y, ok := b.(TFunc)
		if !ok || len(x.Params) != len(y.Params) || !Equal(x.ReturnType, y.ReturnType) {
			return false
		}
		// Parameter names are documentation only
		for i := range x.Params {
			p, q := x.Params[i], y.Params[i]
			if p.Optional != q.Optional || p.Rest != q.Rest || !Equal(p.Type, q.Type) {
				return false
			}
		}
		return true
	case TObject:
		y, ok := b.(TObject)
		if !ok || len(x.Members) != len(y.Members) {
			return false
		}
		for name, m := range x.Members {
			n, found := y.Members[name]
			if !found || m.Optional != n.Optional || m.Readonly != n.Readonly || m.Method != n.Method || !Equal(m.Type, n.Type) {
				return false
			}
		}
		return true
	case TUnion:
		y, ok := b.(TUnion)
		if !ok || len(x.Types) != len(y.Types) {
			return false
		}
		for _, m := range x.Types {
			if !containsType(y.Types, m) {
				return false
			}
		}
		return true
	}
	return false
}

func containsType(types []Type, t Type) bool {
	for _, u := range types {
		if Equal(u, t) {
			return true
		}
	}
	return false
}
