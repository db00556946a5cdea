package checker

import (
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// CheckWrite models `object.member = value`. Readonly members reject every
// write; otherwise the value must be assignable to the member's type.
func (c *Checker) CheckWrite(object typesystem.Type, member string, value typesystem.Type) []*diagnostics.Diagnostic {
	path := diagnostics.Path{diagnostics.PropertyStep(member)}
	resolved, err := typesystem.Unwrap(c.resolver, object)
	if err != nil {
		return one(diagnostics.New(diagnostics.TypeMismatch, path, nil, object, "%s", err))
	}
	if typesystem.IsSpecial(resolved, typesystem.SpecialAny) {
		return nil
	}
	obj, ok := resolved.(typesystem.TObject)
	if !ok {
		return one(diagnostics.New(diagnostics.TypeMismatch, path, nil, object, "cannot assign to property '%s' of type '%s'", member, object))
	}
	m, found := obj.Members[member]
	if !found {
		return one(diagnostics.New(diagnostics.MissingRequiredMember, path, nil, value,
			"property '%s' does not exist on type '%s'", member, object))
	}
	if m.Readonly {
		return one(diagnostics.New(diagnostics.InvalidReadonlyAssignment, path, m.Type, value,
			"cannot assign to '%s' because it is a read-only property", member))
	}
	target := m.Type
	if m.Optional {
		target = typesystem.NewUnion(m.Type, typesystem.Undefined)
	}
	return c.newWalk().assign(value, target, path)
}
