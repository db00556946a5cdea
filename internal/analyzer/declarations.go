package analyzer

import (
	"github.com/funvibe/shapecheck/internal/descriptor"
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// CheckDeclaration reports readonly method members anywhere inside t.
// Methods cannot be marked readonly; only properties can.
func (a *Analyzer) CheckDeclaration(t typesystem.Type) []*diagnostics.Diagnostic {
	return a.checkDeclaration(t, nil, make(map[string]bool))
}

// CheckEnv runs CheckDeclaration over every declared type, in name order.
func (a *Analyzer) CheckEnv() []*diagnostics.Diagnostic {
	var ds []*diagnostics.Diagnostic
	seen := make(map[string]bool)
	for _, name := range a.env.Names() {
		ref, ok := a.env.Lookup(name)
		if !ok {
			continue
		}
		ds = append(ds, a.checkDeclaration(ref, nil, seen)...)
	}
	return ds
}

// CheckOperands runs CheckDeclaration over the types written inline in c.
// Declared names are left to CheckEnv.
func (a *Analyzer) CheckOperands(c *descriptor.Check) []*diagnostics.Diagnostic {
	seen := make(map[string]bool)
	for _, name := range a.env.Names() {
		if ref, ok := a.env.Lookup(name); ok {
			seen[ref.ID] = true
		}
	}
	var ds []*diagnostics.Diagnostic
	for _, t := range c.Operands() {
		ds = append(ds, a.checkDeclaration(t, nil, seen)...)
	}
	return ds
}

func (a *Analyzer) checkDeclaration(t typesystem.Type, path diagnostics.Path, seen map[string]bool) []*diagnostics.Diagnostic {
	var ds []*diagnostics.Diagnostic
	switch x := t.(type) {
	case typesystem.TNamed:
		if seen[x.ID] {
			return nil
		}
		seen[x.ID] = true
		if def, ok := a.env.Resolve(x); ok {
			return a.checkDeclaration(def, path, seen)
		}
	case typesystem.TObject:
		for _, name := range x.Names() {
			m := x.Members[name]
			mp := path.Append(diagnostics.PropertyStep(name))
			if m.Method && m.Readonly {
				ds = append(ds, diagnostics.New(diagnostics.InvalidReadonlyMethod, mp, nil, m.Type,
					"'readonly' modifier can only appear on a property declaration, not on method '%s'", name))
			}
			ds = append(ds, a.checkDeclaration(m.Type, mp, seen)...)
		}
	case typesystem.TArray:
		ds = a.checkDeclaration(x.Elem, path.Append(diagnostics.ElementStep(-1)), seen)
	case typesystem.TTuple:
		for i, el := range x.Elements {
			ds = append(ds, a.checkDeclaration(el.Type, path.Append(diagnostics.SlotStep(i)), seen)...)
		}
	case typesystem.TFunc:
		for i, p := range x.Params {
			step := diagnostics.ParamStep(i)
			if p.Rest {
				step = diagnostics.RestStep()
			}
			ds = append(ds, a.checkDeclaration(p.Type, path.Append(step), seen)...)
		}
		ds = append(ds, a.checkDeclaration(x.ReturnType, path.Append(diagnostics.ReturnStep()), seen)...)
	case typesystem.TUnion:
		for _, m := range x.Types {
			ds = append(ds, a.checkDeclaration(m, path, seen)...)
		}
	}
	return ds
}
