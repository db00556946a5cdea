package analyzer

import (
	"github.com/funvibe/shapecheck/internal/ast"
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// InferParameterTypes gives every parameter of lit a type. Annotated
// parameters keep their annotation; the rest take the type of the parameter
// at the same position of the contextual function. Unannotated parameters
// with no contextual function, or beyond its arity, are reported as
// UnresolvedParameterType and typed any.
func (a *Analyzer) InferParameterTypes(lit *ast.FunctionLiteral, contextual typesystem.Type) ([]typesystem.Param, []*diagnostics.Diagnostic) {
	var ctxFn *typesystem.TFunc
	ctxAny := false
	if contextual != nil {
		switch r := a.resolve(contextual).(type) {
		case typesystem.TFunc:
			ctxFn = &r
		case typesystem.TSpecial:
			ctxAny = r.Kind == typesystem.SpecialAny
		}
	}

	params := make([]typesystem.Param, len(lit.Params))
	var ds []*diagnostics.Diagnostic
	for i, p := range lit.Params {
		params[i] = typesystem.Param{Name: p.Name, Type: p.Type, Optional: p.Optional, Rest: p.Rest}
		if p.Type != nil {
			continue
		}
		if ctxAny {
			params[i].Type = anyFor(p)
			continue
		}
		t, ok := contextualParamType(ctxFn, i, p.Rest)
		if !ok {
			params[i].Type = anyFor(p)
			ds = append(ds, unresolvedParameter(i, p, contextual))
			continue
		}
		params[i].Type = t
	}
	return params, ds
}

func anyFor(p ast.Parameter) typesystem.Type {
	if p.Rest {
		return typesystem.TArray{Elem: typesystem.Any}
	}
	return typesystem.Any
}

// contextualParamType is the type position i of fn offers to a parameter.
// An optional contextual parameter offers T | undefined.
func contextualParamType(fn *typesystem.TFunc, i int, rest bool) (typesystem.Type, bool) {
	if fn == nil {
		return nil, false
	}
	fixed := fn.Fixed()
	ctxRest, hasRest := fn.RestParam()
	if rest {
		// A rest parameter collects the remaining contextual positions.
		var elems []typesystem.Type
		for _, p := range fixed[min(i, len(fixed)):] {
			elems = append(elems, p.Type)
		}
		if hasRest {
			elems = append(elems, typesystem.RestElem(ctxRest.Type))
		}
		if len(elems) == 0 {
			return nil, false
		}
		return typesystem.TArray{Elem: typesystem.NewUnion(elems...)}, true
	}
	if i < len(fixed) {
		return fixed[i].EffectiveType(), true
	}
	if hasRest {
		return typesystem.RestElem(ctxRest.Type), true
	}
	return nil, false
}

func unresolvedParameter(i int, p ast.Parameter, contextual typesystem.Type) *diagnostics.Diagnostic {
	path := diagnostics.Path{diagnostics.ParamStep(i)}
	if contextual == nil {
		return diagnostics.New(diagnostics.UnresolvedParameterType, path, nil, nil,
			"parameter '%s' implicitly has an 'any' type", p.Name)
	}
	return diagnostics.New(diagnostics.UnresolvedParameterType, path, contextual, nil,
		"parameter '%s' has no counterpart in contextual type '%s' and implicitly has an 'any' type", p.Name, contextual)
}

// CheckFunctionLiteral types a function literal against its contextual type:
// parameters are inferred from the context, the return type comes from the
// annotation or the body, and the resulting function must be assignable to
// the context. The assignability check is skipped once a parameter could not
// be resolved, since its any type would hide real mismatches.
func (a *Analyzer) CheckFunctionLiteral(lit *ast.FunctionLiteral, contextual typesystem.Type) (typesystem.TFunc, []*diagnostics.Diagnostic, error) {
	params, ds := a.InferParameterTypes(lit, contextual)

	var ctxFn *typesystem.TFunc
	if contextual != nil {
		if f, ok := a.resolve(contextual).(typesystem.TFunc); ok {
			ctxFn = &f
		}
	}

	ret := lit.ReturnType
	switch {
	case ret != nil:
		ds = append(ds, a.checkReturnPaths(lit.Body, ret)...)
	case lit.Body != nil:
		valueUsed := ctxFn != nil && !typesystem.IsSpecial(a.resolve(ctxFn.ReturnType), typesystem.SpecialVoid)
		ret = InferBodyReturnType(lit.Body, valueUsed)
	case ctxFn != nil:
		ret = ctxFn.ReturnType
	default:
		ret = typesystem.Any
	}

	fn, err := typesystem.NewFunc(params, ret)
	if err != nil {
		return typesystem.TFunc{}, nil, err
	}
	if len(ds) > 0 || ctxFn == nil {
		return fn, ds, nil
	}
	return fn, a.checker.IsAssignable(fn, contextual), nil
}

// checkReturnPaths checks every reachable returned value against an
// annotated return type.
func (a *Analyzer) checkReturnPaths(body *ast.FunctionBody, ret typesystem.Type) []*diagnostics.Diagnostic {
	if body == nil {
		return nil
	}
	var ds []*diagnostics.Diagnostic
	for _, p := range body.Paths {
		if p.AfterNever || p.Kind != ast.PathReturn || p.Value == nil {
			continue
		}
		for _, d := range a.checker.IsAssignable(p.Value, ret) {
			d.Path = append(diagnostics.Path{diagnostics.ReturnStep()}, d.Path...)
			ds = append(ds, d)
		}
	}
	return ds
}
