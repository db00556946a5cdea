package analyzer

import (
	"github.com/funvibe/shapecheck/internal/ast"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// InferReturnType infers a function's return type from the types of its
// reachable return statements. Returned literals are widened. Falling off the
// end adds undefined; a function with no returns at all is void when it can
// fall through and never when it cannot.
func InferReturnType(returns []typesystem.Type, hasImplicitFallthrough bool) typesystem.Type {
	if len(returns) == 0 {
		if hasImplicitFallthrough {
			return typesystem.Void
		}
		return typesystem.Never
	}
	members := make([]typesystem.Type, 0, len(returns)+1)
	for _, r := range returns {
		members = append(members, Widen(r))
	}
	if hasImplicitFallthrough {
		members = append(members, typesystem.Undefined)
	}
	return typesystem.NewUnion(members...)
}

// InferBodyReturnType collects the exits of body and infers the return type.
// Paths after a never-returning call are skipped; a bare return counts as
// falling through. When valueUsed is set (the caller consumes the result) a
// body with no value-returning path yields undefined instead of void.
func InferBodyReturnType(body *ast.FunctionBody, valueUsed bool) typesystem.Type {
	if body == nil {
		return typesystem.Void
	}
	var (
		returns      []typesystem.Type
		fallsThrough bool
	)
	for _, p := range body.Paths {
		if p.AfterNever {
			continue
		}
		switch p.Kind {
		case ast.PathReturn:
			if p.Value == nil {
				fallsThrough = true
				continue
			}
			returns = append(returns, p.Value)
		case ast.PathFallthrough:
			fallsThrough = true
		}
	}
	if len(returns) == 0 && fallsThrough && valueUsed {
		return typesystem.Undefined
	}
	return InferReturnType(returns, fallsThrough)
}
