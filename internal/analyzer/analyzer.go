package analyzer

import (
	"github.com/funvibe/shapecheck/internal/checker"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// Analyzer infers types for expression shapes and checks them against their
// context. It never mutates the environment it was given.
type Analyzer struct {
	env     *typesystem.Env
	checker *checker.Checker
}

// New creates a new Analyzer over a given type environment.
func New(env *typesystem.Env) *Analyzer {
	if env == nil {
		env = typesystem.NewEnv()
	}
	return &Analyzer{
		env:     env,
		checker: checker.New(env),
	}
}

// Env returns the environment named types are resolved in.
func (a *Analyzer) Env() *typesystem.Env {
	return a.env
}

// Checker returns the assignability checker bound to the analyzer's environment.
func (a *Analyzer) Checker() *checker.Checker {
	return a.checker
}

// resolve unwraps named references, treating unresolved ones as themselves.
func (a *Analyzer) resolve(t typesystem.Type) typesystem.Type {
	r, err := typesystem.Unwrap(a.env, t)
	if err != nil {
		return t
	}
	return r
}
