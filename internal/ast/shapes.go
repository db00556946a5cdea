// Package ast describes the expression shapes the inference engine consumes.
// A front end builds these from source text; they carry only the type
// information inference needs, never values or statements.
package ast

import (
	"strings"

	"github.com/funvibe/shapecheck/internal/typesystem"
)

// Element is one entry of an array literal: `x` or `...xs`.
type Element struct {
	Type   typesystem.Type
	Spread bool
}

func (e Element) String() string {
	if e.Spread {
		return "..." + e.Type.String()
	}
	return e.Type.String()
}

// ArrayLiteral is `[a, b, ...c]`.
type ArrayLiteral struct {
	Elements []Element
}

func (al *ArrayLiteral) String() string {
	parts := make([]string, len(al.Elements))
	for i, e := range al.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Argument is one argument at a call site. A spread argument passes the
// elements of an array or tuple value.
type Argument struct {
	Type   typesystem.Type
	Spread bool
}

// CallExpression is `callee(args...)`.
type CallExpression struct {
	Callee typesystem.Type
	Args   []Argument
}

// PathKind says how a control-flow path leaves a function body.
type PathKind int

const (
	PathReturn      PathKind = iota // `return expr` or bare `return`
	PathFallthrough                 // falls off the end of the body
	PathThrow                       // throws, or never terminates
)

func (k PathKind) String() string {
	switch k {
	case PathReturn:
		return "return"
	case PathFallthrough:
		return "fallthrough"
	case PathThrow:
		return "throw"
	}
	return "unknown"
}

// FlowPath is one control-flow path through a function body.
type FlowPath struct {
	Kind PathKind
	// Value is the returned expression's type; nil for a bare `return`.
	Value typesystem.Type
	// AfterNever marks a path that follows a call to a never-returning
	// function and so can never be reached.
	AfterNever bool
}

// FunctionBody summarizes the exits of a function body.
type FunctionBody struct {
	Paths []FlowPath
}

// Parameter is a parameter of a function literal. Type is nil when the
// parameter carries no annotation.
type Parameter struct {
	Name     string
	Type     typesystem.Type
	Optional bool
	Rest     bool
}

// FunctionLiteral is an arrow function or callback: `(a, b: string) => ...`.
type FunctionLiteral struct {
	Params     []Parameter
	ReturnType typesystem.Type // nil when not annotated
	Body       *FunctionBody   // nil when the body is not available
}
