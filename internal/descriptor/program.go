package descriptor

import (
	"github.com/funvibe/shapecheck/internal/ast"
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// Op names the operation a check runs.
type Op string

const (
	OpAssign      Op = "assign"
	OpCall        Op = "call"
	OpWrite       Op = "write"
	OpArray       Op = "array"
	OpReturns     Op = "returns"
	OpParameters  Op = "parameters"
	OpIndex       Op = "index"
	OpEvolve      Op = "evolve"
	OpDeclaration Op = "declaration"
)

// Program is a compiled descriptor: an environment holding every declared
// type and the checks to run against it.
type Program struct {
	Path   string
	Env    *typesystem.Env
	Checks []*Check
}

// Check is one compiled check. Only the fields of its Op are set.
type Check struct {
	Name string
	Op   Op

	// Expect is nil when the check only reports.
	Expect []diagnostics.Kind
	// Infers is nil when the inferred type is not asserted.
	Infers typesystem.Type

	Source, Target typesystem.Type // assign
	Call           *ast.CallExpression
	Object         typesystem.Type // write, index
	Member         string          // write
	Value          typesystem.Type // write
	Array          *ast.ArrayLiteral
	Context        typesystem.Type // array, parameters
	Body           *ast.FunctionBody
	ValueUsed      bool // returns
	Literal        *ast.FunctionLiteral
	Index          int // index; analyzer.DynamicIndex for a dynamic index
	Evolve         *Evolution
	Declared       typesystem.Type // declaration
}

// Evolution is a sequence of writes to one container slot.
type Evolution struct {
	Object bool
	Ops    []EvolveOp
}

// EvolveOpKind names a slot operation.
type EvolveOpKind int

const (
	EvolvePush EvolveOpKind = iota
	EvolveSetIndex
	EvolveSetMember
	EvolveSettle
	EvolveAnnotate
)

// EvolveOp is one slot operation.
type EvolveOp struct {
	Kind  EvolveOpKind
	Index int
	Name  string
	Type  typesystem.Type
}

// Asserts reports whether the check carries an expectation.
func (c *Check) Asserts() bool {
	return c.Expect != nil || c.Infers != nil
}

// Operands returns the types written inline in the check's operation, the
// asserted type and a declaration check's subject excluded.
func (c *Check) Operands() []typesystem.Type {
	ts := []typesystem.Type{c.Source, c.Target, c.Object, c.Value, c.Context}
	if c.Call != nil {
		ts = append(ts, c.Call.Callee)
		for _, arg := range c.Call.Args {
			ts = append(ts, arg.Type)
		}
	}
	if c.Array != nil {
		for _, el := range c.Array.Elements {
			ts = append(ts, el.Type)
		}
	}
	if c.Body != nil {
		for _, p := range c.Body.Paths {
			ts = append(ts, p.Value)
		}
	}
	if c.Literal != nil {
		for _, p := range c.Literal.Params {
			ts = append(ts, p.Type)
		}
		ts = append(ts, c.Literal.ReturnType)
		if c.Literal.Body != nil {
			for _, p := range c.Literal.Body.Paths {
				ts = append(ts, p.Value)
			}
		}
	}
	if c.Evolve != nil {
		for _, op := range c.Evolve.Ops {
			ts = append(ts, op.Type)
		}
	}
	out := ts[:0]
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
