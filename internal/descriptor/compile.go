package descriptor

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/shapecheck/internal/ast"
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// dynamicIndex mirrors analyzer.DynamicIndex.
const dynamicIndex = -1

type declaration struct {
	name *yaml.Node
	body *yaml.Node
}

// Compile resolves the document's declarations into a fresh environment and
// compiles its checks. Every name is declared before any definition is
// decoded, so declarations may refer to each other in any order.
func Compile(doc *Document) (*Program, error) {
	env := typesystem.NewEnv()
	d := &typeDecoder{env: env, path: doc.Path}

	decls, err := d.declarations(&doc.Types)
	if err != nil {
		return nil, err
	}
	for _, decl := range decls {
		env.Declare(decl.name.Value)
	}
	for _, decl := range decls {
		t, err := d.decode(decl.body)
		if err != nil {
			return nil, errors.Wrapf(err, "declaring %s", decl.name.Value)
		}
		if _, err := env.Define(decl.name.Value, t); err != nil {
			return nil, d.wrap(err, decl.name)
		}
	}
	if missing := env.Undefined(); len(missing) > 0 {
		return nil, errors.Errorf("%s: declared without a definition: %s", doc.Path, strings.Join(missing, ", "))
	}

	prog := &Program{Path: doc.Path, Env: env, Checks: make([]*Check, 0, len(doc.Checks))}
	for i := range doc.Checks {
		spec := &doc.Checks[i]
		c, err := d.compileCheck(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "checks[%d] (%s)", i, spec.Name)
		}
		if c.Name == "" {
			c.Name = string(c.Op) + " #" + strconv.Itoa(i+1)
		}
		prog.Checks = append(prog.Checks, c)
	}
	return prog, nil
}

func (d *typeDecoder) declarations(n *yaml.Node) ([]declaration, error) {
	var decls []declaration
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			decls = append(decls, declaration{name: n.Content[i], body: n.Content[i+1]})
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
				return nil, d.errorf(item, "a type declaration must be a single-key mapping")
			}
			decls = append(decls, declaration{name: item.Content[0], body: item.Content[1]})
		}
	}
	for _, decl := range decls {
		if _, keyword := keywords[decl.name.Value]; keyword {
			return nil, d.errorf(decl.name, "%q is a reserved type name", decl.name.Value)
		}
	}
	return decls, nil
}

func (d *typeDecoder) compileCheck(spec *CheckSpec) (*Check, error) {
	c := &Check{Name: spec.Name}
	if spec.Expect != nil {
		c.Expect = make([]diagnostics.Kind, 0, len(*spec.Expect))
		for _, s := range *spec.Expect {
			k, ok := diagnostics.ParseKind(s)
			if !ok {
				return nil, errors.Errorf("unknown diagnostic kind %q (known: %s)", s, knownKinds())
			}
			c.Expect = append(c.Expect, k)
		}
	}
	if spec.Infers != nil {
		t, err := d.decode(spec.Infers)
		if err != nil {
			return nil, errors.Wrap(err, "infers")
		}
		c.Infers = t
	}

	var err error
	switch {
	case spec.Assign != nil:
		c.Op = OpAssign
		if c.Source, err = d.decode(&spec.Assign.Source); err != nil {
			return nil, errors.Wrap(err, "assign source")
		}
		if c.Target, err = d.decode(&spec.Assign.Target); err != nil {
			return nil, errors.Wrap(err, "assign target")
		}
	case spec.Call != nil:
		c.Op = OpCall
		callee, err := d.decode(&spec.Call.Function)
		if err != nil {
			return nil, errors.Wrap(err, "call function")
		}
		args := make([]ast.Argument, 0, len(spec.Call.Args))
		for i := range spec.Call.Args {
			t, spread, err := d.decodeSpreadable(&spec.Call.Args[i])
			if err != nil {
				return nil, errors.Wrapf(err, "call argument %d", i)
			}
			args = append(args, ast.Argument{Type: t, Spread: spread})
		}
		c.Call = &ast.CallExpression{Callee: callee, Args: args}
	case spec.Write != nil:
		c.Op = OpWrite
		c.Member = spec.Write.Member
		if c.Object, err = d.decode(&spec.Write.Object); err != nil {
			return nil, errors.Wrap(err, "write object")
		}
		if c.Value, err = d.decode(&spec.Write.Value); err != nil {
			return nil, errors.Wrap(err, "write value")
		}
	case spec.Array != nil:
		c.Op = OpArray
		lit := &ast.ArrayLiteral{}
		for i := range spec.Array.Elements {
			t, spread, err := d.decodeSpreadable(&spec.Array.Elements[i])
			if err != nil {
				return nil, errors.Wrapf(err, "array element %d", i)
			}
			lit.Elements = append(lit.Elements, ast.Element{Type: t, Spread: spread})
		}
		c.Array = lit
		if c.Context, err = d.decodeOptional(spec.Array.Context); err != nil {
			return nil, errors.Wrap(err, "array context")
		}
	case spec.Returns != nil:
		c.Op = OpReturns
		if c.Body, err = d.decodeBody(spec.Returns); err != nil {
			return nil, errors.Wrap(err, "returns")
		}
		c.ValueUsed = spec.Returns.Used
	case spec.Parameters != nil:
		c.Op = OpParameters
		if c.Literal, err = d.decodeLiteralFunc(&spec.Parameters.Literal); err != nil {
			return nil, errors.Wrap(err, "parameters literal")
		}
		if c.Context, err = d.decodeOptional(spec.Parameters.Context); err != nil {
			return nil, errors.Wrap(err, "parameters context")
		}
	case spec.Index != nil:
		c.Op = OpIndex
		if c.Object, err = d.decode(&spec.Index.Of); err != nil {
			return nil, errors.Wrap(err, "index of")
		}
		c.Index = dynamicIndex
		if spec.Index.At != nil {
			if *spec.Index.At < 0 {
				return nil, errors.Errorf("index at must not be negative, got %d", *spec.Index.At)
			}
			c.Index = *spec.Index.At
		}
	case spec.Evolve != nil:
		c.Op = OpEvolve
		if c.Evolve, err = d.decodeEvolution(spec.Evolve); err != nil {
			return nil, errors.Wrap(err, "evolve")
		}
	case spec.Declaration != nil:
		c.Op = OpDeclaration
		if c.Declared, err = d.decode(spec.Declaration); err != nil {
			return nil, errors.Wrap(err, "declaration")
		}
	}
	return c, nil
}

// decodeSpreadable decodes a call argument or array element: a type, or
// `{spread: T}`.
func (d *typeDecoder) decodeSpreadable(n *yaml.Node) (typesystem.Type, bool, error) {
	if n.Kind == yaml.MappingNode && len(n.Content) == 2 && n.Content[0].Value == "spread" {
		t, err := d.decode(n.Content[1])
		return t, true, err
	}
	t, err := d.decode(n)
	return t, false, err
}

func (d *typeDecoder) decodeOptional(n *yaml.Node) (typesystem.Type, error) {
	if n == nil || n.Kind == 0 {
		return nil, nil
	}
	return d.decode(n)
}

func (d *typeDecoder) decodeBody(spec *BodySpec) (*ast.FunctionBody, error) {
	body := &ast.FunctionBody{}
	for i, p := range spec.Paths {
		fp := ast.FlowPath{Kind: ast.PathReturn, AfterNever: p.AfterNever}
		switch {
		case p.Throw:
			fp.Kind = ast.PathThrow
		case p.Return != nil:
			t, err := d.decode(p.Return)
			if err != nil {
				return nil, errors.Wrapf(err, "path %d", i)
			}
			fp.Value = t
		}
		body.Paths = append(body.Paths, fp)
	}
	if spec.Fallthrough {
		body.Paths = append(body.Paths, ast.FlowPath{Kind: ast.PathFallthrough})
	}
	return body, nil
}

func (d *typeDecoder) decodeLiteralFunc(spec *LiteralSpec) (*ast.FunctionLiteral, error) {
	lit := &ast.FunctionLiteral{}
	for i, p := range spec.Params {
		param := ast.Parameter{Name: p.Name, Optional: p.Optional, Rest: p.Rest}
		if param.Name == "" {
			param.Name = string(rune('a' + i%26))
		}
		t, err := d.decodeOptional(p.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s", param.Name)
		}
		param.Type = t
		lit.Params = append(lit.Params, param)
	}
	ret, err := d.decodeOptional(spec.Returns)
	if err != nil {
		return nil, errors.Wrap(err, "return type")
	}
	lit.ReturnType = ret
	if spec.Body != nil {
		if lit.Body, err = d.decodeBody(spec.Body); err != nil {
			return nil, errors.Wrap(err, "body")
		}
	}
	return lit, nil
}

func (d *typeDecoder) decodeEvolution(spec *EvolveSpec) (*Evolution, error) {
	ev := &Evolution{Object: spec.Kind == "object"}
	for i, op := range spec.Ops {
		var (
			eo  EvolveOp
			err error
		)
		switch {
		case op.Push != nil:
			eo.Kind = EvolvePush
			eo.Type, err = d.decode(op.Push)
		case op.Set != nil:
			eo.Kind, eo.Index = EvolveSetIndex, op.Set.Index
			eo.Type, err = d.decode(&op.Set.Value)
		case op.Member != nil:
			eo.Kind, eo.Name = EvolveSetMember, op.Member.Name
			eo.Type, err = d.decode(&op.Member.Value)
		case op.Annotate != nil:
			eo.Kind = EvolveAnnotate
			eo.Type, err = d.decode(op.Annotate)
		case op.Settle:
			eo.Kind = EvolveSettle
		default:
			return nil, errors.Errorf("op %d: one of push, set, member, annotate or settle is required", i)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "op %d", i)
		}
		ev.Ops = append(ev.Ops, eo)
	}
	return ev, nil
}

func knownKinds() string {
	names := make([]string, len(diagnostics.Kinds))
	for i, k := range diagnostics.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
