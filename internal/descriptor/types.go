package descriptor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/shapecheck/internal/config"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

var keywords = map[string]typesystem.Type{
	config.StringTypeName:    typesystem.String,
	config.NumberTypeName:    typesystem.Number,
	config.BooleanTypeName:   typesystem.Boolean,
	config.AnyTypeName:       typesystem.Any,
	config.UnknownTypeName:   typesystem.Unknown,
	config.VoidTypeName:      typesystem.Void,
	config.NeverTypeName:     typesystem.Never,
	config.UndefinedTypeName: typesystem.Undefined,
	config.NullTypeName:      typesystem.Null,
}

// typeDecoder turns YAML type expressions into types, resolving names
// against env.
type typeDecoder struct {
	env  *typesystem.Env
	path string
}

func (d *typeDecoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return errors.Errorf("%s:%d:%d: %s", d.path, n.Line, n.Column, fmt.Sprintf(format, args...))
}

func (d *typeDecoder) wrap(err error, n *yaml.Node) error {
	return errors.Wrapf(err, "%s:%d:%d", d.path, n.Line, n.Column)
}

// decode decodes a type expression: a keyword or declared name as a scalar,
// or a single-key mapping naming a type constructor.
func (d *typeDecoder) decode(n *yaml.Node) (typesystem.Type, error) {
	if n == nil || n.Kind == 0 {
		return nil, errors.Errorf("%s: missing type", d.path)
	}
	switch n.Kind {
	case yaml.AliasNode:
		return d.decode(n.Alias)
	case yaml.ScalarNode:
		return d.decodeName(n)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, d.errorf(n, "a type constructor mapping must have exactly one key, got %d", len(n.Content)/2)
		}
		key, value := n.Content[0], n.Content[1]
		switch key.Value {
		case config.LiteralKey:
			return d.decodeLiteral(value)
		case config.ArrayKey:
			elem, err := d.decode(value)
			if err != nil {
				return nil, err
			}
			return typesystem.TArray{Elem: elem}, nil
		case config.TupleKey:
			return d.decodeTuple(value)
		case config.UnionKey:
			return d.decodeUnion(value)
		case config.FunctionKey:
			return d.decodeFunction(value)
		case config.ObjectKey:
			return d.decodeObject(value)
		}
		return nil, d.errorf(key, "unknown type constructor %q", key.Value)
	}
	return nil, d.errorf(n, "expected a type")
}

func (d *typeDecoder) decodeName(n *yaml.Node) (typesystem.Type, error) {
	if t, ok := keywords[n.Value]; ok {
		return t, nil
	}
	if ref, ok := d.env.Lookup(n.Value); ok {
		return ref, nil
	}
	return nil, d.wrap(&typesystem.UnresolvedTypeError{Name: n.Value}, n)
}

func (d *typeDecoder) decodeLiteral(n *yaml.Node) (typesystem.Type, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, d.errorf(n, "a literal type must be a scalar")
	}
	switch n.Tag {
	case "!!str":
		return typesystem.StringLit(n.Value), nil
	case "!!int", "!!float":
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, d.wrap(err, n)
		}
		return typesystem.NumberLit(v), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, d.wrap(err, n)
		}
		return typesystem.BooleanLit(b), nil
	}
	return nil, d.errorf(n, "unsupported literal %q", n.Value)
}

// decodeTuple decodes `[T, U, {optional: V}]`.
func (d *typeDecoder) decodeTuple(n *yaml.Node) (typesystem.Type, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "a tuple type must be a sequence")
	}
	elems := make([]typesystem.TupleElem, 0, len(n.Content))
	for _, item := range n.Content {
		el := typesystem.TupleElem{}
		if item.Kind == yaml.MappingNode && len(item.Content) == 2 && item.Content[0].Value == "optional" {
			el.Optional = true
			item = item.Content[1]
		}
		t, err := d.decode(item)
		if err != nil {
			return nil, err
		}
		el.Type = t
		elems = append(elems, el)
	}
	tuple, err := typesystem.NewTuple(elems...)
	if err != nil {
		return nil, d.wrap(err, n)
	}
	return tuple, nil
}

func (d *typeDecoder) decodeUnion(n *yaml.Node) (typesystem.Type, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "a union type must be a sequence")
	}
	members := make([]typesystem.Type, 0, len(n.Content))
	for _, item := range n.Content {
		t, err := d.decode(item)
		if err != nil {
			return nil, err
		}
		members = append(members, t)
	}
	return typesystem.NewUnion(members...), nil
}

type functionSpec struct {
	Params  []yaml.Node `yaml:"params"`
	Returns yaml.Node   `yaml:"returns"`
}

type paramSpec struct {
	Name     string    `yaml:"name"`
	Type     yaml.Node `yaml:"type"`
	Optional bool      `yaml:"optional"`
	Rest     bool      `yaml:"rest"`
}

// decodeFunction decodes `{params: [...], returns: T}`. A parameter is a
// type, or a mapping with name, type, optional and rest.
func (d *typeDecoder) decodeFunction(n *yaml.Node) (typesystem.Type, error) {
	var spec functionSpec
	if err := n.Decode(&spec); err != nil {
		return nil, d.wrap(err, n)
	}
	params := make([]typesystem.Param, 0, len(spec.Params))
	for i := range spec.Params {
		p, err := d.decodeParam(&spec.Params[i], i)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	ret := typesystem.Type(typesystem.Void)
	if spec.Returns.Kind != 0 {
		t, err := d.decode(&spec.Returns)
		if err != nil {
			return nil, err
		}
		ret = t
	}
	fn, err := typesystem.NewFunc(params, ret)
	if err != nil {
		return nil, d.wrap(err, n)
	}
	return fn, nil
}

func (d *typeDecoder) decodeParam(n *yaml.Node, i int) (typesystem.Param, error) {
	name := string(rune('a' + i%26))
	if n.Kind == yaml.MappingNode && hasKey(n, "type") {
		var spec paramSpec
		if err := n.Decode(&spec); err != nil {
			return typesystem.Param{}, d.wrap(err, n)
		}
		if spec.Name != "" {
			name = spec.Name
		}
		t, err := d.decode(&spec.Type)
		if err != nil {
			return typesystem.Param{}, err
		}
		return typesystem.Param{Name: name, Type: t, Optional: spec.Optional, Rest: spec.Rest}, nil
	}
	t, err := d.decode(n)
	if err != nil {
		return typesystem.Param{}, err
	}
	return typesystem.Param{Name: name, Type: t}, nil
}

type memberSpec struct {
	Type     yaml.Node `yaml:"type"`
	Optional bool      `yaml:"optional"`
	Readonly bool      `yaml:"readonly"`
	Method   bool      `yaml:"method"`
}

// decodeObject decodes a mapping of member names to types. A trailing `?`
// on the name marks an optional member and a `readonly ` prefix a readonly
// one; the long form `{type: T, optional, readonly, method}` is accepted too.
func (d *typeDecoder) decodeObject(n *yaml.Node) (typesystem.Type, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "an object type must be a mapping")
	}
	members := make([]typesystem.Member, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		m := typesystem.Member{Name: key.Value}
		if rest, ok := strings.CutPrefix(m.Name, "readonly "); ok {
			m.Name, m.Readonly = strings.TrimSpace(rest), true
		}
		if rest, ok := strings.CutSuffix(m.Name, "?"); ok {
			m.Name, m.Optional = rest, true
		}
		if value.Kind == yaml.MappingNode && hasKey(value, "type") {
			var spec memberSpec
			if err := value.Decode(&spec); err != nil {
				return nil, d.wrap(err, value)
			}
			m.Optional = m.Optional || spec.Optional
			m.Readonly = m.Readonly || spec.Readonly
			m.Method = spec.Method
			value = &spec.Type
		}
		t, err := d.decode(value)
		if err != nil {
			return nil, err
		}
		m.Type = t
		members = append(members, m)
	}
	obj, err := typesystem.NewObject(members...)
	if err != nil {
		return nil, d.wrap(err, n)
	}
	return obj, nil
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}
