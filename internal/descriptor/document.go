// Package descriptor decodes shapecheck descriptor documents: YAML files that
// declare named types and list the checks to run against them.
//
// A document looks like:
//
//	types:
//	  Tree:
//	    object:
//	      children: {array: Tree}
//	checks:
//	  - name: trees nest
//	    assign: {source: Tree, target: {object: {children: {array: Tree}}}}
//	    expect: []
package descriptor

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Document is the raw decoded form of a descriptor file. Type expressions
// are kept as YAML nodes until Compile resolves them against the declared
// names.
type Document struct {
	Path string `yaml:"-"`

	// Types maps names to type expressions. It is either a mapping, or a
	// sequence of single-key mappings when a name is declared more than
	// once (object declarations with the same name merge).
	Types yaml.Node `yaml:"types"`

	Checks []CheckSpec `yaml:"checks"`
}

// CheckSpec is one entry of the checks list. Exactly one operation field
// must be set.
type CheckSpec struct {
	Name string `yaml:"name"`

	// Expect lists the diagnostic kinds the check must produce. An empty
	// list asserts success; omitting it only reports.
	Expect *[]string `yaml:"expect,omitempty"`

	// Infers is the type the operation must infer, when it infers one.
	Infers *yaml.Node `yaml:"infers,omitempty"`

	Assign      *AssignSpec     `yaml:"assign,omitempty"`
	Call        *CallSpec       `yaml:"call,omitempty"`
	Write       *WriteSpec      `yaml:"write,omitempty"`
	Array       *ArraySpec      `yaml:"array,omitempty"`
	Returns     *BodySpec       `yaml:"returns,omitempty"`
	Parameters  *ParametersSpec `yaml:"parameters,omitempty"`
	Index       *IndexSpec      `yaml:"index,omitempty"`
	Evolve      *EvolveSpec     `yaml:"evolve,omitempty"`
	Declaration *yaml.Node      `yaml:"declaration,omitempty"`
}

type AssignSpec struct {
	Source yaml.Node `yaml:"source"`
	Target yaml.Node `yaml:"target"`
}

// CallSpec calls Function with Args. An argument is a type, or
// `{spread: T}` to pass the elements of T.
type CallSpec struct {
	Function yaml.Node   `yaml:"function"`
	Args     []yaml.Node `yaml:"args"`
}

type WriteSpec struct {
	Object yaml.Node `yaml:"object"`
	Member string    `yaml:"member"`
	Value  yaml.Node `yaml:"value"`
}

// ArraySpec is an array literal; elements use the same spread form as
// call arguments.
type ArraySpec struct {
	Elements []yaml.Node `yaml:"elements"`
	Context  *yaml.Node  `yaml:"context,omitempty"`
}

// BodySpec describes the exits of a function body.
type BodySpec struct {
	Paths       []PathSpec `yaml:"paths"`
	Fallthrough bool       `yaml:"fallthrough"`
	// Used marks a body whose call result is consumed.
	Used bool `yaml:"used"`
}

// PathSpec is one exit. Return holds the returned type; a path with no
// return type and no other flag is a bare return.
type PathSpec struct {
	Return     *yaml.Node `yaml:"return,omitempty"`
	Throw      bool       `yaml:"throw"`
	AfterNever bool       `yaml:"after_never"`
}

type ParametersSpec struct {
	Literal LiteralSpec `yaml:"literal"`
	Context *yaml.Node  `yaml:"context,omitempty"`
}

// LiteralSpec is a function literal. Parameters without a type are
// unannotated.
type LiteralSpec struct {
	Params  []ParamSpec `yaml:"params"`
	Returns *yaml.Node  `yaml:"returns,omitempty"`
	Body    *BodySpec   `yaml:"body,omitempty"`
}

type ParamSpec struct {
	Name     string     `yaml:"name"`
	Type     *yaml.Node `yaml:"type,omitempty"`
	Optional bool       `yaml:"optional"`
	Rest     bool       `yaml:"rest"`
}

// IndexSpec reads `Of[At]`; a missing At is a dynamic index.
type IndexSpec struct {
	Of yaml.Node `yaml:"of"`
	At *int      `yaml:"at,omitempty"`
}

// EvolveSpec replays writes to a variable initialized with an empty array
// (Kind "array") or object (Kind "object") literal.
type EvolveSpec struct {
	Kind string   `yaml:"kind"`
	Ops  []OpSpec `yaml:"ops"`
}

// OpSpec is one step of an evolve check; exactly one field is set.
type OpSpec struct {
	Push     *yaml.Node  `yaml:"push,omitempty"`
	Set      *SetSpec    `yaml:"set,omitempty"`
	Member   *MemberSpec `yaml:"member,omitempty"`
	Settle   bool        `yaml:"settle"`
	Annotate *yaml.Node  `yaml:"annotate,omitempty"`
}

type SetSpec struct {
	Index int       `yaml:"index"`
	Value yaml.Node `yaml:"value"`
}

type MemberSpec struct {
	Name  string    `yaml:"name"`
	Value yaml.Node `yaml:"value"`
}

// Load reads and parses the descriptor at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading descriptor %s", path)
	}
	return Parse(data, path)
}

// Parse parses descriptor data; path is used in error messages only.
func Parse(data []byte, path string) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	doc.Path = path
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	switch d.Types.Kind {
	case 0, yaml.MappingNode, yaml.SequenceNode:
	default:
		return errors.Errorf("%s:%d: types must be a mapping or a sequence", d.Path, d.Types.Line)
	}
	for i, c := range d.Checks {
		n := c.operations()
		if n == 0 {
			return errors.Errorf("%s: checks[%d] (%s): one operation is required", d.Path, i, c.Name)
		}
		if n > 1 {
			return errors.Errorf("%s: checks[%d] (%s): operations are mutually exclusive", d.Path, i, c.Name)
		}
		if c.Evolve != nil && c.Evolve.Kind != "array" && c.Evolve.Kind != "object" {
			return errors.Errorf("%s: checks[%d] (%s): evolve kind must be array or object, got %q", d.Path, i, c.Name, c.Evolve.Kind)
		}
	}
	return nil
}

func (c *CheckSpec) operations() int {
	n := 0
	for _, set := range []bool{
		c.Assign != nil, c.Call != nil, c.Write != nil, c.Array != nil, c.Returns != nil,
		c.Parameters != nil, c.Index != nil, c.Evolve != nil, c.Declaration != nil,
	} {
		if set {
			n++
		}
	}
	return n
}
