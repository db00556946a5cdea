package typesystem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/funvibe/shapecheck/internal/config"
)

// Type is the interface for all types in our system.
// The set of implementations is closed: TPrim, TLiteral, TSpecial, TUnion,
// TArray, TTuple, TFunc, TObject and TNamed.
type Type interface {
	String() string
	typeNode()
}

// PrimKind names a primitive type.
type PrimKind string

const (
	PrimString  PrimKind = config.StringTypeName
	PrimNumber  PrimKind = config.NumberTypeName
	PrimBoolean PrimKind = config.BooleanTypeName
)

// SpecialKind names one of the special (top, bottom and unit) types.
type SpecialKind string

const (
	SpecialAny       SpecialKind = config.AnyTypeName
	SpecialUnknown   SpecialKind = config.UnknownTypeName
	SpecialVoid      SpecialKind = config.VoidTypeName
	SpecialNever     SpecialKind = config.NeverTypeName
	SpecialUndefined SpecialKind = config.UndefinedTypeName
	SpecialNull      SpecialKind = config.NullTypeName
)

var (
	String  = TPrim{Kind: PrimString}
	Number  = TPrim{Kind: PrimNumber}
	Boolean = TPrim{Kind: PrimBoolean}

	Any       = TSpecial{Kind: SpecialAny}
	Unknown   = TSpecial{Kind: SpecialUnknown}
	Void      = TSpecial{Kind: SpecialVoid}
	Never     = TSpecial{Kind: SpecialNever}
	Undefined = TSpecial{Kind: SpecialUndefined}
	Null      = TSpecial{Kind: SpecialNull}
)

// TPrim represents a primitive type (string, number, boolean).
type TPrim struct {
	Kind PrimKind
}

func (t TPrim) typeNode()      {}
func (t TPrim) String() string { return string(t.Kind) }

// TLiteral represents a literal type such as "hello", 42 or true.
// Value holds a string, float64 or bool matching Kind.
type TLiteral struct {
	Kind  PrimKind
	Value interface{}
}

func StringLit(s string) TLiteral   { return TLiteral{Kind: PrimString, Value: s} }
func NumberLit(n float64) TLiteral  { return TLiteral{Kind: PrimNumber, Value: n} }
func BooleanLit(b bool) TLiteral    { return TLiteral{Kind: PrimBoolean, Value: b} }
func (t TLiteral) Primitive() TPrim { return TPrim{Kind: t.Kind} }

func (t TLiteral) typeNode() {}

func (t TLiteral) String() string {
	switch v := t.Value.(type) {
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TSpecial represents any, unknown, void, never, undefined and null.
type TSpecial struct {
	Kind SpecialKind
}

func (t TSpecial) typeNode()      {}
func (t TSpecial) String() string { return string(t.Kind) }

// IsSpecial reports whether t is the special type of the given kind.
func IsSpecial(t Type, kind SpecialKind) bool {
	s, ok := t.(TSpecial)
	return ok && s.Kind == kind
}

// TArray represents a homogeneous array type (e.g. number[]).
type TArray struct {
	Elem Type
}

func (t TArray) typeNode() {}

func (t TArray) String() string {
	return wrapForPostfix(t.Elem) + "[]"
}

// TupleElem is one slot of a tuple type.
type TupleElem struct {
	Type     Type
	Optional bool
}

// TTuple represents a fixed-length tuple type (e.g. [boolean, number, string?]).
// Optional slots always form a suffix; use NewTuple to build one.
type TTuple struct {
	Elements []TupleElem
}

func (t TTuple) typeNode() {}

func (t TTuple) String() string {
	parts := make([]string, 0, len(t.Elements))
	for _, el := range t.Elements {
		s := el.Type.String()
		if el.Optional {
			s = wrapForPostfix(el.Type) + "?"
		}
		parts = append(parts, s)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// Required returns the number of non-optional slots.
func (t TTuple) Required() int {
	n := 0
	for _, el := range t.Elements {
		if !el.Optional {
			n++
		}
	}
	return n
}

// Param is a single function parameter. A rest parameter's Type is the
// array type that collects the remaining arguments.
type Param struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool
}

// EffectiveType is the type seen inside the body and by callers:
// an optional parameter always admits undefined.
func (p Param) EffectiveType() Type {
	if p.Optional {
		return NewUnion(p.Type, Undefined)
	}
	return p.Type
}

func (p Param) String() string {
	name := p.Name
	if name == "" {
		name = "_"
	}
	switch {
	case p.Rest:
		return fmt.Sprintf("...%s: %s", name, p.Type)
	case p.Optional:
		return fmt.Sprintf("%s?: %s", name, p.Type)
	default:
		return fmt.Sprintf("%s: %s", name, p.Type)
	}
}

// TFunc represents a function type (e.g. (a: string, b?: number) => void).
// Use NewFunc to build one.
type TFunc struct {
	Params     []Param
	ReturnType Type
}

func (t TFunc) typeNode() {}

func (t TFunc) String() string {
	params := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		params = append(params, p.String())
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(params, ", "), t.ReturnType)
}

// Fixed returns the non-rest parameters.
func (t TFunc) Fixed() []Param {
	if n := len(t.Params); n > 0 && t.Params[n-1].Rest {
		return t.Params[:n-1]
	}
	return t.Params
}

// RestParam returns the trailing rest parameter, if any.
func (t TFunc) RestParam() (Param, bool) {
	if n := len(t.Params); n > 0 && t.Params[n-1].Rest {
		return t.Params[n-1], true
	}
	return Param{}, false
}

// RequiredCount is the number of non-optional, non-rest parameters.
func (t TFunc) RequiredCount() int {
	n := 0
	for _, p := range t.Params {
		if !p.Optional && !p.Rest {
			n++
		}
	}
	return n
}

// ParamTypeAt returns the type accepting the argument at position i: the
// effective type of a fixed parameter, else the rest element type. ok is
// false past the end of a function without a rest parameter.
func (t TFunc) ParamTypeAt(i int) (typ Type, optional bool, ok bool) {
	fixed := t.Fixed()
	if i < len(fixed) {
		return fixed[i].EffectiveType(), fixed[i].Optional, true
	}
	if rest, has := t.RestParam(); has {
		return RestElem(rest.Type), true, true
	}
	return nil, false, false
}

// RestElem returns the element type collected by a rest parameter of type t.
func RestElem(t Type) Type {
	if arr, ok := t.(TArray); ok {
		return arr.Elem
	}
	return Any
}

// Member is a single property or method of an object type.
type Member struct {
	Name     string
	Type     Type
	Optional bool
	Readonly bool
	Method   bool
}

func (m Member) String() string {
	var sb strings.Builder
	if m.Readonly {
		sb.WriteString("readonly ")
	}
	sb.WriteString(m.Name)
	if fn, ok := m.Type.(TFunc); ok && m.Method {
		if m.Optional {
			sb.WriteString("?")
		}
		params := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			params = append(params, p.String())
		}
		fmt.Fprintf(&sb, "(%s): %s", strings.Join(params, ", "), fn.ReturnType)
		return sb.String()
	}
	if m.Optional {
		sb.WriteString("?")
	}
	sb.WriteString(": ")
	sb.WriteString(m.Type.String())
	return sb.String()
}

// TObject represents a structural object/interface type.
// Use NewObject to build one.
type TObject struct {
	Members map[string]Member
}

func (t TObject) typeNode() {}

func (t TObject) String() string {
	if len(t.Members) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(t.Members))
	for _, name := range t.Names() {
		parts = append(parts, t.Members[name].String())
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, "; "))
}

// Names returns member names sorted for deterministic output.
func (t TObject) Names() []string {
	keys := make([]string, 0, len(t.Members))
	for k := range t.Members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TUnion represents a union type (e.g. string | number | undefined).
// Types are normalized: flattened, deduplicated, and sorted for comparison.
type TUnion struct {
	Types []Type // At least 2 types
}

func (t TUnion) typeNode() {}

func (t TUnion) String() string {
	parts := make([]string, 0, len(t.Types))
	for _, typ := range t.Types {
		if _, ok := typ.(TFunc); ok {
			parts = append(parts, "("+typ.String()+")")
			continue
		}
		parts = append(parts, typ.String())
	}
	return strings.Join(parts, " | ")
}

// TNamed is a reference to a declared type in an Env. Two references are the
// same type iff they share an ID; this is what lets recursive declarations
// such as `interface Tree { children: Tree[] }` be compared without looping.
type TNamed struct {
	Name string
	ID   string
}

func (t TNamed) typeNode() {}

func (t TNamed) String() string { return t.Name }

func wrapForPostfix(t Type) string {
	switch t.(type) {
	case TUnion, TFunc:
		return "(" + t.String() + ")"
	}
	return t.String()
}
