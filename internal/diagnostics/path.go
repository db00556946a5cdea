package diagnostics

import (
	"fmt"
	"strings"
)

// StepKind says how a Step descends into a type.
type StepKind int

const (
	StepParam    StepKind = iota // Function parameter by index
	StepRest                     // Function rest parameter
	StepReturn                   // Function return type
	StepProperty                 // Object member by name
	StepElement                  // Array element, or array literal element by index
	StepSlot                     // Tuple slot by index
	StepArgument                 // Call argument by index
)

// Step is one move taken from a type to one of its parts.
type Step struct {
	Kind  StepKind
	Index int
	Name  string
}

func ParamStep(i int) Step       { return Step{Kind: StepParam, Index: i} }
func RestStep() Step             { return Step{Kind: StepRest} }
func ReturnStep() Step           { return Step{Kind: StepReturn} }
func PropertyStep(n string) Step { return Step{Kind: StepProperty, Name: n} }
func ElementStep(i int) Step     { return Step{Kind: StepElement, Index: i} }
func SlotStep(i int) Step        { return Step{Kind: StepSlot, Index: i} }
func ArgumentStep(i int) Step    { return Step{Kind: StepArgument, Index: i} }

func (s Step) String() string {
	switch s.Kind {
	case StepParam:
		return fmt.Sprintf("param[%d]", s.Index)
	case StepRest:
		return "...rest"
	case StepReturn:
		return "return"
	case StepProperty:
		return "." + s.Name
	case StepElement:
		if s.Index < 0 {
			return "[]"
		}
		return fmt.Sprintf("element[%d]", s.Index)
	case StepSlot:
		return fmt.Sprintf("[%d]", s.Index)
	case StepArgument:
		return fmt.Sprintf("arg[%d]", s.Index)
	}
	return "?"
}

// Path is the ordered list of steps from the compared roots to a mismatch.
type Path []Step

// Append returns a new path; the receiver is never modified.
func (p Path) Append(s Step) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

func (p Path) String() string {
	var sb strings.Builder
	for i, s := range p {
		str := s.String()
		if i > 0 && !strings.HasPrefix(str, ".") && !strings.HasPrefix(str, "[") {
			sb.WriteString(" > ")
		}
		sb.WriteString(str)
	}
	return sb.String()
}

func (p Path) clone() Path {
	if len(p) == 0 {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}
