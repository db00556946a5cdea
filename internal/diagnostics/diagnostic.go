package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/shapecheck/internal/typesystem"
)

// Kind is the machine-readable class of a check-time failure.
type Kind string

const (
	TypeMismatch              Kind = "TypeMismatch"
	TooFewArguments           Kind = "TooFewArguments"
	TooManyArguments          Kind = "TooManyArguments"
	MissingRequiredMember     Kind = "MissingRequiredMember"
	TupleLengthMismatch       Kind = "TupleLengthMismatch"
	InvalidReadonlyAssignment Kind = "InvalidReadonlyAssignment"
	InvalidReadonlyMethod     Kind = "InvalidReadonlyMethod"
	UnresolvedParameterType   Kind = "UnresolvedParameterType"
)

// Kinds lists every diagnostic kind.
var Kinds = []Kind{
	TypeMismatch,
	TooFewArguments,
	TooManyArguments,
	MissingRequiredMember,
	TupleLengthMismatch,
	InvalidReadonlyAssignment,
	InvalidReadonlyMethod,
	UnresolvedParameterType,
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Diagnostic is one incompatibility found while checking.
type Diagnostic struct {
	Kind     Kind
	Path     Path
	Expected typesystem.Type // may be nil when not meaningful
	Actual   typesystem.Type // may be nil when not meaningful
	Message  string
}

func New(kind Kind, path Path, expected, actual typesystem.Type, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:     kind,
		Path:     path.clone(),
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Mismatch is the common "actual is not assignable to expected" diagnostic.
func Mismatch(path Path, expected, actual typesystem.Type) *Diagnostic {
	return New(TypeMismatch, path, expected, actual, "type '%s' is not assignable to type '%s'", typeString(actual), typeString(expected))
}

func (d *Diagnostic) Error() string {
	var sb strings.Builder
	sb.WriteString(string(d.Kind))
	if len(d.Path) > 0 {
		sb.WriteString(" at ")
		sb.WriteString(d.Path.String())
	}
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	return sb.String()
}

// KindsOf returns the kinds of ds in order.
func KindsOf(ds []*Diagnostic) []Kind {
	kinds := make([]Kind, len(ds))
	for i, d := range ds {
		kinds[i] = d.Kind
	}
	return kinds
}

func typeString(t typesystem.Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}
