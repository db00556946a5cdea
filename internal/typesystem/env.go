package typesystem

import (
	"sort"

	"github.com/google/uuid"
)

// Resolver looks up the definition behind a named type reference.
type Resolver interface {
	Resolve(TNamed) (Type, bool)
}

// Env holds named type declarations. Names are declared before they are
// defined so declarations may refer to themselves or to each other.
// An Env is only written while declarations are being built; afterwards it is
// read-only and safe to share between concurrent checks.
type Env struct {
	byName map[string]TNamed
	defs   map[string]Type // keyed by TNamed.ID
}

func NewEnv() *Env {
	return &Env{
		byName: make(map[string]TNamed),
		defs:   make(map[string]Type),
	}
}

// Declare returns the reference for name, allocating a fresh identity the
// first time the name is seen.
func (e *Env) Declare(name string) TNamed {
	if ref, ok := e.byName[name]; ok {
		return ref
	}
	ref := TNamed{Name: name, ID: uuid.NewString()}
	e.byName[name] = ref
	return ref
}

// Lookup returns the reference declared for name.
func (e *Env) Lookup(name string) (TNamed, bool) {
	ref, ok := e.byName[name]
	return ref, ok
}

// Define binds name to t. Defining an object type for a name that already
// holds an object type merges the members, the way repeated interface
// declarations do; the same member declared twice must agree.
func (e *Env) Define(name string, t Type) (TNamed, error) {
	if t == nil {
		return TNamed{}, NewMalformedTypeError("declaration", "%s has no type", name)
	}
	ref := e.Declare(name)
	if self, ok := t.(TNamed); ok && self.ID == ref.ID {
		return TNamed{}, NewMalformedTypeError("declaration", "%s is defined as itself", name)
	}

	existing, ok := e.defs[ref.ID]
	if !ok {
		e.defs[ref.ID] = t
		return ref, nil
	}

	prev, prevIsObj := existing.(TObject)
	next, nextIsObj := t.(TObject)
	if !prevIsObj || !nextIsObj {
		return TNamed{}, NewMalformedTypeError("declaration", "duplicate declaration of %s", name)
	}
	merged := make(map[string]Member, len(prev.Members)+len(next.Members))
	for k, m := range prev.Members {
		merged[k] = m
	}
	for k, m := range next.Members {
		if old, dup := merged[k]; dup {
			if old.Optional != m.Optional || old.Readonly != m.Readonly || !Equal(old.Type, m.Type) {
				return TNamed{}, NewMalformedTypeError("declaration", "%s.%s is declared with conflicting types %s and %s", name, k, old.Type, m.Type)
			}
			continue
		}
		merged[k] = m
	}
	e.defs[ref.ID] = TObject{Members: merged}
	return ref, nil
}

// Resolve implements Resolver.
func (e *Env) Resolve(ref TNamed) (Type, bool) {
	t, ok := e.defs[ref.ID]
	return t, ok
}

// Names returns all declared names, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.byName))
	for n := range e.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Undefined returns declared names that never received a definition.
func (e *Env) Undefined() []string {
	var missing []string
	for _, n := range e.Names() {
		if _, ok := e.defs[e.byName[n].ID]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

// Unwrap follows named references until it reaches a structural type.
// A nil resolver leaves named types untouched.
func Unwrap(r Resolver, t Type) (Type, error) {
	seen := map[string]bool{}
	for {
		ref, ok := t.(TNamed)
		if !ok || r == nil {
			return t, nil
		}
		if seen[ref.ID] {
			return nil, NewMalformedTypeError("declaration", "%s is an alias of itself", ref.Name)
		}
		seen[ref.ID] = true
		def, found := r.Resolve(ref)
		if !found {
			return nil, &UnresolvedTypeError{Name: ref.Name}
		}
		t = def
	}
}
