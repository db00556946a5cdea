package typesystem

import (
	"testing"
)

func TestEnvRecursiveDeclaration(t *testing.T) {
	env := NewEnv()
	tree := env.Declare("Tree")
	obj, err := NewObject(Member{Name: "children", Type: TArray{Elem: tree}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.Define("Tree", obj); err != nil {
		t.Fatalf("Define: %v", err)
	}
	def, ok := env.Resolve(tree)
	if !ok {
		t.Fatalf("Tree should resolve")
	}
	if def.String() != "{ children: Tree[] }" {
		t.Errorf("definition = %s", def)
	}
	if again := env.Declare("Tree"); again.ID != tree.ID {
		t.Errorf("redeclaring a name must keep its identity")
	}
}

func TestEnvInterfaceMerging(t *testing.T) {
	env := NewEnv()
	first, _ := NewObject(Member{Name: "title", Type: String})
	second, _ := NewObject(Member{Name: "pages", Type: Number}, Member{Name: "title", Type: String})
	if _, err := env.Define("Book", first); err != nil {
		t.Fatal(err)
	}
	ref, err := env.Define("Book", second)
	if err != nil {
		t.Fatalf("merging compatible declarations: %v", err)
	}
	def, _ := env.Resolve(ref)
	if got := def.String(); got != "{ pages: number; title: string }" {
		t.Errorf("merged = %s", got)
	}

	conflicting, _ := NewObject(Member{Name: "pages", Type: String})
	if _, err := env.Define("Book", conflicting); !IsMalformed(err) {
		t.Errorf("conflicting member should be malformed, got %v", err)
	}
	if _, err := env.Define("Book", String); !IsMalformed(err) {
		t.Errorf("redefining an object as a primitive should be malformed, got %v", err)
	}
}

func TestUnwrap(t *testing.T) {
	env := NewEnv()
	a := env.Declare("A")
	b := env.Declare("B")
	if _, err := env.Define("A", b); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Define("B", Number); err != nil {
		t.Fatal(err)
	}
	got, err := Unwrap(env, a)
	if err != nil || !Equal(got, Number) {
		t.Errorf("Unwrap(A) = %v, %v; want number", got, err)
	}

	loop := NewEnv()
	x := loop.Declare("X")
	y := loop.Declare("Y")
	loop.Define("X", y)
	loop.Define("Y", x)
	if _, err := Unwrap(loop, x); !IsMalformed(err) {
		t.Errorf("alias cycle should be malformed, got %v", err)
	}

	missing := NewEnv()
	ref := missing.Declare("Ghost")
	if _, err := Unwrap(missing, ref); err == nil {
		t.Errorf("undefined name should not unwrap")
	}
	if got := missing.Undefined(); len(got) != 1 || got[0] != "Ghost" {
		t.Errorf("Undefined() = %v", got)
	}
}
