package typesystem

import (
	"testing"
)

func TestTypeStrings(t *testing.T) {
	optionalTuple, err := NewTuple(TupleElem{Type: Boolean}, TupleElem{Type: Number}, TupleElem{Type: String, Optional: true})
	if err != nil {
		t.Fatalf("NewTuple: %v", err)
	}
	fn, err := NewFunc([]Param{
		{Name: "name", Type: String},
		{Name: "age", Type: Number, Optional: true},
		{Name: "tags", Type: TArray{Elem: String}, Rest: true},
	}, Void)
	if err != nil {
		t.Fatalf("NewFunc: %v", err)
	}
	obj, err := NewObject(
		Member{Name: "title", Type: String, Readonly: true},
		Member{Name: "pages", Type: Number, Optional: true},
	)
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}

	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"primitive", String, "string"},
		{"string literal", StringLit("hi"), `"hi"`},
		{"number literal", NumberLit(42), "42"},
		{"fractional literal", NumberLit(1.5), "1.5"},
		{"boolean literal", BooleanLit(true), "true"},
		{"special", Never, "never"},
		{"array", TArray{Elem: Number}, "number[]"},
		{"array of union", TArray{Elem: NewUnion(String, Number)}, "(number | string)[]"},
		{"tuple", optionalTuple, "[boolean, number, string?]"},
		{"function", fn, "(name: string, age?: number, ...tags: string[]) => void"},
		{"object", obj, "{ pages?: number; readonly title: string }"},
		{"empty object", TObject{}, "{}"},
		{"union", NewUnion(Undefined, String), "string | undefined"},
		{"union of function", NewUnion(FuncOf(Void), Null), "(() => void) | null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewUnionNormalizes(t *testing.T) {
	tests := []struct {
		name  string
		input []Type
		want  Type
	}{
		{"empty is never", nil, Never},
		{"single member", []Type{String}, String},
		{"never dropped", []Type{String, Never}, String},
		{"duplicates removed", []Type{String, String, Number}, TUnion{Types: []Type{Number, String}}},
		{"nested flattened", []Type{NewUnion(String, Number), Boolean}, TUnion{Types: []Type{Boolean, Number, String}}},
		{"any absorbs", []Type{String, Any}, Any},
		{"unknown absorbs", []Type{Number, Unknown}, Unknown},
		{"literal kept beside primitive", []Type{StringLit("a"), String}, TUnion{Types: []Type{StringLit("a"), String}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewUnion(tt.input...)
			if !Equal(got, tt.want) {
				t.Errorf("NewUnion(%v) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnionOrderIndependent(t *testing.T) {
	a := NewUnion(String, Number, Boolean)
	b := NewUnion(Boolean, String, Number)
	if !Equal(a, b) {
		t.Errorf("%s and %s should be equal", a, b)
	}
	if a.String() != b.String() {
		t.Errorf("normalized unions should print the same: %s vs %s", a, b)
	}
}

func TestEqualIgnoresParameterNames(t *testing.T) {
	f := TFunc{Params: []Param{{Name: "x", Type: String}}, ReturnType: Void}
	g := TFunc{Params: []Param{{Name: "y", Type: String}}, ReturnType: Void}
	if !Equal(f, g) {
		t.Errorf("functions differing only in parameter names should be equal")
	}
	h := TFunc{Params: []Param{{Name: "x", Type: String, Optional: true}}, ReturnType: Void}
	if Equal(f, h) {
		t.Errorf("optionality is part of the type")
	}
}

func TestMalformedConstruction(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"required slot after optional", func() error {
			_, err := NewTuple(TupleElem{Type: String, Optional: true}, TupleElem{Type: Number})
			return err
		}()},
		{"required param after optional", func() error {
			_, err := NewFunc([]Param{{Name: "a", Type: String, Optional: true}, {Name: "b", Type: Number}}, Void)
			return err
		}()},
		{"rest not last", func() error {
			_, err := NewFunc([]Param{{Name: "a", Type: TArray{Elem: String}, Rest: true}, {Name: "b", Type: Number}}, Void)
			return err
		}()},
		{"rest not an array", func() error {
			_, err := NewFunc([]Param{{Name: "a", Type: String, Rest: true}}, Void)
			return err
		}()},
		{"missing return type", func() error {
			_, err := NewFunc(nil, nil)
			return err
		}()},
		{"duplicate member", func() error {
			_, err := NewObject(Member{Name: "a", Type: String}, Member{Name: "a", Type: Number})
			return err
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsMalformed(tt.err) {
				t.Errorf("expected a MalformedTypeError, got %v", tt.err)
			}
		})
	}
}

func TestFuncAccessors(t *testing.T) {
	fn, err := NewFunc([]Param{
		{Name: "a", Type: String},
		{Name: "b", Type: Number, Optional: true},
		{Name: "rest", Type: TArray{Elem: Boolean}, Rest: true},
	}, Void)
	if err != nil {
		t.Fatalf("NewFunc: %v", err)
	}
	if got := fn.RequiredCount(); got != 1 {
		t.Errorf("RequiredCount() = %d, want 1", got)
	}
	if got := len(fn.Fixed()); got != 2 {
		t.Errorf("len(Fixed()) = %d, want 2", got)
	}
	if typ, optional, ok := fn.ParamTypeAt(1); !ok || !optional || typ.String() != "number | undefined" {
		t.Errorf("ParamTypeAt(1) = %v, %v, %v; want the optional parameter's effective type", typ, optional, ok)
	}
	if typ, optional, ok := fn.ParamTypeAt(5); !ok || !optional || !Equal(typ, Boolean) {
		t.Errorf("ParamTypeAt(5) = %v, %v, %v; want boolean from the rest parameter", typ, optional, ok)
	}
	if got := fn.Params[1].EffectiveType(); got.String() != "number | undefined" {
		t.Errorf("optional parameter effective type = %s, want number | undefined", got)
	}
	if _, _, ok := FuncOf(Void, String).ParamTypeAt(1); ok {
		t.Errorf("ParamTypeAt past the end of a function without rest should fail")
	}
}
