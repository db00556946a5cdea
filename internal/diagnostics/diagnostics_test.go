package diagnostics

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/funvibe/shapecheck/internal/typesystem"
)

func TestPathString(t *testing.T) {
	tests := []struct {
		path Path
		want string
	}{
		{nil, ""},
		{Path{ParamStep(1)}, "param[1]"},
		{Path{ParamStep(0), PropertyStep("name")}, "param[0].name"},
		{Path{PropertyStep("children"), ElementStep(-1), PropertyStep("label")}, ".children[].label"},
		{Path{ArgumentStep(2), SlotStep(1)}, "arg[2][1]"},
		{Path{PropertyStep("greet"), ReturnStep()}, ".greet > return"},
		{Path{RestStep(), ElementStep(3)}, "...rest > element[3]"},
	}
	for _, tt := range tests {
		if got := tt.path.String(); got != tt.want {
			t.Errorf("Path.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPathAppendDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = ParamStep(0)
	a := base.Append(PropertyStep("a"))
	b := base.Append(PropertyStep("b"))
	if a.String() != "param[0].a" || b.String() != "param[0].b" {
		t.Errorf("appended paths share storage: %s, %s", a, b)
	}
}

func TestDiagnosticError(t *testing.T) {
	d := Mismatch(Path{ParamStep(0)}, typesystem.Number, typesystem.String)
	want := "TypeMismatch at param[0]: type 'string' is not assignable to type 'number'"
	if d.Error() != want {
		t.Errorf("Error() = %q, want %q", d.Error(), want)
	}
	if k, ok := ParseKind("TupleLengthMismatch"); !ok || k != TupleLengthMismatch {
		t.Errorf("ParseKind failed")
	}
	if _, ok := ParseKind("Nope"); ok {
		t.Errorf("ParseKind accepted an unknown kind")
	}
}

func TestBagConcurrentAdd(t *testing.T) {
	bag := NewBag()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bag.Add(New(TooFewArguments, nil, nil, nil, "x"), New(TypeMismatch, nil, nil, nil, "y"))
		}()
	}
	wg.Wait()
	if bag.Len() != 20 || !bag.HasErrors() {
		t.Fatalf("Len() = %d, want 20", bag.Len())
	}
	counts := bag.CountByKind()
	kinds := SortedKinds(counts)
	if len(kinds) != 2 || kinds[0] != TypeMismatch || kinds[1] != TooFewArguments {
		t.Errorf("SortedKinds() = %v", kinds)
	}
	if counts[TypeMismatch] != 10 {
		t.Errorf("counts = %v", counts)
	}
}

func TestPlainEmitter(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)
	e.Heading("tuple length", false)
	e.Emit(New(TupleLengthMismatch, Path{ArgumentStep(0)}, typesystem.TupleOf(typesystem.Number), typesystem.TupleOf(typesystem.Number, typesystem.Number), "too long"))
	e.Summary(3, 1)

	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Errorf("a buffer is not a terminal, output must not be colored: %q", out)
	}
	for _, want := range []string{"FAIL tuple length", "TupleLengthMismatch: too long", "--> arg[0]", "expected: [number]", "1 of 3 check(s) failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
