package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/shapecheck/internal/descriptor"
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/pipeline"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// RunCheck runs one compiled check and evaluates its expectations.
func (a *Analyzer) RunCheck(c *descriptor.Check) pipeline.Result {
	res := pipeline.Result{Check: c}
	var err error
	res.Inferred, res.Diagnostics, err = a.run(c)
	if err != nil {
		res.Failure = err.Error()
		return res
	}
	res.Passed, res.Failure = evaluate(c, res.Inferred, res.Diagnostics)
	return res
}

func (a *Analyzer) run(c *descriptor.Check) (typesystem.Type, []*diagnostics.Diagnostic, error) {
	switch c.Op {
	case descriptor.OpAssign:
		return nil, a.checker.IsAssignable(c.Source, c.Target), nil
	case descriptor.OpCall:
		ds := a.checker.CheckCall(c.Call.Callee, c.Call.Args)
		if fn, ok := a.resolve(c.Call.Callee).(typesystem.TFunc); ok {
			return fn.ReturnType, ds, nil
		}
		return nil, ds, nil
	case descriptor.OpWrite:
		return nil, a.checker.CheckWrite(c.Object, c.Member, c.Value), nil
	case descriptor.OpArray:
		t, ds := a.InferArrayLiteral(c.Array.Elements, c.Context)
		return t, ds, nil
	case descriptor.OpReturns:
		return InferBodyReturnType(c.Body, c.ValueUsed), nil, nil
	case descriptor.OpParameters:
		fn, ds, err := a.CheckFunctionLiteral(c.Literal, c.Context)
		if err != nil {
			return nil, nil, err
		}
		return fn, ds, nil
	case descriptor.OpIndex:
		t, ds := a.IndexAccess(c.Object, c.Index)
		return t, ds, nil
	case descriptor.OpEvolve:
		return a.evolve(c.Evolve)
	case descriptor.OpDeclaration:
		return nil, a.CheckDeclaration(c.Declared), nil
	}
	return nil, nil, fmt.Errorf("unknown check operation %q", c.Op)
}

func (a *Analyzer) evolve(ev *descriptor.Evolution) (typesystem.Type, []*diagnostics.Diagnostic, error) {
	slot := a.NewArraySlot()
	if ev.Object {
		slot = a.NewObjectSlot()
	}
	var ds []*diagnostics.Diagnostic
	for _, op := range ev.Ops {
		switch op.Kind {
		case descriptor.EvolvePush:
			ds = append(ds, slot.Push(op.Type)...)
		case descriptor.EvolveSetIndex:
			ds = append(ds, slot.SetIndex(op.Index, op.Type)...)
		case descriptor.EvolveSetMember:
			written, err := slot.SetMember(op.Name, op.Type)
			if err != nil {
				return nil, nil, err
			}
			ds = append(ds, written...)
		case descriptor.EvolveSettle:
			slot.Settle()
		case descriptor.EvolveAnnotate:
			ds = append(ds, slot.Annotate(op.Type)...)
		}
	}
	return slot.Type(), ds, nil
}

// evaluate compares what a check produced with what it expects. Expected
// kinds are compared as sets.
func evaluate(c *descriptor.Check, inferred typesystem.Type, ds []*diagnostics.Diagnostic) (bool, string) {
	if c.Expect != nil {
		want, got := kindSet(c.Expect), kindSet(diagnostics.KindsOf(ds))
		if want != got {
			return false, fmt.Sprintf("expected [%s], got [%s]", want, got)
		}
	}
	if c.Infers != nil {
		if inferred == nil {
			return false, fmt.Sprintf("expected to infer %s, but %s infers nothing", c.Infers, c.Op)
		}
		if !typesystem.Equal(inferred, c.Infers) {
			return false, fmt.Sprintf("expected to infer %s, got %s", c.Infers, inferred)
		}
	}
	return true, ""
}

func kindSet(kinds []diagnostics.Kind) string {
	seen := make(map[diagnostics.Kind]bool, len(kinds))
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		if !seen[k] {
			seen[k] = true
			names = append(names, string(k))
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
