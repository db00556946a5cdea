package descriptor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

func compileString(t *testing.T, src string) (*Program, error) {
	t.Helper()
	doc, err := Parse([]byte(src), "test.yaml")
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

func TestCompileTypes(t *testing.T) {
	prog, err := compileString(t, `
types:
  Tree:
    object:
      children: {array: Tree}
      readonly label?: string
  Handler:
    function:
      params:
        - {name: event, type: {union: [string, {literal: 42}]}}
        - {name: retries, type: number, optional: true}
        - {name: rest, type: {array: boolean}, rest: true}
      returns: void
  Point: {tuple: [number, number, {optional: number}]}
checks: []
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Handler", "Point", "Tree"}, prog.Env.Names())

	lookup := func(name string) typesystem.Type {
		ref, ok := prog.Env.Lookup(name)
		require.True(t, ok, name)
		def, ok := prog.Env.Resolve(ref)
		require.True(t, ok, name)
		return def
	}
	assert.Equal(t, "{ children: Tree[]; readonly label?: string }", lookup("Tree").String())
	assert.Equal(t, `(event: 42 | string, retries?: number, ...rest: boolean[]) => void`, lookup("Handler").String())
	assert.Equal(t, "[number, number, number?]", lookup("Point").String())
}

func TestCompileChecks(t *testing.T) {
	prog, err := compileString(t, `
checks:
  - name: call with spread
    call:
      function: {function: {params: [string]}}
      args: [{spread: {tuple: [string]}}]
    expect: []
  - index: {of: {array: number}}
  - returns: {paths: [{}, {throw: true}], fallthrough: true, used: true}
  - evolve:
      kind: object
      ops:
        - member: {name: a, value: number}
        - annotate: {object: {a: number}}
`)
	require.NoError(t, err)
	require.Len(t, prog.Checks, 4)

	call := prog.Checks[0]
	assert.Equal(t, OpCall, call.Op)
	assert.Equal(t, []diagnostics.Kind{}, call.Expect)
	assert.True(t, call.Asserts())
	require.Len(t, call.Call.Args, 1)
	assert.True(t, call.Call.Args[0].Spread)

	index := prog.Checks[1]
	assert.Equal(t, "index #2", index.Name)
	assert.Equal(t, dynamicIndex, index.Index)
	assert.False(t, index.Asserts())

	returns := prog.Checks[2]
	require.Len(t, returns.Body.Paths, 3)
	assert.Nil(t, returns.Body.Paths[0].Value)
	assert.True(t, returns.ValueUsed)

	evolve := prog.Checks[3]
	assert.True(t, evolve.Evolve.Object)
	require.Len(t, evolve.Evolve.Ops, 2)
	assert.Equal(t, EvolveAnnotate, evolve.Evolve.Ops[1].Kind)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown name", "checks:\n  - assign: {source: Missing, target: string}\n", "type not found: Missing"},
		{"unknown constructor", "checks:\n  - assign: {source: {map: string}, target: string}\n", `unknown type constructor "map"`},
		{"two operations", "checks:\n  - assign: {source: string, target: string}\n    index: {of: string}\n", "mutually exclusive"},
		{"no operation", "checks:\n  - name: empty\n", "one operation is required"},
		{"unknown kind", "checks:\n  - assign: {source: string, target: string}\n    expect: [Oops]\n", `unknown diagnostic kind "Oops"`},
		{"reserved name", "types:\n  string: number\n", "reserved type name"},
		{"bad yaml", "types: [\n", "parsing test.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileString(t, tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMalformedDeclaration(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "malformed.yaml"))
	require.NoError(t, err)
	_, err = Compile(doc)
	require.Error(t, err)
	assert.True(t, typesystem.IsMalformed(err), "got %v", err)
}

func TestLoadFixtures(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, file := range files {
		if filepath.Base(file) == "malformed.yaml" {
			continue
		}
		t.Run(filepath.Base(file), func(t *testing.T) {
			doc, err := Load(file)
			require.NoError(t, err)
			prog, err := Compile(doc)
			require.NoError(t, err)
			assert.NotEmpty(t, prog.Checks)
			assert.Empty(t, prog.Env.Undefined())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading descriptor")
}
