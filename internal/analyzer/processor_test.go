package analyzer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/pipeline"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

func fixture(name string) string {
	return filepath.Join("..", "descriptor", "testdata", name)
}

func runFile(t *testing.T, path string) *pipeline.PipelineContext {
	t.Helper()
	return Default().Run(pipeline.NewContext(context.Background(), path, nil))
}

func TestFixturesPass(t *testing.T) {
	for _, name := range []string{"assignability.yaml", "inference.yaml", "merging.yaml"} {
		t.Run(name, func(t *testing.T) {
			ctx := runFile(t, fixture(name))
			require.Empty(t, ctx.Errors)
			require.NotEmpty(t, ctx.Results)
			for _, r := range ctx.Results {
				assert.True(t, r.Passed, "%s: %s", r.Check.Name, r.Failure)
			}
			assert.True(t, ctx.OK())
		})
	}
}

func TestResultsKeepCheckOrder(t *testing.T) {
	ctx := runFile(t, fixture("inference.yaml"))
	require.Len(t, ctx.Results, len(ctx.Program.Checks))
	for i, r := range ctx.Results {
		assert.Same(t, ctx.Program.Checks[i], r.Check)
	}
}

func TestFailedExpectation(t *testing.T) {
	ctx := runFile(t, fixture("failing.yaml"))
	require.Empty(t, ctx.Errors)
	require.Len(t, ctx.Results, 2)

	assert.False(t, ctx.Results[0].Passed)
	assert.Equal(t, "expected [], got [TypeMismatch]", ctx.Results[0].Failure)
	assert.True(t, ctx.Results[1].Passed, "checks without expectations only report")

	assert.Equal(t, 1, ctx.Failed())
	assert.False(t, ctx.OK())
	assert.Equal(t, 2, ctx.Bag.Len())
}

func TestMalformedDocument(t *testing.T) {
	ctx := runFile(t, fixture("malformed.yaml"))
	require.Len(t, ctx.Errors, 1)
	assert.True(t, typesystem.IsMalformed(ctx.Errors[0]))
	assert.Nil(t, ctx.Program)
	assert.Empty(t, ctx.Results)
	assert.False(t, ctx.OK())
}

func TestInlineSource(t *testing.T) {
	src := []byte(`
types:
  Greeter:
    object:
      greet: {type: {function: {returns: string}}, method: true, readonly: true}
checks:
  - name: greeters fit
    assign: {source: Greeter, target: Greeter}
    expect: []
`)
	ctx := pipeline.NewContext(context.Background(), "inline.yaml", src)
	p := pipeline.New(&DescriptorProcessor{}, &DeclarationProcessor{}, &CheckProcessor{Parallelism: 1})
	ctx = p.Run(ctx)

	require.Empty(t, ctx.Errors)
	require.Len(t, ctx.Declarations, 1)
	assert.Equal(t, diagnostics.InvalidReadonlyMethod, ctx.Declarations[0].Kind)
	assert.True(t, ctx.Results[0].Passed)
	assert.False(t, ctx.OK(), "unsound declarations fail the document")
}

func TestInlineOperandsAreDeclarationChecked(t *testing.T) {
	src := []byte(`
types:
  Greeter:
    object:
      greet: {type: {function: {returns: string}}, method: true, readonly: true}
checks:
  - name: inline readonly method
    assign:
      source: Greeter
      target:
        object:
          greet: {type: {function: {returns: string}}, method: true, readonly: true}
    expect: []
`)
	ctx := Default().Run(pipeline.NewContext(context.Background(), "inline.yaml", src))

	require.Empty(t, ctx.Errors)
	require.Len(t, ctx.Declarations, 2, "the declared type once and the inline target once")
	for _, d := range ctx.Declarations {
		assert.Equal(t, diagnostics.InvalidReadonlyMethod, d.Kind)
		assert.Equal(t, ".greet", d.Path.String())
	}
	assert.True(t, ctx.Results[0].Passed)
	assert.False(t, ctx.OK())
}

func TestCancelledContext(t *testing.T) {
	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := Default().Run(pipeline.NewContext(cctx, fixture("inference.yaml"), nil))
	require.NotEmpty(t, ctx.Errors)
	assert.ErrorIs(t, ctx.Errors[0], context.Canceled)
	assert.Nil(t, ctx.Program)
}
