package pipeline

import (
	"context"

	"github.com/funvibe/shapecheck/internal/descriptor"
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Result is the outcome of one check.
type Result struct {
	Check       *descriptor.Check
	Diagnostics []*diagnostics.Diagnostic
	// Inferred is the type the check's operation inferred, if it infers one.
	Inferred typesystem.Type
	// Passed is false when an expectation of the check was not met;
	// Failure then says which.
	Passed  bool
	Failure string
}

// PipelineContext carries one descriptor document through the stages.
type PipelineContext struct {
	Context  context.Context
	FilePath string
	Source   []byte

	Document *descriptor.Document
	Program  *descriptor.Program

	// Declarations holds diagnostics found in the declared types themselves.
	Declarations []*diagnostics.Diagnostic
	// Results is indexed like Program.Checks.
	Results []Result
	// Bag collects every diagnostic produced for the document.
	Bag *diagnostics.Bag

	// Errors are failures that stopped a stage, such as an unreadable or
	// malformed document.
	Errors []error
}

// NewContext creates a context for the document at filePath. When source is
// nil the first stage reads the file.
func NewContext(ctx context.Context, filePath string, source []byte) *PipelineContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &PipelineContext{
		Context:  ctx,
		FilePath: filePath,
		Source:   source,
		Bag:      diagnostics.NewBag(),
	}
}

// Failed returns how many checks did not meet their expectations.
func (c *PipelineContext) Failed() int {
	n := 0
	for _, r := range c.Results {
		if !r.Passed {
			n++
		}
	}
	return n
}

// OK reports whether the document decoded, its declarations are sound and
// every expectation held.
func (c *PipelineContext) OK() bool {
	return len(c.Errors) == 0 && len(c.Declarations) == 0 && c.Failed() == 0
}
