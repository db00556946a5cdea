package analyzer

import (
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/shapecheck/internal/config"
	"github.com/funvibe/shapecheck/internal/descriptor"
	"github.com/funvibe/shapecheck/internal/pipeline"
	"github.com/funvibe/shapecheck/internal/typesystem"
)

// DescriptorProcessor decodes the document and compiles it into a program.
type DescriptorProcessor struct{}

func (dp *DescriptorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program != nil {
		return ctx
	}
	if ctx.Document == nil {
		var (
			doc *descriptor.Document
			err error
		)
		if ctx.Source != nil {
			doc, err = descriptor.Parse(ctx.Source, ctx.FilePath)
		} else {
			doc, err = descriptor.Load(ctx.FilePath)
		}
		if err != nil {
			ctx.Errors = append(ctx.Errors, err)
			return ctx
		}
		ctx.Document = doc
	}

	prog, err := descriptor.Compile(ctx.Document)
	if err != nil {
		slog.Debug("descriptor rejected", "file", ctx.FilePath, "malformed", typesystem.IsMalformed(err))
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Program = prog
	slog.Debug("compiled descriptor", "file", ctx.FilePath, "types", len(prog.Env.Names()), "checks", len(prog.Checks))
	return ctx
}

// DeclarationProcessor checks the declared types themselves, and the
// types written inline in checks.
type DeclarationProcessor struct{}

func (dp *DeclarationProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		return ctx
	}
	a := New(ctx.Program.Env)
	ds := a.CheckEnv()
	for _, c := range ctx.Program.Checks {
		ds = append(ds, a.CheckOperands(c)...)
	}
	if len(ds) > 0 {
		ctx.Declarations = append(ctx.Declarations, ds...)
		ctx.Bag.Add(ds...)
	}
	slog.Debug("checked declarations", "file", ctx.FilePath, "diagnostics", len(ds))
	return ctx
}

// CheckProcessor runs every check of the program. Checks are independent
// and the environment is read-only by now, so they run concurrently; each
// result is stored at its check's index.
type CheckProcessor struct {
	// Parallelism bounds concurrent checks; zero means config.MaxParallelChecks.
	Parallelism int
}

func (cp *CheckProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		return ctx
	}
	limit := cp.Parallelism
	if limit <= 0 {
		limit = config.MaxParallelChecks
	}

	a := New(ctx.Program.Env)
	results := make([]pipeline.Result, len(ctx.Program.Checks))
	eg, gctx := errgroup.WithContext(ctx.Context)
	eg.SetLimit(limit)
	for i, c := range ctx.Program.Checks {
		i, c := i, c
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			results[i] = a.RunCheck(c)
			ctx.Bag.Add(results[i].Diagnostics...)
			slog.Debug("ran check", "name", c.Name, "op", c.Op, "passed", results[i].Passed,
				"diagnostics", len(results[i].Diagnostics), "took", time.Since(start))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Results = results
	return ctx
}

// Default returns the stages that take a descriptor file to check results.
func Default() *pipeline.Pipeline {
	return pipeline.New(
		&DescriptorProcessor{},
		&DeclarationProcessor{},
		&CheckProcessor{},
	)
}
