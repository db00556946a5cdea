package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. A stage that cannot proceed records an error
// and returns the context unchanged; later stages skip what is missing.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if err := ctx.Context.Err(); err != nil {
			ctx.Errors = append(ctx.Errors, err)
			break
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}
