package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/pipeline"
)

func writeText(e *diagnostics.Emitter, ctxs []*pipeline.PipelineContext) {
	checks, failed := 0, 0
	for _, ctx := range ctxs {
		e.Heading(ctx.FilePath, ctx.OK())
		for _, err := range ctx.Errors {
			e.Note("%v", err)
			failed++
		}
		if ctx.Bag.HasErrors() {
			e.Note("%s", kindSummary(ctx.Bag))
		}
		if len(ctx.Declarations) > 0 {
			e.Note("type declarations have %d problem(s)", len(ctx.Declarations))
			e.EmitAll(ctx.Declarations)
			failed++
		}
		for _, r := range ctx.Results {
			checks++
			e.Heading("  "+r.Check.Name, r.Passed)
			if !r.Passed {
				failed++
				e.Note("%s", r.Failure)
			}
			if r.Inferred != nil {
				e.Note("inferred %s", r.Inferred)
			}
			if !r.Passed || !r.Check.Asserts() {
				e.EmitAll(r.Diagnostics)
			}
		}
	}
	e.Summary(checks, failed)
}

type fileReport struct {
	File         string         `yaml:"file"`
	OK           bool           `yaml:"ok"`
	Errors       []string       `yaml:"errors,omitempty"`
	Kinds        map[string]int `yaml:"kinds,omitempty"`
	Declarations []diagReport   `yaml:"declarations,omitempty"`
	Checks       []checkReport  `yaml:"checks,omitempty"`
}

type checkReport struct {
	Name        string       `yaml:"name"`
	Op          string       `yaml:"op"`
	Passed      bool         `yaml:"passed"`
	Failure     string       `yaml:"failure,omitempty"`
	Inferred    string       `yaml:"inferred,omitempty"`
	Diagnostics []diagReport `yaml:"diagnostics,omitempty"`
}

type diagReport struct {
	Kind     string `yaml:"kind"`
	Path     string `yaml:"path,omitempty"`
	Expected string `yaml:"expected,omitempty"`
	Actual   string `yaml:"actual,omitempty"`
	Message  string `yaml:"message"`
}

func writeYAML(w io.Writer, ctxs []*pipeline.PipelineContext) error {
	reports := make([]fileReport, 0, len(ctxs))
	for _, ctx := range ctxs {
		fr := fileReport{File: ctx.FilePath, OK: ctx.OK(), Declarations: diagReports(ctx.Declarations)}
		for _, err := range ctx.Errors {
			fr.Errors = append(fr.Errors, err.Error())
		}
		for kind, n := range ctx.Bag.CountByKind() {
			if fr.Kinds == nil {
				fr.Kinds = make(map[string]int)
			}
			fr.Kinds[string(kind)] = n
		}
		for _, r := range ctx.Results {
			cr := checkReport{
				Name:        r.Check.Name,
				Op:          string(r.Check.Op),
				Passed:      r.Passed,
				Failure:     r.Failure,
				Diagnostics: diagReports(r.Diagnostics),
			}
			if r.Inferred != nil {
				cr.Inferred = r.Inferred.String()
			}
			fr.Checks = append(fr.Checks, cr)
		}
		reports = append(reports, fr)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	return enc.Close()
}

func diagReports(ds []*diagnostics.Diagnostic) []diagReport {
	if len(ds) == 0 {
		return nil
	}
	out := make([]diagReport, len(ds))
	for i, d := range ds {
		out[i] = diagReport{Kind: string(d.Kind), Path: d.Path.String(), Message: d.Message}
		if d.Expected != nil {
			out[i].Expected = d.Expected.String()
		}
		if d.Actual != nil {
			out[i].Actual = d.Actual.String()
		}
	}
	return out
}

// kindSummary renders the per-kind diagnostic counts of a document.
func kindSummary(bag *diagnostics.Bag) string {
	counts := bag.CountByKind()
	parts := make([]string, 0, len(counts))
	for _, k := range diagnostics.SortedKinds(counts) {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
	}
	return "diagnostics: " + strings.Join(parts, ", ")
}
