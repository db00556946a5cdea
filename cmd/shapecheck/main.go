package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/funvibe/shapecheck/internal/analyzer"
	"github.com/funvibe/shapecheck/internal/config"
	"github.com/funvibe/shapecheck/internal/diagnostics"
	"github.com/funvibe/shapecheck/internal/pipeline"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

type Config struct {
	Debug       bool
	NoColor     bool
	Format      string
	Parallelism int
}

// errChecksFailed signals a failed run whose details were already printed.
var errChecksFailed = errors.New("checks failed")

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "shapecheck [flags] FILE|DIR...",
		Short: "Check structural type compatibility described in YAML descriptor files",
		Args:  cobra.MinimumNArgs(1),
		// Failures are reported in the output itself
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, args, cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().StringVarP(&cfg.Format, "format", "f", formatText, "Output format: text or yaml")
	rootCmd.Flags().IntVarP(&cfg.Parallelism, "jobs", "j", config.MaxParallelChecks, "Maximum number of checks run at once")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	// Set up slog with appropriate level
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	if cfg.Format != formatText && cfg.Format != formatYAML {
		return errors.Errorf("unknown format %q (want %s or %s)", cfg.Format, formatText, formatYAML)
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	slog.Debug("collected descriptors", "count", len(files))

	p := pipeline.New(
		&analyzer.DescriptorProcessor{},
		&analyzer.DeclarationProcessor{},
		&analyzer.CheckProcessor{Parallelism: cfg.Parallelism},
	)
	var ctxs []*pipeline.PipelineContext
	for _, file := range files {
		ctxs = append(ctxs, p.Run(pipeline.NewContext(ctx, file, nil)))
	}

	switch cfg.Format {
	case formatYAML:
		err = writeYAML(out, ctxs)
	default:
		emitter := diagnostics.NewEmitter(out)
		if cfg.NoColor {
			emitter = diagnostics.NewPlainEmitter(out)
		}
		writeText(emitter, ctxs)
	}
	if err != nil {
		return err
	}

	for _, c := range ctxs {
		if !c.OK() {
			return errChecksFailed
		}
	}
	return nil
}

// isDescriptorFile checks if a file has a recognized descriptor extension
func isDescriptorFile(path string) bool {
	for _, ext := range config.DescriptorFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// collectFiles expands directories into the descriptor files below them.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to access path %s", arg)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isDescriptorFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", arg)
		}
	}
	return files, nil
}
