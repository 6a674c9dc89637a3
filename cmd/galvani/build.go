package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/galvani"
	"github.com/aretw0/galvani/internal/presentation/report"
	"github.com/aretw0/galvani/internal/presentation/tui"
	"github.com/aretw0/galvani/pkg/observability"
)

type buildOptions struct {
	Output      string
	MetricsFile string
	Parallel    bool
	Watch       bool
	Storage     storageOptions
}

var buildCmd = &cobra.Command{
	Use:   "build <model-file>",
	Short: "Compile a model file into a discretised system",
	Long: `Assembles the model, discretises it on the declared mesh and prints the state
layout, initial state and equations. With --redis-addr or --store-dir the layout
is stored and compared against the previous build of the same model.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts buildOptions
		opts.Output, _ = cmd.Flags().GetString("output")
		opts.MetricsFile, _ = cmd.Flags().GetString("metrics-file")
		opts.Parallel, _ = cmd.Flags().GetBool("parallel")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Storage = storageFlags(cmd)

		if opts.Output == "markdown" && term.IsTerminal(int(os.Stderr.Fd())) {
			tui.PrintBanner(os.Stderr, strings.TrimSpace(galvani.Version))
		}
		ctx := cmd.Context()
		if opts.Watch {
			var stop context.CancelFunc
			ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
		}
		return runBuild(ctx, cmd.OutOrStdout(), args[0], opts)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("output", "o", "markdown", "Output format: markdown, json or yaml")
	buildCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile after the build")
	buildCmd.Flags().Bool("parallel", false, "Run fundamental submodel steps concurrently")
	buildCmd.Flags().BoolP("watch", "w", false, "Rebuild whenever the model file changes")
	addStorageFlags(buildCmd)
}

func runBuild(ctx context.Context, w io.Writer, path string, opts buildOptions) error {
	switch opts.Output {
	case "markdown", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", opts.Output)
	}

	metrics := observability.NewMetrics()
	pipelineOpts := []galvani.Option{
		galvani.WithLifecycleHooks(metrics.Hooks(galvani.Hooks{})),
	}
	if opts.Parallel {
		pipelineOpts = append(pipelineOpts, galvani.WithParallelFundamentals())
	}
	// Watch mode keeps an in-memory store so each rebuild is compared
	// with the previous one.
	if opts.Watch || opts.Storage.Persistent() {
		st, err := openStorage(opts.Storage)
		if err != nil {
			return err
		}
		defer st.Close()
		pipelineOpts = append(pipelineOpts, st.Options()...)
	}

	build := func() error {
		return buildOnce(ctx, w, path, opts, metrics, pipelineOpts)
	}
	if !opts.Watch {
		return build()
	}

	if err := build(); err != nil {
		logger.Error("build failed", "path", path, "err", err)
	}
	logger.Info("watching for changes", "path", path)
	return watchFile(ctx, path, watchDebounce, func() {
		if err := build(); err != nil {
			logger.Error("build failed", "path", path, "err", err)
		}
	})
}

func buildOnce(ctx context.Context, w io.Writer, path string, opts buildOptions, metrics *observability.Metrics, pipelineOpts []galvani.Option) error {
	p, _, err := loadPipeline(path, pipelineOpts...)
	if err != nil {
		return err
	}

	res, compileErr := p.Compile(ctx)
	if opts.MetricsFile != "" {
		// Failed builds are recorded too.
		if err := metrics.WriteToTextfile(opts.MetricsFile); err != nil {
			logger.Error("failed to write metrics", "path", opts.MetricsFile, "err", err)
		}
	}
	if compileErr != nil {
		return compileErr
	}
	switch opts.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.System.Layout)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res.System.Layout); err != nil {
			return err
		}
		return enc.Close()
	default:
		return report.Write(w, report.Markdown(res.Model, res.System))
	}
}
