package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/debrief"
	"github.com/tsawler/debrief/config"
	"github.com/tsawler/debrief/internal/watch"
	"github.com/tsawler/debrief/period"
	"github.com/tsawler/debrief/render"
	"github.com/tsawler/debrief/variant"
)

// reportFlags are shared by run and batch.
type reportFlags struct {
	variant string
	week    int
	year    int
	out     string
	layouts []string
	workers int
	html    bool
	preview bool
	width   int
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.variant, "variant", "", "Report variant (default from config, else weekly)")
	cmd.Flags().IntVar(&f.week, "week", 0, "ISO week number (default: previous week)")
	cmd.Flags().IntVar(&f.year, "year", 0, "ISO year of the week")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output directory")
	cmd.Flags().StringSliceVar(&f.layouts, "layout", nil, "Only produce these layouts (by tag)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Documents parsed in parallel (default: config or CPU count)")
	cmd.Flags().BoolVar(&f.html, "html", false, "Also write an HTML version of every output")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "Print the outputs to the terminal")
	cmd.Flags().IntVar(&f.width, "width", 100, "Preview width in columns")
}

func newRunCmd() *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Summarize the given report files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			inputs, err := debrief.ReadFiles(args...)
			if err != nil {
				return err
			}
			if f.out == "" {
				f.out = "."
			}
			return generate(ctx, cmd, &f, inputs)
		},
	}
	f.register(cmd)
	return cmd
}

func newBatchCmd() *cobra.Command {
	var (
		f        reportFlags
		weekDir  bool
		watchDir bool
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Summarize every .docx report in a folder",
		Long: `Summarize every .docx report directly inside DIR. With --week-dir, DIR is
the root holding one Week<N> folder per week and the folder of the
selected week is read. Outputs go to DIR/overzicht unless --out is given.

With --watch the folder is summarized again whenever a report changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dir := args[0]
			if weekDir {
				p, err := period.Resolve(f.week, f.year, time.Now())
				if err != nil {
					return err
				}
				dir = debrief.WeekDir(dir, p.Week)
			}
			if f.out == "" {
				f.out = filepath.Join(dir, "overzicht")
			}

			once := func(ctx context.Context) error {
				inputs, err := debrief.ReadDir(dir)
				if err != nil {
					return err
				}
				if len(inputs) == 0 {
					logger.Warn("no .docx reports found", zap.String("dir", dir))
				}
				return generate(ctx, cmd, &f, inputs)
			}

			if err := once(ctx); err != nil {
				if !watchDir {
					return err
				}
				logger.Error("batch failed", zap.Error(err))
			}
			if !watchDir {
				return nil
			}
			return watch.New(dir, debounce, logger).Run(ctx, once)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&weekDir, "week-dir", false, "Treat DIR as the root of Week<N> folders")
	cmd.Flags().BoolVarP(&watchDir, "watch", "w", false, "Re-run when reports in the folder change")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-running")
	return cmd
}

// loadConfig returns the configuration named by --config, or the defaults.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configPath)
}

func resolveVariant(name string) (*variant.Variant, int, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, 0, err
	}
	v, err := cfg.Variant(name)
	if err != nil {
		return nil, 0, err
	}
	return v, cfg.Workers, nil
}

// generate runs the pipeline and writes its outputs.
func generate(ctx context.Context, cmd *cobra.Command, f *reportFlags, inputs []debrief.Input) error {
	v, workers, err := resolveVariant(f.variant)
	if err != nil {
		return err
	}
	if f.workers > 0 {
		workers = f.workers
	}

	report, warnings, err := debrief.New(v).
		Week(f.week, f.year).
		Workers(workers).
		Layouts(f.layouts...).
		Logger(logger).
		Run(ctx, inputs...)
	if err != nil {
		return err
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if len(warnings) > 0 {
		fmt.Fprintln(stderr, debrief.FormatWarnings(warnings))
	}

	paths, err := debrief.Save(f.out, report.Outputs)
	if err != nil {
		return err
	}
	if f.html {
		htmlPaths, err := saveHTML(f.out, report.Outputs)
		if err != nil {
			return err
		}
		paths = append(paths, htmlPaths...)
	}

	fmt.Fprintf(stdout, "%s %s: %d documents, %d observations\n",
		report.Variant, report.Period, report.Documents, len(report.Observations))
	for _, p := range paths {
		fmt.Fprintln(stdout, "wrote", p)
	}
	if f.preview {
		for _, out := range report.Outputs {
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, render.Terminal(out.Blocks, f.width))
		}
	}
	return nil
}

func saveHTML(dir string, outputs []debrief.Output) ([]string, error) {
	pages := make([]debrief.Output, 0, len(outputs))
	for _, out := range outputs {
		var buf bytes.Buffer
		if err := render.WriteHTML(&buf, out.Blocks); err != nil {
			return nil, &debrief.WriteError{Name: out.Name, Err: err}
		}
		pages = append(pages, debrief.Output{
			Name: strings.TrimSuffix(out.Name, ".docx") + ".html",
			Data: buf.Bytes(),
		})
	}
	return debrief.Save(dir, pages)
}
