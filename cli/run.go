package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"job-insights/services"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	ReportPath string
	Charts     bool
	NoProgress bool
	chartFlags
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [csv]",
		Short: "Load, clean and store a CSV, then write the report",
		Long: `Run the whole pipeline: load the CSV (JOBS_CSV_PATH when omitted), prune
sparse columns, derive clean_salary, normalise seniority_level, replace the jobs
table and write the three-section report. With --charts every chart is drawn
afterwards.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath := rootOpts.cfg.CSVPath
			if len(args) == 1 {
				csvPath = args[0]
			}
			return runPipeline(cmd.Context(), rootOpts, opts, csvPath, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ReportPath, "report", "r", "", "report output path, overrides REPORT_PATH")
	cmd.Flags().BoolVar(&opts.Charts, "charts", false, "draw every chart after the report")
	cmd.Flags().BoolVar(&opts.NoProgress, "no-progress", false, "hide the insert progress bar")
	opts.chartFlags.register(cmd)

	return cmd
}

func runPipeline(ctx context.Context, rootOpts *RootOptions, opts *RunOptions, csvPath string, cmd *cobra.Command) error {
	logger := rootOpts.logger
	cfg := rootOpts.cfg

	runID := uuid.Must(uuid.NewV7())
	logger.Info("=== job-insights run %s starting ===", runID)
	logger.Debug("Config: csv=%s | driver=%s | dsn=%s | threshold=%.2f",
		csvPath, cfg.StoreDriver, cfg.StoreDSN, cfg.MissingThreshold)

	reportPath := cfg.ReportPath
	if opts.ReportPath != "" {
		reportPath = opts.ReportPath
	}

	store, err := rootOpts.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var progress services.Progress
	if !opts.NoProgress {
		progress = &barProgress{w: cmd.ErrOrStderr()}
	}

	result, err := services.NewPipeline(store, logger, cfg.MissingThreshold).Run(ctx, csvPath, reportPath, progress)
	if err != nil {
		logger.Error("Run %s failed: %v", runID, err)
		return pipelineError("run", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored %s rows in %d columns, report written to %s\n",
		humanize.Comma(int64(result.Rows)), len(result.Schema.Columns), reportPath)

	if opts.Charts {
		if err := drawCharts(ctx, rootOpts, &opts.chartFlags, nil, store, cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	logger.Info("=== job-insights run %s complete ===", runID)
	return nil
}

// barProgress shows insert progress with a pb/v3 bar.
type barProgress struct {
	w   io.Writer
	bar *pb.ProgressBar
}

func (p *barProgress) Start(total int) {
	p.bar = pb.New(total).SetWriter(p.w).Start()
}

func (p *barProgress) Increment() {
	p.bar.Increment()
}

func (p *barProgress) Finish() {
	p.bar.Finish()
}
