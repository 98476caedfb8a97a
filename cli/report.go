package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"job-insights/services"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	Write bool
	Path  string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the report queries against the stored jobs table",
		Long: `Run the three report queries against the jobs table left by the last run and
print them as tables (or YAML with --format yaml). --write also overwrites the
report file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			svc := services.NewReportService(store, rootOpts.logger)
			report, err := svc.Generate(cmd.Context())
			if err != nil {
				return pipelineError("report", err)
			}

			if opts.Write {
				path := firstNonEmpty(opts.Path, rootOpts.cfg.ReportPath)
				if err := svc.WriteFile(path, report); err != nil {
					return pipelineError("report", err)
				}
			}

			if rootOpts.Format == "yaml" {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(report)
			}
			return svc.Print(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "also write the report file")
	cmd.Flags().StringVarP(&opts.Path, "output", "o", "", "report file path, overrides REPORT_PATH")

	return cmd
}
