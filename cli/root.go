package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"job-insights/config"
	"job-insights/storage"
	"job-insights/utils"
)

// RootOptions holds global flags and the state every command shares.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "yaml"
	EnvFile string
	Driver  string
	DSN     string

	cfg    *config.Config
	logger *utils.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "yaml"}

// NewRootCommand creates the root command for the job-insights CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "job-insights",
		Short: "Job posting salary analytics",
		Long: `Load a CSV of job postings, clean salary and seniority fields, store the
result in a relational table and produce a text report plus salary charts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.init(cmd)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|yaml)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "env file to load before the process environment (default .env)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "store driver (sqlite3|postgres), overrides STORE_DRIVER")
	cmd.PersistentFlags().StringVar(&opts.DSN, "db", "", "store DSN, overrides STORE_DSN")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewChartCommand(opts))
	cmd.AddCommand(NewSplitCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))

	return cmd
}

func (o *RootOptions) init(cmd *cobra.Command) {
	var files []string
	if o.EnvFile != "" {
		files = append(files, o.EnvFile)
	}
	o.cfg = config.Load(files...)
	if o.Driver != "" {
		o.cfg.StoreDriver = o.Driver
	}
	if o.DSN != "" {
		o.cfg.StoreDSN = o.DSN
	}

	// Logs share stderr so text and yaml output on stdout stay clean.
	o.logger = utils.NewLoggerTo(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	o.logger.SetVerbose(o.Verbose || o.cfg.Verbose())
}

func (o *RootOptions) openStore() (*storage.Store, error) {
	s, err := storage.Open(o.cfg.StoreDriver, o.cfg.StoreDSN, o.logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open store", err)
	}
	return s, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
