package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"job-insights/charts"
	"job-insights/storage"
)

// chartFlags are shared by the chart and run commands.
type chartFlags struct {
	Surface string
	Dir     string
	Top     int
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Surface, "surface", "", "chart surface (png|terminal), overrides CHART_SURFACE")
	cmd.Flags().StringVar(&f.Dir, "dir", "", "PNG output directory, overrides CHART_DIR")
	cmd.Flags().IntVar(&f.Top, "top", 0, "number of locations in top-N charts, overrides TOP_N")
}

// ChartOptions holds flags for the chart command.
type ChartOptions struct {
	All  bool
	List bool
	chartFlags
}

// NewChartCommand creates the chart command.
func NewChartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChartOptions{}

	cmd := &cobra.Command{
		Use:   "chart [name...]",
		Short: "Draw charts from the stored jobs table",
		Long: `Draw one or more named charts from the stored jobs table, or every chart
with --all. PNG files go to CHART_DIR; --surface terminal prints them instead.
Use --list to see the chart names.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.List {
				return listCharts(cmd.OutOrStdout())
			}
			if !opts.All && len(args) == 0 {
				return NewExitError(ExitCommandError, "name at least one chart or pass --all")
			}

			store, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			names := args
			if opts.All {
				names = nil
			}
			return drawCharts(cmd.Context(), rootOpts, &opts.chartFlags, names, store, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "draw every chart")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list chart names and exit")
	opts.chartFlags.register(cmd)

	return cmd
}

func listCharts(w io.Writer) error {
	for _, c := range charts.Catalog {
		if _, err := fmt.Fprintf(w, "%-30s %s\n", c.Name, c.Description); err != nil {
			return err
		}
	}
	return nil
}

// drawCharts renders names, or the whole catalog when names is nil.
func drawCharts(ctx context.Context, rootOpts *RootOptions, flags *chartFlags, names []string, store storage.Querier, out io.Writer) error {
	cfg := rootOpts.cfg
	surfaceName := strings.ToLower(firstNonEmpty(flags.Surface, cfg.ChartSurface))
	dir := firstNonEmpty(flags.Dir, cfg.ChartDir)
	top := cfg.TopN
	if flags.Top > 0 {
		top = flags.Top
	}

	for _, name := range names {
		if _, err := charts.Lookup(name); err != nil {
			return WrapExitError(ExitCommandError, "chart", err)
		}
	}

	var surface charts.Surface
	switch surfaceName {
	case "png":
		surface = charts.NewPNGSurface(dir)
	case "terminal":
		surface = charts.NewTerminalSurface(out)
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown chart surface %q (png|terminal)", surfaceName))
	}

	renderer := charts.NewRenderer(store, surface, cfg.CurrencyUnit, rootOpts.logger)
	var (
		drawn int
		err   error
	)
	if names == nil {
		drawn, err = renderer.DrawAll(ctx, top)
	} else {
		drawn, err = renderer.Draw(ctx, names, top)
	}
	if err != nil {
		return pipelineError("chart", err)
	}

	if surfaceName == "png" {
		rootOpts.logger.Info("[charts] Wrote %d chart(s) to %s", drawn, dir)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
