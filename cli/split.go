package cli

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-gota/gota/dataframe"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"job-insights/services"
	"job-insights/storage"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SplitOptions holds flags for the split command.
type SplitOptions struct {
	OutDir string
}

// SplitSummary is the yaml form of a split.
type SplitSummary struct {
	Column string      `yaml:"column"`
	Tables []SplitPart `yaml:"tables"`
}

// SplitPart describes one sub-table.
type SplitPart struct {
	Key  string `yaml:"key"`
	Null bool   `yaml:"null,omitempty"`
	Rows int    `yaml:"rows"`
	File string `yaml:"file,omitempty"`
}

// NewSplitCommand creates the split command.
func NewSplitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SplitOptions{}

	cmd := &cobra.Command{
		Use:   "split <column>",
		Short: "Partition the stored jobs table by the values of a column",
		Long: `Partition the stored jobs table into one sub-table per distinct value of
<column> (NULL values form their own table) and print the row counts. With
--out every sub-table is written to <out>/<column>=<value>.csv.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			split, err := services.NewSplitter(store, rootOpts.logger).Split(cmd.Context(), args[0])
			if err != nil {
				return pipelineError("split", err)
			}

			summary := SplitSummary{Column: split.Column}
			names := newFileNamer()
			addPart := func(part SplitPart, df dataframe.DataFrame) error {
				if opts.OutDir != "" {
					part.File = filepath.Join(opts.OutDir, names.next(split.Column, part.Key))
					if err := exportTable(part.File, df); err != nil {
						return WrapExitError(ExitFailure, "split: export", err)
					}
				}
				summary.Tables = append(summary.Tables, part)
				return nil
			}
			for _, key := range split.Keys {
				df := split.Tables[key]
				if err := addPart(SplitPart{Key: key, Rows: df.Nrow()}, df); err != nil {
					return err
				}
			}
			if split.Null != nil {
				if err := addPart(SplitPart{Key: services.NullKey, Null: true, Rows: split.Null.Nrow()}, *split.Null); err != nil {
					return err
				}
			}

			if rootOpts.Format == "yaml" {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(summary)
			}

			data := pterm.TableData{{split.Column, "rows", "file"}}
			for _, p := range summary.Tables {
				key := p.Key
				if p.Null {
					key = pterm.Italic.Sprint(key)
				}
				data = append(data, []string{key, humanize.Comma(int64(p.Rows)), p.File})
			}
			out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "write each sub-table as CSV into this directory")

	return cmd
}

// SplitFileName names the CSV file for one sub-table.
func SplitFileName(column, key string) string {
	return unsafeFileChars.ReplaceAllString(column, "_") + "=" + unsafeFileChars.ReplaceAllString(key, "_") + ".csv"
}

// fileNamer hands out SplitFileName results, suffixing -2, -3 ... when two
// keys sanitise to the same name.
type fileNamer struct {
	used map[string]bool
}

func newFileNamer() *fileNamer {
	return &fileNamer{used: map[string]bool{}}
}

func (n *fileNamer) next(column, key string) string {
	name := SplitFileName(column, key)
	base := strings.TrimSuffix(name, ".csv")
	for i := 2; n.used[name]; i++ {
		name = fmt.Sprintf("%s-%d.csv", base, i)
	}
	n.used[name] = true
	return name
}

func exportTable(path string, df dataframe.DataFrame) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	return writeTable(w, df)
}

func writeTable(w storage.TableWriter, df dataframe.DataFrame) error {
	if err := w.Write(df); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
