package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"job-insights/models"
	"job-insights/storage"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the columns of the stored jobs table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			infos, err := store.Describe(ctx)
			if err != nil {
				return pipelineError("schema", err)
			}
			if len(infos) == 0 {
				return pipelineError("schema", storage.ErrNoTable)
			}

			if rootOpts.Format == "yaml" {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(infos)
			}

			n, err := store.Count(ctx)
			if err != nil {
				return pipelineError("schema", err)
			}
			out, err := pterm.DefaultTable.WithHasHeader().WithData(schemaTable(infos)).Srender()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s rows\n%s\n", models.JobsTable, humanize.Comma(int64(n)), out)
			return err
		},
	}
	return cmd
}

func schemaTable(infos []models.ColumnInfo) pterm.TableData {
	data := pterm.TableData{{"cid", "name", "type", "notnull", "default", "pk"}}
	for _, c := range infos {
		def := "NULL"
		if c.DefaultValue != nil {
			def = *c.DefaultValue
		}
		data = append(data, []string{
			strconv.Itoa(c.CID), c.Name, c.Type,
			strconv.FormatBool(c.NotNull), def, strconv.FormatBool(c.PrimaryKey),
		})
	}
	return data
}
