package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tablecheck/pkg/schemafile"
)

func newSchemaCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the effective schema",
		Long: `Print the schema in use as a YAML descriptor that --schema accepts, or as
JSON. Custom messages are not included.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case "yaml":
				data, err := schemafile.Marshal(a.schema)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(schemafile.Describe(a.schema))
			}
			return fmt.Errorf("invalid --format %q: must be yaml or json", format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}
