package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/portstats/internal/ports/primary"
	"github.com/example/portstats/internal/wire"
)

// LoadCmd returns the load command
func LoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load [csv-file]",
		Short: "Load a port activity CSV into the store",
		Long: `Replace the contents of the Ports table with the rows of a CSV file.

The file needs year, month, country, ISO3, portcalls, import and export
columns (any order, any case). Other columns are ignored.

Examples:
  portstats load data/port_activity.csv
  portstats load data/port_activity.csv --db /tmp/ports.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			loader, closeStore, err := wire.LoaderService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			resp, err := loader.LoadCSV(cmd.Context(), primary.LoadRequest{Source: f, Name: path})
			if err != nil {
				return fmt.Errorf("failed to load: %w", err)
			}

			green := color.New(color.FgGreen).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Loaded %d rows (%d years, %d countries) into %s\n",
				green("✓"), resp.Rows, resp.Years, resp.Countries, loadedConfig.DBPath)
			return nil
		},
	}
}
