package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/portstats/internal/version"
)

// NewRootCmd builds the portstats command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "portstats",
		Short:   "Port activity trade statistics",
		Version: version.String(),
		Long: `portstats loads IMF PortWatch port activity data into a SQLite store and
reports ship arrivals, import/export splits, per-country world trade and
monthly country trade series.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(LoadCmd())
	rootCmd.AddCommand(YearsCmd())
	rootCmd.AddCommand(CountriesCmd())
	rootCmd.AddCommand(ShipsCmd())
	rootCmd.AddCommand(SplitCmd())
	rootCmd.AddCommand(WorldCmd())
	rootCmd.AddCommand(CountryCmd())
	rootCmd.AddCommand(ConfigCmd())
	rootCmd.AddCommand(DoctorCmd())

	return rootCmd
}
