package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func parseYear(arg string) (int, error) {
	year, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", arg)
	}
	return year, nil
}

// YearsCmd returns the years command
func YearsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the years present in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := adapter(cmd)
			if err != nil {
				return err
			}
			return a.Years()
		},
	}
}

// CountriesCmd returns the countries command
func CountriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List the countries present in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := adapter(cmd)
			if err != nil {
				return err
			}
			return a.Countries()
		},
	}
}

// ShipsCmd returns the ships command
func ShipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ships [year]",
		Short: "Show total ship arrivals for a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			a, err := adapter(cmd)
			if err != nil {
				return err
			}
			return a.Ships(cmd.Context(), year)
		},
	}
}

// SplitCmd returns the split command
func SplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split [year]",
		Short: "Show imports and exports as a share of a year's total trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			a, err := adapter(cmd)
			if err != nil {
				return err
			}
			return a.Split(cmd.Context(), year)
		},
	}
}

// WorldCmd returns the world command
func WorldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "world [year]",
		Short: "Show per-country trade volume for a year",
		Long: `Show imports, exports and total trade per ISO3 country code for a year,
largest first, followed by the top country's share of world trade.

Examples:
  portstats world 2025
  portstats world 2025 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			a, err := adapter(cmd)
			if err != nil {
				return err
			}
			return a.World(cmd.Context(), year)
		},
	}
}

// CountryCmd returns the country command
func CountryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "country [name]",
		Short: "Show monthly trade volume for a country",
		Long: `Show monthly imports and exports for a country across all years.

The name may be a case-insensitive fragment as long as it matches one country.

Examples:
  portstats country "United States"
  portstats country kingdom`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := adapter(cmd)
			if err != nil {
				return err
			}
			return a.Country(cmd.Context(), args[0])
		},
	}
}
