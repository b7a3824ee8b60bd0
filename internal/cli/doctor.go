package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/portstats/internal/core/trade"
	"github.com/example/portstats/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for store validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the configured port activity store",
		Long: `Health check for the port activity store.

Validates:
- The store file exists
- The Ports table carries every required column
- At least one year of data is loaded

Examples:
  portstats doctor              # Run full health check
  portstats doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := runChecks(cmd.Context(), loadedConfig.DBPath)

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printChecks(cmd.OutOrStdout(), results, hasErrors)
			}

			if hasErrors {
				return fmt.Errorf("store validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// runChecks stops at the first failing check; later checks depend on earlier ones.
func runChecks(ctx context.Context, path string) []CheckResult {
	file := checkStoreFile(path)
	if file.Status == "✗" {
		return []CheckResult{file}
	}

	service, err := wire.TradeService(ctx)
	schema := checkSchema(err)
	if schema.Status == "✗" {
		return []CheckResult{file, schema}
	}

	return []CheckResult{file, schema, checkData(service.Years(), service.Countries())}
}

func checkStoreFile(path string) CheckResult {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return CheckResult{Name: "Store file", Status: "✗", Details: fmt.Sprintf("  %s not found (run 'portstats load <csv>')", path)}
	case err != nil:
		return CheckResult{Name: "Store file", Status: "✗", Details: "  " + err.Error()}
	case info.IsDir():
		return CheckResult{Name: "Store file", Status: "✗", Details: fmt.Sprintf("  %s is a directory", path)}
	}
	return CheckResult{Name: "Store file", Status: "✓"}
}

func checkSchema(err error) CheckResult {
	if err == nil {
		return CheckResult{Name: "Schema", Status: "✓"}
	}
	details := "  " + err.Error()
	if trade.KindOf(err) == trade.KindSchemaMismatch {
		details += "\n  Reload the store with 'portstats load <csv>'"
	}
	return CheckResult{Name: "Schema", Status: "✗", Details: details}
}

func checkData(years []int, countries []string) CheckResult {
	if len(years) == 0 {
		return CheckResult{Name: "Data", Status: "⚠", Details: "  Ports table is empty"}
	}
	return CheckResult{
		Name:    "Data",
		Status:  "✓",
		Details: fmt.Sprintf("  %d years (%d-%d), %d countries", len(years), years[0], years[len(years)-1], len(countries)),
	}
}

func printChecks(out io.Writer, results []CheckResult, hasErrors bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Check              Status")
	fmt.Fprintln(out, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(out, "%-18s %s\n", r.Name, r.Status)
	}
	fmt.Fprintln(out)

	var details []string
	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			details = append(details, fmt.Sprintf("%s:\n%s", r.Name, r.Details))
		}
	}
	if len(details) > 0 {
		fmt.Fprintf(out, "Details:\n\n%s\n\n", strings.Join(details, "\n\n"))
	}

	if hasErrors {
		fmt.Fprintln(out, "⚠ Issues found.")
	} else {
		fmt.Fprintln(out, "All checks passed.")
	}
}
