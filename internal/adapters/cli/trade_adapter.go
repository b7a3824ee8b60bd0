// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument resolution and output
// formatting, but delegate aggregation to services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/example/portstats/internal/core/trade"
	"github.com/example/portstats/internal/ports/primary"
)

// Format selects how tables are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (want text or json)", s)
}

// TradeAdapter is a thin adapter that translates CLI operations to TradeService calls.
// It depends only on the TradeService interface, enabling easy testing with mocks.
type TradeAdapter struct {
	service primary.TradeService
	out     io.Writer
	format  Format
}

// NewTradeAdapter creates a new TradeAdapter with the given service.
func NewTradeAdapter(service primary.TradeService, out io.Writer, format Format) *TradeAdapter {
	return &TradeAdapter{
		service: service,
		out:     out,
		format:  format,
	}
}

var heading = color.New(color.Bold, color.FgCyan)

// Years lists the years present in the store.
func (a *TradeAdapter) Years() error {
	years := a.service.Years()
	if a.format == FormatJSON {
		return a.writeJSON(years)
	}

	if len(years) == 0 {
		fmt.Fprintln(a.out, "No years found")
		return nil
	}
	for _, y := range years {
		fmt.Fprintln(a.out, y)
	}
	return nil
}

// Countries lists the countries present in the store.
func (a *TradeAdapter) Countries() error {
	countries := a.service.Countries()
	if a.format == FormatJSON {
		return a.writeJSON(countries)
	}

	if len(countries) == 0 {
		fmt.Fprintln(a.out, "No countries found")
		return nil
	}
	for _, c := range countries {
		fmt.Fprintln(a.out, c)
	}
	return nil
}

// Ships prints total ship arrivals for year.
func (a *TradeAdapter) Ships(ctx context.Context, year int) error {
	total, err := a.service.TotalShips(ctx, year)
	if err != nil {
		return err
	}

	if a.format == FormatJSON {
		return a.writeJSON(struct {
			Year  int    `json:"year"`
			Ships *int64 `json:"ships"`
		}{year, total})
	}

	if total == nil {
		fmt.Fprintf(a.out, "Total ship arrivals in %d: no data\n", year)
		return nil
	}
	fmt.Fprintf(a.out, "Total ship arrivals in %d: %d ships\n", year, *total)
	return nil
}

// Split prints the import/export distribution for year.
func (a *TradeAdapter) Split(ctx context.Context, year int) error {
	dist, err := a.service.ImportExportDistribution(ctx, year)
	if err != nil {
		return err
	}

	if a.format == FormatJSON {
		return a.writeJSON(struct {
			Year int `json:"year"`
			trade.Distribution
		}{year, dist})
	}

	fmt.Fprintf(a.out, "Imports %% of total trade in %d: %.1f%%\n", year, dist.ImportPct)
	fmt.Fprintf(a.out, "Exports %% of total trade in %d: %.1f%%\n", year, dist.ExportPct)
	return nil
}

// World prints the world snapshot for year, largest trade first, followed by
// the top country's share. An undefined share is shown as n/a.
func (a *TradeAdapter) World(ctx context.Context, year int) error {
	snapshot, err := a.service.WorldSnapshot(ctx, year)
	if err != nil {
		return err
	}

	share, err := a.service.TopCountryShare(snapshot)
	var shareVal *float64
	switch {
	case err == nil:
		shareVal = &share
	case !errors.Is(err, trade.ErrDivisionUndefined):
		return err
	}

	if a.format == FormatJSON {
		return a.writeJSON(struct {
			*trade.WorldSnapshot
			TopShare *float64 `json:"top_share"`
		}{snapshot, shareVal})
	}

	if len(snapshot.Rows) == 0 {
		fmt.Fprintf(a.out, "No trade data for %d\n", year)
		return nil
	}

	rows := make([]trade.SnapshotRow, len(snapshot.Rows))
	copy(rows, snapshot.Rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Trade > rows[j].Trade })

	heading.Fprintf(a.out, "\nTrade volume around the world in %d %s\n", year, a.unitLabel())
	fmt.Fprintf(a.out, "%-6s %14s %14s %14s\n", "ISO3", "IMPORTS", "EXPORTS", "TRADE")
	fmt.Fprintln(a.out, "─────────────────────────────────────────────────────")
	for _, r := range rows {
		fmt.Fprintf(a.out, "%-6s %14.4f %14.4f %14.4f\n", r.ISO3, r.Imports, r.Exports, r.Trade)
	}
	fmt.Fprintln(a.out)

	if shareVal == nil {
		fmt.Fprintln(a.out, "#1 country's trade share: n/a")
	} else {
		fmt.Fprintf(a.out, "#1 country's trade share: %.1f%%\n", *shareVal)
	}
	return nil
}

// Country prints the monthly trade series for the country matching query.
func (a *TradeAdapter) Country(ctx context.Context, query string) error {
	country, err := ResolveCountry(a.service.Countries(), query)
	if err != nil {
		return err
	}

	series, err := a.service.CountrySeries(ctx, country)
	if err != nil {
		return err
	}

	if a.format == FormatJSON {
		return a.writeJSON(series)
	}

	if len(series.Points) == 0 {
		fmt.Fprintf(a.out, "No trade data for %s\n", country)
		return nil
	}

	heading.Fprintf(a.out, "\n%s trade volume %s\n", country, a.unitLabel())
	fmt.Fprintf(a.out, "%-10s %14s %14s\n", "DATE", "IMPORTS", "EXPORTS")
	fmt.Fprintln(a.out, "────────────────────────────────────────")
	for _, p := range series.Points {
		fmt.Fprintf(a.out, "%-10s %14.4f %14.4f\n", p.Date.Format("2006-01-02"), p.Imports, p.Exports)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *TradeAdapter) unitLabel() string {
	if a.service.ScaleFactor() == trade.DefaultScale {
		return "(millions of metric tons)"
	}
	return fmt.Sprintf("(metric tons / %g)", a.service.ScaleFactor())
}

func (a *TradeAdapter) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ResolveCountry maps a user query onto one of countries.
// An exact match wins; otherwise a single case-insensitive substring match is
// accepted. Several substring matches are reported as ambiguous.
func ResolveCountry(countries []string, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("country name is empty")
	}

	for _, c := range countries {
		if c == query {
			return c, nil
		}
	}

	needle := strings.ToLower(query)
	var matches []string
	for _, c := range countries {
		if strings.EqualFold(c, query) {
			return c, nil
		}
		if strings.Contains(strings.ToLower(c), needle) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no country matches %q", query)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d countries: %s", query, len(matches), strings.Join(matches, ", "))
	}
}
