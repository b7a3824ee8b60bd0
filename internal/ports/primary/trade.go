// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI drives application services.
package primary

import (
	"context"

	"github.com/example/portstats/internal/core/trade"
)

// TradeService defines the primary port for port activity aggregations.
type TradeService interface {
	// Years returns the distinct years in the store, ascending.
	Years() []int

	// Countries returns the distinct country names in the store, ascending.
	Countries() []string

	// ScaleFactor returns the divisor applied to raw volumes.
	ScaleFactor() float64

	// TotalShips sums port calls for year; nil means the year has no data.
	TotalShips(ctx context.Context, year int) (*int64, error)

	// ImportExportDistribution returns the import/export split of year's total trade.
	ImportExportDistribution(ctx context.Context, year int) (trade.Distribution, error)

	// WorldSnapshot returns per-ISO3 scaled trade for year.
	WorldSnapshot(ctx context.Context, year int) (*trade.WorldSnapshot, error)

	// CountrySeries returns per-month scaled trade for country (exact match).
	CountrySeries(ctx context.Context, country string) (*trade.CountrySeries, error)

	// TopCountryShare returns the largest country's share of the snapshot's trade.
	TopCountryShare(snapshot *trade.WorldSnapshot) (float64, error)
}
