// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// PortActivityRepository defines the secondary port for reading the Ports table.
// Implementations bind every lookup parameter; none of them modify records.
type PortActivityRepository interface {
	// Columns returns the column names of the Ports table (empty when it does not exist).
	Columns(ctx context.Context) ([]string, error)

	// DistinctYears returns every year present, ascending.
	DistinctYears(ctx context.Context) ([]int, error)

	// DistinctCountries returns every country name present, ascending.
	DistinctCountries(ctx context.Context) ([]string, error)

	// SumPortCalls returns the summed port calls for year, or nil when no rows match.
	SumPortCalls(ctx context.Context, year int) (*int64, error)

	// SumTrade returns summed imports and exports for year.
	// found is false when no rows match.
	SumTrade(ctx context.Context, year int) (imports, exports float64, found bool, err error)

	// TradeByISO3 returns imports and exports for year summed per ISO3 code, ordered by ISO3.
	TradeByISO3(ctx context.Context, year int) ([]*ISO3TradeRecord, error)

	// TradeByMonth returns imports and exports for country summed per (year, month), chronologically.
	TradeByMonth(ctx context.Context, country string) ([]*MonthlyTradeRecord, error)
}

// ISO3TradeRecord is one grouped row of TradeByISO3, in raw units.
type ISO3TradeRecord struct {
	ISO3    string
	Imports float64
	Exports float64
}

// MonthlyTradeRecord is one grouped row of TradeByMonth, in raw units.
type MonthlyTradeRecord struct {
	Year    int
	Month   int
	Imports float64
	Exports float64
}

// PortActivityWriter defines the secondary port used by the store loader.
type PortActivityWriter interface {
	// ReplaceAll swaps the contents of the Ports table for records in one transaction.
	ReplaceAll(ctx context.Context, records []*PortActivityRecord) error
}

// PortActivityRecord is a single Ports row as stored in persistence.
type PortActivityRecord struct {
	Year      int
	Month     int
	Country   string
	ISO3      string
	PortCalls int64
	Import    float64
	Export    float64
}
