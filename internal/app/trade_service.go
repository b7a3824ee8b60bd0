package app

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/portstats/internal/core/trade"
	"github.com/example/portstats/internal/db"
	"github.com/example/portstats/internal/ports/primary"
	"github.com/example/portstats/internal/ports/secondary"
)

// TradeServiceImpl implements the TradeService interface.
// Years and countries are read once in NewTradeService and never refreshed.
type TradeServiceImpl struct {
	repo      secondary.PortActivityRepository
	scale     float64
	logger    zerolog.Logger
	years     []int
	countries []string
}

// TradeOption configures a TradeServiceImpl.
type TradeOption func(*TradeServiceImpl)

// WithScale overrides trade.DefaultScale. k must be finite and positive.
func WithScale(k float64) TradeOption {
	return func(s *TradeServiceImpl) {
		s.scale = k
	}
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l zerolog.Logger) TradeOption {
	return func(s *TradeServiceImpl) {
		s.logger = l
	}
}

// NewTradeService validates the store schema and caches its years and countries.
func NewTradeService(ctx context.Context, repo secondary.PortActivityRepository, opts ...TradeOption) (*TradeServiceImpl, error) {
	s := &TradeServiceImpl{
		repo:   repo,
		scale:  trade.DefaultScale,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if !trade.ValidScale(s.scale) {
		return nil, trade.DivisionUndefined("new trade service", s.scale)
	}

	if err := s.checkSchema(ctx); err != nil {
		return nil, err
	}

	years, err := repo.DistinctYears(ctx)
	if err != nil {
		return nil, trade.StoreUnavailable("distinct years", nil, err)
	}
	countries, err := repo.DistinctCountries(ctx)
	if err != nil {
		return nil, trade.StoreUnavailable("distinct countries", nil, err)
	}

	s.years = years
	s.countries = countries

	s.logger.Debug().
		Int("years", len(years)).
		Int("countries", len(countries)).
		Float64("scale", s.scale).
		Msg("trade service ready")

	return s, nil
}

// checkSchema fails with SchemaMismatch when required columns are absent.
// A missing table is a store failure rather than a schema mismatch.
func (s *TradeServiceImpl) checkSchema(ctx context.Context) error {
	columns, err := s.repo.Columns(ctx)
	if err != nil {
		return trade.StoreUnavailable("read schema", db.PortsTable, err)
	}
	if len(columns) == 0 {
		return trade.StoreUnavailable("read schema", db.PortsTable, errors.New("no such table"))
	}

	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[strings.ToLower(c)] = true
	}

	var missing []string
	for _, want := range db.RequiredColumns {
		if !present[strings.ToLower(want)] {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return trade.SchemaMismatch("read schema", missing)
	}

	return nil
}

// Years returns the distinct years in the store, ascending.
func (s *TradeServiceImpl) Years() []int {
	return slices.Clone(s.years)
}

// Countries returns the distinct country names in the store, ascending.
func (s *TradeServiceImpl) Countries() []string {
	return slices.Clone(s.countries)
}

// ScaleFactor returns the divisor applied to raw volumes.
func (s *TradeServiceImpl) ScaleFactor() float64 {
	return s.scale
}

// TotalShips sums port calls for year; nil means the year has no data.
func (s *TradeServiceImpl) TotalShips(ctx context.Context, year int) (*int64, error) {
	total, err := s.repo.SumPortCalls(ctx, year)
	if err != nil {
		return nil, trade.StoreUnavailable("total ships", year, err)
	}

	s.logger.Debug().Int("year", year).Bool("found", total != nil).Msg("total ships")
	return total, nil
}

// ImportExportDistribution returns the import/export split of year's total trade.
// A year without records has a zero total and is reported as DivisionUndefined.
func (s *TradeServiceImpl) ImportExportDistribution(ctx context.Context, year int) (trade.Distribution, error) {
	imports, exports, found, err := s.repo.SumTrade(ctx, year)
	if err != nil {
		return trade.Distribution{}, trade.StoreUnavailable("import/export distribution", year, err)
	}
	if !found {
		return trade.Distribution{}, trade.DivisionUndefined("import/export distribution", year)
	}

	dist, err := trade.SplitPercent(imports, exports)
	if err != nil {
		return trade.Distribution{}, trade.DivisionUndefined("import/export distribution", year)
	}

	s.logger.Debug().Int("year", year).Float64("import_pct", dist.ImportPct).Msg("import/export distribution")
	return dist, nil
}

// WorldSnapshot returns per-ISO3 scaled trade for year.
func (s *TradeServiceImpl) WorldSnapshot(ctx context.Context, year int) (*trade.WorldSnapshot, error) {
	records, err := s.repo.TradeByISO3(ctx, year)
	if err != nil {
		return nil, trade.StoreUnavailable("world snapshot", year, err)
	}

	rows := make([]trade.SnapshotRow, len(records))
	for i, r := range records {
		rows[i] = trade.SnapshotRow{ISO3: r.ISO3, Imports: r.Imports, Exports: r.Exports}
	}

	scaled, err := trade.Scale(rows, s.scale)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int("year", year).Int("rows", len(rows)).Msg("world snapshot")
	return &trade.WorldSnapshot{Year: year, Rows: trade.WithTrade(scaled)}, nil
}

// CountrySeries returns per-month scaled trade for country.
// The name must match exactly; resolve partial names before calling.
func (s *TradeServiceImpl) CountrySeries(ctx context.Context, country string) (*trade.CountrySeries, error) {
	records, err := s.repo.TradeByMonth(ctx, country)
	if err != nil {
		return nil, trade.StoreUnavailable("country series", country, err)
	}

	points := make([]trade.SeriesPoint, len(records))
	for i, r := range records {
		date, err := trade.FirstOfMonth(r.Year, r.Month)
		if err != nil {
			return nil, &trade.Error{Kind: trade.KindSchemaMismatch, Op: "country series", Param: country, Err: err}
		}
		points[i] = trade.SeriesPoint{
			Year:    r.Year,
			Month:   r.Month,
			Imports: r.Imports,
			Exports: r.Exports,
			Date:    date,
		}
	}

	scaled, err := trade.Scale(points, s.scale)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("country", country).Int("points", len(points)).Msg("country series")
	return &trade.CountrySeries{Country: country, Points: scaled}, nil
}

// TopCountryShare returns the largest country's share of the snapshot's trade.
func (s *TradeServiceImpl) TopCountryShare(snapshot *trade.WorldSnapshot) (float64, error) {
	if snapshot == nil {
		return trade.TopShare(nil)
	}
	return trade.TopShare(snapshot.Rows)
}

// Ensure TradeServiceImpl implements the interface.
var _ primary.TradeService = (*TradeServiceImpl)(nil)
