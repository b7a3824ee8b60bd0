package app

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/portstats/internal/core/trade"
	"github.com/example/portstats/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockPortActivityRepository implements secondary.PortActivityRepository for testing.
type mockPortActivityRepository struct {
	columns   []string
	years     []int
	countries []string
	portCalls map[int]int64
	trade     map[int][2]float64
	byISO3    map[int][]*secondary.ISO3TradeRecord
	byMonth   map[string][]*secondary.MonthlyTradeRecord

	columnsErr error
	yearsErr   error
	queryErr   error

	calls int
}

func newMockPortActivityRepository() *mockPortActivityRepository {
	return &mockPortActivityRepository{
		columns:   []string{"index", "year", "month", "country", "ISO3", "portcalls", "import", "export"},
		portCalls: make(map[int]int64),
		trade:     make(map[int][2]float64),
		byISO3:    make(map[int][]*secondary.ISO3TradeRecord),
		byMonth:   make(map[string][]*secondary.MonthlyTradeRecord),
	}
}

func (m *mockPortActivityRepository) Columns(ctx context.Context) ([]string, error) {
	return m.columns, m.columnsErr
}

func (m *mockPortActivityRepository) DistinctYears(ctx context.Context) ([]int, error) {
	m.calls++
	if m.yearsErr != nil {
		return nil, m.yearsErr
	}
	return m.years, nil
}

func (m *mockPortActivityRepository) DistinctCountries(ctx context.Context) ([]string, error) {
	m.calls++
	return m.countries, nil
}

func (m *mockPortActivityRepository) SumPortCalls(ctx context.Context, year int) (*int64, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if v, ok := m.portCalls[year]; ok {
		return &v, nil
	}
	return nil, nil
}

func (m *mockPortActivityRepository) SumTrade(ctx context.Context, year int) (float64, float64, bool, error) {
	if m.queryErr != nil {
		return 0, 0, false, m.queryErr
	}
	v, ok := m.trade[year]
	return v[0], v[1], ok, nil
}

func (m *mockPortActivityRepository) TradeByISO3(ctx context.Context, year int) ([]*secondary.ISO3TradeRecord, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.byISO3[year], nil
}

func (m *mockPortActivityRepository) TradeByMonth(ctx context.Context, country string) ([]*secondary.MonthlyTradeRecord, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.byMonth[country], nil
}

// ============================================================================
// Test Helper
// ============================================================================

func newTestTradeService(t *testing.T, opts ...TradeOption) (*TradeServiceImpl, *mockPortActivityRepository) {
	t.Helper()

	repo := newMockPortActivityRepository()
	repo.years = []int{2024, 2025}
	repo.countries = []string{"Canada", "United States"}
	repo.portCalls[2025] = 150
	repo.portCalls[2023] = 0
	repo.trade[2025] = [2]float64{700, 400}
	repo.trade[2023] = [2]float64{0, 0}
	repo.byISO3[2025] = []*secondary.ISO3TradeRecord{
		{ISO3: "CAN", Imports: 200, Exports: 100},
		{ISO3: "USA", Imports: 500, Exports: 300},
	}
	repo.byMonth["United States"] = []*secondary.MonthlyTradeRecord{
		{Year: 2024, Month: 12, Imports: 2_000_000, Exports: 1_000_000},
		{Year: 2025, Month: 3, Imports: 500, Exports: 300},
	}

	service, err := NewTradeService(context.Background(), repo, opts...)
	require.NoError(t, err)
	return service, repo
}

// ============================================================================
// Construction Tests
// ============================================================================

func TestNewTradeService_CachesLookups(t *testing.T) {
	service, repo := newTestTradeService(t)
	callsAfterInit := repo.calls

	assert.Equal(t, []int{2024, 2025}, service.Years())
	assert.Equal(t, []string{"Canada", "United States"}, service.Countries())
	assert.Equal(t, callsAfterInit, repo.calls, "lookups must come from the cache")
	assert.Equal(t, float64(trade.DefaultScale), service.ScaleFactor())
}

func TestNewTradeService_CachedSlicesAreCopies(t *testing.T) {
	service, _ := newTestTradeService(t)

	years := service.Years()
	years[0] = 1900
	countries := service.Countries()
	countries[0] = "Atlantis"

	assert.Equal(t, []int{2024, 2025}, service.Years())
	assert.Equal(t, []string{"Canada", "United States"}, service.Countries())
}

func TestNewTradeService_SchemaMismatch(t *testing.T) {
	repo := newMockPortActivityRepository()
	repo.columns = []string{"year", "month", "Country", "portcalls", "import"}

	_, err := NewTradeService(context.Background(), repo)

	require.Error(t, err)
	assert.ErrorIs(t, err, trade.ErrSchemaMismatch)
	var te *trade.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, []string{"ISO3", "export"}, te.Param)
}

func TestNewTradeService_MissingTable(t *testing.T) {
	repo := newMockPortActivityRepository()
	repo.columns = nil

	_, err := NewTradeService(context.Background(), repo)

	assert.ErrorIs(t, err, trade.ErrStoreUnavailable)
}

func TestNewTradeService_StoreUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mockPortActivityRepository)
	}{
		{
			name:  "columns fail",
			setup: func(m *mockPortActivityRepository) { m.columnsErr = errors.New("database is closed") },
		},
		{
			name:  "years fail",
			setup: func(m *mockPortActivityRepository) { m.yearsErr = errors.New("disk I/O error") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockPortActivityRepository()
			tt.setup(repo)

			_, err := NewTradeService(context.Background(), repo)
			assert.ErrorIs(t, err, trade.ErrStoreUnavailable)
		})
	}
}

func TestNewTradeService_InvalidScale(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
	}{
		{name: "zero", scale: 0},
		{name: "negative", scale: -1},
		{name: "infinite", scale: math.Inf(1)},
		{name: "nan", scale: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTradeService(context.Background(), newMockPortActivityRepository(), WithScale(tt.scale))
			assert.ErrorIs(t, err, trade.ErrDivisionUndefined)
		})
	}
}

// ============================================================================
// TotalShips Tests
// ============================================================================

func TestTotalShips(t *testing.T) {
	service, _ := newTestTradeService(t)
	ctx := context.Background()

	total, err := service.TotalShips(ctx, 2025)
	require.NoError(t, err)
	require.NotNil(t, total)
	assert.Equal(t, int64(150), *total)

	total, err = service.TotalShips(ctx, 2023)
	require.NoError(t, err)
	require.NotNil(t, total, "zero ships is not the same as no data")
	assert.Equal(t, int64(0), *total)

	total, err = service.TotalShips(ctx, 1990)
	require.NoError(t, err)
	assert.Nil(t, total)
}

func TestTotalShips_StoreError(t *testing.T) {
	service, repo := newTestTradeService(t)
	repo.queryErr = errors.New("no such table: Ports")

	_, err := service.TotalShips(context.Background(), 2025)

	assert.ErrorIs(t, err, trade.ErrStoreUnavailable)
	var te *trade.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 2025, te.Param)
	assert.Equal(t, "total ships", te.Op)
}

// ============================================================================
// ImportExportDistribution Tests
// ============================================================================

func TestImportExportDistribution(t *testing.T) {
	service, _ := newTestTradeService(t)

	dist, err := service.ImportExportDistribution(context.Background(), 2025)

	require.NoError(t, err)
	assert.Equal(t, 63.6, dist.ImportPct)
	assert.Equal(t, 36.4, dist.ExportPct)
	assert.InDelta(t, 100.0, dist.ImportPct+dist.ExportPct, 0.1)
}

func TestImportExportDistribution_Undefined(t *testing.T) {
	service, _ := newTestTradeService(t)
	ctx := context.Background()

	_, err := service.ImportExportDistribution(ctx, 2023)
	assert.ErrorIs(t, err, trade.ErrDivisionUndefined, "zero-trade year")

	_, err = service.ImportExportDistribution(ctx, 1990)
	assert.ErrorIs(t, err, trade.ErrDivisionUndefined, "year without records")
}

func TestImportExportDistribution_StoreError(t *testing.T) {
	service, repo := newTestTradeService(t)
	repo.queryErr = errors.New("database is locked")

	_, err := service.ImportExportDistribution(context.Background(), 2025)
	assert.ErrorIs(t, err, trade.ErrStoreUnavailable)
}

// ============================================================================
// WorldSnapshot / TopCountryShare Tests
// ============================================================================

func TestWorldSnapshot(t *testing.T) {
	service, _ := newTestTradeService(t)

	snapshot, err := service.WorldSnapshot(context.Background(), 2025)
	require.NoError(t, err)

	assert.Equal(t, 2025, snapshot.Year)
	require.Len(t, snapshot.Rows, 2)

	can, usa := snapshot.Rows[0], snapshot.Rows[1]
	assert.Equal(t, "CAN", can.ISO3)
	assert.InDelta(t, 0.0002, can.Imports, 1e-12)
	assert.InDelta(t, 0.0001, can.Exports, 1e-12)
	assert.InDelta(t, 0.0003, can.Trade, 1e-12)
	assert.Equal(t, "USA", usa.ISO3)
	assert.InDelta(t, 0.0005, usa.Imports, 1e-12)
	assert.InDelta(t, 0.0003, usa.Exports, 1e-12)
	assert.InDelta(t, 0.0008, usa.Trade, 1e-12)

	share, err := service.TopCountryShare(snapshot)
	require.NoError(t, err)
	assert.Equal(t, 72.7, share)
}

func TestWorldSnapshot_CustomScale(t *testing.T) {
	service, _ := newTestTradeService(t, WithScale(100))

	snapshot, err := service.WorldSnapshot(context.Background(), 2025)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, snapshot.Rows[1].Trade, 1e-9)
}

func TestWorldSnapshot_TinyScaleOverflow(t *testing.T) {
	service, _ := newTestTradeService(t, WithScale(1e-310))

	snapshot, err := service.WorldSnapshot(context.Background(), 2025)
	require.NoError(t, err)
	assert.True(t, math.IsInf(snapshot.Rows[1].Trade, 1))

	assert.NotPanics(t, func() {
		_, err := service.TopCountryShare(snapshot)
		assert.ErrorIs(t, err, trade.ErrDivisionUndefined)
	})
}

func TestImportExportDistribution_OverflowedSums(t *testing.T) {
	service, repo := newTestTradeService(t)
	repo.trade[2030] = [2]float64{math.Inf(1), 10}

	assert.NotPanics(t, func() {
		_, err := service.ImportExportDistribution(context.Background(), 2030)
		assert.ErrorIs(t, err, trade.ErrDivisionUndefined)
	})
}

func TestWorldSnapshot_Idempotent(t *testing.T) {
	service, _ := newTestTradeService(t)
	ctx := context.Background()

	first, err := service.WorldSnapshot(ctx, 2025)
	require.NoError(t, err)
	second, err := service.WorldSnapshot(ctx, 2025)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWorldSnapshot_Empty(t *testing.T) {
	service, _ := newTestTradeService(t)

	snapshot, err := service.WorldSnapshot(context.Background(), 1990)
	require.NoError(t, err)
	assert.NotNil(t, snapshot.Rows)
	assert.Empty(t, snapshot.Rows)

	_, err = service.TopCountryShare(snapshot)
	assert.ErrorIs(t, err, trade.ErrDivisionUndefined)
}

func TestTopCountryShare_Nil(t *testing.T) {
	service, _ := newTestTradeService(t)

	_, err := service.TopCountryShare(nil)
	assert.ErrorIs(t, err, trade.ErrDivisionUndefined)
}

// ============================================================================
// CountrySeries Tests
// ============================================================================

func TestCountrySeries(t *testing.T) {
	service, _ := newTestTradeService(t)

	series, err := service.CountrySeries(context.Background(), "United States")
	require.NoError(t, err)

	assert.Equal(t, "United States", series.Country)
	require.Len(t, series.Points, 2)

	first := series.Points[0]
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.InDelta(t, 2.0, first.Imports, 1e-12)
	assert.InDelta(t, 1.0, first.Exports, 1e-12)

	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), series.Points[1].Date)
}

func TestCountrySeries_ExactMatchOnly(t *testing.T) {
	service, _ := newTestTradeService(t)

	series, err := service.CountrySeries(context.Background(), "united states")
	require.NoError(t, err)
	assert.Empty(t, series.Points)
}

func TestCountrySeries_BadMonthInStore(t *testing.T) {
	service, repo := newTestTradeService(t)
	repo.byMonth["Peru"] = []*secondary.MonthlyTradeRecord{{Year: 2025, Month: 0}}

	_, err := service.CountrySeries(context.Background(), "Peru")

	require.ErrorIs(t, err, trade.ErrSchemaMismatch)
	assert.Equal(t, trade.KindSchemaMismatch, trade.KindOf(err))
	assert.Contains(t, err.Error(), "Peru")
	assert.Contains(t, err.Error(), "month 0 out of range")
}

func TestCountrySeries_StoreError(t *testing.T) {
	service, repo := newTestTradeService(t)
	repo.queryErr = errors.New("database is closed")

	_, err := service.CountrySeries(context.Background(), "United States")

	var te *trade.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, trade.KindStoreUnavailable, te.Kind)
	assert.Equal(t, "United States", te.Param)
}
