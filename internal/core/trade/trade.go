// Package trade contains the pure aggregation logic for port activity data.
// Functions here take already-summed rows and derive display-ready tables
// from them without touching the store.
package trade

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultScale converts raw volumes (metric tons) into millions of metric tons.
const DefaultScale = 1_000_000

// SnapshotRow is one country's summed trade for a single year.
type SnapshotRow struct {
	ISO3    string  `json:"iso3"`
	Imports float64 `json:"imports"`
	Exports float64 `json:"exports"`
	Trade   float64 `json:"trade"`
}

// Scaled returns a copy of r with every volume divided by k.
func (r SnapshotRow) Scaled(k float64) SnapshotRow {
	r.Imports /= k
	r.Exports /= k
	r.Trade /= k
	return r
}

// WorldSnapshot is the per-country trade table for one year.
type WorldSnapshot struct {
	Year int           `json:"year"`
	Rows []SnapshotRow `json:"rows"`
}

// SeriesPoint is one month of summed trade for a single country.
type SeriesPoint struct {
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	Imports float64   `json:"imports"`
	Exports float64   `json:"exports"`
	Date    time.Time `json:"date"`
}

// Scaled returns a copy of p with imports and exports divided by k.
func (p SeriesPoint) Scaled(k float64) SeriesPoint {
	p.Imports /= k
	p.Exports /= k
	return p
}

// CountrySeries is the per-month trade table for one country across all years.
type CountrySeries struct {
	Country string        `json:"country"`
	Points  []SeriesPoint `json:"points"`
}

// Distribution is the import/export split of a year's total trade, in percent.
type Distribution struct {
	ImportPct float64 `json:"import_pct"`
	ExportPct float64 `json:"export_pct"`
}

// Scalable is a row type whose volume columns can be divided by a scale factor.
type Scalable[T any] interface {
	Scaled(k float64) T
}

// Scale divides the volume columns of every row by k and returns a new slice.
// The input slice is left untouched.
func Scale[T Scalable[T]](rows []T, k float64) ([]T, error) {
	if k == 0 {
		return nil, DivisionUndefined("scale", k)
	}
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.Scaled(k)
	}
	return out, nil
}

// WithTrade returns a copy of rows with Trade set to Imports + Exports.
func WithTrade(rows []SnapshotRow) []SnapshotRow {
	out := make([]SnapshotRow, len(rows))
	for i, r := range rows {
		r.Trade = r.Imports + r.Exports
		out[i] = r
	}
	return out
}

// SplitPercent expresses imports and exports as percentages of their sum,
// each rounded to one decimal place.
func SplitPercent(imports, exports float64) (Distribution, error) {
	total := imports + exports
	if total == 0 || !isFinite(total) {
		return Distribution{}, DivisionUndefined("import/export distribution", total)
	}
	importPct := imports / total * 100
	exportPct := exports / total * 100
	if !isFinite(importPct) || !isFinite(exportPct) {
		return Distribution{}, DivisionUndefined("import/export distribution", total)
	}
	return Distribution{
		ImportPct: RoundTo(importPct, 1),
		ExportPct: RoundTo(exportPct, 1),
	}, nil
}

// TopShare returns the largest Trade value as a percentage of the sum of all
// Trade values, rounded to one decimal place.
func TopShare(rows []SnapshotRow) (float64, error) {
	if len(rows) == 0 {
		return 0, DivisionUndefined("top country share", "empty snapshot")
	}

	maxTrade := rows[0].Trade
	var sum float64
	for _, r := range rows {
		if r.Trade > maxTrade {
			maxTrade = r.Trade
		}
		sum += r.Trade
	}
	if sum == 0 {
		return 0, DivisionUndefined("top country share", "zero total trade")
	}
	if !isFinite(sum) {
		return 0, DivisionUndefined("top country share", "non-finite total trade")
	}

	share := maxTrade / sum * 100
	if !isFinite(share) {
		return 0, DivisionUndefined("top country share", "non-finite total trade")
	}
	return RoundTo(share, 1), nil
}

// FirstOfMonth returns midnight UTC on the first day of the given month.
func FirstOfMonth(year, month int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range 1-12", month)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// RoundTo rounds v to the given number of decimal places, half away from zero.
// NaN and infinities are returned unchanged.
func RoundTo(v float64, places int32) float64 {
	if !isFinite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// ValidScale reports whether k is usable as a scale factor: finite and positive.
func ValidScale(k float64) bool {
	return k > 0 && !math.IsInf(k, 1)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
