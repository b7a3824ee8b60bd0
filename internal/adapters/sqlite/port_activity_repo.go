// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/portstats/internal/db"
	"github.com/example/portstats/internal/ports/secondary"
)

// PortActivityRepository implements secondary.PortActivityRepository and
// secondary.PortActivityWriter with SQLite.
type PortActivityRepository struct {
	db *sql.DB
}

// NewPortActivityRepository creates a new SQLite port activity repository.
func NewPortActivityRepository(db *sql.DB) *PortActivityRepository {
	return &PortActivityRepository{db: db}
}

// Columns returns the column names of the Ports table.
func (r *PortActivityRepository) Columns(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", db.PortsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read table info: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, name)
	}

	return columns, rows.Err()
}

// DistinctYears returns every year present, ascending.
func (r *PortActivityRepository) DistinctYears(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT CAST(year AS INTEGER) AS y
		FROM Ports
		WHERE year IS NOT NULL
		ORDER BY y ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		years = append(years, year)
	}

	return years, rows.Err()
}

// DistinctCountries returns every country name present, ascending.
func (r *PortActivityRepository) DistinctCountries(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT country
		FROM Ports
		WHERE country IS NOT NULL
		ORDER BY country ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	var countries []string
	for rows.Next() {
		var country string
		if err := rows.Scan(&country); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, country)
	}

	return countries, rows.Err()
}

// SumPortCalls returns the summed port calls for year, or nil when no rows match.
// Stores written by other tools may hold portcalls as REAL, so the sum is
// rounded back to an integer in SQL.
func (r *PortActivityRepository) SumPortCalls(ctx context.Context, year int) (*int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT CAST(ROUND(SUM(portcalls)) AS INTEGER) FROM Ports WHERE year = ?",
		year,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to sum port calls: %w", err)
	}

	if !total.Valid {
		return nil, nil
	}
	return &total.Int64, nil
}

// SumTrade returns summed imports and exports for year. Empty cells count as zero.
func (r *PortActivityRepository) SumTrade(ctx context.Context, year int) (float64, float64, bool, error) {
	var count int64
	var imports, exports float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), TOTAL(import), TOTAL(export) FROM Ports WHERE year = ?",
		year,
	).Scan(&count, &imports, &exports)
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to sum trade: %w", err)
	}

	if count == 0 {
		return 0, 0, false, nil
	}
	return imports, exports, true, nil
}

// TradeByISO3 returns imports and exports for year summed per ISO3 code.
// Rows without a code are grouped under the empty code; empty cells count as zero.
func (r *PortActivityRepository) TradeByISO3(ctx context.Context, year int) ([]*secondary.ISO3TradeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(ISO3, '') AS code, TOTAL(import) AS Imports, TOTAL(export) AS Exports
		FROM Ports
		WHERE year = ?
		GROUP BY code
		ORDER BY code ASC`,
		year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to group trade by ISO3: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ISO3TradeRecord
	for rows.Next() {
		record := &secondary.ISO3TradeRecord{}
		if err := rows.Scan(&record.ISO3, &record.Imports, &record.Exports); err != nil {
			return nil, fmt.Errorf("failed to scan ISO3 trade: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// TradeByMonth returns imports and exports for country summed per (year, month).
// Empty cells count as zero.
func (r *PortActivityRepository) TradeByMonth(ctx context.Context, country string) ([]*secondary.MonthlyTradeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(year AS INTEGER) AS y, CAST(month AS INTEGER) AS m,
			TOTAL(import) AS Imports, TOTAL(export) AS Exports
		FROM Ports
		WHERE country = ? AND year IS NOT NULL AND month IS NOT NULL
		GROUP BY y, m
		ORDER BY y ASC, m ASC`,
		country,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to group trade by month: %w", err)
	}
	defer rows.Close()

	var records []*secondary.MonthlyTradeRecord
	for rows.Next() {
		record := &secondary.MonthlyTradeRecord{}
		if err := rows.Scan(&record.Year, &record.Month, &record.Imports, &record.Exports); err != nil {
			return nil, fmt.Errorf("failed to scan monthly trade: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// ReplaceAll swaps the contents of the Ports table for records in one transaction.
func (r *PortActivityRepository) ReplaceAll(ctx context.Context, records []*secondary.PortActivityRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin load: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM Ports"); err != nil {
		return fmt.Errorf("failed to clear ports: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO Ports (year, month, country, ISO3, portcalls, import, export) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.Year, rec.Month, rec.Country, rec.ISO3, rec.PortCalls, rec.Import, rec.Export,
		); err != nil {
			return fmt.Errorf("failed to insert %s %d-%02d: %w", rec.Country, rec.Year, rec.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load: %w", err)
	}

	return nil
}

// Ensure PortActivityRepository implements the interfaces.
var (
	_ secondary.PortActivityRepository = (*PortActivityRepository)(nil)
	_ secondary.PortActivityWriter     = (*PortActivityRepository)(nil)
)
