package db

import (
	"context"
	"database/sql"
	"fmt"
)

// FixtureRow is one Ports row inserted by SeedFixtures.
type FixtureRow struct {
	Year      int
	Month     int
	Country   string
	ISO3      string
	PortCalls int64
	Import    float64
	Export    float64
}

// Fixtures is a small dataset covering two years and three countries.
// United States has two rows for 2024-01 to exercise summing.
var Fixtures = []FixtureRow{
	{2024, 1, "United States", "USA", 40, 300, 100},
	{2024, 1, "United States", "USA", 10, 200, 100},
	{2024, 2, "United States", "USA", 45, 450, 250},
	{2024, 1, "Canada", "CAN", 20, 100, 300},
	{2024, 2, "Canada", "CAN", 25, 150, 350},
	{2024, 1, "China", "CHN", 90, 1200, 1500},
	{2025, 3, "United States", "USA", 100, 500, 300},
	{2025, 3, "Canada", "CAN", 50, 200, 100},
}

// SeedFixtures inserts Fixtures into the Ports table of database.
func SeedFixtures(ctx context.Context, database *sql.DB) error {
	return SeedRows(ctx, database, Fixtures)
}

// SeedRows inserts rows into the Ports table in a single transaction.
func SeedRows(ctx context.Context, database *sql.DB, rows []FixtureRow) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed ports: %w", err)
	}
	defer tx.Rollback()

	for _, r := range rows {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO Ports (year, month, country, ISO3, portcalls, import, export) VALUES (?, ?, ?, ?, ?, ?, ?)",
			r.Year, r.Month, r.Country, r.ISO3, r.PortCalls, r.Import, r.Export,
		); err != nil {
			return fmt.Errorf("seed ports: %w", err)
		}
	}

	return tx.Commit()
}
