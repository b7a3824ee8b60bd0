// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema. Do not hardcode CREATE TABLE statements for Ports in
// test files; use setupTestDB() and the seed helpers.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/portstats/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// each pooled connection to :memory: is a separate database
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// setupSeededDB creates a test database holding db.Fixtures.
func setupSeededDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB := setupTestDB(t)
	if err := db.SeedFixtures(context.Background(), testDB); err != nil {
		t.Fatalf("failed to seed fixtures: %v", err)
	}
	return testDB
}

// seedPort inserts a single Ports row.
func seedPort(t *testing.T, testDB *sql.DB, year, month int, country, iso3 string, portcalls int64, imp, exp float64) {
	t.Helper()
	_, err := testDB.Exec(
		"INSERT INTO Ports (year, month, country, ISO3, portcalls, import, export) VALUES (?, ?, ?, ?, ?, ?, ?)",
		year, month, country, iso3, portcalls, imp, exp,
	)
	if err != nil {
		t.Fatalf("failed to seed port row: %v", err)
	}
}

// exportedSchemaSQL is the Ports table as pandas DataFrame.to_sql writes it:
// an "index" column, and REAL for any column that had gaps in the source CSV.
const exportedSchemaSQL = `
CREATE TABLE "Ports" (
	"index" INTEGER,
	"year" INTEGER,
	"month" REAL,
	"country" TEXT,
	"ISO3" TEXT,
	"portcalls" REAL,
	"import" REAL,
	"export" REAL
)`

// setupExportedDB creates a store shaped like one produced by other tooling,
// holding REAL counts and NULL cells.
func setupExportedDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		testDB.Close()
	})

	if _, err := testDB.Exec(exportedSchemaSQL); err != nil {
		t.Fatalf("failed to create exported schema: %v", err)
	}

	rows := []struct {
		year      int
		month     float64
		country   any
		iso3      any
		portcalls any
		imp, exp  any
	}{
		{2025, 3, "United States", "USA", 1_500_000.0, 500.0, 300.0},
		{2025, 3, "Canada", nil, 50.0, nil, 100.0},
		{2025, 4, "Canada", "CAN", 25.0, 200.0, nil},
		{2025, 4, nil, "ATA", nil, nil, nil},
	}
	for i, r := range rows {
		_, err := testDB.Exec(
			`INSERT INTO Ports ("index", year, month, country, ISO3, portcalls, import, export) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, r.year, r.month, r.country, r.iso3, r.portcalls, r.imp, r.exp,
		)
		if err != nil {
			t.Fatalf("failed to seed exported row: %v", err)
		}
	}

	return testDB
}
