package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Mode selects how the store file is opened.
type Mode int

const (
	// ReadOnly opens an existing store; queries never write.
	ReadOnly Mode = iota
	// ReadWrite opens or creates the store for loading.
	ReadWrite
)

// Open opens the SQLite store at path and verifies the connection.
// ReadOnly requires the file to exist. ReadWrite creates the parent directory
// and the Ports schema when missing.
func Open(ctx context.Context, path string, mode Mode) (*sql.DB, error) {
	var dsn string
	switch mode {
	case ReadOnly:
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		dsn = fileURI(path, "ro")
	case ReadWrite:
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = fileURI(path, "rwc")
	default:
		return nil, fmt.Errorf("unknown open mode %d", mode)
	}

	database, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if mode == ReadWrite {
		if err := InitSchema(ctx, database); err != nil {
			database.Close()
			return nil, err
		}
	}

	return database, nil
}

// fileURI builds a SQLite URI filename for path. Characters that carry meaning
// in a URI (?, #, %) are percent-encoded; SQLite decodes them before opening.
func fileURI(path, mode string) string {
	escaped := (&url.URL{Path: filepath.ToSlash(path)}).EscapedPath()
	return "file:" + escaped + "?" + url.Values{"mode": {mode}}.Encode()
}

// InitSchema creates the Ports table and its indexes if they do not exist.
func InitSchema(ctx context.Context, database *sql.DB) error {
	if _, err := database.ExecContext(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
