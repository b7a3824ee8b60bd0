// Package wire provides dependency injection for the portstats application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	cliadapter "github.com/example/portstats/internal/adapters/cli"
	"github.com/example/portstats/internal/adapters/sqlite"
	"github.com/example/portstats/internal/app"
	"github.com/example/portstats/internal/core/trade"
	"github.com/example/portstats/internal/db"
	"github.com/example/portstats/internal/logging"
	"github.com/example/portstats/internal/ports/primary"
)

// Settings are the values services are built from.
type Settings struct {
	DBPath string
	Scale  float64
}

var (
	settings = Settings{DBPath: "db/port_activity.db", Scale: trade.DefaultScale}

	readDB       *sql.DB
	tradeService primary.TradeService
	initErr      error
	once         sync.Once
)

// Configure sets the settings used on first service access.
// It has no effect once a service has been created.
func Configure(s Settings) {
	settings = s
}

// TradeService returns the singleton TradeService, opening the store read-only.
func TradeService(ctx context.Context) (primary.TradeService, error) {
	once.Do(func() { initServices(ctx) })
	return tradeService, initErr
}

// initServices opens the store and builds the aggregation service.
// This is called once via sync.Once.
func initServices(ctx context.Context) {
	database, err := db.Open(ctx, settings.DBPath, db.ReadOnly)
	if err != nil {
		initErr = trade.StoreUnavailable("open store", settings.DBPath, err)
		return
	}

	repo := sqlite.NewPortActivityRepository(database)
	service, err := app.NewTradeService(ctx, repo,
		app.WithScale(settings.Scale),
		app.WithLogger(logging.Component("trade")),
	)
	if err != nil {
		database.Close()
		initErr = err
		return
	}

	readDB = database
	tradeService = service
}

// TradeAdapter returns a new TradeAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func TradeAdapter(ctx context.Context, format cliadapter.Format) (*cliadapter.TradeAdapter, error) {
	return TradeAdapterWithOutput(ctx, os.Stdout, format)
}

// TradeAdapterWithOutput returns a new TradeAdapter writing to the given output.
func TradeAdapterWithOutput(ctx context.Context, out io.Writer, format cliadapter.Format) (*cliadapter.TradeAdapter, error) {
	service, err := TradeService(ctx)
	if err != nil {
		return nil, err
	}
	return cliadapter.NewTradeAdapter(service, out, format), nil
}

// LoaderService opens the store read-write and returns a LoaderService over it.
// The caller must call the returned close function.
func LoaderService(ctx context.Context) (primary.LoaderService, func() error, error) {
	database, err := db.Open(ctx, settings.DBPath, db.ReadWrite)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store for loading: %w", err)
	}

	repo := sqlite.NewPortActivityRepository(database)
	return app.NewLoaderService(repo, logging.Component("loader")), database.Close, nil
}

// Close releases the read-only store connection, if one was opened.
func Close() error {
	if readDB != nil {
		return readDB.Close()
	}
	return nil
}

// Reset closes the store and clears the singletons so the next access
// rebuilds them from the current settings.
func Reset() error {
	err := Close()
	readDB = nil
	tradeService = nil
	initErr = nil
	once = sync.Once{}
	return err
}
