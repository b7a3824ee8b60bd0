package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/portstats/internal/adapters/cli"
	"github.com/example/portstats/internal/config"
	"github.com/example/portstats/internal/logging"
	"github.com/example/portstats/internal/wire"
)

// Persistent flag values shared by every subcommand.
var (
	configPath string
	dbPath     string
	logLevel   string
	outFormat  string
)

// loadedConfig is the effective configuration after flags are applied.
var loadedConfig *config.Config

// AddGlobalFlags registers the persistent flags on root and loads configuration
// before any subcommand runs.
func AddGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default ./portstats.yaml if present)")
	flags.StringVar(&dbPath, "db", "", "SQLite store path (overrides config)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, disabled")
	flags.StringVarP(&outFormat, "format", "f", "text", "Output format: text or json")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = dbPath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		logging.Debug().Str("db", cfg.DBPath).Float64("scale", cfg.Scale).Msg("configuration loaded")

		wire.Configure(wire.Settings{DBPath: cfg.DBPath, Scale: cfg.Scale})
		loadedConfig = cfg
		return nil
	}

	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return wire.Close()
	}
}

// adapter builds a TradeAdapter honoring --format.
func adapter(cmd *cobra.Command) (*cliadapter.TradeAdapter, error) {
	format, err := cliadapter.ParseFormat(outFormat)
	if err != nil {
		return nil, err
	}
	a, err := wire.TradeAdapterWithOutput(cmd.Context(), cmd.OutOrStdout(), format)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return a, nil
}
