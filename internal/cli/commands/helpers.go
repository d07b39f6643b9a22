// Package commands implements the dbcomp subcommands.
package commands

import (
	"log/slog"

	"github.com/leapstack-labs/dbcomp/internal/cli/config"
	"github.com/leapstack-labs/dbcomp/pkg/driver"
)

// getConfig returns the loaded configuration, falling back to defaults when
// the root command has not run (as in direct command tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Port:      config.DefaultPort,
		LogLevel:  config.DefaultLogLevel,
		LogFormat: config.DefaultLogFormat,
	}
}

// resolveDriver looks up the postgres driver, returning nil when it is not
// linked into the binary. The server reports a nil driver as an installation
// hint on the completion endpoint instead of failing at startup.
func resolveDriver(logger *slog.Logger) driver.Driver {
	drv, err := driver.Lookup("postgres")
	if err != nil {
		logger.Warn("postgres driver not registered", "error", err)
		return nil
	}
	return drv
}
