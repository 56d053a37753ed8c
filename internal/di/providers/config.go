// Package providers contains dependency injection providers for the Shelfkeeper server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfkeeper/shelfkeeper-server/internal/config"
	"github.com/shelfkeeper/shelfkeeper-server/internal/logger"
	"github.com/shelfkeeper/shelfkeeper-server/internal/validation"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(loggerConfig(cfg))

	log.Info("Starting Shelfkeeper Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"mode", cfg.App.Mode,
		"database", cfg.Database.Path,
	)

	return log, nil
}

// loggerConfig writes JSON lines in production and human readable output elsewhere.
func loggerConfig(cfg *config.Config) logger.Config {
	format := logger.FormatHuman
	if cfg.IsProduction() {
		format = logger.FormatJSON
	}

	return logger.Config{
		Format:    format,
		Level:     logger.ParseLevel(cfg.Logger.Level),
		AddSource: cfg.App.Environment == "development",
	}
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
