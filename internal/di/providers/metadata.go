package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfkeeper/shelfkeeper-server/internal/config"
	"github.com/shelfkeeper/shelfkeeper-server/internal/logger"
	"github.com/shelfkeeper/shelfkeeper-server/internal/metadata/openlibrary"
)

// ProvideOpenLibraryClient provides the OpenLibrary metadata client.
func ProvideOpenLibraryClient(i do.Injector) (*openlibrary.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := openlibrary.NewClient(cfg.Lookup.BaseURL, cfg.Lookup.Timeout, log.Logger)
	log.Info("OpenLibrary client initialized",
		"base_url", cfg.Lookup.BaseURL,
		"timeout", cfg.Lookup.Timeout,
	)

	return client, nil
}
