package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfkeeper/shelfkeeper-server/internal/config"
	"github.com/shelfkeeper/shelfkeeper-server/internal/logger"
	"github.com/shelfkeeper/shelfkeeper-server/internal/metadata/openlibrary"
	"github.com/shelfkeeper/shelfkeeper-server/internal/service"
	"github.com/shelfkeeper/shelfkeeper-server/internal/validation"
)

// ProvideLibraryService provides the catalogue service.
// The read-only flag is fixed for the life of the process.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.App.ReadOnly {
		log.Info("Library is in public read-only mode")
	}

	return service.NewLibraryService(storeHandle.Store, validator, cfg.App.ReadOnly, log.Logger), nil
}

// ProvideLookupService provides the ISBN lookup service.
func ProvideLookupService(i do.Injector) (*service.LookupService, error) {
	client := do.MustInvoke[*openlibrary.Client](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLookupService(client, storeHandle.Store, log.Logger), nil
}
