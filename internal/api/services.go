package api

import (
	"github.com/shelfkeeper/shelfkeeper-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Library *service.LibraryService
	Lookup  *service.LookupService
}
