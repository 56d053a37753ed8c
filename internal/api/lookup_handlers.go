package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
)

func (s *Server) registerLookupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "lookupISBN",
		Method:      http.MethodPost,
		Path:        "/api/v1/lookup",
		Summary:     "Look up an ISBN",
		Description: "Fetches edition metadata from OpenLibrary and suggests a status from copies already owned. Failures answer found=false.",
		Tags:        []string{"Lookup"},
		Middlewares: huma.Middlewares{s.rateLimited(s.lookupLimiter, s.lookupRate)},
	}, s.handleLookup)
}

// LookupRequest carries the identifier as typed; separators are ignored.
type LookupRequest struct {
	ISBN string `json:"isbn,omitempty" doc:"ISBN-10 or ISBN-13, dashes and spaces allowed"`
}

// LookupInput wraps the lookup request for Huma.
type LookupInput struct {
	Body LookupRequest
}

// LookupOutput wraps the lookup result for Huma.
type LookupOutput struct {
	Body *domain.LookupResult
}

func (s *Server) handleLookup(ctx context.Context, input *LookupInput) (*LookupOutput, error) {
	return &LookupOutput{Body: s.services.Lookup.Lookup(ctx, input.Body.ISBN)}, nil
}
