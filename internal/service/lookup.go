package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
	"github.com/shelfkeeper/shelfkeeper-server/internal/metadata/openlibrary"
	"github.com/shelfkeeper/shelfkeeper-server/internal/normalize"
	"github.com/shelfkeeper/shelfkeeper-server/internal/store"
)

// MetadataSource looks up an edition by a digits-only ISBN.
type MetadataSource interface {
	Lookup(ctx context.Context, isbn string) (*openlibrary.Record, error)
}

// LookupService resolves ISBNs against the metadata source and suggests a reading
// status from copies already on the shelf.
type LookupService struct {
	source MetadataSource
	store  store.Store
	logger *slog.Logger
}

// NewLookupService creates a new lookup service.
func NewLookupService(source MetadataSource, store store.Store, logger *slog.Logger) *LookupService {
	return &LookupService{
		source: source,
		store:  store,
		logger: logger,
	}
}

// Lookup resolves a raw identifier as typed by the user.
// Every failure yields Found=false; the result never carries an error.
func (s *LookupService) Lookup(ctx context.Context, raw string) *domain.LookupResult {
	isbn := normalize.CleanISBN(raw)
	if isbn == "" {
		return &domain.LookupResult{Found: false}
	}

	rec, err := s.source.Lookup(ctx, isbn)
	if err != nil {
		s.logFailure(isbn, err)
		return &domain.LookupResult{Found: false}
	}

	result := &domain.LookupResult{
		Found:         true,
		ISBN:          isbn,
		Title:         rec.Title,
		Author:        rec.Author,
		PublishedYear: rec.PublishedYear,
		PageCount:     rec.PageCount,
		Publisher:     rec.Publisher,
		CoverURL:      rec.CoverURL,
	}

	status, err := s.store.KnownStatus(ctx, domain.BookKey{Title: rec.Title, Author: rec.Author})
	if err != nil {
		s.logger.Warn("failed to suggest status", "isbn", isbn, "error", err)
	} else {
		result.SuggestedStatus = status
	}

	return result
}

func (s *LookupService) logFailure(isbn string, err error) {
	switch {
	case errors.Is(err, openlibrary.ErrNotFound):
		s.logger.Debug("isbn not found", "isbn", isbn)
	case errors.Is(err, openlibrary.ErrUnavailable):
		s.logger.Warn("metadata service unavailable", "isbn", isbn, "error", err)
	case errors.Is(err, openlibrary.ErrUnexpectedStatus):
		s.logger.Warn("metadata service returned an error", "isbn", isbn, "error", err)
	case errors.Is(err, openlibrary.ErrMalformed):
		s.logger.Warn("metadata response could not be decoded", "isbn", isbn, "error", err)
	default:
		s.logger.Error("metadata lookup failed", "isbn", isbn, "error", err)
	}
}
