package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/shelfkeeper/shelfkeeper-server/internal/catalog"
	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
	domainerrors "github.com/shelfkeeper/shelfkeeper-server/internal/errors"
	"github.com/shelfkeeper/shelfkeeper-server/internal/normalize"
	"github.com/shelfkeeper/shelfkeeper-server/internal/store"
	"github.com/shelfkeeper/shelfkeeper-server/internal/validation"
)

// LibraryService orchestrates reads and edits of the book collection.
// When readOnly is set every mutating method fails with errors.ErrReadOnly before
// touching the store.
type LibraryService struct {
	store     store.Store
	validator *validation.Validator
	readOnly  bool
	logger    *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(store store.Store, validator *validation.Validator, readOnly bool, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:     store,
		validator: validator,
		readOnly:  readOnly,
		logger:    logger,
	}
}

// BookList is the library listing for one filter and sort.
type BookList struct {
	Books       []*domain.LogicalBook `json:"books"`
	TotalCopies int                   `json:"total_copies"`
	Filter      catalog.Filter        `json:"filter"`
	Sort        catalog.Sort          `json:"sort"`
}

// BookDetail is one copy together with the other copies of the same logical book.
type BookDetail struct {
	Copy     *domain.Copy   `json:"book"`
	Siblings []*domain.Copy `json:"siblings"`
}

// ReadOnly reports whether the library is in public, read-only mode.
func (s *LibraryService) ReadOnly() bool {
	return s.readOnly
}

// ListBooks returns the grouped library view.
// Unknown filter or sort tokens fall back to "all" and "author".
func (s *LibraryService) ListBooks(ctx context.Context, filter, sort string) (*BookList, error) {
	copies, err := s.store.ListCopies(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list books")
	}

	f, o := catalog.ParseFilter(filter), catalog.ParseSort(sort)
	books, total := catalog.Apply(copies, f, o)

	return &BookList{
		Books:       books,
		TotalCopies: total,
		Filter:      f,
		Sort:        o,
	}, nil
}

// GetBook returns a copy and its siblings.
func (s *LibraryService) GetBook(ctx context.Context, id int64) (*BookDetail, error) {
	c, err := s.store.GetCopy(ctx, id)
	if err != nil {
		return nil, s.storeError(err, id, "failed to get book")
	}

	siblings, err := s.GetSiblings(ctx, c.Key(), c.ID)
	if err != nil {
		return nil, err
	}

	return &BookDetail{Copy: c, Siblings: siblings}, nil
}

// GetSiblings returns every copy of key other than excludeID, ordered by id.
func (s *LibraryService) GetSiblings(ctx context.Context, key domain.BookKey, excludeID int64) ([]*domain.Copy, error) {
	siblings, err := s.store.ListSiblings(ctx, key, excludeID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list siblings")
	}
	if siblings == nil {
		siblings = []*domain.Copy{}
	}
	return siblings, nil
}

// CreateBook adds a copy. With syncStatus, siblings take the new copy's status.
func (s *LibraryService) CreateBook(ctx context.Context, fields domain.CopyFields, syncStatus bool) (*domain.Copy, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}

	cleanFields(&fields)
	if err := s.validator.Validate(fields); err != nil {
		return nil, err
	}

	c, err := s.store.CreateCopy(ctx, &fields, syncStatus)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create book")
	}

	s.logger.Info("book created",
		"id", c.ID,
		"title", c.Title,
		"author", c.Author,
		"sync_status", syncStatus,
	)
	return c, nil
}

// UpdateBook replaces every field of a copy. With syncStatus, siblings take its status.
func (s *LibraryService) UpdateBook(ctx context.Context, id int64, fields domain.CopyFields, syncStatus bool) (*domain.Copy, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}

	cleanFields(&fields)
	if err := s.validator.Validate(fields); err != nil {
		return nil, err
	}

	c, err := s.store.UpdateCopy(ctx, id, &fields, syncStatus)
	if err != nil {
		return nil, s.storeError(err, id, "failed to update book")
	}

	s.logger.Info("book updated", "id", id, "sync_status", syncStatus)
	return c, nil
}

// DeleteBook removes a copy. Deleting a copy that does not exist succeeds.
func (s *LibraryService) DeleteBook(ctx context.Context, id int64) error {
	if err := s.checkWritable(); err != nil {
		return err
	}

	if err := s.store.DeleteCopy(ctx, id); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to delete book")
	}

	s.logger.Info("book deleted", "id", id)
	return nil
}

// MarkNoISBN records that a copy was never issued an ISBN.
func (s *LibraryService) MarkNoISBN(ctx context.Context, id int64) error {
	if err := s.checkWritable(); err != nil {
		return err
	}

	if err := s.store.MarkNoISBN(ctx, id); err != nil {
		return s.storeError(err, id, "failed to mark book")
	}

	s.logger.Info("book marked as having no isbn", "id", id)
	return nil
}

// UpdateDimensions overwrites the physical measurements of a copy.
// Nil values clear the stored measurement.
func (s *LibraryService) UpdateDimensions(ctx context.Context, id int64, dims domain.Dimensions) error {
	if err := s.checkWritable(); err != nil {
		return err
	}

	if err := s.store.UpdateDimensions(ctx, id, dims); err != nil {
		return s.storeError(err, id, "failed to update dimensions")
	}

	s.logger.Debug("dimensions updated", "id", id)
	return nil
}

// Audit lists the copies with incomplete records. It is an admin view.
func (s *LibraryService) Audit(ctx context.Context) (*domain.AuditReport, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}

	missingISBN, err := s.store.ListMissingISBN(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to audit isbns")
	}
	missingDims, err := s.store.ListMissingDimensions(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to audit dimensions")
	}

	report := &domain.AuditReport{
		MissingISBN:       missingISBN,
		MissingDimensions: missingDims,
	}
	if report.MissingISBN == nil {
		report.MissingISBN = []*domain.Copy{}
	}
	if report.MissingDimensions == nil {
		report.MissingDimensions = []*domain.Copy{}
	}
	slices.SortFunc(report.MissingDimensions, catalog.CompareCopies)
	return report, nil
}

func (s *LibraryService) checkWritable() error {
	if s.readOnly {
		return domainerrors.ErrReadOnly
	}
	return nil
}

// storeError maps store failures for a single copy onto domain errors.
func (s *LibraryService) storeError(err error, id int64, msg string) error {
	if errors.Is(err, store.ErrCopyNotFound) {
		return domainerrors.NotFoundf("book %d not found", id)
	}
	return domainerrors.Wrap(err, domainerrors.CodeInternal, msg)
}

// cleanFields applies the form conventions for "no value".
func cleanFields(f *domain.CopyFields) {
	f.ISBN = normalize.ISBNInput(f.ISBN)
	f.SeriesTitle = normalize.OptionalText(f.SeriesTitle)
}
