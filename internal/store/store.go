// Package store defines the persistence interface for the Shelfkeeper server.
package store

import (
	"context"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
)

// Store defines the persistence operations over physical copies.
// Every method returns fresh copies; callers may mutate what they receive.
type Store interface {
	Close() error
	Ping(ctx context.Context) error

	// CreateCopy inserts a copy. When syncStatus is set, every other copy with the same
	// (title, author) takes the new copy's status in the same transaction.
	CreateCopy(ctx context.Context, fields *domain.CopyFields, syncStatus bool) (*domain.Copy, error)
	// UpdateCopy replaces every editable field of a copy, with the same sync rule as
	// CreateCopy. The no_isbn flag is only set by MarkNoISBN.
	UpdateCopy(ctx context.Context, id int64, fields *domain.CopyFields, syncStatus bool) (*domain.Copy, error)
	GetCopy(ctx context.Context, id int64) (*domain.Copy, error)
	ListCopies(ctx context.Context) ([]*domain.Copy, error)
	// ListSiblings returns the copies sharing key, except excludeID, ordered by id.
	ListSiblings(ctx context.Context, key domain.BookKey, excludeID int64) ([]*domain.Copy, error)
	// KnownStatus returns the first set status among copies with key, or StatusUnset.
	KnownStatus(ctx context.Context, key domain.BookKey) (domain.Status, error)
	DeleteCopy(ctx context.Context, id int64) error
	MarkNoISBN(ctx context.Context, id int64) error
	UpdateDimensions(ctx context.Context, id int64, dims domain.Dimensions) error

	// Audit
	ListMissingISBN(ctx context.Context) ([]*domain.Copy, error)
	ListMissingDimensions(ctx context.Context) ([]*domain.Copy, error)

	// UpdateField writes a single editable column. value must be nil, string, int or float64
	// to match the column's type.
	UpdateField(ctx context.Context, id int64, field string, value any) error
}
