package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
	"github.com/shelfkeeper/shelfkeeper-server/internal/store"
)

// copyColumns is the ordered list of columns selected in copy queries.
// Must match the scan order in scanCopy.
const copyColumns = `id, title, author, isbn, publisher, binding,
	page_count, published_year, series_title, series_number,
	height, width, weight, notes, cover_url,
	read_status, is_signed, no_isbn`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanCopy scans a sql.Row (or sql.Rows via its Scan method) into a domain.Copy.
func scanCopy(scanner interface{ Scan(dest ...any) error }) (*domain.Copy, error) {
	var c domain.Copy

	var (
		isbn          sql.NullString
		publisher     sql.NullString
		binding       sql.NullString
		pageCount     sql.NullInt64
		publishedYear sql.NullInt64
		seriesTitle   sql.NullString
		seriesNumber  sql.NullFloat64
		height        sql.NullFloat64
		width         sql.NullFloat64
		weight        sql.NullFloat64
		notes         sql.NullString
		coverURL      sql.NullString
		status        sql.NullString
		signed        sql.NullInt64
		noISBN        sql.NullInt64
	)

	err := scanner.Scan(
		&c.ID,
		&c.Title,
		&c.Author,
		&isbn,
		&publisher,
		&binding,
		&pageCount,
		&publishedYear,
		&seriesTitle,
		&seriesNumber,
		&height,
		&width,
		&weight,
		&notes,
		&coverURL,
		&status,
		&signed,
		&noISBN,
	)
	if err != nil {
		return nil, err
	}

	c.ISBN = isbn.String
	c.Publisher = publisher.String
	c.Binding = binding.String
	c.PageCount = intPtr(pageCount)
	c.PublishedYear = intPtr(publishedYear)
	c.SeriesTitle = seriesTitle.String
	c.SeriesNumber = floatPtr(seriesNumber)
	c.Height = floatPtr(height)
	c.Width = floatPtr(width)
	c.Weight = floatPtr(weight)
	c.Notes = notes.String
	c.CoverURL = coverURL.String
	c.Status = domain.Status(status.String)
	c.Signed = signed.Int64 != 0
	c.NoISBN = noISBN.Int64 != 0

	return &c, nil
}

// fieldArgs returns the editable columns in insert order. no_isbn is not among them;
// after insert it only changes through MarkNoISBN.
func fieldArgs(f *domain.CopyFields) []any {
	return []any{
		f.Title,
		f.Author,
		nullString(f.ISBN),
		nullString(f.Publisher),
		nullString(f.Binding),
		nullInt(f.PageCount),
		nullInt(f.PublishedYear),
		nullString(f.SeriesTitle),
		nullFloat(f.SeriesNumber),
		nullFloat(f.Height),
		nullFloat(f.Width),
		nullFloat(f.Weight),
		nullString(f.Notes),
		nullString(f.CoverURL),
		nullString(string(f.Status)),
		boolToInt(f.Signed),
	}
}

// CreateCopy inserts a new copy and, when syncStatus is set, copies its status
// to every sibling. Both writes share one transaction.
func (s *Store) CreateCopy(ctx context.Context, fields *domain.CopyFields, syncStatus bool) (*domain.Copy, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO books (
			title, author, isbn, publisher, binding,
			page_count, published_year, series_title, series_number,
			height, width, weight, notes, cover_url,
			read_status, is_signed, no_isbn
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		append(fieldArgs(fields), boolToInt(fields.NoISBN))...,
	)
	if err != nil {
		return nil, fmt.Errorf("insert copy: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if syncStatus {
		if err := s.syncSiblingStatus(ctx, tx, id, fields.Key(), fields.Status); err != nil {
			return nil, err
		}
	}

	c, err := getCopy(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return c, tx.Commit()
}

// UpdateCopy overwrites every editable field of an existing copy and optionally syncs
// the status to its siblings, in one transaction. The no_isbn flag is left alone.
// Returns store.ErrCopyNotFound if the copy does not exist.
func (s *Store) UpdateCopy(ctx context.Context, id int64, fields *domain.CopyFields, syncStatus bool) (*domain.Copy, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	args := append(fieldArgs(fields), id)
	res, err := tx.ExecContext(ctx, `
		UPDATE books SET
			title = ?, author = ?, isbn = ?, publisher = ?, binding = ?,
			page_count = ?, published_year = ?, series_title = ?, series_number = ?,
			height = ?, width = ?, weight = ?, notes = ?, cover_url = ?,
			read_status = ?, is_signed = ?
		WHERE id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update copy: %w", err)
	}
	if err := expectRow(res); err != nil {
		return nil, err
	}

	if syncStatus {
		if err := s.syncSiblingStatus(ctx, tx, id, fields.Key(), fields.Status); err != nil {
			return nil, err
		}
	}

	c, err := getCopy(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return c, tx.Commit()
}

// syncSiblingStatus sets status on every copy of key except the edited one.
// An unset status is propagated as NULL.
func (s *Store) syncSiblingStatus(ctx context.Context, tx *sql.Tx, id int64, key domain.BookKey, status domain.Status) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE books SET read_status = ? WHERE title = ? AND author = ? AND id != ?`,
		nullString(string(status)), key.Title, key.Author, id)
	if err != nil {
		return fmt.Errorf("sync sibling status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Debug("synced sibling status",
			"id", id,
			"title", key.Title,
			"author", key.Author,
			"status", string(status),
			"siblings", n,
		)
	}
	return nil
}

// GetCopy retrieves a copy by id.
func (s *Store) GetCopy(ctx context.Context, id int64) (*domain.Copy, error) {
	return getCopy(ctx, s.db, id)
}

func getCopy(ctx context.Context, q querier, id int64) (*domain.Copy, error) {
	row := q.QueryRowContext(ctx, `SELECT `+copyColumns+` FROM books WHERE id = ?`, id)

	c, err := scanCopy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCopyNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCopies returns every copy ordered by id.
func (s *Store) ListCopies(ctx context.Context) ([]*domain.Copy, error) {
	return s.queryCopies(ctx, `SELECT `+copyColumns+` FROM books ORDER BY id`)
}

// ListSiblings returns the other copies of the same logical book, oldest first.
func (s *Store) ListSiblings(ctx context.Context, key domain.BookKey, excludeID int64) ([]*domain.Copy, error) {
	return s.queryCopies(ctx,
		`SELECT `+copyColumns+` FROM books WHERE title = ? AND author = ? AND id != ? ORDER BY id`,
		key.Title, key.Author, excludeID)
}

// KnownStatus returns the status of the lowest-id copy of key that has one.
func (s *Store) KnownStatus(ctx context.Context, key domain.BookKey) (domain.Status, error) {
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT read_status FROM books
		WHERE title = ? AND author = ? AND read_status IS NOT NULL AND read_status != ''
		ORDER BY id
		LIMIT 1`,
		key.Title, key.Author,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StatusUnset, nil
	}
	if err != nil {
		return domain.StatusUnset, fmt.Errorf("query known status: %w", err)
	}
	return domain.Status(status), nil
}

// DeleteCopy removes a copy. Deleting a missing copy is not an error.
func (s *Store) DeleteCopy(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete copy: %w", err)
	}
	return nil
}

// MarkNoISBN records that a copy has no ISBN, removing it from the ISBN audit.
func (s *Store) MarkNoISBN(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE books SET no_isbn = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark no isbn: %w", err)
	}
	return expectRow(res)
}

// UpdateDimensions overwrites height, width and weight. Nil values clear the column.
func (s *Store) UpdateDimensions(ctx context.Context, id int64, dims domain.Dimensions) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET height = ?, width = ?, weight = ? WHERE id = ?`,
		nullFloat(dims.Height), nullFloat(dims.Width), nullFloat(dims.Weight), id)
	if err != nil {
		return fmt.Errorf("update dimensions: %w", err)
	}
	return expectRow(res)
}

// ListMissingISBN returns copies with no ISBN that were not marked as having none.
func (s *Store) ListMissingISBN(ctx context.Context) ([]*domain.Copy, error) {
	return s.queryCopies(ctx, `
		SELECT `+copyColumns+` FROM books
		WHERE (isbn IS NULL OR isbn = '')
		AND (no_isbn IS NULL OR no_isbn = 0)
		ORDER BY author, title, id`)
}

// ListMissingDimensions returns copies whose height or width is unset or zero,
// in library order.
func (s *Store) ListMissingDimensions(ctx context.Context) ([]*domain.Copy, error) {
	return s.queryCopies(ctx, `
		SELECT `+copyColumns+` FROM books
		WHERE (height IS NULL OR height = 0)
		OR (width IS NULL OR width = 0)
		ORDER BY author, series_title, series_number, title, id`)
}

// UpdateField writes one editable column of a copy.
func (s *Store) UpdateField(ctx context.Context, id int64, column string, value any) error {
	field, ok := domain.LookupEditableField(column)
	if !ok {
		return store.ErrInvalidField.WithCause(fmt.Errorf("column %q", column))
	}

	arg, err := columnValue(field, value)
	if err != nil {
		return err
	}

	// field.Column comes from the fixed whitelist, never from input.
	res, err := s.db.ExecContext(ctx, `UPDATE books SET `+field.Column+` = ? WHERE id = ?`, arg, id)
	if err != nil {
		return fmt.Errorf("update %s: %w", field.Column, err)
	}
	return expectRow(res)
}

// columnValue checks value against the field kind and converts it to a driver argument.
func columnValue(field domain.EditableField, value any) (any, error) {
	required := field.Column == "title" || field.Column == "author"

	if value == nil {
		if required {
			return nil, store.ErrRequiredField
		}
		return nil, nil
	}

	switch field.Kind {
	case domain.KindText:
		v, ok := value.(string)
		if !ok {
			break
		}
		if required && v == "" {
			return nil, store.ErrRequiredField
		}
		return nullString(v), nil
	case domain.KindInt:
		if v, ok := value.(int); ok {
			return int64(v), nil
		}
	case domain.KindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
	}
	return nil, store.ErrFieldType.WithCause(fmt.Errorf("%s expects a %s, got %T", field.Column, field.Kind, value))
}

func (s *Store) queryCopies(ctx context.Context, query string, args ...any) ([]*domain.Copy, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var copies []*domain.Copy
	for rows.Next() {
		c, err := scanCopy(rows)
		if err != nil {
			return nil, err
		}
		copies = append(copies, c)
	}
	return copies, rows.Err()
}

// expectRow turns a write that touched nothing into store.ErrCopyNotFound.
func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrCopyNotFound
	}
	return nil
}
