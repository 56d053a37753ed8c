package sqlite

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
	"github.com/shelfkeeper/shelfkeeper-server/internal/store"
)

func fields(title, author string) *domain.CopyFields {
	return &domain.CopyFields{Title: title, Author: author}
}

func ptr[T any](v T) *T { return &v }

func mustCreate(t *testing.T, s *Store, f *domain.CopyFields) *domain.Copy {
	t.Helper()
	c, err := s.CreateCopy(context.Background(), f, false)
	if err != nil {
		t.Fatalf("create copy %q: %v", f.Title, err)
	}
	return c
}

func TestCreateAndGetCopy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := &domain.CopyFields{
		Title:         "Dune",
		Author:        "Herbert, Frank",
		SeriesTitle:   "Dune",
		SeriesNumber:  ptr(1.0),
		ISBN:          "9780441172719",
		Publisher:     "Ace",
		Binding:       "Paperback",
		PageCount:     ptr(896),
		PublishedYear: ptr(1965),
		Height:        ptr(105.0),
		Width:         ptr(170.0),
		Weight:        ptr(300.0),
		Notes:         "The classic sci-fi novel.",
		CoverURL:      "https://covers.openlibrary.org/b/id/9253497-L.jpg",
		Status:        domain.StatusRead,
		Signed:        true,
	}

	created, err := s.CreateCopy(ctx, in, false)
	if err != nil {
		t.Fatalf("create copy: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	got, err := s.GetCopy(ctx, created.ID)
	if err != nil {
		t.Fatalf("get copy: %v", err)
	}
	if got.Title != "Dune" || got.Author != "Herbert, Frank" {
		t.Errorf("unexpected key: %q / %q", got.Title, got.Author)
	}
	if got.SeriesNumber == nil || *got.SeriesNumber != 1.0 {
		t.Errorf("series number = %v, want 1", got.SeriesNumber)
	}
	if got.PageCount == nil || *got.PageCount != 896 {
		t.Errorf("page count = %v, want 896", got.PageCount)
	}
	if got.Status != domain.StatusRead {
		t.Errorf("status = %q, want Read", got.Status)
	}
	if !got.Signed || got.NoISBN {
		t.Errorf("signed = %v, no_isbn = %v", got.Signed, got.NoISBN)
	}
	if got.Notes != in.Notes || got.CoverURL != in.CoverURL {
		t.Errorf("text fields not round-tripped: %+v", got)
	}
}

func TestCreateCopy_OptionalFieldsStayUnset(t *testing.T) {
	s := newTestStore(t)
	c := mustCreate(t, s, fields("Unknown Old Book", "Anonymous"))

	if c.SeriesNumber != nil || c.PageCount != nil || c.PublishedYear != nil || c.Height != nil {
		t.Errorf("expected nil numeric fields, got %+v", c)
	}
	if c.Status != domain.StatusUnset {
		t.Errorf("status = %q, want unset", c.Status)
	}

	var raw *string
	if err := s.db.QueryRow("SELECT read_status FROM books WHERE id = ?", c.ID).Scan(&raw); err != nil {
		t.Fatalf("query status: %v", err)
	}
	if raw != nil {
		t.Errorf("unset status stored as %q, want NULL", *raw)
	}
}

func TestGetCopy_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetCopy(context.Background(), 999)
	if !errors.Is(err, store.ErrCopyNotFound) {
		t.Errorf("expected ErrCopyNotFound, got %v", err)
	}
}

func TestCreateCopy_SyncStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Status: domain.StatusToRead})
	other := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Brian", Status: domain.StatusToRead})

	added, err := s.CreateCopy(ctx, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Status: domain.StatusRead}, true)
	if err != nil {
		t.Fatalf("create copy: %v", err)
	}

	got, _ := s.GetCopy(ctx, first.ID)
	if got.Status != domain.StatusRead {
		t.Errorf("sibling status = %q, want Read", got.Status)
	}
	got, _ = s.GetCopy(ctx, other.ID)
	if got.Status != domain.StatusToRead {
		t.Errorf("different author changed to %q", got.Status)
	}
	if added.Status != domain.StatusRead {
		t.Errorf("new copy status = %q", added.Status)
	}
}

func TestUpdateCopy_SyncStatusPropagatesOnlyStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Binding: "Hardcover", Status: domain.StatusRead})
	b := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Binding: "Paperback", Status: domain.StatusRead})
	c := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Binding: "Mass Market", Status: domain.StatusToRead})

	update := b.CopyFields
	update.Status = domain.StatusUnset
	update.Notes = "lent to a friend"
	if _, err := s.UpdateCopy(ctx, b.ID, &update, true); err != nil {
		t.Fatalf("update copy: %v", err)
	}

	for _, id := range []int64{a.ID, c.ID} {
		got, err := s.GetCopy(ctx, id)
		if err != nil {
			t.Fatalf("get copy: %v", err)
		}
		if got.Status != domain.StatusUnset {
			t.Errorf("copy %d status = %q, want unset", id, got.Status)
		}
		if got.Notes != "" {
			t.Errorf("copy %d notes changed to %q", id, got.Notes)
		}
	}

	got, _ := s.GetCopy(ctx, a.ID)
	if got.Binding != "Hardcover" {
		t.Errorf("sibling binding changed to %q", got.Binding)
	}
}

func TestUpdateCopy_WithoutSyncLeavesSiblings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Status: domain.StatusToRead})
	b := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Status: domain.StatusToRead})

	update := b.CopyFields
	update.Status = domain.StatusDNF
	if _, err := s.UpdateCopy(ctx, b.ID, &update, false); err != nil {
		t.Fatalf("update copy: %v", err)
	}

	got, _ := s.GetCopy(ctx, a.ID)
	if got.Status != domain.StatusToRead {
		t.Errorf("sibling status = %q, want To Read", got.Status)
	}
}

func TestUpdateCopy_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateCopy(context.Background(), 42, fields("Dune", "Herbert, Frank"), true)
	if !errors.Is(err, store.ErrCopyNotFound) {
		t.Errorf("expected ErrCopyNotFound, got %v", err)
	}
}

// failStatusWrites makes any status change on the given copy abort.
func failStatusWrites(t *testing.T, s *Store, id int64) {
	t.Helper()
	_, err := s.db.Exec(`
		CREATE TRIGGER fail_status_write BEFORE UPDATE OF read_status ON books
		WHEN OLD.id = ` + strconv.FormatInt(id, 10) + `
		BEGIN SELECT RAISE(ABORT, 'status locked'); END`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}
}

func TestCreateCopy_SyncFailureRollsBackInsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sibling := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Status: domain.StatusToRead})
	failStatusWrites(t, s, sibling.ID)

	_, err := s.CreateCopy(ctx, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Status: domain.StatusRead}, true)
	if err == nil {
		t.Fatal("expected the sibling sync to fail")
	}

	copies, err := s.ListCopies(ctx)
	if err != nil {
		t.Fatalf("list copies: %v", err)
	}
	if len(copies) != 1 || copies[0].ID != sibling.ID {
		t.Errorf("expected only the original copy after rollback, got %d copies", len(copies))
	}
	if copies[0].Status != domain.StatusToRead {
		t.Errorf("sibling status = %q, want To Read", copies[0].Status)
	}
}

func TestUpdateCopy_SyncFailureRollsBackEdit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	edited := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Status: domain.StatusToRead})
	sibling := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Status: domain.StatusToRead})
	failStatusWrites(t, s, sibling.ID)

	_, err := s.UpdateCopy(ctx, edited.ID, &domain.CopyFields{
		Title: "Dune", Author: "Herbert, Frank", Notes: "reread", Status: domain.StatusRead,
	}, true)
	if err == nil {
		t.Fatal("expected the sibling sync to fail")
	}

	got, err := s.GetCopy(ctx, edited.ID)
	if err != nil {
		t.Fatalf("get copy: %v", err)
	}
	if got.Status != domain.StatusToRead || got.Notes != "" {
		t.Errorf("primary edit not rolled back: status %q, notes %q", got.Status, got.Notes)
	}
}

func TestUpdateCopy_KeepsNoISBN(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := mustCreate(t, s, fields("Unknown Old Book", "Anonymous"))
	if err := s.MarkNoISBN(ctx, c.ID); err != nil {
		t.Fatalf("mark no isbn: %v", err)
	}

	got, err := s.UpdateCopy(ctx, c.ID, &domain.CopyFields{Title: "Unknown Old Book", Author: "Anonymous", Notes: "Found in attic."}, false)
	if err != nil {
		t.Fatalf("update copy: %v", err)
	}
	if !got.NoISBN {
		t.Error("an edit cleared no_isbn")
	}

	missing, err := s.ListMissingISBN(ctx)
	if err != nil {
		t.Fatalf("list missing isbn: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("expected no audit entries, got %d", len(missing))
	}
}

func TestListSiblings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, fields("Dune", "Herbert, Frank"))
	mustCreate(t, s, fields("Dune Messiah", "Herbert, Frank"))
	b := mustCreate(t, s, fields("Dune", "Herbert, Frank"))
	c := mustCreate(t, s, fields("Dune", "Herbert, Frank"))
	mustCreate(t, s, fields("dune", "Herbert, Frank"))

	siblings, err := s.ListSiblings(ctx, domain.BookKey{Title: "Dune", Author: "Herbert, Frank"}, b.ID)
	if err != nil {
		t.Fatalf("list siblings: %v", err)
	}
	if len(siblings) != 2 {
		t.Fatalf("expected 2 siblings, got %d", len(siblings))
	}
	if siblings[0].ID != a.ID || siblings[1].ID != c.ID {
		t.Errorf("siblings out of order: %d, %d", siblings[0].ID, siblings[1].ID)
	}
}

func TestKnownStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := domain.BookKey{Title: "Dune", Author: "Herbert, Frank"}

	status, err := s.KnownStatus(ctx, key)
	if err != nil {
		t.Fatalf("known status: %v", err)
	}
	if status != domain.StatusUnset {
		t.Errorf("expected unset for unknown book, got %q", status)
	}

	mustCreate(t, s, fields("Dune", "Herbert, Frank"))
	mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Status: domain.StatusDNF})

	status, err = s.KnownStatus(ctx, key)
	if err != nil {
		t.Fatalf("known status: %v", err)
	}
	if status != domain.StatusDNF {
		t.Errorf("expected DNF, got %q", status)
	}
}

func TestDeleteCopy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := mustCreate(t, s, fields("Dune", "Herbert, Frank"))
	if err := s.DeleteCopy(ctx, c.ID); err != nil {
		t.Fatalf("delete copy: %v", err)
	}
	if _, err := s.GetCopy(ctx, c.ID); !errors.Is(err, store.ErrCopyNotFound) {
		t.Errorf("expected ErrCopyNotFound after delete, got %v", err)
	}

	if err := s.DeleteCopy(ctx, c.ID); err != nil {
		t.Errorf("deleting a missing copy should succeed, got %v", err)
	}
}

func TestMarkNoISBN(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := mustCreate(t, s, fields("Unknown Old Book", "Anonymous"))
	if err := s.MarkNoISBN(ctx, c.ID); err != nil {
		t.Fatalf("mark no isbn: %v", err)
	}

	got, _ := s.GetCopy(ctx, c.ID)
	if !got.NoISBN {
		t.Error("expected no_isbn to be set")
	}

	if err := s.MarkNoISBN(ctx, 999); !errors.Is(err, store.ErrCopyNotFound) {
		t.Errorf("expected ErrCopyNotFound, got %v", err)
	}
}

func TestUpdateDimensions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Weight: ptr(300.0)})

	err := s.UpdateDimensions(ctx, c.ID, domain.Dimensions{Height: ptr(170.0), Width: ptr(105.0)})
	if err != nil {
		t.Fatalf("update dimensions: %v", err)
	}

	got, _ := s.GetCopy(ctx, c.ID)
	if got.Height == nil || *got.Height != 170 || got.Width == nil || *got.Width != 105 {
		t.Errorf("dimensions not stored: %v x %v", got.Height, got.Width)
	}
	if got.Weight != nil {
		t.Errorf("weight should be cleared, got %v", *got.Weight)
	}

	if err := s.UpdateDimensions(ctx, 999, domain.Dimensions{}); !errors.Is(err, store.ErrCopyNotFound) {
		t.Errorf("expected ErrCopyNotFound, got %v", err)
	}
}

func TestListMissingISBN(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", ISBN: "9780441172719"})
	mustCreate(t, s, &domain.CopyFields{Title: "Unknown Old Book", Author: "Anonymous", NoISBN: true})
	b := mustCreate(t, s, fields("The Hobbit", "Tolkien, J.R.R."))
	a := mustCreate(t, s, fields("Dune Messiah", "Herbert, Frank"))

	missing, err := s.ListMissingISBN(ctx)
	if err != nil {
		t.Fatalf("list missing isbn: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("expected 2 copies, got %d", len(missing))
	}
	if missing[0].ID != a.ID || missing[1].ID != b.ID {
		t.Errorf("unexpected order: %d, %d", missing[0].ID, missing[1].ID)
	}
}

func TestListMissingDimensions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Height: ptr(170.0), Width: ptr(105.0)})
	zero := mustCreate(t, s, &domain.CopyFields{Title: "Dune Messiah", Author: "Herbert, Frank", SeriesTitle: "Dune", Height: ptr(170.0), Width: ptr(0.0)})
	standalone := mustCreate(t, s, &domain.CopyFields{Title: "The Dosadi Experiment", Author: "Herbert, Frank"})
	anon := mustCreate(t, s, &domain.CopyFields{Title: "Unknown Old Book", Author: "Anonymous", Width: ptr(120.0)})

	missing, err := s.ListMissingDimensions(ctx)
	if err != nil {
		t.Fatalf("list missing dimensions: %v", err)
	}

	want := []int64{anon.ID, standalone.ID, zero.ID}
	if len(missing) != len(want) {
		t.Fatalf("expected %d copies, got %d", len(want), len(missing))
	}
	for i, id := range want {
		if missing[i].ID != id {
			t.Errorf("position %d: got id %d, want %d", i, missing[i].ID, id)
		}
	}
}

func TestUpdateField(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Publisher: "Ace"})

	steps := []struct {
		column string
		value  any
	}{
		{"series_number", 1.0},
		{"published_year", 1965},
		{"height", 170},
		{"publisher", nil},
		{"notes", "first edition"},
	}
	for _, step := range steps {
		if err := s.UpdateField(ctx, c.ID, step.column, step.value); err != nil {
			t.Fatalf("update %s: %v", step.column, err)
		}
	}

	got, _ := s.GetCopy(ctx, c.ID)
	if got.SeriesNumber == nil || *got.SeriesNumber != 1 {
		t.Errorf("series number = %v", got.SeriesNumber)
	}
	if got.PublishedYear == nil || *got.PublishedYear != 1965 {
		t.Errorf("published year = %v", got.PublishedYear)
	}
	if got.Height == nil || *got.Height != 170 {
		t.Errorf("height = %v", got.Height)
	}
	if got.Publisher != "" {
		t.Errorf("publisher should be cleared, got %q", got.Publisher)
	}
	if got.Notes != "first edition" {
		t.Errorf("notes = %q", got.Notes)
	}
}

func TestUpdateField_Rejections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, fields("Dune", "Herbert, Frank"))

	tests := []struct {
		name   string
		id     int64
		column string
		value  any
		want   error
	}{
		{"unknown column", c.ID, "id", 5, store.ErrInvalidField},
		{"status not editable", c.ID, "read_status", "Read", store.ErrInvalidField},
		{"injection", c.ID, "title = 'x'; --", "x", store.ErrInvalidField},
		{"clear title", c.ID, "title", nil, store.ErrRequiredField},
		{"empty author", c.ID, "author", "", store.ErrRequiredField},
		{"wrong type", c.ID, "page_count", "many", store.ErrFieldType},
		{"float for int", c.ID, "page_count", 1.5, store.ErrFieldType},
		{"missing copy", 999, "notes", "x", store.ErrCopyNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.UpdateField(ctx, tt.id, tt.column, tt.value)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	got, _ := s.GetCopy(ctx, c.ID)
	if got.Title != "Dune" || got.Author != "Herbert, Frank" {
		t.Errorf("copy changed by rejected updates: %+v", got)
	}
}
