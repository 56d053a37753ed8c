package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
	domainerrors "github.com/shelfkeeper/shelfkeeper-server/internal/errors"
	"github.com/shelfkeeper/shelfkeeper-server/internal/normalize"
	"github.com/shelfkeeper/shelfkeeper-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the library grouped into logical books, filtered and sorted",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns one copy and the other copies of the same book",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Add book",
		Description:   "Adds a copy, optionally syncing its status to the other copies",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}",
		Summary:     "Edit book",
		Description: "Replaces every field of a copy, optionally syncing its status",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a single copy",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "markNoISBN",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/no-isbn",
		Summary:     "Mark as having no ISBN",
		Description: "Removes the copy from the missing ISBN audit",
		Tags:        []string{"Audit"},
	}, s.handleMarkNoISBN)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateDimensions",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}/dimensions",
		Summary:     "Update dimensions",
		Description: "Overwrites height, width and weight; empty values clear them",
		Tags:        []string{"Audit"},
	}, s.handleUpdateDimensions)
}

// === DTOs ===

// ListBooksInput contains the sort and filter tokens.
type ListBooksInput struct {
	Sort   string `query:"sort" doc:"author, newest, oldest, title, year_asc or year_desc (default author)"`
	Filter string `query:"filter" doc:"all, read, tbr, dnf or signed (default all)"`
}

// BookListOutput wraps the library listing for Huma.
type BookListOutput struct {
	Body *service.BookList
}

// BookIDInput identifies a copy.
type BookIDInput struct {
	ID int64 `path:"id" doc:"Copy ID"`
}

// BookDetailOutput wraps a copy with its siblings for Huma.
type BookDetailOutput struct {
	Body *service.BookDetail
}

// BookRequest is the add/edit form. Numbers are accepted as text, the way a
// form submits them: empty means unset and anything non-numeric is rejected.
type BookRequest struct {
	Title         string `json:"title,omitempty" doc:"Title (required)"`
	Author        string `json:"author,omitempty" doc:"Author, usually \"Last, First\" (required)"`
	SeriesTitle   string `json:"series_title,omitempty" doc:"Series title"`
	SeriesNumber  string `json:"series_number,omitempty" doc:"Position in the series, may be fractional"`
	ISBN          string `json:"isbn,omitempty" doc:"ISBN; \"none\" clears it"`
	Publisher     string `json:"publisher,omitempty" doc:"Publisher"`
	Binding       string `json:"binding,omitempty" doc:"Binding, e.g. Hardcover"`
	PageCount     string `json:"page_count,omitempty" doc:"Number of pages"`
	PublishedYear string `json:"published_year,omitempty" doc:"Year of publication"`
	Height        string `json:"height,omitempty" doc:"Height in mm"`
	Width         string `json:"width,omitempty" doc:"Width in mm"`
	Weight        string `json:"weight,omitempty" doc:"Weight in g"`
	Notes         string `json:"notes,omitempty" doc:"Free-form notes"`
	CoverURL      string `json:"cover_url,omitempty" doc:"Cover image URL"`
	Status        string `json:"status,omitempty" doc:"Read, To Read, DNF or empty"`
	Signed        bool   `json:"signed,omitempty" doc:"Signed copy"`
	SyncStatus    bool   `json:"sync_status,omitempty" doc:"Apply this status to every other copy of the book"`
}

// CreateBookInput wraps the add form for Huma.
type CreateBookInput struct {
	Body BookRequest
}

// UpdateBookInput wraps the edit form for Huma.
type UpdateBookInput struct {
	ID   int64 `path:"id" doc:"Copy ID"`
	Body BookRequest
}

// BookOutput wraps a copy for Huma.
type BookOutput struct {
	Body *domain.Copy
}

// DimensionsRequest is the inline audit edit. Empty values clear the measurement.
type DimensionsRequest struct {
	Height string `json:"height,omitempty" doc:"Height in mm"`
	Width  string `json:"width,omitempty" doc:"Width in mm"`
	Weight string `json:"weight,omitempty" doc:"Weight in g"`
}

// UpdateDimensionsInput wraps the dimensions edit for Huma.
type UpdateDimensionsInput struct {
	ID   int64 `path:"id" doc:"Copy ID"`
	Body DimensionsRequest
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookListOutput, error) {
	list, err := s.services.Library.ListBooks(ctx, input.Filter, input.Sort)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: list}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookDetailOutput, error) {
	detail, err := s.services.Library.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookDetailOutput{Body: detail}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	if err := s.requireWritable(); err != nil {
		return nil, err
	}

	fields, err := input.Body.toFields()
	if err != nil {
		return nil, err
	}

	c, err := s.services.Library.CreateBook(ctx, fields, input.Body.SyncStatus)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: c}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if err := s.requireWritable(); err != nil {
		return nil, err
	}

	fields, err := input.Body.toFields()
	if err != nil {
		return nil, err
	}

	c, err := s.services.Library.UpdateBook(ctx, input.ID, fields, input.Body.SyncStatus)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: c}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*MessageOutput, error) {
	if err := s.services.Library.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

func (s *Server) handleMarkNoISBN(ctx context.Context, input *BookIDInput) (*MessageOutput, error) {
	if err := s.services.Library.MarkNoISBN(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Book marked as having no ISBN"}}, nil
}

func (s *Server) handleUpdateDimensions(ctx context.Context, input *UpdateDimensionsInput) (*MessageOutput, error) {
	if err := s.requireWritable(); err != nil {
		return nil, err
	}

	dims, err := input.Body.toDimensions()
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.UpdateDimensions(ctx, input.ID, dims); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Dimensions updated"}}, nil
}

// requireWritable rejects writes before any input is parsed.
func (s *Server) requireWritable() error {
	if s.services.Library.ReadOnly() {
		return domainerrors.ErrReadOnly
	}
	return nil
}

// === Form coercion ===

// numberParser collects coercion failures keyed by JSON field name.
type numberParser struct {
	details map[string]string
}

func (p *numberParser) wholeNumber(field, raw string) *int {
	v, err := normalize.OptionalInt(raw)
	if err != nil {
		p.fail(field, domain.KindInt)
	}
	return v
}

func (p *numberParser) number(field, raw string) *float64 {
	v, err := normalize.OptionalFloat(raw)
	if err != nil {
		p.fail(field, domain.KindFloat)
	}
	return v
}

func (p *numberParser) fail(field string, kind domain.FieldKind) {
	if p.details == nil {
		p.details = make(map[string]string)
	}
	p.details[field] = "must be a " + kind.String()
}

func (p *numberParser) err() error {
	if len(p.details) == 0 {
		return nil
	}
	return domainerrors.ValidationWithDetails("validation failed: numeric fields", p.details)
}

func (r *BookRequest) toFields() (domain.CopyFields, error) {
	var p numberParser
	fields := domain.CopyFields{
		Title:         r.Title,
		Author:        r.Author,
		SeriesTitle:   r.SeriesTitle,
		SeriesNumber:  p.number("series_number", r.SeriesNumber),
		ISBN:          r.ISBN,
		Publisher:     r.Publisher,
		Binding:       r.Binding,
		PageCount:     p.wholeNumber("page_count", r.PageCount),
		PublishedYear: p.wholeNumber("published_year", r.PublishedYear),
		Height:        p.number("height", r.Height),
		Width:         p.number("width", r.Width),
		Weight:        p.number("weight", r.Weight),
		Notes:         r.Notes,
		CoverURL:      r.CoverURL,
		Status:        domain.Status(r.Status),
		Signed:        r.Signed,
	}
	return fields, p.err()
}

func (r *DimensionsRequest) toDimensions() (domain.Dimensions, error) {
	var p numberParser
	dims := domain.Dimensions{
		Height: p.number("height", r.Height),
		Width:  p.number("width", r.Width),
		Weight: p.number("weight", r.Weight),
	}
	return dims, p.err()
}
