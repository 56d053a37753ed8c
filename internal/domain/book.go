// Package domain contains the core entities of the Shelfkeeper personal library.
package domain

// Copy is one physical book on the shelf.
// Several copies of the same logical book (exact same title and author) may exist,
// each with its own binding, dimensions and read status.
type Copy struct {
	ID int64 `json:"id"`
	CopyFields
}

// CopyFields holds every user-editable field of a copy.
// Optional strings use "" for unset; optional numbers use nil.
type CopyFields struct {
	Title         string   `json:"title" validate:"notblank"`
	Author        string   `json:"author" validate:"notblank"`
	SeriesTitle   string   `json:"series_title,omitempty"`
	SeriesNumber  *float64 `json:"series_number,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	Binding       string   `json:"binding,omitempty"`
	PageCount     *int     `json:"page_count,omitempty"`
	PublishedYear *int     `json:"published_year,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	Width         *float64 `json:"width,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Status        Status   `json:"status,omitempty" validate:"bookstatus"`
	Signed        bool     `json:"signed"`
	NoISBN        bool     `json:"no_isbn"`
}

// Key returns the grouping key shared by all copies of the same logical book.
func (f *CopyFields) Key() BookKey {
	return BookKey{Title: f.Title, Author: f.Author}
}

// MissingDimensions reports whether the shelf-audit should flag this copy.
// A zero height or width counts as missing.
func (c *Copy) MissingDimensions() bool {
	return c.Height == nil || *c.Height == 0 || c.Width == nil || *c.Width == 0
}

// MissingISBN reports whether the copy lacks an ISBN without having been
// explicitly marked as never having one.
func (c *Copy) MissingISBN() bool {
	return c.ISBN == "" && !c.NoISBN
}

// BookKey identifies a logical book. Matching is exact: no trimming or case folding.
type BookKey struct {
	Title  string
	Author string
}

// Dimensions is the physical size of a copy, as captured during a shelf audit.
type Dimensions struct {
	Height *float64 `json:"height"`
	Width  *float64 `json:"width"`
	Weight *float64 `json:"weight"`
}
