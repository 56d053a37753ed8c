package domain

// UnknownFormat is shown when no copy of a logical book has a binding.
const UnknownFormat = "Unknown"

// LogicalBook aggregates every copy sharing the same title and author.
// It is never persisted; it is recomputed on each read.
type LogicalBook struct {
	// ID is the smallest copy ID in the group and is used for linking.
	ID int64 `json:"id"`
	// LatestID is the largest copy ID, used by the "newest" ordering.
	LatestID            int64    `json:"latest_id"`
	Title               string   `json:"title"`
	Author              string   `json:"author"`
	SeriesTitle         string   `json:"series_title,omitempty"`
	SeriesNumber        *float64 `json:"series_number,omitempty"`
	PublishedYear       *int     `json:"published_year,omitempty"`
	LatestPublishedYear *int     `json:"latest_published_year,omitempty"`
	CopyCount           int      `json:"copy_count"`
	DisplayFormats      string   `json:"display_formats"`
}

// Key returns the grouping key of the logical book.
func (b *LogicalBook) Key() BookKey {
	return BookKey{Title: b.Title, Author: b.Author}
}

// LookupResult is the outcome of an ISBN metadata lookup.
// When Found is false every other field is zero.
type LookupResult struct {
	Found           bool   `json:"found"`
	ISBN            string `json:"isbn,omitempty"`
	Title           string `json:"title,omitempty"`
	Author          string `json:"author,omitempty"`
	PublishedYear   *int   `json:"published_year,omitempty"`
	PageCount       *int   `json:"page_count,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	CoverURL        string `json:"cover_url,omitempty"`
	SuggestedStatus Status `json:"suggested_status"`
}

// AuditReport lists the copies whose records are incomplete.
type AuditReport struct {
	MissingISBN       []*Copy `json:"missing_isbn"`
	MissingDimensions []*Copy `json:"missing_dimensions"`
}
