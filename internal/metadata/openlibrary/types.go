// Package openlibrary provides an ISBN lookup client for the OpenLibrary Books API.
package openlibrary

// Record is the catalogue data extracted from one OpenLibrary edition.
type Record struct {
	ISBN          string
	Title         string
	Author        string // "Last, First" names joined with " & ", or "Unknown"
	PublishedYear *int
	PageCount     *int
	Publisher     string
	CoverURL      string
}

// bookResponse is one entry of the /api/books?jscmd=data response, keyed by "ISBN:<isbn>".
type bookResponse struct {
	Title         string       `json:"title"`
	Authors       []namedRef   `json:"authors"`
	Publishers    []namedRef   `json:"publishers"`
	PublishDate   string       `json:"publish_date"`
	NumberOfPages *int         `json:"number_of_pages"`
	Cover         *coverImages `json:"cover"`
}

type namedRef struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type coverImages struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}
