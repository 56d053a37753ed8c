// Package catalog turns individual copies into the logical-book view of the library.
//
// Everything here is a pure function of its input: grouping, filtering and ordering
// never touch the store and never mutate the copies they are given.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
)

// Group aggregates copies into one LogicalBook per distinct (title, author).
// The result is ordered by representative ID.
func Group(copies []*domain.Copy) []*domain.LogicalBook {
	ordered := slices.Clone(copies)
	slices.SortFunc(ordered, func(a, b *domain.Copy) int {
		return cmp.Compare(a.ID, b.ID)
	})

	books := make([]*domain.LogicalBook, 0, len(ordered))
	index := make(map[domain.BookKey]int, len(ordered))
	formats := make(map[domain.BookKey]map[string]struct{}, len(ordered))

	for _, c := range ordered {
		key := c.Key()
		i, seen := index[key]
		if !seen {
			// Copies arrive in ID order, so the first one seen is the representative.
			books = append(books, &domain.LogicalBook{
				ID:           c.ID,
				Title:        c.Title,
				Author:       c.Author,
				SeriesTitle:  c.SeriesTitle,
				SeriesNumber: c.SeriesNumber,
			})
			i = len(books) - 1
			index[key] = i
			formats[key] = make(map[string]struct{})
		}

		b := books[i]
		b.CopyCount++
		b.LatestID = c.ID
		b.PublishedYear = minYear(b.PublishedYear, c.PublishedYear)
		b.LatestPublishedYear = maxYear(b.LatestPublishedYear, c.PublishedYear)

		if binding := strings.TrimSpace(c.Binding); binding != "" {
			formats[key][binding] = struct{}{}
		}
	}

	for _, b := range books {
		b.DisplayFormats = DisplayFormats(formats[b.Key()])
	}

	return books
}

// DisplayFormats renders a set of binding labels as a sorted, comma separated list.
func DisplayFormats(set map[string]struct{}) string {
	if len(set) == 0 {
		return domain.UnknownFormat
	}
	labels := make([]string, 0, len(set))
	for label := range set {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return strings.Join(labels, ", ")
}

// TotalCopies sums the copy counts of the given logical books.
func TotalCopies(books []*domain.LogicalBook) int {
	total := 0
	for _, b := range books {
		total += b.CopyCount
	}
	return total
}

func minYear(current, candidate *int) *int {
	if candidate == nil {
		return current
	}
	if current == nil || *candidate < *current {
		y := *candidate
		return &y
	}
	return current
}

func maxYear(current, candidate *int) *int {
	if candidate == nil {
		return current
	}
	if current == nil || *candidate > *current {
		y := *candidate
		return &y
	}
	return current
}
