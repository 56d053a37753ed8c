package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
)

// Filter selects which copies take part in the listing.
// Filters are applied to individual copies before grouping, so a logical book's
// aggregates only cover the copies that matched.
type Filter string

// Supported filters.
const (
	FilterAll    Filter = "all"
	FilterRead   Filter = "read"
	FilterTBR    Filter = "tbr"
	FilterDNF    Filter = "dnf"
	FilterSigned Filter = "signed"
)

// ParseFilter maps a query token to a Filter. Unknown tokens mean no filtering.
func ParseFilter(token string) Filter {
	switch f := Filter(token); f {
	case FilterRead, FilterTBR, FilterDNF, FilterSigned:
		return f
	default:
		return FilterAll
	}
}

// Status returns the status a status filter selects on, and false for
// filters that do not look at the status.
func (f Filter) Status() (domain.Status, bool) {
	switch f {
	case FilterRead:
		return domain.StatusRead, true
	case FilterTBR:
		return domain.StatusToRead, true
	case FilterDNF:
		return domain.StatusDNF, true
	default:
		return domain.StatusUnset, false
	}
}

// Match reports whether a copy passes the filter.
func (f Filter) Match(c *domain.Copy) bool {
	if status, ok := f.Status(); ok {
		return c.Status == status
	}
	if f == FilterSigned {
		return c.Signed
	}
	return true
}

// Sort names an ordering of logical books.
type Sort string

// Supported orderings. SortAuthor is the canonical library order and the default.
const (
	SortAuthor   Sort = "author"
	SortNewest   Sort = "newest"
	SortOldest   Sort = "oldest"
	SortTitle    Sort = "title"
	SortYearAsc  Sort = "year_asc"
	SortYearDesc Sort = "year_desc"
)

// ParseSort maps a query token to a Sort. Unknown tokens fall back to SortAuthor.
func ParseSort(token string) Sort {
	switch s := Sort(token); s {
	case SortNewest, SortOldest, SortTitle, SortYearAsc, SortYearDesc:
		return s
	default:
		return SortAuthor
	}
}

// Apply filters the copies, groups them and orders the groups.
// It returns the ordered logical books and the number of physical copies they hold.
func Apply(copies []*domain.Copy, filter Filter, order Sort) ([]*domain.LogicalBook, int) {
	matched := make([]*domain.Copy, 0, len(copies))
	for _, c := range copies {
		if filter.Match(c) {
			matched = append(matched, c)
		}
	}

	books := Group(matched)
	SortBooks(books, order)
	return books, TotalCopies(books)
}

// SortBooks orders logical books in place.
// Every ordering ends with the canonical chain and the representative ID,
// so the result is fully determined by the input set.
func SortBooks(books []*domain.LogicalBook, order Sort) {
	slices.SortStableFunc(books, comparator(order))
}

func comparator(order Sort) func(a, b *domain.LogicalBook) int {
	switch order {
	case SortNewest:
		return func(a, b *domain.LogicalBook) int {
			return cmp.Or(cmp.Compare(b.LatestID, a.LatestID), canonical(a, b))
		}
	case SortOldest:
		return func(a, b *domain.LogicalBook) int {
			return cmp.Or(cmp.Compare(a.ID, b.ID), canonical(a, b))
		}
	case SortTitle:
		return func(a, b *domain.LogicalBook) int {
			return cmp.Or(strings.Compare(a.Title, b.Title), canonical(a, b))
		}
	case SortYearAsc:
		return func(a, b *domain.LogicalBook) int {
			return cmp.Or(compareNilLast(a.PublishedYear, b.PublishedYear, false), canonical(a, b))
		}
	case SortYearDesc:
		return func(a, b *domain.LogicalBook) int {
			return cmp.Or(compareNilLast(a.LatestPublishedYear, b.LatestPublishedYear, true), canonical(a, b))
		}
	default:
		return canonical
	}
}

// canonical is the library order: author, series, position in series, title.
// A missing series title or number sorts before present ones.
func canonical(a, b *domain.LogicalBook) int {
	return cmp.Or(
		strings.Compare(a.Author, b.Author),
		strings.Compare(a.SeriesTitle, b.SeriesTitle),
		compareNilFirst(a.SeriesNumber, b.SeriesNumber),
		strings.Compare(a.Title, b.Title),
		cmp.Compare(a.ID, b.ID),
	)
}

// CompareCopies orders individual copies in canonical library order, then by ID.
func CompareCopies(a, b *domain.Copy) int {
	return cmp.Or(
		strings.Compare(a.Author, b.Author),
		strings.Compare(a.SeriesTitle, b.SeriesTitle),
		compareNilFirst(a.SeriesNumber, b.SeriesNumber),
		strings.Compare(a.Title, b.Title),
		cmp.Compare(a.ID, b.ID),
	)
}

func compareNilFirst[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

// compareNilLast places nil after every value regardless of direction.
func compareNilLast[T cmp.Ordered](a, b *T, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case desc:
		return cmp.Compare(*b, *a)
	default:
		return cmp.Compare(*a, *b)
	}
}
