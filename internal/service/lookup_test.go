package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
	"github.com/shelfkeeper/shelfkeeper-server/internal/metadata/openlibrary"
)

// fakeSource records calls and returns a canned record or error.
type fakeSource struct {
	record *openlibrary.Record
	err    error
	calls  []string
}

func (f *fakeSource) Lookup(_ context.Context, isbn string) (*openlibrary.Record, error) {
	f.calls = append(f.calls, isbn)
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

var duneRecord = &openlibrary.Record{
	ISBN:          "9780441172719",
	Title:         "Dune",
	Author:        "Herbert, Frank",
	PublishedYear: ptr(1990),
	PageCount:     ptr(535),
	Publisher:     "Ace",
	CoverURL:      "https://covers.openlibrary.org/b/id/1-L.jpg",
}

func TestLookupService_Found(t *testing.T) {
	source := &fakeSource{record: duneRecord}
	svc := NewLookupService(source, setupTestStore(t), testLogger())

	result := svc.Lookup(context.Background(), "978-0-441-17271-9")

	require.True(t, result.Found)
	assert.Equal(t, []string{"9780441172719"}, source.calls)
	assert.Equal(t, "9780441172719", result.ISBN)
	assert.Equal(t, "Dune", result.Title)
	assert.Equal(t, "Herbert, Frank", result.Author)
	assert.Equal(t, 1990, *result.PublishedYear)
	assert.Equal(t, 535, *result.PageCount)
	assert.Equal(t, "Ace", result.Publisher)
	assert.Equal(t, duneRecord.CoverURL, result.CoverURL)
	assert.Equal(t, domain.StatusUnset, result.SuggestedStatus)
}

func TestLookupService_SuggestsKnownStatus(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	_, err := s.CreateCopy(ctx, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank"}, false)
	require.NoError(t, err)
	_, err = s.CreateCopy(ctx, &domain.CopyFields{Title: "Dune", Author: "Herbert, Frank", Status: domain.StatusRead}, false)
	require.NoError(t, err)

	svc := NewLookupService(&fakeSource{record: duneRecord}, s, testLogger())
	result := svc.Lookup(ctx, "9780441172719")

	require.True(t, result.Found)
	assert.Equal(t, domain.StatusRead, result.SuggestedStatus)
}

func TestLookupService_EmptyIdentifierSkipsSource(t *testing.T) {
	source := &fakeSource{record: duneRecord}
	svc := NewLookupService(source, setupTestStore(t), testLogger())

	for _, raw := range []string{"", "   ", "none", "ISBN: ---"} {
		result := svc.Lookup(context.Background(), raw)
		assert.False(t, result.Found, "input %q", raw)
	}
	assert.Empty(t, source.calls)
}

func TestLookupService_FailuresAreNotFound(t *testing.T) {
	for _, failure := range []error{
		openlibrary.ErrNotFound,
		fmt.Errorf("%w: connection refused", openlibrary.ErrUnavailable),
		fmt.Errorf("%w: 503", openlibrary.ErrUnexpectedStatus),
		fmt.Errorf("%w: unexpected EOF", openlibrary.ErrMalformed),
		fmt.Errorf("something else entirely"),
	} {
		t.Run(failure.Error(), func(t *testing.T) {
			svc := NewLookupService(&fakeSource{err: failure}, setupTestStore(t), testLogger())

			result := svc.Lookup(context.Background(), "9780441172719")

			assert.Equal(t, &domain.LookupResult{Found: false}, result)
		})
	}
}

func TestLookupService_StatusQueryFailureStillFound(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.Close())

	svc := NewLookupService(&fakeSource{record: duneRecord}, s, testLogger())
	result := svc.Lookup(context.Background(), "9780441172719")

	assert.True(t, result.Found)
	assert.Equal(t, domain.StatusUnset, result.SuggestedStatus)
}
