package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditableFields_Order(t *testing.T) {
	columns := make([]string, len(EditableFields))
	for i, f := range EditableFields {
		columns[i] = f.Column
	}

	assert.Equal(t, []string{
		"title", "author", "series_title", "series_number", "publisher", "published_year",
		"page_count", "binding", "isbn", "height", "width", "weight", "cover_url", "notes",
	}, columns)
}

func TestLookupEditableField(t *testing.T) {
	f, ok := LookupEditableField("weight")
	assert.True(t, ok)
	assert.Equal(t, "Weight (g)", f.Label)
	assert.Equal(t, KindFloat, f.Kind)

	f, ok = LookupEditableField("published_year")
	assert.True(t, ok)
	assert.Equal(t, KindInt, f.Kind)

	for _, column := range []string{"read_status", "is_signed", "no_isbn", "id", "Title", ""} {
		_, ok := LookupEditableField(column)
		assert.False(t, ok, column)
	}
}

func TestCopy_FieldValue(t *testing.T) {
	c := &Copy{ID: 1, CopyFields: CopyFields{
		Title:        "Dune",
		Author:       "Herbert, Frank",
		SeriesNumber: ptr(1.5),
		PageCount:    ptr(896),
	}}

	assert.Equal(t, "Dune", c.FieldValue("title"))
	assert.Equal(t, 1.5, c.FieldValue("series_number"))
	assert.Equal(t, 896, c.FieldValue("page_count"))
	assert.Nil(t, c.FieldValue("publisher"))
	assert.Nil(t, c.FieldValue("published_year"))
	assert.Nil(t, c.FieldValue("weight"))
	assert.Nil(t, c.FieldValue("no_such_column"))

	for _, f := range EditableFields {
		assert.NotPanics(t, func() { c.FieldValue(f.Column) })
	}
}

func TestFieldKind_String(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "whole number", KindInt.String())
	assert.Equal(t, "number", KindFloat.String())
}
