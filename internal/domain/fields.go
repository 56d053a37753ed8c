package domain

// FieldKind is the storage type of an editable column.
type FieldKind int

// Field kinds.
const (
	KindText FieldKind = iota
	KindInt
	KindFloat
)

func (k FieldKind) String() string {
	switch k {
	case KindInt:
		return "whole number"
	case KindFloat:
		return "number"
	default:
		return "text"
	}
}

// EditableField describes a column that can be corrected one value at a time.
type EditableField struct {
	Column string
	Label  string
	Kind   FieldKind
}

// EditableFields is the fixed, ordered set of single-column corrections.
// Status and signed change through the regular edit flow; no_isbn only through MarkNoISBN.
var EditableFields = []EditableField{
	{Column: "title", Label: "Title", Kind: KindText},
	{Column: "author", Label: "Author", Kind: KindText},
	{Column: "series_title", Label: "Series Title", Kind: KindText},
	{Column: "series_number", Label: "Series Number", Kind: KindFloat},
	{Column: "publisher", Label: "Publisher", Kind: KindText},
	{Column: "published_year", Label: "Year", Kind: KindInt},
	{Column: "page_count", Label: "Page Count", Kind: KindInt},
	{Column: "binding", Label: "Binding", Kind: KindText},
	{Column: "isbn", Label: "ISBN", Kind: KindText},
	{Column: "height", Label: "Height (mm)", Kind: KindFloat},
	{Column: "width", Label: "Width (mm)", Kind: KindFloat},
	{Column: "weight", Label: "Weight (g)", Kind: KindFloat},
	{Column: "cover_url", Label: "Cover URL", Kind: KindText},
	{Column: "notes", Label: "Notes", Kind: KindText},
}

// LookupEditableField returns the editable field for a column name.
func LookupEditableField(column string) (EditableField, bool) {
	for _, f := range EditableFields {
		if f.Column == column {
			return f, true
		}
	}
	return EditableField{}, false
}

// FieldValue returns the current value of an editable column, or nil when unset.
func (c *Copy) FieldValue(column string) any {
	switch column {
	case "title":
		return textValue(c.Title)
	case "author":
		return textValue(c.Author)
	case "series_title":
		return textValue(c.SeriesTitle)
	case "series_number":
		return floatValue(c.SeriesNumber)
	case "publisher":
		return textValue(c.Publisher)
	case "published_year":
		return intValue(c.PublishedYear)
	case "page_count":
		return intValue(c.PageCount)
	case "binding":
		return textValue(c.Binding)
	case "isbn":
		return textValue(c.ISBN)
	case "height":
		return floatValue(c.Height)
	case "width":
		return floatValue(c.Width)
	case "weight":
		return floatValue(c.Weight)
	case "cover_url":
		return textValue(c.CoverURL)
	case "notes":
		return textValue(c.Notes)
	default:
		return nil
	}
}

func textValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func intValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
