// Package maintenance implements the interactive record editor used to fix
// individual fields of a copy from the terminal.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
	"github.com/shelfkeeper/shelfkeeper-server/internal/normalize"
	"github.com/shelfkeeper/shelfkeeper-server/internal/store"
)

// emptyMarker is shown for unset fields.
const emptyMarker = "[Empty]"

// Prompter reads one line of input. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// Store is the subset of the store the editor needs.
type Store interface {
	GetCopy(ctx context.Context, id int64) (*domain.Copy, error)
	UpdateField(ctx context.Context, id int64, column string, value any) error
}

type styles struct {
	banner  lipgloss.Style
	heading lipgloss.Style
	index   lipgloss.Style
	empty   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	rule    string
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		banner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		heading: r.NewStyle().Bold(true),
		index:   r.NewStyle().Foreground(lipgloss.Color("110")),
		empty:   r.NewStyle().Faint(true),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")),
		rule:    strings.Repeat("-", 30),
	}
}

// Editor walks the user through picking a copy and rewriting its fields one at a time.
type Editor struct {
	store  Store
	in     Prompter
	out    io.Writer
	styles styles
}

// NewEditor creates an editor reading from in and writing to out.
func NewEditor(st Store, in Prompter, out io.Writer) *Editor {
	return &Editor{
		store:  st,
		in:     in,
		out:    out,
		styles: newStyles(out),
	}
}

// Run loops until the user quits. End of input and Ctrl-C also end the session.
func (e *Editor) Run(ctx context.Context) error {
	e.println(e.styles.banner.Render("Library maintenance"))

	for {
		e.println("")
		input, err := e.in.Prompt("Enter book ID to edit (or 'q' to quit): ")
		if err != nil {
			return e.finish(err)
		}
		input = strings.TrimSpace(input)

		if strings.EqualFold(input, "q") {
			e.println("Goodbye.")
			return nil
		}

		id, err := strconv.ParseInt(input, 10, 64)
		if err != nil || id < 0 {
			e.println(e.styles.failure.Render("Invalid ID. Please enter a number."))
			continue
		}

		if err := e.editCopy(ctx, id); err != nil {
			return e.finish(err)
		}
	}
}

// finish turns an end of input into a clean exit.
func (e *Editor) finish(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
		e.println("")
		e.println("Goodbye.")
		return nil
	}
	return err
}

// editCopy edits one copy until the user goes back. The copy is re-read after every change.
func (e *Editor) editCopy(ctx context.Context, id int64) error {
	for {
		c, err := e.store.GetCopy(ctx, id)
		if errors.Is(err, store.ErrCopyNotFound) {
			e.println(e.styles.failure.Render(fmt.Sprintf("Book ID %d not found.", id)))
			return nil
		}
		if err != nil {
			return fmt.Errorf("load book %d: %w", id, err)
		}

		e.showCopy(c)

		choice, err := e.in.Prompt("Select a field number to edit (or 'b' for back): ")
		if err != nil {
			return err
		}
		choice = strings.TrimSpace(choice)

		if strings.EqualFold(choice, "b") {
			return nil
		}

		n, err := strconv.Atoi(choice)
		if err != nil || n < 0 || n >= len(domain.EditableFields) {
			e.println(e.styles.failure.Render("Invalid selection."))
			continue
		}

		if err := e.editField(ctx, c, domain.EditableFields[n]); err != nil {
			return err
		}
	}
}

func (e *Editor) showCopy(c *domain.Copy) {
	e.println("")
	e.println(e.styles.heading.Render("Editing: " + c.Title))
	e.println(fmt.Sprintf("ID: %d", c.ID))
	if needs := auditGaps(c); len(needs) > 0 {
		e.println(e.styles.failure.Render("Needs: " + strings.Join(needs, ", ")))
	}
	e.println(e.styles.rule)
	for i, f := range domain.EditableFields {
		e.println(fmt.Sprintf("%s %s: %s", e.styles.index.Render(fmt.Sprintf("[%d]", i)), f.Label, e.display(c.FieldValue(f.Column))))
	}
	e.println(e.styles.rule)
}

// auditGaps names what the shelf audit would still flag for c.
func auditGaps(c *domain.Copy) []string {
	var gaps []string
	if c.MissingISBN() {
		gaps = append(gaps, "ISBN")
	}
	if c.MissingDimensions() {
		gaps = append(gaps, "dimensions")
	}
	return gaps
}

// editField prompts for one value and writes it immediately. Only I/O errors are returned;
// bad input and rejected writes are reported and the loop continues.
func (e *Editor) editField(ctx context.Context, c *domain.Copy, f domain.EditableField) error {
	e.println("")
	e.println(fmt.Sprintf("Editing '%s' (Current: %s)", f.Label, e.display(c.FieldValue(f.Column))))

	raw, err := e.in.Prompt("Enter new value: ")
	if err != nil {
		return err
	}

	value, err := Coerce(f.Kind, raw)
	if err != nil {
		e.println(e.styles.failure.Render(fmt.Sprintf("Error: value must be a %s.", f.Kind)))
		return nil
	}

	if err := e.store.UpdateField(ctx, c.ID, f.Column, value); err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			e.println(e.styles.failure.Render("Not saved: " + storeErr.Message + "."))
			return nil
		}
		e.println(e.styles.failure.Render(fmt.Sprintf("Database error: %v", err)))
		return nil
	}

	e.println(e.styles.success.Render(fmt.Sprintf("Updated %s.", f.Label)))
	return nil
}

// Coerce converts typed input to the value stored for a field kind.
// Blank input clears the field and yields nil.
func Coerce(kind domain.FieldKind, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	switch kind {
	case domain.KindInt:
		v, err := normalize.OptionalInt(raw)
		if err != nil {
			return nil, err
		}
		return *v, nil
	case domain.KindFloat:
		v, err := normalize.OptionalFloat(raw)
		if err != nil {
			return nil, err
		}
		return *v, nil
	default:
		return raw, nil
	}
}

func (e *Editor) display(v any) string {
	switch val := v.(type) {
	case nil:
		return e.styles.empty.Render(emptyMarker)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func (e *Editor) println(s string) {
	fmt.Fprintln(e.out, s) //nolint:errcheck // terminal output
}
