// Package main prints a summary of a catalogue database without modifying it.
//
// Usage:
//
//	go run ./cmd/dbinspect --db-path ~/Shelfkeeper/books.db
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/shelfkeeper/shelfkeeper-server/internal/catalog"
	"github.com/shelfkeeper/shelfkeeper-server/internal/logger"
	"github.com/shelfkeeper/shelfkeeper-server/internal/service"
	"github.com/shelfkeeper/shelfkeeper-server/internal/store/sqlite"
	"github.com/shelfkeeper/shelfkeeper-server/internal/validation"
)

// CLI holds the inspector flags.
type CLI struct {
	DBPath   string `help:"Path to the SQLite database" env:"DB_PATH" default:"books.db" type:"existingfile"`
	Show     int    `help:"Number of logical books to list" default:"10"`
	LogLevel string `help:"Log level (debug, info, warn, error)" env:"LOG_LEVEL" default:"warn"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("dbinspect"),
		kong.Description("Summarise a catalogue database."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		slog.Error("Inspection failed", "error", err)
		os.Exit(1)
	}
}

// Run opens the database and prints the summary to stdout.
func (c *CLI) Run() error {
	log := logger.New(logger.Config{Level: logger.ParseLevel(c.LogLevel)})

	st, err := sqlite.Open(c.DBPath, log.Logger)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck // read-only session

	// Admin mode so the audit view is available; inspect never writes.
	svc := service.NewLibraryService(st, validation.New(), false, log.Logger)
	return inspect(context.Background(), svc, os.Stdout, c.Show)
}

var statusFilters = []struct {
	label  string
	filter catalog.Filter
}{
	{"Read", catalog.FilterRead},
	{"To Read", catalog.FilterTBR},
	{"DNF", catalog.FilterDNF},
	{"Signed", catalog.FilterSigned},
}

func inspect(ctx context.Context, svc *service.LibraryService, out io.Writer, show int) error {
	all, err := svc.ListBooks(ctx, string(catalog.FilterAll), string(catalog.SortAuthor))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "=== Catalogue Inspection ===")
	fmt.Fprintln(out)

	for i, b := range all.Books {
		if i >= show {
			fmt.Fprintf(out, "... and %d more\n", len(all.Books)-show)
			break
		}
		fmt.Fprintf(out, "[%d] %s by %s\n", b.ID, b.Title, b.Author)
		fmt.Fprintf(out, "    Copies: %d (%s)\n", b.CopyCount, b.DisplayFormats)
		if b.SeriesTitle != "" {
			fmt.Fprintf(out, "    Series: %s\n", b.SeriesTitle)
		}
	}
	if len(all.Books) > 0 {
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "=== Summary ===")
	fmt.Fprintf(out, "Total copies: %d\n", all.TotalCopies)
	fmt.Fprintf(out, "Logical books: %d\n", len(all.Books))

	for _, sf := range statusFilters {
		list, err := svc.ListBooks(ctx, string(sf.filter), string(catalog.SortAuthor))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d\n", sf.label, list.TotalCopies)
	}

	report, err := svc.Audit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Missing ISBN: %d\n", len(report.MissingISBN))
	fmt.Fprintf(out, "Missing dimensions: %d\n", len(report.MissingDimensions))

	return nil
}
