// Package main creates a fresh example library.
//
// Usage:
//
//	go run ./cmd/seed --db-path ~/Shelfkeeper/books.db
//
// The books table is dropped and recreated, so any existing catalogue is lost.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/shelfkeeper/shelfkeeper-server/internal/domain"
	"github.com/shelfkeeper/shelfkeeper-server/internal/logger"
	"github.com/shelfkeeper/shelfkeeper-server/internal/store/sqlite"
)

// CLI holds the seeder flags.
type CLI struct {
	DBPath   string `help:"Path to the SQLite database" env:"DB_PATH" default:"books.db" type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error)" env:"LOG_LEVEL" default:"info"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("seed"),
		kong.Description("Create an example library with four sample books."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

// Run resets the database and inserts the sample books.
func (c *CLI) Run() error {
	log := logger.New(logger.Config{Level: logger.ParseLevel(c.LogLevel)})

	if err := os.MkdirAll(filepath.Dir(c.DBPath), 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	st, err := sqlite.Open(c.DBPath, log.Logger)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck // nothing left to do on close failure

	n, err := seed(context.Background(), st)
	if err != nil {
		return err
	}

	log.Info("Example library created", "path", c.DBPath, "books", n)
	return nil
}

// seed replaces the catalogue with sampleBooks and returns how many were written.
func seed(ctx context.Context, st *sqlite.Store) (int, error) {
	if err := st.Reset(ctx); err != nil {
		return 0, fmt.Errorf("reset database: %w", err)
	}

	books := sampleBooks()
	for i := range books {
		if _, err := st.CreateCopy(ctx, &books[i], false); err != nil {
			return i, fmt.Errorf("insert %q: %w", books[i].Title, err)
		}
	}
	return len(books), nil
}

func ptr[T any](v T) *T { return &v }

func sampleBooks() []domain.CopyFields {
	return []domain.CopyFields{
		{
			Title:         "Dune",
			Author:        "Herbert, Frank",
			ISBN:          "9780441172719",
			Publisher:     "Ace",
			Binding:       "Paperback",
			PageCount:     ptr(896),
			PublishedYear: ptr(1965),
			SeriesTitle:   "Dune",
			SeriesNumber:  ptr(1.0),
			Width:         ptr(105.0),
			Height:        ptr(170.0),
			Weight:        ptr(300.0),
			Notes:         "The classic sci-fi novel.",
			CoverURL:      "https://covers.openlibrary.org/b/id/9253497-L.jpg",
			Status:        domain.StatusRead,
		},
		{
			Title:         "Dune Messiah",
			Author:        "Herbert, Frank",
			ISBN:          "9780441172696",
			Publisher:     "Ace",
			Binding:       "Mass Market Paperback",
			PageCount:     ptr(350),
			PublishedYear: ptr(1969),
			SeriesTitle:   "Dune",
			SeriesNumber:  ptr(2.0),
			Width:         ptr(105.0),
			Height:        ptr(170.0),
			Weight:        ptr(200.0),
			CoverURL:      "https://covers.openlibrary.org/b/id/9255050-L.jpg",
			Status:        domain.StatusToRead,
		},
		{
			Title:         "The Hobbit",
			Author:        "Tolkien, J.R.R.",
			ISBN:          "9780547928227",
			Publisher:     "Houghton Mifflin",
			Binding:       "Hardcover",
			PageCount:     ptr(300),
			PublishedYear: ptr(1937),
			SeriesTitle:   "The Lord of the Rings",
			SeriesNumber:  ptr(0.0),
			Width:         ptr(140.0),
			Height:        ptr(210.0),
			Weight:        ptr(500.0),
			Notes:         "Special Collector's Edition",
			CoverURL:      "https://covers.openlibrary.org/b/id/8406786-L.jpg",
			Status:        domain.StatusRead,
			Signed:        true,
		},
		{
			Title:         "Unknown Old Book",
			Author:        "Anonymous",
			Publisher:     "Old Press",
			Binding:       "Hardcover",
			PageCount:     ptr(120),
			PublishedYear: ptr(1890),
			Width:         ptr(120.0),
			Height:        ptr(180.0),
			Weight:        ptr(300.0),
			Notes:         "Found in attic. No ISBN.",
			NoISBN:        true,
		},
	}
}
