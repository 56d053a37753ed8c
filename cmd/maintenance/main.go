// Package main runs the interactive library maintenance tool.
//
// Usage:
//
//	go run ./cmd/maintenance --db-path ~/Shelfkeeper/books.db
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/peterh/liner"

	"github.com/shelfkeeper/shelfkeeper-server/internal/logger"
	"github.com/shelfkeeper/shelfkeeper-server/internal/maintenance"
	"github.com/shelfkeeper/shelfkeeper-server/internal/store/sqlite"
)

// CLI holds the maintenance tool flags.
type CLI struct {
	DBPath   string `help:"Path to the SQLite database" env:"DB_PATH" default:"books.db" type:"existingfile"`
	LogLevel string `help:"Log level (debug, info, warn, error)" env:"LOG_LEVEL" default:"warn"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("maintenance"),
		kong.Description("Edit individual fields of a book record."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		slog.Error("Maintenance failed", "error", err)
		os.Exit(1)
	}
}

// Run opens the database and hands the terminal to the editor.
func (c *CLI) Run() error {
	log := logger.New(logger.Config{Level: logger.ParseLevel(c.LogLevel), Writer: os.Stderr})

	st, err := sqlite.Open(c.DBPath, log.Logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close() //nolint:errcheck // nothing left to do on close failure

	line := liner.NewLiner()
	defer line.Close() //nolint:errcheck // restores the terminal
	line.SetCtrlCAborts(true)

	return maintenance.NewEditor(st, line, os.Stdout).Run(context.Background())
}
