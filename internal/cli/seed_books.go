package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/autolib/autolib/internal/config"
	"github.com/autolib/autolib/internal/database"
	"github.com/autolib/autolib/internal/database/books"
)

// SeedBooksCommand loads catalog entries from a JSON file. The API has no
// book-creation endpoint; the catalog is provisioned out of band.
type SeedBooksCommand struct {
	DatabaseURL  string
	DatabasePath string
	FilePath     string
	Verbose      bool
}

// NewSeedBooksCommand creates a new SeedBooksCommand.
func NewSeedBooksCommand() *SeedBooksCommand {
	return &SeedBooksCommand{}
}

// ParseFlags parses command line flags.
func (cmd *SeedBooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed-books", flag.ExitOnError)

	fs.StringVar(&cmd.DatabaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres DSN (defaults to DATABASE_URL)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the sqlite database used when no DSN is set")
	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON file with [{\"title\": ..., \"author\": ...}] entries")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Log each created book")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed-books [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load catalog entries into the lending database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed-books -file catalog.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s seed-books -db ./autolib.db -file catalog.json -verbose\n", os.Args[0])
	}

	return fs.Parse(args)
}

type catalogEntry struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Run loads the catalog file and inserts its entries.
func (cmd *SeedBooksCommand) Run() error {
	if cmd.FilePath == "" {
		return fmt.Errorf("-file is required")
	}

	data, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}

	db, err := database.NewDatabase(cmd.DatabaseURL, cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := books.NewRepository(db.DB)
	created := 0
	for _, entry := range entries {
		if entry.Title == "" {
			return fmt.Errorf("catalog entry %d has no title", created+1)
		}
		book, err := repo.CreateBook(entry.Title, entry.Author)
		if err != nil {
			return fmt.Errorf("failed to create %q: %w", entry.Title, err)
		}
		created++
		if cmd.Verbose {
			fmt.Printf("Created book %d: %s — %s\n", book.ID, book.Title, book.Author)
		}
	}

	fmt.Printf("Seeded %d book(s)\n", created)
	return nil
}
