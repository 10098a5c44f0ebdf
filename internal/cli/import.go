package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mrlokans/linkshelf/internal/config"
	"github.com/mrlokans/linkshelf/internal/entrypoint"
	"github.com/mrlokans/linkshelf/internal/parsers"
)

// ImportCommand imports one bookmark file without starting the server.
type ImportCommand struct {
	FilePath     string
	ParserName   string
	DatabasePath string
	ParsersPath  string
	BatchSize    int
	Verbose      bool

	Out io.Writer
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	defaults := config.NewConfig()
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the bookmark file to import (required)")
	fs.StringVar(&cmd.ParserName, "parser", parsers.DefaultParserName, "Name of the parser to use")
	fs.StringVar(&cmd.DatabasePath, "db", defaults.Database.Path, "Path to the bookmark database")
	fs.StringVar(&cmd.ParsersPath, "parsers", defaults.Parsers.ConfigPath, "Path to the custom parser configuration file")
	fs.IntVar(&cmd.BatchSize, "batch-size", defaults.Import.BatchSize, "Records written per transaction")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List rejected entries")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import bookmarks from a browser export or any format a registered parser supports.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import a Firefox bookmark backup:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file bookmarks-2024-05-01.json\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Import a Pocket export with a custom parser:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file pocket.csv -parser \"Pocket CSV\"\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	if cmd.BatchSize <= 0 {
		return fmt.Errorf("-batch-size must be positive")
	}

	return nil
}

func (cmd *ImportCommand) config() (*config.Config, error) {
	cfg := config.NewConfig()

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cfg.Database.Path = absDBPath
	cfg.Parsers.ConfigPath = cmd.ParsersPath
	cfg.Import.BatchSize = cmd.BatchSize
	return cfg, nil
}

func (cmd *ImportCommand) Run() error {
	out := outOrStdout(cmd.Out)

	cfg, err := cmd.config()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cyanBold.Fprintln(out, "Bookmark Import")
	fmt.Fprintf(out, "File:     %s\n", cmd.FilePath)
	fmt.Fprintf(out, "Parser:   %s\n", cmd.ParserName)
	fmt.Fprintf(out, "Database: %s\n\n", cfg.Database.Path)

	app, err := entrypoint.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Imports.ImportBookmarks(ctx, cmd.FilePath, cmd.ParserName)
	if err != nil {
		red.Fprintf(out, "Import failed: %v\n", err)
		if result != nil && result.Imported > 0 {
			yellow.Fprintf(out, "%d bookmarks were stored before the failure\n", result.Imported)
		}
		return err
	}

	green.Fprintf(out, "Imported %d bookmarks in %d batches\n", result.Imported, result.Batches)

	if n := len(result.Failed); n > 0 {
		yellow.Fprintf(out, "%d entries were rejected by the parser\n", n)
		if result.ReportFile != "" {
			fmt.Fprintf(out, "Report: %s\n", filepath.Join(cfg.Audit.Dir, result.ReportFile))
		}
		if cmd.Verbose {
			for _, f := range result.Failed {
				fmt.Fprintf(out, "  [%d] %s: %s\n", f.SourceIndex, f.SourceTitle, f.ErrorMessage)
			}
		}
	}

	return nil
}
