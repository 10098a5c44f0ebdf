package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/linkshelf/internal/config"
	"github.com/mrlokans/linkshelf/internal/entrypoint"
	"github.com/mrlokans/linkshelf/internal/settingsstore"
)

// parserFlags are shared by the parser management commands.
type parserFlags struct {
	DatabasePath string
	ParsersPath  string
}

func (p *parserFlags) register(fs *flag.FlagSet) {
	defaults := config.NewConfig()
	fs.StringVar(&p.DatabasePath, "db", defaults.Database.Path, "Path to the bookmark database")
	fs.StringVar(&p.ParsersPath, "parsers", defaults.Parsers.ConfigPath, "Path to the custom parser configuration file")
}

func (p *parserFlags) open(ctx context.Context) (*entrypoint.App, error) {
	cfg := config.NewConfig()
	cfg.Database.Path = p.DatabasePath
	cfg.Parsers.ConfigPath = p.ParsersPath
	return entrypoint.NewApp(ctx, cfg)
}

// ListParsersCommand prints the registered parsers.
type ListParsersCommand struct {
	parserFlags
	Format string

	Out io.Writer
}

func NewListParsersCommand() *ListParsersCommand {
	return &ListParsersCommand{}
}

func (cmd *ListParsersCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("parsers", flag.ContinueOnError)
	cmd.register(fs)
	fs.StringVar(&cmd.Format, "format", "", "Only list parsers supporting this format (e.g. json, csv)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s parsers [-format <ext>] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

func (cmd *ListParsersCommand) Run() error {
	out := outOrStdout(cmd.Out)

	app, err := cmd.open(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	if cmd.Format != "" {
		names := app.Imports.ListParsersSupporting(cmd.Format)
		if len(names) == 0 {
			yellow.Fprintf(out, "No parser supports %q\n", cmd.Format)
			return nil
		}
		cyanBold.Fprintf(out, "Parsers for %s:\n", cmd.Format)
		for _, name := range names {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	}

	cyanBold.Fprintln(out, "Registered parsers:")
	for _, desc := range app.Imports.ListParsers() {
		fmt.Fprintf(out, "  %-20s %-9s [%s] %s\n", desc.Name, desc.Kind, strings.Join(desc.SupportedFormats, ", "), desc.Path)
	}
	return nil
}

// RegisterParserCommand adds a custom parser to the configuration file.
type RegisterParserCommand struct {
	parserFlags
	Name    string
	Type    string
	Path    string
	Formats string
	Command string
	Timeout int

	Out io.Writer
}

func NewRegisterParserCommand() *RegisterParserCommand {
	return &RegisterParserCommand{}
}

func (cmd *RegisterParserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("register-parser", flag.ContinueOnError)
	cmd.register(fs)
	fs.StringVar(&cmd.Name, "name", "", "Unique parser name (required)")
	fs.StringVar(&cmd.Type, "type", "external", "Parser type: external or python")
	fs.StringVar(&cmd.Path, "path", "", "Path to the parser script (required)")
	fs.StringVar(&cmd.Formats, "formats", "", "Comma-separated list of supported formats (e.g. csv,tsv)")
	fs.StringVar(&cmd.Command, "command", "", "Interpreter to run the script with (e.g. \"python3 -u\")")
	fs.IntVar(&cmd.Timeout, "timeout", 0, "Seconds before the script is killed (0 uses PARSER_TIMEOUT)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s register-parser -name <name> -path <script> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "The script is called as '<command> <script> <input file>' and must print\n")
		fmt.Fprintf(os.Stderr, "{\"successful\": [...], \"failed\": [...]} on stdout.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Name == "" {
		return fmt.Errorf("required flag -name not provided")
	}
	if cmd.Path == "" {
		return fmt.Errorf("required flag -path not provided")
	}
	return nil
}

func (cmd *RegisterParserCommand) entry() settingsstore.ParserEntry {
	entry := settingsstore.ParserEntry{
		Name:           cmd.Name,
		Type:           cmd.Type,
		Path:           cmd.Path,
		Command:        strings.Fields(cmd.Command),
		TimeoutSeconds: cmd.Timeout,
	}
	for _, f := range strings.Split(cmd.Formats, ",") {
		if f = strings.TrimSpace(f); f != "" {
			entry.SupportedFormats = append(entry.SupportedFormats, f)
		}
	}
	return entry
}

func (cmd *RegisterParserCommand) Run() error {
	out := outOrStdout(cmd.Out)

	desc, err := cmd.entry().Descriptor()
	if err != nil {
		return err
	}

	ctx := context.Background()
	app, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Imports.RegisterParser(ctx, desc); err != nil {
		red.Fprintf(out, "Could not register %q: %v\n", cmd.Name, err)
		return err
	}

	green.Fprintf(out, "Registered parser %q\n", cmd.Name)
	return nil
}

// RemoveParserCommand removes a custom parser from the configuration file.
type RemoveParserCommand struct {
	parserFlags
	Name string

	Out io.Writer
}

func NewRemoveParserCommand() *RemoveParserCommand {
	return &RemoveParserCommand{}
}

func (cmd *RemoveParserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("remove-parser", flag.ContinueOnError)
	cmd.register(fs)
	fs.StringVar(&cmd.Name, "name", "", "Name of the parser to remove (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Name == "" {
		return fmt.Errorf("required flag -name not provided")
	}
	return nil
}

func (cmd *RemoveParserCommand) Run() error {
	out := outOrStdout(cmd.Out)

	ctx := context.Background()
	app, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Imports.UnregisterParser(ctx, cmd.Name); err != nil {
		red.Fprintf(out, "Could not remove %q: %v\n", cmd.Name, err)
		return err
	}

	green.Fprintf(out, "Removed parser %q\n", cmd.Name)
	return nil
}
