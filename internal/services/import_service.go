package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/linkshelf/internal/audit"
	"github.com/mrlokans/linkshelf/internal/notify"
	"github.com/mrlokans/linkshelf/internal/parsers"
	"github.com/mrlokans/linkshelf/internal/settingsstore"
)

var (
	ErrParserNotFound = errors.New("parser not found")
	ErrBuiltInParser  = errors.New("built-in parsers cannot be changed")
)

// ImportService runs imports and manages the parser registry. Every
// ImportBookmarks, RegisterParser and UnregisterParser call ends with exactly
// one notification: an error carrying the cause, or a success message.
type ImportService struct {
	registry       *parsers.Registry
	pipeline       Ingester
	notifier       notify.Notifier
	store          ParserStore
	failures       FailureRecorder
	defaultTimeout time.Duration
}

type ImportServiceConfig struct {
	Registry       *parsers.Registry
	Pipeline       Ingester
	Notifier       notify.Notifier
	Store          ParserStore
	Failures       FailureRecorder // optional
	DefaultTimeout time.Duration
}

// NewImportService creates a new ImportService.
func NewImportService(cfg ImportServiceConfig) *ImportService {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &ImportService{
		registry:       cfg.Registry,
		pipeline:       cfg.Pipeline,
		notifier:       notifier,
		store:          cfg.Store,
		failures:       cfg.Failures,
		defaultTimeout: cfg.DefaultTimeout,
	}
}

// ImportBookmarks parses filePath with the named parser and stores the
// result. The registry lock is released before parsing starts.
func (s *ImportService) ImportBookmarks(ctx context.Context, filePath, parserName string) (*ImportResult, error) {
	return s.ImportBookmarksRun(ctx, uuid.NewString(), filePath, parserName)
}

// ImportBookmarksRun is ImportBookmarks with a caller-chosen run id, used by
// background tasks so the id is known before the import starts.
func (s *ImportService) ImportBookmarksRun(ctx context.Context, runID, filePath, parserName string) (*ImportResult, error) {
	result := &ImportResult{
		RunID:    runID,
		Parser:   parserName,
		FilePath: filePath,
		Failed:   []parsers.ParseFailure{},
	}

	parser, ok := s.registry.Get(parserName)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrParserNotFound, parserName)
		s.fail(ctx, result, err)
		return result, err
	}

	log.Printf("[IMPORT] Run %s: parsing %s with %q", runID, filePath, parserName)
	started := time.Now()

	outcome, err := parser.Parse(ctx, filePath)
	if err != nil {
		err = fmt.Errorf("parsing %s: %w", filePath, err)
		s.fail(ctx, result, err)
		return result, err
	}
	result.Failed = outcome.Failed

	if len(outcome.Failed) > 0 {
		log.Printf("[IMPORT] Run %s: parser rejected %d entries", runID, len(outcome.Failed))
		s.saveFailures(result)
	}

	written, err := s.pipeline.Ingest(ctx, outcome.Successful)
	result.Imported = written.Written
	result.Batches = written.Batches
	if err != nil {
		s.fail(ctx, result, err)
		return result, err
	}

	log.Printf("[IMPORT] Run %s: stored %d bookmarks in %d batches (%s)", runID, written.Written, written.Batches, time.Since(started).Round(time.Millisecond))

	body := fmt.Sprintf("Imported %d bookmarks from %s", written.Written, filePath)
	if n := len(outcome.Failed); n > 0 {
		body += fmt.Sprintf(" (%d entries skipped)", n)
	}
	s.notifier.Notify(ctx, notify.Info("Import finished", body).WithRun(runID, parserName))

	return result, nil
}

func (s *ImportService) fail(ctx context.Context, result *ImportResult, err error) {
	log.Printf("[IMPORT] Run %s failed: %v", result.RunID, err)
	body := fmt.Sprintf("Failed to import %s with %q: %v", result.FilePath, result.Parser, err)
	s.notifier.Notify(ctx, notify.Error("Import failed", body).WithRun(result.RunID, result.Parser))
}

func (s *ImportService) saveFailures(result *ImportResult) {
	if s.failures == nil {
		return
	}
	file, err := s.failures.SaveFailures(audit.FailureReport{
		RunID:     result.RunID,
		Parser:    result.Parser,
		InputPath: result.FilePath,
		Failed:    result.Failed,
	})
	if err != nil {
		log.Printf("[IMPORT] Run %s: failed to save failure report: %v", result.RunID, err)
		return
	}
	result.ReportFile = file
}

// ListParsers returns every registered parser, built-in first.
func (s *ImportService) ListParsers() []parsers.Descriptor {
	return s.registry.Descriptors()
}

// ListParsersSupporting returns the names of parsers claiming format.
func (s *ImportService) ListParsersSupporting(format string) []string {
	return s.registry.ListByFormat(format)
}

// RegisterParser validates desc, adds it to the registry and persists it.
// If persisting fails the registration is undone.
func (s *ImportService) RegisterParser(ctx context.Context, desc parsers.Descriptor) error {
	desc.Name = strings.TrimSpace(desc.Name)

	if err := s.registerParser(desc); err != nil {
		log.Printf("[PARSERS] Failed to register %q: %v", desc.Name, err)
		s.notifier.Notify(ctx, notify.Error("Parser registration failed", err.Error()).WithRun("", desc.Name))
		return err
	}

	log.Printf("[PARSERS] Registered %q (%s)", desc.Name, desc.Path)
	s.notifier.Notify(ctx, notify.Info("Parser registered", fmt.Sprintf("Parser %q is ready to import %s files", desc.Name, strings.Join(desc.SupportedFormats, ", "))).WithRun("", desc.Name))
	return nil
}

func (s *ImportService) registerParser(desc parsers.Descriptor) error {
	if desc.Kind == parsers.KindBuiltIn || desc.Name == parsers.DefaultParserName {
		return fmt.Errorf("%w: %q", ErrBuiltInParser, desc.Name)
	}

	parser, err := parsers.Build(desc, s.defaultTimeout)
	if err != nil {
		return err
	}

	if err := s.registry.Register(desc.Name, parser); err != nil {
		return err
	}

	if s.store != nil {
		if err := s.store.AddParser(settingsstore.EntryFromDescriptor(parser.Describe())); err != nil {
			s.registry.Remove(desc.Name)
			return fmt.Errorf("saving parser %q: %w", desc.Name, err)
		}
	}
	return nil
}

// UnregisterParser removes a custom parser from the registry and from the
// persisted configuration.
func (s *ImportService) UnregisterParser(ctx context.Context, name string) error {
	err := s.unregisterParser(name)
	if err != nil {
		s.notifier.Notify(ctx, notify.Error("Parser removal failed", err.Error()).WithRun("", name))
		return err
	}
	s.notifier.Notify(ctx, notify.Info("Parser removed", fmt.Sprintf("Parser %q was removed", name)).WithRun("", name))
	return nil
}

func (s *ImportService) unregisterParser(name string) error {
	parser, ok := s.registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrParserNotFound, name)
	}
	if parser.Describe().Kind == parsers.KindBuiltIn {
		return fmt.Errorf("%w: %q", ErrBuiltInParser, name)
	}
	if s.store != nil {
		if err := s.store.RemoveParser(name); err != nil && !errors.Is(err, settingsstore.ErrParserNotFound) {
			return err
		}
	}
	s.registry.Remove(name)
	return nil
}

// ReloadParsers rebuilds the registry from the persisted configuration. The
// built-in parser is always registered; each custom parser that fails to
// load is skipped and reported with its own notification. An unreadable
// configuration leaves a populated registry untouched.
func (s *ImportService) ReloadParsers(ctx context.Context) error {
	if s.store == nil {
		s.registry.Reload(nil, s.defaultTimeout)
		return nil
	}

	state, err := s.store.Load()
	if err != nil {
		if s.registry.Len() == 0 {
			s.registry.Reload(nil, s.defaultTimeout)
		}
		err = fmt.Errorf("loading parser configuration: %w", err)
		log.Printf("[PARSERS] %v", err)
		s.notifier.Notify(ctx, notify.Error("Parser configuration error", err.Error()))
		return err
	}

	return s.ApplyParsers(ctx, state)
}

// ApplyParsers rebuilds the registry from state.
func (s *ImportService) ApplyParsers(ctx context.Context, state settingsstore.State) error {
	descs, errs := state.Descriptors()
	errs = append(errs, s.registry.Reload(descs, s.defaultTimeout)...)

	for _, err := range errs {
		log.Printf("[PARSERS] Skipping parser: %v", err)
		s.notifier.Notify(ctx, notify.Error("Failed to load parser", err.Error()))
	}

	log.Printf("[PARSERS] Loaded %d parsers (%d skipped)", s.registry.Len(), len(errs))
	return nil
}
