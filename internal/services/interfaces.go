package services

import (
	"context"

	"github.com/mrlokans/linkshelf/internal/audit"
	"github.com/mrlokans/linkshelf/internal/importers"
	"github.com/mrlokans/linkshelf/internal/parsers"
	"github.com/mrlokans/linkshelf/internal/settingsstore"
)

// Ingester writes parsed records to storage.
// Implemented by importers.Pipeline.
type Ingester interface {
	Ingest(ctx context.Context, records []parsers.ParsedRecord) (importers.Result, error)
}

// ParserStore persists parser registrations across restarts.
// Implemented by settingsstore.SettingsStore.
type ParserStore interface {
	Load() (settingsstore.State, error)
	AddParser(entry settingsstore.ParserEntry) error
	RemoveParser(name string) error
}

// FailureRecorder keeps the entries a parser rejected.
// Implemented by audit.Auditor.
type FailureRecorder interface {
	SaveFailures(report audit.FailureReport) (string, error)
}

// ImportResult contains the outcome of an import operation.
type ImportResult struct {
	RunID      string                 `json:"run_id"`
	Parser     string                 `json:"parser"`
	FilePath   string                 `json:"file_path"`
	Imported   int                    `json:"imported"`
	Batches    int                    `json:"batches"`
	Failed     []parsers.ParseFailure `json:"failed"`
	ReportFile string                 `json:"report_file,omitempty"`
}
