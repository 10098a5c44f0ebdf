package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/linkshelf/internal/parsers"
)

// FailureReport is the file written for an import whose parser rejected
// some entries.
type FailureReport struct {
	RunID     string                 `json:"run_id"`
	Parser    string                 `json:"parser"`
	InputPath string                 `json:"input_path"`
	CreatedAt time.Time              `json:"created_at"`
	Failed    []parsers.ParseFailure `json:"failed"`
}

// Auditor keeps per-run failure reports on disk so rejected entries can be
// inspected after the import.
type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveFailures writes report to <run id>.json and returns the file name. A
// missing run id gets a fresh UUID.
func (a *Auditor) SaveFailures(report FailureReport) (string, error) {
	if report.RunID == "" {
		report.RunID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	return a.SaveJSON(report.RunID, report)
}

// SaveJSON saves data as indented JSON under name (a ".json" suffix is added).
func (a *Auditor) SaveJSON(name string, data any) (string, error) {
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	filename := fmt.Sprintf("%s.json", name)
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	log.Printf("[AUDIT] Saved failure report %s", path)
	return filename, nil
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
