package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/linkshelf/internal/services"
)

// BookmarkImporter runs one import under a known run id.
// Implemented by services.ImportService.
type BookmarkImporter interface {
	ImportBookmarksRun(ctx context.Context, runID, filePath, parserName string) (*services.ImportResult, error)
}

// ImportBookmarksQueue is the backlite queue name for import tasks.
const ImportBookmarksQueue = "import_bookmarks"

// ImportBookmarksTask imports one file with one parser. RemoveFile deletes
// FilePath once the import has finished, whatever its outcome.
type ImportBookmarksTask struct {
	RunID      string `json:"run_id"`
	FilePath   string `json:"file_path"`
	Parser     string `json:"parser"`
	RemoveFile bool   `json:"remove_file,omitempty"`
}

// Config returns the queue configuration for import tasks. Imports are not
// retried: batches committed before a failure stay committed, so a rerun
// would duplicate them.
func (t ImportBookmarksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        ImportBookmarksQueue,
		MaxAttempts: 1,
		Timeout:     15 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportBookmarksProcessor creates a processor function for ImportBookmarksTask.
func ImportBookmarksProcessor(importer BookmarkImporter) backlite.QueueProcessor[ImportBookmarksTask] {
	return func(ctx context.Context, task ImportBookmarksTask) error {
		if importer == nil {
			return fmt.Errorf("bookmark importer not configured")
		}
		if task.RemoveFile {
			defer removeInput(task.FilePath)
		}

		result, err := importer.ImportBookmarksRun(ctx, task.RunID, task.FilePath, task.Parser)
		if err != nil {
			return fmt.Errorf("import %s: %w", task.FilePath, err)
		}

		log.Printf("[TASK] Import %s finished: %d bookmarks, %d rejected", task.RunID, result.Imported, len(result.Failed))
		return nil
	}
}

// NewImportBookmarksQueue creates a backlite queue for import tasks.
func NewImportBookmarksQueue(importer BookmarkImporter) backlite.Queue {
	return backlite.NewQueue(ImportBookmarksProcessor(importer))
}

func removeInput(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[TASK] Failed to remove %s: %v", path, err)
	}
}
