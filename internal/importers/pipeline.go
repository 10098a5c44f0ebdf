package importers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mrlokans/linkshelf/internal/parsers"
)

// DefaultBatchSize is the number of records written per transaction when no
// size is configured.
const DefaultBatchSize = 50

// ErrPersistence marks a failed batch write. Match it with errors.Is; the
// concrete error is a *BatchError.
var ErrPersistence = errors.New("persistence error")

// BatchWriter persists one batch of records atomically: either every record
// of the batch is stored or none is.
//
// Implementations:
//   - bookmarks.Repository (internal/database/bookmarks)
type BatchWriter interface {
	WriteBatch(ctx context.Context, records []parsers.ParsedRecord) error
}

// Observer is told once per successful Ingest call how many records were
// written.
type Observer interface {
	BookmarksUpdated(count int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(count int)

func (f ObserverFunc) BookmarksUpdated(count int) { f(count) }

// BatchError describes the batch that failed. Batches before it stay
// committed.
type BatchError struct {
	Batch     int // zero-based index of the failed batch
	Size      int // records in the failed batch
	Committed int // records committed by earlier batches
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: batch %d (%d records) rolled back, %d records already committed: %v",
		ErrPersistence, e.Batch, e.Size, e.Committed, e.Err)
}

func (e *BatchError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Result summarizes one Ingest call.
type Result struct {
	Written int `json:"written"`
	Batches int `json:"batches"`
}

// Pipeline writes parsed records in bounded batches, one transaction per
// batch, in the order the records were produced.
type Pipeline struct {
	writer    BatchWriter
	batchSize int
	observers []Observer
}

// NewPipeline creates a pipeline. A batchSize below 1 falls back to
// DefaultBatchSize.
func NewPipeline(writer BatchWriter, batchSize int, observers ...Observer) *Pipeline {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{
		writer:    writer,
		batchSize: batchSize,
		observers: observers,
	}
}

// AddObserver registers o for future Ingest calls. It is not safe to call
// concurrently with Ingest.
func (p *Pipeline) AddObserver(o Observer) {
	p.observers = append(p.observers, o)
}

func (p *Pipeline) BatchSize() int {
	return p.batchSize
}

// Ingest buffers records and flushes every full buffer, then the trailing
// partial one. The first failed flush stops the call with a *BatchError.
// Observers are notified only when every batch was written.
func (p *Pipeline) Ingest(ctx context.Context, records []parsers.ParsedRecord) (Result, error) {
	var result Result
	buffer := make([]parsers.ParsedRecord, 0, min(p.batchSize, len(records)))

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("import cancelled after %d records: %w", result.Written, err)
		}
		if err := p.writer.WriteBatch(ctx, buffer); err != nil {
			log.Printf("[IMPORT] Batch %d failed (%d records, %d committed): %v", result.Batches, len(buffer), result.Written, err)
			return &BatchError{
				Batch:     result.Batches,
				Size:      len(buffer),
				Committed: result.Written,
				Err:       err,
			}
		}
		result.Written += len(buffer)
		result.Batches++
		buffer = make([]parsers.ParsedRecord, 0, p.batchSize)
		return nil
	}

	for _, record := range records {
		buffer = append(buffer, record)
		if len(buffer) == p.batchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}
	if err := flush(); err != nil {
		return result, err
	}

	for _, o := range p.observers {
		o.BookmarksUpdated(result.Written)
	}

	return result, nil
}
