// Package importers writes parser output to storage.
//
// # Architecture
//
// An import follows a single path whatever parser produced the records:
//
//	input file → parsers.Parser → ParseOutcome.Successful → Pipeline → BatchWriter → storage
//
// Parsers never write. The Pipeline is the only writer and it writes in
// bounded batches, one transaction per batch:
//
//	pipeline := importers.NewPipeline(bookmarksRepo, 50, broker)
//	result, err := pipeline.Ingest(ctx, outcome.Successful)
//	if errors.Is(err, importers.ErrPersistence) {
//		var batchErr *importers.BatchError
//		errors.As(err, &batchErr) // batchErr.Committed records are stored
//	}
//
// A failed batch is rolled back and stops the import. Batches written before
// it are not undone.
//
// # Observers
//
// Observers receive one BookmarksUpdated call per successful Ingest, never
// one per batch. The SSE broker in internal/events is the main observer.
package importers
