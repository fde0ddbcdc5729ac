// Package bulk implements the concurrent bulk-indexing pipeline: batch
// partitioning, parallel indexing workers, and the single-worker
// persistence path that merges dirty terms into the remote tier.
package bulk

import "github.com/ogini-search/core/index"

// Document is one document submitted to queueBulkIndexing.
type Document struct {
	ID     string
	Source map[string]any
}

// Options configures a bulk-indexing run. Zero values take the documented
// defaults.
type Options struct {
	BatchSize      int  // default 1000
	SkipDuplicates bool
	Priority       int
	EnableProgress bool
}

const defaultBatchSize = 1000

// subBatchSize is how many documents an indexing worker processes per
// inner pass within one batch. No progress is reported between passes.
const subBatchSize = 100

// batchJob is the payload of one "batch" job on the indexing queue.
type batchJob struct {
	BulkOpID  string
	BatchID   string
	IndexName string
	Documents []Document
}

// persistJob is the payload of one "persist-batch-terms" job on the
// persistence queue. PayloadKey empty means "recover from the pending-jobs
// table" (see recoverOldestPending in worker_persist.go).
type persistJob struct {
	IndexName  string
	BatchID    string
	BulkOpID   string
	PayloadKey string
}

// payload is the staged snapshot of a batch's dirty terms: for every term
// key touched by the batch, the hot tier's current posting list at the
// moment the batch finished indexing.
type payload struct {
	IndexName string
	BatchID   string
	BulkOpID  string
	Postings  map[string]index.PostingList
}

// Progress reports one batch's completion within a bulk operation.
type Progress struct {
	BulkOpID string
	Done     int
	Total    int
}
