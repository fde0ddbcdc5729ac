package remotestore

import (
	"context"

	"github.com/ogini-search/core/index"
)

// Collection is the storage-agnostic surface the chunked tier needs.
// MongoCollection implements it against a real *mongo.Collection pair
// (chunks + pending jobs); MemoryCollection implements it in-process for
// tests. Grounded on the repository-interface pattern (database access
// hidden behind a small domain interface rather than a concrete driver
// type threaded through every caller).
type Collection interface {
	FindOne(ctx context.Context, indexName, term string, chunkIndex int) (Chunk, bool, error)
	Find(ctx context.Context, indexName, term string) ([]Chunk, error)
	UpsertChunk(ctx context.Context, chunk Chunk) error
	MergePostings(ctx context.Context, indexName, term string, chunkIndex int, postings map[string]index.PostingEntry) error
	DeleteChunksFrom(ctx context.Context, indexName, term string, fromChunkIndex int) (int64, error)
	DeleteAllForIndex(ctx context.Context, indexName string) (int64, error)
	DeleteAllForTerm(ctx context.Context, indexName, term string) (int64, error)
	DistinctTermsWithPrefix(ctx context.Context, indexName, fieldValuePrefix string) ([]string, error)
	PutPendingJob(ctx context.Context, job PendingJob) error
	PopOldestPendingJob(ctx context.Context) (PendingJob, bool, error)
	FindPendingJobByKey(ctx context.Context, key string) (PendingJob, bool, error)
	DeletePendingJob(ctx context.Context, key string) error
}
