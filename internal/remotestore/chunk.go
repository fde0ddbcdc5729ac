// Package remotestore implements the authoritative, chunked posting-list
// tier: each term's postings are split across document-oriented "chunks"
// capped at MaxPostingsPerChunk entries, mirroring how a document store
// like MongoDB avoids unbounded documents.
package remotestore

import (
	"time"

	"github.com/ogini-search/core/index"
)

// MaxPostingsPerChunk bounds how many posting entries a single chunk
// document may hold before it must be split.
const MaxPostingsPerChunk = 5000

// Chunk is one shard of a term's posting list.
type Chunk struct {
	IndexName     string                     `bson:"indexName" json:"indexName"`
	Term          string                     `bson:"term" json:"term"`
	ChunkIndex    int                        `bson:"chunkIndex" json:"chunkIndex"`
	Postings      map[string]index.PostingEntry `bson:"postings" json:"postings"`
	DocumentCount int                        `bson:"documentCount" json:"documentCount"`
	LastUpdated   time.Time                  `bson:"lastUpdated" json:"lastUpdated"`
}

// PendingJob is the durable mirror of a staged persistence-job payload,
// used to recover a job whose in-memory cache entry was evicted before it
// was processed (see the persistence worker's crash-safety contract).
type PendingJob struct {
	Key       string    `bson:"key" json:"key"`
	IndexName string    `bson:"indexName" json:"indexName"`
	BatchID   string    `bson:"batchId" json:"batchId"`
	BulkOpID  string    `bson:"bulkOpId" json:"bulkOpId"`
	Payload   []byte    `bson:"payload" json:"payload"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
