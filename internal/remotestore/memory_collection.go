package remotestore

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ogini-search/core/index"
)

// MemoryCollection is an in-process Collection fake used by tests so the
// chunked-tier logic (replace/merge/rebalance/prefix-scan) can be
// exercised without a live MongoDB instance.
type MemoryCollection struct {
	mu     sync.Mutex
	chunks map[string]Chunk // key: indexName|term|chunkIndex
	jobs   map[string]PendingJob
}

// NewMemoryCollection returns an empty fake collection.
func NewMemoryCollection() *MemoryCollection {
	return &MemoryCollection{
		chunks: make(map[string]Chunk),
		jobs:   make(map[string]PendingJob),
	}
}

func chunkMapKey(indexName, term string, chunkIndex int) string {
	return indexName + "|" + term + "|" + strconv.Itoa(chunkIndex)
}

func (m *MemoryCollection) FindOne(_ context.Context, indexName, term string, chunkIndex int) (Chunk, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chunks[chunkMapKey(indexName, term, chunkIndex)]
	return c, ok, nil
}

func (m *MemoryCollection) Find(_ context.Context, indexName, term string) ([]Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Chunk
	for _, c := range m.chunks {
		if c.IndexName == indexName && c.Term == term {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkIndex < out[j].ChunkIndex })
	return out, nil
}

func (m *MemoryCollection) UpsertChunk(_ context.Context, chunk Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	chunk.LastUpdated = time.Now().UTC()
	m.chunks[chunkMapKey(chunk.IndexName, chunk.Term, chunk.ChunkIndex)] = chunk
	return nil
}

func (m *MemoryCollection) MergePostings(_ context.Context, indexName, term string, chunkIndex int, postings map[string]index.PostingEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := chunkMapKey(indexName, term, chunkIndex)
	c, ok := m.chunks[key]
	if !ok {
		c = Chunk{IndexName: indexName, Term: term, ChunkIndex: chunkIndex, Postings: make(map[string]index.PostingEntry)}
	}
	if c.Postings == nil {
		c.Postings = make(map[string]index.PostingEntry)
	}
	for docID, entry := range postings {
		c.Postings[docID] = entry
	}
	c.DocumentCount = len(c.Postings)
	c.LastUpdated = time.Now().UTC()
	m.chunks[key] = c
	return nil
}

func (m *MemoryCollection) DeleteChunksFrom(_ context.Context, indexName, term string, fromChunkIndex int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for key, c := range m.chunks {
		if c.IndexName == indexName && c.Term == term && c.ChunkIndex >= fromChunkIndex {
			delete(m.chunks, key)
			n++
		}
	}
	return n, nil
}

func (m *MemoryCollection) DeleteAllForIndex(_ context.Context, indexName string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for key, c := range m.chunks {
		if c.IndexName == indexName {
			delete(m.chunks, key)
			n++
		}
	}
	return n, nil
}

func (m *MemoryCollection) DeleteAllForTerm(_ context.Context, indexName, term string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for key, c := range m.chunks {
		if c.IndexName == indexName && c.Term == term {
			delete(m.chunks, key)
			n++
		}
	}
	return n, nil
}

func (m *MemoryCollection) DistinctTermsWithPrefix(_ context.Context, indexName, fieldValuePrefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{})
	var out []string
	for _, c := range m.chunks {
		if c.IndexName != indexName {
			continue
		}
		if !strings.HasPrefix(c.Term, fieldValuePrefix) {
			continue
		}
		if _, ok := seen[c.Term]; ok {
			continue
		}
		seen[c.Term] = struct{}{}
		out = append(out, c.Term)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryCollection) PutPendingJob(_ context.Context, job PendingJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	m.jobs[job.Key] = job
	return nil
}

func (m *MemoryCollection) PopOldestPendingJob(_ context.Context) (PendingJob, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var oldestKey string
	var oldest PendingJob
	found := false
	for k, j := range m.jobs {
		if !found || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = j
			oldestKey = k
			found = true
		}
	}
	if !found {
		return PendingJob{}, false, nil
	}
	delete(m.jobs, oldestKey)
	return oldest, true, nil
}

func (m *MemoryCollection) FindPendingJobByKey(_ context.Context, key string) (PendingJob, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[key]
	return job, ok, nil
}

func (m *MemoryCollection) DeletePendingJob(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, key)
	return nil
}
