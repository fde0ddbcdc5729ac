package remotestore

import (
	"context"
	"sort"

	"github.com/ogini-search/core/index"
)

// Store is the chunked posting-list tier built over a Collection. It owns
// chunk partitioning, the two write modes (Replace, AtomicMerge), and
// rebalance-on-overflow.
type Store struct {
	coll Collection
}

// NewStore wraps a Collection with the chunking/merge/rebalance logic.
func NewStore(coll Collection) *Store {
	return &Store{coll: coll}
}

// Collection exposes the underlying Collection for callers that need the
// pending-jobs table directly (the bulk pipeline's payload staging).
func (s *Store) Collection() Collection {
	return s.coll
}

// Read loads every chunk for (indexName, term) ordered by chunkIndex and
// merges them into one logical posting list. An absent term (no chunks)
// returns an empty, non-nil list.
func (s *Store) Read(ctx context.Context, indexName, term string) (index.PostingList, error) {
	chunks, err := s.coll.Find(ctx, indexName, term)
	if err != nil {
		return nil, err
	}

	var list index.PostingList
	for _, c := range chunks {
		for _, entry := range c.Postings {
			list = list.Upsert(entry)
		}
	}
	if list == nil {
		list = index.PostingList{}
	}
	return list, nil
}

// Replace performs a full rewrite of a term's posting list: partitions
// postings into chunks, upserts each, and deletes any chunk whose index is
// beyond the new chunk count.
func (s *Store) Replace(ctx context.Context, indexName, term string, postings map[string]index.PostingEntry) error {
	docIDs := make([]string, 0, len(postings))
	for id := range postings {
		docIDs = append(docIDs, id)
	}
	sort.Strings(docIDs)

	chunkCount := 0
	for i := 0; i < len(docIDs); i += MaxPostingsPerChunk {
		end := i + MaxPostingsPerChunk
		if end > len(docIDs) {
			end = len(docIDs)
		}

		chunkPostings := make(map[string]index.PostingEntry, end-i)
		for _, id := range docIDs[i:end] {
			chunkPostings[id] = postings[id]
		}

		if err := s.coll.UpsertChunk(ctx, Chunk{
			IndexName:     indexName,
			Term:          term,
			ChunkIndex:    chunkCount,
			Postings:      chunkPostings,
			DocumentCount: len(chunkPostings),
		}); err != nil {
			return err
		}
		chunkCount++
	}
	if chunkCount == 0 {
		chunkCount = 1
		if err := s.coll.UpsertChunk(ctx, Chunk{
			IndexName: indexName, Term: term, ChunkIndex: 0,
			Postings: map[string]index.PostingEntry{},
		}); err != nil {
			return err
		}
	}

	if _, err := s.coll.DeleteChunksFrom(ctx, indexName, term, chunkCount); err != nil {
		return err
	}
	return nil
}

// AtomicMerge is the preferred bulk-indexing write path: it chooses a
// target chunk (the last existing one if it has room, else the next chunk
// index) from the existing chunks' counts, then sets postings.{docId}
// fields in a single upsert without reading back and rewriting the chunk's
// existing postings, so a transient read failure never erases data. If the
// merge pushes the target chunk over the cap, a rebalance is triggered;
// rebalance failure is non-fatal (the next merge retries it).
func (s *Store) AtomicMerge(ctx context.Context, indexName, term string, postings map[string]index.PostingEntry) error {
	existing, err := s.coll.Find(ctx, indexName, term)
	if err != nil {
		return err
	}

	targetIndex := 0
	targetSize := 0
	if n := len(existing); n > 0 {
		last := existing[n-1]
		if last.DocumentCount < MaxPostingsPerChunk {
			targetIndex = last.ChunkIndex
			targetSize = last.DocumentCount
		} else {
			targetIndex = last.ChunkIndex + 1
		}
	}

	if err := s.coll.MergePostings(ctx, indexName, term, targetIndex, postings); err != nil {
		return err
	}

	if targetSize+len(postings) > MaxPostingsPerChunk {
		// Rebalance is best-effort: a failure here just means the chunk
		// stays oversized until the next merge retries it.
		_ = s.Rebalance(ctx, indexName, term)
	}
	return nil
}

// Rebalance reads all chunks of a term, re-splits them into
// properly-sized chunks, and rewrites them via Replace.
func (s *Store) Rebalance(ctx context.Context, indexName, term string) error {
	list, err := s.Read(ctx, indexName, term)
	if err != nil {
		return err
	}

	postings := make(map[string]index.PostingEntry, len(list))
	for _, e := range list {
		postings[e.DocID] = e
	}
	return s.Replace(ctx, indexName, term, postings)
}

// DeleteTerm removes every chunk for (indexName, term).
func (s *Store) DeleteTerm(ctx context.Context, indexName, term string) error {
	_, err := s.coll.DeleteAllForTerm(ctx, indexName, term)
	return err
}

// DeleteIndex removes every chunk belonging to indexName.
func (s *Store) DeleteIndex(ctx context.Context, indexName string) error {
	_, err := s.coll.DeleteAllForIndex(ctx, indexName)
	return err
}

// PrefixScan returns distinct term keys under indexName whose field:value
// portion starts with fieldValuePrefix, for wildcard query resolution.
func (s *Store) PrefixScan(ctx context.Context, indexName, fieldValuePrefix string) ([]string, error) {
	return s.coll.DistinctTermsWithPrefix(ctx, indexName, fieldValuePrefix)
}
