// Package indexing implements the single-document indexing path: process
// a document, fan its terms out to the hot and embedded-KV tiers, update
// statistics, and report which term keys now need durable persistence.
package indexing

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/ogini-search/core/index"
	"github.com/ogini-search/core/internal/docproc"
	cerrors "github.com/ogini-search/core/internal/errors"
	"github.com/ogini-search/core/internal/kv"
	"github.com/ogini-search/core/internal/remotestore"
	"github.com/ogini-search/core/internal/stats"
	"github.com/ogini-search/core/store"
)

// Service indexes and removes documents for a single index, coordinating
// the hot tier, the embedded KV tier, the document store, and statistics.
// It fulfils spec.md's "indexing service" component.
type Service struct {
	indexName string
	hot       *index.HotTier
	kvStore   *kv.Store
	remote    *remotestore.Store
	docs      *store.DocumentStore
	stats     *stats.Stats
	processor *docproc.Processor
	mapping   docproc.Mapping

	documentCount int64
}

// NewService wires a Service for indexName over its storage tiers.
func NewService(
	indexName string,
	hot *index.HotTier,
	kvStore *kv.Store,
	remote *remotestore.Store,
	docs *store.DocumentStore,
	processor *docproc.Processor,
	mapping docproc.Mapping,
) *Service {
	s := &Service{
		indexName: indexName,
		hot:       hot,
		kvStore:   kvStore,
		remote:    remote,
		docs:      docs,
		processor: processor,
		mapping:   mapping,
		stats:     stats.New(),
	}
	if err := s.loadStats(); err != nil {
		log.Warn().Err(err).Str("index", indexName).Msg("indexing: failed to restore persisted stats snapshot")
	}
	return s
}

// Stats exposes the running statistics for the query reader.
func (s *Service) Stats() *stats.Stats { return s.stats }

// DocumentCount returns the current atomic document count.
func (s *Service) DocumentCount() int64 { return atomic.LoadInt64(&s.documentCount) }

// Hot exposes the hot tier so the bulk pipeline can snapshot posting lists
// for staging without duplicating the indexing service's storage.
func (s *Service) Hot() *index.HotTier { return s.hot }

// fieldTermKey is the stats-facing "field:term" key (distinct from the
// index-qualified term key used by the hot/durable tiers).
func fieldTermKey(field, term string) string { return field + ":" + term }

// IndexDocument runs the document processor over source, writes postings
// to the hot and KV tiers for every (field, term), updates statistics, and
// returns the set of term keys that are now dirty relative to the remote
// tier. When fromBulk is false (a direct, non-batched call), the caller has
// no dirty-list machinery to later drain, so the dirty terms are merged
// into the remote tier synchronously before returning.
func (s *Service) IndexDocument(ctx context.Context, id string, source map[string]any, fromBulk bool) ([]string, error) {
	processed, err := s.processor.Process(id, source, s.mapping)
	if err != nil {
		return nil, err
	}

	if existing, ok := s.docs.Get(id); ok {
		if err := s.removeDocumentPostings(ctx, existing); err != nil {
			return nil, err
		}
		s.stats.UpdateDocumentStats(existing.FieldLengths, -1)
	} else {
		atomic.AddInt64(&s.documentCount, 1)
	}

	if err := s.docs.Put(processed); err != nil {
		return nil, err
	}

	dirty := make([]string, 0)
	dirtySeen := make(map[string]struct{})
	markDirty := func(key string) {
		if _, ok := dirtySeen[key]; ok {
			return
		}
		dirtySeen[key] = struct{}{}
		dirty = append(dirty, key)
	}

	for field, fd := range processed.Fields {
		for term := range fd.TermFrequencies {
			fieldKey := index.TermKey(s.indexName, field, term)
			allKey := index.AllFieldsKey(s.indexName, term)

			if err := s.upsertHotAndKV(fieldKey, index.NewPostingEntry(id, field)); err != nil {
				return nil, err
			}
			if err := s.upsertHotAndKV(allKey, index.NewPostingEntry(id, field)); err != nil {
				return nil, err
			}
			markDirty(fieldKey)
			markDirty(allKey)

			s.stats.UpdateTermStats(fieldTermKey(field, term), 1)
		}
	}
	s.stats.UpdateDocumentStats(processed.FieldLengths, 1)
	if err := s.persistStats(); err != nil {
		return nil, err
	}

	if !fromBulk {
		for _, key := range dirty {
			if err := s.persistTermKey(ctx, key); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	return dirty, nil
}

// persistStats writes a snapshot of the running statistics to the KV tier
// under stats:{index}:snapshot so a cold restart can restore BM25 scoring
// state without replaying every document.
func (s *Service) persistStats() error {
	if s.kvStore == nil {
		return nil
	}
	b, err := json.Marshal(s.stats.Export())
	if err != nil {
		return cerrors.NewInvalidConfigError("indexing.persistStats: " + err.Error())
	}
	return s.kvStore.Put(kv.StatsKey(s.indexName, "snapshot"), b)
}

// loadStats restores the running statistics from a previously persisted
// snapshot, if one exists. Called once at service construction.
func (s *Service) loadStats() error {
	if s.kvStore == nil {
		return nil
	}
	raw, ok, err := s.kvStore.Get(kv.StatsKey(s.indexName, "snapshot"))
	if err != nil || !ok {
		return err
	}
	var snap stats.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return cerrors.NewInvalidConfigError("indexing.loadStats: " + err.Error())
	}
	s.stats.Restore(snap)
	return nil
}

// upsertHotAndKV adds entry to the posting list under key in both the hot
// tier and the embedded KV tier, serialized as JSON.
func (s *Service) upsertHotAndKV(key string, entry index.PostingEntry) error {
	unlock := s.hot.Lock(key)
	defer unlock()

	list, _ := s.hot.Get(key)
	list = list.Upsert(entry)
	s.hot.Put(key, list)

	return s.writeThroughKV(key, list)
}

// removeFromHotAndKV removes docID from the posting list under key, in both
// the hot tier and the embedded KV tier.
func (s *Service) removeFromHotAndKV(key, docID string) error {
	unlock := s.hot.Lock(key)
	defer unlock()

	list, _ := s.hot.Get(key)
	list = list.Remove(docID)
	s.hot.Put(key, list)

	return s.writeThroughKV(key, list)
}

func (s *Service) writeThroughKV(key string, list index.PostingList) error {
	if s.kvStore == nil {
		return nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return cerrors.NewInvalidConfigError("indexing.writeThroughKV: " + err.Error())
	}
	return s.kvStore.Put(kv.TermKey(key), b)
}

// persistTermKey merges the hot tier's current view of key into the remote
// tier. Used by the non-bulk path; the bulk path instead defers this to the
// persistence worker via the dirty list.
func (s *Service) persistTermKey(ctx context.Context, key string) error {
	indexName, field, term, ok := index.SplitTermKey(key)
	if !ok {
		return cerrors.NewInvalidConfigError("indexing.persistTermKey: malformed term key " + key)
	}
	list, _ := s.hot.Get(key)
	postings := make(map[string]index.PostingEntry, len(list))
	for _, e := range list {
		postings[e.DocID] = e
	}
	return s.remote.AtomicMerge(ctx, indexName, field+":"+term, postings)
}

// RemoveDocument removes a document's postings from every tier and
// decrements statistics. Partial failures loading individual posting lists
// from the remote tier are tolerated: the document is still removed from
// the document store and the document count still decrements once.
func (s *Service) RemoveDocument(ctx context.Context, id string) error {
	doc, ok := s.docs.Get(id)
	if !ok {
		return cerrors.NewDocumentNotFoundError(id, s.indexName)
	}

	if err := s.removeDocumentPostings(ctx, doc); err != nil {
		return err
	}

	s.stats.UpdateDocumentStats(doc.FieldLengths, -1)
	if err := s.docs.Delete(id); err != nil {
		return err
	}
	atomic.AddInt64(&s.documentCount, -1)
	return s.persistStats()
}

// removeDocumentPostings removes doc's term entries from the hot/KV tiers
// and rewrites the remote tier for every affected term.
func (s *Service) removeDocumentPostings(ctx context.Context, doc *docproc.ProcessedDocument) error {
	for field, fd := range doc.Fields {
		for term := range fd.TermFrequencies {
			fieldKey := index.TermKey(s.indexName, field, term)
			allKey := index.AllFieldsKey(s.indexName, term)

			if err := s.removeFromHotAndKV(fieldKey, doc.ID); err != nil {
				return err
			}
			if err := s.removeFromHotAndKV(allKey, doc.ID); err != nil {
				return err
			}
			s.stats.UpdateTermStats(fieldTermKey(field, term), -1)

			if err := s.removeFromRemoteTerm(ctx, field, term, doc.ID); err != nil {
				return err
			}
			if err := s.removeFromRemoteTerm(ctx, index.AllFieldsMarker, term, doc.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// removeFromRemoteTerm rewrites the remote tier's posting list for
// (s.indexName, field, term) with docID removed. A remote read failure is
// logged-equivalent and skipped rather than aborting the whole removal,
// per spec.md §7's removal partial-failure tolerance.
func (s *Service) removeFromRemoteTerm(ctx context.Context, field, term, docID string) error {
	list, err := s.remote.Read(ctx, s.indexName, field+":"+term)
	if err != nil {
		return nil
	}
	list = list.Remove(docID)
	postings := make(map[string]index.PostingEntry, len(list))
	for _, e := range list {
		postings[e.DocID] = e
	}
	return s.remote.Replace(ctx, s.indexName, field+":"+term, postings)
}
