// Package store holds processed documents for an index: the in-memory
// working copy the indexing and removal paths consult, synchronously
// mirrored into the embedded KV tier so a crash never loses a document
// whose postings were already written to the hot tier.
package store

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"sort"
	"sync"

	"github.com/ogini-search/core/internal/docproc"
	cerrors "github.com/ogini-search/core/internal/errors"
	"github.com/ogini-search/core/internal/kv"
)

func init() {
	gob.Register(docproc.FieldData{})
}

// DocumentStore holds one index's processed documents, keyed by their
// external document ID.
type DocumentStore struct {
	mu        sync.RWMutex
	docs      map[string]*docproc.ProcessedDocument
	kv        *kv.Store
	indexName string
}

// NewDocumentStore creates a document store for indexName, backed by kvStore
// for durability. kvStore may be nil for tests that only need the in-memory
// behavior.
func NewDocumentStore(kvStore *kv.Store, indexName string) *DocumentStore {
	return &DocumentStore{
		docs:      make(map[string]*docproc.ProcessedDocument),
		kv:        kvStore,
		indexName: indexName,
	}
}

// Put stores (or replaces) a processed document, synchronously persisting
// it to the KV tier before it's visible in memory.
func (s *DocumentStore) Put(doc *docproc.ProcessedDocument) error {
	if s.kv != nil {
		b, err := json.Marshal(doc)
		if err != nil {
			return cerrors.NewInvalidConfigError("document_store.Put: " + err.Error())
		}
		if err := s.kv.Put(kv.DocKey(s.indexName, doc.ID), b); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return nil
}

// Get returns the processed document for id, if present.
func (s *DocumentStore) Get(id string) (*docproc.ProcessedDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Delete removes a document from both the in-memory map and the KV tier.
func (s *DocumentStore) Delete(id string) error {
	if s.kv != nil {
		if err := s.kv.Delete(kv.DocKey(s.indexName, id)); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

// Count returns how many documents are currently held.
func (s *DocumentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// List returns documents matching filter (nil matches everything), sorted
// by ID for stable pagination, applying offset/limit. limit <= 0 means no
// limit.
func (s *DocumentStore) List(filter func(*docproc.ProcessedDocument) bool, offset, limit int) []*docproc.ProcessedDocument {
	s.mu.RLock()
	matched := make([]*docproc.ProcessedDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		if filter == nil || filter(doc) {
			matched = append(matched, doc)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched
}

// LoadAll reloads every persisted document for this index from the KV tier
// into memory, used on warm restart before the hot tier has been repopulated.
func (s *DocumentStore) LoadAll() error {
	if s.kv == nil {
		return nil
	}
	entries, err := s.kv.GetByPrefix(kv.DocPrefix(s.indexName))
	if err != nil {
		return err
	}

	docs := make(map[string]*docproc.ProcessedDocument, len(entries))
	for _, e := range entries {
		var doc docproc.ProcessedDocument
		if err := json.Unmarshal(e.Value, &doc); err != nil {
			return cerrors.NewPersistenceError("document_store.LoadAll:unmarshal", err)
		}
		docs[doc.ID] = &doc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = docs
	return nil
}

// BulkDelete removes every document whose ID is in ids, continuing past
// individual KV failures and returning the first error encountered (if
// any) after attempting all deletes.
func (s *DocumentStore) BulkDelete(ids []string) error {
	var firstErr error
	for _, id := range ids {
		if err := s.Delete(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// gobDocumentStoreData excludes the mutex and KV handle, which gob cannot
// encode and which a restored store must rebind to its own process anyway.
type gobDocumentStoreData struct {
	Docs      map[string]*docproc.ProcessedDocument
	IndexName string
}

// GobEncode implements a fast local snapshot of the in-memory document map,
// independent of the KV tier's row-per-document persistence.
func (s *DocumentStore) GobEncode() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobDocumentStoreData{Docs: s.docs, IndexName: s.indexName}); err != nil {
		return nil, cerrors.NewPersistenceError("document_store.GobEncode", err)
	}
	return buf.Bytes(), nil
}

// GobDecode restores a snapshot produced by GobEncode. The KV handle is not
// part of the snapshot; callers must set it up via NewDocumentStore and copy
// it in if durability is needed going forward.
func (s *DocumentStore) GobDecode(data []byte) error {
	var decoded gobDocumentStoreData
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&decoded); err != nil {
		return cerrors.NewPersistenceError("document_store.GobDecode", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = decoded.Docs
	if s.docs == nil {
		s.docs = make(map[string]*docproc.ProcessedDocument)
	}
	s.indexName = decoded.IndexName
	return nil
}
