package indexing

import (
	"context"
	"testing"

	"github.com/ogini-search/core/index"
	"github.com/ogini-search/core/internal/analysis"
	"github.com/ogini-search/core/internal/docproc"
	"github.com/ogini-search/core/internal/remotestore"
	"github.com/ogini-search/core/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	registry := analysis.NewRegistry()
	processor := docproc.NewProcessor(registry)
	mapping := docproc.Mapping{
		"title": {Analyzer: "standard", Indexed: true, Stored: true, Weight: 1},
	}
	hot, err := index.NewHotTier(1000)
	if err != nil {
		t.Fatalf("NewHotTier: %v", err)
	}
	remote := remotestore.NewStore(remotestore.NewMemoryCollection())
	docs := store.NewDocumentStore(nil, "products")
	return NewService("products", hot, nil, remote, docs, processor, mapping)
}

func TestIndexDocument_WritesHotTierAndStats(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	if _, err := s.IndexDocument(ctx, "1", map[string]any{"title": "Hello world"}, false); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}

	key := index.TermKey("products", "title", "hello")
	list, ok := s.hot.Get(key)
	if !ok || list.Len() != 1 {
		t.Fatalf("got hot-tier list %v/%v, want one entry for 'hello'", list, ok)
	}

	allKey := index.AllFieldsKey("products", "hello")
	allList, ok := s.hot.Get(allKey)
	if !ok || allList.Len() != 1 {
		t.Fatalf("got all-fields list %v/%v, want one entry for 'hello'", allList, ok)
	}

	if s.DocumentCount() != 1 {
		t.Fatalf("got document count %d, want 1", s.DocumentCount())
	}
	if s.Stats().TotalDocuments() != 1 {
		t.Fatalf("got stats total documents %d, want 1", s.Stats().TotalDocuments())
	}
	if s.Stats().DocumentFrequency("title:hello") != 1 {
		t.Fatalf("got document frequency %d, want 1", s.Stats().DocumentFrequency("title:hello"))
	}
}

func TestIndexDocument_NonBulkPersistsToRemoteSynchronously(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	if _, err := s.IndexDocument(ctx, "1", map[string]any{"title": "Hello world"}, false); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}

	list, err := s.remote.Read(ctx, "products", "title:hello")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if list.Len() != 1 {
		t.Fatalf("got %d entries in remote tier, want 1", list.Len())
	}
}

func TestIndexDocument_BulkReturnsDirtyTermsWithoutRemoteWrite(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	dirty, err := s.IndexDocument(ctx, "1", map[string]any{"title": "Hello world"}, true)
	if err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}
	if len(dirty) == 0 {
		t.Fatal("expected dirty term keys from a bulk call")
	}

	list, err := s.remote.Read(ctx, "products", "title:hello")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if list.Len() != 0 {
		t.Fatalf("bulk path should not write the remote tier synchronously, got %d entries", list.Len())
	}
}

func TestRemoveDocument_ClearsPostingsAndDecrementsCount(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, err := s.IndexDocument(ctx, "1", map[string]any{"title": "Hello world"}, false)
	if err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}

	if err := s.RemoveDocument(ctx, "1"); err != nil {
		t.Fatalf("RemoveDocument: %v", err)
	}

	if s.DocumentCount() != 0 {
		t.Fatalf("got document count %d, want 0", s.DocumentCount())
	}

	list, ok := s.hot.Get(index.TermKey("products", "title", "hello"))
	if ok && list.Len() != 0 {
		t.Fatalf("expected empty posting list after removal, got %d entries", list.Len())
	}

	remoteList, err := s.remote.Read(ctx, "products", "title:hello")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if remoteList.Len() != 0 {
		t.Fatalf("expected empty remote posting list after removal, got %d", remoteList.Len())
	}
}

func TestRemoveDocument_UnknownIDReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	if err := s.RemoveDocument(ctx, "missing"); err == nil {
		t.Fatal("expected error removing an unknown document")
	}
}

func TestIndexDocument_UpdateReplacesOldTokens(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	if _, err := s.IndexDocument(ctx, "1", map[string]any{"title": "alpha"}, false); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}
	if _, err := s.IndexDocument(ctx, "1", map[string]any{"title": "beta"}, false); err != nil {
		t.Fatalf("IndexDocument (update): %v", err)
	}

	if s.DocumentCount() != 1 {
		t.Fatalf("got document count %d, want 1 after update (not a new doc)", s.DocumentCount())
	}

	oldList, ok := s.hot.Get(index.TermKey("products", "title", "alpha"))
	if ok && oldList.Len() != 0 {
		t.Fatalf("expected old token 'alpha' to be cleared, got %d entries", oldList.Len())
	}

	newList, ok := s.hot.Get(index.TermKey("products", "title", "beta"))
	if !ok || newList.Len() != 1 {
		t.Fatalf("expected new token 'beta' to be indexed, got %v/%v", newList, ok)
	}
}
