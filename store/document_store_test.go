package store

import (
	"path/filepath"
	"testing"

	"github.com/ogini-search/core/internal/docproc"
	"github.com/ogini-search/core/internal/kv"
)

func openTestKV(t *testing.T) *kv.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := kv.Open(path)
	if err != nil {
		t.Fatalf("kv.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleDoc(id string) *docproc.ProcessedDocument {
	return &docproc.ProcessedDocument{
		ID:     id,
		Source: map[string]any{"title": "hello world"},
		Fields: map[string]docproc.FieldData{
			"title": {
				Original:        "hello world",
				Terms:           []string{"hello", "world"},
				TermFrequencies: map[string]int{"hello": 1, "world": 1},
				Positions:       map[string][]int{"hello": {0}, "world": {1}},
				Length:          2,
			},
		},
		FieldLengths: map[string]int{"title": 2},
	}
}

func TestDocumentStore_PutGet(t *testing.T) {
	s := NewDocumentStore(openTestKV(t), "products")

	if err := s.Put(sampleDoc("1")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := s.Get("1")
	if !ok {
		t.Fatal("expected document to be found")
	}
	if got.Fields["title"].Length != 2 {
		t.Fatalf("got length %d, want 2", got.Fields["title"].Length)
	}
}

func TestDocumentStore_Delete(t *testing.T) {
	s := NewDocumentStore(openTestKV(t), "products")
	_ = s.Put(sampleDoc("1"))

	if err := s.Delete("1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Get("1"); ok {
		t.Fatal("expected document to be gone after Delete")
	}
	if s.Count() != 0 {
		t.Fatalf("got count %d, want 0", s.Count())
	}
}

func TestDocumentStore_LoadAll(t *testing.T) {
	kvStore := openTestKV(t)
	s := NewDocumentStore(kvStore, "products")
	_ = s.Put(sampleDoc("1"))
	_ = s.Put(sampleDoc("2"))

	reloaded := NewDocumentStore(kvStore, "products")
	if err := reloaded.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if reloaded.Count() != 2 {
		t.Fatalf("got count %d, want 2 after LoadAll", reloaded.Count())
	}
}

func TestDocumentStore_ListPagination(t *testing.T) {
	s := NewDocumentStore(openTestKV(t), "products")
	_ = s.Put(sampleDoc("1"))
	_ = s.Put(sampleDoc("2"))
	_ = s.Put(sampleDoc("3"))

	page := s.List(nil, 1, 1)
	if len(page) != 1 || page[0].ID != "2" {
		t.Fatalf("got %+v, want page starting at doc 2", page)
	}
}

func TestDocumentStore_GobRoundTrip(t *testing.T) {
	s := NewDocumentStore(nil, "products")
	_ = s.Put(sampleDoc("1"))

	data, err := s.GobEncode()
	if err != nil {
		t.Fatalf("GobEncode: %v", err)
	}

	restored := NewDocumentStore(nil, "")
	if err := restored.GobDecode(data); err != nil {
		t.Fatalf("GobDecode: %v", err)
	}
	if restored.Count() != 1 {
		t.Fatalf("got count %d, want 1 after gob round trip", restored.Count())
	}
}
