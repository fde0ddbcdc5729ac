package index

import "testing"

func TestPostingList_UpsertKeepsOrder(t *testing.T) {
	var pl PostingList
	pl = pl.Upsert(NewPostingEntry("c", "title"))
	pl = pl.Upsert(NewPostingEntry("a", "title"))
	pl = pl.Upsert(NewPostingEntry("b", "title"))

	want := []string{"a", "b", "c"}
	for i, w := range want {
		if pl[i].DocID != w {
			t.Fatalf("pl[%d].DocID = %q, want %q (full: %v)", i, pl[i].DocID, w, pl)
		}
	}
}

func TestPostingList_UpsertReplacesExisting(t *testing.T) {
	var pl PostingList
	pl = pl.Upsert(NewPostingEntry("a", "title"))
	pl = pl.Upsert(PostingEntry{DocID: "a", Frequency: 1, Metadata: map[string]any{"field": "body"}})

	if len(pl) != 1 {
		t.Fatalf("expected 1 entry after replace, got %d", len(pl))
	}
	if pl[0].Metadata["field"] != "body" {
		t.Fatalf("expected replaced entry, got %+v", pl[0])
	}
}

func TestPostingList_Remove(t *testing.T) {
	var pl PostingList
	pl = pl.Upsert(NewPostingEntry("a", "title"))
	pl = pl.Upsert(NewPostingEntry("b", "title"))

	pl = pl.Remove("a")
	if pl.Len() != 1 || pl[0].DocID != "b" {
		t.Fatalf("expected only %q to remain, got %v", "b", pl)
	}

	pl = pl.Remove("missing")
	if pl.Len() != 1 {
		t.Fatalf("removing a missing docID should be a no-op, got %v", pl)
	}
}

func TestNewPostingEntry_MembershipOnly(t *testing.T) {
	e := NewPostingEntry("doc1", "title")
	if e.Frequency != 1 {
		t.Errorf("Frequency = %d, want 1", e.Frequency)
	}
	if e.Positions != nil {
		t.Errorf("Positions = %v, want nil", e.Positions)
	}
	if e.Metadata["field"] != "title" {
		t.Errorf("Metadata[field] = %v, want title", e.Metadata["field"])
	}
}
