// Package index implements the term dictionary's hot tier: posting lists,
// canonical term keys, and a bounded in-memory LRU sitting in front of the
// embedded and remote storage tiers.
package index

// PostingEntry records that a document contains a term. Frequency and
// Positions always hold the fixed values (1, nil) for a freshly indexed
// entry: they mark membership only. Actual term frequency and position
// data live on the processed document in the document store; scoring
// reads them from there, not from the posting entry.
type PostingEntry struct {
	DocID     string         `json:"docId"`
	Frequency int            `json:"frequency"`
	Positions []int          `json:"positions,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewPostingEntry builds the canonical membership-only posting entry for
// (docID, field).
func NewPostingEntry(docID, field string) PostingEntry {
	return PostingEntry{
		DocID:     docID,
		Frequency: 1,
		Metadata:  map[string]any{"field": field},
	}
}

// PostingList is the set of documents containing a term, keyed implicitly
// by PostingEntry.DocID. Upsert keeps the list sorted by DocID.
type PostingList []PostingEntry

// Upsert inserts or replaces the entry for entry.DocID, keeping the list
// sorted by DocID so repeated upserts stay O(log n) to locate.
func (pl PostingList) Upsert(entry PostingEntry) PostingList {
	i, found := pl.search(entry.DocID)
	if found {
		pl[i] = entry
		return pl
	}
	pl = append(pl, PostingEntry{})
	copy(pl[i+1:], pl[i:])
	pl[i] = entry
	return pl
}

// Remove deletes the entry for docID, if present.
func (pl PostingList) Remove(docID string) PostingList {
	i, found := pl.search(docID)
	if !found {
		return pl
	}
	return append(pl[:i], pl[i+1:]...)
}

func (pl PostingList) search(docID string) (int, bool) {
	lo, hi := 0, len(pl)
	for lo < hi {
		mid := (lo + hi) / 2
		if pl[mid].DocID < docID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(pl) && pl[lo].DocID == docID
}

// Len is the document count for this term.
func (pl PostingList) Len() int { return len(pl) }
