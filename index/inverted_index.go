package index

import (
	"bytes"
	"encoding/gob"
	"sync"
)

// Snapshot is a point-in-time, gob-serializable copy of a hot tier's
// contents, used for fast warm-restart reload of frequently-accessed terms
// without reading back through the KV or remote tiers. It is not the
// source of truth — the KV tier and remote store are — so a missing or
// stale snapshot is never an error, only a cold start.
type Snapshot struct {
	Mu    sync.RWMutex
	Terms map[string]PostingList
}

// NewSnapshot returns an empty snapshot ready for population.
func NewSnapshot() *Snapshot {
	return &Snapshot{Terms: make(map[string]PostingList)}
}

// Capture copies every entry currently held by the hot tier's LRU cache
// that belongs to termKeys into the snapshot.
func (s *Snapshot) Capture(hot *HotTier, termKeys []string) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	for _, key := range termKeys {
		if list, ok := hot.Get(key); ok {
			s.Terms[key] = list
		}
	}
}

// Restore loads every snapshotted term back into the hot tier.
func (s *Snapshot) Restore(hot *HotTier) {
	s.Mu.RLock()
	defer s.Mu.RUnlock()

	for key, list := range s.Terms {
		hot.Put(key, list)
	}
}

// gobSnapshotData excludes the mutex from encoding.
type gobSnapshotData struct {
	Terms map[string]PostingList
}

func (s *Snapshot) GobEncode() ([]byte, error) {
	s.Mu.RLock()
	defer s.Mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobSnapshotData{Terms: s.Terms}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Snapshot) GobDecode(data []byte) error {
	var decoded gobSnapshotData
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return err
	}

	s.Mu.Lock()
	defer s.Mu.Unlock()

	s.Terms = decoded.Terms
	if s.Terms == nil {
		s.Terms = make(map[string]PostingList)
	}
	return nil
}
