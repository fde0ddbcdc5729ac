// Package stats maintains running index statistics: document counts,
// per-field length totals, and per-term document frequency. These feed
// BM25 scoring without re-scanning the document store on every query.
package stats

import "sync"

// FieldStats tracks the aggregate length and document count for one field.
type FieldStats struct {
	TotalLength int64
	DocCount    int64
}

// Stats holds the running statistics for a single index.
type Stats struct {
	mu              sync.RWMutex
	totalDocuments  int64
	fields          map[string]*FieldStats
	termDocFreq     map[string]int64 // term key ("field:term") -> document frequency
}

// New returns an empty Stats.
func New() *Stats {
	return &Stats{
		fields:      make(map[string]*FieldStats),
		termDocFreq: make(map[string]int64),
	}
}

// UpdateDocumentStats records that a document with the given per-field
// lengths was indexed (sign=1) or removed (sign=-1).
func (s *Stats) UpdateDocumentStats(fieldLengths map[string]int, sign int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalDocuments += sign
	if s.totalDocuments < 0 {
		s.totalDocuments = 0
	}

	for field, length := range fieldLengths {
		fs, ok := s.fields[field]
		if !ok {
			fs = &FieldStats{}
			s.fields[field] = fs
		}
		fs.TotalLength += sign * int64(length)
		fs.DocCount += sign
		if fs.TotalLength < 0 {
			fs.TotalLength = 0
		}
		if fs.DocCount < 0 {
			fs.DocCount = 0
		}
	}
}

// UpdateTermStats adjusts a term's document frequency by delta (+1 when a
// document newly contains the term, -1 when the last occurrence in a
// document is removed).
func (s *Stats) UpdateTermStats(fieldTerm string, delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.termDocFreq[fieldTerm] += delta
	if s.termDocFreq[fieldTerm] <= 0 {
		delete(s.termDocFreq, fieldTerm)
	}
}

// TotalDocuments returns the index's current document count.
func (s *Stats) TotalDocuments() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalDocuments
}

// DocumentFrequency returns how many documents contain fieldTerm.
func (s *Stats) DocumentFrequency(fieldTerm string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.termDocFreq[fieldTerm]
}

// AverageFieldLength returns the mean length of field across all documents
// that have it, or 0 if no document carries the field.
func (s *Stats) AverageFieldLength(field string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fs, ok := s.fields[field]
	if !ok || fs.DocCount == 0 {
		return 0
	}
	return float64(fs.TotalLength) / float64(fs.DocCount)
}

// FieldDocCount returns how many documents carry a non-empty value for field.
func (s *Stats) FieldDocCount(field string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fs, ok := s.fields[field]
	if !ok {
		return 0
	}
	return fs.DocCount
}

// Snapshot is the JSON-serializable form persisted under stats:{index}:{metric}.
type Snapshot struct {
	TotalDocuments int64                  `json:"totalDocuments"`
	Fields         map[string]FieldStats  `json:"fields"`
	TermDocFreq    map[string]int64       `json:"termDocFreq"`
}

// Export produces a Snapshot for persistence.
func (s *Stats) Export() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields := make(map[string]FieldStats, len(s.fields))
	for k, v := range s.fields {
		fields[k] = *v
	}
	termDocFreq := make(map[string]int64, len(s.termDocFreq))
	for k, v := range s.termDocFreq {
		termDocFreq[k] = v
	}
	return Snapshot{
		TotalDocuments: s.totalDocuments,
		Fields:         fields,
		TermDocFreq:    termDocFreq,
	}
}

// Restore replaces the current state with a previously exported Snapshot.
func (s *Stats) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalDocuments = snap.TotalDocuments
	s.fields = make(map[string]*FieldStats, len(snap.Fields))
	for k, v := range snap.Fields {
		fs := v
		s.fields[k] = &fs
	}
	s.termDocFreq = make(map[string]int64, len(snap.TermDocFreq))
	for k, v := range snap.TermDocFreq {
		s.termDocFreq[k] = v
	}
}
