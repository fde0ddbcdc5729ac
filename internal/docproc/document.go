package docproc

// FieldData is the per-field analysis output for one document.
type FieldData struct {
	Original        string
	Terms           []string
	TermFrequencies map[string]int
	Positions       map[string][]int
	Length          int
}

// ProcessedDocument is a document after mapping + analysis, ready for the
// indexing service to fan out postings and statistics from.
//
// Invariant: for every field, sum(TermFrequencies) == Length == len(Terms),
// and len(Positions[t]) == TermFrequencies[t] for every term t.
type ProcessedDocument struct {
	ID           string
	Source       map[string]any
	Fields       map[string]FieldData
	FieldLengths map[string]int
}
