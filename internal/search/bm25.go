package search

import (
	"math"

	"github.com/ogini-search/core/internal/stats"
)

// defaultK1/defaultB are BM25's standard term-frequency-saturation and
// length-normalization constants; WithConstants replaces them on a
// calculator. internal/config reads SEARCH_BM25_K1/B, but nothing in this
// module passes those values to a calculator.
const (
	defaultK1 = 1.2
	defaultB  = 0.75
)

// BM25Calculator scores a single (term, document) pair against a field's
// running statistics, instead of rescanning the whole document store on
// every query the way a naive implementation would.
type BM25Calculator struct {
	stats *stats.Stats
	k1    float64
	b     float64
}

// NewBM25Calculator builds a calculator over a single index's statistics,
// with the default k1/b constants.
func NewBM25Calculator(s *stats.Stats) *BM25Calculator {
	return &BM25Calculator{stats: s, k1: defaultK1, b: defaultB}
}

// WithConstants overrides k1/b (e.g. from internal/config's SEARCH_BM25_K1
// and SEARCH_BM25_B), returning the same calculator for chaining.
func (calc *BM25Calculator) WithConstants(k1, b float64) *BM25Calculator {
	calc.k1 = k1
	calc.b = b
	return calc
}

// idf computes the inverse document frequency for a field:term key already
// in internal/stats' canonical "field:term" form.
func (calc *BM25Calculator) idf(fieldTerm string) float64 {
	totalDocs := float64(calc.stats.TotalDocuments())
	if totalDocs == 0 {
		return 0
	}
	docFreq := float64(calc.stats.DocumentFrequency(fieldTerm))
	if docFreq == 0 {
		return 0
	}
	return math.Log(1 + (totalDocs-docFreq+0.5)/(docFreq+0.5))
}

// Score computes a single field's BM25 contribution for one document: the
// field the term was matched in, the term itself, the document's term
// frequency in that field (from the processed document's
// FieldData.TermFrequencies), and the document's length in that field
// (FieldData.Length).
func (calc *BM25Calculator) Score(field, term string, termFreq, fieldLength int) float64 {
	fieldTerm := field + ":" + term
	idf := calc.idf(fieldTerm)
	if idf == 0 {
		return 0
	}

	avgLength := calc.stats.AverageFieldLength(field)
	if avgLength == 0 {
		avgLength = float64(fieldLength)
	}

	tf := float64(termFreq)
	norm := tf + calc.k1*(1-calc.b+calc.b*(float64(fieldLength)/avgLength))
	if norm == 0 {
		return 0
	}
	return idf * (tf * (calc.k1 + 1)) / norm
}
