package index

import "strings"

// AllFieldsMarker is the synthetic field name used for the cross-field
// mirror of every posting: alongside writing to {index}:{field}:{term}, the
// indexing service also writes to {index}:_all:{term} so a query that
// doesn't pin a field can still find the term.
const AllFieldsMarker = "_all"

// TermKey builds the canonical dictionary key for (index, field, term).
func TermKey(indexName, field, term string) string {
	var b strings.Builder
	b.Grow(len(indexName) + len(field) + len(term) + 2)
	b.WriteString(indexName)
	b.WriteByte(':')
	b.WriteString(field)
	b.WriteByte(':')
	b.WriteString(term)
	return b.String()
}

// AllFieldsKey builds the canonical key for the _all mirror of a term.
func AllFieldsKey(indexName, term string) string {
	return TermKey(indexName, AllFieldsMarker, term)
}

// SplitTermKey reverses TermKey, returning (indexName, field, term, ok).
// ok is false if key doesn't have the expected three-part shape.
func SplitTermKey(key string) (indexName, field, term string, ok bool) {
	first := strings.IndexByte(key, ':')
	if first < 0 {
		return "", "", "", false
	}
	second := strings.IndexByte(key[first+1:], ':')
	if second < 0 {
		return "", "", "", false
	}
	second += first + 1
	return key[:first], key[first+1 : second], key[second+1:], true
}
