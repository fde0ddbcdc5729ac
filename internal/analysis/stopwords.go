package analysis

// defaultStopwords is the fixed English function-word list used by every
// predefined analyzer that filters stopwords. Two candidate lists existed
// upstream (a short ~30-word function-word set and a larger general-purpose
// list); this is the smaller set, chosen so legitimate content words like
// "search" are never silently dropped from an index.
var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by",
	"for", "if", "in", "into", "is", "it", "no", "not", "of",
	"on", "or", "such", "that", "the", "their", "then", "there",
	"these", "they", "this", "to", "was", "will", "with",
}

func defaultStopwordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(defaultStopwords))
	for _, w := range defaultStopwords {
		set[w] = struct{}{}
	}
	return set
}
