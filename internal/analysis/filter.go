package analysis

import (
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
	cerrors "github.com/ogini-search/core/internal/errors"
)

// Filter transforms or drops tokens produced by a Tokenizer. Filters run in
// the order they're configured; a filter that drops a token must simply
// omit it from the returned slice.
type Filter interface {
	Apply(tokens []Token) []Token
}

// LowercaseFilter lowercases every token's text.
type LowercaseFilter struct{}

func (LowercaseFilter) Apply(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		out[i] = Token{Text: strings.ToLower(t.Text), Position: t.Position}
	}
	return out
}

// StopwordFilter drops tokens whose lowercased text is in the stopword set.
type StopwordFilter struct {
	words map[string]struct{}
}

// NewStopwordFilter builds a filter over the given stopword list, or the
// default list when none is supplied.
func NewStopwordFilter(words []string) StopwordFilter {
	if len(words) == 0 {
		return StopwordFilter{words: defaultStopwordSet()}
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return StopwordFilter{words: set}
}

func (f StopwordFilter) Apply(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if _, stop := f.words[strings.ToLower(t.Text)]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// StemmingFilter reduces tokens to their Porter-stemmed form.
type StemmingFilter struct{}

func (StemmingFilter) Apply(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		out[i] = Token{Text: porterstemmer.StemString(t.Text), Position: t.Position}
	}
	return out
}

// NewFilter constructs a registered filter by name.
func NewFilter(name string, stopwords []string) (Filter, error) {
	switch name {
	case "lowercase":
		return LowercaseFilter{}, nil
	case "stopword":
		return NewStopwordFilter(stopwords), nil
	case "stemming":
		return StemmingFilter{}, nil
	default:
		return nil, cerrors.NewAnalyzerNotFoundError("filter", name)
	}
}
