package analysis

import (
	"regexp"
	"strings"

	cerrors "github.com/ogini-search/core/internal/errors"
)

// Tokenizer splits raw text into a sequence of positioned tokens.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// nonAlphanumericRegex matches runs of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// acronymRegex handles cases like "HTTPRequest" -> "HTTP Request".
var acronymRegex = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)

// camelCaseRegex handles cases like "theOffice" -> "the Office".
var camelCaseRegex = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// StandardTokenizer splits camelCase/PascalCase boundaries, then splits on
// runs of non-alphanumeric characters. It does not lowercase; lowercasing
// is the lowercase filter's job.
type StandardTokenizer struct{}

func (StandardTokenizer) Tokenize(text string) []Token {
	processed := acronymRegex.ReplaceAllString(text, "$1 $2")
	processed = camelCaseRegex.ReplaceAllString(processed, "$1 $2")

	parts := nonAlphanumericRegex.Split(processed, -1)
	tokens := make([]Token, 0, len(parts))
	pos := 0
	for _, p := range parts {
		if p == "" {
			continue
		}
		tokens = append(tokens, Token{Text: p, Position: pos})
		pos++
	}
	return tokens
}

// WhitespaceTokenizer splits only on whitespace, leaving punctuation
// attached to adjacent characters.
type WhitespaceTokenizer struct{}

func (WhitespaceTokenizer) Tokenize(text string) []Token {
	parts := strings.Fields(text)
	tokens := make([]Token, 0, len(parts))
	for i, p := range parts {
		tokens = append(tokens, Token{Text: p, Position: i})
	}
	return tokens
}

// KeywordTokenizer emits the entire input as a single token, used by
// analyzers that want exact-value matching rather than term splitting.
type KeywordTokenizer struct{}

func (KeywordTokenizer) Tokenize(text string) []Token {
	if text == "" {
		return []Token{}
	}
	return []Token{{Text: text, Position: 0}}
}

// NgramTokenizer splits the input into words with StandardTokenizer,
// lowercases each word, and emits every substring of it of length between
// Min and Max (inclusive). Positions are
// shared by all n-grams drawn from the same source word so a field's
// term-position data still reflects word order.
type NgramTokenizer struct {
	Min int
	Max int
}

func (t NgramTokenizer) Tokenize(text string) []Token {
	min, max := t.Min, t.Max
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}

	words := StandardTokenizer{}.Tokenize(text)
	tokens := make([]Token, 0)
	for _, w := range words {
		runes := []rune(strings.ToLower(w.Text))
		n := len(runes)
		for start := 0; start < n; start++ {
			for size := min; size <= max && start+size <= n; size++ {
				tokens = append(tokens, Token{
					Text:     string(runes[start : start+size]),
					Position: w.Position,
				})
			}
		}
	}
	return tokens
}

// NewTokenizer constructs a registered tokenizer by name. ngram tokenizers
// are parameterized via minGram/maxGram (both ignored for other kinds).
func NewTokenizer(name string, minGram, maxGram int) (Tokenizer, error) {
	switch name {
	case "standard", "":
		return StandardTokenizer{}, nil
	case "whitespace":
		return WhitespaceTokenizer{}, nil
	case "keyword":
		return KeywordTokenizer{}, nil
	case "ngram":
		return NgramTokenizer{Min: minGram, Max: maxGram}, nil
	default:
		return nil, cerrors.NewAnalyzerNotFoundError("tokenizer", name)
	}
}
