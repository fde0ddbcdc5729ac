package analysis

import cerrors "github.com/ogini-search/core/internal/errors"

// Analyzer chains one Tokenizer with an ordered list of Filters.
type Analyzer struct {
	Name      string
	Tokenizer Tokenizer
	Filters   []Filter
}

// Analyze runs the tokenizer then every filter in order, returning the
// final token stream.
func (a Analyzer) Analyze(text string) []Token {
	tokens := a.Tokenizer.Tokenize(text)
	for _, f := range a.Filters {
		tokens = f.Apply(tokens)
	}
	return tokens
}

// Config describes an analyzer to be built by NewAnalyzer: a name, the
// tokenizer to use, and an ordered list of filter names.
type Config struct {
	Name      string
	Tokenizer string
	Filters   []string
	MinGram   int
	MaxGram   int
	Stopwords []string
}

// NewAnalyzer builds an Analyzer from a Config, validating that the named
// tokenizer and every named filter are known.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if cfg.Name == "" {
		return nil, cerrors.NewInvalidConfigError("analyzer name must not be empty")
	}

	tok, err := NewTokenizer(cfg.Tokenizer, cfg.MinGram, cfg.MaxGram)
	if err != nil {
		return nil, err
	}

	filters := make([]Filter, 0, len(cfg.Filters))
	for _, name := range cfg.Filters {
		f, err := NewFilter(name, cfg.Stopwords)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}

	return &Analyzer{Name: cfg.Name, Tokenizer: tok, Filters: filters}, nil
}

// predefinedConfigs describes the analyzers every Registry is seeded with.
func predefinedConfigs() []Config {
	return []Config{
		{Name: "standard", Tokenizer: "standard", Filters: []string{"lowercase", "stopword"}},
		{Name: "simple", Tokenizer: "standard", Filters: []string{"lowercase"}},
		{Name: "whitespace", Tokenizer: "whitespace", Filters: nil},
		{Name: "keyword", Tokenizer: "keyword", Filters: []string{"lowercase"}},
		{Name: "lowercase", Tokenizer: "standard", Filters: []string{"lowercase"}},
	}
}
