package docproc

import (
	"github.com/ogini-search/core/internal/analysis"
	cerrors "github.com/ogini-search/core/internal/errors"
)

// Processor turns a raw document into a ProcessedDocument using a runtime
// Mapping (or auto-detection when none is given).
type Processor struct {
	registry *analysis.Registry
}

// NewProcessor builds a Processor backed by the given analyzer registry.
func NewProcessor(registry *analysis.Registry) *Processor {
	return &Processor{registry: registry}
}

// Process maps and analyzes source into a ProcessedDocument. If mapping is
// empty, fields are auto-detected from source. A field naming an analyzer
// that isn't registered is a fatal InvalidConfig error for the whole
// document, per the processor's field-resolution contract.
func (p *Processor) Process(id string, source map[string]any, mapping Mapping) (*ProcessedDocument, error) {
	if len(mapping) == 0 {
		mapping = AutoDetect(source)
	}

	doc := &ProcessedDocument{
		ID:           id,
		Source:       source,
		Fields:       make(map[string]FieldData),
		FieldLengths: make(map[string]int),
	}

	for fieldName, fm := range mapping {
		if !fm.Indexed {
			continue
		}

		raw, found := ResolveField(source, fieldName)
		if !found {
			continue
		}

		text, ok := Normalize(raw)
		if !ok {
			continue
		}

		analyzerName := fm.Analyzer
		if analyzerName == "" {
			analyzerName = "standard"
		}
		analyzer, err := p.registry.Get(analyzerName)
		if err != nil {
			return nil, cerrors.NewInvalidConfigError(
				"field '" + fieldName + "' references unknown analyzer '" + analyzerName + "'")
		}

		tokens := analyzer.Analyze(text)

		terms := make([]string, 0, len(tokens))
		freqs := make(map[string]int, len(tokens))
		positions := make(map[string][]int, len(tokens))
		for i, tok := range tokens {
			terms = append(terms, tok.Text)
			freqs[tok.Text]++
			positions[tok.Text] = append(positions[tok.Text], i)
		}

		doc.Fields[fieldName] = FieldData{
			Original:        text,
			Terms:           terms,
			TermFrequencies: freqs,
			Positions:       positions,
			Length:          len(terms),
		}
		doc.FieldLengths[fieldName] = len(terms)
	}

	return doc, nil
}
