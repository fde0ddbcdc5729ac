// Package docproc converts a raw JSON document into per-field term streams
// using a field mapping, either explicit (from index settings) or
// auto-detected from the document's own shape.
package docproc

// FieldType enumerates the field kinds an index mapping can declare.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldKeyword FieldType = "keyword"
	FieldInteger FieldType = "integer"
	FieldFloat   FieldType = "float"
	FieldDate    FieldType = "date"
	FieldBoolean FieldType = "boolean"
	FieldObject  FieldType = "object"
	FieldNested  FieldType = "nested"
)

// FieldProperty is the persisted, index-settings form of a mapped field.
type FieldProperty struct {
	Type     FieldType `json:"type"`
	Analyzer string    `json:"analyzer,omitempty"`
	Boost    float64   `json:"boost,omitempty"`
	Indexed  *bool     `json:"indexed,omitempty"`
	Stored   bool      `json:"stored,omitempty"`
}

// IndexMapping is the full, persisted field-property set for an index.
type IndexMapping map[string]FieldProperty

// FieldMapping is the runtime, fully-defaulted form the processor consumes:
// {analyzer, indexed, stored, weight}.
type FieldMapping struct {
	Analyzer string
	Indexed  bool
	Stored   bool
	Weight   float64
}

// Mapping is a field name -> runtime FieldMapping.
type Mapping map[string]FieldMapping

// defaultAnalyzerForType picks the analyzer a field falls back to when its
// FieldProperty doesn't name one explicitly.
func defaultAnalyzerForType(t FieldType) string {
	switch t {
	case FieldKeyword, FieldInteger, FieldFloat, FieldDate, FieldBoolean:
		return "keyword"
	default:
		return "standard"
	}
}

// ToMapping converts a persisted IndexMapping into the runtime Mapping the
// processor operates on, applying defaults: indexed defaults to true
// (explicitly false is the only way to exclude a field), weight defaults
// to 1, analyzer defaults by field type.
func ToMapping(im IndexMapping) Mapping {
	out := make(Mapping, len(im))
	for name, fp := range im {
		indexed := true
		if fp.Indexed != nil {
			indexed = *fp.Indexed
		}
		analyzer := fp.Analyzer
		if analyzer == "" {
			analyzer = defaultAnalyzerForType(fp.Type)
		}
		weight := fp.Boost
		if weight == 0 {
			weight = 1
		}
		out[name] = FieldMapping{
			Analyzer: analyzer,
			Indexed:  indexed,
			Stored:   fp.Stored,
			Weight:   weight,
		}
	}
	return out
}
