package docproc

// AutoDetect builds a runtime Mapping from a sample document when no index
// mapping was configured: strings become text fields, numbers/booleans and
// arrays-of-strings become keyword fields, nested objects are recursed
// into with dot-joined paths.
func AutoDetect(source map[string]any) Mapping {
	out := make(Mapping)
	detectInto(source, "", out)
	return out
}

func detectInto(source map[string]any, prefix string, out Mapping) {
	for key, v := range source {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		switch val := v.(type) {
		case string:
			out[path] = FieldMapping{Analyzer: "standard", Indexed: true, Stored: true, Weight: 1}
		case map[string]any:
			detectInto(val, path, out)
		case []any:
			out[path] = FieldMapping{Analyzer: "keyword", Indexed: true, Stored: true, Weight: 1}
		case []string:
			out[path] = FieldMapping{Analyzer: "keyword", Indexed: true, Stored: true, Weight: 1}
		case nil:
			// skip: nothing to detect a type from
		default:
			// numbers, booleans, and anything else scalar
			out[path] = FieldMapping{Analyzer: "keyword", Indexed: true, Stored: true, Weight: 1}
		}
	}
}
