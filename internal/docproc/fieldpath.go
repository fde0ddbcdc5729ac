package docproc

import "strings"

// ResolveField descends a dot-joined path into a nested document, e.g.
// "author.name" into source["author"].(map[string]any)["name"]. Returns
// ok=false if any segment is missing or not a map where descent requires
// one.
func ResolveField(source map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")

	var current any = source
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		v, exists := m[seg]
		if !exists {
			return nil, false
		}
		current = v
	}
	return current, true
}
