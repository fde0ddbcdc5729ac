package docproc

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Normalize converts a raw field value into the string fed to the
// analyzer: strings are trimmed; numbers and booleans become their
// canonical string form; time.Time becomes RFC3339 (ISO-8601); arrays
// become their normalized elements space-joined with empties filtered;
// objects become their JSON encoding. ok is false for a nil value (the
// field is skipped entirely, not indexed as the empty string) and for an
// object whose JSON encoding fails.
func Normalize(v any) (string, bool) {
	if v == nil {
		return "", false
	}

	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), true
	case time.Time:
		return val.UTC().Format(time.RFC3339), true
	case bool, int, int32, int64, float32, float64:
		return fmt.Sprint(val), true
	case []any:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			if s, ok := Normalize(e); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " "), true
	case []string:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			if s := strings.TrimSpace(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " "), true
	case map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(b), true
	default:
		return fmt.Sprint(val), true
	}
}
