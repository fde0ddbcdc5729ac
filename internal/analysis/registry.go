package analysis

import (
	"sync"

	cerrors "github.com/ogini-search/core/internal/errors"
)

// Registry holds named analyzers. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	analyzers map[string]*Analyzer
}

// NewRegistry returns a Registry pre-seeded with the predefined analyzers:
// standard, simple, whitespace, keyword, lowercase.
func NewRegistry() *Registry {
	r := &Registry{analyzers: make(map[string]*Analyzer)}
	for _, cfg := range predefinedConfigs() {
		a, err := NewAnalyzer(cfg)
		if err != nil {
			// predefinedConfigs is a fixed, known-good set; a failure here
			// is a programming error, not a runtime condition.
			panic(err)
		}
		r.analyzers[cfg.Name] = a
	}
	return r
}

// Register adds a custom analyzer. It fails if the name is already taken,
// including the predefined names.
func (r *Registry) Register(a *Analyzer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.analyzers[a.Name]; exists {
		return cerrors.NewConflictError("analyzer already registered: " + a.Name)
	}
	r.analyzers[a.Name] = a
	return nil
}

// Get returns the named analyzer, or an error if it isn't registered.
func (r *Registry) Get(name string) (*Analyzer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.analyzers[name]
	if !ok {
		return nil, cerrors.NewAnalyzerNotFoundError("analyzer", name)
	}
	return a, nil
}

// Names returns every registered analyzer name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	return names
}
