package retrieval

import (
	"fmt"
	"sync"
)

// Registry hands out per-collection searchers, constructing each lazily and
// reusing it afterwards. It is passed explicitly to the orchestrator instead
// of living as hidden process-wide state, so its lifetime matches the app's.
type Registry struct {
	mu      sync.Mutex
	factory func(collection string) (Searcher, error)
	clients map[string]Searcher
}

// NewRegistry builds a registry around the default HTTP client factory.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		factory: func(collection string) (Searcher, error) {
			return New(cfg, collection)
		},
		clients: make(map[string]Searcher),
	}
}

// NewRegistryWithFactory builds a registry around a custom factory, which is
// how tests substitute fake searchers.
func NewRegistryWithFactory(factory func(collection string) (Searcher, error)) *Registry {
	return &Registry{
		factory: factory,
		clients: make(map[string]Searcher),
	}
}

// For returns the searcher for a collection, creating it on first use.
func (r *Registry) For(collection string) (Searcher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[collection]; ok {
		return client, nil
	}

	client, err := r.factory(collection)
	if err != nil {
		return nil, fmt.Errorf("build searcher for %s: %w", collection, err)
	}

	r.clients[collection] = client
	return client, nil
}

// CourseCollection names the course-material collection for a course.
func CourseCollection(courseID int64) string {
	return fmt.Sprintf("course_%d", courseID)
}
