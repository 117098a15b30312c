// pkg/entity/template.go
package entity

import "sync"

// Template is a spawn blueprint: an entity type plus the base properties
// applied before any per-spawn overrides.
type Template struct {
	ID          string
	EntityType  string
	Radius      float64
	Health      float64
	Color       [3]uint8
	MaxVelocity float64
}

// TemplateSource resolves templates by id. The registry lives outside the
// core (asset loading is a collaborator concern); the Manager only depends
// on this lookup interface.
type TemplateSource interface {
	Get(templateID string) (*Template, bool)
}

// Registry is a minimal in-memory TemplateSource for drivers and tests.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRegistry creates an empty template registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register stores a template under its ID, replacing any previous entry.
func (r *Registry) Register(t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.ID] = t
}

// Get implements TemplateSource.
func (r *Registry) Get(templateID string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[templateID]
	return t, ok
}
