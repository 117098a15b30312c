// pkg/entity/manager.go
package entity

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-asteroids/pkg/event"
	"github.com/opd-ai/go-asteroids/pkg/logging"
	"github.com/opd-ai/go-asteroids/pkg/validation"
)

// Sentinel errors reported by the Manager. All are recoverable
// configuration or lookup conditions, never fatal.
var (
	ErrTypeNotRegistered = errors.New("entity type not registered")
	ErrEntityNotFound    = errors.New("entity not found")
	ErrTemplateNotFound  = errors.New("template not found")
)

// SpawnOption overrides a field of a freshly acquired entity.
// Options run after template base properties, so overrides always win.
type SpawnOption func(*Entity)

// WithPosition sets the spawn position.
func WithPosition(x, y float64) SpawnOption {
	return func(e *Entity) {
		e.Body.X = x
		e.Body.Y = y
	}
}

// WithVelocity sets the spawn velocity.
func WithVelocity(vx, vy float64) SpawnOption {
	return func(e *Entity) {
		e.Body.VX = vx
		e.Body.VY = vy
	}
}

// WithAngle sets the spawn heading in radians.
func WithAngle(angle float64) SpawnOption {
	return func(e *Entity) { e.Body.Angle = angle }
}

// WithRadius sets the collision radius.
func WithRadius(radius float64) SpawnOption {
	return func(e *Entity) { e.Body.Radius = radius }
}

// WithHealth sets the starting health.
func WithHealth(health float64) SpawnOption {
	return func(e *Entity) { e.Health = health }
}

// WithColor sets the RGB color.
func WithColor(color [3]uint8) SpawnOption {
	return func(e *Entity) { e.Color = color }
}

// WithGeneticID sets the lineage id.
func WithGeneticID(id string) SpawnOption {
	return func(e *Entity) { e.GeneticID = id }
}

// WithComponent attaches a component at spawn time.
func WithComponent(componentID string, component Component) SpawnOption {
	return func(e *Entity) { e.AddComponent(componentID, component) }
}

// Manager owns all entity pools and the global active-entity index.
// It is driven by a single simulation thread; cross-thread consumers get
// snapshot copies, never live references.
type Manager struct {
	pools     map[string]*ObjectPool
	entities  map[uint64]*Entity
	templates TemplateSource
	events    *event.Bus
	logger    *logging.Logger
	running   bool
}

// NewManager creates an entity manager. templates may be nil if
// SpawnFromTemplate is never used; events may be nil to disable publishing.
func NewManager(templates TemplateSource, events *event.Bus) *Manager {
	return &Manager{
		pools:     make(map[string]*ObjectPool),
		entities:  make(map[uint64]*Entity),
		templates: templates,
		events:    events,
		logger:    logging.NewLogger(),
	}
}

// Initialize starts the manager.
func (m *Manager) Initialize() error {
	m.running = true
	return nil
}

// Tick updates the components of all active entities. Inactive entities
// are skipped via the Active flag, not removed mid-iteration.
func (m *Manager) Tick(dt float64) {
	if !m.running {
		return
	}
	for _, e := range m.entities {
		if e.Active {
			e.Update(dt)
		}
	}
}

// Shutdown releases every active entity back to its pool and stops the
// manager.
func (m *Manager) Shutdown() {
	for _, pool := range m.pools {
		pool.ReleaseAll()
	}
	m.entities = make(map[uint64]*Entity)
	m.running = false
}

// RegisterType registers an entity type with a pre-allocated pool.
// Re-registering a type whose pool still holds active entities is
// rejected: replacing the pool would strand those entities in the
// global index with nowhere to release to.
func (m *Manager) RegisterType(entityType string, factory Factory, poolSize int) error {
	tag, err := validation.ValidateTypeTag(entityType)
	if err != nil {
		return fmt.Errorf("register type: %w", err)
	}
	if factory == nil {
		return fmt.Errorf("register type %q: factory must not be nil", tag)
	}
	if existing, ok := m.pools[tag]; ok && existing.ActiveCount() > 0 {
		return fmt.Errorf("register type %q: pool has %d active entities", tag, existing.ActiveCount())
	}
	m.pools[tag] = NewObjectPool(factory, poolSize)
	return nil
}

// IsRegistered reports whether an entity type has a pool.
func (m *Manager) IsRegistered(entityType string) bool {
	_, ok := m.pools[entityType]
	return ok
}

// Spawn acquires an entity of the given type from its pool, applies the
// supplied overrides, and registers it in the global active index.
func (m *Manager) Spawn(entityType string, opts ...SpawnOption) (*Entity, error) {
	pool, ok := m.pools[entityType]
	if !ok {
		return nil, fmt.Errorf("spawn %q: %w", entityType, ErrTypeNotRegistered)
	}

	e := pool.Acquire()
	e.Type = entityType
	for _, opt := range opts {
		opt(e)
	}

	if err := validateSpawnState(e); err != nil {
		pool.Release(e)
		return nil, fmt.Errorf("spawn %q: %w", entityType, err)
	}

	m.entities[e.ID()] = e

	if m.events != nil {
		m.events.Publish(event.NewEntityEvent(event.EntitySpawned, m, e.ID(), entityType))
	}
	return e, nil
}

// validateSpawnState rejects entities whose options produced a state the
// simulation cannot step. A zero radius is allowed: point entities are
// legal until a collision shape is assigned.
func validateSpawnState(e *Entity) error {
	if err := validation.ValidatePosition(e.Body.X, e.Body.Y); err != nil {
		return err
	}
	if err := validation.ValidateVelocity(e.Body.VX, e.Body.VY); err != nil {
		return err
	}
	if e.Body.Radius != 0 {
		if err := validation.ValidateRadius(e.Body.Radius); err != nil {
			return err
		}
	}
	return nil
}

// SpawnFromTemplate resolves a template through the injected registry,
// auto-registers its entity type if not yet known, applies template base
// properties, then overrides, in that order.
func (m *Manager) SpawnFromTemplate(templateID string, opts ...SpawnOption) (*Entity, error) {
	if m.templates == nil {
		return nil, fmt.Errorf("spawn from template %q: no template source configured", templateID)
	}
	tpl, ok := m.templates.Get(templateID)
	if !ok {
		return nil, fmt.Errorf("spawn from template %q: %w", templateID, ErrTemplateNotFound)
	}

	if !m.IsRegistered(tpl.EntityType) {
		if err := m.RegisterType(tpl.EntityType, NewEntity, defaultPoolSize); err != nil {
			return nil, err
		}
	}

	applyTemplate := func(e *Entity) {
		e.Body.Radius = tpl.Radius
		e.Health = tpl.Health
		e.Color = tpl.Color
	}
	// The speed cap runs after the caller's overrides so a WithVelocity
	// above the template limit is clamped, not silently kept.
	capSpeed := func(e *Entity) {
		if tpl.MaxVelocity <= 0 {
			return
		}
		speed := math.Hypot(e.Body.VX, e.Body.VY)
		if speed > tpl.MaxVelocity {
			scale := tpl.MaxVelocity / speed
			e.Body.VX *= scale
			e.Body.VY *= scale
		}
	}
	spawnOpts := append([]SpawnOption{applyTemplate}, opts...)
	return m.Spawn(tpl.EntityType, append(spawnOpts, capSpeed)...)
}

// defaultPoolSize is used when a template auto-registers its entity type.
const defaultPoolSize = 10

// Despawn clears an entity's components, resets its fields to type
// defaults, and returns it to its pool. Unknown or already-despawned ids
// are reported, not fatal.
func (m *Manager) Despawn(id uint64) error {
	e, ok := m.entities[id]
	if !ok {
		return fmt.Errorf("despawn %d: %w", id, ErrEntityNotFound)
	}

	pool, ok := m.pools[e.Type]
	if !ok {
		return fmt.Errorf("despawn %d: type %q: %w", id, e.Type, ErrTypeNotRegistered)
	}

	entityType := e.Type
	delete(m.entities, id)
	if !pool.Release(e) {
		return fmt.Errorf("despawn %d: type %q: entity not held by pool", id, entityType)
	}

	if m.events != nil {
		m.events.Publish(event.NewEntityEvent(event.EntityDespawned, m, id, entityType))
	}
	return nil
}

// Get returns the active entity with the given id.
func (m *Manager) Get(id uint64) (*Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// ByType returns all active entities of the given type. An unregistered
// type yields an empty slice, not an error.
func (m *Manager) ByType(entityType string) []*Entity {
	pool, ok := m.pools[entityType]
	if !ok {
		return nil
	}
	return pool.ActiveEntities()
}

// ActiveEntities returns all active entities across every pool.
func (m *Manager) ActiveEntities() []*Entity {
	entities := make([]*Entity, 0, len(m.entities))
	for _, e := range m.entities {
		if e.Active {
			entities = append(entities, e)
		}
	}
	return entities
}

// ClearAll releases every entity back to its pool.
func (m *Manager) ClearAll() {
	for _, pool := range m.pools {
		pool.ReleaseAll()
	}
	m.entities = make(map[uint64]*Entity)
	m.logger.Debug(context.Background(), "all entities released to pools")
}

// PoolStats describes one pool's occupancy.
type PoolStats struct {
	Active      int `json:"active"`
	Free        int `json:"free"`
	InitialSize int `json:"initial_size"`
	Grown       int `json:"grown"`
}

// Status reports per-type pool occupancy.
func (m *Manager) Status() map[string]PoolStats {
	status := make(map[string]PoolStats, len(m.pools))
	for entityType, pool := range m.pools {
		status[entityType] = PoolStats{
			Active:      pool.ActiveCount(),
			Free:        pool.FreeCount(),
			InitialSize: pool.InitialSize(),
			Grown:       pool.Grown(),
		}
	}
	return status
}
