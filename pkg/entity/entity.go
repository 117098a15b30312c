// Package entity provides pooled entity lifecycle management for the
// simulation core. Entities are manufactured once, reused through an
// ObjectPool, and identified by process-unique ids that are reissued on
// every activation so a stale id can never resolve to a recycled entity.
package entity

import (
	"github.com/EngoEngine/ecs"
)

// Component is attached logic updated alongside its owning entity.
type Component interface {
	Init(ownerID uint64)
	Update(dt float64)
	Shutdown()
}

// Body holds the physical state carried by every simulated entity.
// Entities that never move simply keep a zero velocity; there is no
// probing for optional position fields anywhere in the core.
type Body struct {
	X      float64
	Y      float64
	VX     float64
	VY     float64
	Angle  float64
	Radius float64
}

// Entity is the base pooled game object. Identity comes from the embedded
// ecs.BasicEntity and is replaced on every pool acquisition.
type Entity struct {
	ecs.BasicEntity
	Type       string
	Active     bool
	InPool     bool
	Body       Body
	Health     float64
	Color      [3]uint8
	GeneticID  string
	Components map[string]Component
}

// NewEntity creates an inactive entity with an empty component map.
func NewEntity() *Entity {
	return &Entity{
		BasicEntity: ecs.NewBasic(),
		Components:  make(map[string]Component),
	}
}

// AddComponent attaches a component and initializes it with the owner id.
func (e *Entity) AddComponent(componentID string, component Component) {
	component.Init(e.ID())
	e.Components[componentID] = component
}

// GetComponent returns the component registered under componentID, if any.
func (e *Entity) GetComponent(componentID string) (Component, bool) {
	c, ok := e.Components[componentID]
	return c, ok
}

// HasComponent checks whether the entity carries the given component.
func (e *Entity) HasComponent(componentID string) bool {
	_, ok := e.Components[componentID]
	return ok
}

// RemoveComponent shuts down and detaches a component.
func (e *Entity) RemoveComponent(componentID string) {
	if c, ok := e.Components[componentID]; ok {
		c.Shutdown()
		delete(e.Components, componentID)
	}
}

// Update advances all attached components. Inactive entities are skipped
// by the caller via the Active flag; movement is integrated by the system
// that owns the entity, not here.
func (e *Entity) Update(dt float64) {
	if !e.Active {
		return
	}
	for _, component := range e.Components {
		component.Update(dt)
	}
}

// Activate marks the entity live, leaving the pool.
func (e *Entity) Activate() {
	e.Active = true
	e.InPool = false
}

// Deactivate marks the entity pooled without clearing its state.
func (e *Entity) Deactivate() {
	e.Active = false
	e.InPool = true
	for _, component := range e.Components {
		component.Shutdown()
	}
}

// Reset deactivates the entity and clears its component map.
// Scalar fields are restored to type defaults by the owning pool.
func (e *Entity) Reset() {
	e.Active = false
	e.InPool = true
	for id, component := range e.Components {
		component.Shutdown()
		delete(e.Components, id)
	}
}
