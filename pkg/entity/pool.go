// pkg/entity/pool.go
package entity

import (
	"github.com/EngoEngine/ecs"
)

// Factory manufactures a blank entity of one type with its default
// scalar field values. Pools call it for pre-allocation and on exhaustion.
type Factory func() *Entity

// ObjectPool manages a free list plus an id-indexed active map for one
// entity type. An entity is in exactly one of the two at all times.
// Pools grow on exhaustion and never shrink below their initial size.
type ObjectPool struct {
	factory     Factory
	proto       *Entity
	free        []*Entity
	active      map[uint64]*Entity
	initialSize int
	grown       int
}

// NewObjectPool pre-allocates initialSize inactive entities.
func NewObjectPool(factory Factory, initialSize int) *ObjectPool {
	p := &ObjectPool{
		factory:     factory,
		proto:       factory(),
		active:      make(map[uint64]*Entity),
		initialSize: initialSize,
	}
	for i := 0; i < initialSize; i++ {
		e := factory()
		e.Deactivate()
		p.free = append(p.free, e)
	}
	return p
}

// Acquire takes an entity from the free list, manufacturing a new one if
// the pool is exhausted. The entity receives a fresh identity so ids
// retained across a despawn can never alias the recycled object.
func (p *ObjectPool) Acquire() *Entity {
	var e *Entity
	if n := len(p.free); n > 0 {
		e = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		e = p.factory()
		p.grown++
	}

	e.BasicEntity = ecs.NewBasic()
	e.Activate()
	p.active[e.ID()] = e
	return e
}

// Release resets an entity to its type defaults and returns it to the
// free list. Returns false if the entity is not active in this pool.
func (p *ObjectPool) Release(e *Entity) bool {
	if _, ok := p.active[e.ID()]; !ok {
		return false
	}
	delete(p.active, e.ID())

	e.Reset()
	e.Body = p.proto.Body
	e.Health = p.proto.Health
	e.Color = p.proto.Color
	e.GeneticID = ""

	p.free = append(p.free, e)
	return true
}

// ReleaseAll returns every active entity to the free list.
func (p *ObjectPool) ReleaseAll() {
	for _, e := range p.active {
		delete(p.active, e.ID())
		e.Reset()
		e.Body = p.proto.Body
		e.Health = p.proto.Health
		e.Color = p.proto.Color
		e.GeneticID = ""
		p.free = append(p.free, e)
	}
}

// Get returns the active entity with the given id.
func (p *ObjectPool) Get(id uint64) (*Entity, bool) {
	e, ok := p.active[id]
	return e, ok
}

// ActiveEntities returns the currently active entities of this pool.
func (p *ObjectPool) ActiveEntities() []*Entity {
	entities := make([]*Entity, 0, len(p.active))
	for _, e := range p.active {
		entities = append(entities, e)
	}
	return entities
}

// ActiveCount returns the number of active entities.
func (p *ObjectPool) ActiveCount() int {
	return len(p.active)
}

// FreeCount returns the number of pooled entities.
func (p *ObjectPool) FreeCount() int {
	return len(p.free)
}

// InitialSize returns the pre-allocated pool size.
func (p *ObjectPool) InitialSize() int {
	return p.initialSize
}

// Grown returns how many entities were manufactured beyond the initial
// allocation because of pool exhaustion.
func (p *ObjectPool) Grown() int {
	return p.grown
}
