// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Common event types
const (
	EntitySpawned     Type = "entity_spawned"
	EntityDespawned   Type = "entity_despawned"
	EntityFractured   Type = "entity_fractured"
	EntityCollision   Type = "entity_collision"
	ProjectileFired   Type = "projectile_fired"
	ProjectileExpired Type = "projectile_expired"
	WaveStarted       Type = "wave_started"
	WaveCompleted     Type = "wave_completed"
	EffectApplied     Type = "effect_applied"
	EffectExpired     Type = "effect_expired"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	for _, handler := range handlers {
		handler(event)
	}
}

// Specific event implementations

// EntityEvent contains information about entity lifecycle events
type EntityEvent struct {
	BaseEvent
	EntityID   uint64
	EntityType string
}

// NewEntityEvent creates a new entity lifecycle event
func NewEntityEvent(eventType Type, source interface{}, entityID uint64, entityType string) *EntityEvent {
	return &EntityEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		EntityID:   entityID,
		EntityType: entityType,
	}
}

// CollisionEvent contains information about entity collisions
type CollisionEvent struct {
	BaseEvent
	EntityA uint64
	EntityB uint64
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, entityA, entityB uint64) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: EntityCollision,
			Source:    source,
		},
		EntityA: entityA,
		EntityB: entityB,
	}
}

// FractureEvent contains information about a fracture, including the
// ids of the child fragments spawned by the split.
type FractureEvent struct {
	BaseEvent
	ParentID   uint64
	ChildIDs   []uint64
	SizeTier   int
	Generation int
}

// NewFractureEvent creates a new fracture event
func NewFractureEvent(source interface{}, parentID uint64, childIDs []uint64, sizeTier, generation int) *FractureEvent {
	return &FractureEvent{
		BaseEvent: BaseEvent{
			EventType: EntityFractured,
			Source:    source,
		},
		ParentID:   parentID,
		ChildIDs:   childIDs,
		SizeTier:   sizeTier,
		Generation: generation,
	}
}

// WaveEvent contains information about wave progression
type WaveEvent struct {
	BaseEvent
	WaveNumber    int
	AsteroidCount int
}

// NewWaveEvent creates a new wave event
func NewWaveEvent(eventType Type, source interface{}, waveNumber, asteroidCount int) *WaveEvent {
	return &WaveEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		WaveNumber:    waveNumber,
		AsteroidCount: asteroidCount,
	}
}
