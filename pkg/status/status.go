// Package status manages timed buff and debuff effects on entities with
// configurable stacking policies.
package status

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/opd-ai/go-asteroids/pkg/event"
	"github.com/opd-ai/go-asteroids/pkg/validation"
)

var (
	// ErrEffectRejected reports an IGNORE-mode application onto an
	// already-active effect of the same name.
	ErrEffectRejected = errors.New("effect already active")
	// ErrEffectNotFound reports a lookup miss.
	ErrEffectNotFound = errors.New("effect not found")
)

// EffectType classifies a status effect.
type EffectType string

const (
	Buff           EffectType = "buff"
	Debuff         EffectType = "debuff"
	Condition      EffectType = "condition"
	DamageOverTime EffectType = "dot"
	CrowdControl   EffectType = "crowd_control"
)

// StackingMode governs how a new effect combines with an active effect
// of the same name on the same entity.
type StackingMode string

const (
	// Ignore rejects the new application.
	Ignore StackingMode = "ignore"
	// Replace removes the old effect and installs the new one.
	Replace StackingMode = "replace"
	// StackAdditive adds magnitude and duration onto the existing
	// effect without creating a second record.
	StackAdditive StackingMode = "stack_additive"
	// StackMultiplicative multiplies magnitude and adds duration.
	StackMultiplicative StackingMode = "stack_multiplicative"
)

// Effect is one active status effect on an entity.
type Effect struct {
	ID        string
	EntityID  uint64
	Type      EffectType
	Name      string
	Magnitude float64
	Remaining float64
	Duration  float64
	SourceID  uint64
	Tags      map[string]bool
	Data      map[string]any
}

// Counters tracks effect lifecycle totals.
type Counters struct {
	Active  int `json:"active"`
	Applied int `json:"applied"`
	Expired int `json:"expired"`
}

// Manager owns all active effects, keyed by entity then effect name so
// stacking resolves against at most one record per name.
type Manager struct {
	effects map[uint64]map[string]*Effect
	events  *event.Bus

	applied int
	expired int
	running bool
}

// NewManager creates a status effect manager.
func NewManager(events *event.Bus) *Manager {
	return &Manager{
		effects: make(map[uint64]map[string]*Effect),
		events:  events,
	}
}

// Initialize starts the manager.
func (m *Manager) Initialize() error {
	m.running = true
	return nil
}

// Tick is a no-op: duration accounting runs through UpdateEffects so
// the driver can pass its own clock.
func (m *Manager) Tick(dt float64) {}

// Shutdown clears all active effects.
func (m *Manager) Shutdown() {
	m.effects = make(map[uint64]map[string]*Effect)
	m.running = false
}

// ApplyEffect applies a named effect to an entity following the
// requested stacking policy. sourceID of zero means no source.
func (m *Manager) ApplyEffect(entityID uint64, name string, effectType EffectType, magnitude, duration float64, sourceID uint64, mode StackingMode) (*Effect, error) {
	if err := validation.ValidateEffectMagnitude(magnitude); err != nil {
		return nil, fmt.Errorf("apply effect %q: %w", name, err)
	}
	if err := validation.ValidateEffectDuration(duration); err != nil {
		return nil, fmt.Errorf("apply effect %q: %w", name, err)
	}

	byName := m.effects[entityID]
	if byName == nil {
		byName = make(map[string]*Effect)
		m.effects[entityID] = byName
	}

	if existing, ok := byName[name]; ok {
		switch mode {
		case Ignore:
			return existing, fmt.Errorf("apply effect %q to entity %d: %w", name, entityID, ErrEffectRejected)
		case StackAdditive:
			existing.Magnitude += magnitude
			existing.Remaining += duration
			existing.Duration += duration
			return existing, nil
		case StackMultiplicative:
			existing.Magnitude *= magnitude
			existing.Remaining += duration
			existing.Duration += duration
			return existing, nil
		case Replace:
			delete(byName, name)
		}
	}

	effect := &Effect{
		ID:        uuid.NewString(),
		EntityID:  entityID,
		Type:      effectType,
		Name:      name,
		Magnitude: magnitude,
		Remaining: duration,
		Duration:  duration,
		SourceID:  sourceID,
		Tags:      make(map[string]bool),
		Data:      make(map[string]any),
	}
	byName[name] = effect
	m.applied++

	if m.events != nil {
		m.events.Publish(event.NewEntityEvent(event.EffectApplied, m, entityID, string(effectType)))
	}
	return effect, nil
}

// UpdateEffects decrements remaining durations and removes any effect
// that has run out, returning the expired effects.
func (m *Manager) UpdateEffects(dt float64) []*Effect {
	var expired []*Effect

	for entityID, byName := range m.effects {
		for name, effect := range byName {
			effect.Remaining -= dt
			if effect.Remaining <= 0 {
				expired = append(expired, effect)
				delete(byName, name)
				m.expired++
				if m.events != nil {
					m.events.Publish(event.NewEntityEvent(event.EffectExpired, m, effect.EntityID, string(effect.Type)))
				}
			}
		}
		if len(byName) == 0 {
			delete(m.effects, entityID)
		}
	}
	return expired
}

// HasEffect reports whether an entity carries a named effect.
func (m *Manager) HasEffect(entityID uint64, name string) bool {
	_, ok := m.effects[entityID][name]
	return ok
}

// EffectMagnitude returns the magnitude of a named effect, or zero when
// absent.
func (m *Manager) EffectMagnitude(entityID uint64, name string) float64 {
	if effect, ok := m.effects[entityID][name]; ok {
		return effect.Magnitude
	}
	return 0
}

// ActiveEffects returns all effects on an entity.
func (m *Manager) ActiveEffects(entityID uint64) []*Effect {
	byName := m.effects[entityID]
	effects := make([]*Effect, 0, len(byName))
	for _, effect := range byName {
		effects = append(effects, effect)
	}
	return effects
}

// RemoveEffect removes a named effect from an entity.
func (m *Manager) RemoveEffect(entityID uint64, name string) error {
	byName, ok := m.effects[entityID]
	if !ok {
		return fmt.Errorf("remove effect %q from entity %d: %w", name, entityID, ErrEffectNotFound)
	}
	if _, ok := byName[name]; !ok {
		return fmt.Errorf("remove effect %q from entity %d: %w", name, entityID, ErrEffectNotFound)
	}
	delete(byName, name)
	if len(byName) == 0 {
		delete(m.effects, entityID)
	}
	return nil
}

// ClearEffects removes every effect from an entity, returning how many
// were cleared.
func (m *Manager) ClearEffects(entityID uint64) int {
	cleared := len(m.effects[entityID])
	delete(m.effects, entityID)
	return cleared
}

// ClearEffectsByType removes every effect of one type from an entity,
// returning how many were cleared.
func (m *Manager) ClearEffectsByType(entityID uint64, effectType EffectType) int {
	byName := m.effects[entityID]
	cleared := 0
	for name, effect := range byName {
		if effect.Type == effectType {
			delete(byName, name)
			cleared++
		}
	}
	if len(byName) == 0 {
		delete(m.effects, entityID)
	}
	return cleared
}

// RemainingRatio returns the fraction of a named effect's duration
// still left, or zero when absent.
func (m *Manager) RemainingRatio(entityID uint64, name string) float64 {
	effect, ok := m.effects[entityID][name]
	if !ok || effect.Duration <= 0 {
		return 0
	}
	return effect.Remaining / effect.Duration
}

// CountByType counts an entity's active effects per effect type.
func (m *Manager) CountByType(entityID uint64) map[EffectType]int {
	counts := make(map[EffectType]int)
	for _, effect := range m.effects[entityID] {
		counts[effect.Type]++
	}
	return counts
}

// Status reports effect lifecycle counters.
func (m *Manager) Status() Counters {
	active := 0
	for _, byName := range m.effects {
		active += len(byName)
	}
	return Counters{Active: active, Applied: m.applied, Expired: m.expired}
}
