// Package projectile manages pooled projectile lifecycle: per-owner
// fire cooldowns, velocity assignment from a firing angle, and lifetime
// expiry back into the pool.
package projectile

import (
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
	"github.com/opd-ai/go-asteroids/pkg/validation"
)

// Rejection conditions. These are expected, recoverable outcomes the
// caller can retry next frame, not faults.
var (
	ErrCooldownActive = errors.New("cooldown not elapsed")
	ErrMaxProjectiles = errors.New("max active projectiles reached")
)

// BulletType is the entity type tag used for pooled projectiles.
const BulletType = "bullet"

// Stats records the firing parameters of one live projectile.
type Stats struct {
	OwnerID   uint64
	SpawnTime float64
	Lifetime  float64
	Damage    float64
	Speed     float64
	Angle     float64
}

// Counters tracks system-wide firing totals.
type Counters struct {
	Active  int `json:"active"`
	Fired   int `json:"fired"`
	Expired int `json:"expired"`
}

// System manages projectile firing and expiry through the shared entity
// manager's bullet pool.
type System struct {
	manager *entity.Manager
	events  *event.Bus
	cfg     config.ProjectileConfig

	lastFired map[uint64]float64
	cooldowns map[uint64]float64
	stats     map[uint64]*Stats

	fired   int
	expired int
	running bool
}

// NewSystem creates a projectile system driven by the given entity
// manager.
func NewSystem(manager *entity.Manager, events *event.Bus, cfg config.ProjectileConfig) *System {
	return &System{
		manager:   manager,
		events:    events,
		cfg:       cfg,
		lastFired: make(map[uint64]float64),
		cooldowns: make(map[uint64]float64),
		stats:     make(map[uint64]*Stats),
	}
}

// Initialize registers the bullet pool with the entity manager.
func (s *System) Initialize() error {
	if !s.manager.IsRegistered(BulletType) {
		if err := s.manager.RegisterType(BulletType, entity.NewEntity, s.cfg.MaxActive); err != nil {
			return fmt.Errorf("initialize projectile system: %w", err)
		}
	}
	s.running = true
	return nil
}

// Tick integrates live projectile positions.
func (s *System) Tick(dt float64) {
	if !s.running {
		return
	}
	for id := range s.stats {
		e, ok := s.manager.Get(id)
		if !ok || !e.Active {
			continue
		}
		e.Body.X += e.Body.VX * dt
		e.Body.Y += e.Body.VY * dt
	}
}

// Shutdown releases all live projectiles and clears cooldown state.
func (s *System) Shutdown() {
	for id := range s.stats {
		_ = s.manager.Despawn(id)
	}
	s.stats = make(map[uint64]*Stats)
	s.lastFired = make(map[uint64]float64)
	s.cooldowns = make(map[uint64]float64)
	s.running = false
}

// SetCooldown installs a per-owner cooldown override in seconds.
func (s *System) SetCooldown(ownerID uint64, cooldown float64) {
	s.cooldowns[ownerID] = cooldown
}

// cooldownFor returns the owner's cooldown, falling back to the system
// default.
func (s *System) cooldownFor(ownerID uint64) float64 {
	if cd, ok := s.cooldowns[ownerID]; ok {
		return cd
	}
	return s.cfg.DefaultCooldown
}

// CanFire reports whether the owner may fire at the given time: its
// cooldown must have elapsed and the active count must be under the cap.
func (s *System) CanFire(ownerID uint64, now float64) bool {
	if last, ok := s.lastFired[ownerID]; ok {
		if now-last < s.cooldownFor(ownerID) {
			return false
		}
	}
	return len(s.stats) < s.cfg.MaxActive
}

// Fire spawns a pooled projectile at (x, y) travelling along angle at
// the given speed. Rejections surface as ErrCooldownActive,
// ErrMaxProjectiles, or the pool's own exhaustion error.
func (s *System) Fire(ownerID uint64, x, y, angle, now, damage, speed float64) (*entity.Entity, error) {
	if err := validation.ValidatePosition(x, y); err != nil {
		return nil, fmt.Errorf("fire for owner %d: %w", ownerID, err)
	}
	if err := validation.ValidateAngle(angle); err != nil {
		return nil, fmt.Errorf("fire for owner %d: %w", ownerID, err)
	}
	if err := validation.ValidateDamage(damage); err != nil {
		return nil, fmt.Errorf("fire for owner %d: %w", ownerID, err)
	}
	if last, ok := s.lastFired[ownerID]; ok && now-last < s.cooldownFor(ownerID) {
		return nil, fmt.Errorf("fire for owner %d: %w", ownerID, ErrCooldownActive)
	}
	if len(s.stats) >= s.cfg.MaxActive {
		return nil, fmt.Errorf("fire for owner %d: %w", ownerID, ErrMaxProjectiles)
	}

	e, err := s.manager.Spawn(BulletType,
		entity.WithPosition(x, y),
		entity.WithVelocity(math.Cos(angle)*speed, math.Sin(angle)*speed),
		entity.WithAngle(angle),
		entity.WithRadius(1.0),
	)
	if err != nil {
		return nil, fmt.Errorf("fire for owner %d: %w", ownerID, err)
	}

	s.stats[e.ID()] = &Stats{
		OwnerID:   ownerID,
		SpawnTime: now,
		Lifetime:  s.cfg.DefaultLifetime,
		Damage:    damage,
		Speed:     speed,
		Angle:     angle,
	}
	s.lastFired[ownerID] = now
	s.fired++

	if s.events != nil {
		s.events.Publish(event.NewEntityEvent(event.ProjectileFired, s, e.ID(), BulletType))
	}
	return e, nil
}

// UpdateProjectiles expires projectiles whose age exceeds their
// lifetime, returning the expired entity ids after pooling them.
func (s *System) UpdateProjectiles(now float64) []uint64 {
	var expired []uint64
	for id, stats := range s.stats {
		if now-stats.SpawnTime >= stats.Lifetime {
			expired = append(expired, id)
		}
	}

	for _, id := range expired {
		delete(s.stats, id)
		if err := s.manager.Despawn(id); err == nil {
			s.expired++
			if s.events != nil {
				s.events.Publish(event.NewEntityEvent(event.ProjectileExpired, s, id, BulletType))
			}
		}
	}
	return expired
}

// Remove pools a projectile before its lifetime elapses, typically
// after an impact.
func (s *System) Remove(id uint64) error {
	if _, ok := s.stats[id]; !ok {
		return fmt.Errorf("remove projectile %d: %w", id, entity.ErrEntityNotFound)
	}
	delete(s.stats, id)
	return s.manager.Despawn(id)
}

// StatsFor returns the firing parameters of a live projectile.
func (s *System) StatsFor(id uint64) (*Stats, bool) {
	stats, ok := s.stats[id]
	return stats, ok
}

// ActiveCount returns the number of live projectiles.
func (s *System) ActiveCount() int {
	return len(s.stats)
}

// Status reports system-wide counters.
func (s *System) Status() Counters {
	return Counters{
		Active:  len(s.stats),
		Fired:   s.fired,
		Expired: s.expired,
	}
}
