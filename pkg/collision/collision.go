// Package collision implements broad/narrow-phase collision detection for
// the simulation core. Broad phase buckets active entities by type tag;
// narrow phase runs a continuous sweep test for projectiles and a static
// circle-overlap test for everything else. Detected collisions are
// dispatched to registered handlers behind per-pair circuit breakers so a
// faulty handler cannot abort the detection pass.
package collision

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/logging"
	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// CollisionType identifies which narrow-phase test detected a collision.
type CollisionType string

const (
	// Circle is a static circle-overlap detection.
	Circle CollisionType = "circle"
	// Sweep is a continuous segment test for fast movers.
	Sweep CollisionType = "sweep"
)

// Entity type tags with special narrow-phase handling. Bullets get a
// sweep test against these targets to avoid tunneling at high speed.
const (
	BulletType   = "bullet"
	AsteroidType = "asteroid"
	FragmentType = "fragment"
	EnemyType    = "enemy"
)

// sweepFrameTime reconstructs the projectile's previous position assuming
// a 60Hz step, matching the driver's fixed tick rate.
const sweepFrameTime = 1.0 / 60.0

// History bounds: the ring keeps the most recent collisions for
// diagnostics and halves itself on overflow.
const (
	historyLimit = 1000
	historyKeep  = 500
)

// Group is a named set of entity-type tags plus the tags it may collide
// with. Pair testing is symmetric: each unordered entity pair is tested
// at most once per frame regardless of which group listed whom.
type Group struct {
	Name           string
	EntityTypes    map[string]bool
	CanCollideWith map[string]bool
}

// NewGroup builds a Group from type tag slices.
func NewGroup(name string, entityTypes, canCollideWith []string) Group {
	g := Group{
		Name:           name,
		EntityTypes:    make(map[string]bool, len(entityTypes)),
		CanCollideWith: make(map[string]bool, len(canCollideWith)),
	}
	for _, t := range entityTypes {
		g.EntityTypes[t] = true
	}
	for _, t := range canCollideWith {
		g.CanCollideWith[t] = true
	}
	return g
}

// Info describes one detected collision. Created fresh per detection;
// only the bounded history retains them.
type Info struct {
	EntityA     *entity.Entity
	EntityB     *entity.Entity
	Type        CollisionType
	Distance    float64
	Penetration float64
	Normal      physics.Vector2D
	Timestamp   float64
}

// Handler reacts to a detected collision. A returned error is recorded
// against the handler's circuit breaker; it never aborts the frame.
type Handler func(Info) error

// pairKey is an unordered entity-type pair, stored lexicographically
// sorted so registration order does not matter.
type pairKey struct {
	a, b string
}

func makePairKey(typeA, typeB string) pairKey {
	if typeA <= typeB {
		return pairKey{a: typeA, b: typeB}
	}
	return pairKey{a: typeB, b: typeA}
}

// Stats tracks detection workload counters.
type Stats struct {
	ChecksPerFrame     int `json:"checks_per_frame"`
	CollisionsPerFrame int `json:"collisions_per_frame"`
	TotalChecks        int `json:"total_checks"`
	TotalCollisions    int `json:"total_collisions"`
	HandlerFailures    int `json:"handler_failures"`
}

// System performs collision detection and handler dispatch.
type System struct {
	groups   map[string]Group
	handlers map[pairKey]*guardedHandler
	history  []Info
	stats    Stats
	breaker  breakerSettings
	logger   *logging.Logger
	running  bool
}

// NewSystem creates a collision system. envCfg tunes the handler circuit
// breakers; nil uses defaults.
func NewSystem(envCfg *config.EnvironmentConfig) *System {
	return &System{
		groups:   make(map[string]Group),
		handlers: make(map[pairKey]*guardedHandler),
		breaker:  breakerSettingsFrom(envCfg),
		logger:   logging.NewLogger(),
	}
}

// Initialize starts the system.
func (s *System) Initialize() error {
	s.running = true
	return nil
}

// Tick is a no-op: detection runs on demand via CheckCollisions so the
// driver controls ordering against entity updates.
func (s *System) Tick(dt float64) {}

// Shutdown clears registered configuration and history.
func (s *System) Shutdown() {
	s.groups = make(map[string]Group)
	s.handlers = make(map[pairKey]*guardedHandler)
	s.history = nil
	s.running = false
}

// RegisterGroup registers a collision group, replacing any previous group
// with the same name.
func (s *System) RegisterGroup(group Group) error {
	if group.Name == "" {
		return fmt.Errorf("register collision group: name must not be empty")
	}
	s.groups[group.Name] = group
	return nil
}

// RegisterHandler registers a handler for an unordered entity-type pair.
func (s *System) RegisterHandler(typeA, typeB string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("register collision handler %s/%s: handler must not be nil", typeA, typeB)
	}
	key := makePairKey(typeA, typeB)
	s.handlers[key] = newGuardedHandler(fmt.Sprintf("%s|%s", key.a, key.b), handler, s.breaker)
	return nil
}

// CheckCollisions detects all collisions among the given entities at the
// given timestamp, dispatches them to registered handlers, and returns
// them. Unregistered groups or unmatched type pairs are skipped silently:
// absence of a handler is a valid configuration.
func (s *System) CheckCollisions(entities []*entity.Entity, now float64) []Info {
	s.stats.ChecksPerFrame = 0
	s.stats.CollisionsPerFrame = 0

	// Broad phase: bucket active entities by type tag.
	byType := make(map[string][]*entity.Entity)
	for _, e := range entities {
		if !e.Active {
			continue
		}
		byType[e.Type] = append(byType[e.Type], e)
	}

	var detected []Info
	seen := make(map[[2]uint64]bool)

	for _, group := range s.groups {
		for entityType := range group.EntityTypes {
			bucketA, ok := byType[entityType]
			if !ok {
				continue
			}

			for otherType := range group.CanCollideWith {
				if otherType == entityType {
					continue
				}
				bucketB, ok := byType[otherType]
				if !ok {
					continue
				}

				detected = append(detected, s.checkBuckets(bucketA, bucketB, now, seen)...)
			}
		}
	}

	s.stats.TotalChecks += s.stats.ChecksPerFrame
	s.stats.TotalCollisions += s.stats.CollisionsPerFrame

	s.dispatch(detected)
	return detected
}

// checkBuckets runs the narrow phase across two type buckets, recording
// each unordered entity pair at most once per frame.
func (s *System) checkBuckets(bucketA, bucketB []*entity.Entity, now float64, seen map[[2]uint64]bool) []Info {
	var collisions []Info

	for _, a := range bucketA {
		for _, b := range bucketB {
			s.stats.ChecksPerFrame++

			if a.ID() == b.ID() {
				continue
			}
			if !a.Active || !b.Active {
				continue
			}

			pair := orderedIDs(a.ID(), b.ID())
			if seen[pair] {
				continue
			}
			seen[pair] = true

			if info, ok := s.checkPair(a, b, now); ok {
				collisions = append(collisions, info)
				s.stats.CollisionsPerFrame++
			}
		}
	}
	return collisions
}

func orderedIDs(a, b uint64) [2]uint64 {
	if a <= b {
		return [2]uint64{a, b}
	}
	return [2]uint64{b, a}
}

// checkPair selects the narrow-phase test for one entity pair.
func (s *System) checkPair(a, b *entity.Entity, now float64) (Info, bool) {
	if bullet, target, ok := bulletTargetPair(a, b); ok {
		if sweepHit(bullet, target) {
			return makeInfo(bullet, target, Sweep, now), true
		}
		return Info{}, false
	}

	posA := physics.Vector2D{X: a.Body.X, Y: a.Body.Y}
	posB := physics.Vector2D{X: b.Body.X, Y: b.Body.Y}
	result := physics.CheckCollision(
		physics.Circle{Center: posA, Radius: a.Body.Radius},
		physics.Circle{Center: posB, Radius: b.Body.Radius},
	)
	if !result.Collided {
		return Info{}, false
	}

	return Info{
		EntityA:     a,
		EntityB:     b,
		Type:        Circle,
		Distance:    result.Distance,
		Penetration: result.Penetration,
		Normal:      result.Normal,
		Timestamp:   now,
	}, true
}

// bulletTargetPair identifies bullet vs asteroid/enemy pairs, returning
// the bullet first.
func bulletTargetPair(a, b *entity.Entity) (bullet, target *entity.Entity, ok bool) {
	sweepTarget := func(t string) bool {
		return t == AsteroidType || t == FragmentType || t == EnemyType
	}

	switch {
	case a.Type == BulletType && sweepTarget(b.Type):
		return a, b, true
	case b.Type == BulletType && sweepTarget(a.Type):
		return b, a, true
	default:
		return nil, nil, false
	}
}

// sweepHit reconstructs the bullet's position one frame ago from its
// velocity and tests the travel segment against the target circle
// inflated by the bullet radius.
func sweepHit(bullet, target *entity.Entity) bool {
	current := physics.Vector2D{X: bullet.Body.X, Y: bullet.Body.Y}
	previous := physics.Vector2D{
		X: bullet.Body.X - bullet.Body.VX*sweepFrameTime,
		Y: bullet.Body.Y - bullet.Body.VY*sweepFrameTime,
	}
	center := physics.Vector2D{X: target.Body.X, Y: target.Body.Y}

	return physics.SegmentCircleIntersects(previous, current, center, target.Body.Radius+bullet.Body.Radius)
}

// makeInfo derives collision measurements from the entities' current
// positions. The normal points outward from a to b, defaulting to +x for
// coincident centers.
func makeInfo(a, b *entity.Entity, collisionType CollisionType, now float64) Info {
	posA := physics.Vector2D{X: a.Body.X, Y: a.Body.Y}
	posB := physics.Vector2D{X: b.Body.X, Y: b.Body.Y}

	distance := posA.Distance(posB)
	normal := physics.Vector2D{X: 1, Y: 0}
	if distance > 0 {
		normal = posB.Sub(posA).Scale(1 / distance)
	}

	return Info{
		EntityA:     a,
		EntityB:     b,
		Type:        collisionType,
		Distance:    distance,
		Penetration: a.Body.Radius + b.Body.Radius - distance,
		Normal:      normal,
		Timestamp:   now,
	}
}

// dispatch routes collisions to their registered handlers and records
// them in the bounded history ring. A handler earlier in the frame may
// have despawned a participant; such stale pairs are skipped rather
// than dispatched as failures.
func (s *System) dispatch(collisions []Info) {
	for _, info := range collisions {
		if !info.EntityA.Active || !info.EntityB.Active {
			continue
		}

		key := makePairKey(info.EntityA.Type, info.EntityB.Type)
		if guarded, ok := s.handlers[key]; ok {
			if err := guarded.handle(info); err != nil {
				s.stats.HandlerFailures++
				s.logger.Warn(context.Background(), "collision handler failed",
					"pair", fmt.Sprintf("%s|%s", key.a, key.b),
					"error", err.Error(),
					"breaker_state", guarded.state().String(),
				)
			}
		}

		s.history = append(s.history, info)
		if len(s.history) > historyLimit {
			s.history = append(s.history[:0], s.history[len(s.history)-historyKeep:]...)
		}
	}
}

// History returns the retained collision diagnostics, most recent last.
func (s *System) History() []Info {
	return s.history
}

// Stats returns the detection counters.
func (s *System) Stats() Stats {
	return s.stats
}

// EntitiesInRadius returns all active entities within radius of a point.
func (s *System) EntitiesInRadius(entities []*entity.Entity, centerX, centerY, radius float64) []*entity.Entity {
	center := physics.Vector2D{X: centerX, Y: centerY}

	var found []*entity.Entity
	for _, e := range entities {
		if !e.Active {
			continue
		}
		pos := physics.Vector2D{X: e.Body.X, Y: e.Body.Y}
		if center.Distance(pos) <= radius {
			found = append(found, e)
		}
	}
	return found
}

// NearestEntity returns the active entity closest to a point, optionally
// filtered by type tag. Returns nil when nothing matches.
func (s *System) NearestEntity(entities []*entity.Entity, x, y float64, entityType string) *entity.Entity {
	target := physics.Vector2D{X: x, Y: y}

	var nearest *entity.Entity
	nearestDistSq := -1.0
	for _, e := range entities {
		if !e.Active {
			continue
		}
		if entityType != "" && e.Type != entityType {
			continue
		}
		distSq := target.DistanceSquared(physics.Vector2D{X: e.Body.X, Y: e.Body.Y})
		if nearest == nil || distSq < nearestDistSq {
			nearest = e
			nearestDistSq = distSq
		}
	}
	return nearest
}
