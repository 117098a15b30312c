// Package engine wires the simulation subsystems into a fixed-order,
// frame-stepped pipeline: entity updates, projectile movement and
// expiry, wave and fragment physics, collision detection, then status
// effects. One Sim instance owns exactly one simulation thread's worth
// of state; renderers consume immutable snapshots taken after a tick.
package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/opd-ai/go-asteroids/pkg/collision"
	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
	"github.com/opd-ai/go-asteroids/pkg/fracture"
	"github.com/opd-ai/go-asteroids/pkg/logging"
	"github.com/opd-ai/go-asteroids/pkg/projectile"
	"github.com/opd-ai/go-asteroids/pkg/render"
	"github.com/opd-ai/go-asteroids/pkg/status"
	"github.com/opd-ai/go-asteroids/pkg/telemetry"
	"github.com/opd-ai/go-asteroids/pkg/wave"
)

// ShipType is the entity type tag for player ships.
const ShipType = "ship"

// Sim composes all simulation subsystems behind one tick entry point.
type Sim struct {
	cfg    *config.SimConfig
	env    *config.EnvironmentConfig
	logger *logging.Logger

	Events      *event.Bus
	Templates   *entity.Registry
	Entities    *entity.Manager
	Projectiles *projectile.System
	Fracture    *fracture.System
	Waves       *wave.Spawner
	Collisions  *collision.System
	Effects     *status.Manager
	Telemetry   *telemetry.OutputManager

	frame uint64
	now   float64
}

// NewSim builds a simulation from configuration. A nil envCfg gets the
// defaults without touching the process environment.
func NewSim(cfg *config.SimConfig, envCfg *config.EnvironmentConfig) *Sim {
	events := event.NewEventBus()
	templates := entity.NewRegistry()
	manager := entity.NewManager(templates, events)

	seed := uint64(1)
	telemetryDir := ""
	if envCfg != nil {
		telemetryDir = envCfg.TelemetryDir
		if envCfg.RandomSeed != 0 {
			seed = envCfg.RandomSeed
		} else {
			seed = uint64(time.Now().UnixNano())
		}
	}

	fractureSys := fracture.NewSystem(manager, events, cfg.FractureConfig, seed)

	return &Sim{
		cfg:         cfg,
		env:         envCfg,
		logger:      logging.NewLogger(),
		Events:      events,
		Templates:   templates,
		Entities:    manager,
		Projectiles: projectile.NewSystem(manager, events, cfg.ProjectileConfig),
		Fracture:    fractureSys,
		Waves:       wave.NewSpawner(manager, fractureSys, events, cfg, seed+1),
		Collisions:  collision.NewSystem(envCfg),
		Effects:     status.NewManager(events),
		Telemetry:   telemetry.NewOutputManager(telemetryDir),
	}
}

// Initialize brings up every subsystem in dependency order and installs
// the default collision wiring.
func (s *Sim) Initialize() error {
	if err := s.Entities.Initialize(); err != nil {
		return fmt.Errorf("initialize entities: %w", err)
	}
	if err := s.Entities.RegisterType(ShipType, entity.NewEntity, s.cfg.Pools.PlayerShips); err != nil {
		return fmt.Errorf("register ship pool: %w", err)
	}
	if err := s.Projectiles.Initialize(); err != nil {
		return err
	}
	if err := s.Fracture.Initialize(); err != nil {
		return err
	}
	if err := s.Waves.Initialize(); err != nil {
		return err
	}
	if err := s.Collisions.Initialize(); err != nil {
		return err
	}
	if err := s.Effects.Initialize(); err != nil {
		return err
	}

	if err := s.registerCollisionRules(); err != nil {
		return err
	}

	if s.Telemetry.Enabled() {
		s.Events.Subscribe(event.WaveCompleted, func(e event.Event) {
			waveEvent, ok := e.(*event.WaveEvent)
			if !ok {
				return
			}
			waveStatus := s.Waves.CurrentStatus()
			fractureStats := s.Fracture.Status()
			speedMultiplier := 0.0
			asteroidCount := waveEvent.AsteroidCount
			if plan, ok := s.Waves.PlanFor(waveEvent.WaveNumber); ok {
				speedMultiplier = plan.SpeedMultiplier
				asteroidCount = plan.AsteroidCount
			}
			s.Telemetry.RecordWave(telemetry.WaveRecord{
				WaveNumber:      waveEvent.WaveNumber,
				AsteroidCount:   asteroidCount,
				SpeedMultiplier: speedMultiplier,
				DurationSecs:    waveStatus.WaveTime,
				FragmentsMade:   fractureStats.TotalCreated,
				PointsOnField:   fractureStats.ActiveFragments,
			})
		})
	}

	s.logger.Info(context.Background(), "simulation initialized",
		"field_width", s.cfg.FieldWidth,
		"field_height", s.cfg.FieldHeight,
		"time_step", s.cfg.TimeStep,
	)
	return nil
}

// registerCollisionRules installs the default groups and handlers:
// bullets destroy asteroids and fragments through the fracture pipeline,
// and asteroids or fragments touching a ship register a hit.
func (s *Sim) registerCollisionRules() error {
	groups := []collision.Group{
		collision.NewGroup("bullets",
			[]string{projectile.BulletType},
			[]string{wave.AsteroidType, fracture.FragmentType}),
		collision.NewGroup("hazards",
			[]string{wave.AsteroidType, fracture.FragmentType},
			[]string{ShipType}),
	}
	for _, g := range groups {
		if err := s.Collisions.RegisterGroup(g); err != nil {
			return err
		}
	}

	for _, target := range []string{wave.AsteroidType, fracture.FragmentType} {
		if err := s.Collisions.RegisterHandler(projectile.BulletType, target, s.onBulletHit); err != nil {
			return err
		}
	}
	for _, hazard := range []string{wave.AsteroidType, fracture.FragmentType} {
		if err := s.Collisions.RegisterHandler(hazard, ShipType, s.onShipHit); err != nil {
			return err
		}
	}
	return nil
}

// onBulletHit resolves a bullet striking an asteroid or fragment: the
// bullet is pooled, its damage is applied, and a destroyed target is
// fractured along the bullet's travel direction.
func (s *Sim) onBulletHit(info collision.Info) error {
	bullet, target := info.EntityA, info.EntityB
	if target.Type == projectile.BulletType {
		bullet, target = target, bullet
	}

	// Either participant may have been consumed by an earlier collision
	// in the same frame; a stale hit is a no-op, not a failure.
	stats, ok := s.Projectiles.StatsFor(bullet.ID())
	if !ok {
		return nil
	}
	impactAngle := math.Atan2(bullet.Body.VY, bullet.Body.VX)

	if err := s.Projectiles.Remove(bullet.ID()); err != nil {
		return err
	}

	fragment, ok := s.Fracture.Get(target.ID())
	if !ok {
		return nil
	}
	if !fragment.TakeDamage(stats.Damage) {
		return nil
	}

	_, err := s.Waves.FractureAsteroid(fragment, impactAngle, true)
	return err
}

// onShipHit applies a short slow debuff to the struck ship. Ship damage
// and lives stay with the external game layer; the core only records
// the condition.
func (s *Sim) onShipHit(info collision.Info) error {
	ship := info.EntityA
	if ship.Type != ShipType {
		ship = info.EntityB
	}

	_, err := s.Effects.ApplyEffect(ship.ID(), "collision_stagger", status.Debuff,
		0.5, 1.0, 0, status.Replace)
	return err
}

// Tick advances the simulation by one fixed time step.
func (s *Sim) Tick() {
	dt := s.cfg.TimeStep

	s.Entities.Tick(dt)

	s.Projectiles.Tick(dt)
	s.Projectiles.UpdateProjectiles(s.now)

	s.Waves.Tick(dt)
	s.Waves.UpdateWave(dt)

	infos := s.Collisions.CheckCollisions(s.Entities.ActiveEntities(), s.now)
	for _, info := range infos {
		s.Events.Publish(event.NewCollisionEvent(s, info.EntityA.ID(), info.EntityB.ID()))
	}

	s.Effects.UpdateEffects(dt)

	s.frame++
	s.now += dt

	if s.Telemetry.Enabled() {
		stats := s.Collisions.Stats()
		s.Telemetry.RecordFrame(telemetry.FrameRecord{
			Frame:           s.frame,
			Time:            s.now,
			ActiveEntities:  len(s.Entities.ActiveEntities()),
			ActiveFragments: s.Fracture.ActiveCount(),
			LiveProjectiles: s.Projectiles.ActiveCount(),
			CollisionChecks: stats.ChecksPerFrame,
			CollisionsFound: stats.CollisionsPerFrame,
		})
	}
}

// Fire fires a projectile for an owner at the simulation's current time.
func (s *Sim) Fire(ownerID uint64, x, y, angle, damage, speed float64) (*entity.Entity, error) {
	return s.Projectiles.Fire(ownerID, x, y, angle, s.now, damage, speed)
}

// Snapshot captures the current renderable state. The copy shares
// nothing with live entities and may cross threads.
func (s *Sim) Snapshot() render.Snapshot {
	return render.Capture(s.frame, s.now, s.Entities.ActiveEntities())
}

// Frame returns the completed frame count.
func (s *Sim) Frame() uint64 {
	return s.frame
}

// Now returns the simulation clock in seconds.
func (s *Sim) Now() float64 {
	return s.now
}

// Shutdown stops every subsystem in reverse order and flushes
// telemetry.
func (s *Sim) Shutdown() error {
	s.Effects.Shutdown()
	s.Collisions.Shutdown()
	s.Waves.Shutdown()
	s.Fracture.Shutdown()
	s.Projectiles.Shutdown()
	s.Entities.Shutdown()

	if err := s.Telemetry.Flush(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
