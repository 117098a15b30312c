// pkg/entity/manager_test.go
package entity

import (
	"errors"
	"math"
	"testing"

	"github.com/opd-ai/go-asteroids/pkg/event"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(NewRegistry(), event.NewEventBus())
	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	return m
}

func TestManager_SpawnUnregisteredType(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Spawn("ghost")
	if !errors.Is(err, ErrTypeNotRegistered) {
		t.Errorf("Spawn() error = %v, expected ErrTypeNotRegistered", err)
	}
}

func TestManager_SpawnAppliesOptions(t *testing.T) {
	m := newTestManager(t)
	if err := m.RegisterType("asteroid", NewEntity, 4); err != nil {
		t.Fatalf("RegisterType() error: %v", err)
	}

	e, err := m.Spawn("asteroid",
		WithPosition(100, 72),
		WithVelocity(5, -3),
		WithRadius(8),
		WithHealth(3),
	)
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}

	if e.Type != "asteroid" || !e.Active {
		t.Errorf("spawned entity type=%q active=%v", e.Type, e.Active)
	}
	if e.Body.X != 100 || e.Body.Y != 72 || e.Body.VX != 5 || e.Body.VY != -3 {
		t.Errorf("spawn overrides not applied: %+v", e.Body)
	}
	if e.Body.Radius != 8 || e.Health != 3 {
		t.Errorf("radius=%v health=%v, expected 8 and 3", e.Body.Radius, e.Health)
	}

	got, ok := m.Get(e.ID())
	if !ok || got != e {
		t.Error("spawned entity not found in active index")
	}
}

func TestManager_RegisterTypeRejectsBadTag(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		name string
		tag  string
	}{
		{"empty", ""},
		{"uppercase", "Asteroid"},
		{"leading digit", "9ball"},
		{"spaces", "big rock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.RegisterType(tt.tag, NewEntity, 2); err == nil {
				t.Errorf("RegisterType(%q) expected error", tt.tag)
			}
		})
	}
}

func TestManager_RegisterTypeTrimsTag(t *testing.T) {
	m := newTestManager(t)

	if err := m.RegisterType("  asteroid  ", NewEntity, 2); err != nil {
		t.Fatalf("RegisterType() error: %v", err)
	}
	if !m.IsRegistered("asteroid") {
		t.Error("trimmed tag not registered")
	}
}

func TestManager_RegisterTypeRejectsActiveReplacement(t *testing.T) {
	m := newTestManager(t)
	if err := m.RegisterType("asteroid", NewEntity, 2); err != nil {
		t.Fatalf("RegisterType() error: %v", err)
	}

	e, err := m.Spawn("asteroid")
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}

	// Replacing the pool would orphan the live entity.
	if err := m.RegisterType("asteroid", NewEntity, 8); err == nil {
		t.Error("RegisterType() expected error while entities are active")
	}

	if err := m.Despawn(e.ID()); err != nil {
		t.Fatalf("Despawn() error: %v", err)
	}
	if err := m.RegisterType("asteroid", NewEntity, 8); err != nil {
		t.Errorf("RegisterType() after despawn error: %v", err)
	}
}

func TestManager_SpawnRejectsNonFiniteState(t *testing.T) {
	m := newTestManager(t)
	if err := m.RegisterType("asteroid", NewEntity, 2); err != nil {
		t.Fatalf("RegisterType() error: %v", err)
	}

	tests := []struct {
		name string
		opt  SpawnOption
	}{
		{"nan position", WithPosition(math.NaN(), 0)},
		{"inf velocity", WithVelocity(math.Inf(1), 0)},
		{"negative radius", WithRadius(-4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Spawn("asteroid", tt.opt); err == nil {
				t.Fatal("Spawn() expected validation error")
			}
		})
	}

	// Rejected spawns release the acquired entity back to the pool.
	status := m.Status()["asteroid"]
	if status.Active != 0 || status.Free != 2 {
		t.Errorf("pool after rejected spawns: active=%d free=%d, expected 0 and 2",
			status.Active, status.Free)
	}
}

func TestManager_DespawnUnknownID(t *testing.T) {
	m := newTestManager(t)

	err := m.Despawn(12345)
	if !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("Despawn() error = %v, expected ErrEntityNotFound", err)
	}
}

func TestManager_DespawnTwice(t *testing.T) {
	m := newTestManager(t)
	if err := m.RegisterType("bullet", NewEntity, 2); err != nil {
		t.Fatalf("RegisterType() error: %v", err)
	}

	e, err := m.Spawn("bullet")
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	id := e.ID()

	if err := m.Despawn(id); err != nil {
		t.Fatalf("first Despawn() error: %v", err)
	}
	if err := m.Despawn(id); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("second Despawn() error = %v, expected ErrEntityNotFound", err)
	}
}

func TestManager_DespawnReportsPoolMismatch(t *testing.T) {
	m := newTestManager(t)
	if err := m.RegisterType("bullet", NewEntity, 2); err != nil {
		t.Fatalf("RegisterType() error: %v", err)
	}

	e, err := m.Spawn("bullet")
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}

	// Release behind the manager's back so the index and pool disagree.
	if !m.pools["bullet"].Release(e) {
		t.Fatal("direct Release() returned false")
	}

	if err := m.Despawn(e.ID()); err == nil {
		t.Error("Despawn() expected error for entity the pool no longer holds")
	}
	if _, ok := m.Get(e.ID()); ok {
		t.Error("stale index entry survived failed despawn")
	}
}

func TestManager_SpawnFromTemplate(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&Template{
		ID:         "large_asteroid",
		EntityType: "asteroid",
		Radius:     8,
		Health:     3,
		Color:      [3]uint8{170, 170, 170},
	})

	m := NewManager(registry, event.NewEventBus())
	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	// Template auto-registers its entity type, base properties apply
	// before overrides.
	e, err := m.SpawnFromTemplate("large_asteroid", WithHealth(1))
	if err != nil {
		t.Fatalf("SpawnFromTemplate() error: %v", err)
	}

	if e.Type != "asteroid" {
		t.Errorf("entity type = %q, expected asteroid", e.Type)
	}
	if e.Body.Radius != 8 {
		t.Errorf("template radius not applied: %v", e.Body.Radius)
	}
	if e.Health != 1 {
		t.Errorf("override health = %v, expected 1 (overrides win)", e.Health)
	}
	if !m.IsRegistered("asteroid") {
		t.Error("template entity type was not auto-registered")
	}
}

func TestManager_SpawnFromTemplateCapsSpeed(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&Template{
		ID:          "small_asteroid",
		EntityType:  "asteroid",
		Radius:      4,
		Health:      1,
		MaxVelocity: 50,
	})

	m := NewManager(registry, event.NewEventBus())
	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	e, err := m.SpawnFromTemplate("small_asteroid", WithVelocity(300, 400))
	if err != nil {
		t.Fatalf("SpawnFromTemplate() error: %v", err)
	}

	speed := math.Hypot(e.Body.VX, e.Body.VY)
	if math.Abs(speed-50) > 1e-9 {
		t.Errorf("speed = %v, expected clamp to 50", speed)
	}
	// Direction survives the clamp.
	if e.Body.VX <= 0 || e.Body.VY <= 0 || math.Abs(e.Body.VY/e.Body.VX-400.0/300.0) > 1e-9 {
		t.Errorf("velocity direction changed: vx=%v vy=%v", e.Body.VX, e.Body.VY)
	}

	slow, err := m.SpawnFromTemplate("small_asteroid", WithVelocity(10, 0))
	if err != nil {
		t.Fatalf("SpawnFromTemplate() error: %v", err)
	}
	if slow.Body.VX != 10 || slow.Body.VY != 0 {
		t.Errorf("in-limit velocity altered: vx=%v vy=%v", slow.Body.VX, slow.Body.VY)
	}
}

func TestManager_SpawnFromTemplateUnknownID(t *testing.T) {
	m := newTestManager(t)

	_, err := m.SpawnFromTemplate("missing")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("SpawnFromTemplate() error = %v, expected ErrTemplateNotFound", err)
	}
}

func TestManager_TickUpdatesComponents(t *testing.T) {
	m := newTestManager(t)
	if err := m.RegisterType("ship", NewEntity, 1); err != nil {
		t.Fatalf("RegisterType() error: %v", err)
	}

	comp := &countingComponent{}
	if _, err := m.Spawn("ship", WithComponent("counter", comp)); err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}

	m.Tick(1.0 / 60.0)
	m.Tick(1.0 / 60.0)

	if comp.updates != 2 {
		t.Errorf("component updates = %d, expected 2", comp.updates)
	}
}

func TestManager_Do(t *testing.T) {
	m := newTestManager(t)
	if err := m.RegisterType("asteroid", NewEntity, 2); err != nil {
		t.Fatalf("RegisterType() error: %v", err)
	}

	result, err := m.Do(SpawnCommand{EntityType: "asteroid", Options: []SpawnOption{WithRadius(8)}})
	if err != nil {
		t.Fatalf("Do(SpawnCommand) error: %v", err)
	}
	spawned, ok := result.(*Entity)
	if !ok {
		t.Fatalf("Do(SpawnCommand) result type = %T", result)
	}

	if _, err := m.Do(DespawnCommand{EntityID: spawned.ID()}); err != nil {
		t.Errorf("Do(DespawnCommand) error: %v", err)
	}

	if _, err := m.Do(nil); err == nil {
		t.Error("Do(nil) expected unknown-action error")
	}
}

// countingComponent counts Update calls for tick tests.
type countingComponent struct {
	owner   uint64
	updates int
}

func (c *countingComponent) Init(ownerID uint64) { c.owner = ownerID }
func (c *countingComponent) Update(dt float64)   { c.updates++ }
func (c *countingComponent) Shutdown()           {}
