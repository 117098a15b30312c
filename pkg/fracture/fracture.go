// Package fracture implements destructible-object fragmentation. A
// fractured entity is replaced by pooled child fragments of the next
// smaller size tier, scattered across a 60 degree cone, optionally
// carrying mutated copies of the parent's genetic traits. The package
// also owns the wave difficulty formulas used by the wave spawner.
package fracture

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
)

var (
	// ErrUnknownSizeTier reports a size tier outside the fixed table.
	ErrUnknownSizeTier = errors.New("unknown size tier")
	// ErrFragmentNotFound reports a lookup miss in the active set.
	ErrFragmentNotFound = errors.New("fragment not found")
)

// FragmentType is the entity type tag used for pooled fragments.
const FragmentType = "fragment"

// scatterCone is the angular spread across which children scatter.
const scatterCone = math.Pi / 3

// positionJitter bounds the random offset applied to each child so
// siblings never spawn exactly coincident.
const positionJitter = 2.0

// velocityInheritance is the fraction of parent velocity carried into
// each child before the scatter impulse is added.
const velocityInheritance = 0.5

// TierSpec is the fixed configuration for one size tier. Radius, health,
// and point value always come from this table, never computed.
type TierSpec struct {
	Radius        float64
	Health        float64
	Points        int
	Color         [3]uint8
	SplitCount    int
	SplitIntoTier int
}

// Size tiers: 3 is large, 1 is the smallest and terminal tier.
var tierTable = map[int]TierSpec{
	3: {Radius: 8.0, Health: 3, Points: 20, Color: [3]uint8{170, 170, 170}, SplitCount: 2, SplitIntoTier: 2},
	2: {Radius: 4.0, Health: 2, Points: 50, Color: [3]uint8{192, 192, 192}, SplitCount: 2, SplitIntoTier: 1},
	1: {Radius: 2.0, Health: 1, Points: 100, Color: [3]uint8{224, 224, 224}, SplitCount: 0, SplitIntoTier: 0},
}

// TierFor returns the fixed spec for a size tier.
func TierFor(sizeTier int) (TierSpec, error) {
	spec, ok := tierTable[sizeTier]
	if !ok {
		return TierSpec{}, fmt.Errorf("%w: %d", ErrUnknownSizeTier, sizeTier)
	}
	return spec, nil
}

// Fragment wraps a pooled entity with its destructible state.
type Fragment struct {
	Entity     *entity.Entity
	SizeTier   int
	Health     float64
	Radius     float64
	Color      [3]uint8
	PointValue int
	Traits     *GeneticTraits
	GeneticID  string
}

// TakeDamage applies damage and reports whether the fragment is
// destroyed.
func (f *Fragment) TakeDamage(damage float64) bool {
	f.Health -= damage
	return f.Health <= 0
}

// Stats tracks fracture workload counters.
type Stats struct {
	ActiveFragments    int  `json:"active_fragments"`
	TotalFractured     int  `json:"total_fractured"`
	TotalCreated       int  `json:"total_created"`
	GeneticsEnabled    bool `json:"genetics_enabled"`
	DiscoveredPatterns int  `json:"discovered_patterns"`
}

// System manages fragment lifecycle through the shared entity manager's
// fragment pool and records genetic lineage across fracture events.
type System struct {
	manager *entity.Manager
	events  *event.Bus
	cfg     config.FractureConfig

	src rand.Source
	rng *rand.Rand

	speedDist  distuv.Uniform
	angleDist  distuv.Uniform
	jitterDist distuv.Uniform

	fragments map[uint64]*Fragment
	lineage   map[string][]string
	patterns  map[string]GeneticTraits

	totalFractured int
	totalCreated   int
	running        bool
}

// NewSystem creates a fracture system driven by the given entity manager
// and seeded random source.
func NewSystem(manager *entity.Manager, events *event.Bus, cfg config.FractureConfig, seed uint64) *System {
	src := rand.NewSource(seed)

	return &System{
		manager:    manager,
		events:     events,
		cfg:        cfg,
		src:        src,
		rng:        rand.New(src),
		speedDist:  distuv.Uniform{Min: cfg.MinSpeed, Max: cfg.MaxSpeed, Src: src},
		angleDist:  distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src},
		jitterDist: distuv.Uniform{Min: -positionJitter, Max: positionJitter, Src: src},
		fragments:  make(map[uint64]*Fragment),
		lineage:    make(map[string][]string),
		patterns:   make(map[string]GeneticTraits),
	}
}

// Initialize registers the fragment pool with the entity manager.
func (s *System) Initialize() error {
	if !s.manager.IsRegistered(FragmentType) {
		if err := s.manager.RegisterType(FragmentType, entity.NewEntity, s.cfg.MaxFragments); err != nil {
			return fmt.Errorf("initialize fracture system: %w", err)
		}
	}
	s.running = true
	return nil
}

// Tick integrates active fragment positions. Fragments are the only
// entities this system moves; projectiles integrate in their own system.
func (s *System) Tick(dt float64) {
	if !s.running {
		return
	}
	for _, fragment := range s.fragments {
		body := &fragment.Entity.Body
		body.X += body.VX * dt
		body.Y += body.VY * dt
	}
}

// Shutdown releases all fragments and clears genetic tracking.
func (s *System) Shutdown() {
	for id := range s.fragments {
		_ = s.manager.Despawn(id)
	}
	s.fragments = make(map[uint64]*Fragment)
	s.lineage = make(map[string][]string)
	s.patterns = make(map[string]GeneticTraits)
	s.running = false
}

// Fracture splits a parent entity into children of the next smaller
// tier. directed selects impactAngle as the scatter base; otherwise the
// base angle is drawn uniformly. A terminal tier returns an empty slice.
// The parent itself is not despawned here; removal stays with the
// caller so collision handlers control ordering.
func (s *System) Fracture(parent *entity.Entity, sizeTier int, impactAngle float64, directed bool, traits *GeneticTraits) ([]*Fragment, error) {
	spec, err := TierFor(sizeTier)
	if err != nil {
		return nil, err
	}
	if spec.SplitCount == 0 {
		s.totalFractured++
		s.publishFracture(parent, nil, sizeTier, traits)
		return nil, nil
	}

	baseAngle := impactAngle
	if !directed {
		baseAngle = s.angleDist.Rand()
	}

	parentGeneticID := parent.GeneticID
	if parentGeneticID == "" {
		parentGeneticID = fmt.Sprintf("entity_%d", parent.ID())
	}

	var children []*Fragment
	for i := 0; i < spec.SplitCount; i++ {
		angleOffset := (float64(i) - float64(spec.SplitCount)/2) * (scatterCone / float64(spec.SplitCount))
		scatterAngle := baseAngle + angleOffset
		speed := s.speedDist.Rand()

		vx := parent.Body.VX*velocityInheritance + math.Cos(scatterAngle)*speed
		vy := parent.Body.VY*velocityInheritance + math.Sin(scatterAngle)*speed

		var childTraits *GeneticTraits
		childGeneticID := fmt.Sprintf("%s_frag%d", parentGeneticID, i+1)

		if s.cfg.EnableGenetics && traits != nil {
			mutated := evolve(*traits, s.src, s.rng)
			childTraits = &mutated
			childGeneticID = fmt.Sprintf("gen%d_%s", mutated.Generation, uuid.NewString()[:8])

			s.lineage[parentGeneticID] = append(s.lineage[parentGeneticID], childGeneticID)
			s.patterns[childGeneticID] = mutated
		}

		child, err := s.createFragment(spec.SplitIntoTier, parent.Body.X, parent.Body.Y, vx, vy, childTraits, childGeneticID)
		if err != nil {
			// Pool exhausted mid-split: keep the children already made.
			break
		}
		children = append(children, child)
		s.totalCreated++
	}

	s.totalFractured++

	childIDs := make([]uint64, len(children))
	for i, c := range children {
		childIDs[i] = c.Entity.ID()
	}
	s.publishFracture(parent, childIDs, sizeTier, traits)

	return children, nil
}

// publishFracture announces a completed split. Terminal-tier fractures
// publish with no child ids so subscribers see every destruction, not
// just the splitting ones.
func (s *System) publishFracture(parent *entity.Entity, childIDs []uint64, sizeTier int, traits *GeneticTraits) {
	if s.events == nil {
		return
	}
	generation := 0
	if traits != nil {
		generation = traits.Generation + 1
	}
	s.events.Publish(event.NewFractureEvent(s, parent.ID(), childIDs, sizeTier, generation))
}

// createFragment acquires a pooled entity and wraps it as a fragment at
// the given position with a small jitter.
func (s *System) createFragment(sizeTier int, x, y, vx, vy float64, traits *GeneticTraits, geneticID string) (*Fragment, error) {
	spec, err := TierFor(sizeTier)
	if err != nil {
		return nil, err
	}

	radius := spec.Radius
	color := spec.Color
	if traits != nil {
		radius *= traits.SizeModifier
		color = applyHueShift(spec.Color, traits.ColorShift)
	}

	e, err := s.manager.Spawn(FragmentType,
		entity.WithPosition(x+s.jitterDist.Rand(), y+s.jitterDist.Rand()),
		entity.WithVelocity(vx, vy),
		entity.WithAngle(s.angleDist.Rand()),
		entity.WithRadius(radius),
		entity.WithHealth(spec.Health),
		entity.WithColor(color),
		entity.WithGeneticID(geneticID),
	)
	if err != nil {
		return nil, fmt.Errorf("create fragment: %w", err)
	}

	fragment := &Fragment{
		Entity:     e,
		SizeTier:   sizeTier,
		Health:     spec.Health,
		Radius:     radius,
		Color:      color,
		PointValue: spec.Points,
		Traits:     traits,
		GeneticID:  geneticID,
	}
	s.fragments[e.ID()] = fragment
	return fragment, nil
}

// Adopt wraps an externally spawned entity as an active fragment so its
// destruction flows through the shared fracture pipeline. Used by the
// wave spawner for freshly placed asteroids.
func (s *System) Adopt(e *entity.Entity, sizeTier int, traits *GeneticTraits, geneticID string) (*Fragment, error) {
	spec, err := TierFor(sizeTier)
	if err != nil {
		return nil, err
	}

	fragment := &Fragment{
		Entity:     e,
		SizeTier:   sizeTier,
		Health:     spec.Health,
		Radius:     e.Body.Radius,
		Color:      e.Color,
		PointValue: spec.Points,
		Traits:     traits,
		GeneticID:  geneticID,
	}
	s.fragments[e.ID()] = fragment
	return fragment, nil
}

// FractureByID fractures an active fragment, despawns it, and returns
// the children.
func (s *System) FractureByID(id uint64, impactAngle float64, directed bool) ([]*Fragment, error) {
	fragment, ok := s.fragments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrFragmentNotFound, id)
	}

	children, err := s.Fracture(fragment.Entity, fragment.SizeTier, impactAngle, directed, fragment.Traits)
	if err != nil {
		return nil, err
	}

	delete(s.fragments, id)
	if despawnErr := s.manager.Despawn(id); despawnErr != nil {
		return children, fmt.Errorf("fracture by id %d: %w", id, despawnErr)
	}
	return children, nil
}

// Remove despawns an active fragment without fracturing it.
func (s *System) Remove(id uint64) error {
	if _, ok := s.fragments[id]; !ok {
		return fmt.Errorf("%w: %d", ErrFragmentNotFound, id)
	}
	delete(s.fragments, id)
	return s.manager.Despawn(id)
}

// Get returns an active fragment by entity id.
func (s *System) Get(id uint64) (*Fragment, bool) {
	fragment, ok := s.fragments[id]
	return fragment, ok
}

// ActiveCount returns the number of active fragments.
func (s *System) ActiveCount() int {
	return len(s.fragments)
}

// ActiveFragments returns the active fragments in no particular order.
func (s *System) ActiveFragments() []*Fragment {
	fragments := make([]*Fragment, 0, len(s.fragments))
	for _, f := range s.fragments {
		fragments = append(fragments, f)
	}
	return fragments
}

// TotalPoints sums the point values of all active fragments.
func (s *System) TotalPoints() int {
	total := 0
	for _, f := range s.fragments {
		total += f.PointValue
	}
	return total
}

// SizeDistribution counts active fragments per size tier.
func (s *System) SizeDistribution() map[int]int {
	distribution := map[int]int{1: 0, 2: 0, 3: 0}
	for _, f := range s.fragments {
		distribution[f.SizeTier]++
	}
	return distribution
}

// Lineage returns the recorded child genetic ids for a parent.
func (s *System) Lineage(parentGeneticID string) []string {
	return s.lineage[parentGeneticID]
}

// Status reports fracture counters.
func (s *System) Status() Stats {
	return Stats{
		ActiveFragments:    len(s.fragments),
		TotalFractured:     s.totalFractured,
		TotalCreated:       s.totalCreated,
		GeneticsEnabled:    s.cfg.EnableGenetics,
		DiscoveredPatterns: len(s.patterns),
	}
}
