// Package wave drives arcade-style wave progression: pre-generated wave
// plans with extrapolation, weighted size-tier draws, and safe-haven
// placement that keeps new asteroids away from the tracked player.
package wave

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
	"github.com/opd-ai/go-asteroids/pkg/fracture"
	"github.com/opd-ai/go-asteroids/pkg/validation"
)

// ErrWaveActive reports a start request while a wave is still running.
var ErrWaveActive = errors.New("wave already active")

// AsteroidType is the entity type tag for wave-spawned asteroids.
const AsteroidType = "asteroid"

// Placement tuning.
const (
	maxPlacementAttempts = 50
	safeHavenPadding     = 10.0
	asteroidMinSpeed     = 15.0
	asteroidMaxSpeed     = 30.0
)

// Extrapolation bounds past the pre-generated plan table.
const (
	extrapolationCountStep = 2
	extrapolationCountCap  = 15
	extrapolationSpeedStep = 0.1
)

// Plan is the immutable spawn configuration for one wave.
type Plan struct {
	WaveNumber      int
	AsteroidCount   int
	SpeedMultiplier float64
	SizeWeights     []int
	SafeHavenRadius float64
}

// Preview summarizes the next wave for display.
type Preview struct {
	WaveNumber      int
	AsteroidCount   int
	SpeedMultiplier float64
	LargeCount      int
	MediumCount     int
	SmallCount      int
}

// Status reports wave progression state.
type Status struct {
	CurrentWave     int     `json:"current_wave"`
	WaveActive      bool    `json:"wave_active"`
	WaveTime        float64 `json:"wave_time"`
	WavesCompleted  int     `json:"waves_completed"`
	ActiveAsteroids int     `json:"active_asteroids"`
	TotalSpawned    int     `json:"total_spawned"`
	TotalPoints     int     `json:"total_points"`
}

// Spawner orchestrates asteroid population for each wave. Spawned
// asteroids are adopted into the fracture system so their destruction
// flows through the shared fracture pipeline; the wave completes exactly
// when its fragment list, descendants included, is depleted.
type Spawner struct {
	manager  *entity.Manager
	fracture *fracture.System
	events   *event.Bus
	cfg      *config.SimConfig

	src rand.Source
	rng *rand.Rand

	plans     []Plan
	wave      int
	active    []*fracture.Fragment
	playerX   float64
	playerY   float64
	hasPlayer bool

	waveActive     bool
	waveTime       float64
	wavesCompleted int
	totalSpawned   int
	running        bool
}

// NewSpawner creates a wave spawner composing the given fracture system.
func NewSpawner(manager *entity.Manager, fractureSys *fracture.System, events *event.Bus, cfg *config.SimConfig, seed uint64) *Spawner {
	src := rand.NewSource(seed)

	s := &Spawner{
		manager:  manager,
		fracture: fractureSys,
		events:   events,
		cfg:      cfg,
		src:      src,
		rng:      rand.New(src),
		playerX:  cfg.FieldWidth / 2,
		playerY:  cfg.FieldHeight / 2,
	}
	s.hasPlayer = true
	return s
}

// Initialize registers the asteroid pool and pre-generates the wave
// plan table.
func (s *Spawner) Initialize() error {
	if !s.manager.IsRegistered(AsteroidType) {
		if err := s.manager.RegisterType(AsteroidType, entity.NewEntity, s.cfg.Pools.Asteroids); err != nil {
			return fmt.Errorf("initialize wave spawner: %w", err)
		}
	}

	s.plans = s.plans[:0]
	for waveNum := 1; waveNum <= s.cfg.WaveConfig.PregeneratedWaves; waveNum++ {
		difficulty := fracture.CalculateWaveDifficulty(waveNum)
		s.plans = append(s.plans, Plan{
			WaveNumber:      waveNum,
			AsteroidCount:   difficulty.AsteroidCount,
			SpeedMultiplier: difficulty.SpeedMultiplier,
			SizeWeights:     difficulty.SizeWeights,
			SafeHavenRadius: s.cfg.WaveConfig.SafeHavenRadius,
		})
	}

	s.running = true
	return nil
}

// Tick advances the wave clock while a wave is active.
func (s *Spawner) Tick(dt float64) {
	if !s.running || !s.waveActive {
		return
	}
	s.waveTime += dt
}

// Shutdown clears wave state.
func (s *Spawner) Shutdown() {
	s.active = nil
	s.waveActive = false
	s.running = false
}

// SetPlayerPosition updates the tracked player position used for
// safe-haven placement.
func (s *Spawner) SetPlayerPosition(x, y float64) {
	s.playerX = x
	s.playerY = y
	s.hasPlayer = true
}

// StartNextWave advances the wave counter, extrapolating a new plan
// past the pre-generated table, and spawns the wave's asteroids.
func (s *Spawner) StartNextWave() (Plan, error) {
	if s.waveActive {
		return Plan{}, ErrWaveActive
	}

	s.wave++
	if err := validation.ValidateWaveNumber(s.wave); err != nil {
		s.wave--
		return Plan{}, fmt.Errorf("start next wave: %w", err)
	}

	if s.wave > len(s.plans) {
		last := s.plans[len(s.plans)-1]
		count := last.AsteroidCount + extrapolationCountStep
		if count > extrapolationCountCap {
			count = extrapolationCountCap
		}
		s.plans = append(s.plans, Plan{
			WaveNumber:      s.wave,
			AsteroidCount:   count,
			SpeedMultiplier: last.SpeedMultiplier + extrapolationSpeedStep,
			SizeWeights:     last.SizeWeights,
			SafeHavenRadius: s.cfg.WaveConfig.SafeHavenRadius,
		})
	}

	plan := s.plans[s.wave-1]

	asteroids, err := s.spawnWaveAsteroids(plan)
	if err != nil {
		s.wave--
		return Plan{}, fmt.Errorf("start wave %d: %w", plan.WaveNumber, err)
	}

	s.active = asteroids
	s.waveActive = true
	s.waveTime = 0
	s.totalSpawned += len(asteroids)

	if s.events != nil {
		s.events.Publish(event.NewWaveEvent(event.WaveStarted, s, plan.WaveNumber, len(asteroids)))
	}
	return plan, nil
}

// spawnWaveAsteroids places and spawns the plan's asteroid population.
func (s *Spawner) spawnWaveAsteroids(plan Plan) ([]*fracture.Fragment, error) {
	var asteroids []*fracture.Fragment

	for i := 0; i < plan.AsteroidCount; i++ {
		sizeTier := s.drawSizeTier(plan.SizeWeights)
		spec, err := fracture.TierFor(sizeTier)
		if err != nil {
			return nil, err
		}

		x, y := s.findSafePosition(plan.SafeHavenRadius)

		speedDist := distuv.Uniform{Min: asteroidMinSpeed, Max: asteroidMaxSpeed, Src: s.src}
		speed := speedDist.Rand() * plan.SpeedMultiplier
		angle := distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: s.src}.Rand()

		geneticID := fmt.Sprintf("wave%d_ast%d", s.wave, i)

		e, err := s.manager.Spawn(AsteroidType,
			entity.WithPosition(x, y),
			entity.WithVelocity(math.Cos(angle)*speed, math.Sin(angle)*speed),
			entity.WithAngle(angle),
			entity.WithRadius(spec.Radius),
			entity.WithHealth(spec.Health),
			entity.WithColor(spec.Color),
			entity.WithGeneticID(geneticID),
		)
		if err != nil {
			return nil, fmt.Errorf("spawn asteroid %d: %w", i, err)
		}

		var traits *fracture.GeneticTraits
		if s.cfg.FractureConfig.EnableGenetics {
			t := fracture.DefaultTraits()
			traits = &t
		}

		asteroid, err := s.fracture.Adopt(e, sizeTier, traits, geneticID)
		if err != nil {
			return nil, fmt.Errorf("adopt asteroid %d: %w", i, err)
		}
		asteroids = append(asteroids, asteroid)
	}

	return asteroids, nil
}

// drawSizeTier draws a size tier from the plan's weight list. The list
// repeats tiers to express bias, so the draw is a categorical over the
// per-tier occurrence counts.
func (s *Spawner) drawSizeTier(weights []int) int {
	counts := make([]float64, 3)
	for _, tier := range weights {
		counts[tier-1]++
	}
	draw := distuv.NewCategorical(counts, s.src).Rand()
	return int(draw) + 1
}

// findSafePosition performs rejection sampling within the field margins,
// accepting the first draw outside the padded safe haven. When every
// attempt fails it falls back to a uniformly chosen screen edge, safe by
// construction.
func (s *Spawner) findSafePosition(safeRadius float64) (float64, float64) {
	margin := s.cfg.WaveConfig.SpawnMargin
	xDist := distuv.Uniform{Min: margin, Max: s.cfg.FieldWidth - margin, Src: s.src}
	yDist := distuv.Uniform{Min: margin, Max: s.cfg.FieldHeight - margin, Src: s.src}

	if !s.hasPlayer {
		return xDist.Rand(), yDist.Rand()
	}

	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		x := xDist.Rand()
		y := yDist.Rand()
		if math.Hypot(x-s.playerX, y-s.playerY) > safeRadius+safeHavenPadding {
			return x, y
		}
	}

	switch s.rng.Intn(4) {
	case 0:
		return margin, yDist.Rand()
	case 1:
		return s.cfg.FieldWidth - margin, yDist.Rand()
	case 2:
		return xDist.Rand(), margin
	default:
		return xDist.Rand(), s.cfg.FieldHeight - margin
	}
}

// UpdateWave advances fragment physics and reports wave completion. The
// wave is complete exactly when the active fragment list, descendants
// included, has been depleted.
func (s *Spawner) UpdateWave(dt float64) bool {
	if !s.waveActive {
		return false
	}

	s.fracture.Tick(dt)

	if len(s.active) == 0 {
		s.waveActive = false
		s.wavesCompleted++
		if s.events != nil {
			s.events.Publish(event.NewWaveEvent(event.WaveCompleted, s, s.wave, 0))
		}
		return true
	}
	return false
}

// FractureAsteroid fractures one of the wave's asteroids, replacing it
// in the active list with its children. A terminal-tier asteroid simply
// leaves the list.
func (s *Spawner) FractureAsteroid(asteroid *fracture.Fragment, impactAngle float64, directed bool) ([]*fracture.Fragment, error) {
	id := asteroid.Entity.ID()

	children, err := s.fracture.FractureByID(id, impactAngle, directed)
	if err != nil {
		return nil, fmt.Errorf("fracture asteroid %d: %w", id, err)
	}

	for i, active := range s.active {
		if active.Entity.ID() == id {
			s.active = append(s.active[:i], s.active[i+1:]...)
			break
		}
	}
	s.active = append(s.active, children...)
	return children, nil
}

// ActiveAsteroids returns the wave's live fragments.
func (s *Spawner) ActiveAsteroids() []*fracture.Fragment {
	out := make([]*fracture.Fragment, len(s.active))
	copy(out, s.active)
	return out
}

// PlanFor returns the plan for a wave number already in the table.
func (s *Spawner) PlanFor(waveNumber int) (Plan, bool) {
	if waveNumber < 1 || waveNumber > len(s.plans) {
		return Plan{}, false
	}
	return s.plans[waveNumber-1], true
}

// NextWavePreview summarizes the upcoming wave, or reports false when
// the table has no pre-generated successor.
func (s *Spawner) NextWavePreview() (Preview, bool) {
	if s.wave >= len(s.plans) {
		return Preview{}, false
	}

	next := s.plans[s.wave]
	preview := Preview{
		WaveNumber:      next.WaveNumber,
		AsteroidCount:   next.AsteroidCount,
		SpeedMultiplier: next.SpeedMultiplier,
	}
	for _, tier := range next.SizeWeights {
		switch tier {
		case 3:
			preview.LargeCount++
		case 2:
			preview.MediumCount++
		case 1:
			preview.SmallCount++
		}
	}
	return preview, true
}

// Reset returns the spawner to its initial state, keeping the plan
// table.
func (s *Spawner) Reset() {
	s.wave = 0
	s.active = nil
	s.waveActive = false
	s.waveTime = 0
	s.wavesCompleted = 0
	s.totalSpawned = 0
}

// CurrentStatus reports wave progression counters.
func (s *Spawner) CurrentStatus() Status {
	return Status{
		CurrentWave:     s.wave,
		WaveActive:      s.waveActive,
		WaveTime:        s.waveTime,
		WavesCompleted:  s.wavesCompleted,
		ActiveAsteroids: len(s.active),
		TotalSpawned:    s.totalSpawned,
		TotalPoints:     s.fracture.TotalPoints(),
	}
}
