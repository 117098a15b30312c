package collision

import (
	"fmt"

	"github.com/opd-ai/go-asteroids/pkg/entity"
)

// Command is a request the collision system knows how to execute.
type Command interface {
	isCollisionCommand()
}

// RegisterGroupCommand registers a collision group.
type RegisterGroupCommand struct {
	Group Group
}

// CheckCommand runs a full detection pass over the given entities.
type CheckCommand struct {
	Entities  []*entity.Entity
	Timestamp float64
}

// RadiusQueryCommand finds active entities within a radius of a point.
type RadiusQueryCommand struct {
	Entities []*entity.Entity
	X, Y     float64
	Radius   float64
}

// NearestQueryCommand finds the closest active entity to a point. An
// empty EntityType matches any type.
type NearestQueryCommand struct {
	Entities   []*entity.Entity
	X, Y       float64
	EntityType string
}

// StatsCommand reports detection counters.
type StatsCommand struct{}

func (RegisterGroupCommand) isCollisionCommand() {}
func (CheckCommand) isCollisionCommand()         {}
func (RadiusQueryCommand) isCollisionCommand()   {}
func (NearestQueryCommand) isCollisionCommand()  {}
func (StatsCommand) isCollisionCommand()         {}

// Do executes a collision command and returns its result.
func (s *System) Do(cmd Command) (any, error) {
	switch c := cmd.(type) {
	case RegisterGroupCommand:
		return nil, s.RegisterGroup(c.Group)
	case CheckCommand:
		return s.CheckCollisions(c.Entities, c.Timestamp), nil
	case RadiusQueryCommand:
		return s.EntitiesInRadius(c.Entities, c.X, c.Y, c.Radius), nil
	case NearestQueryCommand:
		return s.NearestEntity(c.Entities, c.X, c.Y, c.EntityType), nil
	case StatsCommand:
		return s.Stats(), nil
	default:
		return nil, fmt.Errorf("unknown CollisionSystem action: %T", cmd)
	}
}
