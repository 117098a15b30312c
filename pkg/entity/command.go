// pkg/entity/command.go
package entity

import "fmt"

// Command is the closed set of entity-manager operations accepted by Do.
// Each command is a typed struct rather than a string-keyed map so the
// dispatch switch is checkable at compile time.
type Command interface {
	isEntityCommand()
}

// SpawnCommand spawns an entity of a registered type.
type SpawnCommand struct {
	EntityType string
	Options    []SpawnOption
}

// SpawnFromTemplateCommand spawns an entity through the template registry.
type SpawnFromTemplateCommand struct {
	TemplateID string
	Options    []SpawnOption
}

// DespawnCommand returns an entity to its pool by id.
type DespawnCommand struct {
	EntityID uint64
}

// QueryCommand lists active entities, optionally filtered by type.
type QueryCommand struct {
	EntityType string
}

func (SpawnCommand) isEntityCommand()             {}
func (SpawnFromTemplateCommand) isEntityCommand() {}
func (DespawnCommand) isEntityCommand()           {}
func (QueryCommand) isEntityCommand()             {}

// Do dispatches a command. It always returns a result or an error, never
// panics; an unhandled command value reports an unknown-action error.
func (m *Manager) Do(cmd Command) (any, error) {
	switch c := cmd.(type) {
	case SpawnCommand:
		return m.Spawn(c.EntityType, c.Options...)
	case SpawnFromTemplateCommand:
		return m.SpawnFromTemplate(c.TemplateID, c.Options...)
	case DespawnCommand:
		return nil, m.Despawn(c.EntityID)
	case QueryCommand:
		if c.EntityType != "" {
			return m.ByType(c.EntityType), nil
		}
		return m.ActiveEntities(), nil
	default:
		return nil, fmt.Errorf("unknown EntityManager action: %T", cmd)
	}
}
