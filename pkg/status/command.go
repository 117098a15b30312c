package status

import "fmt"

// Command is a request the status manager knows how to execute.
type Command interface {
	isStatusCommand()
}

// ApplyCommand applies a named effect to an entity.
type ApplyCommand struct {
	EntityID  uint64
	Name      string
	Type      EffectType
	Magnitude float64
	Duration  float64
	SourceID  uint64
	Mode      StackingMode
}

// RemoveCommand removes a named effect from an entity.
type RemoveCommand struct {
	EntityID uint64
	Name     string
}

// ClearCommand removes every effect from an entity.
type ClearCommand struct {
	EntityID uint64
}

// QueryCommand returns all effects on an entity.
type QueryCommand struct {
	EntityID uint64
}

// StatusCommand reports effect lifecycle counters.
type StatusCommand struct{}

func (ApplyCommand) isStatusCommand()  {}
func (RemoveCommand) isStatusCommand() {}
func (ClearCommand) isStatusCommand()  {}
func (QueryCommand) isStatusCommand()  {}
func (StatusCommand) isStatusCommand() {}

// Do executes a status command and returns its result.
func (m *Manager) Do(cmd Command) (any, error) {
	switch c := cmd.(type) {
	case ApplyCommand:
		return m.ApplyEffect(c.EntityID, c.Name, c.Type, c.Magnitude, c.Duration, c.SourceID, c.Mode)
	case RemoveCommand:
		return nil, m.RemoveEffect(c.EntityID, c.Name)
	case ClearCommand:
		return m.ClearEffects(c.EntityID), nil
	case QueryCommand:
		return m.ActiveEffects(c.EntityID), nil
	case StatusCommand:
		return m.Status(), nil
	default:
		return nil, fmt.Errorf("unknown StatusManager action: %T", cmd)
	}
}
