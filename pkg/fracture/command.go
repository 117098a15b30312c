package fracture

import "fmt"

// Command is a request the fracture system knows how to execute.
type Command interface {
	isFractureCommand()
}

// FractureCommand fractures an active fragment by entity id. Directed
// selects ImpactAngle as the scatter base; otherwise the base angle is
// random.
type FractureCommand struct {
	FragmentID  uint64
	ImpactAngle float64
	Directed    bool
}

// FragmentCountCommand reports the active fragment count.
type FragmentCountCommand struct{}

// StatsCommand reports fracture counters.
type StatsCommand struct{}

// DifficultyCommand computes spawn parameters for a wave number.
type DifficultyCommand struct {
	WaveNumber int
}

func (FractureCommand) isFractureCommand()      {}
func (FragmentCountCommand) isFractureCommand() {}
func (StatsCommand) isFractureCommand()         {}
func (DifficultyCommand) isFractureCommand()    {}

// FractureResult reports the outcome of a FractureCommand.
type FractureResult struct {
	Fractured    bool
	NewFragments int
}

// Do executes a fracture command and returns its result.
func (s *System) Do(cmd Command) (any, error) {
	switch c := cmd.(type) {
	case FractureCommand:
		children, err := s.FractureByID(c.FragmentID, c.ImpactAngle, c.Directed)
		if err != nil {
			return FractureResult{}, err
		}
		return FractureResult{Fractured: true, NewFragments: len(children)}, nil
	case FragmentCountCommand:
		return s.ActiveCount(), nil
	case StatsCommand:
		return s.Status(), nil
	case DifficultyCommand:
		return CalculateWaveDifficulty(c.WaveNumber), nil
	default:
		return nil, fmt.Errorf("unknown FractureSystem action: %T", cmd)
	}
}
