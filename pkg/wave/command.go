package wave

import "fmt"

// Command is a request the wave spawner knows how to execute.
type Command interface {
	isWaveCommand()
}

// StartWaveCommand starts the next wave.
type StartWaveCommand struct{}

// SetPlayerPositionCommand updates the tracked player position.
type SetPlayerPositionCommand struct {
	X, Y float64
}

// PreviewCommand summarizes the upcoming wave.
type PreviewCommand struct{}

// ResetCommand returns the spawner to its initial state.
type ResetCommand struct{}

// StatusCommand reports wave progression counters.
type StatusCommand struct{}

func (StartWaveCommand) isWaveCommand()         {}
func (SetPlayerPositionCommand) isWaveCommand() {}
func (PreviewCommand) isWaveCommand()           {}
func (ResetCommand) isWaveCommand()             {}
func (StatusCommand) isWaveCommand()            {}

// Do executes a wave command and returns its result.
func (s *Spawner) Do(cmd Command) (any, error) {
	switch c := cmd.(type) {
	case StartWaveCommand:
		return s.StartNextWave()
	case SetPlayerPositionCommand:
		s.SetPlayerPosition(c.X, c.Y)
		return nil, nil
	case PreviewCommand:
		preview, ok := s.NextWavePreview()
		if !ok {
			return nil, fmt.Errorf("no pre-generated wave after wave %d", s.wave)
		}
		return preview, nil
	case ResetCommand:
		s.Reset()
		return nil, nil
	case StatusCommand:
		return s.CurrentStatus(), nil
	default:
		return nil, fmt.Errorf("unknown WaveSpawner action: %T", cmd)
	}
}
