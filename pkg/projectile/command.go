package projectile

import "fmt"

// Command is a request the projectile system knows how to execute.
type Command interface {
	isProjectileCommand()
}

// FireCommand fires a projectile for an owner.
type FireCommand struct {
	OwnerID uint64
	X, Y    float64
	Angle   float64
	Now     float64
	Damage  float64
	Speed   float64
}

// CanFireCommand checks whether an owner may fire at the given time.
type CanFireCommand struct {
	OwnerID uint64
	Now     float64
}

// SetCooldownCommand installs a per-owner cooldown override.
type SetCooldownCommand struct {
	OwnerID  uint64
	Cooldown float64
}

// ExpireCommand expires projectiles past their lifetime.
type ExpireCommand struct {
	Now float64
}

// StatusCommand reports firing counters.
type StatusCommand struct{}

func (FireCommand) isProjectileCommand()        {}
func (CanFireCommand) isProjectileCommand()     {}
func (SetCooldownCommand) isProjectileCommand() {}
func (ExpireCommand) isProjectileCommand()      {}
func (StatusCommand) isProjectileCommand()      {}

// Do executes a projectile command and returns its result.
func (s *System) Do(cmd Command) (any, error) {
	switch c := cmd.(type) {
	case FireCommand:
		e, err := s.Fire(c.OwnerID, c.X, c.Y, c.Angle, c.Now, c.Damage, c.Speed)
		if err != nil {
			return nil, err
		}
		return e.ID(), nil
	case CanFireCommand:
		return s.CanFire(c.OwnerID, c.Now), nil
	case SetCooldownCommand:
		s.SetCooldown(c.OwnerID, c.Cooldown)
		return nil, nil
	case ExpireCommand:
		return s.UpdateProjectiles(c.Now), nil
	case StatusCommand:
		return s.Status(), nil
	default:
		return nil, fmt.Errorf("unknown ProjectileSystem action: %T", cmd)
	}
}
