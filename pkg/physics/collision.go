// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are colliding. Touching circles
// (distance exactly equal to the radius sum) do not collide.
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided     bool
	Distance     float64
	Normal       Vector2D
	Penetration  float64
	ContactPoint Vector2D
}

// CheckCollision performs detailed collision detection between two circles.
// The normal points outward from a toward b; for coincident centers it
// defaults to the positive x axis.
func CheckCollision(a, b Circle) CollisionResult {
	normal := b.Center.Sub(a.Center)
	distance := normal.Length()

	if distance >= a.Radius+b.Radius {
		return CollisionResult{Collided: false, Distance: distance}
	}

	penetration := a.Radius + b.Radius - distance

	if distance > 0 {
		normal = normal.Scale(1 / distance)
	} else {
		normal = Vector2D{X: 1, Y: 0}
	}

	return CollisionResult{
		Collided:     true,
		Distance:     distance,
		Normal:       normal,
		Penetration:  penetration,
		ContactPoint: a.Center.Add(normal.Scale(a.Radius)),
	}
}

// SegmentCircleIntersects reports whether the line segment from p1 to p2
// passes within radius of center. Used for continuous sweep tests on
// fast-moving projectiles that could tunnel through a target between frames.
func SegmentCircleIntersects(p1, p2, center Vector2D, radius float64) bool {
	toCenter := center.Sub(p1)
	segment := p2.Sub(p1)

	lengthSq := segment.LengthSquared()
	if lengthSq == 0 {
		// Degenerate segment, test the point directly
		return toCenter.LengthSquared() <= radius*radius
	}

	// Project the circle center onto the segment, clamped to its endpoints
	t := toCenter.Dot(segment) / lengthSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := p1.Add(segment.Scale(t))
	return center.DistanceSquared(closest) <= radius*radius
}
