package physics

// Arena is a square wrap-around domain of side Size centred at the origin.
type Arena struct {
	Size float64
}

// NewArena creates an arena with the given side length.
func NewArena(size float64) Arena {
	return Arena{Size: size}
}

// HalfExtent returns the wrap boundary for an entity with the given deadzone.
// A deadzone widens the boundary so large objects leave the view before wrapping.
func (a Arena) HalfExtent(deadzone float64) float64 {
	return (a.Size + deadzone) / 2
}

// Wrap moves a position that crossed the boundary to the opposite side.
// The correction is a single step per axis: displacements larger than one
// arena width per frame are not fully folded back.
func (a Arena) Wrap(p Vec2, deadzone float64) Vec2 {
	span := a.Size + deadzone
	half := span / 2

	if p.X > half {
		p.X -= span
	} else if p.X < -half {
		p.X += span
	}
	if p.Y > half {
		p.Y -= span
	} else if p.Y < -half {
		p.Y += span
	}
	return p
}

// Contains reports whether p lies within the wrap boundary (inclusive).
func (a Arena) Contains(p Vec2, deadzone float64) bool {
	half := a.HalfExtent(deadzone)
	return p.X >= -half && p.X <= half && p.Y >= -half && p.Y <= half
}
