package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTuning is returned when a Tuning cannot drive a simulation.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds every gameplay constant. Velocities and accelerations are per
// nominal frame (delta 1.0 = 1/60 s).
type Tuning struct {
	GameSize float64 // side of the square arena

	// Player
	RotationalDamping float64 // angular velocity multiplier per nominal frame
	LinearDamping     float64 // linear velocity multiplier per nominal frame
	ThrustAccel       float64
	RotationalAccel   float64
	PlayerHitRadius   float64 // added to an asteroid's collision radius for player checks
	ThrustOffset      float64 // distance behind the craft where exhaust is anchored

	// Asteroids
	AsteroidBaseVel  float64 // velocity per axis is uniform in ±AsteroidBaseVel/2
	AsteroidSpinMin  float64
	AsteroidSpinMax  float64
	FragmentRatio    float64 // budget multiplier per fragmentation iteration
	FragmentFloor    float64 // asteroids at or below this size never split
	InitialAsteroids int
	SeedSizeMin      float64
	SeedSizeMax      float64

	// RefillWhenCleared spawns a new seed wave from the edges whenever the
	// last asteroid is destroyed.
	RefillWhenCleared bool

	// Bullets
	BulletVel      float64
	BulletRate     float64 // minimum simulated time between shots while fire is held
	BulletLifespan float64
}

// DefaultTuning returns the standard arcade constants.
func DefaultTuning() Tuning {
	return Tuning{
		GameSize: 512,

		RotationalDamping: 0.85,
		LinearDamping:     0.93,
		ThrustAccel:       0.5,
		RotationalAccel:   0.02,
		PlayerHitRadius:   5,
		ThrustOffset:      4,

		AsteroidBaseVel:  2,
		AsteroidSpinMin:  0.03,
		AsteroidSpinMax:  0.07,
		FragmentRatio:    0.6,
		FragmentFloor:    30,
		InitialAsteroids: 4,
		SeedSizeMin:      60,
		SeedSizeMax:      120,

		BulletVel:      5,
		BulletRate:     0.2,
		BulletLifespan: 100,
	}
}

// Validate reports the first constant that would break an invariant.
func (t Tuning) Validate() error {
	switch {
	case !finitePositive(t.GameSize):
		return fmt.Errorf("%w: game size %v must be positive and finite", ErrInvalidTuning, t.GameSize)
	case t.RotationalDamping <= 0 || t.RotationalDamping > 1:
		return fmt.Errorf("%w: rotational damping %v not in (0,1]", ErrInvalidTuning, t.RotationalDamping)
	case t.LinearDamping <= 0 || t.LinearDamping > 1:
		return fmt.Errorf("%w: linear damping %v not in (0,1]", ErrInvalidTuning, t.LinearDamping)
	case t.FragmentRatio <= 0 || t.FragmentRatio >= 1:
		// A ratio of 1 or more would never let the fragment loop terminate.
		return fmt.Errorf("%w: fragment ratio %v not in (0,1)", ErrInvalidTuning, t.FragmentRatio)
	case t.FragmentFloor <= 0:
		return fmt.Errorf("%w: fragment floor %v must be positive", ErrInvalidTuning, t.FragmentFloor)
	case t.AsteroidSpinMax < t.AsteroidSpinMin:
		return fmt.Errorf("%w: spin range [%v,%v] is empty", ErrInvalidTuning, t.AsteroidSpinMin, t.AsteroidSpinMax)
	case t.InitialAsteroids < 0:
		return fmt.Errorf("%w: initial asteroid count %d is negative", ErrInvalidTuning, t.InitialAsteroids)
	case !finitePositive(t.SeedSizeMin) || !finitePositive(t.SeedSizeMax) || t.SeedSizeMax < t.SeedSizeMin:
		return fmt.Errorf("%w: seed size range [%v,%v]", ErrInvalidTuning, t.SeedSizeMin, t.SeedSizeMax)
	case t.RefillWhenCleared && t.InitialAsteroids == 0:
		return fmt.Errorf("%w: refill needs at least one initial asteroid", ErrInvalidTuning)
	case t.BulletRate < 0 || t.BulletLifespan < 0:
		return fmt.Errorf("%w: bullet rate and lifespan must not be negative", ErrInvalidTuning)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
