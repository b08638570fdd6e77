package sim

import (
	"math/rand"
	"testing"
)

// heldKeys is an Input that holds the listed actions.
type heldKeys map[Action]bool

func (h heldKeys) IsHeld(a Action) bool { return h[a] }

// recordingSink records every particle request.
type recordingSink struct {
	thrusts []ThrustEmission
	bursts  []Burst
}

func (r *recordingSink) Thrust(e ThrustEmission) { r.thrusts = append(r.thrusts, e) }
func (r *recordingSink) Burst(b Burst)           { r.bursts = append(r.bursts, b) }

// emptyTuning returns the default constants with no seeded asteroids.
func emptyTuning() Tuning {
	t := DefaultTuning()
	t.InitialAsteroids = 0
	return t
}

func newTestState(t *testing.T, tuning Tuning, seed int64) *State {
	t.Helper()
	s, err := NewState(tuning, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s
}

// stillAsteroid places a motionless asteroid so collision tests control geometry.
func stillAsteroid(t *testing.T, s *State, size, x, y float64) *Asteroid {
	t.Helper()
	a, err := s.Store.SpawnAsteroidAt(size, vec(x, y))
	if err != nil {
		t.Fatalf("SpawnAsteroidAt: %v", err)
	}
	a.Linear = vec(0, 0)
	a.Angular = 0
	return a
}
