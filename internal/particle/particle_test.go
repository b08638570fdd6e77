package particle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tomz197/driftroids/internal/physics"
	"github.com/tomz197/driftroids/internal/sim"
)

func TestBurstScalesWithIntensity(t *testing.T) {
	small := NewSystem(rand.New(rand.NewSource(1)))
	small.Burst(sim.Burst{Intensity: 10})
	large := NewSystem(rand.New(rand.NewSource(1)))
	large.Burst(sim.Burst{Position: physics.Vec2{X: 5, Y: 5}, Intensity: 120})

	if small.Len() != 4 {
		t.Fatalf("small burst = %d particles, want the minimum of 4", small.Len())
	}
	if large.Len() != 20 {
		t.Fatalf("large burst = %d particles, want 20", large.Len())
	}
	for _, p := range large.Particles() {
		if p.Position != (physics.Vec2{X: 5, Y: 5}) {
			t.Fatalf("particle spawned at %v", p.Position)
		}
	}
}

func TestThrustTravelsAlongExhaust(t *testing.T) {
	s := NewSystem(rand.New(rand.NewSource(2)))
	s.Thrust(sim.ThrustEmission{Exhaust: physics.Vec2{X: 0, Y: -1}})

	if n := s.Len(); n < 1 || n > 2 {
		t.Fatalf("thrust spawned %d particles, want 1-2", n)
	}
	for _, p := range s.Particles() {
		if p.Velocity.Y >= 0 {
			t.Fatalf("exhaust velocity %v does not point along -Y", p.Velocity)
		}
	}
}

func TestUpdateExpiresAndDrags(t *testing.T) {
	s := NewSystem(rand.New(rand.NewSource(3)))
	s.spawn(physics.Vec2{}, physics.Vec2{X: 1}, 10, 0.5, burstSymbols)

	s.Update(2)
	p := s.Particles()[0]
	if math.Abs(p.Velocity.X-0.25) > 1e-12 {
		t.Fatalf("velocity after 2 frames = %v, want 0.25", p.Velocity.X)
	}
	if math.Abs(p.Position.X-0.5) > 1e-12 {
		t.Fatalf("position = %v, want 0.5", p.Position.X)
	}
	if p.Faded() {
		t.Fatalf("particle faded at 80%% life")
	}

	s.Update(6)
	if !s.Particles()[0].Faded() {
		t.Fatalf("particle at 20%% life not faded")
	}
	s.Update(2)
	if s.Len() != 0 {
		t.Fatalf("particle outlived its lifetime")
	}
}

func TestSystemIsBounded(t *testing.T) {
	s := NewSystem(rand.New(rand.NewSource(4)))
	for i := 0; i < 1000; i++ {
		s.Burst(sim.Burst{Intensity: 120})
	}
	if s.Len() != MaxParticles {
		t.Fatalf("len = %d, want cap %d", s.Len(), MaxParticles)
	}
}
