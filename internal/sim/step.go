// Package sim is the simulation engine: a craft, drifting asteroids and
// bullets in a wrap-around arena, advanced one frame at a time by Step.
//
// A State is owned by a single goroutine. Step never blocks and performs no I/O.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/tomz197/driftroids/internal/physics"
)

// State is everything one simulation owns between frames.
type State struct {
	tuning   Tuning
	arena    physics.Arena
	rng      *rand.Rand
	fire     FireGate
	resolver *Resolver

	Player *Player
	Store  *Store

	Time   float64 // accumulated simulated time in nominal frames
	Frames uint64

	shots     uint64
	destroyed uint64
	waves     uint64
}

// Stats are running totals for logging and status lines.
type Stats struct {
	Frames    uint64
	Time      float64
	Asteroids int
	Bullets   int
	Shots     uint64
	Destroyed uint64
	Waves     uint64 // seed waves spawned, including the initial one
}

// Stats returns the running totals.
func (s *State) Stats() Stats {
	return Stats{
		Frames:    s.Frames,
		Time:      s.Time,
		Asteroids: len(s.Store.Asteroids()),
		Bullets:   len(s.Store.Bullets()),
		Shots:     s.shots,
		Destroyed: s.destroyed,
		Waves:     s.waves,
	}
}

// NewState validates t and seeds the arena with t.InitialAsteroids asteroids
// entering from the edges.
func NewState(t Tuning, rng *rand.Rand) (*State, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("new state: nil random source")
	}
	s := &State{
		tuning:   t,
		arena:    physics.NewArena(t.GameSize),
		rng:      rng,
		resolver: NewResolver(t),
		Player:   NewPlayer(t),
		Store:    NewStore(t, rng),
	}
	s.seedWave()
	return s, nil
}

// Tuning returns the constants the state was built with.
func (s *State) Tuning() Tuning {
	return s.tuning
}

// Arena returns the arena topology.
func (s *State) Arena() physics.Arena {
	return s.arena
}

func (s *State) seedWave() {
	t := s.tuning
	for i := 0; i < t.InitialAsteroids; i++ {
		size := t.SeedSizeMin + s.rng.Float64()*(t.SeedSizeMax-t.SeedSizeMin)
		s.Store.spawnAtEdge(size)
	}
	s.waves++
}

// Step advances the simulation by delta nominal frames using the held input,
// in fixed order: controls, fire gate, player, asteroids, bullets (motion,
// aging, expiry), collisions with deferred destruction, then particle
// requests to fx. in and fx may be nil.
func Step(s *State, delta float64, in Input, fx ParticleSink) Frame {
	if delta < 0 {
		delta = 0
	}
	frame := Frame{Delta: delta}
	t := s.tuning

	// 1. Input
	controls, firing := readControls(in)
	s.Player.Controls = controls

	// 2. Fire gate
	if s.fire.Ready(firing, delta, t.BulletRate) {
		s.Store.SpawnBullet(s.Player)
		s.shots++
		frame.Fired = true
	}

	// 3. Player
	Integrate(s.Player, delta, s.arena)

	// 4. Asteroids
	for _, a := range s.Store.Asteroids() {
		Integrate(a, delta, s.arena)
	}

	// 5. Bullets
	for _, b := range s.Store.Bullets() {
		Integrate(b, delta, s.arena)
		b.Age += delta
	}
	frame.Expired = s.Store.removeBullets(func(b *Bullet) bool {
		return b.Age > t.BulletLifespan
	})

	// 6. Collisions
	hits := s.resolver.Resolve(s.Store, s.Player)
	frame.PlayerHit = hits.PlayerHit
	frame.Consumed = hits.Consumed
	s.destroyed += uint64(len(hits.Fragmentations))
	for _, f := range hits.Fragmentations {
		frame.Bursts = append(frame.Bursts, f.Burst())
	}

	if t.RefillWhenCleared && len(s.Store.Asteroids()) == 0 {
		s.seedWave()
		frame.Refilled = true
	}

	// 7. Cosmetic requests
	if controls.Thrust {
		exhaust := physics.Heading(s.Player.Rotation).Scale(-1)
		frame.Thrust = &ThrustEmission{
			Position: s.Player.Position.Add(exhaust.Scale(t.ThrustOffset)),
			Exhaust:  exhaust,
			Velocity: s.Player.Linear,
		}
	}
	if fx != nil {
		if frame.Thrust != nil {
			fx.Thrust(*frame.Thrust)
		}
		for _, b := range frame.Bursts {
			fx.Burst(b)
		}
	}

	s.Time += delta
	s.Frames++
	return frame
}

// AsteroidView is the render-facing part of an asteroid.
type AsteroidView struct {
	Transform
	Size float64
}

// Snapshot is a read-only copy of what a renderer may draw.
type Snapshot struct {
	Player    Transform
	Asteroids []AsteroidView
	Bullets   []Transform
}

// Snapshot copies the drawable state. The result shares no memory with s.
func (s *State) Snapshot() Snapshot {
	asteroids := s.Store.Asteroids()
	bullets := s.Store.Bullets()
	snap := Snapshot{
		Player:    s.Player.Transform,
		Asteroids: make([]AsteroidView, len(asteroids)),
		Bullets:   make([]Transform, len(bullets)),
	}
	for i, a := range asteroids {
		snap.Asteroids[i] = AsteroidView{Transform: a.Transform, Size: a.Size}
	}
	for i, b := range bullets {
		snap.Bullets[i] = b.Transform
	}
	return snap
}
