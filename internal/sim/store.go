package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/tomz197/driftroids/internal/physics"
)

// ErrInvalidSize is returned when an asteroid would be created with a size
// that is not positive and finite.
var ErrInvalidSize = errors.New("asteroid size must be positive and finite")

func validSize(size float64) bool {
	return size > 0 && !math.IsInf(size, 0)
}

// Store owns every live asteroid and bullet.
//
// Slices are only compacted by Destroy* and removeBullets, never while a caller is
// ranging over Asteroids or Bullets; collision code marks entities first and
// applies removals after its scan.
type Store struct {
	tuning Tuning
	arena  physics.Arena
	rng    *rand.Rand
	nextID EntityID

	asteroids []*Asteroid
	bullets   []*Bullet
}

// NewStore creates an empty store. rng drives spawn velocities and placement.
func NewStore(t Tuning, rng *rand.Rand) *Store {
	return &Store{
		tuning: t,
		arena:  physics.NewArena(t.GameSize),
		rng:    rng,
	}
}

// Asteroids returns the live asteroids in spawn order. Do not retain the slice across steps.
func (s *Store) Asteroids() []*Asteroid {
	return s.asteroids
}

// Bullets returns the live bullets in spawn order. Do not retain the slice across steps.
func (s *Store) Bullets() []*Bullet {
	return s.bullets
}

// Asteroid looks up a live asteroid by id.
func (s *Store) Asteroid(id EntityID) (*Asteroid, bool) {
	if i := s.asteroidIndex(id); i >= 0 {
		return s.asteroids[i], true
	}
	return nil, false
}

// Bullet looks up a live bullet by id.
func (s *Store) Bullet(id EntityID) (*Bullet, bool) {
	if i := s.bulletIndex(id); i >= 0 {
		return s.bullets[i], true
	}
	return nil, false
}

// SpawnAsteroid creates an asteroid just outside a random edge of the arena:
// one axis pinned to the wrap boundary, the other uniform across the arena.
func (s *Store) SpawnAsteroid(size float64) (*Asteroid, error) {
	if !validSize(size) {
		return nil, fmt.Errorf("spawn asteroid of size %v: %w", size, ErrInvalidSize)
	}
	return s.spawnAtEdge(size), nil
}

// SpawnAsteroidAt creates an asteroid exactly at pos.
func (s *Store) SpawnAsteroidAt(size float64, pos physics.Vec2) (*Asteroid, error) {
	if !validSize(size) {
		return nil, fmt.Errorf("spawn asteroid of size %v at %v: %w", size, pos, ErrInvalidSize)
	}
	return s.spawn(size, pos), nil
}

func (s *Store) spawnAtEdge(size float64) *Asteroid {
	edge := s.arena.HalfExtent(size)
	if s.rng.Intn(2) == 0 {
		edge = -edge
	}
	across := (s.rng.Float64() - 0.5) * s.tuning.GameSize

	var pos physics.Vec2
	if s.rng.Intn(2) == 0 {
		pos = physics.Vec2{X: edge, Y: across}
	} else {
		pos = physics.Vec2{X: across, Y: edge}
	}
	return s.spawn(size, pos)
}

// spawn assumes validSize(size).
func (s *Store) spawn(size float64, pos physics.Vec2) *Asteroid {
	t := s.tuning
	s.nextID++
	a := &Asteroid{
		ID: s.nextID,
		Transform: Transform{
			Position: pos,
			Rotation: s.rng.Float64() * 2 * math.Pi,
		},
		Velocity: Velocity{
			Linear: physics.Vec2{
				X: (s.rng.Float64() - 0.5) * t.AsteroidBaseVel,
				Y: (s.rng.Float64() - 0.5) * t.AsteroidBaseVel,
			},
			Angular: t.AsteroidSpinMin + s.rng.Float64()*(t.AsteroidSpinMax-t.AsteroidSpinMin),
		},
		Size: size,
	}
	s.asteroids = append(s.asteroids, a)
	return a
}

// Fragmentation describes one destroyed asteroid and what replaced it.
type Fragmentation struct {
	Position physics.Vec2
	Size     float64
	Children []*Asteroid
}

// Burst returns the cosmetic explosion request for the destroyed asteroid.
func (f Fragmentation) Burst() Burst {
	return Burst{Position: f.Position, Intensity: f.Size}
}

// DestroyAsteroid removes the asteroid and spawns its fragments at its last
// position, folded into each child's own wrap boundary. The budget starts at
// Size*FragmentRatio and shrinks by the same ratio each iteration; every
// iteration above FragmentFloor yields one child of size in
// [floor, floor+(Size-floor)/2). Returns false if id is not live.
func (s *Store) DestroyAsteroid(id EntityID) (Fragmentation, bool) {
	i := s.asteroidIndex(id)
	if i < 0 {
		return Fragmentation{}, false
	}
	a := s.asteroids[i]
	s.asteroids = slices.Delete(s.asteroids, i, i+1)

	f := Fragmentation{Position: a.Position, Size: a.Size}
	floor := s.tuning.FragmentFloor
	for r := a.Size * s.tuning.FragmentRatio; r > floor; r *= s.tuning.FragmentRatio {
		childSize := s.rng.Float64()*(a.Size-floor)*0.5 + floor
		f.Children = append(f.Children, s.spawn(childSize, s.arena.Wrap(a.Position, childSize)))
	}
	return f, true
}

// SpawnBullet fires from the craft's position along its heading, adding the
// craft's own velocity.
func (s *Store) SpawnBullet(p *Player) *Bullet {
	s.nextID++
	b := &Bullet{
		ID:        s.nextID,
		Transform: p.Transform,
		Linear:    p.Linear.Add(physics.Heading(p.Rotation).Scale(s.tuning.BulletVel)),
	}
	s.bullets = append(s.bullets, b)
	return b
}

// DestroyBullet removes a bullet immediately. Returns false if id is not live.
func (s *Store) DestroyBullet(id EntityID) bool {
	i := s.bulletIndex(id)
	if i < 0 {
		return false
	}
	s.bullets = slices.Delete(s.bullets, i, i+1)
	return true
}

// removeBullets drops every bullet for which drop returns true and reports how many went.
func (s *Store) removeBullets(drop func(b *Bullet) bool) int {
	kept := s.bullets[:0] // reuse backing array
	for _, b := range s.bullets {
		if !drop(b) {
			kept = append(kept, b)
		}
	}
	removed := len(s.bullets) - len(kept)
	clear(s.bullets[len(kept):])
	s.bullets = kept
	return removed
}

func (s *Store) asteroidIndex(id EntityID) int {
	for i, a := range s.asteroids {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) bulletIndex(id EntityID) int {
	for i, b := range s.bullets {
		if b.ID == id {
			return i
		}
	}
	return -1
}
