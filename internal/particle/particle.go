// Package particle renders cosmetic exhaust and explosion debris. It receives
// requests from the simulation and never feeds anything back.
package particle

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/driftroids/internal/physics"
	"github.com/tomz197/driftroids/internal/sim"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect. Times are in nominal frames.
type Particle struct {
	Position    physics.Vec2
	Velocity    physics.Vec2
	Lifetime    float64 // frames remaining
	MaxLifetime float64 // initial lifetime (for fade calculation)
	Drag        float64 // velocity multiplier per nominal frame (1.0 = no drag)
	Symbol      rune
}

// Faded reports whether the particle is in the last quarter of its life.
func (p *Particle) Faded() bool {
	return p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25
}

var (
	burstSymbols  = []rune{'#', '@', '*', '%', 'X', 'O', '+'}
	thrustSymbols = []rune{'*', '+', '#', '^', '~'}
)

// MaxParticles bounds a System so a burst storm cannot grow it without limit.
const MaxParticles = 2048

// System owns live particles and implements sim.ParticleSink.
type System struct {
	rng       *rand.Rand
	particles []*Particle
}

// NewSystem creates an empty system. rng drives spread and lifetimes only.
func NewSystem(rng *rand.Rand) *System {
	return &System{rng: rng}
}

func (s *System) spawn(pos, vel physics.Vec2, life, drag float64, symbols []rune) {
	if len(s.particles) >= MaxParticles {
		return
	}
	p := particlePool.Get().(*Particle)
	*p = Particle{
		Position:    pos,
		Velocity:    vel,
		Lifetime:    life,
		MaxLifetime: life,
		Drag:        drag,
		Symbol:      symbols[s.rng.Intn(len(symbols))],
	}
	s.particles = append(s.particles, p)
}

// Thrust spawns 1-2 exhaust particles behind the craft.
func (s *System) Thrust(e sim.ThrustEmission) {
	base := math.Atan2(e.Exhaust.Y, e.Exhaust.X)
	count := 1 + s.rng.Intn(2)
	for i := 0; i < count; i++ {
		angle := base + (s.rng.Float64()-0.5)*0.5
		speed := 1.5 + s.rng.Float64()
		vel := physics.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(speed).Add(e.Velocity)
		life := 6 + s.rng.Float64()*9
		s.spawn(e.Position, vel, life, 0.85, thrustSymbols)
	}
}

// Burst spawns a circular explosion scaled by the destroyed asteroid's size.
func (s *System) Burst(b sim.Burst) {
	count := int(b.Intensity / 6)
	if count < 4 {
		count = 4
	}
	speed := 0.5 + b.Intensity/80
	for i := 0; i < count; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		spd := speed * (0.5 + s.rng.Float64())
		life := 30 * (0.5 + s.rng.Float64()*0.5)
		vel := physics.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(spd)
		s.spawn(b.Position, vel, life, 0.95, burstSymbols)
	}
}

// Update advances every particle by delta nominal frames and releases the
// expired ones back to the pool.
func (s *System) Update(delta float64) {
	kept := s.particles[:0]
	for _, p := range s.particles {
		p.Lifetime -= delta
		if p.Lifetime <= 0 {
			particlePool.Put(p)
			continue
		}
		p.Velocity = p.Velocity.Scale(math.Pow(p.Drag, delta))
		p.Position = p.Position.Add(p.Velocity.Scale(delta))
		kept = append(kept, p)
	}
	clear(s.particles[len(kept):])
	s.particles = kept
}

// Particles returns the live particles. Do not retain the slice across updates.
func (s *System) Particles() []*Particle {
	return s.particles
}

// Len returns the number of live particles.
func (s *System) Len() int {
	return len(s.particles)
}

var _ sim.ParticleSink = (*System)(nil)
