package draw

import (
	"math"

	"github.com/tomz197/driftroids/internal/particle"
	"github.com/tomz197/driftroids/internal/physics"
	"github.com/tomz197/driftroids/internal/sim"
)

// shipHull is the craft outline in local coordinates, nose along +Y.
var shipHull = [...]physics.Vec2{
	{X: 0, Y: 12},
	{X: 7, Y: -5},
	{X: 0, Y: -2},
	{X: -7, Y: -5},
}

// Scene paints simulation snapshots onto a canvas.
type Scene struct {
	Canvas *Canvas
	arena  physics.Arena
	buf    []physics.Vec2
}

// NewScene creates a scene drawing arena onto c.
func NewScene(c *Canvas, arena physics.Arena) *Scene {
	return &Scene{Canvas: c, arena: arena}
}

// Paint clears the canvas and draws the arena outline, asteroids, bullets,
// visible particles and the craft, in that order.
func (s *Scene) Paint(snap sim.Snapshot, particles []*particle.Particle) {
	c := s.Canvas
	c.Clear()

	h := s.arena.HalfExtent(0)
	corners := [...]physics.Vec2{{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}}
	for i := range corners {
		c.Line(corners[i], corners[(i+1)%len(corners)])
	}

	for _, a := range snap.Asteroids {
		c.Polygon(s.rock(a), false)
	}
	for _, b := range snap.Bullets {
		c.Plot(b.Position)
	}
	for _, p := range particles {
		if !p.Faded() {
			c.Plot(p.Position)
		}
	}

	s.buf = s.buf[:0]
	for _, v := range shipHull {
		s.buf = append(s.buf, place(v, snap.Player))
	}
	c.Polygon(s.buf, true)
}

// rock builds an irregular outline of 8-12 vertices whose radius varies
// between 70% and 100% of half the asteroid's size. The outline is derived
// from the size so it stays stable from frame to frame.
func (s *Scene) rock(a sim.AsteroidView) []physics.Vec2 {
	seed := math.Float64bits(a.Size)
	n := 8 + int(mix(seed)%5)
	radius := a.Size / 2

	s.buf = s.buf[:0]
	for i := 0; i < n; i++ {
		jitter := float64(mix(seed+uint64(i+1))%1000) / 1000
		r := radius * (0.7 + 0.3*jitter)
		angle := 2 * math.Pi * float64(i) / float64(n)
		s.buf = append(s.buf, place(physics.Vec2{X: math.Cos(angle) * r, Y: math.Sin(angle) * r}, a.Transform))
	}
	return s.buf
}

// place rotates a local point by t.Rotation and moves it to t.Position.
func place(v physics.Vec2, t sim.Transform) physics.Vec2 {
	sin, cos := math.Sincos(t.Rotation)
	return physics.Vec2{
		X: t.Position.X + v.X*cos - v.Y*sin,
		Y: t.Position.Y + v.X*sin + v.Y*cos,
	}
}

// mix is the splitmix64 finaliser.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
