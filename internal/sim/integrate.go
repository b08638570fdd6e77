package sim

import (
	"math"

	"github.com/tomz197/driftroids/internal/physics"
)

// Integrate advances e by delta nominal frames and wraps it into the arena.
// Only the player accelerates and is damped; asteroids and bullets coast.
func Integrate(e Entity, delta float64, arena physics.Arena) {
	switch e.Kind() {
	case KindPlayer:
		integratePlayer(e.(*Player), delta, arena)
	case KindAsteroid:
		a := e.(*Asteroid)
		a.Position = arena.Wrap(a.Position.Add(a.Linear.Scale(delta)), a.Deadzone())
		a.Rotation += a.Angular * delta
	case KindBullet:
		b := e.(*Bullet)
		b.Position = arena.Wrap(b.Position.Add(b.Linear.Scale(delta)), b.Deadzone())
	}
}

func integratePlayer(p *Player, delta float64, arena physics.Arena) {
	c := p.Controls
	heading := physics.Heading(p.Rotation)
	if c.Thrust {
		p.Linear = p.Linear.Add(heading.Scale(p.ThrustAccel * delta))
	}
	if c.Reverse {
		p.Linear = p.Linear.Sub(heading.Scale(p.ThrustAccel * delta))
	}
	if c.Left {
		p.Angular += p.RotationalAccel * delta
	}
	if c.Right {
		p.Angular -= p.RotationalAccel * delta
	}

	// factor^delta keeps deceleration independent of frame rate.
	p.Angular *= math.Pow(p.RotationalDamping, delta)
	p.Linear = p.Linear.Scale(math.Pow(p.LinearDamping, delta))

	p.Position = arena.Wrap(p.Position.Add(p.Linear.Scale(delta)), p.Deadzone())
	p.Rotation += p.Angular * delta
}
