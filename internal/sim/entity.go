package sim

import "github.com/tomz197/driftroids/internal/physics"

// EntityID identifies an asteroid or bullet for its lifetime in the store.
// IDs are never reused within one State.
type EntityID uint64

// Kind tags the entity variants.
type Kind uint8

const (
	KindPlayer Kind = iota + 1
	KindAsteroid
	KindBullet
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindAsteroid:
		return "asteroid"
	case KindBullet:
		return "bullet"
	default:
		return "unknown"
	}
}

// Transform is an entity's placement: position and rotation in radians.
type Transform struct {
	Position physics.Vec2
	Rotation float64
}

// Velocity is linear velocity plus angular rate, both per nominal frame.
type Velocity struct {
	Linear  physics.Vec2
	Angular float64
}

// Entity is implemented by the three variants.
type Entity interface {
	Kind() Kind
	Pose() Transform
	// Deadzone is the margin added to the arena's wrap boundary for this entity.
	Deadzone() float64
}

// Controls are the player's input intents for the current frame.
type Controls struct {
	Thrust  bool
	Reverse bool
	Left    bool
	Right   bool
}

// Player is the single craft controlled by input. It is never destroyed.
type Player struct {
	Transform
	Velocity

	RotationalDamping float64
	LinearDamping     float64
	ThrustAccel       float64
	RotationalAccel   float64

	Controls Controls
}

// NewPlayer creates a craft at the origin facing +Y.
func NewPlayer(t Tuning) *Player {
	return &Player{
		RotationalDamping: t.RotationalDamping,
		LinearDamping:     t.LinearDamping,
		ThrustAccel:       t.ThrustAccel,
		RotationalAccel:   t.RotationalAccel,
	}
}

func (p *Player) Kind() Kind { return KindPlayer }
func (p *Player) Pose() Transform { return p.Transform }
func (p *Player) Deadzone() float64 { return 0 }

// Asteroid is a drifting rock. Velocity.Angular is its constant spin rate.
type Asteroid struct {
	ID EntityID
	Transform
	Velocity
	Size float64

	destroyed bool // marked during a collision pass, removed afterwards
}

func (a *Asteroid) Kind() Kind { return KindAsteroid }
func (a *Asteroid) Pose() Transform { return a.Transform }
func (a *Asteroid) Deadzone() float64 { return a.Size }

// CollisionRadius is half of the asteroid's half-size.
func (a *Asteroid) CollisionRadius() float64 {
	return a.Size / 4
}

// Bullet is a projectile that expires once its age exceeds the lifespan.
type Bullet struct {
	ID EntityID
	Transform
	Linear physics.Vec2
	Age    float64

	consumed bool // hit an asteroid this frame
}

func (b *Bullet) Kind() Kind { return KindBullet }
func (b *Bullet) Pose() Transform { return b.Transform }
func (b *Bullet) Deadzone() float64 { return 0 }
