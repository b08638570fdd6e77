package sim

import "github.com/tomz197/driftroids/internal/physics"

// Action is a held-input query understood by the simulation.
type Action uint8

const (
	ActionThrust Action = iota
	ActionRotateLeft
	ActionRotateRight
	ActionFire
	ActionReverse
)

// Input is sampled once per Step. The simulation never writes to it.
type Input interface {
	IsHeld(action Action) bool
}

// readControls samples in; a nil Input holds nothing.
func readControls(in Input) (Controls, bool) {
	if in == nil {
		return Controls{}, false
	}
	c := Controls{
		Thrust:  in.IsHeld(ActionThrust),
		Reverse: in.IsHeld(ActionReverse),
		Left:    in.IsHeld(ActionRotateLeft),
		Right:   in.IsHeld(ActionRotateRight),
	}
	return c, in.IsHeld(ActionFire)
}

// ThrustEmission asks for exhaust particles behind a thrusting craft.
type ThrustEmission struct {
	Position physics.Vec2 // anchor behind the craft
	Exhaust  physics.Vec2 // unit direction opposite to the heading
	Velocity physics.Vec2 // craft velocity, inherited by the exhaust
}

// Burst asks for an explosion at Position. Intensity is the destroyed asteroid's size.
type Burst struct {
	Position  physics.Vec2
	Intensity float64
}

// ParticleSink receives cosmetic requests. Nothing it does affects the simulation.
type ParticleSink interface {
	Thrust(e ThrustEmission)
	Burst(b Burst)
}

// Frame summarises what happened during one Step.
type Frame struct {
	Delta     float64
	PlayerHit bool // at least one asteroid overlapped the craft
	Fired     bool
	Expired   int // bullets removed by age
	Consumed  int // bullets removed by impact
	Bursts    []Burst
	Thrust    *ThrustEmission
	Refilled  bool
}
