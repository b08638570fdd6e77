package sim

import (
	"math"
	"testing"

	"github.com/tomz197/driftroids/internal/physics"
)

func TestIdlePlayerDecaysMonotonically(t *testing.T) {
	arena := physics.NewArena(512)
	p := NewPlayer(DefaultTuning())
	p.Linear = vec(3, -4)
	p.Angular = 0.3

	prevSpeed, prevSpin := p.Linear.Len(), math.Abs(p.Angular)
	for i := 0; i < 200; i++ {
		Integrate(p, 0.7, arena)
		speed, spin := p.Linear.Len(), math.Abs(p.Angular)
		if speed >= prevSpeed || spin >= prevSpin {
			t.Fatalf("frame %d: speed %v->%v spin %v->%v, want strict decay", i, prevSpeed, speed, prevSpin, spin)
		}
		prevSpeed, prevSpin = speed, spin
	}
}

func TestIdlePlayerSpeedAfterSixtyFrames(t *testing.T) {
	arena := physics.NewArena(512)
	p := NewPlayer(DefaultTuning())
	p.Linear = vec(5, 0)
	initial := p.Linear.Len()

	for i := 0; i < 60; i++ {
		Integrate(p, 1, arena)
	}
	ratio := p.Linear.Len() / initial
	if want := math.Pow(0.93, 60); math.Abs(ratio-want) > 1e-12 {
		t.Fatalf("speed ratio after 60 frames = %v, want 0.93^60 = %v", ratio, want)
	}
	if ratio > 0.013 {
		t.Fatalf("speed ratio after 60 frames = %v, want about 1.3%%", ratio)
	}

	for i := 0; i < 4; i++ {
		Integrate(p, 1, arena)
	}
	if ratio := p.Linear.Len() / initial; ratio >= 0.01 {
		t.Fatalf("speed ratio after 64 frames = %v, want < 1%%", ratio)
	}
}

func TestDampingIsFrameRateIndependent(t *testing.T) {
	arena := physics.NewArena(512)
	coarse := NewPlayer(DefaultTuning())
	fine := NewPlayer(DefaultTuning())
	coarse.Linear, fine.Linear = vec(2, 2), vec(2, 2)
	coarse.Angular, fine.Angular = 0.1, 0.1

	Integrate(coarse, 2, arena)
	Integrate(fine, 1, arena)
	Integrate(fine, 1, arena)

	if math.Abs(coarse.Linear.X-fine.Linear.X) > 1e-12 || math.Abs(coarse.Angular-fine.Angular) > 1e-12 {
		t.Fatalf("one 2-frame step %v/%v differs from two 1-frame steps %v/%v",
			coarse.Linear, coarse.Angular, fine.Linear, fine.Angular)
	}
}

func TestThrustFollowsHeading(t *testing.T) {
	arena := physics.NewArena(512)

	tests := []struct {
		name     string
		rotation float64
		controls Controls
		wantDir  physics.Vec2
	}{
		{"forward facing up", 0, Controls{Thrust: true}, vec(0, 1)},
		{"reverse facing up", 0, Controls{Reverse: true}, vec(0, -1)},
		{"forward facing left", math.Pi / 2, Controls{Thrust: true}, vec(-1, 0)},
		{"forward facing down", math.Pi, Controls{Thrust: true}, vec(0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(DefaultTuning())
			p.Rotation = tt.rotation
			p.Controls = tt.controls
			Integrate(p, 1, arena)

			want := tt.wantDir.Scale(0.5 * 0.93)
			if math.Abs(p.Linear.X-want.X) > 1e-9 || math.Abs(p.Linear.Y-want.Y) > 1e-9 {
				t.Fatalf("velocity = %v, want %v", p.Linear, want)
			}
			wantPos := want
			if math.Abs(p.Position.X-wantPos.X) > 1e-9 || math.Abs(p.Position.Y-wantPos.Y) > 1e-9 {
				t.Fatalf("position = %v, want %v", p.Position, wantPos)
			}
		})
	}
}

func TestRotationInputs(t *testing.T) {
	arena := physics.NewArena(512)

	p := NewPlayer(DefaultTuning())
	p.Controls = Controls{Left: true}
	Integrate(p, 1, arena)
	if want := 0.02 * 0.85; math.Abs(p.Angular-want) > 1e-12 {
		t.Fatalf("left: angular = %v, want %v", p.Angular, want)
	}
	if math.Abs(p.Rotation-p.Angular) > 1e-12 {
		t.Fatalf("left: rotation = %v, want %v", p.Rotation, p.Angular)
	}

	p = NewPlayer(DefaultTuning())
	p.Controls = Controls{Right: true}
	Integrate(p, 1, arena)
	if p.Angular >= 0 {
		t.Fatalf("right: angular = %v, want negative", p.Angular)
	}

	p = NewPlayer(DefaultTuning())
	p.Controls = Controls{Left: true, Right: true}
	Integrate(p, 1, arena)
	if p.Angular != 0 {
		t.Fatalf("left+right: angular = %v, want 0", p.Angular)
	}
}

func TestAsteroidsAndBulletsCoast(t *testing.T) {
	arena := physics.NewArena(512)
	a := &Asteroid{Size: 40, Velocity: Velocity{Linear: vec(1, -0.5), Angular: 0.05}}
	b := &Bullet{Linear: vec(0, 5)}

	for i := 0; i < 10; i++ {
		Integrate(a, 1, arena)
		Integrate(b, 1, arena)
	}
	if a.Linear != vec(1, -0.5) || a.Angular != 0.05 {
		t.Fatalf("asteroid velocity changed: %+v", a.Velocity)
	}
	if math.Abs(a.Position.X-10) > 1e-9 || math.Abs(a.Position.Y+5) > 1e-9 {
		t.Fatalf("asteroid at %v, want (10,-5)", a.Position)
	}
	if math.Abs(a.Rotation-0.5) > 1e-9 {
		t.Fatalf("asteroid rotation %v, want 0.5", a.Rotation)
	}
	if math.Abs(b.Position.Y-50) > 1e-9 {
		t.Fatalf("bullet at %v, want (0,50)", b.Position)
	}
}

func TestAsteroidWrapsWithItsOwnDeadzone(t *testing.T) {
	arena := physics.NewArena(512)
	a := &Asteroid{Size: 100, Transform: Transform{Position: vec(300, 0)}, Velocity: Velocity{Linear: vec(5, 0)}}

	Integrate(a, 1, arena)
	if a.Position.X != 305 {
		t.Fatalf("asteroid wrapped early at x=%v; boundary is 306", a.Position.X)
	}
	Integrate(a, 1, arena)
	if want := 310.0 - 612; a.Position.X != want {
		t.Fatalf("asteroid x = %v, want %v", a.Position.X, want)
	}
}

func TestZeroDeltaLeavesStateUnchanged(t *testing.T) {
	arena := physics.NewArena(512)
	p := NewPlayer(DefaultTuning())
	p.Position = vec(10, 10)
	p.Linear = vec(1, 1)
	p.Controls = Controls{Thrust: true, Left: true}

	Integrate(p, 0, arena)
	if p.Position != vec(10, 10) || p.Linear != vec(1, 1) || p.Angular != 0 {
		t.Fatalf("zero delta changed player: %+v", p)
	}
}
