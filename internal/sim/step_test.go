package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewStateSeedsFromEdges(t *testing.T) {
	tuning := DefaultTuning()
	s := newTestState(t, tuning, 1)

	asteroids := s.Store.Asteroids()
	if len(asteroids) != tuning.InitialAsteroids {
		t.Fatalf("seeded %d asteroids, want %d", len(asteroids), tuning.InitialAsteroids)
	}
	for _, a := range asteroids {
		if a.Size < tuning.SeedSizeMin || a.Size >= tuning.SeedSizeMax {
			t.Fatalf("seed size %v outside [%v, %v)", a.Size, tuning.SeedSizeMin, tuning.SeedSizeMax)
		}
		edge := (tuning.GameSize + a.Size) / 2
		if math.Abs(math.Abs(a.Position.X)-edge) > 1e-9 && math.Abs(math.Abs(a.Position.Y)-edge) > 1e-9 {
			t.Fatalf("seeded asteroid at %v not on an edge", a.Position)
		}
	}
	if s.Player.Position != vec(0, 0) || s.Player.Rotation != 0 {
		t.Fatalf("player starts at %+v, want origin facing +Y", s.Player.Transform)
	}
}

func TestNewStateRejectsBadTuning(t *testing.T) {
	bad := DefaultTuning()
	bad.FragmentRatio = 1
	if _, err := NewState(bad, rand.New(rand.NewSource(1))); !errors.Is(err, ErrInvalidTuning) {
		t.Fatalf("err = %v, want ErrInvalidTuning", err)
	}
	for _, mutate := range []func(*Tuning){
		func(t *Tuning) { t.GameSize = math.Inf(1) },
		func(t *Tuning) { t.GameSize = math.NaN() },
		func(t *Tuning) { t.SeedSizeMax = math.Inf(1) },
		func(t *Tuning) { t.SeedSizeMin = math.Inf(1); t.SeedSizeMax = math.Inf(1) },
	} {
		bad := DefaultTuning()
		mutate(&bad)
		if err := bad.Validate(); !errors.Is(err, ErrInvalidTuning) {
			t.Fatalf("Validate(%+v) = %v, want ErrInvalidTuning", bad, err)
		}
	}
	if _, err := NewState(DefaultTuning(), nil); err == nil {
		t.Fatalf("nil rng accepted")
	}
}

func TestStepFiresBulletFromRest(t *testing.T) {
	s := newTestState(t, emptyTuning(), 1)

	frame := Step(s, 1, heldKeys{ActionFire: true}, nil)
	if !frame.Fired {
		t.Fatalf("frame did not report a shot")
	}
	bullets := s.Store.Bullets()
	if len(bullets) != 1 {
		t.Fatalf("bullets = %d, want 1", len(bullets))
	}
	b := bullets[0]
	if math.Abs(b.Linear.X) > 1e-12 || b.Linear.Y != 5 {
		t.Fatalf("bullet velocity = %v, want (0,5)", b.Linear)
	}
	// Spawned before integration, so it moves and ages in the same frame.
	if b.Position.Y != 5 || b.Age != 1 {
		t.Fatalf("bullet pos=%v age=%v, want (0,5) and 1", b.Position, b.Age)
	}
}

func TestBulletExpiresWhenAgeExceedsLifespan(t *testing.T) {
	tuning := emptyTuning()
	tuning.BulletLifespan = 10
	s := newTestState(t, tuning, 2)

	Step(s, 1, heldKeys{ActionFire: true}, nil) // age 1
	for i := 2; i <= 10; i++ {
		frame := Step(s, 1, nil, nil)
		if frame.Expired != 0 || len(s.Store.Bullets()) != 1 {
			t.Fatalf("bullet removed at age %d, lifespan is 10", i)
		}
	}
	if age := s.Store.Bullets()[0].Age; age != 10 {
		t.Fatalf("age = %v, want 10", age)
	}
	frame := Step(s, 1, nil, nil)
	if frame.Expired != 1 || len(s.Store.Bullets()) != 0 {
		t.Fatalf("bullet not removed once age exceeded lifespan (expired=%d)", frame.Expired)
	}
}

func TestLargeDeltaDoesNotCullFreshBulletEarly(t *testing.T) {
	s := newTestState(t, emptyTuning(), 3)
	Step(s, 100, heldKeys{ActionFire: true}, nil)
	if len(s.Store.Bullets()) != 1 {
		t.Fatalf("bullet with age == lifespan removed")
	}
	if f := Step(s, 0.001, nil, nil); f.Expired != 1 {
		t.Fatalf("bullet past lifespan not removed")
	}
}

func TestHeldFireSpacing(t *testing.T) {
	tuning := emptyTuning()
	tuning.BulletRate = 2.5
	s := newTestState(t, tuning, 4)
	fire := heldKeys{ActionFire: true}

	var shots []int
	for i := 0; i < 10; i++ {
		if Step(s, 1, fire, nil).Fired {
			shots = append(shots, i)
		}
	}
	want := []int{0, 3, 6, 9}
	if len(shots) != len(want) {
		t.Fatalf("shots at %v, want %v", shots, want)
	}
	for i := range want {
		if shots[i] != want[i] {
			t.Fatalf("shots at %v, want %v", shots, want)
		}
	}

	Step(s, 1, nil, nil)
	if !Step(s, 1, fire, nil).Fired {
		t.Fatalf("re-press after release did not fire immediately")
	}
	if n := s.Stats().Shots; n != 5 {
		t.Fatalf("shots = %d, want 5", n)
	}
}

func TestStepDestroysAsteroidAndEmitsBurst(t *testing.T) {
	s := newTestState(t, emptyTuning(), 5)
	stillAsteroid(t, s, 90, 0, 30)
	sink := &recordingSink{}

	// Radius 22.5: the bullet is 25 away after the first frame and 20 after the second.
	var frame Frame
	for i := 0; i < 3; i++ {
		held := heldKeys{}
		if i == 0 {
			held[ActionFire] = true
		}
		frame = Step(s, 1, held, sink)
		if len(frame.Bursts) > 0 {
			break
		}
	}
	if len(frame.Bursts) != 1 || frame.Consumed != 1 {
		t.Fatalf("bursts=%d consumed=%d, want 1 and 1", len(frame.Bursts), frame.Consumed)
	}
	if len(sink.bursts) != 1 || sink.bursts[0].Intensity != 90 {
		t.Fatalf("sink bursts = %+v, want one of intensity 90", sink.bursts)
	}
	if sink.bursts[0].Position != vec(0, 30) {
		t.Fatalf("burst at %v, want (0,30)", sink.bursts[0].Position)
	}
	if n := len(s.Store.Asteroids()); n != 2 {
		t.Fatalf("asteroids after hit = %d, want 2 fragments", n)
	}
	if frame.PlayerHit {
		t.Fatalf("craft 30 from an asteroid of reach 27.5 reported as hit")
	}
}

func TestThrustEmission(t *testing.T) {
	s := newTestState(t, emptyTuning(), 6)
	sink := &recordingSink{}

	frame := Step(s, 1, heldKeys{ActionThrust: true}, sink)
	if frame.Thrust == nil || len(sink.thrusts) != 1 {
		t.Fatalf("no thrust emission while thrust held")
	}
	e := sink.thrusts[0]
	if math.Abs(e.Exhaust.X) > 1e-12 || e.Exhaust.Y != -1 {
		t.Fatalf("exhaust direction = %v, want (0,-1)", e.Exhaust)
	}
	if e.Position.Y >= s.Player.Position.Y {
		t.Fatalf("exhaust anchored at %v, want behind craft at %v", e.Position, s.Player.Position)
	}

	Step(s, 1, nil, sink)
	if len(sink.thrusts) != 1 {
		t.Fatalf("thrust emitted without input")
	}
}

func TestRefillWhenCleared(t *testing.T) {
	tuning := DefaultTuning()
	tuning.InitialAsteroids = 1
	tuning.SeedSizeMin, tuning.SeedSizeMax = 20, 25 // too small to fragment
	tuning.RefillWhenCleared = true
	s := newTestState(t, tuning, 7)

	a := s.Store.Asteroids()[0]
	a.Position = vec(0, 100)
	a.Linear = vec(0, 0)
	b := s.Store.SpawnBullet(s.Player)
	b.Position = vec(0, 100)
	b.Linear = vec(0, 0)

	frame := Step(s, 1, nil, nil)
	if !frame.Refilled {
		t.Fatalf("empty field not refilled")
	}
	asteroids := s.Store.Asteroids()
	if len(asteroids) != 1 || asteroids[0].ID == a.ID {
		t.Fatalf("refill produced %d asteroids, want one new", len(asteroids))
	}
	st := s.Stats()
	if st.Waves != 2 || st.Destroyed != 1 || st.Asteroids != 1 || st.Bullets != 0 || st.Frames != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestWrapInvariantHoldsEveryFrame(t *testing.T) {
	tuning := DefaultTuning()
	tuning.InitialAsteroids = 8
	tuning.RefillWhenCleared = true
	s := newTestState(t, tuning, 8)
	rng := rand.New(rand.NewSource(99))
	arena := s.Arena()
	widest := arena.HalfExtent(tuning.SeedSizeMax)

	for frame := 0; frame < 3000; frame++ {
		in := heldKeys{
			ActionThrust:      rng.Intn(3) > 0,
			ActionFire:        rng.Intn(2) == 0,
			ActionRotateLeft:  rng.Intn(4) == 0,
			ActionRotateRight: rng.Intn(5) == 0,
		}
		delta := rng.Float64() * 3
		if frame%50 == 0 {
			delta = 0
		}
		Step(s, delta, in, nil)

		if !arena.Contains(s.Player.Position, s.Player.Deadzone()) {
			t.Fatalf("frame %d: player at %v outside arena", frame, s.Player.Position)
		}
		for _, a := range s.Store.Asteroids() {
			if !(a.Size > 0) {
				t.Fatalf("frame %d: asteroid with size %v", frame, a.Size)
			}
			if !arena.Contains(a.Position, a.Deadzone()) {
				t.Fatalf("frame %d: asteroid size %v at %v outside ±%v", frame, a.Size, a.Position, arena.HalfExtent(a.Size))
			}
			if math.Abs(a.Position.X) > widest || math.Abs(a.Position.Y) > widest {
				t.Fatalf("frame %d: asteroid at %v outside ±%v", frame, a.Position, widest)
			}
		}
		for _, b := range s.Store.Bullets() {
			if !arena.Contains(b.Position, b.Deadzone()) {
				t.Fatalf("frame %d: bullet at %v outside arena", frame, b.Position)
			}
			if b.Age > tuning.BulletLifespan {
				t.Fatalf("frame %d: bullet aged %v survived", frame, b.Age)
			}
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestState(t, DefaultTuning(), 9)
	Step(s, 1, heldKeys{ActionFire: true}, nil)

	snap := s.Snapshot()
	if len(snap.Asteroids) != len(s.Store.Asteroids()) || len(snap.Bullets) != 1 {
		t.Fatalf("snapshot has %d asteroids / %d bullets", len(snap.Asteroids), len(snap.Bullets))
	}
	if snap.Asteroids[0].Size != s.Store.Asteroids()[0].Size {
		t.Fatalf("snapshot size mismatch")
	}

	snap.Asteroids[0].Position = vec(1e6, 1e6)
	snap.Bullets[0].Position = vec(1e6, 1e6)
	if s.Store.Asteroids()[0].Position == vec(1e6, 1e6) || s.Store.Bullets()[0].Position == vec(1e6, 1e6) {
		t.Fatalf("mutating the snapshot changed the simulation")
	}
}

func TestStepCountsTime(t *testing.T) {
	s := newTestState(t, emptyTuning(), 10)
	Step(s, 0.5, nil, nil)
	Step(s, 1.5, nil, nil)
	Step(s, -3, nil, nil)
	if s.Time != 2 || s.Frames != 3 {
		t.Fatalf("time=%v frames=%d, want 2 and 3", s.Time, s.Frames)
	}
}

func TestEntityKinds(t *testing.T) {
	var entities []Entity = []Entity{NewPlayer(DefaultTuning()), &Asteroid{Size: 40}, &Bullet{}}
	want := []string{"player", "asteroid", "bullet"}
	for i, e := range entities {
		if got := e.Kind().String(); got != want[i] {
			t.Fatalf("kind = %q, want %q", got, want[i])
		}
	}
	if entities[1].Deadzone() != 40 || entities[0].Deadzone() != 0 || entities[2].Deadzone() != 0 {
		t.Fatalf("deadzones = %v/%v/%v, want 0/40/0",
			entities[0].Deadzone(), entities[1].Deadzone(), entities[2].Deadzone())
	}
	if Kind(0).String() != "unknown" {
		t.Fatalf("zero kind = %q", Kind(0).String())
	}
}
