// Package loop drives a simulation in real time: it samples the clock and
// the frontend's input, steps the simulation, and presents the result.
package loop

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/driftroids/internal/clock"
	"github.com/tomz197/driftroids/internal/config"
	"github.com/tomz197/driftroids/internal/draw"
	"github.com/tomz197/driftroids/internal/input"
	"github.com/tomz197/driftroids/internal/particle"
	"github.com/tomz197/driftroids/internal/physics"
	"github.com/tomz197/driftroids/internal/sim"
)

// ErrQuit is returned by Run when the player asked to leave.
var ErrQuit = errors.New("player quit")

// Frontend is a display and keyboard the loop runs against.
type Frontend interface {
	// Poll feeds input received since the last call into tr, stamped at now.
	// It returns false once the input source has closed.
	Poll(tr *input.Tracker, now time.Time) bool
	// Size returns the drawable area in terminal cells.
	Size() (cols, rows int)
	// Present shows a painted canvas with labels drawn over it.
	Present(c *draw.Canvas, labels []Label) error
}

// Options configures Run. Zero values select real time and the defaults.
type Options struct {
	Logger *log.Logger
	Tuning sim.Tuning
	Seed   int64

	// Effects receive the same cosmetic requests as the particle system.
	Effects []sim.ParticleSink

	Clock clock.Clock
	Now   func() time.Time
	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration)

	FrameTime    time.Duration // target frame period
	MaxFrameTime time.Duration // longest real frame fed to the simulation
	HoldWindow   time.Duration

	// MaxFrames stops the loop after that many frames when non-zero.
	MaxFrames uint64
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Clock == nil {
		o.Clock = clock.NewReal()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	if o.FrameTime <= 0 {
		o.FrameTime = config.TargetFrameTime
	}
	if o.MaxFrameTime <= 0 {
		o.MaxFrameTime = config.MaxFrameTime
	}
	if o.HoldWindow <= 0 {
		o.HoldWindow = config.KeyHoldDuration
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Run plays one simulation on fe until ctx is cancelled, the player quits,
// the input closes or MaxFrames is reached. Each frame follows Input →
// Update → Draw. It returns the final totals; err is nil when the loop
// stopped because of ctx or MaxFrames, ErrQuit when the player quit, and
// io.EOF when the input closed.
func Run(ctx context.Context, fe Frontend, opts Options) (sim.Stats, error) {
	opts.setDefaults()
	logger := opts.Logger

	state, err := sim.NewState(opts.Tuning, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return sim.Stats{}, err
	}

	tracker := input.NewTracker(opts.HoldWindow)
	fx := particle.NewSystem(rand.New(rand.NewSource(opts.Seed + 1)))
	var sinks sim.ParticleSink = fx
	if len(opts.Effects) > 0 {
		sinks = append(tee{fx}, opts.Effects...)
	}
	arena := physics.NewArena(opts.Tuning.GameSize)
	cols, rows := fe.Size()
	canvas := draw.NewCanvas(cols, rows, arena.Size+2*config.ViewMargin)
	scene := draw.NewScene(canvas, arena)
	maxDelta := clock.Delta(opts.MaxFrameTime.Seconds())

	logger.Debug("simulation started", "seed", opts.Seed, "asteroids", len(state.Store.Asteroids()))
	wasHit := false

	for {
		if err := ctx.Err(); err != nil {
			return state.Stats(), nil
		}
		if opts.MaxFrames > 0 && state.Frames >= opts.MaxFrames {
			return state.Stats(), nil
		}
		frameStart := opts.Now()

		// ===== INPUT PHASE =====
		delta := min(clock.Sample(opts.Clock), maxDelta)
		if !fe.Poll(tracker, frameStart) {
			return state.Stats(), io.EOF
		}
		if tracker.Quit() {
			return state.Stats(), ErrQuit
		}
		tracker.Advance(frameStart)

		// ===== UPDATE PHASE =====
		frame := sim.Step(state, delta, tracker, sinks)
		fx.Update(delta)

		if frame.PlayerHit != wasHit {
			logger.Debug("contact", "overlapping", frame.PlayerHit, "frame", state.Frames)
			wasHit = frame.PlayerHit
		}
		if frame.Refilled {
			logger.Info("field cleared", "wave", state.Stats().Waves, "frame", state.Frames)
		}

		// ===== DRAW PHASE =====
		cols, rows := fe.Size()
		canvas.Resize(cols, rows)
		scene.Paint(state.Snapshot(), fx.Particles())
		if err := fe.Present(canvas, hud(state.Stats(), frame, cols, rows)); err != nil {
			return state.Stats(), err
		}

		// ===== FRAME TIMING =====
		if elapsed := opts.Now().Sub(frameStart); elapsed < opts.FrameTime {
			opts.Sleep(ctx, opts.FrameTime-elapsed)
		}
	}
}

// tee forwards every request to each sink in order.
type tee []sim.ParticleSink

func (t tee) Thrust(e sim.ThrustEmission) {
	for _, s := range t {
		s.Thrust(e)
	}
}

func (t tee) Burst(b sim.Burst) {
	for _, s := range t {
		s.Burst(b)
	}
}
