// Package sound synthesises engine rumble and explosion noise for local play.
// A Player implements sim.ParticleSink, so it hears the same cosmetic
// requests the particle system sees.
package sound

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/driftroids/internal/sim"
)

const sampleRate = beep.SampleRate(44100)

// rumbleHold keeps the engine sound running between thrust requests, which
// arrive once per frame while thrust is held.
const rumbleHold = 80 * time.Millisecond

// Player mixes effect streams. Without Init it accepts requests and stays silent.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rumble      *Rumble
	initialized bool
	rng         *rand.Rand

	// lastThrust is read by the speaker goroutine, which holds the speaker
	// lock; it must not take mu.
	lastThrust atomic.Int64
	now        func() time.Time
}

// NewPlayer creates a silent player.
func NewPlayer() *Player {
	return &Player{
		mixer: &beep.Mixer{},
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Init opens the audio device and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences every stream.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	p.mixer.Clear()
	p.rumble = nil
	p.initialized = false
}

// Thrust keeps the engine rumble going.
func (p *Player) Thrust(sim.ThrustEmission) {
	p.lastThrust.Store(p.now().UnixNano())

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rumble == nil && p.initialized {
		p.rumble = NewRumble(sampleRate, p.thrusting)
		p.mix(p.rumble)
	}
}

func (p *Player) thrusting() bool {
	last := p.lastThrust.Load()
	return last != 0 && p.now().UnixNano()-last < int64(rumbleHold)
}

// Burst plays an explosion whose length and pitch follow the asteroid's size.
func (p *Player) Burst(b sim.Burst) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mix(NewExplosion(sampleRate, b.Intensity, p.rng.Int63()))
}

func (p *Player) mix(s beep.Streamer) {
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

var _ sim.ParticleSink = (*Player)(nil)

// Explosion is decaying low-passed noise.
type Explosion struct {
	sr     beep.SampleRate
	rng    *rand.Rand
	pos    int
	length int
	cutoff float64 // one-pole smoothing factor, lower is duller
	last   float64
}

// NewExplosion creates an explosion for an asteroid of the given size. Bigger
// rocks ring longer and lower.
func NewExplosion(sr beep.SampleRate, size float64, seed int64) *Explosion {
	size = math.Max(size, 1)
	length := time.Duration(150+size*4) * time.Millisecond
	return &Explosion{
		sr:     sr,
		rng:    rand.New(rand.NewSource(seed)),
		length: sr.N(length),
		cutoff: math.Min(0.5, 12/size),
	}
}

// Stream implements beep.Streamer.
func (e *Explosion) Stream(samples [][2]float64) (n int, ok bool) {
	if e.pos >= e.length {
		return 0, false
	}
	for i := range samples {
		if e.pos >= e.length {
			return i, true
		}
		env := 1 - float64(e.pos)/float64(e.length)
		noise := e.rng.Float64()*2 - 1
		e.last += e.cutoff * (noise - e.last)
		s := 0.4 * env * env * e.last
		samples[i][0], samples[i][1] = s, s
		e.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (e *Explosion) Err() error {
	return nil
}

// Rumble is a low engine drone that fades in while on reports true and
// fades out otherwise. It never ends.
type Rumble struct {
	sr    beep.SampleRate
	on    func() bool
	pos   int
	level float64
}

// NewRumble creates a drone gated by on, which is polled once per buffer.
func NewRumble(sr beep.SampleRate, on func() bool) *Rumble {
	return &Rumble{sr: sr, on: on}
}

// Stream implements beep.Streamer.
func (r *Rumble) Stream(samples [][2]float64) (n int, ok bool) {
	target := 0.0
	if r.on() {
		target = 1
	}
	step := 1 / (0.03 * float64(r.sr)) // 30ms fade
	for i := range samples {
		switch {
		case r.level < target:
			r.level = math.Min(target, r.level+step)
		case r.level > target:
			r.level = math.Max(target, r.level-step)
		}
		t := float64(r.pos) / float64(r.sr)
		s := 0.6*math.Sin(2*math.Pi*55*t) + 0.3*math.Sin(2*math.Pi*82.5*t) + 0.1*math.Sin(2*math.Pi*110*t)
		s *= 0.12 * r.level
		samples[i][0], samples[i][1] = s, s
		r.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (r *Rumble) Err() error {
	return nil
}
