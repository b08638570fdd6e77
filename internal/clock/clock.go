// Package clock supplies per-frame elapsed time to the simulation.
package clock

import "time"

// FrameScale converts elapsed seconds into simulation delta. Simulation
// constants are tuned for 60 updates per second, so one nominal frame is 1.0.
const FrameScale = 60.0

// Clock reports the real time elapsed since it was last sampled.
type Clock interface {
	ElapsedSinceLastSample() float64 // seconds
}

// Delta converts elapsed seconds into simulation delta.
// Negative durations (clock adjustments) yield a zero-length frame.
func Delta(seconds float64) float64 {
	if seconds < 0 {
		return 0
	}
	return seconds * FrameScale
}

// Sample reads c and returns the simulation delta for the frame.
func Sample(c Clock) float64 {
	return Delta(c.ElapsedSinceLastSample())
}

// Real measures wall-clock time between samples.
type Real struct {
	now  func() time.Time
	last time.Time
}

// NewReal creates a clock whose first sample measures from now.
func NewReal() *Real {
	return &Real{now: time.Now, last: time.Now()}
}

// ElapsedSinceLastSample implements Clock.
func (r *Real) ElapsedSinceLastSample() float64 {
	t := r.now()
	elapsed := t.Sub(r.last)
	r.last = t
	return elapsed.Seconds()
}

// Manual replays scripted frame durations. Once the script runs out the last
// duration repeats; an empty script always returns Step.
type Manual struct {
	Step   time.Duration
	script []time.Duration
}

// NewManual creates a clock returning a fixed step every sample.
func NewManual(step time.Duration) *Manual {
	return &Manual{Step: step}
}

// Push queues durations returned by the next samples, in order.
func (m *Manual) Push(d ...time.Duration) {
	m.script = append(m.script, d...)
}

// ElapsedSinceLastSample implements Clock.
func (m *Manual) ElapsedSinceLastSample() float64 {
	if len(m.script) > 0 {
		m.Step = m.script[0]
		m.script = m.script[1:]
	}
	return m.Step.Seconds()
}
