// Package input turns raw terminal bytes into held-key state.
//
// Terminals report key presses (and auto-repeats) but never releases, so a
// key counts as held for a short window after its last byte.
package input

import (
	"bufio"
	"io"
	"time"

	"github.com/tomz197/driftroids/internal/sim"
)

const numActions = int(sim.ActionReverse) + 1

// Stream delivers input bytes via a channel.
type Stream struct {
	ch chan byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The channel is closed when r returns an error.
func StartStream(r io.Reader) *Stream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Drain returns all bytes available right now without blocking. closed is
// true once the reader has failed and every byte has been returned.
func (s *Stream) Drain() (buf []byte, closed bool) {
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				return buf, true
			}
			buf = append(buf, b)
		default:
			return buf, false
		}
	}
}

// Tracker implements sim.Input from timestamped key presses.
type Tracker struct {
	hold time.Duration
	now  time.Time
	last [numActions]time.Time
	quit bool

	// pending holds a trailing ESC or ESC [ until the next Feed shows
	// whether it starts an arrow sequence.
	pending []byte
}

// NewTracker creates a tracker with the given hold window.
func NewTracker(hold time.Duration) *Tracker {
	return &Tracker{hold: hold}
}

// Advance sets the instant IsHeld is evaluated at. Call once per frame
// after feeding that frame's input.
func (t *Tracker) Advance(now time.Time) {
	t.now = now
}

// Press records a press of a at the given time.
func (t *Tracker) Press(a sim.Action, at time.Time) {
	if int(a) < numActions {
		t.last[a] = at
	}
}

// RequestQuit marks the session as finished.
func (t *Tracker) RequestQuit() {
	t.quit = true
}

// Quit reports whether a quit key was seen.
func (t *Tracker) Quit() bool {
	return t.quit
}

// IsHeld implements sim.Input.
func (t *Tracker) IsHeld(a sim.Action) bool {
	if int(a) >= numActions || t.last[a].IsZero() {
		return false
	}
	return t.now.Sub(t.last[a]) < t.hold
}

// Release forgets every press, e.g. when the frontend loses focus.
func (t *Tracker) Release() {
	t.last = [numActions]time.Time{}
}

// Feed parses buf as terminal input received at the given time. CSI arrow
// sequences map like their letter equivalents. An ESC at the end of buf is
// held back one call, since the rest of an arrow sequence may still be in
// flight; an ESC not followed by '[' by then quits.
func (t *Tracker) Feed(buf []byte, at time.Time) {
	carried := len(t.pending) > 0
	if carried {
		buf = append(t.pending, buf...)
		t.pending = nil
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			rest := len(buf) - i
			fromLastFeed := carried && i == 0
			switch {
			case rest >= 3 && buf[i+1] == '[':
				if a, ok := arrowAction(buf[i+2]); ok {
					t.Press(a, at)
					i += 2
				}
				continue
			case rest == 2 && buf[i+1] == '[':
				if !fromLastFeed {
					t.pending = append(t.pending, buf[i:]...)
					return
				}
				i++ // incomplete sequence, drop it
				continue
			case rest == 1 && !fromLastFeed:
				t.pending = append(t.pending, b)
				return
			case fromLastFeed || rest == 1:
				t.quit = true
				continue
			}
			continue
		}
		if b == 'q' || b == 'Q' || b == 3 {
			t.quit = true
			continue
		}
		if a, ok := KeyAction(b); ok {
			t.Press(a, at)
		}
	}
}

func arrowAction(code byte) (sim.Action, bool) {
	switch code {
	case 'A':
		return sim.ActionThrust, true
	case 'B':
		return sim.ActionReverse, true
	case 'C':
		return sim.ActionRotateRight, true
	case 'D':
		return sim.ActionRotateLeft, true
	}
	return 0, false
}

// KeyAction maps a single key byte to its action. WASD and IJKL are both accepted.
func KeyAction(b byte) (sim.Action, bool) {
	switch b {
	case 'w', 'W', 'i', 'I':
		return sim.ActionThrust, true
	case 's', 'S', 'k', 'K':
		return sim.ActionReverse, true
	case 'a', 'A', 'j', 'J':
		return sim.ActionRotateLeft, true
	case 'd', 'D', 'l', 'L':
		return sim.ActionRotateRight, true
	case ' ':
		return sim.ActionFire, true
	}
	return 0, false
}
