// Package tui is a loop.Frontend on a tcell screen.
package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/driftroids/internal/draw"
	"github.com/tomz197/driftroids/internal/input"
	"github.com/tomz197/driftroids/internal/loop"
	"github.com/tomz197/driftroids/internal/sim"
)

var (
	canvasStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	labelStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// Screen adapts a tcell.Screen to loop.Frontend.
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	closed bool
}

// New initialises s and starts delivering its events.
func New(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.HideCursor()
	s.Clear()

	ts := &Screen{
		screen: s,
		events: make(chan tcell.Event, 128),
		quit:   make(chan struct{}),
	}
	go s.ChannelEvents(ts.events, ts.quit)
	return ts, nil
}

// Poll implements loop.Frontend. Each key event counts as a press; like a
// raw terminal, tcell reports no releases.
func (s *Screen) Poll(tr *input.Tracker, now time.Time) bool {
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return false
			}
			s.handle(ev, tr, now)
		default:
			return true
		}
	}
}

func (s *Screen) handle(ev tcell.Event, tr *input.Tracker, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if a, ok := keyAction(ev); ok {
			tr.Press(a, now)
			return
		}
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			tr.RequestQuit()
		case tcell.KeyRune:
			if r := ev.Rune(); r == 'q' || r == 'Q' {
				tr.RequestQuit()
			}
		}
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventFocus:
		if !ev.Focused {
			tr.Release()
		}
	}
}

func keyAction(ev *tcell.EventKey) (sim.Action, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return sim.ActionThrust, true
	case tcell.KeyDown:
		return sim.ActionReverse, true
	case tcell.KeyLeft:
		return sim.ActionRotateLeft, true
	case tcell.KeyRight:
		return sim.ActionRotateRight, true
	case tcell.KeyRune:
		if r := ev.Rune(); r < 0x80 {
			return input.KeyAction(byte(r))
		}
	}
	return 0, false
}

// Size implements loop.Frontend.
func (s *Screen) Size() (int, int) {
	return s.screen.Size()
}

// Present implements loop.Frontend.
func (s *Screen) Present(c *draw.Canvas, labels []loop.Label) error {
	s.screen.Clear()
	c.Cells(func(col, row int, ch rune) {
		s.screen.SetContent(col, row, ch, nil, canvasStyle)
	})
	for _, l := range labels {
		col := l.Col
		for _, r := range l.Text {
			s.screen.SetContent(col, l.Row, r, nil, labelStyle)
			col++
		}
	}
	s.screen.Show()
	return nil
}

// Close stops event delivery and restores the terminal.
func (s *Screen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.quit)
	s.screen.Fini()
}

var _ loop.Frontend = (*Screen)(nil)
