package loop

import (
	"io"
	"time"

	"github.com/tomz197/driftroids/internal/draw"
	"github.com/tomz197/driftroids/internal/input"
)

// Terminal is an ANSI frontend over a byte stream, used for local raw-mode
// terminals and SSH sessions alike.
type Terminal struct {
	stream  *input.Stream
	out     *draw.ChunkWriter
	size    draw.TermSizeFunc
	cols    int
	rows    int
	started bool
}

// NewTerminal reads keys from r and draws to w. size reports the current
// terminal dimensions; nil uses os.Stdout.
func NewTerminal(r io.Reader, w io.Writer, size draw.TermSizeFunc) *Terminal {
	if size == nil {
		size = draw.DefaultTermSizeFunc
	}
	t := &Terminal{
		stream: input.StartStream(r),
		out:    draw.NewChunkWriter(w),
		size:   size,
		cols:   80,
		rows:   24,
	}
	t.refreshSize()
	return t
}

func (t *Terminal) refreshSize() {
	if cols, rows, err := t.size(); err == nil && cols > 0 && rows > 0 {
		t.cols, t.rows = cols, rows
	}
}

// Poll implements Frontend.
func (t *Terminal) Poll(tr *input.Tracker, now time.Time) bool {
	buf, closed := t.stream.Drain()
	tr.Feed(buf, now)
	return !closed
}

// Size implements Frontend. A failing size function keeps the last known size.
func (t *Terminal) Size() (int, int) {
	t.refreshSize()
	return t.cols, t.rows
}

// Present implements Frontend.
func (t *Terminal) Present(c *draw.Canvas, labels []Label) error {
	if !t.started {
		t.out.WriteString(draw.EnterAltScreen + draw.HideCursor + draw.ClearScreen)
		t.started = true
	}
	if err := c.Render(t.out); err != nil {
		return err
	}
	for _, l := range labels {
		t.out.WriteAt(l.Col+1, l.Row+1, l.Text)
	}
	return t.out.Flush()
}

// Close restores the cursor and the main screen if anything was drawn.
func (t *Terminal) Close() error {
	if !t.started {
		return nil
	}
	t.out.WriteString(draw.ClearScreen + draw.ShowCursor + draw.ExitAltScreen)
	return t.out.Flush()
}
