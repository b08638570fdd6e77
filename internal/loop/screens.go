package loop

import (
	"fmt"

	"github.com/tomz197/driftroids/internal/sim"
)

// helpFrames is how long the controls line stays up after start, in nominal frames.
const helpFrames = 5 * 60

const controlsText = "A/D or arrows rotate, W/S thrust, SPACE fire, Q quit"

// Label is a line of text drawn over the canvas at a 0-based cell position.
type Label struct {
	Col, Row int
	Text     string
}

// hud builds the overlay for one frame: running totals top left, a contact
// marker top right while the craft overlaps an asteroid, and the controls
// along the bottom for the first few seconds.
func hud(stats sim.Stats, frame sim.Frame, cols, rows int) []Label {
	labels := []Label{{
		Col:  1,
		Row:  0,
		Text: fmt.Sprintf("Rocks: %d  Destroyed: %d  Wave: %d", stats.Asteroids, stats.Destroyed, stats.Waves),
	}}

	if frame.PlayerHit {
		const contact = "CONTACT"
		labels = append(labels, Label{Col: cols - len(contact) - 1, Row: 0, Text: contact})
	}

	if stats.Time < helpFrames && rows > 2 {
		labels = append(labels, Label{Col: (cols - len(controlsText)) / 2, Row: rows - 1, Text: controlsText})
	}

	return clipLabels(labels, cols, rows)
}

// clipLabels drops labels outside the terminal and truncates the rest.
func clipLabels(labels []Label, cols, rows int) []Label {
	kept := labels[:0]
	for _, l := range labels {
		if l.Row < 0 || l.Row >= rows {
			continue
		}
		if l.Col < 0 {
			l.Col = 0
		}
		if room := cols - l.Col; room <= 0 {
			continue
		} else if len(l.Text) > room {
			l.Text = l.Text[:room]
		}
		kept = append(kept, l)
	}
	return kept
}
