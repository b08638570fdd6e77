package sim

// FireGate rate-limits shots while fire is held.
type FireGate struct {
	cooldown float64
}

// Ready advances the gate by delta and reports whether a shot may be fired now.
// Holding fire spaces shots at least rate apart in simulated time; releasing
// fire resets the gate so the next press fires at once.
func (g *FireGate) Ready(held bool, delta, rate float64) bool {
	if !held {
		g.cooldown = 0
		return false
	}
	g.cooldown -= delta
	if g.cooldown > 0 {
		return false
	}
	g.cooldown = rate
	return true
}
