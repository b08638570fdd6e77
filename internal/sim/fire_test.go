package sim

import "testing"

func TestFireGateSpacing(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		rate  float64
		want  []bool
	}{
		{"first press fires", 1, 0.2, []bool{true, true, true}},
		{"rate of three frames", 1, 3, []bool{true, false, false, true, false, false, true}},
		{"fractional frames", 0.25, 0.5, []bool{true, false, true, false, true}},
		{"zero delta fires once", 0, 0.2, []bool{true, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g FireGate
			for i, want := range tt.want {
				if got := g.Ready(true, tt.delta, tt.rate); got != want {
					t.Fatalf("frame %d: Ready = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestFireGateReleaseResets(t *testing.T) {
	var g FireGate
	if !g.Ready(true, 1, 10) {
		t.Fatalf("first press did not fire")
	}
	if g.Ready(true, 1, 10) {
		t.Fatalf("fired during cooldown")
	}
	if g.Ready(false, 1, 10) {
		t.Fatalf("fired while released")
	}
	if !g.Ready(true, 1, 10) {
		t.Fatalf("re-press after release did not fire immediately")
	}
}

func TestFireGateMinimumSpacing(t *testing.T) {
	var g FireGate
	const rate = 0.2
	deltas := []float64{0.05, 0.13, 0.01, 0.3, 0.07, 0.07, 0.07, 0.5, 0.02}

	sinceShot, shots := 0.0, 0
	for i := 0; i < 400; i++ {
		d := deltas[i%len(deltas)]
		sinceShot += d
		if g.Ready(true, d, rate) {
			if shots > 0 && sinceShot < rate-1e-12 {
				t.Fatalf("frame %d: shots %v apart, want >= %v", i, sinceShot, rate)
			}
			shots++
			sinceShot = 0
		}
	}
	if shots < 10 {
		t.Fatalf("only %d shots fired", shots)
	}
}
