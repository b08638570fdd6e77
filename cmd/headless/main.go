// Command headless runs the simulation without a terminal and streams every
// frame as MessagePack, for replay tools and soak testing.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/driftroids/internal/clock"
	"github.com/tomz197/driftroids/internal/config"
	"github.com/tomz197/driftroids/internal/framecodec"
	"github.com/tomz197/driftroids/internal/sim"
)

func main() {
	logger := config.NewLogger(os.Stderr, "headless")
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Error("headless run failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, logger *log.Logger) (err error) {
	fs := flag.NewFlagSet("headless", flag.ContinueOnError)
	frames := fs.Uint64("frames", 3600, "number of frames to simulate")
	seed := fs.Int64("seed", 0, "rng seed (0 reads DRIFT_SEED or uses the time)")
	out := fs.String("out", "-", "output file, - for stdout")
	step := fs.Duration("step", config.TargetFrameTime, "simulated duration of each frame")
	idle := fs.Bool("idle", false, "leave the craft untouched instead of flying the autopilot")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tuning, err := config.LoadTuning()
	if err != nil {
		return err
	}
	if *seed == 0 {
		if *seed, err = config.Seed(); err != nil {
			return err
		}
	}

	w := stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		w = f
	}
	bw := bufio.NewWriter(w)
	defer func() {
		if ferr := bw.Flush(); err == nil && ferr != nil {
			err = fmt.Errorf("flush output: %w", ferr)
		}
	}()

	state, err := sim.NewState(tuning, rand.New(rand.NewSource(*seed)))
	if err != nil {
		return err
	}

	var pilot *autopilot
	var in sim.Input
	if !*idle {
		pilot = newAutopilot(rand.New(rand.NewSource(*seed + 1)))
		in = pilot
	}

	clk := clock.NewManual(*step)
	enc := framecodec.NewEncoder(bw)
	hits := 0
	start := time.Now()
	for i := uint64(0); i < *frames; i++ {
		if pilot != nil {
			pilot.next()
		}
		f := sim.Step(state, clock.Sample(clk), in, nil)
		if f.PlayerHit {
			hits++
		}
		if err := enc.Encode(framecodec.Frame{
			Seq:       state.Frames,
			Time:      state.Time,
			PlayerHit: f.PlayerHit,
			Snapshot:  state.Snapshot(),
		}); err != nil {
			return fmt.Errorf("encode frame %d: %w", i, err)
		}
	}

	st := state.Stats()
	logger.Info("run complete",
		"seed", *seed,
		"frames", st.Frames,
		"shots", st.Shots,
		"destroyed", st.Destroyed,
		"waves", st.Waves,
		"hitFrames", hits,
		"elapsed", time.Since(start),
	)
	return nil
}

// autopilot holds a random set of controls for a random number of frames.
type autopilot struct {
	rng  *rand.Rand
	left int
	held map[sim.Action]bool
}

func newAutopilot(rng *rand.Rand) *autopilot {
	return &autopilot{rng: rng, held: make(map[sim.Action]bool)}
}

func (a *autopilot) next() {
	if a.left > 0 {
		a.left--
		return
	}
	a.left = 10 + a.rng.Intn(50)
	clear(a.held)
	a.held[sim.ActionFire] = a.rng.Intn(3) > 0
	a.held[sim.ActionThrust] = a.rng.Intn(2) == 0
	switch a.rng.Intn(3) {
	case 0:
		a.held[sim.ActionRotateLeft] = true
	case 1:
		a.held[sim.ActionRotateRight] = true
	}
}

func (a *autopilot) IsHeld(act sim.Action) bool {
	return a.held[act]
}
