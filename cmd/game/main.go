package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/tomz197/driftroids/internal/config"
	"github.com/tomz197/driftroids/internal/loop"
	"github.com/tomz197/driftroids/internal/sim"
	"github.com/tomz197/driftroids/internal/sound"
	"github.com/tomz197/driftroids/internal/tui"
	"golang.org/x/term"
)

func main() {
	frontend := flag.String("frontend", "ansi", "display: ansi (raw terminal) or tcell")
	logPath := flag.String("log", "", "write logs to this file (the screen is busy)")
	withSound := flag.Bool("sound", false, "play engine and explosion sounds")
	flag.Parse()

	logOut := io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "game")

	tuning, err := config.LoadTuning()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	seed, err := config.Seed()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	opts := loop.Options{Logger: logger, Tuning: tuning, Seed: seed}
	if *withSound {
		player := sound.NewPlayer()
		if err := player.Init(); err != nil {
			// Non-fatal, the game runs without sound.
			logger.Warn("audio unavailable", "err", err)
		} else {
			defer player.Close()
			opts.Effects = append(opts.Effects, player)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var stats sim.Stats
	switch *frontend {
	case "ansi":
		stats, err = runANSI(ctx, opts)
	case "tcell":
		stats, err = runTcell(ctx, opts)
	default:
		err = fmt.Errorf("unknown frontend %q", *frontend)
	}

	logger.Info("game over", "frames", stats.Frames, "destroyed", stats.Destroyed, "shots", stats.Shots)
	if err != nil && !errors.Is(err, loop.ErrQuit) && !errors.Is(err, io.EOF) {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func runANSI(ctx context.Context, opts loop.Options) (sim.Stats, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return sim.Stats{}, fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	t := loop.NewTerminal(bufio.NewReader(os.Stdin), os.Stdout, nil)
	defer t.Close()
	return loop.Run(ctx, t, opts)
}

func runTcell(ctx context.Context, opts loop.Options) (sim.Stats, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return sim.Stats{}, err
	}
	s, err := tui.New(screen)
	if err != nil {
		return sim.Stats{}, err
	}
	defer s.Close()
	return loop.Run(ctx, s, opts)
}
