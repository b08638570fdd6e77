package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"
	"github.com/tomz197/driftroids/internal/config"
	"github.com/tomz197/driftroids/internal/loop"
)

func main() {
	logger := config.NewLogger(os.Stderr, "ssh")

	host := config.GetEnv(config.EnvHost, config.DefaultHost)
	port := config.GetEnv(config.EnvPort, config.DefaultPort)
	hostKeyPath := config.GetEnv(config.EnvHostKey, config.DefaultHostKeyPath)
	idle, err := config.GetEnvDuration(config.EnvIdle, config.DefaultIdleTimeout)
	if err != nil {
		logger.Fatal("bad configuration", "err", err)
	}
	maxSessions, err := config.GetEnvInt(config.EnvSessions, config.DefaultMaxSessions)
	if err != nil {
		logger.Fatal("bad configuration", "err", err)
	}
	tuning, err := config.LoadTuning()
	if err != nil {
		logger.Fatal("bad configuration", "err", err)
	}
	fixedSeed, err := config.GetEnvInt(config.EnvSeed, 0)
	if err != nil {
		logger.Fatal("bad configuration", "err", err)
	}
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "idle", idle, "maxSessions", maxSessions)

	hub := loop.NewHub(logger, loop.Options{Tuning: tuning}, maxSessions)
	seeds := newSeeder(int64(fixedSeed))

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithIdleTimeout(idle),
		wish.WithMiddleware(
			gameMiddleware(hub, seeds, logger),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.DebugLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down", "active", hub.Active())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownGrace)
	defer cancel()

	if err := hub.Stop(ctx); err != nil {
		logger.Warn("sessions still running at shutdown", "err", err)
	}
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware gives every session its own simulation.
func gameMiddleware(hub *loop.Hub, seeds *seeder, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			id := uuid.NewString()
			logger.Debug("new session", "session", id, "user", sess.User(), "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			t := loop.NewTerminal(bufio.NewReader(sess), sess, sizeTracker.getSize)
			_, err := hub.Play(sess.Context(), id, seeds.next(), t)
			_ = t.Close()

			switch {
			case errors.Is(err, loop.ErrHubFull):
				fmt.Fprintln(sess, "The arena is full, try again in a minute.")
			case errors.Is(err, loop.ErrHubStopped):
				fmt.Fprintln(sess, "The server is shutting down.")
			}
			next(sess)
		}
	}
}

// seeder hands out per-session seeds: a fixed one when configured, otherwise
// fresh random ones.
type seeder struct {
	mu    sync.Mutex
	fixed int64
	rng   *rand.Rand
}

func newSeeder(fixed int64) *seeder {
	return &seeder{fixed: fixed, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *seeder) next() int64 {
	if s.fixed != 0 {
		return s.fixed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63()
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}
