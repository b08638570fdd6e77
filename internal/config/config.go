package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomz197/driftroids/internal/sim"
)

// Environment variables read by the binaries.
const (
	EnvLogLevel  = "DRIFT_LOG_LEVEL"
	EnvAsteroids = "DRIFT_ASTEROIDS"
	EnvSeedMin   = "DRIFT_SEED_MIN"
	EnvSeedMax   = "DRIFT_SEED_MAX"
	EnvRefill    = "DRIFT_REFILL"
	EnvSeed      = "DRIFT_SEED"
	EnvHost      = "DRIFT_HOST"
	EnvPort      = "DRIFT_PORT"
	EnvWebPort   = "DRIFT_WEB_PORT"
	EnvHostKey   = "DRIFT_HOST_KEY"
	EnvIdle      = "DRIFT_IDLE_TIMEOUT"
	EnvSessions  = "DRIFT_MAX_SESSIONS"
	EnvSSHHost   = "DRIFT_SSH_DISPLAY_HOST"
)

// Frame pacing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS

	// MaxFrameTime caps a single measured frame so a stalled terminal does not
	// fling everything across the arena in one step.
	MaxFrameTime = 250 * time.Millisecond
)

// Rendering
const (
	// KeyHoldDuration is how long a key counts as held after its last byte.
	// Terminals report presses only, with auto-repeat every ~30ms.
	KeyHoldDuration = 60 * time.Millisecond

	// ViewMargin is the blank border, in arena units, kept around the arena when scaling.
	ViewMargin = 4
)

// SSH server defaults
const (
	DefaultHost        = "::"
	DefaultPort        = "2222"
	DefaultWebPort     = "8080"
	DefaultHostKeyPath = ".ssh/id_ed25519"
	DefaultIdleTimeout = 5 * time.Minute
	DefaultMaxSessions = 32
	ShutdownGrace      = 10 * time.Second
)

// Seed returns the rng seed from DRIFT_SEED, or a time based one when it is
// unset or zero.
func Seed() (int64, error) {
	seed, err := GetEnvInt(EnvSeed, 0)
	if err != nil {
		return 0, err
	}
	if seed == 0 {
		return time.Now().UnixNano(), nil
	}
	return int64(seed), nil
}

// LoadTuning overlays DRIFT_* variables on sim.DefaultTuning. Interactive
// frontends refill an empty field by default. Every malformed variable is
// reported; the returned tuning is always validated.
func LoadTuning() (sim.Tuning, error) {
	t := sim.DefaultTuning()
	t.RefillWhenCleared = true

	var errs []error
	var err error
	if t.InitialAsteroids, err = GetEnvInt(EnvAsteroids, t.InitialAsteroids); err != nil {
		errs = append(errs, err)
	}
	if t.SeedSizeMin, err = GetEnvFloat(EnvSeedMin, t.SeedSizeMin); err != nil {
		errs = append(errs, err)
	}
	if t.SeedSizeMax, err = GetEnvFloat(EnvSeedMax, t.SeedSizeMax); err != nil {
		errs = append(errs, err)
	}
	if t.RefillWhenCleared, err = GetEnvBool(EnvRefill, t.RefillWhenCleared); err != nil {
		errs = append(errs, err)
	}
	if t.InitialAsteroids == 0 {
		t.RefillWhenCleared = false
	}
	if err := errors.Join(errs...); err != nil {
		return t, fmt.Errorf("load tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("load tuning: %w", err)
	}
	return t, nil
}
