// Package config provides shared configuration utilities.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidEnv is returned when a set variable cannot be parsed.
var ErrInvalidEnv = errors.New("invalid environment variable")

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvInt parses key as a base 10 integer. An unset or empty variable yields fallback.
func GetEnvInt(key string, fallback int) (int, error) {
	return lookup(key, fallback, strconv.Atoi)
}

// GetEnvFloat parses key as a float.
func GetEnvFloat(key string, fallback float64) (float64, error) {
	return lookup(key, fallback, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvBool accepts the forms strconv.ParseBool does.
func GetEnvBool(key string, fallback bool) (bool, error) {
	return lookup(key, fallback, strconv.ParseBool)
}

// GetEnvDuration parses key with time.ParseDuration, e.g. "250ms".
func GetEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	return lookup(key, fallback, time.ParseDuration)
}

func lookup[T any](key string, fallback T, parse func(string) (T, error)) (T, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := parse(raw)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q: %v", ErrInvalidEnv, key, raw, err)
	}
	return v, nil
}
