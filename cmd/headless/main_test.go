package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tomz197/driftroids/internal/framecodec"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DRIFT_ASTEROIDS", "DRIFT_SEED_MIN", "DRIFT_SEED_MAX", "DRIFT_REFILL", "DRIFT_SEED"} {
		t.Setenv(k, "")
	}
}

func decodeAll(t *testing.T, r io.Reader) []framecodec.Frame {
	t.Helper()
	dec := framecodec.NewDecoder(r)
	var frames []framecodec.Frame
	for {
		f, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return frames
		}
		if err != nil {
			t.Fatalf("Decode after %d frames: %v", len(frames), err)
		}
		frames = append(frames, f)
	}
}

func TestRunStreamsEveryFrame(t *testing.T) {
	clearEnv(t)
	var out bytes.Buffer
	if err := run([]string{"-frames", "30", "-seed", "3"}, &out, log.New(io.Discard)); err != nil {
		t.Fatalf("run: %v", err)
	}
	frames := decodeAll(t, &out)
	if len(frames) != 30 {
		t.Fatalf("decoded %d frames, want 30", len(frames))
	}
	for i, f := range frames {
		if f.Seq != uint64(i+1) {
			t.Fatalf("frame %d has seq %d", i, f.Seq)
		}
	}
}

func TestRunWritesAndClosesOutputFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "run.msgpack")
	var stdout bytes.Buffer
	err := run([]string{"-frames", "10", "-seed", "4", "-idle", "-out", path}, &stdout, log.New(io.Discard))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("wrote %d bytes to stdout with -out set", stdout.Len())
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	if n := len(decodeAll(t, f)); n != 10 {
		t.Fatalf("file holds %d frames, want 10", n)
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRunReturnsWriteErrors(t *testing.T) {
	clearEnv(t)
	err := run([]string{"-frames", "600", "-seed", "5"}, brokenWriter{}, log.New(io.Discard))
	if err == nil {
		t.Fatalf("run succeeded on a failing writer")
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRIFT_SEED_MAX", "inf")
	if err := run([]string{"-frames", "1"}, io.Discard, log.New(io.Discard)); err == nil {
		t.Fatalf("infinite seed size accepted")
	}
}
