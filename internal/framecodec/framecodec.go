// Package framecodec streams simulation snapshots as MessagePack records so
// an external renderer can draw a headless run.
package framecodec

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/driftroids/internal/physics"
	"github.com/tomz197/driftroids/internal/sim"
)

// Frame is one record of the stream.
type Frame struct {
	Seq       uint64
	Time      float64 // simulated nominal frames since start
	PlayerHit bool
	Snapshot  sim.Snapshot
}

type wirePose struct {
	_msgpack struct{} `msgpack:",as_array"`
	X        float64
	Y        float64
	R        float64
}

type wireAsteroid struct {
	_msgpack struct{} `msgpack:",as_array"`
	X        float64
	Y        float64
	R        float64
	Size     float64
}

type wireFrame struct {
	Seq       uint64         `msgpack:"n"`
	Time      float64        `msgpack:"t"`
	PlayerHit bool           `msgpack:"h,omitempty"`
	Player    wirePose       `msgpack:"p"`
	Asteroids []wireAsteroid `msgpack:"a"`
	Bullets   []wirePose     `msgpack:"b"`
}

func poseToWire(t sim.Transform) wirePose {
	return wirePose{X: t.Position.X, Y: t.Position.Y, R: t.Rotation}
}

func poseFromWire(w wirePose) sim.Transform {
	return sim.Transform{Position: physics.Vec2{X: w.X, Y: w.Y}, Rotation: w.R}
}

// Encoder writes frames to a stream.
type Encoder struct {
	enc *msgpack.Encoder
	buf wireFrame
}

// NewEncoder creates an encoder writing to w. Floats that fit are written as float32.
func NewEncoder(w io.Writer) *Encoder {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactFloats(true)
	return &Encoder{enc: enc}
}

// Encode writes one frame.
func (e *Encoder) Encode(f Frame) error {
	w := &e.buf
	w.Seq, w.Time, w.PlayerHit = f.Seq, f.Time, f.PlayerHit
	w.Player = poseToWire(f.Snapshot.Player)
	w.Asteroids = w.Asteroids[:0]
	for _, a := range f.Snapshot.Asteroids {
		w.Asteroids = append(w.Asteroids, wireAsteroid{X: a.Position.X, Y: a.Position.Y, R: a.Rotation, Size: a.Size})
	}
	w.Bullets = w.Bullets[:0]
	for _, b := range f.Snapshot.Bullets {
		w.Bullets = append(w.Bullets, poseToWire(b))
	}
	if err := e.enc.Encode(w); err != nil {
		return fmt.Errorf("encode frame %d: %w", f.Seq, err)
	}
	return nil
}

// Decoder reads frames from a stream.
type Decoder struct {
	dec *msgpack.Decoder
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: msgpack.NewDecoder(r)}
}

// Decode reads the next frame. It returns io.EOF at a clean end of stream.
func (d *Decoder) Decode() (Frame, error) {
	var w wireFrame
	if err := d.dec.Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}

	f := Frame{
		Seq:       w.Seq,
		Time:      w.Time,
		PlayerHit: w.PlayerHit,
		Snapshot: sim.Snapshot{
			Player:    poseFromWire(w.Player),
			Asteroids: make([]sim.AsteroidView, len(w.Asteroids)),
			Bullets:   make([]sim.Transform, len(w.Bullets)),
		},
	}
	for i, a := range w.Asteroids {
		f.Snapshot.Asteroids[i] = sim.AsteroidView{
			Transform: sim.Transform{Position: physics.Vec2{X: a.X, Y: a.Y}, Rotation: a.R},
			Size:      a.Size,
		}
	}
	for i, b := range w.Bullets {
		f.Snapshot.Bullets[i] = poseFromWire(b)
	}
	return f, nil
}
