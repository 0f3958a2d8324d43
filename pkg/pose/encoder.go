// Package pose converts tracked head samples into the normalized position and
// orientation frames streamed to the tracking receiver.
package pose

import (
	"math"
	"sync"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Sample is one tracked head reading in sensor-space units.
type Sample struct {
	Position    r3.Vector
	Orientation quat.Number
}

// IsFinite reports whether every component of s is a finite number.
func (s Sample) IsFinite() bool {
	for _, v := range [...]float64{
		s.Position.X, s.Position.Y, s.Position.Z,
		s.Orientation.Real, s.Orientation.Imag, s.Orientation.Jmag, s.Orientation.Kmag,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Frame is a normalized pose ready for the wire.
type Frame struct {
	Position r3.Vector `json:"position"`
	Yaw      float64   `json:"yaw"`
	Pitch    float64   `json:"pitch"`
	Roll     float64   `json:"roll"`
}

// Encoder normalizes samples against a room center. Params may be swapped
// while the encoder is in use.
type Encoder struct {
	mu     sync.RWMutex
	params Params
}

// NewEncoder returns an encoder using p.
func NewEncoder(p Params) *Encoder {
	return &Encoder{params: p}
}

// Params returns the current tuning.
func (e *Encoder) Params() Params {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.params
}

// SetParams replaces the tuning used by subsequent calls.
func (e *Encoder) SetParams(p Params) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = p
}

// Normalize centers, scales and offsets the sample position and converts its
// orientation to scaled Euler angles.
func (e *Encoder) Normalize(s Sample, center r3.Vector) Frame {
	p := e.Params()

	d := s.Position.Sub(center)
	pos := r3.Vector{
		X: d.X*p.PositionScale.X - p.PositionOffset.X,
		Y: d.Y*p.PositionScale.Y - p.PositionOffset.Y,
		Z: d.Z*p.PositionScale.Z - p.PositionOffset.Z,
	}

	angles := ToEuler(s.Orientation).Scale(p.AngularScale)
	return Frame{
		Position: pos,
		Yaw:      angles.Yaw,
		Pitch:    angles.Pitch,
		Roll:     angles.Roll,
	}
}

// Encode normalizes s against center and serializes the result.
func (e *Encoder) Encode(s Sample, center r3.Vector) Packet {
	return e.Normalize(s, center).Packet()
}
