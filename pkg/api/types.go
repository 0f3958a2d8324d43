package api

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/open-teleop/headtrack/pkg/pose"
)

// --- Data Structures for WebSocket Messages ---

// Vector3 defines a standard 3D vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is an orientation in w, x, y, z order.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// SampleMsg is one head sample pushed by a tracking client.
type SampleMsg struct {
	Position    *Vector3    `json:"position"`
	Orientation *Quaternion `json:"orientation"`
}

// ToSample converts the message. ok is false when a field is missing.
func (m SampleMsg) ToSample() (s pose.Sample, ok bool) {
	if m.Position == nil || m.Orientation == nil {
		return pose.Sample{}, false
	}
	return pose.Sample{
		Position: r3.Vector{X: m.Position.X, Y: m.Position.Y, Z: m.Position.Z},
		Orientation: quat.Number{
			Real: m.Orientation.W,
			Imag: m.Orientation.X,
			Jmag: m.Orientation.Y,
			Kmag: m.Orientation.Z,
		},
	}, true
}
