package pose

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles is an orientation in radians as the tracking receiver expects it.
type EulerAngles struct {
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Yaw   float64 `json:"yaw" yaml:"yaw"`
	Roll  float64 `json:"roll" yaml:"roll"`
}

// Scale multiplies each angle by the matching component of s.
func (e EulerAngles) Scale(s EulerAngles) EulerAngles {
	return EulerAngles{
		Pitch: e.Pitch * s.Pitch,
		Yaw:   e.Yaw * s.Yaw,
		Roll:  e.Roll * s.Roll,
	}
}

// ToEuler converts q, with Real as w, into Euler angles.
//
// Yaw is folded from [-π, π] into [0, 2π) so that turning past the reference
// heading does not jump from +π to -π. The wrap moves to the 0/2π boundary
// instead. The pitch asin argument is clamped so a slightly denormalized
// quaternion still yields a finite pitch.
func ToEuler(q quat.Number) EulerAngles {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	yaw := math.Atan2(2*(w*y+x*z), 1-2*(y*y+x*x))
	pitch := math.Asin(clamp(2*(w*x-z*y), -1, 1))
	roll := math.Atan2(2*(w*z+y*x), 1-2*(x*x+z*z))

	if yaw < 0 {
		yaw += 2 * math.Pi
	}
	return EulerAngles{Pitch: pitch, Yaw: yaw, Roll: roll}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
