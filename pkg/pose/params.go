package pose

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Default tuning matched to the receiver's expected input range.
const (
	DefaultPositionScale = 30.0
	DefaultAngularScale  = 25.0
	DefaultForwardOffset = 50.0
)

// Params are the tuning values applied by the Encoder.
type Params struct {
	// PositionScale multiplies the centered position per axis.
	PositionScale r3.Vector `json:"position_scale"`
	// AngularScale multiplies each Euler angle. It is a sensitivity factor,
	// not a conversion to degrees.
	AngularScale EulerAngles `json:"angular_scale"`
	// PositionOffset is subtracted after scaling.
	PositionOffset r3.Vector `json:"position_offset"`
}

// DefaultParams returns scale 30 on every axis, angular scale 25 and a
// forward offset of 50 on Z.
func DefaultParams() Params {
	return Params{
		PositionScale: r3.Vector{X: DefaultPositionScale, Y: DefaultPositionScale, Z: DefaultPositionScale},
		AngularScale: EulerAngles{
			Pitch: DefaultAngularScale,
			Yaw:   DefaultAngularScale,
			Roll:  DefaultAngularScale,
		},
		PositionOffset: r3.Vector{X: 0, Y: 0, Z: DefaultForwardOffset},
	}
}

// Validate reports the first non-finite tuning value.
func (p Params) Validate() error {
	values := []struct {
		name string
		v    float64
	}{
		{"position_scale.x", p.PositionScale.X},
		{"position_scale.y", p.PositionScale.Y},
		{"position_scale.z", p.PositionScale.Z},
		{"angular_scale.yaw", p.AngularScale.Yaw},
		{"angular_scale.pitch", p.AngularScale.Pitch},
		{"angular_scale.roll", p.AngularScale.Roll},
		{"position_offset.x", p.PositionOffset.X},
		{"position_offset.y", p.PositionOffset.Y},
		{"position_offset.z", p.PositionOffset.Z},
	}
	for _, f := range values {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("invalid %s: %v is not finite", f.name, f.v)
		}
	}
	return nil
}
