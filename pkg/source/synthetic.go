package source

import (
	"context"
	"math"
	"time"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/open-teleop/headtrack/pkg/pose"
)

// SyntheticConfig describes the simulated walk. Distances are in metres.
type SyntheticConfig struct {
	// Origin is the room corner the walk starts from.
	Origin r3.Vector
	// Width and Depth are the sides of the rectangle walked along X and Z.
	Width float64
	Depth float64
	// Height is the head height above the origin.
	Height float64
	// Speed along the perimeter in m/s.
	Speed float64
	// BobAmplitude and BobFrequency (Hz) describe the vertical step bob.
	BobAmplitude float64
	BobFrequency float64
	// NodAmplitude is the peak head pitch in radians.
	NodAmplitude float64
}

// DefaultSyntheticConfig walks a 3 x 2 m room at a slow pace.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Width:        3,
		Depth:        2,
		Height:       1.7,
		Speed:        0.5,
		BobAmplitude: 0.03,
		BobFrequency: 1.8,
		NodAmplitude: 0.15,
	}
}

// SyntheticSource simulates a head walking the room perimeter, bobbing with
// each step and turning to face the direction of travel. Output depends only
// on the time elapsed since creation.
type SyntheticSource struct {
	cfg   SyntheticConfig
	start time.Time
	now   func() time.Time
}

// NewSyntheticSource starts the walk at the current time.
func NewSyntheticSource(cfg SyntheticConfig) *SyntheticSource {
	return newSyntheticSource(cfg, time.Now)
}

func newSyntheticSource(cfg SyntheticConfig, now func() time.Time) *SyntheticSource {
	return &SyntheticSource{cfg: cfg, start: now(), now: now}
}

// Next returns the sample for the current time.
func (s *SyntheticSource) Next(ctx context.Context) (pose.Sample, error) {
	if err := ctx.Err(); err != nil {
		return pose.Sample{}, err
	}
	return s.At(s.now().Sub(s.start)), nil
}

// At returns the sample elapsed into the walk.
func (s *SyntheticSource) At(elapsed time.Duration) pose.Sample {
	t := elapsed.Seconds()
	c := s.cfg

	var (
		x, z    float64
		heading float64
	)
	perimeter := 2 * (c.Width + c.Depth)
	if perimeter > 0 {
		d := math.Mod(c.Speed*t, perimeter)
		switch {
		case d < c.Width:
			x, z = d, 0
			heading = 0
		case d < c.Width+c.Depth:
			x, z = c.Width, d-c.Width
			heading = math.Pi / 2
		case d < 2*c.Width+c.Depth:
			x, z = c.Width-(d-c.Width-c.Depth), c.Depth
			heading = math.Pi
		default:
			x, z = 0, c.Depth-(d-2*c.Width-c.Depth)
			heading = 3 * math.Pi / 2
		}
	}

	phase := 2 * math.Pi * c.BobFrequency * t
	y := c.Height + c.BobAmplitude*math.Sin(phase)
	nod := c.NodAmplitude * math.Sin(phase/2)

	return pose.Sample{
		Position:    c.Origin.Add(r3.Vector{X: x, Y: y, Z: z}),
		Orientation: quat.Mul(axisAngle(r3.Vector{Y: 1}, heading), axisAngle(r3.Vector{X: 1}, nod)),
	}
}

// axisAngle is the unit quaternion rotating by angle about axis.
func axisAngle(axis r3.Vector, angle float64) quat.Number {
	axis = axis.Normalize()
	sin, cos := math.Sincos(angle / 2)
	return quat.Number{Real: cos, Imag: axis.X * sin, Jmag: axis.Y * sin, Kmag: axis.Z * sin}
}
