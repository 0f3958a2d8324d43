package pose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
)

const eps = 1e-12

// axisRotation builds a unit quaternion rotating theta radians about one axis.
func axisRotation(axis byte, theta float64) quat.Number {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	switch axis {
	case 'x':
		return quat.Number{Real: c, Imag: s}
	case 'y':
		return quat.Number{Real: c, Jmag: s}
	default:
		return quat.Number{Real: c, Kmag: s}
	}
}

func TestToEuler_Identity(t *testing.T) {
	e := ToEuler(quat.Number{Real: 1})
	assert.Equal(t, EulerAngles{}, e)
}

func TestToEuler_SingleAxis(t *testing.T) {
	e := ToEuler(axisRotation('x', 0.3))
	assert.InDelta(t, 0.3, e.Pitch, eps)
	assert.InDelta(t, 0.0, e.Yaw, eps)
	assert.InDelta(t, 0.0, e.Roll, eps)

	e = ToEuler(axisRotation('y', 1.2))
	assert.InDelta(t, 1.2, e.Yaw, eps)
	assert.InDelta(t, 0.0, e.Pitch, eps)

	// Roll is not folded.
	e = ToEuler(axisRotation('z', -0.4))
	assert.InDelta(t, -0.4, e.Roll, eps)
	assert.InDelta(t, 0.0, e.Yaw, eps)
}

func TestToEuler_NegativeYawFolded(t *testing.T) {
	e := ToEuler(axisRotation('y', -0.1))

	assert.InDelta(t, 2*math.Pi-0.1, e.Yaw, eps)
	assert.InDelta(t, 6.183, e.Yaw, 1e-3)
	assert.GreaterOrEqual(t, e.Yaw, 0.0)
}

func TestToEuler_YawContinuousAcrossPi(t *testing.T) {
	prev := -1.0
	for theta := math.Pi - 0.2; theta <= math.Pi+0.2; theta += 0.01 {
		e := ToEuler(axisRotation('y', theta))
		require.InDelta(t, theta, e.Yaw, 1e-9, "theta=%v", theta)
		require.Greater(t, e.Yaw, prev)
		prev = e.Yaw
	}
}

func TestToEuler_ClampsNonUnitQuaternion(t *testing.T) {
	// asin argument is 2*(1*1 - 0*0) = 2 without clamping.
	e := ToEuler(quat.Number{Real: 1, Imag: 1})
	require.False(t, math.IsNaN(e.Pitch))
	assert.InDelta(t, math.Pi/2, e.Pitch, eps)
	assert.False(t, math.IsNaN(e.Yaw))
	assert.False(t, math.IsNaN(e.Roll))

	e = ToEuler(quat.Number{Real: 1, Imag: -1})
	assert.InDelta(t, -math.Pi/2, e.Pitch, eps)
}

func TestToEuler_YawRange(t *testing.T) {
	for theta := -3.0; theta <= 3.0; theta += 0.25 {
		e := ToEuler(axisRotation('y', theta))
		assert.GreaterOrEqual(t, e.Yaw, 0.0)
		assert.Less(t, e.Yaw, 2*math.Pi)
	}
}

func TestEulerAngles_Scale(t *testing.T) {
	e := EulerAngles{Pitch: 1, Yaw: -2, Roll: 0.5}.Scale(EulerAngles{Pitch: 25, Yaw: 10, Roll: 2})
	assert.Equal(t, EulerAngles{Pitch: 25, Yaw: -20, Roll: 1}, e)
}
