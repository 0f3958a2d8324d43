package pose

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
)

var identity = quat.Number{Real: 1}

func TestNormalize_DefaultParams(t *testing.T) {
	enc := NewEncoder(DefaultParams())

	f := enc.Normalize(Sample{Orientation: identity}, r3.Vector{})
	assert.Equal(t, r3.Vector{X: 0, Y: 0, Z: -50}, f.Position)
	assert.Equal(t, 0.0, f.Yaw)
	assert.Equal(t, 0.0, f.Pitch)
	assert.Equal(t, 0.0, f.Roll)

	s := Sample{
		Position:    r3.Vector{X: 1, Y: 2, Z: 3},
		Orientation: axisRotation('y', 0.2),
	}
	f = enc.Normalize(s, r3.Vector{X: 0.5, Y: 1, Z: 1})
	assert.InDelta(t, 15, f.Position.X, eps)
	assert.InDelta(t, 30, f.Position.Y, eps)
	assert.InDelta(t, 10, f.Position.Z, eps)
	assert.InDelta(t, 5, f.Yaw, 1e-9)
	assert.InDelta(t, 0, f.Pitch, 1e-9)
	assert.InDelta(t, 0, f.Roll, 1e-9)
}

func TestNormalize_CustomParams(t *testing.T) {
	enc := NewEncoder(DefaultParams())
	enc.SetParams(Params{
		PositionScale:  r3.Vector{X: 1, Y: 2, Z: 3},
		AngularScale:   EulerAngles{Pitch: 1, Yaw: 1, Roll: 1},
		PositionOffset: r3.Vector{X: 1, Y: 1, Z: 1},
	})

	f := enc.Normalize(Sample{Position: r3.Vector{X: 2, Y: 2, Z: 2}, Orientation: identity}, r3.Vector{X: 1, Y: 1, Z: 1})
	assert.Equal(t, r3.Vector{X: 0, Y: 1, Z: 2}, f.Position)
	assert.Equal(t, 3.0, enc.Params().PositionScale.Z)
}

func TestEncode_MatchesNormalize(t *testing.T) {
	enc := NewEncoder(DefaultParams())
	s := Sample{
		Position:    r3.Vector{X: 0.12, Y: 1.6, Z: 2.4},
		Orientation: quat.Number{Real: 0.9, Imag: 0.1, Jmag: -0.3, Kmag: 0.2},
	}
	center := r3.Vector{X: 0.1, Y: 1.5, Z: 2}

	pkt := enc.Encode(s, center)
	require.Len(t, pkt, PacketSize)

	got, err := DecodePacket(pkt[:])
	require.NoError(t, err)
	assert.Equal(t, enc.Normalize(s, center), got)
}

func TestPacket_RoundTrip(t *testing.T) {
	f := Frame{
		Position: r3.Vector{X: 1.5, Y: -2.25, Z: 0.0},
		Yaw:      3.14,
		Pitch:    -1.0,
		Roll:     0.5,
	}
	pkt := f.Packet()

	got, err := DecodePacket(pkt[:])
	require.NoError(t, err)
	assert.Equal(t, math.Float64bits(f.Position.X), math.Float64bits(got.Position.X))
	assert.Equal(t, math.Float64bits(f.Position.Y), math.Float64bits(got.Position.Y))
	assert.Equal(t, math.Float64bits(f.Position.Z), math.Float64bits(got.Position.Z))
	assert.Equal(t, math.Float64bits(f.Yaw), math.Float64bits(got.Yaw))
	assert.Equal(t, math.Float64bits(f.Pitch), math.Float64bits(got.Pitch))
	assert.Equal(t, math.Float64bits(f.Roll), math.Float64bits(got.Roll))
}

func TestPacket_Layout(t *testing.T) {
	f := Frame{
		Position: r3.Vector{X: 1.5, Y: -2.25, Z: 0.0},
		Yaw:      3.14,
		Pitch:    -1.0,
		Roll:     0.5,
	}
	pkt := f.Packet()

	// 1.5 is 0x3FF8000000000000, little-endian.
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xF8, 0x3F}, pkt[0:8])

	fields := []struct {
		offset int
		want   float64
	}{
		{0, 1.5},
		{8, -2.25},
		{16, 0.0},
		{24, 3.14}, // yaw comes before pitch on the wire
		{32, -1.0},
		{40, 0.5},
	}
	for _, fl := range fields {
		var bits uint64
		for i := 7; i >= 0; i-- {
			bits = bits<<8 | uint64(pkt[fl.offset+i])
		}
		assert.Equal(t, fl.want, math.Float64frombits(bits), "offset %d", fl.offset)
	}
}

func TestEncode_AlwaysPacketSize(t *testing.T) {
	enc := NewEncoder(DefaultParams())
	samples := []Sample{
		{},
		{Position: r3.Vector{X: 1e300, Y: -1e300, Z: 1}, Orientation: identity},
		{Orientation: quat.Number{Real: 1, Imag: 1}},
		{Position: r3.Vector{X: -3, Y: 0.5, Z: 7}, Orientation: axisRotation('z', 2)},
	}
	for _, s := range samples {
		pkt := enc.Encode(s, r3.Vector{})
		assert.Len(t, pkt[:], 48)
	}
}

func TestDecodePacket_WrongSize(t *testing.T) {
	for _, n := range []int{0, 47, 49, 96} {
		_, err := DecodePacket(make([]byte, n))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPacketSize))
	}
}

func TestSample_IsFinite(t *testing.T) {
	assert.True(t, Sample{Orientation: identity}.IsFinite())
	assert.False(t, Sample{Position: r3.Vector{X: math.NaN()}, Orientation: identity}.IsFinite())
	assert.False(t, Sample{Position: r3.Vector{Z: math.Inf(1)}, Orientation: identity}.IsFinite())
	assert.False(t, Sample{Orientation: quat.Number{Real: math.NaN()}}.IsFinite())
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.AngularScale.Roll = math.Inf(-1)
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "angular_scale.roll")

	p = DefaultParams()
	p.PositionOffset.Z = math.NaN()
	assert.Error(t, p.Validate())
}
