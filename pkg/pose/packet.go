package pose

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// PacketSize is the length of every pose datagram.
const PacketSize = 48

// ErrPacketSize is returned when a datagram is not exactly PacketSize bytes.
var ErrPacketSize = errors.New("pose packet must be 48 bytes")

// Packet is the wire form of a Frame: six little-endian float64 values in
// the order x, y, z, yaw, pitch, roll.
type Packet [PacketSize]byte

// Packet serializes f. Angles are written yaw first, unlike the
// pitch/yaw/roll order used elsewhere, to match the receiver.
func (f Frame) Packet() Packet {
	var p Packet
	for i, v := range [...]float64{f.Position.X, f.Position.Y, f.Position.Z, f.Yaw, f.Pitch, f.Roll} {
		binary.LittleEndian.PutUint64(p[i*8:], math.Float64bits(v))
	}
	return p
}

// DecodePacket parses a datagram produced by Frame.Packet.
func DecodePacket(b []byte) (Frame, error) {
	if len(b) != PacketSize {
		return Frame{}, fmt.Errorf("%w: got %d", ErrPacketSize, len(b))
	}
	var v [6]float64
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return Frame{
		Position: r3.Vector{X: v[0], Y: v[1], Z: v[2]},
		Yaw:      v[3],
		Pitch:    v[4],
		Roll:     v[5],
	}, nil
}
