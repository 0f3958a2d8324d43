package zeromq

import (
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	flatbuffers "github.com/google/flatbuffers/go"

	fb "github.com/open-teleop/headtrack/pkg/flatbuffers/headtrack/frame"
	"github.com/open-teleop/headtrack/pkg/pipeline"
	"github.com/open-teleop/headtrack/pkg/pose"
)

// PoseFrameMessage is a decoded pose.head bus message.
type PoseFrameMessage struct {
	SessionID string
	Sequence  uint64
	Timestamp time.Time
	Frame     pose.Frame
	Center    r3.Vector
}

// EncodePoseFrame serializes rec into a PoseFrame flatbuffer. The builder is
// reset first; the returned slice aliases the builder's buffer.
func EncodePoseFrame(builder *flatbuffers.Builder, rec pipeline.Record) []byte {
	builder.Reset()

	sessionID := builder.CreateString(rec.SessionID)
	fb.PoseFrameStart(builder)
	fb.PoseFrameAddSessionId(builder, sessionID)
	fb.PoseFrameAddSequence(builder, rec.Sequence)
	fb.PoseFrameAddTimestampNs(builder, rec.Timestamp.UnixNano())
	fb.PoseFrameAddX(builder, rec.Frame.Position.X)
	fb.PoseFrameAddY(builder, rec.Frame.Position.Y)
	fb.PoseFrameAddZ(builder, rec.Frame.Position.Z)
	fb.PoseFrameAddYaw(builder, rec.Frame.Yaw)
	fb.PoseFrameAddPitch(builder, rec.Frame.Pitch)
	fb.PoseFrameAddRoll(builder, rec.Frame.Roll)
	fb.PoseFrameAddCenterX(builder, rec.Center.X)
	fb.PoseFrameAddCenterY(builder, rec.Center.Y)
	fb.PoseFrameAddCenterZ(builder, rec.Center.Z)
	fb.FinishPoseFrameBuffer(builder, fb.PoseFrameEnd(builder))

	return builder.FinishedBytes()
}

// DecodePoseFrame parses a PoseFrame flatbuffer. Truncated buffers make the
// flatbuffers accessors panic, so the panic is turned into ErrInvalidMessage.
func DecodePoseFrame(data []byte) (msg PoseFrameMessage, err error) {
	if len(data) < 8 {
		return PoseFrameMessage{}, fmt.Errorf("%w: pose frame of %d bytes", ErrInvalidMessage, len(data))
	}
	defer func() {
		if r := recover(); r != nil {
			msg = PoseFrameMessage{}
			err = fmt.Errorf("%w: corrupt pose frame: %v", ErrInvalidMessage, r)
		}
	}()

	f := fb.GetRootAsPoseFrame(data, 0)
	return PoseFrameMessage{
		SessionID: string(f.SessionId()),
		Sequence:  f.Sequence(),
		Timestamp: time.Unix(0, f.TimestampNs()),
		Frame: pose.Frame{
			Position: r3.Vector{X: f.X(), Y: f.Y(), Z: f.Z()},
			Yaw:      f.Yaw(),
			Pitch:    f.Pitch(),
			Roll:     f.Roll(),
		},
		Center: r3.Vector{X: f.CenterX(), Y: f.CenterY(), Z: f.CenterZ()},
	}, nil
}
