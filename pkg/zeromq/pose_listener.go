package zeromq

import (
	"context"
	"fmt"
	"syscall"
	"time"

	zmq "github.com/pebbe/zmq4"

	customlog "github.com/open-teleop/headtrack/pkg/log"
)

// PoseHandler receives decoded bus frames
type PoseHandler func(msg PoseFrameMessage)

// PoseListener subscribes to pose.head and decodes PoseFrames
type PoseListener struct {
	socket   *zmq.Socket
	logger   customlog.Logger
	received uint64
	invalid  uint64
}

// NewPoseListener connects a SUB socket to address
func NewPoseListener(address string, logger customlog.Logger) (*PoseListener, error) {
	socket, err := zmq.NewSocket(zmq.SUB)
	if err != nil {
		return nil, err
	}

	if err := socket.SetSubscribe(TopicPose); err != nil {
		socket.Close()
		return nil, err
	}
	if err := socket.SetRcvtimeo(pollInterval); err != nil {
		socket.Close()
		return nil, err
	}
	if err := socket.Connect(address); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	logger.Infof("Pose listener connected to %s", address)
	return &PoseListener{socket: socket, logger: logger}, nil
}

// Run receives until ctx is done. The socket is closed on return.
func (l *PoseListener) Run(ctx context.Context, handler PoseHandler) error {
	defer l.socket.Close()

	for {
		if err := ctx.Err(); err != nil {
			l.logger.Infof("Pose listener stopped: received=%d invalid=%d", l.received, l.invalid)
			return err
		}

		parts, err := l.socket.RecvMessageBytes(0)
		if err != nil {
			// Receive timeouts surface as EAGAIN.
			if zmq.AsErrno(err) == zmq.Errno(syscall.EAGAIN) {
				continue
			}
			l.logger.Warnf("Error receiving pose frame: %v", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if len(parts) != 2 {
			l.invalid++
			l.logger.Debugf("Ignoring message with %d parts", len(parts))
			continue
		}

		msg, err := DecodePoseFrame(parts[1])
		if err != nil {
			l.invalid++
			l.logger.Debugf("Ignoring invalid pose frame: %v", err)
			continue
		}
		l.received++
		handler(msg)
	}
}
