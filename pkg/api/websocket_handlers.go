package api

import (
	"encoding/json"
	"errors"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pose"
)

// SampleSink accepts samples without blocking.
type SampleSink interface {
	Enqueue(s pose.Sample) bool
}

// RegisterPoseRoutes mounts the sample ingest WebSocket at /ws/pose.
func RegisterPoseRoutes(app *fiber.App, sink SampleSink, logger customlog.Logger) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/pose", websocket.New(func(conn *websocket.Conn) {
		PoseWebSocketHandler(conn, logger, sink)
	}))

	logger.Infof("Registered pose ingest WebSocket at /ws/pose")
}

// PoseWebSocketHandler reads JSON samples from a tracking client and queues them.
func PoseWebSocketHandler(conn *websocket.Conn, logger customlog.Logger, sink SampleSink) {
	logger.Infof("Pose WebSocket connected: %s", conn.RemoteAddr())
	var accepted, rejected int
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				!errors.Is(err, syscall.EPIPE) && !errors.Is(err, syscall.ECONNRESET) {
				logger.Errorf("Pose WS read error: %v", err)
			}
			break
		}

		if handlePoseMessage(mt, msg, sink, logger) {
			accepted++
		} else {
			rejected++
		}
	}
	logger.Infof("Pose WebSocket disconnected: %s (accepted=%d, rejected=%d)", conn.RemoteAddr(), accepted, rejected)
}

// handlePoseMessage decodes one message and hands it to sink. It reports
// whether the sample was queued.
func handlePoseMessage(mt int, msg []byte, sink SampleSink, logger customlog.Logger) bool {
	if mt != websocket.TextMessage {
		logger.Debugf("Ignoring non-text pose WS message type: %d", mt)
		return false
	}

	var sampleMsg SampleMsg
	if err := json.Unmarshal(msg, &sampleMsg); err != nil {
		logger.Warnf("Failed to unmarshal pose sample from WS: %v", err)
		return false
	}
	sample, ok := sampleMsg.ToSample()
	if !ok {
		logger.Warnf("Pose sample missing position or orientation: %s", string(msg))
		return false
	}

	return sink.Enqueue(sample)
}
