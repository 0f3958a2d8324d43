package telemetry

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-teleop/headtrack/pkg/pipeline"
	"github.com/open-teleop/headtrack/pkg/processing"
	"github.com/open-teleop/headtrack/pkg/transport"
)

type fakePipeline struct{ snap pipeline.Snapshot }

func (f fakePipeline) Snapshot() pipeline.Snapshot { return f.snap }

type fakeQueue struct{ metrics processing.QueueMetrics }

func (f fakeQueue) Metrics() processing.QueueMetrics { return f.metrics }
func (f fakeQueue) QueueLength() int                 { return 3 }
func (f fakeQueue) QueueCapacity() int               { return 64 }

type fakeSender struct{ stats transport.SenderStats }

func (f fakeSender) Stats() transport.SenderStats { return f.stats }

func TestGetTelemetry(t *testing.T) {
	snap := pipeline.Snapshot{
		SessionID: "session-1",
		Center:    r3.Vector{Z: 500},
		Metrics:   pipeline.Metrics{Processed: 7},
	}
	svc := NewTelemetryService(fakePipeline{snap: snap}, "synthetic")
	start := svc.started
	svc.now = func() time.Time { return start.Add(90 * time.Second) }

	tel := svc.GetTelemetry()
	assert.Equal(t, 90.0, tel.Uptime)
	assert.Equal(t, "synthetic", tel.Source)
	assert.Equal(t, snap, tel.Pipeline)
	assert.Nil(t, tel.Queue)
	assert.Nil(t, tel.Sender)

	svc.SetQueue(fakeQueue{metrics: processing.QueueMetrics{DroppedCount: 2}})
	svc.SetSender(fakeSender{stats: transport.SenderStats{Destination: "127.0.0.1:4242", Sent: 7}})

	tel = svc.GetTelemetry()
	require.NotNil(t, tel.Queue)
	assert.Equal(t, QueueTelemetry{Length: 3, Capacity: 64, Metrics: processing.QueueMetrics{DroppedCount: 2}}, *tel.Queue)
	require.NotNil(t, tel.Sender)
	assert.Equal(t, uint64(7), tel.Sender.Sent)
}

func TestGetTelemetryHandler(t *testing.T) {
	svc := NewTelemetryService(fakePipeline{snap: pipeline.Snapshot{SessionID: "abc"}}, "websocket")
	svc.SetSender(fakeSender{stats: transport.SenderStats{Destination: "10.0.0.2:4242", Failed: 1, LastError: "refused"}})

	app := fiber.New()
	app.Get("/telemetry", svc.GetTelemetryHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/telemetry", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded struct {
		Status    string `json:"status"`
		Telemetry struct {
			Source   string `json:"source"`
			Pipeline struct {
				SessionID string `json:"session_id"`
			} `json:"pipeline"`
			Sender transport.SenderStats `json:"sender"`
		} `json:"telemetry"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "success", decoded.Status)
	assert.Equal(t, "websocket", decoded.Telemetry.Source)
	assert.Equal(t, "abc", decoded.Telemetry.Pipeline.SessionID)
	assert.Equal(t, "refused", decoded.Telemetry.Sender.LastError)
}
