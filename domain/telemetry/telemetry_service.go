package telemetry

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/open-teleop/headtrack/pkg/pipeline"
	"github.com/open-teleop/headtrack/pkg/processing"
	"github.com/open-teleop/headtrack/pkg/transport"
)

// PipelineSource exposes the pipeline state
type PipelineSource interface {
	Snapshot() pipeline.Snapshot
}

// QueueSource exposes the frame queue state
type QueueSource interface {
	Metrics() processing.QueueMetrics
	QueueLength() int
	QueueCapacity() int
}

// SenderSource exposes the datagram sender counters
type SenderSource interface {
	Stats() transport.SenderStats
}

// QueueTelemetry is the frame queue part of Telemetry
type QueueTelemetry struct {
	Length   int                     `json:"length"`
	Capacity int                     `json:"capacity"`
	Metrics  processing.QueueMetrics `json:"metrics"`
}

// Telemetry is the aggregated state of the head tracker
type Telemetry struct {
	Timestamp time.Time              `json:"timestamp"`
	Uptime    float64                `json:"uptime_seconds"`
	Source    string                 `json:"source"`
	Pipeline  pipeline.Snapshot      `json:"pipeline"`
	Queue     *QueueTelemetry        `json:"queue,omitempty"`
	Sender    *transport.SenderStats `json:"sender,omitempty"`
}

// TelemetryService collects telemetry from the running components
type TelemetryService struct {
	mu       sync.RWMutex
	started  time.Time
	source   string
	pipeline PipelineSource
	queue    QueueSource
	sender   SenderSource
	now      func() time.Time
}

// NewTelemetryService creates a new telemetry service instance. sourceName
// names the sample source in the output.
func NewTelemetryService(p PipelineSource, sourceName string) *TelemetryService {
	return &TelemetryService{
		started:  time.Now(),
		source:   sourceName,
		pipeline: p,
		now:      time.Now,
	}
}

// SetQueue attaches the frame queue
func (s *TelemetryService) SetQueue(q QueueSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = q
}

// SetSender attaches the datagram sender
func (s *TelemetryService) SetSender(sender SenderSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
}

// GetTelemetry returns the current telemetry
func (s *TelemetryService) GetTelemetry() Telemetry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	t := Telemetry{
		Timestamp: now,
		Uptime:    now.Sub(s.started).Seconds(),
		Source:    s.source,
		Pipeline:  s.pipeline.Snapshot(),
	}
	if s.queue != nil {
		t.Queue = &QueueTelemetry{
			Length:   s.queue.QueueLength(),
			Capacity: s.queue.QueueCapacity(),
			Metrics:  s.queue.Metrics(),
		}
	}
	if s.sender != nil {
		stats := s.sender.Stats()
		t.Sender = &stats
	}
	return t
}

// GetTelemetryHandler handles API requests for telemetry
func (s *TelemetryService) GetTelemetryHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "success",
		"telemetry": s.GetTelemetry(),
	})
}
