// Package pipeline runs one head sample at a time through the extent
// tracker, the pose encoder and the datagram sender.
package pipeline

import (
	"errors"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"

	"github.com/open-teleop/headtrack/pkg/extent"
	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pose"
	"github.com/open-teleop/headtrack/pkg/transport"
)

// ErrNonFiniteSample is returned for samples containing NaN or Inf. Such
// samples never reach the tracker.
var ErrNonFiniteSample = errors.New("sample contains non-finite values")

// Record describes one processed frame.
type Record struct {
	SessionID string        `json:"session_id"`
	Sequence  uint64        `json:"sequence"`
	Timestamp time.Time     `json:"timestamp"`
	Center    r3.Vector     `json:"center"`
	Extent    extent.Extent `json:"extent"`
	Frame     pose.Frame    `json:"frame"`
	Packet    pose.Packet   `json:"-"`
}

// FramePublisher fans processed frames out to secondary consumers.
type FramePublisher interface {
	PublishFrame(rec Record) error
}

// Metrics tracks pipeline throughput.
type Metrics struct {
	Processed         uint64 `json:"processed"`
	Skipped           uint64 `json:"skipped"`
	PublishErrors     uint64 `json:"publish_errors"`
	LastProcessedTime int64  `json:"last_processed_time"`
	ProcessingTimeAvg int64  `json:"processing_time_avg_us"`
	ProcessingTimeMax int64  `json:"processing_time_max_us"`
}

// Snapshot is the latest processed frame plus metrics. Latest is nil until
// the first frame has been processed.
type Snapshot struct {
	SessionID string        `json:"session_id"`
	Latest    *Record       `json:"latest,omitempty"`
	Extent    extent.Extent `json:"extent"`
	Center    r3.Vector     `json:"center"`
	Params    pose.Params   `json:"params"`
	Metrics   Metrics       `json:"metrics"`
}

// Pipeline owns the tracker for one tracked joint. Process calls are
// serialized, so the extent has a single writer at a time.
type Pipeline struct {
	sessionID string
	tracker   *extent.Tracker
	encoder   *pose.Encoder
	sender    transport.Sender
	logger    customlog.Logger
	now       func() time.Time

	mu        sync.Mutex
	publisher FramePublisher
	sequence  uint64
	latest    *Record
	metrics   Metrics
}

// New creates a pipeline with a fresh session id.
func New(tracker *extent.Tracker, encoder *pose.Encoder, sender transport.Sender, logger customlog.Logger) *Pipeline {
	sessionID := uuid.NewString()
	return &Pipeline{
		sessionID: sessionID,
		tracker:   tracker,
		encoder:   encoder,
		sender:    sender,
		logger:    logger.WithField("session", sessionID),
		now:       time.Now,
	}
}

// SetPublisher attaches an optional secondary consumer.
func (p *Pipeline) SetPublisher(pub FramePublisher) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.publisher = pub
}

// SessionID identifies this pipeline's stream.
func (p *Pipeline) SessionID() string {
	return p.sessionID
}

// ApplyParams swaps the encoder tuning for subsequent frames.
func (p *Pipeline) ApplyParams(params pose.Params) {
	p.encoder.SetParams(params)
	p.logger.Infof("Applied tuning: position_scale=%v angular_scale=%+v position_offset=%v",
		params.PositionScale, params.AngularScale, params.PositionOffset)
}

// Process observes the sample, encodes it against the updated center and
// sends the packet. Send failures are handled by the sender and do not fail
// the frame.
func (p *Pipeline) Process(s pose.Sample) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !s.IsFinite() {
		p.metrics.Skipped++
		p.logger.Debugf("Skipping non-finite sample: %+v", s)
		return ErrNonFiniteSample
	}

	startTime := p.now()

	center := p.tracker.ObserveAndCenter(s.Position)
	frame := p.encoder.Normalize(s, center)
	packet := frame.Packet()
	p.sender.Send(packet[:])

	p.sequence++
	rec := &Record{
		SessionID: p.sessionID,
		Sequence:  p.sequence,
		Timestamp: startTime,
		Center:    center,
		Extent:    p.tracker.Extent(),
		Frame:     frame,
		Packet:    packet,
	}
	p.latest = rec

	if p.publisher != nil {
		if err := p.publisher.PublishFrame(*rec); err != nil {
			p.metrics.PublishErrors++
			p.logger.Debugf("Failed to publish frame %d: %v", rec.Sequence, err)
		}
	}

	processingTime := p.now().Sub(startTime).Microseconds()
	p.metrics.Processed++
	p.metrics.LastProcessedTime = startTime.UnixNano()
	if p.metrics.ProcessingTimeAvg == 0 {
		p.metrics.ProcessingTimeAvg = processingTime
	} else {
		p.metrics.ProcessingTimeAvg = (p.metrics.ProcessingTimeAvg + processingTime) / 2
	}
	if processingTime > p.metrics.ProcessingTimeMax {
		p.metrics.ProcessingTimeMax = processingTime
	}

	p.logger.Debugf("Frame %d: pos=(%.3f, %.3f, %.3f) yaw=%.3f pitch=%.3f roll=%.3f",
		rec.Sequence, frame.Position.X, frame.Position.Y, frame.Position.Z, frame.Yaw, frame.Pitch, frame.Roll)
	return nil
}

// Metrics returns a copy of the counters.
func (p *Pipeline) Metrics() Metrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metrics
}

// Snapshot returns the latest frame, the current extent and the metrics.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := Snapshot{
		SessionID: p.sessionID,
		Extent:    p.tracker.Extent(),
		Center:    p.tracker.Center(),
		Params:    p.encoder.Params(),
		Metrics:   p.metrics,
	}
	if p.latest != nil {
		latest := *p.latest
		snap.Latest = &latest
	}
	return snap
}
