package zeromq

import (
	"sync"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/open-teleop/headtrack/pkg/config"
	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pipeline"
)

// Publisher is the publishing half of ZeroMQService.
type Publisher interface {
	PublishMessage(topic string, message []byte) error
	PublishJSON(topic string, messageType string, data interface{}) error
}

// PosePublisher puts every processed frame on the bus as a PoseFrame
type PosePublisher struct {
	publisher Publisher
	logger    customlog.Logger

	mu      sync.Mutex
	builder *flatbuffers.Builder
}

var _ pipeline.FramePublisher = (*PosePublisher)(nil)

// NewPosePublisher creates a pose publisher
func NewPosePublisher(publisher Publisher, logger customlog.Logger) *PosePublisher {
	return &PosePublisher{
		publisher: publisher,
		logger:    logger,
		builder:   flatbuffers.NewBuilder(256),
	}
}

// PublishFrame encodes rec and publishes it on TopicPose
func (p *PosePublisher) PublishFrame(rec pipeline.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// The builder buffer is reused, so the send must finish before unlock.
	return p.publisher.PublishMessage(TopicPose, EncodePoseFrame(p.builder, rec))
}

// TuningNotification is the data of a TUNING_UPDATED message
type TuningNotification struct {
	Version     string        `json:"version"`
	LastUpdated string        `json:"last_updated,omitempty"`
	Tuning      config.Tuning `json:"tuning"`
}

// TuningPublisher publishes tuning updates to subscribers
type TuningPublisher struct {
	publisher Publisher
	logger    customlog.Logger
}

// NewTuningPublisher creates a new publisher for tuning updates
func NewTuningPublisher(publisher Publisher, logger customlog.Logger) *TuningPublisher {
	return &TuningPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishTuningUpdatedNotification announces the new tuning on TopicTuningNotification
func (p *TuningPublisher) PublishTuningUpdatedNotification(t config.Tuning) error {
	p.logger.Infof("Publishing tuning update notification (version %s)", t.Version)

	return p.publisher.PublishJSON(TopicTuningNotification, MsgTypeTuningUpdated, TuningNotification{
		Version:     t.Version,
		LastUpdated: t.LastUpdated,
		Tuning:      t,
	})
}

// RegisterTuningHandlers registers the tuning request handler and returns the
// publisher used for update notifications
func RegisterTuningHandlers(service *ZeroMQService, tuning TuningProvider, logger customlog.Logger) *TuningPublisher {
	service.RegisterHandler(MsgTypeTuningRequest, NewTuningHandler(tuning, logger))

	logger.Infof("Registered tuning handlers and publisher")
	return NewTuningPublisher(service, logger)
}
