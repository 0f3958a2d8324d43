package zeromq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/open-teleop/headtrack/pkg/config"
	customlog "github.com/open-teleop/headtrack/pkg/log"
)

// TuningProvider exposes the active tuning
type TuningProvider interface {
	Current() config.Tuning
}

// TuningHandler handles TUNING_REQUEST messages
type TuningHandler struct {
	tuning TuningProvider
	logger customlog.Logger
	now    func() time.Time
}

// NewTuningHandler creates a new handler for tuning requests
func NewTuningHandler(tuning TuningProvider, logger customlog.Logger) *TuningHandler {
	return &TuningHandler{
		tuning: tuning,
		logger: logger,
		now:    time.Now,
	}
}

// HandleMessage processes a TUNING_REQUEST message and returns a TUNING_RESPONSE
func (h *TuningHandler) HandleMessage(data []byte) ([]byte, error) {
	var msg ZeroMQMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.Type != MsgTypeTuningRequest {
		return nil, fmt.Errorf("%w: unexpected message type %s", ErrInvalidMessage, msg.Type)
	}

	responseData, err := newEnvelope(MsgTypeTuningResponse, h.tuning.Current(), h.now())
	if err != nil {
		h.logger.Errorf("Error serializing tuning response: %v", err)
		return nil, err
	}

	h.logger.Debugf("Sending tuning response (%d bytes)", len(responseData))
	return responseData, nil
}
