package processing

import (
	"errors"

	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pipeline"
)

// LoggingResultHandler logs failed samples
type LoggingResultHandler struct {
	logger customlog.Logger
}

// NewLoggingResultHandler creates a new logging result handler
func NewLoggingResultHandler(logger customlog.Logger) *LoggingResultHandler {
	return &LoggingResultHandler{logger: logger}
}

// HandleResult handles a processed sample result
func (h *LoggingResultHandler) HandleResult(result *ProcessResult) {
	if result.Error == nil {
		return
	}

	// Non-finite samples are expected from some trackers while they lose
	// the face and are already counted by the pipeline.
	if errors.Is(result.Error, pipeline.ErrNonFiniteSample) {
		h.logger.Debugf("Dropped sample at %d: %v", result.Timestamp, result.Error)
		return
	}
	h.logger.Errorf("Error processing sample at %d: %v", result.Timestamp, result.Error)
}

// CreateHandlerFunc creates a ResultHandler function for the FrameQueue
func (h *LoggingResultHandler) CreateHandlerFunc() ResultHandler {
	return func(processResult *ProcessResult) {
		if processResult == nil {
			h.logger.Errorf("Received nil ProcessResult")
			return
		}
		h.HandleResult(processResult)
	}
}
