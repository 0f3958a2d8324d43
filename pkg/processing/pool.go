package processing

import (
	"sync"
	"time"

	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pose"
)

// ProcessResult is the outcome of processing one sample
type ProcessResult struct {
	Sample    pose.Sample
	Timestamp int64
	Error     error
}

// ResultHandler is a function that handles processed results
type ResultHandler func(result *ProcessResult)

// SampleProcessor processes one sample in the worker
type SampleProcessor func(s pose.Sample) error

// FrameQueue decouples sample producers from the pipeline. A single worker
// drains the queue so samples are processed in arrival order.
type FrameQueue struct {
	name          string
	logger        customlog.Logger
	samples       chan pose.Sample
	running       bool
	stopped       bool
	wg            sync.WaitGroup
	mu            sync.RWMutex
	processor     SampleProcessor
	resultHandler ResultHandler
	queueSize     int
	metricsMu     sync.Mutex
	metrics       QueueMetrics
}

// QueueMetrics tracks metrics for a frame queue
type QueueMetrics struct {
	QueuedCount       int64 `json:"queued"`
	DroppedCount      int64 `json:"dropped"`
	ProcessedCount    int64 `json:"processed"`
	ErrorCount        int64 `json:"errors"`
	LastProcessedTime int64 `json:"last_processed_time"`
	ProcessingTimeAvg int64 `json:"processing_time_avg_us"` // in microseconds
	ProcessingTimeMax int64 `json:"processing_time_max_us"` // in microseconds
}

// NewFrameQueue creates a new frame queue
func NewFrameQueue(
	name string,
	queueSize int,
	processor SampleProcessor,
	logger customlog.Logger,
) *FrameQueue {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &FrameQueue{
		name:      name,
		queueSize: queueSize,
		logger:    logger,
		processor: processor,
		samples:   make(chan pose.Sample, queueSize),
	}
}

// SetResultHandler sets the result handler function
func (q *FrameQueue) SetResultHandler(handler ResultHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.resultHandler = handler
}

// Enqueue adds a sample to the queue without blocking. It returns false when
// the queue is stopped or full.
func (q *FrameQueue) Enqueue(s pose.Sample) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if !q.running {
		q.logger.Debugf("%s queue not running, discarding sample", q.name)
		return false
	}

	select {
	case q.samples <- s:
		q.metricsMu.Lock()
		q.metrics.QueuedCount++
		q.metricsMu.Unlock()
		return true
	default:
		q.metricsMu.Lock()
		q.metrics.DroppedCount++
		dropped := q.metrics.DroppedCount
		q.metricsMu.Unlock()
		// Sources run at frame rate, so only every hundredth drop is logged.
		if dropped%100 == 1 {
			q.logger.Warnf("%s queue is full, discarding sample (dropped=%d)", q.name, dropped)
		}
		return false
	}
}

// Start starts the queue worker
func (q *FrameQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}
	if q.stopped {
		q.logger.Errorf("%s queue was stopped and cannot be restarted", q.name)
		return
	}

	q.running = true
	q.logger.Infof("Starting %s queue (capacity %d)", q.name, q.queueSize)

	q.wg.Add(1)
	go q.worker()
}

// Stop stops accepting samples, drains what is queued and waits for the
// worker. A stopped queue cannot be restarted.
func (q *FrameQueue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.stopped = true
	close(q.samples)
	q.mu.Unlock()

	q.logger.Infof("Stopping %s queue", q.name)
	q.wg.Wait()
	q.logger.Infof("%s queue stopped", q.name)

	q.logMetrics()
}

func (q *FrameQueue) worker() {
	defer q.wg.Done()

	for s := range q.samples {
		q.mu.RLock()
		resultHandler := q.resultHandler
		q.mu.RUnlock()

		startTime := time.Now()
		err := q.processor(s)
		processingTime := time.Since(startTime).Microseconds()

		q.metricsMu.Lock()
		q.metrics.ProcessedCount++
		q.metrics.LastProcessedTime = time.Now().UnixNano()
		if q.metrics.ProcessingTimeAvg == 0 {
			q.metrics.ProcessingTimeAvg = processingTime
		} else {
			// Simple moving average
			q.metrics.ProcessingTimeAvg = (q.metrics.ProcessingTimeAvg + processingTime) / 2
		}
		if processingTime > q.metrics.ProcessingTimeMax {
			q.metrics.ProcessingTimeMax = processingTime
		}
		if err != nil {
			q.metrics.ErrorCount++
		}
		q.metricsMu.Unlock()

		if resultHandler != nil {
			resultHandler(&ProcessResult{
				Sample:    s,
				Timestamp: startTime.UnixNano(),
				Error:     err,
			})
		}
	}

	q.logger.Debugf("%s queue worker stopped", q.name)
}

// Metrics returns a copy of the current metrics
func (q *FrameQueue) Metrics() QueueMetrics {
	q.metricsMu.Lock()
	defer q.metricsMu.Unlock()

	return q.metrics
}

func (q *FrameQueue) logMetrics() {
	metrics := q.Metrics()

	q.logger.Infof("%s queue metrics: processed=%d, dropped=%d, errors=%d, avg_time=%dµs, max_time=%dµs",
		q.name, metrics.ProcessedCount, metrics.DroppedCount, metrics.ErrorCount,
		metrics.ProcessingTimeAvg, metrics.ProcessingTimeMax)
}

// Name returns the queue name
func (q *FrameQueue) Name() string {
	return q.name
}

// QueueLength returns the number of samples waiting
func (q *FrameQueue) QueueLength() int {
	return len(q.samples)
}

// QueueCapacity returns the capacity of the queue
func (q *FrameQueue) QueueCapacity() int {
	return q.queueSize
}
