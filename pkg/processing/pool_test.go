package processing

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pipeline"
	"github.com/open-teleop/headtrack/pkg/pose"
)

func sampleAt(x float64) pose.Sample {
	return pose.Sample{Position: r3.Vector{X: x}}
}

func TestFrameQueue_ProcessesInOrder(t *testing.T) {
	var (
		mu  sync.Mutex
		got []float64
	)
	q := NewFrameQueue("test", 16, func(s pose.Sample) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, s.Position.X)
		return nil
	}, customlog.NewLogrusLoggerWithWriter("error", io.Discard))
	q.Start()

	for i := 0; i < 10; i++ {
		if !q.Enqueue(sampleAt(float64(i))) {
			t.Fatalf("Enqueue(%d) rejected", i)
		}
	}
	q.Stop()

	want := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("processing order mismatch (-want +got):\n%s", diff)
	}

	m := q.Metrics()
	wantMetrics := QueueMetrics{QueuedCount: 10, ProcessedCount: 10}
	if diff := cmp.Diff(wantMetrics, m, cmpopts.IgnoreFields(QueueMetrics{},
		"LastProcessedTime", "ProcessingTimeAvg", "ProcessingTimeMax")); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
	if m.LastProcessedTime == 0 {
		t.Error("expected LastProcessedTime to be set")
	}
}

func TestFrameQueue_DropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	q := NewFrameQueue("blocked", 2, func(s pose.Sample) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}, customlog.NewLogrusLoggerWithWriter("error", io.Discard))
	q.Start()

	// The first sample occupies the worker.
	if !q.Enqueue(sampleAt(0)) {
		t.Fatal("first sample rejected")
	}
	<-started

	accepted := 0
	for i := 1; i <= 5; i++ {
		if q.Enqueue(sampleAt(float64(i))) {
			accepted++
		}
	}
	if accepted != 2 {
		t.Errorf("expected 2 samples to fit in the queue, got %d", accepted)
	}
	if q.QueueLength() != 2 || q.QueueCapacity() != 2 {
		t.Errorf("unexpected queue length/capacity %d/%d", q.QueueLength(), q.QueueCapacity())
	}

	close(release)
	q.Stop()

	m := q.Metrics()
	if m.DroppedCount != 3 {
		t.Errorf("expected 3 dropped, got %d", m.DroppedCount)
	}
	if m.ProcessedCount != 3 {
		t.Errorf("expected 3 processed, got %d", m.ProcessedCount)
	}
}

func TestFrameQueue_RejectsWhenStopped(t *testing.T) {
	q := NewFrameQueue("idle", 4, func(pose.Sample) error { return nil },
		customlog.NewLogrusLoggerWithWriter("error", io.Discard))

	if q.Enqueue(sampleAt(1)) {
		t.Error("expected Enqueue to fail before Start")
	}
	q.Start()
	q.Start()
	q.Stop()
	q.Stop()
	if q.Enqueue(sampleAt(1)) {
		t.Error("expected Enqueue to fail after Stop")
	}
	if q.Name() != "idle" {
		t.Errorf("unexpected name %q", q.Name())
	}
}

func TestFrameQueue_StartAfterStopIsNoop(t *testing.T) {
	var buf bytes.Buffer
	q := NewFrameQueue("restart", 4, func(pose.Sample) error { return nil },
		customlog.NewLogrusLoggerWithWriter("error", &buf))

	q.Start()
	q.Stop()
	q.Start()

	if q.Enqueue(sampleAt(1)) {
		t.Error("expected Enqueue to fail on a stopped queue after Start")
	}
	if !strings.Contains(buf.String(), "cannot be restarted") {
		t.Errorf("expected restart error to be logged, got %q", buf.String())
	}
	q.Stop()
}

func TestFrameQueue_ResultHandlerSeesErrors(t *testing.T) {
	boom := errors.New("boom")
	var results []*ProcessResult
	q := NewFrameQueue("errors", 4, func(s pose.Sample) error {
		if s.Position.X > 0 {
			return boom
		}
		return nil
	}, customlog.NewLogrusLoggerWithWriter("error", io.Discard))
	q.SetResultHandler(func(r *ProcessResult) { results = append(results, r) })
	q.Start()
	q.Enqueue(sampleAt(0))
	q.Enqueue(sampleAt(1))
	q.Stop()

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Errorf("unexpected error %v", results[0].Error)
	}
	if !errors.Is(results[1].Error, boom) {
		t.Errorf("expected boom, got %v", results[1].Error)
	}
	if q.Metrics().ErrorCount != 1 {
		t.Errorf("expected 1 error, got %d", q.Metrics().ErrorCount)
	}
}

func TestLoggingResultHandler(t *testing.T) {
	var logs bytes.Buffer
	h := NewLoggingResultHandler(customlog.NewLogrusLoggerWithWriter("info", &logs)).CreateHandlerFunc()

	h(&ProcessResult{})
	h(&ProcessResult{Error: fmt.Errorf("frame 3: %w", pipeline.ErrNonFiniteSample)})
	h(&ProcessResult{Timestamp: 42, Error: errors.New("sender closed")})

	out := strings.TrimSpace(logs.String())
	lines := strings.Split(out, "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one logged line, got %q", out)
	}
	if !strings.Contains(lines[0], "Error processing sample at 42: sender closed") {
		t.Errorf("unexpected log line %q", lines[0])
	}
}

func TestFrameQueue_StopDrainsQueue(t *testing.T) {
	var count int
	q := NewFrameQueue("drain", 64, func(pose.Sample) error {
		time.Sleep(100 * time.Microsecond)
		count++
		return nil
	}, customlog.NewLogrusLoggerWithWriter("error", io.Discard))
	q.Start()
	for i := 0; i < 20; i++ {
		q.Enqueue(sampleAt(float64(i)))
	}
	q.Stop()
	if count != 20 {
		t.Errorf("expected all 20 queued samples to be processed, got %d", count)
	}
}
