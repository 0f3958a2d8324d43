package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/contrib/websocket"
	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"

	"github.com/open-teleop/headtrack/pkg/config"
	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pose"
	"github.com/open-teleop/headtrack/services"
)

func quietLogger() customlog.Logger {
	return customlog.NewLogrusLoggerWithWriter("error", io.Discard)
}

type fakeTuningService struct {
	yaml      []byte
	yamlErr   error
	updateErr error
	updated   [][]byte
	current   config.Tuning
}

func (f *fakeTuningService) Load() error                           { return nil }
func (f *fakeTuningService) Current() config.Tuning                { return f.current }
func (f *fakeTuningService) CurrentYAML() ([]byte, error)          { return f.yaml, f.yamlErr }
func (f *fakeTuningService) SetPublisher(services.TuningPublisher) {}
func (f *fakeTuningService) AddApplier(services.ParamsApplier)     {}
func (f *fakeTuningService) Update(data []byte) error {
	f.updated = append(f.updated, append([]byte(nil), data...))
	if f.updateErr == nil {
		f.current.Version = "updated"
	}
	return f.updateErr
}

type fakeSink struct {
	samples []pose.Sample
	full    bool
}

func (f *fakeSink) Enqueue(s pose.Sample) bool {
	if f.full {
		return false
	}
	f.samples = append(f.samples, s)
	return true
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	app := NewApp("test")
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "healthy", decodeBody(t, resp.Body)["status"])
}

func TestGetTuning(t *testing.T) {
	svc := &fakeTuningService{yaml: []byte("version: \"1\"\n")}
	app := NewApp("test")
	RegisterTuningRoutes(app, svc, quietLogger())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/config/tuning", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/x-yaml", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "version: \"1\"\n", string(body))

	svc.yamlErr = errors.New("disk gone")
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/config/tuning", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, decodeBody(t, resp.Body)["error"], "disk gone")
}

func TestPutTuning(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		updateErr  error
		wantStatus int
		wantKey    string
	}{
		{"ok", "version: \"2\"", nil, 200, "message"},
		{"empty body", "", nil, 400, "error"},
		{"invalid", "version: [", fmt.Errorf("%w: invalid YAML format", config.ErrInvalidTuning), 400, "error"},
		{"persist failure", "version: \"2\"", errors.New("read-only file system"), 500, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeTuningService{updateErr: tt.updateErr}
			app := NewApp("test")
			RegisterTuningRoutes(app, svc, quietLogger())

			req := httptest.NewRequest("PUT", "/api/v1/config/tuning", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/x-yaml")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeBody(t, resp.Body)
			assert.Contains(t, body, tt.wantKey)
			if tt.body != "" {
				require.Len(t, svc.updated, 1)
				assert.Equal(t, tt.body, string(svc.updated[0]))
			} else {
				assert.Empty(t, svc.updated)
			}
			if tt.wantStatus == 200 {
				assert.Equal(t, "updated", body["version"])
			}
		})
	}
}

func TestPoseRoute_RequiresUpgrade(t *testing.T) {
	app := NewApp("test")
	RegisterPoseRoutes(app, &fakeSink{}, quietLogger())

	resp, err := app.Test(httptest.NewRequest("GET", "/ws/pose", nil))
	require.NoError(t, err)
	assert.Equal(t, 426, resp.StatusCode)
}

func TestHandlePoseMessage(t *testing.T) {
	sink := &fakeSink{}
	logger := quietLogger()

	ok := handlePoseMessage(websocket.TextMessage,
		[]byte(`{"position":{"x":0.1,"y":1.6,"z":-0.3},"orientation":{"w":1,"x":0,"y":0.5,"z":0}}`), sink, logger)
	require.True(t, ok)
	require.Len(t, sink.samples, 1)
	assert.Equal(t, pose.Sample{
		Position:    r3.Vector{X: 0.1, Y: 1.6, Z: -0.3},
		Orientation: quat.Number{Real: 1, Jmag: 0.5},
	}, sink.samples[0])

	rejected := []struct {
		name string
		mt   int
		msg  string
	}{
		{"binary", websocket.BinaryMessage, `{}`},
		{"not json", websocket.TextMessage, `position=1`},
		{"missing orientation", websocket.TextMessage, `{"position":{"x":1,"y":2,"z":3}}`},
		{"missing position", websocket.TextMessage, `{"orientation":{"w":1}}`},
	}
	for _, tt := range rejected {
		assert.False(t, handlePoseMessage(tt.mt, []byte(tt.msg), sink, logger), tt.name)
	}
	assert.Len(t, sink.samples, 1)

	sink.full = true
	assert.False(t, handlePoseMessage(websocket.TextMessage,
		[]byte(`{"position":{"x":0,"y":0,"z":0},"orientation":{"w":1,"x":0,"y":0,"z":0}}`), sink, logger))
}
