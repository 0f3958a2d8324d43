package zeromq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	customlog "github.com/open-teleop/headtrack/pkg/log"
)

// Common errors
var (
	ErrServiceClosed      = errors.New("zeromq service is closed")
	ErrInvalidMessage     = errors.New("invalid message format")
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Message types
const (
	MsgTypeTuningRequest  = "TUNING_REQUEST"
	MsgTypeTuningResponse = "TUNING_RESPONSE"
	MsgTypeTuningUpdated  = "TUNING_UPDATED"
	MsgTypeError          = "ERROR"
)

// Topics published on the PUB socket
const (
	TopicPose               = "pose.head"
	TopicTuningNotification = "tuning.notification"
)

// ZeroMQMessage represents a generic message structure for ZeroMQ communication
type ZeroMQMessage struct {
	Type      string      `json:"type"`
	Timestamp float64     `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error response message
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// MessageHandler defines the interface for handlers that process specific message types
type MessageHandler interface {
	HandleMessage(data []byte) ([]byte, error)
}

// HandlerFunc is a function type that implements MessageHandler
type HandlerFunc func(data []byte) ([]byte, error)

// HandleMessage calls the function
func (f HandlerFunc) HandleMessage(data []byte) ([]byte, error) {
	return f(data)
}

// newEnvelope serializes a message of the given type stamped with now.
func newEnvelope(messageType string, data interface{}, now time.Time) ([]byte, error) {
	msg := ZeroMQMessage{
		Type:      messageType,
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		Data:      data,
	}
	out, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return out, nil
}

// errorEnvelope builds the ERROR reply sent when dispatch fails. Unknown
// types and malformed requests are client errors; everything else is a
// server error.
func errorEnvelope(err error, now time.Time) []byte {
	code := 500
	if errors.Is(err, ErrUnknownMessageType) || errors.Is(err, ErrInvalidMessage) {
		code = 400
	}
	data, marshalErr := newEnvelope(MsgTypeError, ErrorResponse{Message: err.Error(), Code: code}, now)
	if marshalErr != nil {
		return []byte(`{"type":"ERROR","timestamp":0,"data":{"message":"internal error","code":500}}`)
	}
	return data
}

// MessageDispatcher routes messages to the appropriate handlers
type MessageDispatcher struct {
	handlers map[string]MessageHandler
	logger   customlog.Logger
	mu       sync.RWMutex
}

// NewMessageDispatcher creates a new message dispatcher
func NewMessageDispatcher(logger customlog.Logger) *MessageDispatcher {
	return &MessageDispatcher{
		handlers: make(map[string]MessageHandler),
		logger:   logger,
	}
}

// RegisterHandler adds a handler for a specific message type
func (d *MessageDispatcher) RegisterHandler(messageType string, handler MessageHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[messageType] = handler
	d.logger.Debugf("Registered handler for message type: %s", messageType)
}

// Dispatch parses the JSON envelope and routes it by type
func (d *MessageDispatcher) Dispatch(data []byte) ([]byte, error) {
	var msg ZeroMQMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}

	d.mu.RLock()
	handler, exists := d.handlers[msg.Type]
	d.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessageType, msg.Type)
	}

	d.logger.Debugf("Dispatching message of type: %s", msg.Type)
	return handler.HandleMessage(data)
}

// Reply dispatches a request and always returns bytes to send back on the
// REP socket: the handler response or an ERROR envelope.
func (d *MessageDispatcher) Reply(data []byte) []byte {
	response, err := d.Dispatch(data)
	if err != nil {
		d.logger.Warnf("Error dispatching message: %v", err)
		return errorEnvelope(err, time.Now())
	}
	return response
}
