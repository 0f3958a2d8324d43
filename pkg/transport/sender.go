// Package transport moves encoded pose packets over UDP.
package transport

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	customlog "github.com/open-teleop/headtrack/pkg/log"
)

// Sender delivers one encoded packet. Delivery is best effort: failures are
// accounted for by the implementation and never reported to the caller.
type Sender interface {
	Send(b []byte)
}

// SenderStats summarises delivery since the sender was created.
type SenderStats struct {
	Destination string `json:"destination"`
	Sent        uint64 `json:"sent"`
	Failed      uint64 `json:"failed"`
	LastError   string `json:"last_error,omitempty"`
}

// UDPSenderConfig configures a UDPSender.
type UDPSenderConfig struct {
	Host string
	Port int
	// ErrorLogInterval bounds how often failed sends are summarised in the log.
	ErrorLogInterval time.Duration
	// Dialer defaults to NetDialer.
	Dialer Dialer
}

// UDPSender writes each packet as one datagram to a fixed destination.
// Sends are synchronous and never retried.
type UDPSender struct {
	conn        Conn
	address     string
	logger      customlog.Logger
	logInterval time.Duration
	now         func() time.Time

	mu           sync.Mutex
	stats        SenderStats
	droppedCount int
	lastError    error
	lastLog      time.Time
}

// NewUDPSender resolves the destination and opens the socket once.
func NewUDPSender(cfg UDPSenderConfig, logger customlog.Logger) (*UDPSender, error) {
	address := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	raddr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pose destination %s: %w", address, err)
	}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = NetDialer{}
	}
	conn, err := dialer.DialUDP(raddr)
	if err != nil {
		return nil, fmt.Errorf("failed to open pose socket to %s: %w", address, err)
	}

	logInterval := cfg.ErrorLogInterval
	if logInterval <= 0 {
		logInterval = 2 * time.Second
	}

	logger.Infof("Sending pose datagrams to %s", address)
	return &UDPSender{
		conn:        conn,
		address:     address,
		logger:      logger,
		logInterval: logInterval,
		now:         time.Now,
		stats:       SenderStats{Destination: address},
	}, nil
}

// Send writes b as a single datagram.
func (s *UDPSender) Send(b []byte) {
	_, err := s.conn.Write(b)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		s.stats.Sent++
		return
	}

	s.stats.Failed++
	s.stats.LastError = err.Error()
	s.droppedCount++
	s.lastError = err

	now := s.now()
	if now.Sub(s.lastLog) >= s.logInterval {
		s.logger.Warnf("Dropped %d pose datagrams to %s (latest: %v)", s.droppedCount, s.address, s.lastError)
		s.droppedCount = 0
		s.lastError = nil
		s.lastLog = now
	}
}

// Stats returns a copy of the delivery counters.
func (s *UDPSender) Stats() SenderStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Address returns the destination as host:port.
func (s *UDPSender) Address() string {
	return s.address
}

// Close closes the socket.
func (s *UDPSender) Close() error {
	return s.conn.Close()
}
