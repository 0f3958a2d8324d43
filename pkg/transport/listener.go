package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pose"
)

// FrameHandler receives each decoded frame along with its source address.
type FrameHandler func(frame pose.Frame, from *net.UDPAddr)

// ListenerConfig configures a Listener.
type ListenerConfig struct {
	Address string
	// ReadTimeout bounds each blocking read so cancellation is noticed.
	ReadTimeout time.Duration
	// Factory defaults to NetSocketFactory.
	Factory SocketFactory
}

// ListenerStats counts received datagrams.
type ListenerStats struct {
	Received  uint64 `json:"received"`
	Malformed uint64 `json:"malformed"`
}

// Listener receives pose datagrams, the consumer side of UDPSender.
type Listener struct {
	address     string
	readTimeout time.Duration
	factory     SocketFactory
	logger      customlog.Logger

	received  atomic.Uint64
	malformed atomic.Uint64
}

// NewListener creates a listener. Nothing is bound until Run.
func NewListener(cfg ListenerConfig, logger customlog.Logger) *Listener {
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 100 * time.Millisecond
	}
	factory := cfg.Factory
	if factory == nil {
		factory = NetSocketFactory{}
	}
	return &Listener{
		address:     cfg.Address,
		readTimeout: readTimeout,
		factory:     factory,
		logger:      logger,
	}
}

// Run binds the socket and delivers frames to handler until ctx is done.
// Datagrams that are not exactly pose.PacketSize bytes are counted and skipped.
func (l *Listener) Run(ctx context.Context, handler FrameHandler) error {
	laddr, err := net.ResolveUDPAddr("udp", l.address)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}
	sock, err := l.factory.ListenUDP(laddr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP address: %w", err)
	}
	defer sock.Close()

	l.logger.Infof("Pose listener started on %s", sock.LocalAddr())

	// One spare byte so oversized datagrams are detected instead of truncated.
	buffer := make([]byte, pose.PacketSize+1)
	for {
		select {
		case <-ctx.Done():
			l.logger.Infof("Pose listener stopping")
			return ctx.Err()
		default:
		}

		if err := sock.SetReadDeadline(time.Now().Add(l.readTimeout)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
		n, addr, err := sock.ReadFromUDP(buffer)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			l.logger.Warnf("UDP read error: %v", err)
			continue
		}

		frame, err := pose.DecodePacket(buffer[:n])
		if err != nil {
			l.malformed.Add(1)
			l.logger.Debugf("Skipping datagram from %v: %v", addr, err)
			continue
		}
		l.received.Add(1)
		handler(frame, addr)
	}
}

// Stats returns the datagram counters.
func (l *Listener) Stats() ListenerStats {
	return ListenerStats{
		Received:  l.received.Load(),
		Malformed: l.malformed.Load(),
	}
}
