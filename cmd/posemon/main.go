// Command posemon prints the pose stream produced by headtrack. It reads the
// UDP datagrams directly and can also subscribe to the ZeroMQ pose topic.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pose"
	"github.com/open-teleop/headtrack/pkg/transport"
	"github.com/open-teleop/headtrack/pkg/zeromq"
)

func main() {
	udpAddr := flag.String("udp", ":4242", "UDP address to receive pose packets on (empty disables)")
	zmqAddr := flag.String("zmq", "", "ZeroMQ publisher to subscribe to, e.g. tcp://localhost:5556")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger := customlog.NewLogrusLoggerWithWriter(*level, os.Stderr)
	if *udpAddr == "" && *zmqAddr == "" {
		logger.Fatalf("Nothing to monitor: set -udp or -zmq")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	if *udpAddr != "" {
		listener := transport.NewListener(transport.ListenerConfig{Address: *udpAddr}, logger.WithField("component", "udp"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := listener.Run(ctx, func(frame pose.Frame, from *net.UDPAddr) {
				fmt.Printf("udp %s %s\n", from, formatFrame(frame))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("UDP listener failed: %v", err)
				stop()
			}
			stats := listener.Stats()
			logger.Infof("UDP listener done: received=%d malformed=%d", stats.Received, stats.Malformed)
		}()
	}

	if *zmqAddr != "" {
		sub, err := zeromq.NewPoseListener(*zmqAddr, logger.WithField("component", "zmq"))
		if err != nil {
			logger.Fatalf("Failed to subscribe to %s: %v", *zmqAddr, err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := sub.Run(ctx, func(msg zeromq.PoseFrameMessage) {
				fmt.Printf("zmq %s#%d center=(%.3f, %.3f, %.3f) %s\n",
					msg.SessionID, msg.Sequence, msg.Center.X, msg.Center.Y, msg.Center.Z, formatFrame(msg.Frame))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("ZeroMQ listener failed: %v", err)
				stop()
			}
		}()
	}

	wg.Wait()
}

func formatFrame(f pose.Frame) string {
	return fmt.Sprintf("pos=(%8.3f, %8.3f, %8.3f) yaw=%8.3f pitch=%8.3f roll=%8.3f",
		f.Position.X, f.Position.Y, f.Position.Z, f.Yaw, f.Pitch, f.Roll)
}
