package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pose"
)

func TestListener_DecodesFramesAndSkipsMalformed(t *testing.T) {
	a := pose.Frame{Position: r3.Vector{X: 1, Y: 2, Z: 3}, Yaw: 0.1, Pitch: 0.2, Roll: 0.3}
	b := pose.Frame{Position: r3.Vector{X: -1}, Yaw: 6}
	pa, pb := a.Packet(), b.Packet()

	sock := &MockSocket{Datagrams: [][]byte{
		pa[:],
		[]byte("short"),
		make([]byte, pose.PacketSize+10),
		pb[:],
	}}
	l := NewListener(ListenerConfig{
		Address: "127.0.0.1:0",
		Factory: &MockSocketFactory{Socket: sock},
	}, customlog.NewLogrusLoggerWithWriter("error", io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	var (
		mu  sync.Mutex
		got []pose.Frame
	)
	done := make(chan error, 1)
	go func() {
		done <- l.Run(ctx, func(f pose.Frame, from *net.UDPAddr) {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, f)
			if len(got) == 2 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("listener did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0])
	assert.Equal(t, b, got[1])
	assert.Equal(t, ListenerStats{Received: 2, Malformed: 2}, l.Stats())
	assert.True(t, sock.Closed)
	assert.False(t, sock.Deadline.IsZero())
}

func TestListener_ListenError(t *testing.T) {
	l := NewListener(ListenerConfig{
		Address: "127.0.0.1:0",
		Factory: &MockSocketFactory{Err: errors.New("address in use")},
	}, customlog.NewLogrusLoggerWithWriter("error", io.Discard))

	err := l.Run(context.Background(), func(pose.Frame, *net.UDPAddr) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address in use")
}

func TestListener_StopsOnCancelWithoutTraffic(t *testing.T) {
	l := NewListener(ListenerConfig{
		Address:     "127.0.0.1:0",
		ReadTimeout: 10 * time.Millisecond,
		Factory:     &MockSocketFactory{Socket: &MockSocket{}},
	}, customlog.NewLogrusLoggerWithWriter("error", io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Run(ctx, func(pose.Frame, *net.UDPAddr) {
		t.Error("unexpected frame")
	})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
