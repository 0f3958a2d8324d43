package transport

import (
	"net"
	"time"
)

// Conn is the connected datagram socket a UDPSender writes to.
type Conn interface {
	Write(b []byte) (int, error)
	Close() error
	RemoteAddr() net.Addr
}

// Dialer opens the connected socket for a fixed destination.
type Dialer interface {
	DialUDP(raddr *net.UDPAddr) (Conn, error)
}

// NetDialer dials with net.DialUDP.
type NetDialer struct{}

// DialUDP implements Dialer.
func (NetDialer) DialUDP(raddr *net.UDPAddr) (Conn, error) {
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Socket is the listening side used by Listener.
type Socket interface {
	ReadFromUDP(b []byte) (n int, addr *net.UDPAddr, err error)
	SetReadDeadline(t time.Time) error
	Close() error
	LocalAddr() net.Addr
}

// SocketFactory binds a listening Socket.
type SocketFactory interface {
	ListenUDP(laddr *net.UDPAddr) (Socket, error)
}

// NetSocketFactory binds with net.ListenUDP.
type NetSocketFactory struct{}

// ListenUDP implements SocketFactory.
func (NetSocketFactory) ListenUDP(laddr *net.UDPAddr) (Socket, error) {
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// MockConn records writes for tests. WriteErrors are returned in order, one
// per Write call, before writes start succeeding again.
type MockConn struct {
	Writes      [][]byte
	WriteErrors []error
	Closed      bool
	Remote      *net.UDPAddr
}

// Write implements Conn.
func (m *MockConn) Write(b []byte) (int, error) {
	if len(m.WriteErrors) > 0 {
		err := m.WriteErrors[0]
		m.WriteErrors = m.WriteErrors[1:]
		if err != nil {
			return 0, err
		}
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	m.Writes = append(m.Writes, cp)
	return len(b), nil
}

// Close implements Conn.
func (m *MockConn) Close() error {
	m.Closed = true
	return nil
}

// RemoteAddr implements Conn.
func (m *MockConn) RemoteAddr() net.Addr {
	if m.Remote == nil {
		return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4242}
	}
	return m.Remote
}

// MockDialer returns Conn from DialUDP, or Err if set.
type MockDialer struct {
	Conn   *MockConn
	Err    error
	Dialed []*net.UDPAddr
}

// DialUDP implements Dialer.
func (d *MockDialer) DialUDP(raddr *net.UDPAddr) (Conn, error) {
	d.Dialed = append(d.Dialed, raddr)
	if d.Err != nil {
		return nil, d.Err
	}
	d.Conn.Remote = raddr
	return d.Conn, nil
}

// MockSocket replays Datagrams, then reports read timeouts.
type MockSocket struct {
	Datagrams [][]byte
	ReadIndex int
	Closed    bool
	Deadline  time.Time
	Local     *net.UDPAddr
}

// ReadFromUDP implements Socket.
func (m *MockSocket) ReadFromUDP(b []byte) (int, *net.UDPAddr, error) {
	if m.Closed {
		return 0, nil, net.ErrClosed
	}
	if m.ReadIndex >= len(m.Datagrams) {
		time.Sleep(time.Millisecond)
		return 0, nil, &net.OpError{Op: "read", Net: "udp", Err: timeoutError{}}
	}
	d := m.Datagrams[m.ReadIndex]
	m.ReadIndex++
	return copy(b, d), &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50000}, nil
}

// SetReadDeadline implements Socket.
func (m *MockSocket) SetReadDeadline(t time.Time) error {
	m.Deadline = t
	return nil
}

// Close implements Socket.
func (m *MockSocket) Close() error {
	m.Closed = true
	return nil
}

// LocalAddr implements Socket.
func (m *MockSocket) LocalAddr() net.Addr {
	if m.Local == nil {
		return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4242}
	}
	return m.Local
}

// MockSocketFactory hands out Socket.
type MockSocketFactory struct {
	Socket *MockSocket
	Err    error
}

// ListenUDP implements SocketFactory.
func (f *MockSocketFactory) ListenUDP(laddr *net.UDPAddr) (Socket, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Socket, nil
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
