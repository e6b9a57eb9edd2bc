package transport

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type lineRecorder struct {
	mu    sync.Mutex
	lines []string
	conns int
}

func (r *lineRecorder) onLine(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *lineRecorder) onConn(net.Addr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns++
}

func (r *lineRecorder) snapshot() ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...), r.conns
}

func startServe(t *testing.T) (string, *lineRecorder, chan error, context.CancelFunc) {
	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	recorder := &lineRecorder{}
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, recorder.onConn, recorder.onLine) }()
	t.Cleanup(cancel)
	return ln.Addr().String(), recorder, done, cancel
}

func TestServe_Survives_Sequential_Connections(t *testing.T) {
	req := require.New(t)
	address, recorder, _, _ := startServe(t)
	sender := NewSender(address, time.Second)
	ctx := context.Background()

	// When two peers connect one after the other
	req.NoError(sender.Send(ctx, "first"))
	req.NoError(sender.Send(ctx, "second"))

	// Then both lines are delivered in order
	req.Eventually(func() bool {
		lines, _ := recorder.snapshot()
		return len(lines) == 2
	}, 2*time.Second, 10*time.Millisecond)
	lines, conns := recorder.snapshot()
	req.Equal([]string{"first", "second"}, lines)
	req.Equal(2, conns)
}

func TestServe_Reads_Every_Line_Of_A_Connection(t *testing.T) {
	req := require.New(t)
	address, recorder, _, _ := startServe(t)

	conn, err := net.Dial("tcp", address)
	req.NoError(err)
	// Given CRLF endings, an empty line and a last line without terminator
	_, err = conn.Write([]byte("a\r\n\nb\nlast"))
	req.NoError(err)
	req.NoError(conn.Close())

	req.Eventually(func() bool {
		lines, _ := recorder.snapshot()
		return len(lines) == 4
	}, 2*time.Second, 10*time.Millisecond)
	lines, _ := recorder.snapshot()
	req.Equal([]string{"a", "", "b", "last"}, lines)
}

func TestServe_Long_Line_Keeps_Listener_Alive(t *testing.T) {
	req := require.New(t)
	address, recorder, _, _ := startServe(t)
	long := strings.Repeat("x", 2<<20)

	// Given a 2 MiB line followed by a normal one
	conn, err := net.Dial("tcp", address)
	req.NoError(err)
	_, err = conn.Write([]byte(long + "\nshort\n"))
	req.NoError(err)
	req.NoError(conn.Close())

	// Then both lines are delivered whole
	req.Eventually(func() bool {
		lines, _ := recorder.snapshot()
		return len(lines) == 2
	}, 5*time.Second, 10*time.Millisecond)
	lines, _ := recorder.snapshot()
	req.Len(lines[0], len(long))
	req.Equal("short", lines[1])

	// And the next peer connection is still accepted
	req.NoError(NewSender(address, time.Second).Send(context.Background(), "after"))
	req.Eventually(func() bool {
		lines, conns := recorder.snapshot()
		return len(lines) == 3 && conns == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServe_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	_, _, done, cancel := startServe(t)

	cancel()

	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(2 * time.Second):
		req.Fail("Serve did not return after cancel")
	}
}

func TestServe_Stops_On_Cancel_While_Reading(t *testing.T) {
	req := require.New(t)
	address, _, done, cancel := startServe(t)

	// Given a peer that stays connected
	conn, err := net.Dial("tcp", address)
	req.NoError(err)
	defer conn.Close()
	_, err = conn.Write([]byte("partial"))
	req.NoError(err)
	time.Sleep(50 * time.Millisecond)

	cancel()

	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(2 * time.Second):
		req.Fail("Serve did not return after cancel")
	}
}

func TestServe_Returns_Accept_Error(t *testing.T) {
	req := require.New(t)
	ln, err := Listen("127.0.0.1:0")
	req.NoError(err)

	// Given a listener closed behind Serve's back
	req.NoError(ln.Close())

	err = Serve(context.Background(), ln, nil, func(string) {})
	req.Error(err)
	req.NotErrorIs(err, context.Canceled)
}

func TestListen_Port_Already_Bound(t *testing.T) {
	req := require.New(t)
	ln, err := Listen("127.0.0.1:0")
	req.NoError(err)
	defer ln.Close()

	_, err = Listen(ln.Addr().String())
	req.Error(err)
}

func TestSender_Connection_Refused(t *testing.T) {
	req := require.New(t)
	// Given a port nobody listens on
	ln, err := Listen("127.0.0.1:0")
	req.NoError(err)
	address := ln.Addr().String()
	req.NoError(ln.Close())

	err = NewSender(address, time.Second).Send(context.Background(), "hello")
	req.Error(err)
}
