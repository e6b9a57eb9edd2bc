package workers

import (
	"context"
	"log/slog"
	"net"
	"peer-chat/domain"
	"peer-chat/errors"
	"peer-chat/observability"
	"peer-chat/transport"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestListenerWorker_Posts_Received_Messages(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ln, err := transport.Listen("127.0.0.1:0")
	req.NoError(err)
	commands := make(chan domain.Command, 10)
	monitoring := observability.NewMonitoringManager()
	worker := NewListenerWorker(log, ln, "User 1", commands, monitoring)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// When the peer sends two messages
	sender := transport.NewSender(ln.Addr().String(), time.Second)
	req.NoError(sender.Send(ctx, "a"))
	req.NoError(sender.Send(ctx, "b"))

	// Then both are posted in order with the peer name
	for _, expected := range []string{"a", "b"} {
		select {
		case cmd := <-commands:
			appendCmd, ok := cmd.(domain.AppendMessageCommand)
			req.True(ok)
			req.Equal(expected, appendCmd.Message.Text)
			req.Equal("User 1", appendCmd.Message.Sender)
			req.False(appendCmd.Message.SentByLocalUser)
			appendCmd.Done <- domain.AppendResult{Seq: 1}
		case <-time.After(2 * time.Second):
			req.Fail("message never posted")
		}
	}
	req.Equal(uint64(2), monitoring.GetLatest().Connections)

	// And the worker stops with the context
	cancel()
	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(2 * time.Second):
		req.Fail("worker did not stop")
	}
}

func TestListenerWorker_Connection_Error_Is_Fatal(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ln, err := transport.Listen("127.0.0.1:0")
	req.NoError(err)
	commands := make(chan domain.Command, 10)
	worker := NewListenerWorker(log, ln, "User 1", commands, observability.NewMonitoringManager())

	// Given the listening socket breaks
	req.NoError(ln.Close())

	// When the worker runs
	err = worker.Run(context.Background())

	// Then it returns nil so it is never restarted
	req.NoError(err)

	// And the user is notified
	select {
	case cmd := <-commands:
		notice, ok := cmd.(domain.NoticeCommand)
		req.True(ok)
		req.Equal(domain.ListenerFailure, notice.Kind)
		req.ErrorIs(notice.Err, errors.ErrListenerFailed)
	default:
		req.Fail("no notice posted")
	}
}

func TestListenerWorker_Panic_Is_Fatal_Once(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ln, err := transport.Listen("127.0.0.1:0")
	req.NoError(err)
	commands := make(chan domain.Command, 10)

	// Given a worker whose connection hook panics
	worker := NewListenerWorker(log, ln, "User 1", commands, nil)
	sup := NewSupervisor(log, 10*time.Millisecond).Add(worker)
	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	// When a peer connects
	conn, err := net.Dial("tcp", ln.Addr().String())
	req.NoError(err)
	defer conn.Close()

	// Then the supervisor is done: the worker was not restarted
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("listener worker was restarted")
	}

	// And exactly one notice was posted
	req.Len(commands, 1)
	notice, ok := (<-commands).(domain.NoticeCommand)
	req.True(ok)
	req.Equal(domain.ListenerFailure, notice.Kind)
	req.ErrorIs(notice.Err, errors.ErrListenerFailed)
	req.ErrorIs(notice.Err, errors.ErrWorkerPanic)

	// And the port no longer accepts connections
	_, err = net.Dial("tcp", ln.Addr().String())
	req.Error(err)
}
