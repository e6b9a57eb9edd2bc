package workers

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"peer-chat/contract"
	"peer-chat/domain"
	"peer-chat/errors"
	"peer-chat/observability"
	"peer-chat/transport"
	"time"
)

var _ contract.Worker = (*ListenerWorker)(nil)

// ListenerWorker turns every line read on the listen port into a received
// message. A connection error or a panic is fatal: the user is notified, the
// listener is closed and the worker returns nil so the supervisor never
// restarts it.
type ListenerWorker struct {
	log        *slog.Logger
	listener   net.Listener
	peerName   string
	commands   chan<- domain.Command
	monitoring *observability.MonitoringManager
}

func NewListenerWorker(
	log *slog.Logger,
	listener net.Listener,
	peerName string,
	commands chan<- domain.Command,
	monitoring *observability.MonitoringManager,
) *ListenerWorker {
	return &ListenerWorker{
		log:        log,
		listener:   listener,
		peerName:   peerName,
		commands:   commands,
		monitoring: monitoring,
	}
}

func (w *ListenerWorker) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.stop(ctx, fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r))
			err = nil
		}
	}()
	w.log.Info("Listening for peer messages", "address", w.listener.Addr().String())

	err = transport.Serve(ctx, w.listener, w.onConn, func(line string) {
		w.log.Debug("Line received", "peer", w.peerName, "length", len(line))
		message := domain.NewReceivedMessage(line, w.peerName, time.Now())
		if _, err := Dispatch(ctx, w.commands, message); err != nil {
			w.log.Debug("Received message dropped", "error", err)
		}
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}

	w.stop(ctx, err)
	return nil
}

// stop closes the listener for good and tells the user.
func (w *ListenerWorker) stop(ctx context.Context, cause error) {
	_ = w.listener.Close()
	w.log.Error("Listener stopped", "address", w.listener.Addr().String(), "error", cause)
	Notify(ctx, w.commands, domain.ListenerFailure, fmt.Errorf("%w: %w", errors.ErrListenerFailed, cause))
}

func (w *ListenerWorker) onConn(remote net.Addr) {
	w.monitoring.IncrConnections()
	w.log.Debug("Peer connected", "remote", remote.String())
}
