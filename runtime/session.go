// Package runtime wires one chat session: the timeline that owns the message
// list, the listener that feeds it and the sender that reaches the peer.
// It orchestrates the system without containing rendering logic.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"peer-chat/contract"
	"peer-chat/domain"
	"peer-chat/errors"
	"peer-chat/observability"
	"peer-chat/repositories"
	"peer-chat/runtime/workers"
	"peer-chat/transport"
	"strings"
	"sync"
	"time"
)

type Session struct {
	mu         sync.Mutex
	log        *slog.Logger
	config     domain.SessionConfig
	supervisor *workers.Supervisor
	repository repositories.IMessageRepository
	sender     contract.MessageSender
	commands   chan domain.Command
	sinks      []contract.EventSink
	monitoring *observability.MonitoringManager
	listener   net.Listener
	runCtx     context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewSession(
	log *slog.Logger,
	config domain.SessionConfig,
	supervisor *workers.Supervisor,
	repository repositories.IMessageRepository,
	sender contract.MessageSender,
	bufferSize int,
) *Session {
	return &Session{
		log:        log.With("session", config.LocalName),
		config:     config,
		supervisor: supervisor,
		repository: repository,
		sender:     sender,
		commands:   make(chan domain.Command, bufferSize),
		monitoring: observability.NewMonitoringManager(),
	}
}

// Add registers display sinks. Must be called before Start.
func (s *Session) Add(sinks ...contract.EventSink) *Session {
	s.sinks = append(s.sinks, sinks...)
	return s
}

// Start binds the listen port and runs the session in the background.
// A bind failure is reported to the user and returned, but the session keeps
// running so that messages can still be sent. Stop must be called in any case.
func (s *Session) Start(ctx context.Context) error {
	ln, err := transport.Listen(s.config.ListenAddress())
	return s.start(ctx, ln, err)
}

// Serve is Start with an already bound listener.
func (s *Session) Serve(ctx context.Context, ln net.Listener) error {
	return s.start(ctx, ln, nil)
}

func (s *Session) start(ctx context.Context, ln net.Listener, bindErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runCtx != nil {
		return fmt.Errorf("session %s already started", s.config.LocalName)
	}

	s.runCtx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.supervisor.Add(workers.NewTimelineWorker(s.log, s.repository, s.commands, s.monitoring, s.sinks...))
	if bindErr == nil {
		s.listener = ln
		s.supervisor.Add(workers.NewListenerWorker(s.log, ln, s.config.PeerName, s.commands, s.monitoring))
	}

	go func() {
		defer close(s.done)
		s.supervisor.Run(s.runCtx)
	}()

	if bindErr != nil {
		err := fmt.Errorf("%w: %w", errors.ErrListenerFailed, bindErr)
		s.log.Error("Unable to listen", "address", s.config.ListenAddress(), "error", bindErr)
		workers.Notify(s.runCtx, s.commands, domain.ListenerFailure, err)
		return err
	}
	s.log.Info("Session started", "listen", ln.Addr().String(), "peer", s.config.PeerAddress())
	return nil
}

// Submit records text as sent, then delivers it to the peer.
// Empty or blank text is ignored without any network I/O. The local copy is
// appended before the connection is opened and stays recorded as sent even
// when the delivery fails.
func (s *Session) Submit(ctx context.Context, text string) (domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, errors.ErrEmptyMessage
	}

	runCtx := s.context()
	if runCtx == nil {
		return domain.ChatMessage{}, errors.ErrSessionNotStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(runCtx, cancel)
	defer stop()

	message := domain.NewSentMessage(text, s.config.LocalName, time.Now())
	if _, err := workers.Dispatch(ctx, s.commands, message); err != nil {
		return message, err
	}

	if err := s.sender.Send(ctx, text); err != nil {
		err = fmt.Errorf("%w: %w", errors.ErrSendFailed, err)
		s.log.Warn("Message not delivered", "peer", s.config.PeerAddress(), "error", err)
		workers.Notify(ctx, s.commands, domain.SendFailure, err)
		return message, err
	}
	s.log.Debug("Message delivered", "peer", s.config.PeerAddress(), "id", message.ID)
	return message, nil
}

// Messages returns the whole timeline in append order.
func (s *Session) Messages() ([]domain.ChatMessage, error) {
	return repositories.GetAllMessages(s.repository)
}

func (s *Session) Stats() observability.SessionStats {
	return s.monitoring.GetLatest()
}

func (s *Session) Config() domain.SessionConfig {
	return s.config
}

// Addr is the bound listen address, nil when the session could not listen.
func (s *Session) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop cancels every worker and waits for them.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	s.supervisor.Stop()
	cancel()
	<-done
	s.log.Info("Session stopped")
}

func (s *Session) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runCtx
}
