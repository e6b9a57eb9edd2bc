package workers

import (
	"context"
	"log/slog"
	"peer-chat/contract"
	"peer-chat/domain"
	"peer-chat/domain/event"
	"peer-chat/observability"
	"peer-chat/repositories"
)

var _ contract.Worker = (*TimelineWorker)(nil)

// TimelineWorker is the single goroutine allowed to append to the message
// list and to drive the display. Producers post commands and never touch
// either directly.
type TimelineWorker struct {
	log        *slog.Logger
	repository repositories.IMessageRepository
	commands   <-chan domain.Command
	sinks      []contract.EventSink
	monitoring *observability.MonitoringManager
}

func NewTimelineWorker(
	log *slog.Logger,
	repository repositories.IMessageRepository,
	commands <-chan domain.Command,
	monitoring *observability.MonitoringManager,
	sinks ...contract.EventSink,
) *TimelineWorker {
	return &TimelineWorker{
		log:        log,
		repository: repository,
		commands:   commands,
		sinks:      sinks,
		monitoring: monitoring,
	}
}

func (w *TimelineWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping timeline worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.handle(ctx, cmd)
		}
	}
}

func (w *TimelineWorker) handle(ctx context.Context, cmd domain.Command) {
	switch c := cmd.(type) {
	case domain.AppendMessageCommand:
		seq, err := w.repository.StoreMessage(c.Message)
		if c.Done != nil {
			c.Done <- domain.AppendResult{Seq: seq, Err: err}
		}
		if err != nil {
			w.log.Error("Unable to append message", "id", c.Message.ID, "error", err)
			return
		}
		if c.Message.SentByLocalUser {
			w.monitoring.IncrSent()
		} else {
			w.monitoring.IncrReceived()
		}
		w.fanout(ctx, event.NewMessageAppended(seq, c.Message))
	case domain.NoticeCommand:
		switch c.Kind {
		case domain.SendFailure:
			w.monitoring.IncrSendFailures()
		case domain.ListenerFailure:
			w.monitoring.IncrListenerFailures()
		}
		w.fanout(ctx, event.NewNotice(c.Kind, c.Err))
	default:
		w.log.Debug("Unknown command", "command", cmd)
	}
}

// fanout hands the event to every sink in registration order.
// A failing sink is logged and does not stop the others.
func (w *TimelineWorker) fanout(ctx context.Context, evt event.Event) {
	for _, sink := range w.sinks {
		if err := sink.Consume(ctx, evt); err != nil {
			w.log.Warn("Sink failed to consume event", "type", evt.Type, "error", err)
		}
	}
}

// Dispatch posts an append command and waits until the timeline stored it.
func Dispatch(ctx context.Context, commands chan<- domain.Command, message domain.ChatMessage) (uint64, error) {
	done := make(chan domain.AppendResult, 1)
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case commands <- domain.AppendMessageCommand{Message: message, Done: done}:
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-done:
		return res.Seq, res.Err
	}
}

// Notify posts a notice without waiting for it to be rendered.
func Notify(ctx context.Context, commands chan<- domain.Command, kind domain.NoticeKind, err error) {
	select {
	case <-ctx.Done():
	case commands <- domain.NoticeCommand{Kind: kind, Err: err}:
	}
}
