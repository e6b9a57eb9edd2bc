// Package projection builds local timelines from observed events.
// Does not emit events or interact with the terminal directly.
package projection

import (
	"context"
	"peer-chat/contract"
	"peer-chat/domain"
	"peer-chat/domain/event"
	"sync"
)

var _ contract.EventSink = (*Timeline)(nil)

// Timeline holds what a window would show: its messages and its notices.
type Timeline struct {
	mu       sync.RWMutex
	Owner    string
	messages []domain.ChatMessage
	notices  []event.Notice
}

func NewTimeline(owner string) *Timeline {
	return &Timeline{Owner: owner}
}

func (t *Timeline) Consume(_ context.Context, e event.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch evt := e.Payload.(type) {
	case event.MessageAppended:
		t.messages = append(t.messages, evt.Message)
	case event.Notice:
		t.notices = append(t.notices, evt)
	}
	return nil
}

func (t *Timeline) Messages() []domain.ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.ChatMessage(nil), t.messages...)
}

func (t *Timeline) Notices() []event.Notice {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]event.Notice(nil), t.notices...)
}
