package ui

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"peer-chat/domain"
	"peer-chat/errors"
	"peer-chat/observability"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu        sync.Mutex
	name      string
	submitted []string
	fail      bool
}

func (f *fakeSession) Submit(_ context.Context, text string) (domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, errors.ErrEmptyMessage
	}
	f.submitted = append(f.submitted, text)
	if f.fail {
		return domain.ChatMessage{}, fmt.Errorf("%w: refused", errors.ErrSendFailed)
	}
	return domain.NewSentMessage(text, f.name, time.Now()), nil
}

func (f *fakeSession) Messages() ([]domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var messages []domain.ChatMessage
	for _, text := range f.submitted {
		messages = append(messages, domain.NewSentMessage(text, f.name, time.Now()))
	}
	return messages, nil
}

func (f *fakeSession) Stats() observability.SessionStats {
	return observability.SessionStats{Sent: uint64(len(f.submitted))}
}

func TestConsole_Submits_Lines_Until_Quit(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	session := &fakeSession{name: "User 1", fail: true}
	var out bytes.Buffer
	in := strings.NewReader("hello\n   \nworld\n/history\n/stats\n/quit\nignored\n")

	err := NewConsole(log, in, &out, SingleSession(session)).Run(context.Background())

	req.NoError(err)
	req.Equal([]string{"hello", "world"}, session.submitted)
	req.Contains(out.String(), "2 sent, 0 received")
	req.Contains(out.String(), "send failures")
}

func TestConsole_Stops_At_End_Of_Input(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	session := &fakeSession{name: "User 1"}
	var out bytes.Buffer

	err := NewConsole(log, strings.NewReader("only line"), &out, SingleSession(session)).Run(context.Background())

	req.NoError(err)
	req.Equal([]string{"only line"}, session.submitted)
}

func TestConsole_Prefix_Router(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	first := &fakeSession{name: "User 1"}
	second := &fakeSession{name: "User 2"}
	var out bytes.Buffer
	in := strings.NewReader("1: hello\n2: hi: there\nno prefix\n3: nobody\n")

	err := NewConsole(log, in, &out, PrefixRouter(map[string]ChatSession{"1": first, "2": second})).Run(context.Background())

	req.NoError(err)
	req.Equal([]string{"hello"}, first.submitted)
	req.Equal([]string{"hi: there"}, second.submitted)
	req.Equal(2, strings.Count(out.String(), "unroutable input"))
}
