package ui

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"peer-chat/domain"
	"peer-chat/errors"
	"peer-chat/observability"
	"strings"
)

const (
	cmdHistory = "/history"
	cmdStats   = "/stats"
	cmdQuit    = "/quit"
)

// ChatSession is what the console drives.
type ChatSession interface {
	Submit(ctx context.Context, text string) (domain.ChatMessage, error)
	Messages() ([]domain.ChatMessage, error)
	Stats() observability.SessionStats
}

// Router picks the session a line is meant for and strips any routing prefix.
// A nil session means the line could not be routed.
type Router func(line string) (ChatSession, string)

// SingleSession routes every line to the same session.
func SingleSession(session ChatSession) Router {
	return func(line string) (ChatSession, string) {
		return session, line
	}
}

// PrefixRouter routes "<key>: text" to the session registered under key.
func PrefixRouter(sessions map[string]ChatSession) Router {
	return func(line string) (ChatSession, string) {
		key, text, found := strings.Cut(line, ":")
		if !found {
			return nil, line
		}
		session, ok := sessions[strings.TrimSpace(key)]
		if !ok {
			return nil, line
		}
		return session, text
	}
}

// Console is the input field: every line read is a submit, except the local
// commands /history, /stats and /quit.
type Console struct {
	log   *slog.Logger
	in    io.Reader
	out   io.Writer
	route Router
}

func NewConsole(log *slog.Logger, in io.Reader, out io.Writer, route Router) *Console {
	return &Console{log: log, in: in, out: out, route: route}
}

// Run returns on /quit, at the end of the input or when ctx is canceled.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			if quit := c.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

func (c *Console) handle(ctx context.Context, line string) bool {
	session, text := c.route(line)
	if session == nil {
		_, _ = fmt.Fprintf(c.out, "unroutable input %q\n", line)
		return false
	}

	switch strings.TrimSpace(text) {
	case cmdQuit:
		return true
	case cmdHistory:
		messages, err := session.Messages()
		if err != nil {
			c.log.Error("Unable to read history", "error", err)
			return false
		}
		RenderHistory(c.out, messages)
	case cmdStats:
		RenderStats(c.out, session.Stats())
	default:
		_, err := session.Submit(ctx, text)
		switch {
		case err == nil, stderrors.Is(err, errors.ErrEmptyMessage):
		case stderrors.Is(err, errors.ErrSendFailed):
			// already shown as a notice
			c.log.Debug("Send failed", "error", err)
		default:
			c.log.Error("Unable to submit message", "error", err)
		}
	}
	return false
}
