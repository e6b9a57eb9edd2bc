// Package ui renders a session timeline on a terminal.
// It observes events from the timeline and never modifies session state.
package ui

import (
	"context"
	"fmt"
	"io"
	"peer-chat/contract"
	"peer-chat/domain"
	"peer-chat/domain/event"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

const (
	minWidth = 24
	// bubbles never take more than this share of the line
	bubbleRatio = 0.75
)

var (
	sentStyle     = color.New(color.FgWhite, color.BgBlue)
	sentTimeStyle = color.New(color.FgLightCyan, color.BgBlue)
	recvStyle     = color.New(color.FgBlack, color.BgWhite)
	recvTimeStyle = color.New(color.FgGray, color.BgWhite)
	senderStyle   = color.New(color.FgGray, color.OpBold)
	titleStyle    = color.New(color.FgDarkGray, color.OpBold)
	noticeStyle   = color.New(color.FgWhite, color.BgRed, color.OpBold)
)

var _ contract.EventSink = (*Terminal)(nil)

// Terminal is the chat window: sent bubbles on the right, received bubbles
// on the left with the sender name above. New entries are appended at the
// bottom so the newest one is always in view.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	width int
	tag   string
}

func NewTerminal(out io.Writer, width int) *Terminal {
	if width < minWidth {
		width = minWidth
	}
	return &Terminal{out: out, width: width}
}

// WithTag prefixes every rendered line, used when two windows share one terminal.
func (t *Terminal) WithTag(tag string) *Terminal {
	t.tag = tag
	return t
}

// Header prints the window title bar.
func (t *Terminal) Header(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.println(titleStyle.Render(fitLine(" "+title, t.width)))
	t.println(strings.Repeat("─", t.width))
}

func (t *Terminal) Consume(_ context.Context, e event.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch evt := e.Payload.(type) {
	case event.MessageAppended:
		t.renderMessage(evt.Message)
	case event.Notice:
		t.renderNotice(evt)
	}
	return nil
}

func (t *Terminal) renderMessage(message domain.ChatMessage) {
	inner := int(float64(t.width)*bubbleRatio) - 2
	lines := wrap(message.Text, inner)
	clock := message.Clock()

	bubbleInner := runewidth.StringWidth(clock)
	for _, line := range lines {
		bubbleInner = max(bubbleInner, runewidth.StringWidth(line))
	}
	bubbleWidth := bubbleInner + 2

	indent := ""
	textStyle, timeStyle := recvStyle, recvTimeStyle
	if message.SentByLocalUser {
		indent = strings.Repeat(" ", max(t.width-bubbleWidth, 0))
		textStyle, timeStyle = sentStyle, sentTimeStyle
	} else {
		t.println(senderStyle.Render(message.Sender))
	}

	for _, line := range lines {
		t.println(indent + textStyle.Render(" "+runewidth.FillRight(line, bubbleInner)+" "))
	}
	t.println(indent + timeStyle.Render(" "+runewidth.FillLeft(clock, bubbleInner)+" "))
}

func (t *Terminal) renderNotice(notice event.Notice) {
	msg := "error"
	if notice.Err != nil {
		msg = notice.Err.Error()
	}
	for _, line := range wrap("! "+msg, t.width-2) {
		t.println(noticeStyle.Render(" " + runewidth.FillRight(line, t.width-2) + " "))
	}
}

func (t *Terminal) println(line string) {
	if t.tag != "" {
		line = t.tag + " " + line
	}
	_, _ = fmt.Fprintln(t.out, line)
}

// wrap breaks text on single spaces so that no line is wider than width cells.
// Runs of spaces inside a line are kept. Words longer than width are cut.
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	current, open := "", false
	for _, word := range strings.Split(text, " ") {
		for runewidth.StringWidth(word) > width {
			if open {
				lines = append(lines, current)
				current, open = "", false
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			lines = append(lines, head)
			word = word[len(head):]
		}
		switch {
		case !open:
			current, open = word, true
		case runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if open || len(lines) == 0 {
		lines = append(lines, current)
	}
	return lines
}

func fitLine(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
