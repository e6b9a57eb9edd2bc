package event

import (
	"peer-chat/domain"
	"time"
)

type Type string

const (
	MessageAppendedType Type = "MESSAGE_APPENDED"
	NoticeType          Type = "NOTICE"
)

// Event is what the timeline hands to its sinks, in append order.
type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

type MessageAppended struct {
	Seq     uint64
	Message domain.ChatMessage
}

// Notice is a user-visible failure, the terminal equivalent of a dialog box.
type Notice struct {
	Kind domain.NoticeKind
	Err  error
}

func NewMessageAppended(seq uint64, message domain.ChatMessage) Event {
	return Event{
		Type:      MessageAppendedType,
		CreatedAt: time.Now().UTC(),
		Payload:   MessageAppended{Seq: seq, Message: message},
	}
}

func NewNotice(kind domain.NoticeKind, err error) Event {
	return Event{
		Type:      NoticeType,
		CreatedAt: time.Now().UTC(),
		Payload:   Notice{Kind: kind, Err: err},
	}
}
