package domain

// Command is posted to the timeline, the only place allowed to touch
// the message list and the display.
type Command interface {
	isCommand()
}

// AppendMessageCommand appends a message. Done receives the sequence
// number once the message is stored, or an error.
type AppendMessageCommand struct {
	Message ChatMessage
	Done    chan AppendResult
}

type AppendResult struct {
	Seq uint64
	Err error
}

// NoticeCommand surfaces a failure to the user.
type NoticeCommand struct {
	Kind NoticeKind
	Err  error
}

func (AppendMessageCommand) isCommand() {}
func (NoticeCommand) isCommand()        {}

type NoticeKind string

const (
	SendFailure     NoticeKind = "SEND_FAILURE"
	ListenerFailure NoticeKind = "LISTENER_FAILURE"
)
