package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrEmptyMessage      = fmt.Errorf("message is empty")
	ErrSendFailed        = fmt.Errorf("error sending message")
	ErrListenerFailed    = fmt.Errorf("connection error")
	ErrSessionNotStarted = fmt.Errorf("session is not started")
	ErrUnknownField      = fmt.Errorf("unknown field in stored message")
)
