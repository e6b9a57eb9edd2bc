// Package domain contains core concepts of the chat system.
// This file defines ChatMessage values and the way they are created.
// Messages are immutable once created.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// timeLayout mirrors the short clock shown under every bubble.
const timeLayout = "3:04 PM"

// ChatMessage represents one sent or received line of text.
// Timestamp carries no monotonic reading.
type ChatMessage struct {
	ID              uuid.UUID // unique identifier
	Text            string
	Sender          string
	SentByLocalUser bool
	Timestamp       time.Time
}

// NewSentMessage creates the local copy of a message typed by the session owner.
func NewSentMessage(text, localName string, at time.Time) ChatMessage {
	return ChatMessage{
		ID:              uuid.New(),
		Text:            text,
		Sender:          localName,
		SentByLocalUser: true,
		Timestamp:       at.Round(0),
	}
}

// NewReceivedMessage creates a message read from the peer connection.
func NewReceivedMessage(text, peerName string, at time.Time) ChatMessage {
	return ChatMessage{
		ID:        uuid.New(),
		Text:      text,
		Sender:    peerName,
		Timestamp: at.Round(0),
	}
}

func (m ChatMessage) Clock() string {
	return m.Timestamp.Format(timeLayout)
}
