package domain

import (
	"fmt"
	"net"
	"strconv"
)

// SessionConfig is the identity and port pairing of one chat window.
// Two sessions talk to each other when their ports are swapped.
type SessionConfig struct {
	LocalName  string
	PeerName   string
	ListenHost string
	ListenPort int
	PeerHost   string
	PeerPort   int
}

func (c SessionConfig) ListenAddress() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(c.ListenPort))
}

func (c SessionConfig) PeerAddress() string {
	return net.JoinHostPort(c.PeerHost, strconv.Itoa(c.PeerPort))
}

// Title is the window title shown above the timeline.
func (c SessionConfig) Title() string {
	return fmt.Sprintf("%s - Minimal Chat", c.LocalName)
}
