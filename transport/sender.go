package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Sender opens a new connection for every message and closes it right after.
type Sender struct {
	address     string
	dialTimeout time.Duration
}

func NewSender(address string, dialTimeout time.Duration) Sender {
	return Sender{address: address, dialTimeout: dialTimeout}
}

// Send writes text followed by a line break to the peer.
// Text containing line breaks reaches the peer as several lines.
func (s Sender) Send(ctx context.Context, text string) error {
	dialer := net.Dialer{Timeout: s.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("unable to connect to %s: %w", s.address, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	if _, err = conn.Write([]byte(text + "\n")); err != nil {
		_ = conn.Close()
		return fmt.Errorf("unable to write to %s: %w", s.address, err)
	}
	if err = conn.Close(); err != nil {
		return fmt.Errorf("unable to close connection to %s: %w", s.address, err)
	}
	return nil
}
