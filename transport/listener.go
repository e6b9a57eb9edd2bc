// Package transport carries chat lines over plain TCP.
// One line per message, no framing beyond the line break, no handshake.
package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
)

// LineHandler is called once per received line, in arrival order.
type LineHandler func(line string)

// ConnHandler is called each time a peer connection is accepted.
type ConnHandler func(remote net.Addr)

func Listen(address string) (net.Listener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return ln, nil
}

// Serve accepts exactly one connection at a time and reads its lines until
// the peer closes it, then goes back to accepting. It only returns on an
// accept or read error, or when ctx is canceled (the listener is closed and
// ctx.Err() is returned).
func Serve(ctx context.Context, ln net.Listener, onConn ConnHandler, handle LineHandler) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		if onConn != nil {
			onConn(conn.RemoteAddr())
		}
		if err := readLines(ctx, conn, handle); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

func readLines(ctx context.Context, conn net.Conn, handle LineHandler) error {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	// Lines have no length limit, like the peer's writer.
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err == nil {
			handle(trimLineEnd(line))
			continue
		}
		if err == io.EOF {
			// last line without terminator
			if line != "" {
				handle(trimLineEnd(line))
			}
			return nil
		}
		return fmt.Errorf("read from %s failed: %w", conn.RemoteAddr(), err)
	}
}

func trimLineEnd(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
