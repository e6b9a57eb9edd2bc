package internal

import (
	"log/slog"
	"peer-chat/repositories"
	"peer-chat/runtime"
	"peer-chat/runtime/workers"
	"peer-chat/transport"

	"github.com/dgraph-io/badger/v4"
)

// BuildSession assembles one window: its in-memory store, its supervisor and
// its one-shot sender. Sinks are added by the caller.
func BuildSession(log *slog.Logger, config Config, db *badger.DB) *runtime.Session {
	session := config.SessionConfig()
	return runtime.NewSession(
		log,
		session,
		workers.NewSupervisor(log, config.RestartInterval),
		repositories.NewMessageRepository(db, log, config.LimitMessages),
		transport.NewSender(session.PeerAddress(), config.DialTimeout),
		config.CommandBufferSize,
	)
}
