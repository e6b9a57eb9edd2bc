package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"peer-chat/domain"
	"peer-chat/projection"
	"peer-chat/repositories"
	"peer-chat/runtime"
	"peer-chat/runtime/workers"
	"peer-chat/transport"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

// Window is a running session together with what its view shows.
type Window struct {
	Session  *runtime.Session
	View     *projection.Timeline
	Listener net.Listener
}

type BaseChatSuite struct {
	suite.Suite
	Config      Config
	dialTimeout time.Duration
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseChatSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	s.dialTimeout, err = time.ParseDuration(s.Config.DialTimeout)
	s.Require().NoError(err)
}

// Step prints a colorized header for a scenario step in logs
func (s *BaseChatSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Bind reserves a listen port before the sessions know each other.
func (s *BaseChatSuite) Bind() net.Listener {
	ln, err := transport.Listen(net.JoinHostPort(s.Config.Host, "0"))
	s.Require().NoError(err)
	return ln
}

// Open starts a window on ln that talks to peerLn.
func (s *BaseChatSuite) Open(localName, peerName string, ln, peerLn net.Listener) *Window {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := repositories.OpenInMemory()
	s.Require().NoError(err)

	config := domain.SessionConfig{
		LocalName: localName,
		PeerName:  peerName,
		PeerHost:  s.Config.Host,
		PeerPort:  peerLn.Addr().(*net.TCPAddr).Port,
	}
	view := projection.NewTimeline(localName)
	session := runtime.NewSession(log, config,
		workers.NewSupervisor(log, 50*time.Millisecond),
		repositories.NewMessageRepository(db, log, nil),
		transport.NewSender(config.PeerAddress(), s.dialTimeout),
		16,
	).Add(view)
	s.Require().NoError(session.Serve(context.Background(), ln))

	s.T().Cleanup(func() {
		session.Stop()
		_ = db.Close()
	})
	return &Window{Session: session, View: view, Listener: ln}
}
