package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/dFS/lib/vfs"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/ValentinKolb/dFS/rpc/frame"
	"github.com/ValentinKolb/dFS/rpc/transport"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/multierr"
	"net"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"
)

var Logger = logger.GetLogger("server")

// Option configures a Server
type Option func(*Server)

// WithTokenGenerator replaces the token source (crypto/rand by default)
func WithTokenGenerator(generator frame.TokenGenerator) Option {
	return func(s *Server) {
		s.newToken = generator
	}
}

// Server accepts connections and runs one Session per connection.
//
// Usage:
//
//	fs, _ := vfs.NewOSFileSystem("/srv/dfs")
//	s := server.NewServer(config, tcp.NewTCPServerTransport(), fs)
//	if err := s.Serve(ctx); err != nil {
//		panic(err)
//	}
type Server struct {
	config     common.ServerConfig
	transport  transport.IServerTransport
	fs         vfs.IFileSystem
	dispatcher *Dispatcher
	newToken   frame.TokenGenerator
	metrics    *serverMetrics

	sessions *xsync.MapOf[string, *Session]
	closing  atomic.Bool
}

// NewServer creates a server exposing fs over the transport
func NewServer(config common.ServerConfig, t transport.IServerTransport, fs vfs.IFileSystem, opts ...Option) *Server {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	s := &Server{
		config:    config,
		transport: t,
		fs:        fs,
		newToken:  frame.GenerateToken,
		sessions:  xsync.NewMapOf[string, *Session](),
	}
	s.metrics = newServerMetrics(s.ActiveSessions)
	s.dispatcher = newDispatcher(fs, s.metrics)
	for _, opt := range opts {
		opt(s)
	}

	t.RegisterHandler(s.handleConnection)

	Logger.Infof("Created dFS Server")
	Logger.Infof(config.String())
	return s
}

// Listen binds the transport. Serve calls it if it was not called before.
func (s *Server) Listen() error {
	return s.transport.Listen(s.config.Transport)
}

// Addr returns the bound address (nil before Listen)
func (s *Server) Addr() net.Addr {
	return s.transport.Addr()
}

// ActiveSessions returns the number of running sessions
func (s *Server) ActiveSessions() int {
	return s.sessions.Size()
}

// Serve accepts connections until ctx is canceled. On cancellation all session
// connections are closed and Serve returns once every session ended.
func (s *Server) Serve(ctx context.Context) error {
	if s.Addr() == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.closing.Store(false)
	defer s.metrics.stop()

	// metrics endpoint and stats log also end when the transport fails
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.config.MetricsEndpoint != "" {
		if err := s.metrics.serve(ctx, s.config.MetricsEndpoint); err != nil {
			return err
		}
	}
	if s.config.StatsIntervalSecond > 0 {
		go s.metrics.logStats(ctx, time.Duration(s.config.StatsIntervalSecond)*time.Second, s.ActiveSessions)
	}

	// Close all sessions once the context ends, this releases the transport handlers
	closeErr := make(chan error, 1)
	serveDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			closeErr <- s.closeSessions()
		case <-serveDone:
			closeErr <- nil
		}
	}()

	Logger.Infof("dFS server serving on %s", s.Addr())
	err := s.transport.Serve(ctx)
	close(serveDone)

	err = multierr.Append(err, <-closeErr)
	Logger.Infof("dFS server stopped")
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleConnection is the transport handler, it runs one session
func (s *Server) handleConnection(conn net.Conn) {
	token, err := s.newToken()
	if err != nil {
		Logger.Errorf("Failed to generate token for %s: %v", conn.RemoteAddr(), err)
		_ = conn.Close()
		return
	}

	id := uuid.NewString()
	session := NewSession(id, conn, token, s.config.Limits(), s.dispatcher, s.fs, s.config.SettleDelay())

	s.sessions.Store(id, session)
	defer s.sessions.Delete(id)
	s.metrics.sessionStarted()

	// closeSessions may have run before the session was registered
	if s.closing.Load() {
		_ = session.Close()
		return
	}

	Logger.Infof("session %s: connection from %s", id, conn.RemoteAddr())
	start := time.Now()

	var runErr error
	if recovered := panics.Try(func() { runErr = session.Run() }); recovered != nil {
		_ = session.Close()
		Logger.Errorf("session %s: panic: %v\n%s", id, recovered.Value, recovered.Stack)
		return
	}

	switch {
	case runErr == nil:
		Logger.Infof("session %s: closed after %s", id, time.Since(start).Round(time.Millisecond))
	case errors.Is(runErr, net.ErrClosed) && s.closing.Load():
		Logger.Infof("session %s: closed by shutdown", id)
	default:
		Logger.Errorf("session %s: %v", id, runErr)
	}
}

// closeSessions closes the connections of all running sessions
func (s *Server) closeSessions() error {
	s.closing.Store(true)

	var err error
	s.sessions.Range(func(id string, session *Session) bool {
		if closeErr := session.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
			err = multierr.Append(err, fmt.Errorf("session %s: %w", id, closeErr))
		}
		return true
	})
	return err
}
