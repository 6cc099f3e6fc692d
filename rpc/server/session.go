package server

import (
	"errors"
	"github.com/ValentinKolb/dFS/lib/vfs"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/ValentinKolb/dFS/rpc/frame"
	"github.com/lni/dragonboat/v4/logger"
	"io"
	"net"
	"sync"
	"time"
)

var sessionLogger = logger.GetLogger("session")

// State is the protocol state of a session
type State int

const (
	StateHandshake State = iota
	StateAnnounce
	StateListen
	StateDispatch
	StateClose
)

func (s State) String() string {
	switch s {
	case StateHandshake:
		return "HANDSHAKE"
	case StateAnnounce:
		return "ANNOUNCE"
	case StateListen:
		return "LISTEN"
	case StateDispatch:
		return "DISPATCH"
	case StateClose:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}

// Session is the conversation with one client. It owns the connection and its
// codec; the dispatcher and filesystem are shared with the other sessions.
//
// Thread-safety: Run must be called once, from one goroutine. Close may be called
// from any goroutine.
type Session struct {
	id         string
	conn       net.Conn
	codec      *frame.Codec
	dispatcher *Dispatcher
	fs         vfs.IFileSystem
	settle     time.Duration
	metrics    *serverMetrics

	dir   string
	state State

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewSession creates a session on conn. The session starts in the filesystem root.
func NewSession(id string, conn net.Conn, token frame.Token, limits frame.Limits, dispatcher *Dispatcher, fs vfs.IFileSystem, settle time.Duration) *Session {
	return &Session{
		id:         id,
		conn:       conn,
		codec:      frame.NewCodec(conn, conn, token, limits),
		dispatcher: dispatcher,
		fs:         fs,
		settle:     settle,
		metrics:    dispatcher.metrics,
		dir:        "/",
		state:      StateHandshake,
		done:       make(chan struct{}),
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Token returns the token of the session
func (s *Session) Token() frame.Token {
	return s.codec.Token()
}

// Dir returns the current directory. Only valid after Run returned.
func (s *Session) Dir() string {
	return s.dir
}

// State returns the last state of the session. Only valid after Run returned.
func (s *Session) State() State {
	return s.state
}

// Close closes the connection, a running session stops with its next read or write
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

// Run drives the session until the client leaves or the connection fails.
// It returns nil for a regular end (exit, empty command, client closed the
// connection) and the transport error otherwise. The connection is closed on return.
func (s *Session) Run() (err error) {
	defer func() {
		s.state = StateClose
		if closeErr := s.Close(); err == nil && closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
			err = closeErr
		}
	}()

	// the token is sent raw, before any frame
	if err := frame.WriteHandshake(s.conn, s.codec.Token()); err != nil {
		return err
	}
	s.state = StateAnnounce

	var cmd common.Command
	for {
		switch s.state {
		case StateAnnounce:
			if err := s.announce(); err != nil {
				return err
			}
			s.state = StateListen

		case StateListen:
			payload, err := s.codec.ReadText()
			if errors.Is(err, io.EOF) {
				sessionLogger.Debugf("session %s: client closed the connection", s.id)
				return nil
			}
			if err != nil {
				return err
			}

			cmd, err = common.ParseCommand(string(payload))
			switch {
			case errors.Is(err, common.ErrEmptyCommand):
				sessionLogger.Debugf("session %s: empty command", s.id)
				return nil
			case err != nil:
				// malformed commands are skipped without any answer
				sessionLogger.Warningf("session %s: skipping malformed command %q: %v", s.id, payload, err)
				s.metrics.addMalformed()
				continue
			}
			s.state = StateDispatch

		case StateDispatch:
			sessionLogger.Debugf("session %s: %s in %s", s.id, cmd, s.dir)
			outcome, err := s.dispatcher.Dispatch(cmd, &Request{
				SessionID: s.id,
				Dir:       s.dir,
				Codec:     s.codec,
			})
			if err != nil {
				return err
			}
			s.dir = outcome.Dir
			if outcome.Close {
				return nil
			}
			if !s.wait() {
				return net.ErrClosed
			}
			s.state = StateAnnounce

		default:
			return nil
		}
	}
}

// announce sends the listing of the current directory
func (s *Session) announce() error {
	listing := common.Listing{Path: s.dir}

	dirs, files, err := s.fs.ListDir(s.dir)
	if err != nil {
		// the directory was removed from outside the session
		sessionLogger.Warningf("session %s: listing %s failed: %v", s.id, s.dir, err)
	} else {
		listing.Dirs, listing.Files = dirs, files
	}

	return s.codec.WriteText([]byte(listing.String()))
}

// wait pauses for the settle delay so filesystem effects are visible in the next
// listing. It returns false if the session was closed meanwhile.
func (s *Session) wait() bool {
	if s.settle <= 0 {
		return true
	}
	timer := time.NewTimer(s.settle)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-s.done:
		return false
	}
}
