package server

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dFS/lib/vfs"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/ValentinKolb/dFS/rpc/frame"
	"time"
)

// ErrCommandFailed marks a failure local to one command (missing file, existing
// directory, ...). It is logged and swallowed, the session continues as if the
// command had no effect.
var ErrCommandFailed = errors.New("command failed")

// Request is the input of a handler
type Request struct {
	// SessionID identifies the session in logs
	SessionID string
	// Dir is the current directory of the session (absolute)
	Dir string
	// Args holds the command arguments, their count is validated before dispatch
	Args []string
	// Codec is the connection of the session, used for result frames and transfers
	Codec *frame.Codec
}

// Outcome is the result of a handler
type Outcome struct {
	// Dir is the current directory after the command
	Dir string
	// Close ends the session without a further directory announcement
	Close bool
}

// HandlerFunc executes one command. Local failures are returned wrapped in
// ErrCommandFailed, every other error is a transport failure that ends the session.
type HandlerFunc func(req *Request) (Outcome, error)

// Dispatcher routes commands to their handlers. The dispatch table is built once
// and never modified, so a Dispatcher can be shared by all sessions.
type Dispatcher struct {
	handlers map[common.Verb]HandlerFunc
	metrics  *serverMetrics
}

// NewDispatcher creates a dispatcher whose handlers operate on fs
func NewDispatcher(fs vfs.IFileSystem) *Dispatcher {
	return newDispatcher(fs, nil)
}

func newDispatcher(fs vfs.IFileSystem, m *serverMetrics) *Dispatcher {
	h := &handlers{fs: fs, metrics: m}
	return &Dispatcher{
		metrics: m,
		handlers: map[common.Verb]HandlerFunc{
			common.VerbMkdir:     h.mkdir,
			common.VerbCd:        h.cd,
			common.VerbRm:        h.rm,
			common.VerbUl:        h.upload,
			common.VerbDl:        h.download,
			common.VerbWordCount: h.wordCount,
			common.VerbWordSort:  h.wordSort,
			common.VerbSearch:    h.search,
			common.VerbSplit:     h.split,
			common.VerbExit:      h.exit,
		},
	}
}

// Handles reports whether the dispatcher has a handler for verb
func (d *Dispatcher) Handles(verb common.Verb) bool {
	_, ok := d.handlers[verb]
	return ok
}

// Dispatch runs the handler of cmd. A local failure is logged and yields an
// outcome that keeps the current directory; only transport failures are returned.
func (d *Dispatcher) Dispatch(cmd common.Command, req *Request) (Outcome, error) {
	handler, ok := d.handlers[cmd.Verb]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", common.ErrUnknownVerb, cmd.Verb)
	}

	req.Args = cmd.Args
	start := time.Now()
	outcome, err := handler(req)
	d.metrics.observeCommand(cmd.Verb, start, err)

	if errors.Is(err, ErrCommandFailed) {
		Logger.Warningf("session %s: %s failed: %v", req.SessionID, cmd, err)
		return Outcome{Dir: req.Dir}, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	if outcome.Dir == "" {
		outcome.Dir = req.Dir
	}
	return outcome, nil
}

// failed wraps a local failure
func failed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCommandFailed, fmt.Sprintf(format, args...))
}
