package base

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/ValentinKolb/dFS/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/sourcegraph/conc"
	"net"
	"sync"
	"time"
)

var Logger = logger.GetLogger("transport")

// acceptBackoff is the pause after a failed accept
const acceptBackoff = 50 * time.Millisecond

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.TransportConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.TransportConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector IServerConnector
	handler   transport.ConnHandler
	config    common.TransportConfig
	mu        sync.Mutex // protects listener
	listener  net.Listener
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport with the specified connector
func NewBaseServerTransport(connector IServerConnector) transport.IServerTransport {
	return &serverTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ConnHandler) {
	t.handler = handler
}

func (t *serverTransport) Listen(config common.TransportConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listener != nil {
		return fmt.Errorf("%s transport is already listening on %s", t.connector.GetName(), t.listener.Addr())
	}

	// Create listener using the connector
	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	t.config = config
	t.listener = listener
	Logger.Infof("%s transport listening on %s", t.connector.GetName(), listener.Addr())
	return nil
}

func (t *serverTransport) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *serverTransport) Serve(ctx context.Context) error {
	t.mu.Lock()
	listener := t.listener
	t.mu.Unlock()

	if listener == nil {
		return fmt.Errorf("%s transport: Serve called before Listen", t.connector.GetName())
	}
	if t.handler == nil {
		return fmt.Errorf("%s transport: no connection handler registered", t.connector.GetName())
	}

	// Close the listener when the context ends, this unblocks Accept
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
		}
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			Logger.Warningf("Failed to close listener: %v", err)
		}
	}()

	var wg conc.WaitGroup

	// Accept connections
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			Logger.Errorf("Accept error: %v", err)
			time.Sleep(acceptBackoff)
			continue
		}

		// Apply transport specific settings
		if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
			Logger.Warningf("Failed to upgrade connection from %s: %v", conn.RemoteAddr(), err)
			_ = conn.Close()
			continue
		}

		Logger.Debugf("Accepted %s connection from %s", t.connector.GetName(), conn.RemoteAddr())

		// Handle the connection in its own goroutine
		wg.Go(func() {
			t.handler(conn)
		})
	}

	Logger.Infof("%s transport stopped accepting connections, waiting for handlers", t.connector.GetName())

	// Wait for all handlers, a panicking handler is reported as error
	if recovered := wg.WaitAndRecover(); recovered != nil {
		return fmt.Errorf("connection handler panicked: %w", recovered.AsError())
	}
	return nil
}
