package ws

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/ValentinKolb/dFS/rpc/transport"
	"github.com/ValentinKolb/dFS/rpc/transport/base"
	"github.com/ValentinKolb/dFS/rpc/transport/tcp"
	"github.com/gorilla/websocket"
	"net"
	"net/http"
	"sync"
	"time"
)

// DefaultPath is the HTTP path used when the configuration names none
const DefaultPath = "/dfs"

// serverConnector implements the IServerConnector interface for websockets
type serverConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IServerConnector)
// --------------------------------------------------------------------------

func (c *serverConnector) GetName() string {
	return "ws"
}

func (c *serverConnector) Listen(config common.TransportConfig) (net.Listener, error) {
	ln, err := net.Listen("tcp", config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create TCP socket: %w", err)
	}
	return newListener(ln, pathOf(config)), nil
}

func (c *serverConnector) UpgradeConnection(conn net.Conn, config common.TransportConfig) error {
	if wc, ok := conn.(*wsConn); ok {
		return tcp.UpgradeConnection(wc.NetConn(), config)
	}
	return nil
}

// --------------------------------------------------------------------------
// Server Transport Factory Method
// --------------------------------------------------------------------------

// NewWSServerTransport creates a new websocket server transport
func NewWSServerTransport() transport.IServerTransport {
	return base.NewBaseServerTransport(&serverConnector{})
}

// --------------------------------------------------------------------------
// Listener
// --------------------------------------------------------------------------

// listener serves websocket upgrades over HTTP and hands out every upgraded
// connection through Accept
type listener struct {
	ln       net.Listener
	srv      *http.Server
	upgrader websocket.Upgrader
	conns    chan net.Conn

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func newListener(ln net.Listener, path string) *listener {
	l := &listener{
		ln: ln,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		conns: make(chan net.Conn),
		done:  make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, l.handleUpgrade)
	l.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			base.Logger.Errorf("websocket http server failed: %v", err)
		}
	}()
	return l
}

// handleUpgrade upgrades the request and queues the connection for Accept
func (l *listener) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	ws, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		base.Logger.Warningf("websocket upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}

	conn := newConn(ws)
	select {
	case l.conns <- conn:
	case <-l.done:
		_ = conn.Close()
	}
}

func (l *listener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.conns:
		return conn, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

// Close stops the HTTP server. Upgraded connections are hijacked and stay open.
func (l *listener) Close() error {
	l.closeOnce.Do(func() {
		close(l.done)
		l.closeErr = l.srv.Close()
	})
	return l.closeErr
}

func (l *listener) Addr() net.Addr {
	return l.ln.Addr()
}
