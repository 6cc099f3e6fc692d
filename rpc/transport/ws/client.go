package ws

import (
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/ValentinKolb/dFS/rpc/transport"
	"github.com/ValentinKolb/dFS/rpc/transport/base"
	"github.com/ValentinKolb/dFS/rpc/transport/tcp"
	"github.com/gorilla/websocket"
	"net"
	"strings"
)

// clientConnector implements the IClientConnector interface for websockets
type clientConnector struct {
	dialer *websocket.Dialer
}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "ws"
}

func (c *clientConnector) Connect(config common.TransportConfig) (net.Conn, error) {
	ws, _, err := c.dialer.Dial(URL(config), nil)
	if err != nil {
		return nil, err
	}
	return newConn(ws), nil
}

func (c *clientConnector) UpgradeConnection(conn net.Conn, config common.TransportConfig) error {
	if wc, ok := conn.(*wsConn); ok {
		return tcp.UpgradeConnection(wc.NetConn(), config)
	}
	return nil
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewWSClientTransport creates a new websocket client transport
func NewWSClientTransport() transport.IClientTransport {
	return base.NewBaseClientTransport(&clientConnector{dialer: websocket.DefaultDialer})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// URL returns the websocket URL of an endpoint. Endpoints that already carry a
// ws:// or wss:// scheme are used as given.
func URL(config common.TransportConfig) string {
	if strings.HasPrefix(config.Endpoint, "ws://") || strings.HasPrefix(config.Endpoint, "wss://") {
		return config.Endpoint
	}
	return "ws://" + config.Endpoint + pathOf(config)
}

func pathOf(config common.TransportConfig) string {
	if config.WSPath == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(config.WSPath, "/") {
		return "/" + config.WSPath
	}
	return config.WSPath
}
