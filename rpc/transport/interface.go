package transport

import (
	"context"
	"github.com/ValentinKolb/dFS/rpc/common"
	"net"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ConnHandler is called by a server transport for every accepted connection.
// The handler owns the connection and must close it when it returns.
type ConnHandler func(conn net.Conn)

// IServerTransport is the interface for the server side of a byte stream carrier
type IServerTransport interface {
	// RegisterHandler registers the handler that is run for every accepted connection
	RegisterHandler(handler ConnHandler)
	// Listen binds the transport to the configured endpoint without accepting connections yet
	Listen(config common.TransportConfig) error
	// Addr returns the bound address (nil before Listen)
	Addr() net.Addr
	// Serve accepts connections until the context is canceled. Every connection is
	// handled in its own goroutine; Serve returns after all handlers returned.
	Serve(ctx context.Context) error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IClientTransport is the interface for the client side of a byte stream carrier
type IClientTransport interface {
	// Dial opens a connection to the configured endpoint
	Dial(config common.TransportConfig) (net.Conn, error)
}
