// Package base provides the protocol independent part of the dFS transports.
// It implements the accept loop and the dialer once, protocol specific
// behavior is injected through connectors.
//
// Key Components:
//
//   - IServerConnector/IClientConnector: Interfaces for protocol-specific operations
//     (creating listeners, dialing, applying socket options).
//
//   - serverTransport: Accepts connections until the serving context is canceled
//     and runs the registered handler for each of them in a dedicated goroutine.
//     The goroutines are tracked with a conc.WaitGroup, so Serve returns only
//     after every handler returned and a panicking handler is surfaced as an
//     error instead of crashing the process.
//
//   - clientTransport: Dials an endpoint and applies the connector upgrade.
//
// Thread Safety:
//
//	Listen, Addr and Serve may be called from different goroutines. Connections
//	are never shared between handlers.
package base
