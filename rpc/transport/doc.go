// Package transport defines the interfaces for the byte stream carriers of the
// dFS session protocol. The protocol itself (token handshake, framing, command
// dispatch) is independent of the carrier, so every implementation only has to
// deliver an ordered, reliable byte stream as a net.Conn.
//
// Key Components:
//
//   - IServerTransport: Binds an endpoint and runs a ConnHandler in its own
//     goroutine for every accepted connection until the serving context ends.
//
//   - IClientTransport: Dials an endpoint and returns the connection.
//
// Implementations are tcp, unix (domain sockets) and ws (websocket, the stream is
// carried in binary messages). All of them are built on the base package.
package transport
