// Package rpc provides the session layer of dFS: the framing of the byte
// stream, the command vocabulary and the server and client built on them.
//
// The package is organized into several subpackages:
//
//   - frame: Session tokens and the two frame encodings (token delimited text,
//     length prefixed binary) including the leftover handling between frames.
//
//   - common: The command vocabulary, the directory listing, configuration
//     structures and logging.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, WebSocket). Transports hand plain net.Conn streams to
//     the server.
//
//   - server: Connection listener, per connection session state machine and the
//     command dispatcher.
//
//   - client: Client driver that keeps the frame stream in sync and turns frames
//     back into typed results.
package rpc
