// Package tcp implements the TCP socket transport of the dFS session protocol.
// It provides concrete implementations of the base package's connector
// interfaces, see the base package documentation for the accept loop.
//
// Key Components:
//
//   - clientConnector: TCP-specific implementation of base.IClientConnector
//
//   - serverConnector: TCP-specific implementation of base.IServerConnector
//
//   - UpgradeConnection: applies TCP_NODELAY, keep-alive, linger and socket buffer
//     sizes from the transport configuration. It is shared by both sides and by
//     the websocket transport, which runs on TCP as well.
package tcp
