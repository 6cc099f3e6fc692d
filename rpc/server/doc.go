// Package server implements the dFS session server: the connection listener, the
// per-connection session state machine and the command dispatcher.
//
// The package focuses on:
//   - One independent session per connection, each with its own token and
//     current directory
//   - A dispatch table mapping every verb to its handler
//   - Keeping the stream in sync: local failures never produce frames the client
//     does not expect, transport failures end the session
//
// Key Components:
//
//   - Server: Registers itself as the transport's connection handler. For every
//     connection it generates a token and runs a Session. Running sessions are kept
//     in a concurrent registry so shutdown can close them.
//
//   - Session: The state machine HANDSHAKE -> ANNOUNCE -> LISTEN -> DISPATCH ->
//     ANNOUNCE. An empty command, exit or a closed connection ends it. Malformed
//     commands are skipped without an answer.
//
//   - Dispatcher: Routes a parsed command to its HandlerFunc. Handlers report local
//     failures wrapped in ErrCommandFailed; these are logged and counted, the
//     session continues with its current directory.
//
//   - Metrics: Prometheus counters (sessions, commands and failures per verb,
//     malformed commands, transferred bytes) exposed on an optional /metrics
//     endpoint, and a periodic stats log with rolling rates.
//
// Usage Example:
//
//	fs, err := vfs.NewOSFileSystem("./data")
//	if err != nil {
//	  log.Fatal(err)
//	}
//
//	s := server.NewServer(config, tcp.NewTCPServerTransport(), fs)
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	if err := s.Serve(ctx); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
package server
