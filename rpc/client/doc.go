// Package client implements the client driver of the dFS session protocol.
//
// Connect dials a server through any transport.IClientTransport, reads the raw
// 10 byte token and the initial directory listing. Afterwards every operation
// sends one command frame and reads the complete answer, so the stream never
// gets out of step:
//
//   - mkdir, cd, rm and ul are answered by the directory listing only
//   - wordcount, wordsort, search and split by a result frame and the listing
//   - dl by a length frame, the raw file bytes and the listing
//   - exit by the goodbye message, after which the server closes the connection
//
// The protocol has no error frame. When the server cannot execute a command that
// normally produces a result, the listing arrives in place of the result; the
// driver detects this and returns ErrNoResult together with the listing.
//
// Receives are bounded by the configured timeout, a receive that times out is
// retried instead of failing the operation.
//
// Usage Example:
//
//	c, err := client.Connect(config, tcp.NewTCPClientTransport())
//	if err != nil {
//	  log.Fatal(err)
//	}
//	defer c.Close()
//
//	if _, err := c.Upload("notes.txt", data); err != nil {
//	  log.Fatal(err)
//	}
//	n, _, err := c.WordCount("notes.txt")
package client
