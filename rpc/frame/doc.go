// Package frame implements the wire framing shared by the dFS server and client.
// A single byte stream carries two kinds of frames:
//
//   - DelimitedText: an arbitrary payload followed by the per-connection Token.
//     Used for commands, results, length announcements and directory listings.
//
//   - LengthPrefixedBinary: a raw block of a previously announced byte length,
//     with no terminator. Used for file contents, which may contain the Token.
//
// The two kinds are never ambiguous because a binary block is always announced by
// a preceding DelimitedText frame holding its decimal length. The reader of a
// connection keeps the bytes it pulled from the stream beyond the last located
// Token (the leftover) and consumes them first on the next read, so coalesced
// frames and binary bytes that arrived together with their length frame are never
// lost.
//
// Key Components:
//
//   - Token: the 10 byte delimiter `<xxxxxxxx>`, generated once per connection
//     by GenerateToken and sent unframed as the first bytes of a connection.
//
//   - ReadDelimitedText / ReadExact: the stateless decoding primitives.
//
//   - Codec: the stateful per-connection reader/writer. Both peers use the same
//     Codec, which is what keeps the contract identical on both ends.
//
// Error Classification:
//
//	Every error returned by a Codec wraps ErrTransport. A transport error leaves
//	the stream in an unknown position and must terminate the connection.
package frame
