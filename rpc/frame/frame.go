package frame

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// DefaultChunkSize is the size of a single read from the stream
const DefaultChunkSize = 1024

var (
	// ErrTransport marks failures that leave the stream unusable
	ErrTransport = errors.New("frame: transport failure")
	// ErrTruncated is returned when the stream ends inside a delimited frame
	ErrTruncated = errors.New("frame: stream closed before token")
	// ErrShortRead is returned when the stream ends inside a binary block
	ErrShortRead = errors.New("frame: stream closed before announced length")
	// ErrHandshake is returned when the token exchange is incomplete or malformed
	ErrHandshake = errors.New("frame: invalid token handshake")
	// ErrBadLength is returned when a length announcement is not a decimal byte count
	ErrBadLength = errors.New("frame: invalid length announcement")
	// ErrTooLarge is returned when an announced binary block exceeds the configured limit
	ErrTooLarge = errors.New("frame: binary block too large")
	// ErrTokenInPayload is returned when a text payload contains the token
	ErrTokenInPayload = errors.New("frame: text payload contains token")
)

// --------------------------------------------------------------------------
// Frame Kinds
// --------------------------------------------------------------------------

// Kind selects how a frame is encoded on the wire
type Kind uint8

const (
	// KindDelimitedText is a payload terminated by the token
	KindDelimitedText Kind = iota + 1
	// KindLengthPrefixedBinary is a decimal length text frame followed by raw bytes
	KindLengthPrefixedBinary
)

func (k Kind) String() string {
	switch k {
	case KindDelimitedText:
		return "text"
	case KindLengthPrefixedBinary:
		return "binary"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Frame is one protocol message unit. The caller always selects the kind explicitly.
type Frame struct {
	Kind    Kind
	Payload []byte
}

// Text creates a delimited text frame
func Text(payload []byte) Frame {
	return Frame{Kind: KindDelimitedText, Payload: payload}
}

// Binary creates a length prefixed binary frame
func Binary(payload []byte) Frame {
	return Frame{Kind: KindLengthPrefixedBinary, Payload: payload}
}

// --------------------------------------------------------------------------
// Decoding Primitives
// --------------------------------------------------------------------------

// ReadDelimitedText reads from r until the token is found in the cumulative buffer.
// buf holds bytes already pulled from the stream (the leftover of a previous read)
// and is consumed first. On a match it returns the bytes before the token and the
// bytes after it, which belong to the next frame.
//
// Bytes that have been searched once are not searched again: only the last
// len(token)-1 bytes before the scan frontier are revisited, since the token may
// straddle two chunks.
//
// If the stream ends before a match, the accumulated bytes are returned together
// with ErrTruncated. If it ends before any byte was accumulated, io.EOF is returned.
func ReadDelimitedText(r io.Reader, token Token, buf []byte, chunkSize int) (payload, leftover []byte, err error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	chunk := make([]byte, chunkSize)
	scanned := 0
	var readErr error

	for {
		// search only the part of the buffer that can contain a new match
		if idx := bytes.Index(buf[scanned:], token[:]); idx >= 0 {
			idx += scanned
			return buf[:idx:idx], buf[idx+TokenLen:], nil
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				if len(buf) == 0 {
					return nil, nil, io.EOF
				}
				return buf, nil, ErrTruncated
			}
			return buf, nil, readErr
		}

		// everything except a possible token prefix at the end has been ruled out
		scanned = max(scanned, len(buf)-TokenLen+1)

		var n int
		n, readErr = r.Read(chunk)
		buf = append(buf, chunk[:n]...)
	}
}

// ReadExact returns exactly n bytes, taking them from leftover first and then from r.
// Bytes of leftover beyond n are returned as rest. A stream that ends before n bytes
// are available yields ErrShortRead.
func ReadExact(r io.Reader, leftover []byte, n int) (data, rest []byte, err error) {
	if n < 0 {
		return nil, leftover, fmt.Errorf("%w: negative length %d", ErrBadLength, n)
	}

	// case: everything is already buffered
	if len(leftover) >= n {
		return leftover[:n:n], leftover[n:], nil
	}

	data = make([]byte, n)
	copied := copy(data, leftover)
	if _, err := io.ReadFull(r, data[copied:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, nil, fmt.Errorf("%w: wanted %d bytes", ErrShortRead, n)
		}
		return nil, nil, err
	}
	return data, nil, nil
}

// ParseLength parses the payload of a length announcement frame
func ParseLength(payload []byte) (int, error) {
	n, err := strconv.Atoi(string(bytes.TrimSpace(payload)))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadLength, truncate(payload, 32))
	}
	return n, nil
}

// FormatLength encodes a byte count as a length announcement payload
func FormatLength(n int) []byte {
	return strconv.AppendInt(nil, int64(n), 10)
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
