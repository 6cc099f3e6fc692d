package frame

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
)

// Limits constrains the codec's read behavior
type Limits struct {
	// ChunkSize is the size of a single read from the stream
	ChunkSize int
	// MaxBinaryBytes is the largest accepted binary block (0 = unlimited)
	MaxBinaryBytes int
}

// DefaultLimits returns 1 KB reads and a 1 GB transfer limit
func DefaultLimits() Limits {
	return Limits{
		ChunkSize:      DefaultChunkSize,
		MaxBinaryBytes: 1 << 30,
	}
}

// Codec reads and writes frames of one connection. It owns the receive buffer
// of the connection, so all reads of a connection must go through the same Codec.
//
// Thread-safety: A Codec is not safe for concurrent use. Each connection is owned by
// exactly one goroutine.
type Codec struct {
	r        io.Reader
	w        io.Writer
	token    Token
	limits   Limits
	leftover []byte
}

// NewCodec creates a codec reading from r and writing to w
func NewCodec(r io.Reader, w io.Writer, token Token, limits Limits) *Codec {
	if limits.ChunkSize <= 0 {
		limits.ChunkSize = DefaultChunkSize
	}
	return &Codec{
		r:      r,
		w:      w,
		token:  token,
		limits: limits,
	}
}

// Token returns the token of the connection
func (c *Codec) Token() Token {
	return c.token
}

// --------------------------------------------------------------------------
// Frame API
// --------------------------------------------------------------------------

// ReadFrame reads the next frame of the given kind
func (c *Codec) ReadFrame(kind Kind) (Frame, error) {
	switch kind {
	case KindDelimitedText:
		payload, err := c.ReadText()
		return Text(payload), err
	case KindLengthPrefixedBinary:
		payload, err := c.ReadBinary()
		return Binary(payload), err
	default:
		return Frame{}, fmt.Errorf("unknown frame kind %s", kind)
	}
}

// WriteFrame writes a frame using the encoding selected by its kind
func (c *Codec) WriteFrame(f Frame) error {
	switch f.Kind {
	case KindDelimitedText:
		return c.WriteText(f.Payload)
	case KindLengthPrefixedBinary:
		return c.WriteBinary(f.Payload)
	default:
		return fmt.Errorf("unknown frame kind %s", f.Kind)
	}
}

// --------------------------------------------------------------------------
// Text Frames
// --------------------------------------------------------------------------

// ReadText reads one delimited text frame. On ErrTruncated the partial payload is
// returned along with the error.
func (c *Codec) ReadText() ([]byte, error) {
	payload, leftover, err := ReadDelimitedText(c.r, c.token, c.leftover, c.limits.ChunkSize)
	if err != nil {
		c.leftover = nil
		return payload, transportError(err)
	}
	c.leftover = leftover
	return payload, nil
}

// WriteText writes payload followed by the token
func (c *Codec) WriteText(payload []byte) error {
	if bytes.Contains(payload, c.token[:]) {
		return ErrTokenInPayload
	}
	b := net.Buffers{payload, c.token[:]}
	if _, err := b.WriteTo(c.w); err != nil {
		return transportError(err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Binary Frames
// --------------------------------------------------------------------------

// ReadBinary reads a length announcement followed by exactly that many raw bytes
func (c *Codec) ReadBinary() ([]byte, error) {
	header, err := c.ReadText()
	if err != nil {
		return nil, err
	}
	n, err := ParseLength(header)
	if err != nil {
		return nil, transportError(err)
	}
	if c.limits.MaxBinaryBytes > 0 && n > c.limits.MaxBinaryBytes {
		return nil, transportError(fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, n, c.limits.MaxBinaryBytes))
	}
	return c.ReadRaw(n)
}

// WriteBinary writes a length announcement followed by the raw payload
func (c *Codec) WriteBinary(payload []byte) error {
	if err := c.WriteText(FormatLength(len(payload))); err != nil {
		return err
	}
	return c.WriteRaw(payload)
}

// --------------------------------------------------------------------------
// Raw Bytes
// --------------------------------------------------------------------------

// ReadRaw reads exactly n unframed bytes, consuming the leftover first
func (c *Codec) ReadRaw(n int) ([]byte, error) {
	data, rest, err := ReadExact(c.r, c.leftover, n)
	if err != nil {
		c.leftover = nil
		return nil, transportError(err)
	}
	c.leftover = rest
	return data, nil
}

// WriteRaw writes unframed bytes
func (c *Codec) WriteRaw(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := c.w.Write(p); err != nil {
		return transportError(err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// IsTransportError reports whether err must terminate the connection
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

func transportError(err error) error {
	if err == nil || errors.Is(err, ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
