package frame

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	// TokenLen is the fixed length of a Token including the angle brackets
	TokenLen = 10

	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// largest multiple of len(tokenAlphabet) that fits in a byte, used for rejection sampling
	tokenSampleLimit = 256 - 256%len(tokenAlphabet)
)

// Token is the per-connection delimiter, shaped `<` + 8 alphanumeric chars + `>`.
// It is shared by both peers for the lifetime of a connection and never renegotiated.
type Token [TokenLen]byte

// TokenGenerator produces a fresh token. It is invoked once per accepted connection.
type TokenGenerator func() (Token, error)

// GenerateToken creates a new random token using crypto/rand
func GenerateToken() (Token, error) {
	var t Token
	t[0] = '<'
	t[TokenLen-1] = '>'

	randomBytes := make([]byte, 16)
	for i := 1; i < TokenLen-1; {
		if _, err := rand.Read(randomBytes); err != nil {
			return Token{}, fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range randomBytes {
			if int(b) >= tokenSampleLimit {
				continue
			}
			t[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
			i++
			if i == TokenLen-1 {
				break
			}
		}
	}
	return t, nil
}

// ParseToken validates the shape of a received token
func ParseToken(b []byte) (Token, error) {
	var t Token
	if len(b) != TokenLen {
		return t, fmt.Errorf("%w: token has length %d, expected %d", ErrHandshake, len(b), TokenLen)
	}
	if b[0] != '<' || b[TokenLen-1] != '>' {
		return t, fmt.Errorf("%w: token %q is not enclosed in angle brackets", ErrHandshake, b)
	}
	for _, c := range b[1 : TokenLen-1] {
		if !isAlphanumeric(c) {
			return t, fmt.Errorf("%w: token %q contains invalid character %q", ErrHandshake, b, c)
		}
	}
	copy(t[:], b)
	return t, nil
}

// WriteHandshake sends the token as raw, unframed bytes. It is the first thing the
// server writes on a new connection.
func WriteHandshake(w io.Writer, t Token) error {
	if _, err := w.Write(t[:]); err != nil {
		return transportError(fmt.Errorf("failed to send token: %w", err))
	}
	return nil
}

// ReadHandshake reads and validates the raw token sent by the server
func ReadHandshake(r io.Reader) (Token, error) {
	buf := make([]byte, TokenLen)
	if n, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Token{}, transportError(fmt.Errorf("%w: received %d of %d bytes", ErrHandshake, n, TokenLen))
		}
		return Token{}, transportError(err)
	}
	t, err := ParseToken(buf)
	if err != nil {
		return Token{}, transportError(err)
	}
	return t, nil
}

func (t Token) String() string {
	return string(t[:])
}

// Bytes returns the token as a byte slice
func (t Token) Bytes() []byte {
	return t[:]
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
