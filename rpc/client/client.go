package client

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dFS/lib/textops"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/ValentinKolb/dFS/rpc/frame"
	"github.com/ValentinKolb/dFS/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"net"
	"strconv"
	"strings"
	"sync"
)

var (
	Logger = logger.GetLogger("client")
)

var (
	// ErrNoResult is returned when the server answered with the directory listing
	// where a result was expected: the command failed on the server side
	ErrNoResult = errors.New("server sent no result")
	// ErrClosed is returned for operations on a closed client
	ErrClosed = errors.New("client is closed")
	// ErrUnexpectedResponse is returned for a result that cannot be parsed
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// Client drives one session. Every operation sends one command and reads the
// complete answer including the following directory listing, which is returned
// and kept as the current listing.
//
// Thread-safety: Operations are serialized, a Client may be shared by goroutines.
type Client struct {
	config common.ClientConfig
	conn   net.Conn
	codec  *frame.Codec

	mu      sync.Mutex
	listing common.Listing
	closed  bool
}

// Connect dials the server, completes the token handshake and reads the initial listing
func Connect(config common.ClientConfig, t transport.IClientTransport) (*Client, error) {
	conn, err := t.Dial(config.Transport)
	if err != nil {
		return nil, err
	}

	r := &retryReader{conn: conn, timeout: config.Timeout()}
	token, err := frame.ReadHandshake(r)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	Logger.Debugf("Handshake with %s done, token is %s", conn.RemoteAddr(), token)

	c := &Client{
		config: config,
		conn:   conn,
		codec:  frame.NewCodec(r, conn, token, config.Limits()),
	}
	if _, err := c.readListing(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to read initial listing: %w", err)
	}
	return c, nil
}

// Token returns the token of the session
func (c *Client) Token() frame.Token {
	return c.codec.Token()
}

// Listing returns the last directory listing received
func (c *Client) Listing() common.Listing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listing
}

// Close closes the connection without saying goodbye
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// --------------------------------------------------------------------------
// Directory commands
// --------------------------------------------------------------------------

// Mkdir creates a directory in the current directory
func (c *Client) Mkdir(name string) (common.Listing, error) {
	return c.simple(common.NewCommand(common.VerbMkdir, name))
}

// Cd changes the current directory. A target that is not a directory leaves it unchanged.
func (c *Client) Cd(name string) (common.Listing, error) {
	return c.simple(common.NewCommand(common.VerbCd, name))
}

// Rm removes a file or a directory with its contents
func (c *Client) Rm(name string) (common.Listing, error) {
	return c.simple(common.NewCommand(common.VerbRm, name))
}

// --------------------------------------------------------------------------
// Transfers
// --------------------------------------------------------------------------

// Upload stores data as file name in the current directory
func (c *Client) Upload(name string, data []byte) (common.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(common.NewCommand(common.VerbUl, name)); err != nil {
		return common.Listing{}, err
	}
	if err := c.codec.WriteFrame(frame.Binary(data)); err != nil {
		return common.Listing{}, err
	}
	return c.readListing()
}

// Download returns the content of file name. If the server cannot read the file
// it sends no data, ErrNoResult is returned together with the listing.
func (c *Client) Download(name string) ([]byte, common.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(common.NewCommand(common.VerbDl, name)); err != nil {
		return nil, common.Listing{}, err
	}

	// a missing file is answered with the listing in place of the length frame,
	// so the length is read as text frame first
	header, err := c.codec.ReadFrame(frame.KindDelimitedText)
	if err != nil {
		return nil, common.Listing{}, err
	}
	if l, ok := c.acceptListing(header.Payload); ok {
		return nil, l, ErrNoResult
	}

	n, err := frame.ParseLength(header.Payload)
	if err != nil {
		return nil, common.Listing{}, fmt.Errorf("%w: %w", frame.ErrTransport, err)
	}
	if limit := c.config.MaxTransferBytes; limit > 0 && n > limit {
		// the announced bytes are still on the wire, the stream can not be resumed
		c.closed = true
		_ = c.conn.Close()
		return nil, common.Listing{}, fmt.Errorf("%w: %w: %d > %d bytes", frame.ErrTransport, frame.ErrTooLarge, n, limit)
	}
	data, err := c.codec.ReadRaw(n)
	if err != nil {
		return nil, common.Listing{}, err
	}

	l, err := c.readListing()
	return data, l, err
}

// --------------------------------------------------------------------------
// Text analysis
// --------------------------------------------------------------------------

// WordCount returns the number of distinct words of a file
func (c *Client) WordCount(name string) (int, common.Listing, error) {
	result, l, err := c.result(common.NewCommand(common.VerbWordCount, name))
	if err != nil {
		return 0, l, err
	}
	n, err := parseCount(result)
	return n, l, err
}

// WordSort returns the distinct words of a file in alphabetical order
func (c *Client) WordSort(name string) ([]string, common.Listing, error) {
	result, l, err := c.result(common.NewCommand(common.VerbWordSort, name))
	if err != nil {
		return nil, l, err
	}
	if result == "" {
		return []string{}, l, nil
	}
	return strings.Split(result, "\n"), l, nil
}

// Search counts the occurrences of words in a file
func (c *Client) Search(name string, words []string) ([]textops.SearchHit, common.Listing, error) {
	result, l, err := c.result(common.NewCommand(common.VerbSearch, name, common.JoinList(words)))
	if err != nil {
		return nil, l, err
	}
	hits, err := parseSearch(result)
	return hits, l, err
}

// Split splits a file at the separators and returns the number of fragment files created
func (c *Client) Split(name string, separators []string) (int, common.Listing, error) {
	result, l, err := c.result(common.NewCommand(common.VerbSplit, name, common.JoinList(separators)))
	if err != nil {
		return 0, l, err
	}
	n, err := parseCount(result)
	return n, l, err
}

// --------------------------------------------------------------------------
// Session
// --------------------------------------------------------------------------

// Exit ends the session and returns the goodbye message of the server
func (c *Client) Exit() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(common.NewCommand(common.VerbExit)); err != nil {
		return "", err
	}
	payload, err := c.codec.ReadText()
	c.closed = true
	closeErr := c.conn.Close()
	if err != nil {
		return "", err
	}
	return string(payload), closeErr
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// send validates and writes a command frame. The caller holds c.mu.
func (c *Client) send(cmd common.Command) error {
	if c.closed {
		return ErrClosed
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	Logger.Debugf("Sending %q", cmd)
	return c.codec.WriteText([]byte(cmd.String()))
}

// simple runs a command answered by the listing only
func (c *Client) simple(cmd common.Command) (common.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(cmd); err != nil {
		return common.Listing{}, err
	}
	return c.readListing()
}

// result runs a command answered by a result frame and the listing
func (c *Client) result(cmd common.Command) (string, common.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.send(cmd); err != nil {
		return "", common.Listing{}, err
	}

	payload, err := c.codec.ReadText()
	if err != nil {
		return "", common.Listing{}, err
	}
	if l, ok := c.acceptListing(payload); ok {
		return "", l, ErrNoResult
	}

	l, err := c.readListing()
	return string(payload), l, err
}

// readListing reads the next frame, which must be a listing
func (c *Client) readListing() (common.Listing, error) {
	payload, err := c.codec.ReadText()
	if err != nil {
		return common.Listing{}, err
	}
	l, ok := c.acceptListing(payload)
	if !ok {
		return common.Listing{}, fmt.Errorf("%w: expected directory listing, got %q", ErrUnexpectedResponse, payload)
	}
	return l, nil
}

// acceptListing parses payload as listing and keeps it as the current listing
func (c *Client) acceptListing(payload []byte) (common.Listing, bool) {
	l, ok := common.ParseListing(payload)
	if ok {
		c.listing = l
	}
	return l, ok
}

func parseCount(result string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(result))
	if err != nil {
		return 0, fmt.Errorf("%w: expected a number, got %q", ErrUnexpectedResponse, result)
	}
	return n, nil
}

// parseSearch parses `word: count` lines
func parseSearch(result string) ([]textops.SearchHit, error) {
	hits := []textops.SearchHit{}
	if result == "" {
		return hits, nil
	}
	for _, line := range strings.Split(result, "\n") {
		idx := strings.LastIndex(line, ": ")
		if idx < 0 {
			return nil, fmt.Errorf("%w: malformed search line %q", ErrUnexpectedResponse, line)
		}
		n, err := parseCount(line[idx+2:])
		if err != nil {
			return nil, err
		}
		hits = append(hits, textops.SearchHit{Word: line[:idx], Count: n})
	}
	return hits, nil
}
