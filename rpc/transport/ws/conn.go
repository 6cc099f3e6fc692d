package ws

import (
	"errors"
	"github.com/gorilla/websocket"
	"io"
	"net"
	"os"
	"sync"
	"time"
)

// closeGracePeriod bounds the write of the close message
const closeGracePeriod = time.Second

// wsConn adapts a websocket connection to net.Conn. Every Write is sent as one
// binary message, Read returns the message contents as a continuous byte stream.
//
// Messages are received by a pump goroutine, so a read deadline does not touch
// the websocket itself: gorilla/websocket treats a timed out read as fatal, but
// a timed out Read on a wsConn can be retried.
type wsConn struct {
	ws *websocket.Conn

	msgs    chan []byte
	readErr error // set by the pump before msgs is closed
	pending []byte

	deadlineMu   sync.Mutex
	readDeadline time.Time

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func newConn(ws *websocket.Conn) *wsConn {
	c := &wsConn{
		ws:   ws,
		msgs: make(chan []byte),
		done: make(chan struct{}),
	}
	go c.pump()
	return c
}

// pump reads messages until the websocket fails or the connection is closed
func (c *wsConn) pump() {
	defer close(c.msgs)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.readErr = err
			return
		}
		if len(data) == 0 {
			continue
		}
		select {
		case c.msgs <- data:
		case <-c.done:
			c.readErr = net.ErrClosed
			return
		}
	}
}

func (c *wsConn) Read(p []byte) (int, error) {
	if len(c.pending) > 0 {
		n := copy(p, c.pending)
		c.pending = c.pending[n:]
		return n, nil
	}

	var timeout <-chan time.Time
	c.deadlineMu.Lock()
	deadline := c.readDeadline
	c.deadlineMu.Unlock()
	if !deadline.IsZero() {
		wait := time.Until(deadline)
		if wait <= 0 {
			return 0, os.ErrDeadlineExceeded
		}
		timer := time.NewTimer(wait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case data, ok := <-c.msgs:
		if !ok {
			return 0, streamError(c.readErr)
		}
		n := copy(p, data)
		c.pending = data[n:]
		return n, nil
	case <-timeout:
		return 0, os.ErrDeadlineExceeded
	case <-c.done:
		return 0, net.ErrClosed
	}
}

func (c *wsConn) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)

		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
		c.writeMu.Unlock()

		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}

func (c *wsConn) LocalAddr() net.Addr {
	return c.ws.LocalAddr()
}

func (c *wsConn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

func (c *wsConn) SetDeadline(t time.Time) error {
	if err := c.SetReadDeadline(t); err != nil {
		return err
	}
	return c.SetWriteDeadline(t)
}

func (c *wsConn) SetReadDeadline(t time.Time) error {
	c.deadlineMu.Lock()
	c.readDeadline = t
	c.deadlineMu.Unlock()
	return nil
}

func (c *wsConn) SetWriteDeadline(t time.Time) error {
	return c.ws.SetWriteDeadline(t)
}

// NetConn returns the underlying network connection
func (c *wsConn) NetConn() net.Conn {
	return c.ws.NetConn()
}

// streamError maps the end of a websocket conversation to io.EOF
func streamError(err error) error {
	if err == nil {
		return io.EOF
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
		websocket.CloseAbnormalClosure,
	) {
		return io.EOF
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return io.EOF
	}
	return err
}
