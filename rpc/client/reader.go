package client

import (
	"errors"
	"net"
	"time"
)

// retryReader bounds every read from the connection by a deadline and retries
// reads that time out, so a slow server never fails a receive. A timeout of zero
// disables deadlines.
type retryReader struct {
	conn    net.Conn
	timeout time.Duration
}

func (r *retryReader) Read(p []byte) (int, error) {
	for {
		if r.timeout > 0 {
			if err := r.conn.SetReadDeadline(time.Now().Add(r.timeout)); err != nil {
				return 0, err
			}
		}

		n, err := r.conn.Read(p)
		var netErr net.Error
		if n == 0 && errors.As(err, &netErr) && netErr.Timeout() {
			Logger.Debugf("Receive timed out after %s, waiting again", r.timeout)
			continue
		}
		return n, err
	}
}
