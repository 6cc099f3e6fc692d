package common

import (
	"fmt"
	"github.com/ValentinKolb/dFS/rpc/frame"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Socket configuration (shared by client and server)
// --------------------------------------------------------------------------

// SocketConf holds socket buffer settings
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP specific settings
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// TransportConfig holds the settings of a transport connection
type TransportConfig struct {
	// Endpoint is the address to listen on or connect to (host:port, socket path, ...)
	Endpoint string
	// WSPath is the HTTP path of the websocket transport
	WSPath string
	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of the dFS server
type ServerConfig struct {
	Transport TransportConfig

	// Root is the host directory exposed to the sessions as "/"
	Root string

	// SettleDelayMillisecond is the pause between a command and the next directory announcement
	SettleDelayMillisecond int64

	// ChunkSize is the size of a single read from a connection
	ChunkSize int

	// MaxTransferBytes limits a single upload (0 = unlimited)
	MaxTransferBytes int

	// Logging configuration
	LogLevel string

	// Observability
	MetricsEndpoint     string
	StatsIntervalSecond int64
}

// SettleDelay returns the settle delay as a duration
func (c *ServerConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMillisecond) * time.Millisecond
}

// Limits returns the frame limits for server connections
func (c *ServerConfig) Limits() frame.Limits {
	return frame.Limits{
		ChunkSize:      c.ChunkSize,
		MaxBinaryBytes: c.MaxTransferBytes,
	}
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Transport")
	addField("Endpoint", c.Transport.Endpoint)
	if c.Transport.WSPath != "" {
		addField("Websocket Path", c.Transport.WSPath)
	}
	addField("TCP No Delay", fmt.Sprintf("%t", c.Transport.TCPNoDelay))
	addField("TCP Keep Alive", fmt.Sprintf("%d sec", c.Transport.TCPKeepAliveSec))

	addSection("Sessions")
	addField("Root", c.Root)
	addField("Settle Delay", fmt.Sprintf("%d ms", c.SettleDelayMillisecond))
	addField("Chunk Size", fmt.Sprintf("%d bytes", c.ChunkSize))
	if c.MaxTransferBytes > 0 {
		addField("Max Transfer", fmt.Sprintf("%d bytes", c.MaxTransferBytes))
	} else {
		addField("Max Transfer", "unlimited")
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	if c.MetricsEndpoint != "" || c.StatsIntervalSecond > 0 {
		addSection("Metrics")
		if c.MetricsEndpoint != "" {
			addField("Endpoint", c.MetricsEndpoint)
		}
		if c.StatsIntervalSecond > 0 {
			addField("Stats Interval", fmt.Sprintf("%d sec", c.StatsIntervalSecond))
		}
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters of a dFS client
type ClientConfig struct {
	Transport TransportConfig

	// TimeoutSecond bounds a single receive; a timed out receive is retried
	TimeoutSecond int

	// ChunkSize is the size of a single read from the connection
	ChunkSize int

	// MaxTransferBytes limits a single download (0 = unlimited)
	MaxTransferBytes int
}

// Timeout returns the receive timeout as a duration
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// Limits returns the frame limits for the client connection
func (c *ClientConfig) Limits() frame.Limits {
	return frame.Limits{
		ChunkSize:      c.ChunkSize,
		MaxBinaryBytes: c.MaxTransferBytes,
	}
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Receive Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Chunk Size", fmt.Sprintf("%d bytes", c.ChunkSize))

	return sb.String()
}
