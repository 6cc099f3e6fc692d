package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/dFS/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"net"
	"net/http"
	"time"
)

var metricsLogger = logger.GetLogger("metrics")

// serverMetrics collects the counters of one server. All methods are safe on a nil receiver.
type serverMetrics struct {
	set *metrics.Set

	sessionsTotal  *metrics.Counter
	malformedTotal *metrics.Counter
	uploadBytes    *metrics.Counter
	downloadBytes  *metrics.Counter
	commands       map[common.Verb]*metrics.Counter
	failures       map[common.Verb]*metrics.Counter
	duration       *metrics.Histogram

	// rolling rates for the periodic stats log
	registry      gometrics.Registry
	commandMeter  gometrics.Meter
	commandTimer  gometrics.Timer
	transferMeter gometrics.Meter
}

// newServerMetrics creates the metrics of a server. activeSessions is sampled on every scrape.
func newServerMetrics(activeSessions func() int) *serverMetrics {
	set := metrics.NewSet()
	m := &serverMetrics{
		set:            set,
		sessionsTotal:  set.NewCounter("dfs_sessions_total"),
		malformedTotal: set.NewCounter("dfs_malformed_commands_total"),
		uploadBytes:    set.NewCounter("dfs_upload_bytes_total"),
		downloadBytes:  set.NewCounter("dfs_download_bytes_total"),
		commands:       make(map[common.Verb]*metrics.Counter),
		failures:       make(map[common.Verb]*metrics.Counter),
		duration:       set.NewHistogram("dfs_command_duration_seconds"),
		registry:       gometrics.NewRegistry(),
	}
	set.NewGauge("dfs_sessions_active", func() float64 {
		return float64(activeSessions())
	})

	for _, verb := range common.Verbs() {
		m.commands[verb] = set.NewCounter(fmt.Sprintf(`dfs_commands_total{verb=%q}`, verb))
		m.failures[verb] = set.NewCounter(fmt.Sprintf(`dfs_command_failures_total{verb=%q}`, verb))
	}

	m.commandMeter = gometrics.GetOrRegisterMeter("commands", m.registry)
	m.commandTimer = gometrics.GetOrRegisterTimer("command.duration", m.registry)
	m.transferMeter = gometrics.GetOrRegisterMeter("transfer.bytes", m.registry)
	return m
}

// --------------------------------------------------------------------------
// Recording
// --------------------------------------------------------------------------

func (m *serverMetrics) sessionStarted() {
	if m == nil {
		return
	}
	m.sessionsTotal.Inc()
}

func (m *serverMetrics) observeCommand(verb common.Verb, start time.Time, err error) {
	if m == nil {
		return
	}
	if c, ok := m.commands[verb]; ok {
		c.Inc()
	}
	if errors.Is(err, ErrCommandFailed) {
		if c, ok := m.failures[verb]; ok {
			c.Inc()
		}
	}
	m.duration.UpdateDuration(start)
	m.commandMeter.Mark(1)
	m.commandTimer.UpdateSince(start)
}

func (m *serverMetrics) addMalformed() {
	if m == nil {
		return
	}
	m.malformedTotal.Inc()
}

func (m *serverMetrics) addUpload(n int) {
	if m == nil {
		return
	}
	m.uploadBytes.Add(n)
	m.transferMeter.Mark(int64(n))
}

func (m *serverMetrics) addDownload(n int) {
	if m == nil {
		return
	}
	m.downloadBytes.Add(n)
	m.transferMeter.Mark(int64(n))
}

// --------------------------------------------------------------------------
// Exposition
// --------------------------------------------------------------------------

// Handler returns an http handler writing the metrics in Prometheus text format
func (m *serverMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		m.set.WritePrometheus(w)
	})
}

// serve exposes /metrics on endpoint until ctx ends
func (m *serverMetrics) serve(ctx context.Context, endpoint string) error {
	ln, err := net.Listen("tcp", endpoint)
	if err != nil {
		return fmt.Errorf("failed to listen for metrics on %s: %w", endpoint, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	go func() {
		metricsLogger.Infof("Serving metrics on http://%s/metrics", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsLogger.Errorf("metrics server failed: %v", err)
		}
	}()
	return nil
}

// logStats logs the rolling rates every interval until ctx ends
func (m *serverMetrics) logStats(ctx context.Context, interval time.Duration, activeSessions func() int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metricsLogger.Infof("sessions: %d\tcommands: %d (%.2f/s 1m)\tlatency: mean %s p99 %s\ttransfer: %s/s",
				activeSessions(),
				m.commandMeter.Count(),
				m.commandMeter.Rate1(),
				formatDuration(m.commandTimer.Mean()),
				formatDuration(m.commandTimer.Percentile(0.99)),
				formatBytes(m.transferMeter.Rate1()),
			)
		}
	}
}

// stop releases the meters
func (m *serverMetrics) stop() {
	if m == nil {
		return
	}
	m.registry.UnregisterAll()
}

// formatDuration formats nanoseconds with an appropriate unit
func formatDuration(ns float64) string {
	if ns < 1000 {
		return fmt.Sprintf("%.2f ns", ns)
	} else if ns < 1000000 {
		return fmt.Sprintf("%.2f µs", ns/1000)
	} else if ns < 1000000000 {
		return fmt.Sprintf("%.2f ms", ns/1000000)
	}
	return fmt.Sprintf("%.2f s", ns/1000000000)
}

// formatBytes formats a byte count with an appropriate unit
func formatBytes(b float64) string {
	if b < 1024 {
		return fmt.Sprintf("%.0f B", b)
	} else if b < 1024*1024 {
		return fmt.Sprintf("%.2f KB", b/1024)
	}
	return fmt.Sprintf("%.2f MB", b/(1024*1024))
}
