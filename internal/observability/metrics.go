package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Command dispatch outcomes recorded by RecordCommand.
const (
	ResultOK      = "ok"
	ResultBuiltin = "builtin"
	ResultUnknown = "unknown"
	ResultPanic   = "panic"
)

var (
	registerOnce sync.Once

	consoleSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgecli",
			Subsystem: "console",
			Name:      "sessions_total",
			Help:      "Total accepted console client sessions.",
		},
		[]string{"host"},
	)
	consoleCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgecli",
			Subsystem: "console",
			Name:      "commands_total",
			Help:      "Total console command lines dispatched.",
		},
		[]string{"host", "command", "result"},
	)
	consoleCommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edgecli",
			Subsystem: "console",
			Name:      "command_duration_seconds",
			Help:      "Console command handler duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"host", "command"},
	)
	consoleOutputBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgecli",
			Subsystem: "console",
			Name:      "output_bytes_total",
			Help:      "Bytes written to console clients.",
		},
		[]string{"host"},
	)
	consoleState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "edgecli",
			Subsystem: "console",
			Name:      "state",
			Help:      "Console lifecycle state (0=uninitialized 1=initialized 2=running 3=stopped).",
		},
		[]string{"host"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgecli",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"host", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edgecli",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"host", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			consoleSessions,
			consoleCommands,
			consoleCommandDuration,
			consoleOutputBytes,
			consoleState,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordSession(host string) {
	RegisterMetrics()
	consoleSessions.WithLabelValues(host).Inc()
}

func RecordCommand(host, command, result string, duration time.Duration) {
	RegisterMetrics()
	consoleCommands.WithLabelValues(host, command, result).Inc()
	if result == ResultOK {
		consoleCommandDuration.WithLabelValues(host, command).Observe(duration.Seconds())
	}
}

func RecordOutput(host string, n int) {
	if n <= 0 {
		return
	}
	RegisterMetrics()
	consoleOutputBytes.WithLabelValues(host).Add(float64(n))
}

func SetConsoleState(host string, state int) {
	RegisterMetrics()
	consoleState.WithLabelValues(host).Set(float64(state))
}

func RecordHTTPRequest(host, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(host, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(host, method, path, statusLabel).Observe(duration.Seconds())
}
