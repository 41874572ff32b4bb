package shipper

import (
	"errors"
	"log/slog"
	"net"
	"strconv"
	"time"
)

// Default configuration values.
const (
	// DefaultPort is the default collector port (Logstash TCP input).
	DefaultPort = 9300

	// DefaultTimeout bounds connection attempts and individual writes.
	DefaultTimeout = 20 * time.Second

	// DefaultFlushInterval is the period of the automatic flush timer.
	DefaultFlushInterval = 5 * time.Second

	// DefaultBufferCapacity bounds the delivery buffer.
	DefaultBufferCapacity = 1000
)

// Config configures a Shipper. Set the parameters before constructing
// the shipper; changing them afterwards is not supported.
type Config struct {
	// Host is the collector hostname or IP. Required.
	Host string

	// Port is the collector port. Default: 9300.
	Port int

	// Timeout bounds the connection attempt and each socket write.
	// Default: 20s.
	Timeout time.Duration

	// UseTLS wraps the connection in TLS. Default: true.
	UseTLS bool

	// AllowUntrustedServer skips TLS certificate validation.
	// Only for collectors with self-signed certificates.
	AllowUntrustedServer bool

	// FlushInterval is the automatic flush period. Default: 5s.
	// Negative disables the timer; flushing is then explicit only.
	FlushInterval time.Duration

	// BufferCapacity bounds the delivery buffer. Default: 1000.
	// Negative means unbounded.
	BufferCapacity int

	// OverflowPolicy selects what a full buffer does with new records.
	// Default: DropOldest.
	OverflowPolicy OverflowPolicy

	// LogActivity enables verbose socket diagnostics on ActivityLog.
	LogActivity bool

	// ActivityLog receives socket diagnostics when LogActivity is set.
	// Defaults to slog.Default().
	ActivityLog *slog.Logger

	// Dialer establishes collector connections.
	// Defaults to TCP (plus TLS when UseTLS); set in tests to inject
	// mock connections.
	Dialer Dialer
}

// DefaultConfig returns the default shipper configuration.
// Host must still be set.
func DefaultConfig() Config {
	return Config{
		Port:           DefaultPort,
		Timeout:        DefaultTimeout,
		UseTLS:         true,
		FlushInterval:  DefaultFlushInterval,
		BufferCapacity: DefaultBufferCapacity,
		OverflowPolicy: DropOldest,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("shipper: host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("shipper: port out of range")
	}
	return nil
}

// withDefaults fills unset values with defaults.
func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.FlushInterval == 0 {
		c.FlushInterval = DefaultFlushInterval
	}
	if c.BufferCapacity == 0 {
		c.BufferCapacity = DefaultBufferCapacity
	}
	return c
}

// addr returns the host:port dial address.
func (c Config) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
