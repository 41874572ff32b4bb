package logger

import (
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/funcompany/justlog-go/pkg/encode"
	"github.com/funcompany/justlog-go/pkg/record"
	"github.com/funcompany/justlog-go/pkg/sink"
)

// Field names attached to every record.
const (
	FieldAppVersion      = "app_version"
	FieldPlatformVersion = "platform_version"
	FieldDeviceType      = "device_type"
	FieldInstanceID      = "instance_id"
	FieldAuthToken       = "auth_token"
)

// networkSink is the optional sink capability ForceSend and
// CancelSending delegate to. The network shipper implements it.
type networkSink interface {
	Flush(cb func(error))
	Cancel()
}

// Options configures a Logger. Zero values are usable; a Logger with
// no sinks silently discards every record.
type Options struct {
	// Sinks receive every record, in slice order.
	Sinks []sink.Sink

	// Metadata identifies the application and device. Optional.
	Metadata record.Metadata

	// Fields are attached to every record. Per-call fields with the
	// same name take precedence.
	Fields map[string]any

	// AuthToken, when set, travels as a payload field so hosted
	// collectors can authenticate the sender.
	AuthToken string

	// MinLevel drops records below this severity before encoding.
	MinLevel record.Level

	// ActivityLog receives sink failure diagnostics. Discarded when nil.
	ActivityLog *slog.Logger

	// Clock overrides the record timestamp source. time.Now when nil.
	Clock func() time.Time
}

// Logger fans structured records out to its sinks. Safe for
// concurrent use. Construct with New.
type Logger struct {
	sinks      []sink.Sink
	network    networkSink
	enc        encode.Encoder
	meta       record.Metadata
	defaults   map[string]any
	instanceID string
	minLevel   record.Level
	activity   *slog.Logger
	now        func() time.Time

	sinkErrors atomic.Uint64
	fallbacks  atomic.Uint64
}

// New creates a Logger. Each Logger carries a fresh instance ID that
// is attached to every record it produces.
func New(opts Options) *Logger {
	l := &Logger{
		sinks:      opts.Sinks,
		meta:       opts.Metadata,
		instanceID: uuid.NewString(),
		minLevel:   opts.MinLevel,
		activity:   opts.ActivityLog,
		now:        opts.Clock,
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.activity == nil {
		l.activity = slog.New(slog.DiscardHandler)
	}

	l.defaults = make(map[string]any, len(opts.Fields)+5)
	for k, v := range opts.Fields {
		l.defaults[k] = v
	}
	l.defaults[FieldInstanceID] = l.instanceID
	if opts.AuthToken != "" {
		l.defaults[FieldAuthToken] = opts.AuthToken
	}
	if l.meta != nil {
		l.defaults[FieldAppVersion] = l.meta.AppVersion()
		l.defaults[FieldPlatformVersion] = l.meta.PlatformVersion()
		l.defaults[FieldDeviceType] = l.meta.DeviceType()
	}

	for _, s := range l.sinks {
		if ns, ok := s.(networkSink); ok {
			l.network = ns
			break
		}
	}
	return l
}

// InstanceID returns the logger's instance UUID.
func (l *Logger) InstanceID() string {
	return l.instanceID
}

// Verbose logs at the verbose level.
func (l *Logger) Verbose(msg string, opts ...Option) {
	l.log(record.LevelVerbose, msg, opts)
}

// Debug logs at the debug level.
func (l *Logger) Debug(msg string, opts ...Option) {
	l.log(record.LevelDebug, msg, opts)
}

// Info logs at the info level.
func (l *Logger) Info(msg string, opts ...Option) {
	l.log(record.LevelInfo, msg, opts)
}

// Warning logs at the warning level.
func (l *Logger) Warning(msg string, opts ...Option) {
	l.log(record.LevelWarning, msg, opts)
}

// Error logs at the error level.
func (l *Logger) Error(msg string, opts ...Option) {
	l.log(record.LevelError, msg, opts)
}

func (l *Logger) log(level record.Level, msg string, opts []Option) {
	if level < l.minLevel {
		return
	}

	fields := make(map[string]any, len(l.defaults)+4)
	for k, v := range l.defaults {
		fields[k] = v
	}

	rec := record.Record{
		Level:     level,
		Message:   msg,
		Timestamp: l.now(),
		Source:    callerSource(3),
		Fields:    fields,
	}
	for _, o := range opts {
		o(&rec)
	}

	e := l.enc.Encode(rec)
	if e.Fallback {
		l.fallbacks.Add(1)
	}

	for _, s := range l.sinks {
		if err := s.Accept(e); err != nil {
			l.sinkErrors.Add(1)
			l.activity.Debug("sink rejected record",
				"error", err,
				"id", e.ID,
			)
		}
	}
}

// ForceSend asks the network sink to deliver its buffered records now.
// The callback fires exactly once with the attempt outcome; it fires
// immediately with nil when no network sink is configured. cb may be
// nil.
func (l *Logger) ForceSend(cb func(error)) {
	if l.network == nil {
		if cb != nil {
			go cb(nil)
		}
		return
	}
	l.network.Flush(cb)
}

// CancelSending aborts any in-flight network delivery. Undelivered
// records stay buffered. A no-op when no network sink is configured.
func (l *Logger) CancelSending() {
	if l.network != nil {
		l.network.Cancel()
	}
}

// Stats reports counters since the logger was created.
func (l *Logger) Stats() Stats {
	return Stats{
		SinkErrors:      l.sinkErrors.Load(),
		EncodeFallbacks: l.fallbacks.Load(),
	}
}

// Stats holds logger counters.
type Stats struct {
	// SinkErrors is the number of Accept calls that returned an error.
	SinkErrors uint64

	// EncodeFallbacks is the number of records that needed the
	// degraded encoding path.
	EncodeFallbacks uint64
}

// Close waits for a final network flush, then closes every sink that
// implements io.Closer. The flush outcome is ignored; undeliverable
// records are dropped with the shipper.
func (l *Logger) Close() error {
	if l.network != nil {
		done := make(chan struct{})
		l.network.Flush(func(error) { close(done) })
		<-done
	}

	var firstErr error
	for _, s := range l.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// callerSource captures the logging call site.
func callerSource(skip int) record.SourceLocation {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return record.SourceLocation{}
	}
	loc := record.SourceLocation{
		File: filepath.Base(file),
		Line: line,
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.Function = fn.Name()
	}
	return loc
}
