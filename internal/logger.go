package internal

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelRank = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
}

type LogEntry struct {
	Timestamp  time.Time              `json:"timestamp"`
	Level      LogLevel               `json:"level"`
	Message    string                 `json:"message"`
	Service    string                 `json:"service"`
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation,omitempty"`
	Duration   int64                  `json:"duration_ms,omitempty"`
	StatusCode int                    `json:"status_code,omitempty"`
	Method     string                 `json:"method,omitempty"`
	Path       string                 `json:"path,omitempty"`
	UserAgent  string                 `json:"user_agent,omitempty"`
	RemoteAddr string                 `json:"remote_addr,omitempty"`
	RequestID  string                 `json:"request_id,omitempty"`
	CacheHit   *bool                  `json:"cache_hit,omitempty"`
	CacheKey   string                 `json:"cache_key,omitempty"`
	Streamer   string                 `json:"streamer,omitempty"`
	Tier       string                 `json:"tier,omitempty"`
	Error      string                 `json:"error,omitempty"`
	ErrorCode  string                 `json:"error_code,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Logger writes one JSON object per line through zerolog. Level filtering
// happens here so every entry shares the same shape.
type Logger struct {
	level       LogLevel
	service     string
	environment string
	logger      zerolog.Logger
}

func NewLogger(cfg *Config) *Logger {
	return newLoggerWithWriter(cfg, os.Stdout)
}

func newLoggerWithWriter(cfg *Config, w io.Writer) *Logger {
	level := LogLevel(cfg.LogLevel)
	if _, ok := logLevelRank[level]; !ok {
		level = LogLevelInfo
	}

	return &Logger{
		level:       level,
		service:     "soloq-ranking",
		environment: cfg.AppEnv,
		logger:      zerolog.New(w),
	}
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return logLevelRank[level] >= logLevelRank[l.level]
}

func zerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) log(entry LogEntry) {
	if !l.shouldLog(entry.Level) {
		return
	}

	entry.Timestamp = time.Now().UTC()
	entry.Service = l.service

	if entry.Metadata == nil {
		entry.Metadata = make(map[string]interface{})
	}
	entry.Metadata["environment"] = l.environment

	ev := l.logger.WithLevel(zerologLevel(entry.Level)).
		Time("timestamp", entry.Timestamp).
		Str("service", entry.Service).
		Str("component", entry.Component)

	optional := []struct{ key, value string }{
		{"operation", entry.Operation},
		{"method", entry.Method},
		{"path", entry.Path},
		{"user_agent", entry.UserAgent},
		{"remote_addr", entry.RemoteAddr},
		{"request_id", entry.RequestID},
		{"cache_key", entry.CacheKey},
		{"streamer", entry.Streamer},
		{"tier", entry.Tier},
		{"error", entry.Error},
		{"error_code", entry.ErrorCode},
	}
	for _, f := range optional {
		if f.value != "" {
			ev = ev.Str(f.key, f.value)
		}
	}
	if entry.Duration != 0 {
		ev = ev.Int64("duration_ms", entry.Duration)
	}
	if entry.StatusCode != 0 {
		ev = ev.Int("status_code", entry.StatusCode)
	}
	if entry.CacheHit != nil {
		ev = ev.Bool("cache_hit", *entry.CacheHit)
	}

	ev.Interface("metadata", entry.Metadata).Msg(entry.Message)
}

func (l *Logger) Debug(message string) *LogBuilder {
	return &LogBuilder{logger: l, entry: LogEntry{Level: LogLevelDebug, Message: message}}
}

func (l *Logger) Info(message string) *LogBuilder {
	return &LogBuilder{logger: l, entry: LogEntry{Level: LogLevelInfo, Message: message}}
}

func (l *Logger) Warn(message string) *LogBuilder {
	return &LogBuilder{logger: l, entry: LogEntry{Level: LogLevelWarn, Message: message}}
}

func (l *Logger) Error(message string) *LogBuilder {
	return &LogBuilder{logger: l, entry: LogEntry{Level: LogLevelError, Message: message}}
}

type LogBuilder struct {
	logger *Logger
	entry  LogEntry
}

func (b *LogBuilder) Component(component string) *LogBuilder {
	b.entry.Component = component
	return b
}

func (b *LogBuilder) Operation(operation string) *LogBuilder {
	b.entry.Operation = operation
	return b
}

func (b *LogBuilder) Duration(duration time.Duration) *LogBuilder {
	b.entry.Duration = duration.Milliseconds()
	return b
}

func (b *LogBuilder) HTTP(method, path string, statusCode int) *LogBuilder {
	b.entry.Method = method
	b.entry.Path = path
	b.entry.StatusCode = statusCode
	return b
}

func (b *LogBuilder) Request(userAgent, remoteAddr, requestID string) *LogBuilder {
	b.entry.UserAgent = userAgent
	b.entry.RemoteAddr = remoteAddr
	b.entry.RequestID = requestID
	return b
}

func (b *LogBuilder) Cache(hit bool, key string) *LogBuilder {
	b.entry.CacheHit = &hit
	b.entry.CacheKey = key
	return b
}

func (b *LogBuilder) Player(streamer string, tier Tier) *LogBuilder {
	b.entry.Streamer = streamer
	b.entry.Tier = tier.String()
	return b
}

func (b *LogBuilder) Err(err error) *LogBuilder {
	if err != nil {
		b.entry.Error = err.Error()
	}
	return b
}

func (b *LogBuilder) ErrorCode(code string) *LogBuilder {
	b.entry.ErrorCode = code
	return b
}

func (b *LogBuilder) Meta(key string, value interface{}) *LogBuilder {
	if b.entry.Metadata == nil {
		b.entry.Metadata = make(map[string]interface{})
	}
	b.entry.Metadata[key] = value
	return b
}

func (b *LogBuilder) Log() {
	b.logger.log(b.entry)
}
