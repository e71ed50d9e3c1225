package port

import (
	"context"
	"time"
)

// LogLevel represents the severity of a log entry.
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// LogEntry is a structured log record mirrored to an external log store.
// The service logger produces these alongside its stdout output.
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Message   string
	Fields    map[string]interface{}
}

// LogPublisher ships service logs to an external observability platform
// (CloudWatch Logs in the default deployment).
type LogPublisher interface {
	// Publish sends a single log entry. Implementations may buffer.
	Publish(ctx context.Context, entry LogEntry) error

	// PublishBatch sends multiple entries in one operation and handles
	// any backend batching limits.
	PublishBatch(ctx context.Context, entries []LogEntry) error

	// Flush drains buffered entries. Called during graceful shutdown.
	Flush(ctx context.Context) error
}
