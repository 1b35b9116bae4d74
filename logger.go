// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// MaxLogValueLength limits the length of log values to prevent log injection
// and excessive log file growth. Values longer than this are truncated.
const MaxLogValueLength = 1024

// Logger interface for pluggable logging support
//
// Implementations should use structured logging with key-value pairs.
// The library provides three implementations:
//   - DefaultLogger: wraps Go's standard log package with a configurable level
//   - LogrusLogger: adapts a logrus logger
//   - NoOpLogger: zero-overhead logging when disabled (default)
//
// Example custom logger integration:
//
//	type SlogAdapter struct {
//	    logger *slog.Logger
//	}
//
//	func (s *SlogAdapter) Debug(ctx context.Context, msg string, keysAndValues ...any) {
//	    s.logger.DebugContext(ctx, msg, keysAndValues...)
//	}
//	// ... implement Info, Warn, Error the same way
//
//	client, _ := restconf.NewClient("https://192.168.1.1",
//	    restconf.Username("admin"),
//	    restconf.Password("secret"),
//	    restconf.WithLogger(&SlogAdapter{logger: slog.Default()}))
type Logger interface {
	Debug(ctx context.Context, msg string, keysAndValues ...any)
	Info(ctx context.Context, msg string, keysAndValues ...any)
	Warn(ctx context.Context, msg string, keysAndValues ...any)
	Error(ctx context.Context, msg string, keysAndValues ...any)
}

// LogLevel represents the severity threshold for logging
type LogLevel int

const (
	// LogLevelDebug enables all log levels (most verbose)
	LogLevelDebug LogLevel = iota

	// LogLevelInfo enables Info, Warn, and Error logs
	LogLevelInfo

	// LogLevelWarn enables Warn and Error logs
	LogLevelWarn

	// LogLevelError enables only Error logs
	LogLevelError

	// LogLevelNone disables all logging
	LogLevelNone
)

// String returns the string representation of a LogLevel
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

// DefaultLogger wraps Go's standard log package with configurable log level
//
// Log output format: [LEVEL] message key1=value1 key2=value2
type DefaultLogger struct {
	level LogLevel
}

// NewDefaultLogger creates a DefaultLogger with the specified log level
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return &DefaultLogger{level: level}
}

// Debug logs a debug message with structured key-value pairs
func (l *DefaultLogger) Debug(_ context.Context, msg string, keysAndValues ...any) {
	if l.level <= LogLevelDebug {
		l.log("DEBUG", msg, keysAndValues...)
	}
}

// Info logs an informational message with structured key-value pairs
func (l *DefaultLogger) Info(_ context.Context, msg string, keysAndValues ...any) {
	if l.level <= LogLevelInfo {
		l.log("INFO", msg, keysAndValues...)
	}
}

// Warn logs a warning message with structured key-value pairs
func (l *DefaultLogger) Warn(_ context.Context, msg string, keysAndValues ...any) {
	if l.level <= LogLevelWarn {
		l.log("WARN", msg, keysAndValues...)
	}
}

// Error logs an error message with structured key-value pairs
func (l *DefaultLogger) Error(_ context.Context, msg string, keysAndValues ...any) {
	if l.level <= LogLevelError {
		l.log("ERROR", msg, keysAndValues...)
	}
}

// log formats and outputs a log message with structured key-value pairs.
// All key-value pairs are sanitized; the message string is not, as it comes
// from the library code itself.
func (l *DefaultLogger) log(level, msg string, keysAndValues ...any) {
	estimatedSize := len(level) + len(msg) + 10 + (len(keysAndValues) * 25)
	var builder strings.Builder
	builder.Grow(estimatedSize)

	builder.WriteString("[")
	builder.WriteString(level)
	builder.WriteString("] ")
	builder.WriteString(msg)

	for i := 0; i < len(keysAndValues); i += 2 {
		builder.WriteString(" ")
		builder.WriteString(sanitizeLogValue(keysAndValues[i]))
		if i+1 < len(keysAndValues) {
			builder.WriteString("=")
			builder.WriteString(sanitizeLogValue(keysAndValues[i+1]))
		} else {
			// Odd-length array - mark missing value explicitly
			builder.WriteString("=<MISSING>")
		}
	}

	log.Println(builder.String())
}

// sanitizeLogValue sanitizes a log value to prevent log injection attacks
// and limit log size. Handles control characters, ANSI escape sequences,
// zero-width and RTL-override Unicode characters, and excessive length.
func sanitizeLogValue(val any) string {
	str := fmt.Sprintf("%v", val)

	if len(str) > MaxLogValueLength {
		str = str[:MaxLogValueLength] + "...[TRUNCATED]"
	}

	var builder strings.Builder
	builder.Grow(len(str))

	for i := 0; i < len(str); i++ {
		r := rune(str[i])

		if r >= 0x80 {
			decoded, size := utf8.DecodeRuneInString(str[i:])
			if decoded == utf8.RuneError {
				builder.WriteRune('.')
				if size == 0 {
					size = 1 // forward progress on malformed UTF-8
				}
				i += size - 1
				continue
			}
			switch decoded {
			case 0x200B, 0x200C, 0x200D, 0xFEFF: // zero-width characters
			case 0x202E: // right-to-left override
				builder.WriteRune(' ')
			default:
				builder.WriteString(str[i : i+size])
			}
			i += size - 1
			continue
		}

		switch r {
		case '\n', '\r', '\t', 0x0C:
			builder.WriteRune(' ')
		case 0x1B, 0x07, 0x08:
			builder.WriteRune('.')
		default:
			if r < 32 || r == 127 {
				builder.WriteRune('.')
			} else {
				builder.WriteRune(r)
			}
		}
	}

	return builder.String()
}

// NoOpLogger is a no-operation logger that discards all log messages
//
// This is the default logger used when no custom logger is configured.
type NoOpLogger struct{}

// Debug discards the log message
func (n *NoOpLogger) Debug(_ context.Context, _ string, _ ...any) {}

// Info discards the log message
func (n *NoOpLogger) Info(_ context.Context, _ string, _ ...any) {}

// Warn discards the log message
func (n *NoOpLogger) Warn(_ context.Context, _ string, _ ...any) {}

// Error discards the log message
func (n *NoOpLogger) Error(_ context.Context, _ string, _ ...any) {}

// LogrusLogger adapts a logrus logger to the Logger interface
//
// Key-value pairs are converted to logrus fields; keys are stringified and
// values are sanitized the same way DefaultLogger sanitizes them.
//
// Example:
//
//	l := logrus.New()
//	l.SetLevel(logrus.DebugLevel)
//	client, _ := restconf.NewClient("https://192.168.1.1",
//	    restconf.Username("admin"),
//	    restconf.Password("secret"),
//	    restconf.WithLogger(restconf.NewLogrusLogger(l)))
type LogrusLogger struct {
	logger *logrus.Logger
}

// NewLogrusLogger creates a LogrusLogger wrapping the given logrus logger.
// A nil logger falls back to the logrus standard logger.
func NewLogrusLogger(logger *logrus.Logger) *LogrusLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusLogger{logger: logger}
}

func (l *LogrusLogger) fields(keysAndValues []any) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := sanitizeLogValue(keysAndValues[i])
		if i+1 < len(keysAndValues) {
			fields[key] = sanitizeLogValue(keysAndValues[i+1])
		} else {
			fields[key] = "<MISSING>"
		}
	}
	return fields
}

// Debug logs a debug message via logrus
func (l *LogrusLogger) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	l.logger.WithContext(ctx).WithFields(l.fields(keysAndValues)).Debug(msg)
}

// Info logs an informational message via logrus
func (l *LogrusLogger) Info(ctx context.Context, msg string, keysAndValues ...any) {
	l.logger.WithContext(ctx).WithFields(l.fields(keysAndValues)).Info(msg)
}

// Warn logs a warning message via logrus
func (l *LogrusLogger) Warn(ctx context.Context, msg string, keysAndValues ...any) {
	l.logger.WithContext(ctx).WithFields(l.fields(keysAndValues)).Warn(msg)
}

// Error logs an error message via logrus
func (l *LogrusLogger) Error(ctx context.Context, msg string, keysAndValues ...any) {
	l.logger.WithContext(ctx).WithFields(l.fields(keysAndValues)).Error(msg)
}
