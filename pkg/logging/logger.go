// Package logging provides structured logging for go-rotor. It wraps slog with
// session IDs carried on the context and redaction of credential-like
// attributes (atlas URLs may carry access tokens).
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelEnv names the environment variable that selects the log level.
const LevelEnv = "ROTOR_LOG_LEVEL"

// Logger wraps slog.Logger with context-aware helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger on stderr at the level named by ROTOR_LOG_LEVEL
// (DEBUG, INFO, WARN, ERROR; INFO when unset or invalid). Stdout is left to the
// terminal renderer.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stderr, getLogLevelFromEnv())
}

// NewLoggerTo creates a JSON logger writing to w at level.
func NewLoggerTo(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: sanitizeAttributes,
	})
	return &Logger{slog.New(handler)}
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *Logger {
	return NewLoggerTo(io.Discard, slog.LevelError+4)
}

// LogWithContext logs msg, adding the session ID from ctx when present.
func (l *Logger) LogWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if id := GetSessionID(ctx); id != "" {
		args = append(args, "session_id", id)
	}
	l.Log(ctx, level, msg, args...)
}

// Info logs an informational message with context.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a warning message with context.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs err under the "error" key.
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.LogWithContext(ctx, slog.LevelError, msg, args...)
}

// Debug logs a debug message with context.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelDebug, msg, args...)
}

type sessionIDKey struct{}

// WithSessionID stores id on ctx, generating one when id is empty.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewSessionID()
	}
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// GetSessionID returns the session ID on ctx, or "".
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}

// NewSessionID returns 16 random hex characters.
func NewSessionID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", name)
	}
}

func getLogLevelFromEnv() slog.Level {
	level, err := ParseLevel(os.Getenv(LevelEnv))
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

var sensitiveKeys = []string{
	"password", "passwd",
	"token", "authorization",
	"secret",
}

// sanitizeAttributes masks credential-like attributes.
func sanitizeAttributes(groups []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(key, sensitive) {
			return slog.Attr{Key: a.Key, Value: slog.StringValue("[REDACTED]")}
		}
	}
	return a
}

// WrapError wraps err with a formatted context message.
func WrapError(err error, context string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}
	return fmt.Errorf("%s: %w", context, err)
}
