// Package diag builds the process logger: a slog text handler writing to an
// append-only log file, or to a fallback writer when no file can be opened.
// Logging never fails the caller.
package diag

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// TimeFormat is the timestamp layout of log lines, always UTC.
const TimeFormat = "2006-01-02 15:04:05Z"

// Options configure NewLogger.
type Options struct {
	// Path of the log file; empty logs to Fallback.
	Path string
	// Level is debug, info, warn or error; empty means info.
	Level string
	// Fallback receives log lines when Path is empty or cannot be opened.
	// Defaults to os.Stderr.
	Fallback io.Writer
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// NewLogger builds a logger from opts. The returned close function releases
// the log file, if one was opened; it is never nil.
func NewLogger(opts Options) (*slog.Logger, func() error) {
	fallback := opts.Fallback
	if fallback == nil {
		fallback = os.Stderr
	}
	level, levelErr := ParseLevel(opts.Level)

	var (
		w       io.Writer = fallback
		closeFn           = func() error { return nil }
		fileErr error
	)
	if opts.Path != "" {
		f, err := openAppend(opts.Path)
		if err != nil {
			fileErr = err
		} else {
			w = f
			closeFn = f.Close
		}
	}

	logger := slog.New(slog.NewTextHandler(bestEffort{w}, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: utcTime,
	}))
	if fileErr != nil {
		logger.Warn("log file unavailable, logging to fallback", "path", opts.Path, "error", fileErr)
	}
	if levelErr != nil {
		logger.Warn("invalid log level, using info", "error", levelErr)
	}
	logger.Info("logger ready", "level", level.String())
	return logger, closeFn
}

func openAppend(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func utcTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(TimeFormat))
	}
	return a
}

// bestEffort swallows write errors.
type bestEffort struct {
	w io.Writer
}

func (b bestEffort) Write(p []byte) (int, error) {
	_, _ = b.w.Write(p)
	return len(p), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
