// Package logger builds the application's slog.Logger. Records go to stderr,
// to an append-only log file and to an in-memory ring of recent lines shown by
// the debug overlay.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/app.txt"

// DefaultKeep is the number of recent lines kept in memory.
const DefaultKeep = 64

// ResolveLevel maps a level name to a slog.Level.
func ResolveLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// Options configures New. Zero values use the defaults.
type Options struct {
	Level string
	// Fs holds the log file. Nil disables the file sink.
	Fs   afero.Fs
	Path string
	// Stderr receives console output. Nil means os.Stderr; use io.Discard to silence it.
	Stderr io.Writer
	Keep   int
}

// Logger owns the sinks behind a *slog.Logger.
type Logger struct {
	*slog.Logger

	ring *Ring
	file afero.File
	lvl  *slog.LevelVar
}

// New creates the logger. A file that cannot be opened is reported and the
// logger keeps working without it.
func New(opts Options) (*Logger, error) {
	lvl := new(slog.LevelVar)
	level, err := ResolveLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	lvl.Set(level)

	keep := opts.Keep
	if keep <= 0 {
		keep = DefaultKeep
	}
	l := &Logger{ring: NewRing(keep), lvl: lvl}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	writers := []io.Writer{stderr, l.ring}

	var fileErr error
	if opts.Fs != nil {
		path := opts.Path
		if path == "" {
			path = LogFilePath
		}
		if err := opts.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fileErr = fmt.Errorf("create log dir: %w", err)
		} else if f, err := opts.Fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err != nil {
			fileErr = fmt.Errorf("open log file: %w", err)
		} else {
			l.file = f
			writers = append(writers, f)
		}
	}

	h := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: lvl})
	l.Logger = slog.New(h)
	if fileErr != nil {
		l.Warn("log file disabled", "err", fileErr)
	}
	return l, nil
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level slog.Level) { l.lvl.Set(level) }

// Lines returns a copy of the most recent lines, oldest first.
func (l *Logger) Lines() []string { return l.ring.Lines() }

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Ring is an io.Writer that keeps the last N complete lines written to it.
type Ring struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
	part  []byte
}

// NewRing returns a ring keeping n lines.
func NewRing(n int) *Ring {
	if n <= 0 {
		n = DefaultKeep
	}
	return &Ring{lines: make([]string, n)}
}

func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			r.part = append(r.part, p...)
			break
		}
		r.push(string(append(r.part, p[:i]...)))
		r.part = r.part[:0]
		p = p[i+1:]
	}
	return n, nil
}

func (r *Ring) push(line string) {
	r.lines[r.next] = line
	r.next++
	if r.next == len(r.lines) {
		r.next = 0
		r.full = true
	}
}

// Lines returns a copy of all stored lines, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]string, r.next)
		copy(out, r.lines[:r.next])
		return out
	}
	out := make([]string, 0, len(r.lines))
	out = append(out, r.lines[r.next:]...)
	return append(out, r.lines[:r.next]...)
}
