package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation parameters for the supervisor's own log file.
const (
	DefaultMaxSizeMB  = 10 // MB
	DefaultMaxBackups = 3  // number of backup files
	DefaultMaxAgeDays = 7  // days
)

// Config describes log destinations. Dir is the base directory for the
// supervisor log and for supervised process output. Supervised processes get
// plain append files Dir/<name>.stdout.log and Dir/<name>.stderr.log: a
// child must hold real file descriptors because it outlives every supervisor
// invocation. The supervisor's own file at Dir/vigil.log is rotated with
// lumberjack semantics.
type Config struct {
	Dir        string `mapstructure:"dir"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ChildFiles opens append-mode stdout/stderr files for the supervised
// process identified by name. Both are nil when no Dir is configured; the
// caller falls back to /dev/null.
func (c Config) ChildFiles(name string) (stdout, stderr *os.File, err error) {
	if c.Dir == "" {
		return nil, nil, nil
	}
	if err := os.MkdirAll(c.Dir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("create log dir %s: %w", c.Dir, err)
	}
	stdout, err = openAppend(filepath.Join(c.Dir, fmt.Sprintf("%s.stdout.log", name)))
	if err != nil {
		return nil, nil, err
	}
	stderr, err = openAppend(filepath.Join(c.Dir, fmt.Sprintf("%s.stderr.log", name)))
	if err != nil {
		_ = stdout.Close()
		return nil, nil, err
	}
	return stdout, stderr, nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}

// rotating returns the lumberjack writer for the supervisor's own log.
func (c Config) rotating() io.Writer {
	return &lj.Logger{
		Filename:   filepath.Join(c.Dir, "vigil.log"),
		MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   c.Compress,
	}
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Setup installs the default slog logger. Records go colorized to stderr;
// when c.Dir is set they are mirrored to the rotated Dir/vigil.log so cron
// runs leave a trail.
func Setup(debug bool, c Config) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = NewColorTextHandler(os.Stderr, opts, true)
	if c.Dir != "" {
		h = multiHandler{
			NewColorTextHandler(os.Stderr, opts, true),
			slog.NewTextHandler(c.rotating(), opts),
		}
	}
	slog.SetDefault(slog.New(h))
}

// multiHandler fans a record out to every wrapped handler.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range m {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
