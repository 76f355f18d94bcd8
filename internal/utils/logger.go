package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

type LogConfig struct {
	Level int // 0-5, NOTSET..CRITICAL
	Debug bool
	File  string
	Out   io.Writer // defaults to stderr
}

// LevelFromNumeric maps the 0-5 verbosity scale onto zerolog levels.
func LevelFromNumeric(n int) (zerolog.Level, error) {
	switch n {
	case 0:
		return zerolog.TraceLevel, nil
	case 1:
		return zerolog.DebugLevel, nil
	case 2:
		return zerolog.InfoLevel, nil
	case 3:
		return zerolog.WarnLevel, nil
	case 4:
		return zerolog.ErrorLevel, nil
	case 5:
		return zerolog.FatalLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("log level %d outside 0-5", n)
}

// NewLogger builds the run logger. The returned closer releases the log file,
// if one was opened.
func NewLogger(cfg LogConfig) (zerolog.Logger, io.Closer, error) {
	level, err := LevelFromNumeric(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	if cfg.Debug && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	out := cfg.Out
	noColor := false
	if out == nil {
		out = os.Stderr
		noColor = !isatty.IsTerminal(os.Stderr.Fd())
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: time.DateTime,
	}}
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rf, err := OpenRotatingFile(cfg.File, LogFileMaxBytes, LogFileBackups)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("error opening log file: %w", err)
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        rf,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		})
		closer = rf
	}
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("run", uuid.NewString()[:8]).
		Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// RotatingFile is an append-only log file that rolls over to numbered
// backups once it grows past maxBytes.
type RotatingFile struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	backups  int
	file     *os.File
	size     int64
}

func OpenRotatingFile(path string, maxBytes int64, backups int) (*RotatingFile, error) {
	rf := &RotatingFile{path: path, maxBytes: maxBytes, backups: backups}
	if err := rf.open(); err != nil {
		return nil, err
	}
	return rf, nil
}

func (r *RotatingFile) open() error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	r.file = f
	r.size = info.Size()
	return nil
}

func (r *RotatingFile) rotate() error {
	if err := r.file.Close(); err != nil {
		return err
	}
	if r.backups > 0 {
		for i := r.backups - 1; i >= 1; i-- {
			os.Rename(fmt.Sprintf("%s.%d", r.path, i), fmt.Sprintf("%s.%d", r.path, i+1))
		}
		if err := os.Rename(r.path, r.path+".1"); err != nil {
			return err
		}
	} else if err := os.Truncate(r.path, 0); err != nil {
		return err
	}
	return r.open()
}

func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.maxBytes > 0 && r.size > 0 && r.size+int64(len(p)) > r.maxBytes {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
