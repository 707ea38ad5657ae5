// Package logging builds the zerolog logger shared by every devopswatch command.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for the optional log file.
const (
	logMaxSizeMB   = 10
	logMaxBackups  = 3
	logMaxAgeDays  = 14
	logCompressOld = true
)

// Options configure New.
type Options struct {
	Verbose bool
	Quiet   bool
	// File, when set, additionally writes redacted JSON logs to a rotating file.
	File string
	// Writer overrides the console destination. Defaults to os.Stderr.
	Writer io.Writer
}

// New creates a logger for the given options. The returned closer releases the
// log file, if any, and is never nil.
//
// Log levels:
//   - Verbose: Debug
//   - Quiet: Warn
//   - default: Info
//
// A terminal Writer gets human-readable console output unless NO_COLOR is set;
// anything else receives JSON lines.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	console := opts.Writer
	if console == nil {
		console = os.Stderr
	}
	console = selectOutput(console)

	writer := console
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		fileWriter, err := newFileWriter(opts.File)
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		writer = zerolog.MultiLevelWriter(console, fileWriter)
		closer = fileWriter
	}

	logger := zerolog.New(writer).
		Level(selectLevel(opts.Verbose, opts.Quiet)).
		Hook(NewSensitiveDataHook()).
		With().Timestamp().Logger()
	return logger, closer, nil
}

func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

func selectOutput(w io.Writer) io.Writer {
	f, ok := w.(*os.File)
	if ok && term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return w
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// fileWriter is a rotating log file whose output is redacted before it hits disk.
type fileWriter struct {
	filter *FilteringWriter
	lj     *lumberjack.Logger
}

func newFileWriter(path string) (*fileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   logCompressOld,
	}
	return &fileWriter{filter: NewFilteringWriter(lj), lj: lj}, nil
}

func (w *fileWriter) Write(p []byte) (int, error) { return w.filter.Write(p) }

func (w *fileWriter) Close() error { return w.lj.Close() }
