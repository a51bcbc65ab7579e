package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Disabled as a sink path turns the outcome log off.
const Disabled = "NONE"

// SinkConfig describes where outcome lines go.
type SinkConfig struct {
	// Path is the log file. Empty means stdout and Disabled discards.
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

// Sink is the append-only destination of outcome lines.
type Sink struct {
	io.Writer
	closer io.Closer

	// Path is the file being written, empty for stdout or a disabled sink.
	Path string

	// Fallback is set when the configured file could not be opened and
	// stdout is used instead.
	Fallback bool
}

// OpenSink opens the outcome log. A file that cannot be opened is replaced by
// stdout, and a notice saying so is written there.
func OpenSink(cfg SinkConfig, stdout io.Writer) *Sink {
	if stdout == nil {
		stdout = os.Stdout
	}

	switch cfg.Path {
	case "":
		return &Sink{Writer: stdout}
	case Disabled:
		return &Sink{Writer: io.Discard}
	}

	if err := probe(cfg.Path); err != nil {
		fmt.Fprintf(stdout, "Cannot open log file %s (%v), logging to stdout\n", cfg.Path, err)
		return &Sink{Writer: stdout, Fallback: true}
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
	}
	return &Sink{Writer: lj, closer: lj, Path: cfg.Path}
}

// probe checks that path can be opened for appending. lumberjack only opens
// the file on first write, too late to fall back.
func probe(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

// Close flushes and closes the log file, if any.
func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
