// Package logging provides the diagnostic logger and the outcome log sink.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new Field (shorthand for structured logging)
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level string // debug, info, warn, error

	// NoColor turns off colored level labels. Otherwise they are used when
	// the output is a terminal.
	NoColor bool
}

// DefaultConfig returns default logging configuration
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// ParseLevel converts a string to a level, falling back to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warning":
		return log.WarnLevel
	}
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Logger is a leveled, component tagged logger.
type Logger struct {
	base *log.Logger
}

// New creates a Logger writing to w. A nil w means stderr.
func New(cfg Config, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}

	base := log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(cfg.Level),
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	if !cfg.NoColor && isTerminal(w) {
		base.SetStyles(levelStyles())
	}

	return &Logger{base: base}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func levelStyles() *log.Styles {
	styles := log.DefaultStyles()

	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Bold(true).
		Foreground(lipgloss.Color("63"))

	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO ").
		Bold(true).
		Foreground(lipgloss.Color("86"))

	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN ").
		Bold(true).
		Foreground(lipgloss.Color("192"))

	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Bold(true).
		Foreground(lipgloss.Color("204"))

	return styles
}

func keyvals(component string, err error, fields []Field) []interface{} {
	kv := make([]interface{}, 0, 2*len(fields)+4)
	kv = append(kv, "component", component)
	if err != nil {
		kv = append(kv, "error", err)
	}
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

// Debug logs a debug message
func (l *Logger) Debug(component, msg string, fields ...Field) {
	l.base.Debug(msg, keyvals(component, nil, fields)...)
}

// Info logs an info message
func (l *Logger) Info(component, msg string, fields ...Field) {
	l.base.Info(msg, keyvals(component, nil, fields)...)
}

// Warn logs a warning message
func (l *Logger) Warn(component, msg string, fields ...Field) {
	l.base.Warn(msg, keyvals(component, nil, fields)...)
}

// Error logs an error message with an error
func (l *Logger) Error(component, msg string, err error, fields ...Field) {
	l.base.Error(msg, keyvals(component, err, fields)...)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() log.Level {
	return l.base.GetLevel()
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level log.Level) {
	l.base.SetLevel(level)
}

// Nop returns a no-operation logger that discards all output
func Nop() *Logger {
	return &Logger{base: log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})}
}
