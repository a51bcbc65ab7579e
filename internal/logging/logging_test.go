package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"bogus", log.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info"}, &buf)

	l.Debug("organizer", "hidden")
	l.Info("organizer", "processing", F("file", "a.mkv"))
	l.Error("organizer", "move failed", errors.New("disk full"), F("file", "b.mkv"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "processing")
	assert.Contains(t, out, "component=organizer")
	assert.Contains(t, out, "file=a.mkv")
	assert.Contains(t, out, "disk full")

	buf.Reset()
	l.SetLevel(log.DebugLevel)
	l.Debug("naming", "now visible")
	assert.Contains(t, buf.String(), "now visible")
	assert.Equal(t, log.DebugLevel, l.GetLevel())
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("x", "nothing")
	l.Error("x", "nothing", errors.New("ignored"))
}

func TestOpenSinkStdout(t *testing.T) {
	var stdout bytes.Buffer
	s := OpenSink(SinkConfig{}, &stdout)
	defer s.Close()

	_, err := s.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.Equal(t, "line\n", stdout.String())
	assert.Empty(t, s.Path)
	assert.False(t, s.Fallback)
}

func TestOpenSinkDisabled(t *testing.T) {
	var stdout bytes.Buffer
	s := OpenSink(SinkConfig{Path: Disabled}, &stdout)
	defer s.Close()

	_, err := s.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
}

func TestOpenSinkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fixnums.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("earlier\n"), 0644))

	var stdout bytes.Buffer
	s := OpenSink(SinkConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1}, &stdout)
	_, err := s.Write([]byte("later\n"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "earlier\nlater\n", string(data), "sink must append")
	assert.Empty(t, stdout.String())
	assert.Equal(t, path, s.Path)
}

func TestOpenSinkFallback(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// A regular file in place of the parent directory cannot be opened.
	path := filepath.Join(blocker, "fixnums.log")

	var stdout bytes.Buffer
	s := OpenSink(SinkConfig{Path: path}, &stdout)
	defer s.Close()

	assert.True(t, s.Fallback)
	assert.True(t, strings.HasPrefix(stdout.String(), "Cannot open log file "+path))

	stdout.Reset()
	_, err := s.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.Equal(t, "line\n", stdout.String())
}
