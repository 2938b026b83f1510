package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - (DEBUG|INFO|WARNING|ERROR) - `)

func TestLineHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	h := NewLineHandler(&buf, slog.LevelInfo)

	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.Local)
	r := slog.NewRecord(at, slog.LevelWarn, "High CPU detected: 15.0%", 0)
	r.AddAttrs(slog.Int("cycle", 3), slog.String("dir", "/tmp/a b"))
	require.NoError(t, h.Handle(context.Background(), r))

	assert.Equal(t, "2026-03-04 05:06:07 - WARNING - High CPU detected: 15.0%\n", buf.String())
}

func TestLineHandlerDebugKeepsAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewLineHandler(&buf, slog.LevelDebug)

	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.Local)
	r := slog.NewRecord(at, slog.LevelDebug, "monitor state", 0)
	r.AddAttrs(slog.Int("cycle", 3), slog.String("dir", "/tmp/a b"))
	require.NoError(t, h.Handle(context.Background(), r))

	assert.Equal(t, "2026-03-04 05:06:07 - DEBUG - monitor state cycle=3 dir=\"/tmp/a b\"\n", buf.String())
}

func TestLineHandlerThreeFieldsAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelInfo)).With("cycle_id", "abc")

	logger.Info("Disk is healthy: 25.0% free", "path", "/")
	logger.Warn("High CPU detected: 15.0%", "cycle", 1)
	logger.Error("Auto-fix could not remove a.txt: busy", "failed", 1)

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		fields := strings.SplitN(line, " - ", 3)
		require.Len(t, fields, 3, line)
		assert.NotContains(t, fields[2], "=", line)
	}
}

func TestLineHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelInfo))

	logger.Debug("hidden")
	logger.Info("healthy")
	logger.Warn("breach")
	logger.Error("failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Regexp(t, lineRe, l)
	}
	assert.Contains(t, lines[0], " - INFO - healthy")
	assert.Contains(t, lines[1], " - WARNING - breach")
	assert.Contains(t, lines[2], " - ERROR - failed")
}

func TestLineHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelDebug)).With("cycle_id", "abc").WithGroup("disk")

	logger.Debug("sampled", "free_pct", 25.5)

	assert.Contains(t, buf.String(), " - DEBUG - sampled cycle_id=abc disk.free_pct=25.5\n")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "system.log")

	f, err := OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("first\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("second\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}
