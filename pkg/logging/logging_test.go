package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},

		{"DEBUG", LevelDebug},
		{"WARNING", LevelWarn},
		{"Error", LevelError},
		{"dEbUg", LevelDebug},
		{" warn ", LevelWarn},

		// Empty and unrecognized default to Info
		{"", LevelInfo},
		{"trace", LevelInfo},
		{"fatal", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFormat(tt.input))
		})
	}
}

func TestNew_RespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "operation", "GetItem")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"operation":"GetItem"`)
}

func TestNop(t *testing.T) {
	logger := Nop()
	require.NotNil(t, logger)
	logger.Error("discarded")
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("boom") }

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: LevelDebug}),
		nil,
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: LevelError}),
	)
	logger := slog.New(h).With("component", "parser")

	logger.Info("to a only")
	logger.Error("to both")

	assert.Contains(t, a.String(), "to a only")
	assert.Contains(t, a.String(), "component=parser")
	assert.Contains(t, a.String(), "to both")
	assert.NotContains(t, b.String(), "to a only")
	assert.Contains(t, b.String(), "to both")
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	var buf bytes.Buffer
	ok := slog.NewTextHandler(&buf, nil)
	h := NewMultiHandler(failingHandler{ok}, ok)

	err := h.Handle(context.Background(), slog.NewRecord(timeZero, LevelInfo, "msg", 0))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "msg", "a failing handler must not stop the others")
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ewsparse.log")
	var console bytes.Buffer

	logger, closeFn, err := NewWithFile(Config{Level: LevelInfo, Output: &console}, path)
	require.NoError(t, err)
	logger.Info("decoded", "items", 2)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"), "file output is JSON")
	assert.Contains(t, string(data), `"items":2`)
	assert.Contains(t, console.String(), "items=2")
}

func TestNewWithFile_NoPath(t *testing.T) {
	logger, closeFn, err := NewWithFile(DefaultConfig(), "")
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NoError(t, closeFn())
}

var timeZero = time.Time{}
