package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleWritesToOutOnly(t *testing.T) {
	var out, echo bytes.Buffer
	l := New(&out, &echo, slog.LevelInfo, slog.LevelWarn)

	l.Info("placement retry", "warrior", 1, "attempt", 3)

	assert.Contains(t, out.String(), "placement retry")
	assert.Empty(t, echo.String())
}

func TestHandleEchoesAboveThreshold(t *testing.T) {
	var out, echo bytes.Buffer
	l := New(&out, &echo, slog.LevelInfo, slog.LevelWarn)

	l.Warn("parse diagnostic", "line", 4)

	assert.Contains(t, out.String(), "parse diagnostic")
	assert.Contains(t, echo.String(), "parse diagnostic")
}

func TestHandleFiltersBelowLevel(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, nil, slog.LevelWarn, slog.LevelError)

	l.Info("ignored")

	assert.Empty(t, out.String())
}

func TestNilEchoDisablesMirroring(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, nil, slog.LevelInfo, slog.LevelWarn)

	assert.NotPanics(t, func() { l.Error("boom") })
	assert.Contains(t, out.String(), "boom")
}
