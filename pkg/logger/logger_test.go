package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	opts := DefaultOptions()
	opts.Output = buf
	opts.Level = level
	return New(opts), buf
}

func TestLogger_JSONFields(t *testing.T) {
	log, buf := newBufferLogger(LevelInfo)

	log.With(Component("enrichment")).Info("lookup finished",
		StudentID(42),
		Err(errors.New("boom")),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "lookup finished", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "enrichment", entry["component"])
	assert.Equal(t, float64(42), entry["student_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.Contains(t, entry, "timestamp")
}

func TestLogger_LevelFiltering(t *testing.T) {
	log, buf := newBufferLogger(LevelWarn)

	log.Debug("hidden")
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestLogger_WithLevelDoesNotAffectParent(t *testing.T) {
	log, buf := newBufferLogger(LevelError)

	log.WithLevel(LevelDebug).Debug("child debug")
	assert.Contains(t, buf.String(), "child debug")

	buf.Reset()
	log.Debug("parent debug")
	assert.Zero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" WARNING "))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestContextRoundTrip(t *testing.T) {
	log, buf := newBufferLogger(LevelInfo)
	ctx := WithContext(context.Background(), log.WithRequestID("req-1"))

	FromContext(ctx).Info("from context")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}
