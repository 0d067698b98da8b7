package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelError, levelFromString("ERROR"))
	assert.Equal(t, slog.LevelWarn, levelFromString(" warning "))
	assert.Equal(t, slog.LevelInfo, levelFromString("info"))
	assert.Equal(t, slog.LevelDebug, levelFromString("anything"))
}

func TestSlogSinkWritesDebugLines(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewSlogSink(NewWithWriter(&buf, "debug"))
	sink.Record(context.Background(), "source.live_attempted", slog.String("provider", "live"))

	assert.Contains(t, buf.String(), "source.live_attempted")
	assert.Contains(t, buf.String(), "provider=live")

	buf.Reset()
	NewSlogSink(NewWithWriter(&buf, "info")).Record(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	var nilSink *SlogSink
	nilSink.Record(context.Background(), "ignored")
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	rec.Record(context.Background(), "a", slog.Int("n", 3))
	rec.Record(context.Background(), "b")

	assert.Equal(t, []string{"a", "b"}, rec.Names())
	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, int64(3), events[0].Attrs["n"])
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NopSink{}, OrNop(nil))
	rec := &Recorder{}
	assert.Same(t, rec, OrNop(rec))
}
