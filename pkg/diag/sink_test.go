package diag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySinkKeepsMostRecent(t *testing.T) {
	sink := NewMemorySink(3)
	for i := 0; i < 5; i++ {
		sink.Record(LevelInfo, fmt.Sprintf("event %d", i))
	}

	assert.Equal(t, []string{"event 2", "event 3", "event 4"}, sink.Messages())

	sink.Reset()
	assert.Empty(t, sink.Events())
}

func TestMemorySinkDefaultLimit(t *testing.T) {
	sink := NewMemorySink(0)
	for i := 0; i < DefaultMemoryLimit+10; i++ {
		sink.Record(LevelWarn, "x")
	}
	assert.Len(t, sink.Events(), DefaultMemoryLimit)
}

func TestMemorySinkConcurrent(t *testing.T) {
	sink := NewMemorySink(1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				sink.Record(LevelOK, "ok")
			}
		}()
	}
	wg.Wait()

	assert.Len(t, sink.Events(), 500)
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewMemorySink(0), NewMemorySink(0)
	s := Multi(a, nil, b)

	s.Record(LevelError, "boom")
	assert.Equal(t, []string{"boom"}, a.Messages())
	assert.Equal(t, []string{"boom"}, b.Messages())

	assert.Equal(t, Nop, Multi())
	assert.Equal(t, Sink(a), Multi(nil, a))
}

func TestSinkFunc(t *testing.T) {
	var got []string
	s := SinkFunc(func(level Level, message string) {
		got = append(got, level.String()+":"+message)
	})
	s.Record(LevelWarn, "careful")
	assert.Equal(t, []string{"warn:careful"}, got)
}

func TestLevelNames(t *testing.T) {
	for _, l := range []Level{LevelInfo, LevelOK, LevelWarn, LevelError} {
		assert.Equal(t, l, ParseLevel(l.String()))
	}
	assert.Equal(t, LevelError, ParseLevel("ERROR"))
	assert.Equal(t, LevelInfo, ParseLevel("chatty"))

	data, err := json.Marshal(Event{Level: LevelError, Message: "m"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"err"`)
}

func TestLoggerSink(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "debug", Format: "json", Output: &buf})
	sink := NewLoggerSink(logger)

	sink.Record(LevelOK, "Parsed: 1234567890")
	sink.Record(LevelError, "Parser error: pnr")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "info", first["level"])
	assert.Equal(t, true, first["ok"])
	assert.Equal(t, "ticketplumber", first["service"])
	assert.Equal(t, "ticket-parser", first["component"])
	assert.Equal(t, "Parsed: 1234567890", first["message"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "error", second["level"])
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLoggerSink(NewLogger(LogConfig{Level: "warn", Output: &buf}))

	sink.Record(LevelInfo, "hidden")
	sink.Record(LevelOK, "hidden too")
	assert.Zero(t, buf.Len())

	sink.Record(LevelWarn, "shown")
	assert.Contains(t, buf.String(), "shown")
}
