package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:       level,
		ServiceName: "shipping-quote-service",
		Environment: "test",
		Version:     "1.0.0",
		Output:      buf,
	})
	return logger, buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		records = append(records, record)
	}
	return records
}

func TestLoggerBaseAttributes(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.WithComponent("viacep").WithError(errors.New("boom")).Info("lookup failed", "cep", "85863000")

	records := lines(t, buf)
	require.Len(t, records, 1)
	record := records[0]
	assert.Equal(t, "shipping-quote-service", record["service"])
	assert.Equal(t, "test", record["environment"])
	assert.Equal(t, "1.0.0", record["version"])
	assert.Equal(t, "viacep", record["component"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "85863000", record["cep"])
}

func TestLoggerContextAttributes(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	ctx = ContextWithTraceID(ctx, "trace-1")

	logger.Performance(ctx, "calculate_shipping_quote", 25*time.Millisecond, true, map[string]any{"state": "PR"})

	records := lines(t, buf)
	require.Len(t, records, 1)
	record := records[0]
	assert.Equal(t, "req-1", record["requestId"])
	assert.Equal(t, "corr-1", record["correlationId"])
	assert.Equal(t, "trace-1", record["traceId"])
	assert.Equal(t, "calculate_shipping_quote", record["operation"])
	assert.Equal(t, float64(25), record["durationMs"])
	assert.Equal(t, "PR", record["state"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.KafkaPublish(context.Background(), "storefront.shipping.events", "storefront.shipping.quote-calculated", true, time.Millisecond)
	assert.Empty(t, buf.String())

	logger.KafkaPublish(context.Background(), "storefront.shipping.events", "storefront.shipping.quote-calculated", false, time.Millisecond)
	records := lines(t, buf)
	require.Len(t, records, 1)
	assert.Equal(t, "ERROR", records[0]["level"])
	assert.Equal(t, false, records[0]["success"])
}

func TestWithErrorNil(t *testing.T) {
	logger, _ := newBufferLogger(LevelInfo)
	assert.Same(t, logger, logger.WithError(nil))
}
