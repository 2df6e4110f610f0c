package audit_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ringhub/voice-gateway/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportDay = "2026-08-28"

func appendRecord(t *testing.T, sink *memorySink, record any) {
	t.Helper()
	line, err := json.Marshal(record)
	require.NoError(t, err)
	require.NoError(t, sink.Append(context.Background(), reportDay, line))
}

func requestRecord(id, path string) audit.RequestRecord {
	return audit.RequestRecord{
		Type:      audit.EntryRequest,
		ID:        id,
		Timestamp: frozen,
		Method:    "POST",
		Path:      path,
	}
}

func responseRecord(id string, status int, elapsedMs int64) audit.ResponseRecord {
	return audit.ResponseRecord{
		Type:      audit.EntryResponse,
		ID:        id,
		Timestamp: frozen.Add(time.Duration(elapsedMs) * time.Millisecond),
		Status:    status,
		ElapsedMs: elapsedMs,
		Category:  audit.Classify(elapsedMs).String(),
	}
}

func TestAnalyzer(t *testing.T) {
	t.Run("aggregates a day of exchanges", func(t *testing.T) {
		sink := newMemorySink()
		for i, elapsed := range []int64{100, 200, 300} {
			id := fmt.Sprintf("req-%d", i)
			appendRecord(t, sink, requestRecord(id, "/webhooks/voice/answer"))
			appendRecord(t, sink, responseRecord(id, 200, elapsed))
		}
		appendRecord(t, sink, requestRecord("req-status", "/webhooks/voice/status"))
		appendRecord(t, sink, responseRecord("req-status", 200, 80))

		report, err := audit.NewAnalyzer(sink).Analyze(context.Background(), reportDay)

		require.NoError(t, err)
		assert.Equal(t, reportDay, report.Day)
		assert.Equal(t, 4, report.TotalRequests)
		assert.Equal(t, 4, report.TotalResponses)
		assert.Equal(t, int64(170), report.AvgResponseMs)
		assert.Equal(t, 3, report.RequestsByPath["/webhooks/voice/answer"])
		assert.Equal(t, 1, report.RequestsByPath["/webhooks/voice/status"])
		assert.Equal(t, 4, report.ResponsesByStatus[200])
		assert.Empty(t, report.SlowRequests)
		assert.Empty(t, report.Errors)
	})

	t.Run("lists slow responses individually", func(t *testing.T) {
		sink := newMemorySink()
		appendRecord(t, sink, responseRecord("fast", 200, 400))
		appendRecord(t, sink, responseRecord("slow", 200, 9000))

		report, err := audit.NewAnalyzer(sink).Analyze(context.Background(), reportDay)

		require.NoError(t, err)
		require.Len(t, report.SlowRequests, 1)
		assert.Equal(t, "slow", report.SlowRequests[0].ID)
		assert.Equal(t, "critical", report.SlowRequests[0].Category)
	})

	t.Run("lists error responses individually", func(t *testing.T) {
		sink := newMemorySink()
		appendRecord(t, sink, responseRecord("ok", 200, 100))
		appendRecord(t, sink, responseRecord("denied", 401, 50))
		appendRecord(t, sink, responseRecord("late", 504, 14000))

		report, err := audit.NewAnalyzer(sink).Analyze(context.Background(), reportDay)

		require.NoError(t, err)
		require.Len(t, report.Errors, 2)
		assert.Equal(t, 1, report.ResponsesByStatus[401])
		assert.Equal(t, 1, report.ResponsesByStatus[504])
	})

	t.Run("skips malformed lines", func(t *testing.T) {
		sink := newMemorySink()
		require.NoError(t, sink.Append(context.Background(), reportDay, []byte("{torn wri")))
		require.NoError(t, sink.Append(context.Background(), reportDay, []byte(`{"type":"NOISE"}`)))
		appendRecord(t, sink, responseRecord("ok", 200, 100))

		report, err := audit.NewAnalyzer(sink).Analyze(context.Background(), reportDay)

		require.NoError(t, err)
		assert.Equal(t, 0, report.TotalRequests)
		assert.Equal(t, 1, report.TotalResponses)
	})

	t.Run("returns an empty report for an empty day", func(t *testing.T) {
		report, err := audit.NewAnalyzer(newMemorySink()).Analyze(context.Background(), "2026-01-01")

		require.NoError(t, err)
		assert.Zero(t, report.TotalRequests)
		assert.Zero(t, report.AvgResponseMs)
		assert.NotNil(t, report.SlowRequests)
		assert.NotNil(t, report.Errors)
	})
}
