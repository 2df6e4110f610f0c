package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
)

/* Analyzer computes a retrospective report over one day's audit trail
 * Reports are computed on demand and never persisted.
 */

// SlowThresholdMs is the elapsed time above which a response is listed
// individually in the report
const SlowThresholdMs = 5000

// Report aggregates one calendar day of webhook exchanges
type Report struct {
	Day               string           `json:"day"`
	TotalRequests     int              `json:"total_requests"`
	TotalResponses    int              `json:"total_responses"`
	AvgResponseMs     int64            `json:"avg_response_ms"`
	SlowRequests      []ResponseRecord `json:"slow_requests"`
	Errors            []ResponseRecord `json:"errors"`
	RequestsByPath    map[string]int   `json:"requests_by_path"`
	ResponsesByStatus map[int]int      `json:"responses_by_status"`
}

type Analyzer struct {
	store DayReader
}

// NewAnalyzer creates an analyzer over the given audit store
func NewAnalyzer(store DayReader) *Analyzer {
	return &Analyzer{store: store}
}

/* Analyze reads the given day's store and aggregates it.
 * Malformed or partial lines are skipped, never fatal: a torn write from
 * a concurrent appender must not take down the whole report.
 */
func (a *Analyzer) Analyze(ctx context.Context, day string) (Report, error) {
	lines, err := a.store.ReadDay(ctx, day)
	if err != nil {
		return Report{}, fmt.Errorf("reading audit store for %s: %w", day, err)
	}

	report := Report{
		Day:               day,
		SlowRequests:      []ResponseRecord{},
		Errors:            []ResponseRecord{},
		RequestsByPath:    make(map[string]int),
		ResponsesByStatus: make(map[int]int),
	}

	var totalElapsed int64
	for _, line := range lines {
		entryType, ok := peekType(line)
		if !ok {
			continue
		}

		switch entryType {
		case EntryRequest:
			var record RequestRecord
			if err := json.Unmarshal(line, &record); err != nil {
				continue
			}
			report.TotalRequests++
			report.RequestsByPath[record.Path]++
		case EntryResponse:
			var record ResponseRecord
			if err := json.Unmarshal(line, &record); err != nil {
				continue
			}
			report.TotalResponses++
			report.ResponsesByStatus[record.Status]++
			totalElapsed += record.ElapsedMs
			if record.ElapsedMs > SlowThresholdMs {
				report.SlowRequests = append(report.SlowRequests, record)
			}
			if record.Status >= http.StatusBadRequest {
				report.Errors = append(report.Errors, record)
			}
		}
	}

	if report.TotalResponses > 0 {
		report.AvgResponseMs = int64(math.Round(float64(totalElapsed) / float64(report.TotalResponses)))
	}

	return report, nil
}

// peekType extracts the entry type without committing to a full decode
func peekType(line []byte) (EntryType, bool) {
	var probe struct {
		Type EntryType `json:"type"`
	}
	if err := json.Unmarshal(line, &probe); err != nil {
		return "", false
	}
	switch probe.Type {
	case EntryRequest, EntryResponse:
		return probe.Type, true
	default:
		return "", false
	}
}
