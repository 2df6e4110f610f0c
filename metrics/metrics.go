package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Snapshot represents the current state of the webhook gateway.
type Snapshot struct {
	// TotalRequests is the number of webhook exchanges observed since start
	TotalRequests int64 `json:"total_requests"`

	// CategoryCounts maps performance category to completed response count
	CategoryCounts map[string]int64 `json:"category_counts"`

	// StatusClassCounts maps status class ("2xx", "4xx", ...) to count
	StatusClassCounts map[string]int64 `json:"status_class_counts"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting metrics from the gateway.
type Collector interface {
	// Collect gathers current metrics from the gateway
	Collect(ctx context.Context) (Snapshot, error)

	// GetCategoryCounts returns completed responses per performance category
	GetCategoryCounts(ctx context.Context) (map[string]int64, error)

	// GetStatusClassCounts returns completed responses per status class
	GetStatusClassCounts(ctx context.Context) (map[string]int64, error)
}

/* Tracker is the in-process Collector fed by the response observer.
 * Counters only, no histograms: the per-request latency detail already
 * lives in the audit trail.
 */
type Tracker struct {
	mu         sync.Mutex
	total      int64
	byCategory map[string]int64
	byStatus   map[string]int64
}

// NewTracker creates an empty metrics tracker
func NewTracker() *Tracker {
	return &Tracker{
		byCategory: make(map[string]int64),
		byStatus:   make(map[string]int64),
	}
}

// Track records one completed exchange
func (t *Tracker) Track(status int, category string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total++
	t.byCategory[category]++
	t.byStatus[statusClass(status)]++
}

// Collect gathers current metrics
func (t *Tracker) Collect(ctx context.Context) (Snapshot, error) {
	categories, err := t.GetCategoryCounts(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	statuses, err := t.GetStatusClassCounts(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	t.mu.Lock()
	total := t.total
	t.mu.Unlock()

	return Snapshot{
		TotalRequests:     total,
		CategoryCounts:    categories,
		StatusClassCounts: statuses,
		Timestamp:         time.Now(),
	}, nil
}

// GetCategoryCounts returns completed responses per performance category
func (t *Tracker) GetCategoryCounts(ctx context.Context) (map[string]int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyCounts(t.byCategory), nil
}

// GetStatusClassCounts returns completed responses per status class
func (t *Tracker) GetStatusClassCounts(ctx context.Context) (map[string]int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyCounts(t.byStatus), nil
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return fmt.Sprintf("%dxx", status/100)
}

func copyCounts(counts map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(counts))
	for key, value := range counts {
		out[key] = value
	}
	return out
}
