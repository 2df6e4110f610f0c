package audit

import "context"

/* Small, focused interfaces following "The Go Way"
 * The audit trail only ever appends and replays whole days, so the
 * storage contract stays deliberately narrow.
 */

// Appender provides write access to the per-day audit store
type Appender interface {
	/* Append adds one self-contained record line to the given day's store.
	 * Concurrent appends may interleave at write-call granularity; callers
	 * must emit one complete line per call.
	 */
	Append(ctx context.Context, day string, line []byte) error
}

// DayReader provides read access for retrospective analysis
type DayReader interface {
	// ReadDay returns every stored line for the given day, in append order
	ReadDay(ctx context.Context, day string) ([][]byte, error)
}

// Sink is the full storage contract for audit records
type Sink interface {
	Appender
	DayReader
	Close(ctx context.Context) error
}
