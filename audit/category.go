package audit

import "fmt"

/* PerfCategory buckets a completed response by elapsed time
 * Used for operational triage: anything "critical" is dangerously close
 * to the carrier's own abandonment window.
 */
type PerfCategory int

const (
	Excellent PerfCategory = iota + 1
	Good
	Fair
	Slow
	Critical
)

// String returns the string representation of the category
func (c PerfCategory) String() string {
	switch c {
	case Excellent:
		return "excellent"
	case Good:
		return "good"
	case Fair:
		return "fair"
	case Slow:
		return "slow"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// NewPerfCategory creates a PerfCategory from a string
func NewPerfCategory(s string) PerfCategory {
	switch s {
	case "excellent":
		return Excellent
	case "good":
		return Good
	case "fair":
		return Fair
	case "slow":
		return Slow
	case "critical":
		return Critical
	default:
		return Critical
	}
}

// Validate checks if the category is valid
func (c PerfCategory) Validate() error {
	if c < Excellent || c > Critical {
		return fmt.Errorf("invalid performance category: %d", c)
	}
	return nil
}

// Classify assigns a category to an elapsed time in milliseconds
func Classify(elapsedMs int64) PerfCategory {
	switch {
	case elapsedMs < 100:
		return Excellent
	case elapsedMs < 500:
		return Good
	case elapsedMs < 1000:
		return Fair
	case elapsedMs < 5000:
		return Slow
	default:
		return Critical
	}
}
