package audit

import "time"

/* Audit records for webhook exchanges
 * Uses value semantics as they represent data, not behavior.
 * Records are immutable once written: a ResponseRecord always carries the
 * ID of the RequestRecord it completes.
 */

// EntryType tags a persisted log line
type EntryType string

const (
	EntryRequest  EntryType = "REQUEST"
	EntryResponse EntryType = "RESPONSE"
)

// CallEvent is the telephony projection extracted opportunistically
// from the webhook body or query string
type CallEvent struct {
	CallID    string `json:"call_id,omitempty"`
	AccountID string `json:"account_id,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Status    string `json:"status,omitempty"`
}

// IsZero reports whether no telephony field was present
func (e CallEvent) IsZero() bool {
	return e == CallEvent{}
}

// RequestRecord captures one inbound webhook request
type RequestRecord struct {
	Type      EntryType         `json:"type"`
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Method    string            `json:"method"`
	Path      string            `json:"path"`
	Query     map[string]string `json:"query,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Signed    bool              `json:"signed"`
	Body      map[string]any    `json:"body,omitempty"`
	Call      *CallEvent        `json:"call,omitempty"`
}

// ResponseRecord captures the completion of a webhook request
type ResponseRecord struct {
	Type      EntryType         `json:"type"`
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	ElapsedMs int64             `json:"elapsed_ms"`
	Category  string            `json:"category"`
	Headers   map[string]string `json:"headers,omitempty"`
	// Body is only retained for error responses (status >= 400)
	Body string `json:"body,omitempty"`
}
