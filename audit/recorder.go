package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ringhub/voice-gateway/gateway/signature"
)

/* Recorder is the webhook audit logger
 * One explicit instance is constructed at process start and handed to the
 * pipeline; there is no package-level singleton. The clock and the sink
 * are injectable so tests can drive both.
 */

// DayFormat is the calendar-day key for the append-only store (UTC)
const DayFormat = "2006-01-02"

// headersOfInterest are the only request headers worth persisting
var headersOfInterest = []string{
	"Content-Type",
	"Content-Length",
	"X-Forwarded-Host",
	"X-Forwarded-Proto",
	"X-Forwarded-For",
}

type Recorder struct {
	sink      Sink
	sensitive []string
	console   bool
	persist   bool
	out       io.Writer
	now       func() time.Time
}

// Option configures a Recorder
type Option func(*Recorder)

// WithConsole toggles structured console output
func WithConsole(enabled bool) Option {
	return func(r *Recorder) { r.console = enabled }
}

// WithPersistence toggles writes to the durable sink
func WithPersistence(enabled bool) Option {
	return func(r *Recorder) { r.persist = enabled }
}

// WithSensitiveFields overrides the default redaction list
func WithSensitiveFields(fields []string) Option {
	return func(r *Recorder) {
		if len(fields) > 0 {
			r.sensitive = fields
		}
	}
}

// WithClock injects the time source, used by tests
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithOutput redirects console output, used by tests
func WithOutput(w io.Writer) Option {
	return func(r *Recorder) { r.out = w }
}

// NewRecorder creates an audit recorder backed by the given sink
func NewRecorder(sink Sink, opts ...Option) *Recorder {
	r := &Recorder{
		sink:      sink,
		sensitive: DefaultSensitiveFields,
		console:   true,
		persist:   true,
		out:       os.Stdout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

/* Request assigns a request identifier, builds the redacted record and
 * emits it. It implements the request half of gateway.Observer.
 */
func (r *Recorder) Request(req *http.Request, body []byte) string {
	id := uuid.New().String()

	query := flattenValues(req.URL.Query())
	bodyFields := parseBody(req.Header.Get("Content-Type"), body)

	record := RequestRecord{
		Type:      EntryRequest,
		ID:        id,
		Timestamp: r.now().UTC(),
		Method:    req.Method,
		Path:      req.URL.Path,
		Query:     RedactValues(query, r.sensitive),
		Headers:   selectHeaders(req.Header),
		Signed:    req.Header.Get(signature.Header) != "",
		Body:      Redact(bodyFields, r.sensitive),
	}

	if event := ExtractCallEvent(bodyFields, query); !event.IsZero() {
		record.Call = &event
	}

	r.emit(req.Context(), record.Timestamp, record)
	return id
}

// Response builds and emits the completion record for a request.
// The response body is only retained for error statuses.
func (r *Recorder) Response(id string, elapsed time.Duration, status int, header http.Header, body []byte) {
	elapsedMs := elapsed.Milliseconds()

	record := ResponseRecord{
		Type:      EntryResponse,
		ID:        id,
		Timestamp: r.now().UTC(),
		Status:    status,
		ElapsedMs: elapsedMs,
		Category:  Classify(elapsedMs).String(),
		Headers:   selectHeaders(header),
	}
	if status >= http.StatusBadRequest {
		record.Body = string(body)
	}

	r.emit(context.Background(), record.Timestamp, record)
}

/* emit serializes a record to the console and the durable sink.
 * A sink failure is logged and swallowed: observability must never be
 * able to break call handling.
 */
func (r *Recorder) emit(ctx context.Context, at time.Time, record any) {
	line, err := json.Marshal(record)
	if err != nil {
		fmt.Fprintf(r.out, "audit: marshaling record: %v\n", err)
		return
	}

	if r.console {
		fmt.Fprintf(r.out, "%s\n", line)
	}

	if r.persist && r.sink != nil {
		day := at.UTC().Format(DayFormat)
		if err := r.sink.Append(ctx, day, line); err != nil {
			fmt.Fprintf(r.out, "audit: appending to sink: %v\n", err)
		}
	}
}

// ExtractCallEvent projects the carrier call fields out of a webhook
// body or query string, tolerating both form and JSON field spellings
func ExtractCallEvent(body map[string]any, query map[string]string) CallEvent {
	get := func(names ...string) string {
		for _, name := range names {
			if value, ok := body[name]; ok {
				if s, ok := value.(string); ok && s != "" {
					return s
				}
			}
			if s, ok := query[name]; ok && s != "" {
				return s
			}
		}
		return ""
	}

	return CallEvent{
		CallID:    get("CallSid", "CallUUID", "call_id"),
		AccountID: get("AccountSid", "account_id"),
		From:      get("From", "from"),
		To:        get("To", "to"),
		Status:    get("CallStatus", "call_status"),
	}
}

// parseBody decodes a webhook body into a field map.
// Carriers send form-encoded payloads by default, JSON optionally;
// anything else is left out of the record.
func parseBody(contentType string, body []byte) map[string]any {
	if len(body) == 0 {
		return nil
	}

	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	switch {
	case strings.Contains(mediaType, "json"):
		var fields map[string]any
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil
		}
		return fields
	case mediaType == "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil
		}
		fields := make(map[string]any, len(values))
		for key := range values {
			fields[key] = values.Get(key)
		}
		return fields
	default:
		return nil
	}
}

func selectHeaders(header http.Header) map[string]string {
	if header == nil {
		return nil
	}
	selected := make(map[string]string)
	for _, name := range headersOfInterest {
		if value := header.Get(name); value != "" {
			selected[name] = value
		}
	}
	if len(selected) == 0 {
		return nil
	}
	return selected
}

func flattenValues(values url.Values) map[string]string {
	if len(values) == 0 {
		return nil
	}
	flat := make(map[string]string, len(values))
	for key := range values {
		flat[key] = values.Get(key)
	}
	return flat
}
