package gateway

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

/* Pipeline composer
 * Stages are pure functions over the exchange: each one either lets the
 * request continue (possibly normalized) or halts it with a complete
 * response. A small composer runs them in order and adapts the whole
 * chain to net/http. No next() callbacks, no hidden control flow.
 */

// Stage inspects or repairs an exchange and decides whether it proceeds
type Stage func(*Exchange) Result

// Result is the outcome of a single stage
type Result struct {
	halted      bool
	status      int
	contentType string
	header      http.Header
	body        []byte
}

// Continue lets the exchange proceed to the next stage
func Continue() Result {
	return Result{}
}

// Halt stops the pipeline and responds immediately
func Halt(status int, contentType string, body []byte) Result {
	return Result{
		halted:      true,
		status:      status,
		contentType: contentType,
		body:        body,
	}
}

// withHeader attaches an extra response header to a halt result
func (r Result) withHeader(key, value string) Result {
	if r.header == nil {
		r.header = http.Header{}
	}
	r.header.Set(key, value)
	return r
}

// Halted reports whether the stage terminated the pipeline
func (r Result) Halted() bool {
	return r.halted
}

// Status returns the halt status code
func (r Result) Status() int {
	return r.status
}

// Body returns the halt response body
func (r Result) Body() []byte {
	return r.body
}

// Header returns any extra halt response headers
func (r Result) Header() http.Header {
	return r.header
}

/* Observer is notified at both ends of the chain: once when a request
 * arrives and once when its response is finalized. The composer invokes
 * it explicitly after the handler returns; nothing wraps or overwrites
 * methods on the response writer to spy on completion.
 */
type Observer interface {
	// Request records an inbound exchange and returns its identifier
	Request(r *http.Request, body []byte) string

	// Response records the completion of the identified request. The
	// elapsed time is measured by the composer so every consumer sees
	// the same duration.
	Response(id string, elapsed time.Duration, status int, header http.Header, body []byte)
}

// Chain composes the stages, the deadline guard and the business handler
// into a single http.Handler
type Chain struct {
	Stages   []Stage
	Handler  http.Handler
	Observer Observer

	// Budget is the hard response deadline; the carrier gives up at
	// roughly 15 seconds, so the default stays safely under it
	Budget time.Duration

	// MaxBodyBytes bounds how much of a body is buffered for the audit
	// record; the BodySizeGuard enforces the same ceiling on requests
	MaxBodyBytes int64

	// WebhookPrefix identifies paths that must receive a valid voice
	// document rather than a JSON error on timeout
	WebhookPrefix string

	Log zerolog.Logger
}

// DefaultBudget is the response-time budget when none is configured
const DefaultBudget = 14000 * time.Millisecond

// DefaultWebhookPrefix is the path prefix of carrier-facing endpoints
const DefaultWebhookPrefix = "/webhooks"

func (c *Chain) budget() time.Duration {
	if c.Budget > 0 {
		return c.Budget
	}
	return DefaultBudget
}

func (c *Chain) webhookPrefix() string {
	if c.WebhookPrefix != "" {
		return c.WebhookPrefix
	}
	return DefaultWebhookPrefix
}

// ServeHTTP runs the exchange through every stage, then the guarded
// handler, observing both ends
func (c *Chain) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ex := NewExchange(r)

	var halt *Result
	for _, stage := range c.Stages {
		result := stage(ex)
		if result.Halted() {
			halt = &result
			break
		}
	}

	// Probes bypass the audit trail entirely
	if ex.HealthCheck {
		if halt != nil {
			writeResult(w, *halt)
		} else {
			c.Handler.ServeHTTP(w, ex.Request)
		}
		return
	}

	// Only carrier-facing webhook exchanges feed the audit trail; the
	// admin and metrics surfaces have their own request logging
	observe := c.Observer != nil && strings.HasPrefix(ex.Request.URL.Path, c.webhookPrefix())

	var id string
	if observe {
		id = c.Observer.Request(ex.Request, c.auditBody(ex))
	}

	if halt != nil {
		writeResult(w, *halt)
		if observe {
			header := halt.header.Clone()
			if header == nil {
				header = http.Header{}
			}
			if halt.contentType != "" {
				header.Set("Content-Type", halt.contentType)
			}
			c.Observer.Response(id, time.Since(start), halt.status, header, halt.body)
		}
		return
	}

	status, header, body := c.serveWithDeadline(w, ex)
	if observe {
		c.Observer.Response(id, time.Since(start), status, header, body)
	}
}

// auditBody buffers the body for the request record, but never for
// payloads the size guard would have rejected anyway
func (c *Chain) auditBody(ex *Exchange) []byte {
	if c.MaxBodyBytes > 0 && ex.Request.ContentLength > c.MaxBodyBytes {
		return nil
	}
	body, err := ex.BufferedBody()
	if err != nil {
		c.Log.Warn().Err(err).Msg("buffering body for audit record")
		return nil
	}
	return body
}

func writeResult(w http.ResponseWriter, r Result) {
	for key, values := range r.header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	if r.contentType != "" {
		w.Header().Set("Content-Type", r.contentType)
	}
	w.WriteHeader(r.status)
	if len(r.body) > 0 {
		w.Write(r.body)
	}
}
