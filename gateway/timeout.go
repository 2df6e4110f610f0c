package gateway

import (
	"bytes"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ringhub/voice-gateway/twiml"
)

/* Deadline guard
 * The carrier abandons a webhook after roughly 15 seconds and may retry
 * or drop the call; an unbounded hang is strictly worse than degraded
 * content. If the handler misses the budget the guard synthesizes a
 * fallback response: a valid voice document for webhook paths, JSON for
 * everything else. Exactly one response reaches the client either way.
 */

// captureLimit bounds how much response body is retained for the audit
// record
const captureLimit = 64 * 1024

/* serveWithDeadline runs the handler in its own goroutine and races it
 * against the budget timer and the client connection. It returns the
 * status, headers and captured body of whichever response was actually
 * sent. The timer is disarmed on every exit path.
 */
func (c *Chain) serveWithDeadline(w http.ResponseWriter, ex *Exchange) (int, http.Header, []byte) {
	gw := newGuardedWriter(w)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Handler.ServeHTTP(gw, ex.Request)
	}()

	timer := time.NewTimer(c.budget())
	defer timer.Stop()

	select {
	case <-done:
		return gw.snapshot()
	case <-ex.Request.Context().Done():
		/* The connection is gone; mark the writer dead so the stalled
		 * handler's eventual write is a no-op instead of a write on a
		 * closed connection.
		 */
		gw.abandon()
		c.Log.Warn().Str("path", ex.Request.URL.Path).Msg("client disconnected before response")
		return gw.snapshot()
	case <-timer.C:
		c.writeFallback(gw, ex)
		c.Log.Error().
			Str("path", ex.Request.URL.Path).
			Dur("budget", c.budget()).
			Msg("handler exceeded response budget, fallback sent")
		return gw.snapshot()
	}
}

// writeFallback synthesizes the 504 response for a blown deadline
func (c *Chain) writeFallback(gw *guardedWriter, ex *Exchange) {
	if strings.HasPrefix(ex.Request.URL.Path, c.webhookPrefix()) {
		gw.writeOnce(http.StatusGatewayTimeout, twiml.ContentType, []byte(twiml.Unavailable()))
		return
	}
	gw.writeOnce(http.StatusGatewayTimeout, "application/json", []byte(`{"error":"gateway timeout"}`))
}

/* guardedWriter serializes access to the underlying ResponseWriter and
 * guarantees the single-response invariant: once the fallback has been
 * written, or the connection abandoned, any later write from the real
 * handler is silently discarded. The handler only ever sees a private
 * header map, so a stalled handler cannot race the real connection.
 */
type guardedWriter struct {
	mu          sync.Mutex
	w           http.ResponseWriter
	h           http.Header
	sent        http.Header
	status      int
	wroteHeader bool
	dead        bool
	capture     bytes.Buffer
}

func newGuardedWriter(w http.ResponseWriter) *guardedWriter {
	return &guardedWriter{w: w, h: make(http.Header)}
}

func (g *guardedWriter) Header() http.Header {
	return g.h
}

func (g *guardedWriter) WriteHeader(status int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.writeHeaderLocked(status)
}

func (g *guardedWriter) writeHeaderLocked(status int) {
	if g.wroteHeader || g.dead {
		return
	}
	dst := g.w.Header()
	for key, values := range g.h {
		dst[key] = values
	}
	g.sent = g.h.Clone()
	g.status = status
	g.wroteHeader = true
	g.w.WriteHeader(status)
}

func (g *guardedWriter) Write(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dead {
		// The deadline fired or the client left; pretend the write
		// succeeded so the stalled handler never sees an error
		return len(p), nil
	}
	if !g.wroteHeader {
		g.writeHeaderLocked(http.StatusOK)
	}
	if g.capture.Len() < captureLimit {
		g.capture.Write(p[:min(len(p), captureLimit-g.capture.Len())])
	}
	return g.w.Write(p)
}

// writeOnce writes a complete synthesized response unless the handler
// already responded, then marks the writer dead
func (g *guardedWriter) writeOnce(status int, contentType string, body []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.wroteHeader && !g.dead {
		g.w.Header().Set("Content-Type", contentType)
		g.sent = http.Header{"Content-Type": []string{contentType}}
		g.status = status
		g.wroteHeader = true
		g.w.WriteHeader(status)
		g.w.Write(body)
		g.capture.Write(body)
	}
	g.dead = true
}

// abandon marks the writer dead without writing anything
func (g *guardedWriter) abandon() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dead = true
}

// snapshot returns what was actually sent, for the response observer
func (g *guardedWriter) snapshot() (int, http.Header, []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	status := g.status
	if !g.wroteHeader {
		status = http.StatusOK
	}
	header := g.sent
	if header == nil {
		header = http.Header{}
	}
	body := make([]byte, g.capture.Len())
	copy(body, g.capture.Bytes())
	return status, header, body
}
