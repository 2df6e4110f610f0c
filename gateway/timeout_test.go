package gateway_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ringhub/voice-gateway/gateway"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseBudget(t *testing.T) {
	log := zerolog.Nop()

	t.Run("fast handlers pass through untouched", func(t *testing.T) {
		chain := &gateway.Chain{
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/xml")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("<Response></Response>"))
			}),
			Budget: time.Second,
			Log:    log,
		}

		rr := httptest.NewRecorder()
		chain.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhooks/voice/answer", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/xml", rr.Header().Get("Content-Type"))
		assert.Equal(t, "<Response></Response>", rr.Body.String())
	})

	t.Run("stalled webhook handlers get a playable fallback", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		chain := &gateway.Chain{
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				<-release
				w.Write([]byte("too late"))
			}),
			Budget: 20 * time.Millisecond,
			Log:    log,
		}

		rr := httptest.NewRecorder()
		chain.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhooks/voice/answer", nil))

		assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
		assert.Equal(t, "text/xml", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Body.String(), "<Response>")
	})

	t.Run("stalled admin handlers get a JSON error", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		chain := &gateway.Chain{
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				<-release
			}),
			Budget: 20 * time.Millisecond,
			Log:    log,
		}

		rr := httptest.NewRecorder()
		chain.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/reports/2026-08-28", nil))

		assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"gateway timeout"}`, rr.Body.String())
	})

	t.Run("a late write never corrupts the fallback", func(t *testing.T) {
		release := make(chan struct{})
		finished := make(chan struct{})

		chain := &gateway.Chain{
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				<-release
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("stale handler output"))
				close(finished)
			}),
			Budget: 20 * time.Millisecond,
			Log:    log,
		}

		rr := httptest.NewRecorder()
		chain.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhooks/voice/answer", nil))

		// Let the handler finish its doomed write, then check nothing leaked
		close(release)
		select {
		case <-finished:
		case <-time.After(time.Second):
			t.Fatal("stalled handler never finished")
		}

		assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
		assert.NotContains(t, rr.Body.String(), "stale handler output")
	})

	t.Run("the observer sees what the client received", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		observer := &fakeObserver{}
		chain := &gateway.Chain{
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				<-release
			}),
			Observer: observer,
			Budget:   20 * time.Millisecond,
			Log:      log,
		}

		rr := httptest.NewRecorder()
		chain.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhooks/voice/answer", strings.NewReader("a=b")))

		_, responses := observer.snapshot()
		require.Len(t, responses, 1)
		assert.Equal(t, http.StatusGatewayTimeout, responses[0].status)
		assert.Contains(t, responses[0].body, "<Response>")
	})
}
