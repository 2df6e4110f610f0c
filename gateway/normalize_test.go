package gateway_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ringhub/voice-gateway/gateway"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer(t *testing.T) {
	log := zerolog.Nop()

	t.Run("strips exactly one trailing slash", func(t *testing.T) {
		stage := gateway.Normalizer(gateway.NormalizerConfig{}, log)
		ex := gateway.NewExchange(httptest.NewRequest(http.MethodPost, "/webhooks/voice/answer/", nil))

		result := stage(ex)

		require.False(t, result.Halted())
		assert.Equal(t, "/webhooks/voice/answer", ex.Request.URL.Path)
	})

	t.Run("leaves the root path alone", func(t *testing.T) {
		stage := gateway.Normalizer(gateway.NormalizerConfig{}, log)
		ex := gateway.NewExchange(httptest.NewRequest(http.MethodGet, "/", nil))

		result := stage(ex)

		require.False(t, result.Halted())
		assert.Equal(t, "/", ex.Request.URL.Path)
	})

	t.Run("strips only one slash from a doubled suffix", func(t *testing.T) {
		stage := gateway.Normalizer(gateway.NormalizerConfig{}, log)
		ex := gateway.NewExchange(httptest.NewRequest(http.MethodPost, "/webhooks/voice/answer//", nil))

		stage(ex)

		assert.Equal(t, "/webhooks/voice/answer/", ex.Request.URL.Path)
	})

	t.Run("adopts the forwarded host", func(t *testing.T) {
		stage := gateway.Normalizer(gateway.NormalizerConfig{}, log)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/voice/answer", nil)
		req.Host = "internal-lb:8080"
		req.Header.Set("X-Forwarded-Host", "gw.example.com")
		ex := gateway.NewExchange(req)

		result := stage(ex)

		require.False(t, result.Halted())
		assert.Equal(t, "gw.example.com", ex.Host)
		assert.Equal(t, "gw.example.com", ex.Request.Host)
	})

	t.Run("never redirects a plaintext webhook request in production", func(t *testing.T) {
		stage := gateway.Normalizer(gateway.NormalizerConfig{Production: true}, log)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/voice/answer", nil)
		req.Header.Set("X-Forwarded-Proto", "http")
		ex := gateway.NewExchange(req)

		result := stage(ex)

		assert.False(t, result.Halted())
	})

	t.Run("redirects plaintext non-webhook paths in production", func(t *testing.T) {
		stage := gateway.Normalizer(gateway.NormalizerConfig{Production: true}, log)
		req := httptest.NewRequest(http.MethodGet, "/v1/reports/2026-08-28", nil)
		req.Host = "gw.example.com"
		req.Header.Set("X-Forwarded-Proto", "http")
		ex := gateway.NewExchange(req)

		result := stage(ex)

		require.True(t, result.Halted())
		assert.Equal(t, http.StatusMovedPermanently, result.Status())
		assert.Equal(t, "https://gw.example.com/v1/reports/2026-08-28", result.Header().Get("Location"))
	})

	t.Run("ignores plaintext outside production", func(t *testing.T) {
		stage := gateway.Normalizer(gateway.NormalizerConfig{}, log)
		req := httptest.NewRequest(http.MethodGet, "/v1/reports/2026-08-28", nil)
		req.Header.Set("X-Forwarded-Proto", "http")
		ex := gateway.NewExchange(req)

		result := stage(ex)

		assert.False(t, result.Halted())
	})

	t.Run("trusts the forwarded proto when encrypted", func(t *testing.T) {
		stage := gateway.Normalizer(gateway.NormalizerConfig{Production: true}, log)
		req := httptest.NewRequest(http.MethodGet, "/v1/reports/2026-08-28", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		ex := gateway.NewExchange(req)

		result := stage(ex)

		assert.False(t, result.Halted())
	})
}
