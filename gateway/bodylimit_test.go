package gateway_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ringhub/voice-gateway/gateway"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodySizeGuard(t *testing.T) {
	log := zerolog.Nop()

	t.Run("rejects a payload over the ceiling", func(t *testing.T) {
		stage := gateway.BodySizeGuard(10240, log)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/voice/answer", strings.NewReader("x"))
		req.ContentLength = 10241
		ex := gateway.NewExchange(req)

		result := stage(ex)

		require.True(t, result.Halted())
		assert.Equal(t, http.StatusRequestEntityTooLarge, result.Status())
	})

	t.Run("passes a payload at the ceiling", func(t *testing.T) {
		stage := gateway.BodySizeGuard(10240, log)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/voice/answer", strings.NewReader("x"))
		req.ContentLength = 10240
		ex := gateway.NewExchange(req)

		assert.False(t, stage(ex).Halted())
	})

	t.Run("applies the default ceiling when unset", func(t *testing.T) {
		stage := gateway.BodySizeGuard(0, log)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/voice/answer", strings.NewReader("x"))
		req.ContentLength = gateway.DefaultMaxBodyBytes + 1
		ex := gateway.NewExchange(req)

		result := stage(ex)

		require.True(t, result.Halted())
		assert.Equal(t, http.StatusRequestEntityTooLarge, result.Status())
	})

	t.Run("passes requests without a body", func(t *testing.T) {
		stage := gateway.BodySizeGuard(10240, log)
		ex := gateway.NewExchange(httptest.NewRequest(http.MethodGet, "/v1/routes", nil))

		assert.False(t, stage(ex).Halted())
	})
}
