package gateway

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// DefaultMaxBodyBytes is the payload ceiling when none is configured.
// Telephony webhook bodies are short form-encoded payloads; anything
// bigger is not a call event.
const DefaultMaxBodyBytes = 10 * 1024

// BodySizeGuard rejects oversized payloads before anything buffers or
// parses them, based on the declared content length
func BodySizeGuard(maxBytes int64, log zerolog.Logger) Stage {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	return func(ex *Exchange) Result {
		if ex.Request.ContentLength > maxBytes {
			log.Error().
				Str("path", ex.Request.URL.Path).
				Int64("content_length", ex.Request.ContentLength).
				Int64("limit", maxBytes).
				Msg("oversized webhook payload rejected")
			body := fmt.Sprintf(`{"error":"payload too large","limit_bytes":%d}`, maxBytes)
			return Halt(http.StatusRequestEntityTooLarge, "application/json", []byte(body))
		}
		return Continue()
	}
}
