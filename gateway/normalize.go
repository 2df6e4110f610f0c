package gateway

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

/* Request normalization
 * Repairs known transport and proxy artifacts before any routing or
 * business logic sees the request. Nothing here rejects a request; the
 * whole point is that a carrier POST must never be bounced.
 */

// NormalizerConfig controls transport repair behavior
type NormalizerConfig struct {
	// Production enables the plaintext-protocol redirect for
	// non-webhook paths
	Production bool

	// WebhookPrefix marks the paths that must never be redirected:
	// a redirect turns the carrier's POST into a GET and silently
	// breaks webhook delivery
	WebhookPrefix string
}

// Normalizer repairs trailing slashes, adopts forwarded headers and
// guards webhook paths against protocol redirects
func Normalizer(cfg NormalizerConfig, log zerolog.Logger) Stage {
	prefix := cfg.WebhookPrefix
	if prefix == "" {
		prefix = DefaultWebhookPrefix
	}

	return func(ex *Exchange) Result {
		r := ex.Request

		// Strip exactly one trailing slash instead of redirecting
		if len(r.URL.Path) > 1 && strings.HasSuffix(r.URL.Path, "/") {
			r.URL.Path = strings.TrimSuffix(r.URL.Path, "/")
			if r.URL.RawPath != "" {
				r.URL.RawPath = strings.TrimSuffix(r.URL.RawPath, "/")
			}
		}

		// Behind a proxy the forwarded host is the one callback URLs
		// must be built from
		if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
			ex.Host = forwarded
			r.Host = forwarded
		}

		if cfg.Production && ex.Scheme == "http" {
			if strings.HasPrefix(r.URL.Path, prefix) {
				// Redirecting would corrupt the POST; log and continue
				log.Warn().
					Str("path", r.URL.Path).
					Msg("plaintext webhook request in production, serving without redirect")
				return Continue()
			}
			location := "https://" + ex.Host + r.URL.RequestURI()
			return Halt(http.StatusMovedPermanently, "text/plain", []byte("Moved Permanently: "+location)).
				withHeader("Location", location)
		}

		return Continue()
	}
}
