package gateway

import (
	"net/http"
	"strings"

	"github.com/ringhub/voice-gateway/gateway/signature"
	"github.com/rs/zerolog"
)

/* Carrier signature enforcement
 * Protects against forged call-event injection: every webhook must carry
 * a signature computed from the account's shared secret. Outside
 * production the check only warns, so local tunnels and test consoles
 * keep working.
 */

// SignatureConfig controls signature verification
type SignatureConfig struct {
	// Secret is the carrier account's shared signing secret
	Secret string

	// ExemptPaths are path substrings that skip verification, such as
	// status-callback endpoints the carrier does not sign
	ExemptPaths []string

	// Production makes a missing or invalid signature a hard 401
	Production bool
}

// SignatureValidator verifies the carrier signature on an exchange.
// The request is never mutated.
func SignatureValidator(cfg SignatureConfig, log zerolog.Logger) Stage {
	return func(ex *Exchange) Result {
		path := ex.Request.URL.Path
		for _, exempt := range cfg.ExemptPaths {
			if exempt != "" && strings.Contains(path, exempt) {
				return Continue()
			}
		}

		given := ex.Request.Header.Get(signature.Header)
		if given == "" {
			return reject(cfg, log, path, "missing carrier signature")
		}

		params, err := ex.Params()
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("unreadable parameters during signature check")
			return reject(cfg, log, path, "unverifiable carrier signature")
		}

		if !signature.Verify(cfg.Secret, ex.URL(), params, given) {
			return reject(cfg, log, path, "invalid carrier signature")
		}

		return Continue()
	}
}

func reject(cfg SignatureConfig, log zerolog.Logger, path, reason string) Result {
	if !cfg.Production {
		log.Warn().Str("path", path).Msgf("%s, allowed outside production", reason)
		return Continue()
	}
	log.Error().Str("path", path).Msg(reason)
	return Halt(http.StatusUnauthorized, "application/json", []byte(`{"error":"unauthorized"}`))
}
