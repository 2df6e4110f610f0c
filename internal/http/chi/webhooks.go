package chi

import (
	"encoding/json"
	"net/http"

	"github.com/ringhub/voice-gateway/routes"
	"github.com/ringhub/voice-gateway/twiml"
)

/* HTTP layer for the carrier-facing voice endpoints
 * A voice webhook is answered with the route's configured call
 * treatment; a failure to render still produces a valid document so the
 * carrier never hears dead air.
 */

// routeResponse represents a voice route in the admin API
type routeResponse struct {
	Path    string `json:"path"`
	Action  string `json:"action"`
	Text    string `json:"text,omitempty"`
	Voice   string `json:"voice,omitempty"`
	PlayURL string `json:"play_url,omitempty"`
	Loop    int    `json:"loop,omitempty"`
}

// voiceHandler answers a call-event webhook with the route's treatment
func voiceHandler(route *routes.Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, err := route.Document()
		if err != nil {
			// Still a valid protocol document, just a degraded one
			doc = twiml.Unavailable()
		}

		w.Header().Set("Content-Type", twiml.ContentType)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(doc))
	})
}

// statusCallback acknowledges call-status events. The carrier only
// needs a 200 and an empty document; the audit trail records the event.
func statusCallback() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, err := twiml.New().Render()
		if err != nil {
			doc = twiml.Header + "<Response></Response>"
		}

		w.Header().Set("Content-Type", twiml.ContentType)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(doc))
	})
}

// getRoutes handles GET /v1/routes
func getRoutes(routeLoader *routes.Loader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allRoutes := routeLoader.List()

		responses := make([]routeResponse, 0, len(allRoutes))
		for _, route := range allRoutes {
			responses = append(responses, routeResponse{
				Path:    route.Path,
				Action:  route.Action.String(),
				Text:    route.Text,
				Voice:   route.Voice,
				PlayURL: route.PlayURL,
				Loop:    route.Loop,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(responses); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
