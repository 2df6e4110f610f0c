package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/ringhub/voice-gateway/audit"
	"github.com/ringhub/voice-gateway/config"
	"github.com/ringhub/voice-gateway/gateway"
	"github.com/ringhub/voice-gateway/metrics"
	"github.com/ringhub/voice-gateway/routes"
)

// Deps carries everything the HTTP layer needs, injected from main
type Deps struct {
	Cfg      *config.Config
	Routes   *routes.Loader
	Recorder *audit.Recorder
	Analyzer *audit.Analyzer
	Tracker  *metrics.Tracker
	Exporter *metrics.OTelExporter
}

/* Handlers composes the webhook pipeline around the business router.
 * Order matters: normalize -> probe filter -> size guard -> signature,
 * then the deadline-guarded handler. The audit recorder observes both
 * ends of the chain.
 */
func Handlers(ctx context.Context, deps Deps) http.Handler {
	logger := httplog.NewLogger("voice-gateway", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Carrier-facing voice endpoints, one per configured route
	for _, route := range deps.Routes.List() {
		r.Post(route.Path, voiceHandler(route).ServeHTTP)
	}
	r.Post("/webhooks/voice/status", statusCallback().ServeHTTP)

	// Admin/report surface; console request logging stays off the
	// webhook hot path
	r.Route("/v1", func(r chi.Router) {
		r.Use(httplog.RequestLogger(logger))
		r.Get("/reports/{day}", getReport(deps.Analyzer).ServeHTTP)
		r.Get("/routes", getRoutes(deps.Routes).ServeHTTP)
	})

	if deps.Exporter != nil {
		r.Method(http.MethodGet, "/metrics", deps.Exporter.ServeHTTP())
	}

	production := deps.Cfg.IsProduction()

	// The admin surface is authenticated elsewhere; only carrier
	// webhooks carry signatures
	exempt := append([]string{"/v1/", "/metrics"}, deps.Cfg.GetSignatureExempt()...)

	chain := &gateway.Chain{
		Stages: []gateway.Stage{
			gateway.Normalizer(gateway.NormalizerConfig{
				Production: production,
			}, logger),
			gateway.HealthCheckFilter(),
			gateway.BodySizeGuard(deps.Cfg.MaxBodyBytes, logger),
			gateway.SignatureValidator(gateway.SignatureConfig{
				Secret:      deps.Cfg.AuthToken,
				ExemptPaths: exempt,
				Production:  production,
			}, logger),
		},
		Handler:      r,
		Observer:     exchangeObserver{recorder: deps.Recorder, tracker: deps.Tracker},
		Budget:       deps.Cfg.Timeout(),
		MaxBodyBytes: deps.Cfg.MaxBodyBytes,
		Log:          logger,
	}

	return chain
}
