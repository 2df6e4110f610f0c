package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ringhub/voice-gateway/audit"
	auditfile "github.com/ringhub/voice-gateway/audit/file"
	auditredis "github.com/ringhub/voice-gateway/audit/redis"
	"github.com/ringhub/voice-gateway/config"
	"github.com/ringhub/voice-gateway/internal/http/chi"
	"github.com/ringhub/voice-gateway/metrics"
	"github.com/ringhub/voice-gateway/routes"
)

const TIMEOUT = 30 * time.Second

/* main wires the gateway together: config, the audit sink, the route
 * table, metrics and the HTTP pipeline. Dependencies are constructed
 * here and injected downward; nothing below this file reaches for
 * globals.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	sink, err := newSink(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer sink.Close(ctx)

	recorder := audit.NewRecorder(sink,
		audit.WithConsole(cfg.LogToConsole),
		audit.WithPersistence(cfg.LogToFile),
		audit.WithSensitiveFields(cfg.GetSensitiveFields()),
	)
	analyzer := audit.NewAnalyzer(sink)

	routeLoader := routes.NewLoader()
	if err := routeLoader.Load(cfg.RoutesFile); err != nil {
		fmt.Println(err)
		return
	}

	tracker := metrics.NewTracker()
	exporter, err := metrics.NewOTelExporter(tracker)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Shutdown(ctx)

	handler := chi.Handlers(ctx, chi.Deps{
		Cfg:      cfg,
		Routes:   routeLoader,
		Recorder: recorder,
		Analyzer: analyzer,
		Tracker:  tracker,
		Exporter: exporter,
	})

	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      handler,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

// newSink selects the durable audit store from configuration
func newSink(cfg *config.Config) (audit.Sink, error) {
	switch cfg.AuditSink {
	case "redis":
		return auditredis.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return auditfile.NewStore(cfg.LogDir)
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
