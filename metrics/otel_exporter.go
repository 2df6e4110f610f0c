package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector

	// OTel meters and instruments
	meter            metric.Meter
	requestsGauge    metric.Int64ObservableGauge
	categoryGauge    metric.Int64ObservableGauge
	statusClassGauge metric.Int64ObservableGauge
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	// Create Prometheus exporter
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	// Create meter with service info
	meter := meterProvider.Meter(
		"voice-gateway",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		meter:         meter,
	}

	// Register metrics instruments
	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	// Total observed webhook exchanges
	oe.requestsGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.requests.total",
		metric.WithDescription("Number of webhook exchanges observed since start"),
		metric.WithUnit("{requests}"),
		metric.WithInt64Callback(oe.observeRequests),
	)
	if err != nil {
		return fmt.Errorf("creating requests gauge: %w", err)
	}

	// Completed responses per performance category
	oe.categoryGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.responses.category",
		metric.WithDescription("Completed responses per performance category"),
		metric.WithUnit("{responses}"),
		metric.WithInt64Callback(oe.observeCategories),
	)
	if err != nil {
		return fmt.Errorf("creating category gauge: %w", err)
	}

	// Completed responses per status class
	oe.statusClassGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.responses.status_class",
		metric.WithDescription("Completed responses per HTTP status class"),
		metric.WithUnit("{responses}"),
		metric.WithInt64Callback(oe.observeStatusClasses),
	)
	if err != nil {
		return fmt.Errorf("creating status class gauge: %w", err)
	}

	return nil
}

// observeRequests is a callback that reports the total request count
func (oe *OTelExporter) observeRequests(ctx context.Context, observer metric.Int64Observer) error {
	snapshot, err := oe.collector.Collect(ctx)
	if err != nil {
		return err
	}

	observer.Observe(snapshot.TotalRequests)
	return nil
}

// observeCategories is a callback that reports per-category counts
func (oe *OTelExporter) observeCategories(ctx context.Context, observer metric.Int64Observer) error {
	categories, err := oe.collector.GetCategoryCounts(ctx)
	if err != nil {
		return err
	}

	for category, count := range categories {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("performance.category", category),
		))
	}

	return nil
}

// observeStatusClasses is a callback that reports per-status-class counts
func (oe *OTelExporter) observeStatusClasses(ctx context.Context, observer metric.Int64Observer) error {
	statuses, err := oe.collector.GetStatusClassCounts(ctx)
	if err != nil {
		return err
	}

	for class, count := range statuses {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("http.status_class", class),
		))
	}

	return nil
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
