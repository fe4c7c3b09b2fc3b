package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	// ServiceName identifies this service in exported metrics.
	ServiceName    = "seasonpulse"
	ServiceVersion = "v1.0.0"
	MeterName      = "seasonpulse"
)

// PipelineMetrics bundles the OpenTelemetry instruments the seasonality
// pipeline records into. Metrics are exported in Prometheus format on the
// web server's /metrics endpoint.
type PipelineMetrics struct {
	InstrumentsProcessed metric.Int64Counter
	InstrumentsFailed    metric.Int64Counter
	RecordsUpserted      metric.Int64Counter
	PatternsEmitted      metric.Int64Counter
	PipelineDuration     metric.Float64Histogram
}

// OTelProviders holds the configured meter provider and its HTTP exporter.
type OTelProviders struct {
	MeterProvider  *sdkmetric.MeterProvider
	Meter          metric.Meter
	Metrics        *PipelineMetrics
	PrometheusHTTP http.Handler
}

// InitializeOTel sets up metrics-only OpenTelemetry with a Prometheus
// exporter and registers the pipeline instrument set.
func InitializeOTel(logger *slog.Logger) (*OTelProviders, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("create otel resource: %w", err)
	}

	exporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(MeterName)
	metrics, err := newPipelineMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("register pipeline metrics: %w", err)
	}

	logger.Info("OpenTelemetry metrics initialized",
		slog.String("service", ServiceName),
		slog.String("exporter", "prometheus"))

	return &OTelProviders{
		MeterProvider:  provider,
		Meter:          meter,
		Metrics:        metrics,
		PrometheusHTTP: promhttp.Handler(),
	}, nil
}

func newPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	processed, err := meter.Int64Counter("seasonpulse_instruments_processed_total",
		metric.WithDescription("Instruments whose pipeline completed successfully"))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("seasonpulse_instruments_failed_total",
		metric.WithDescription("Instruments whose pipeline aborted"))
	if err != nil {
		return nil, err
	}
	upserted, err := meter.Int64Counter("seasonpulse_records_upserted_total",
		metric.WithDescription("Timeframe records written to storage"))
	if err != nil {
		return nil, err
	}
	patterns, err := meter.Int64Counter("seasonpulse_patterns_emitted_total",
		metric.WithDescription("Seasonality patterns emitted"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("seasonpulse_pipeline_duration_seconds",
		metric.WithDescription("Per-instrument pipeline wall time"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		InstrumentsProcessed: processed,
		InstrumentsFailed:    failed,
		RecordsUpserted:      upserted,
		PatternsEmitted:      patterns,
		PipelineDuration:     duration,
	}, nil
}

// RecordPipelineRun records one instrument pipeline outcome.
func (m *PipelineMetrics) RecordPipelineRun(ctx context.Context, symbol string, records, patterns int, seconds float64, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("symbol", symbol))
	if err != nil {
		m.InstrumentsFailed.Add(ctx, 1, attrs)
		return
	}
	m.InstrumentsProcessed.Add(ctx, 1, attrs)
	m.RecordsUpserted.Add(ctx, int64(records), attrs)
	m.PatternsEmitted.Add(ctx, int64(patterns), attrs)
	m.PipelineDuration.Record(ctx, seconds, attrs)
}

// Shutdown flushes and stops the meter provider.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	if p == nil || p.MeterProvider == nil {
		return nil
	}
	return p.MeterProvider.Shutdown(ctx)
}
