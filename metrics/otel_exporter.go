package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *prometheus.Registry
	collector     Collector

	// OTel meters and instruments
	meter         metric.Meter
	storeSize     metric.Int64ObservableGauge
	storeCapacity metric.Int64ObservableGauge
	captured      metric.Int64ObservableCounter
	evicted       metric.Int64ObservableCounter
	registration  metric.Registration
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	// Each exporter owns its registry so several can coexist (tests, multiple stores)
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"webhook-stream",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates all instruments and a single callback observing them together
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.storeSize, err = oe.meter.Int64ObservableGauge(
		"webhook.store.size",
		metric.WithDescription("Number of webhooks currently held in the store"),
		metric.WithUnit("{webhooks}"),
	)
	if err != nil {
		return fmt.Errorf("creating store size gauge: %w", err)
	}

	oe.storeCapacity, err = oe.meter.Int64ObservableGauge(
		"webhook.store.capacity",
		metric.WithDescription("Maximum number of webhooks held before eviction"),
		metric.WithUnit("{webhooks}"),
	)
	if err != nil {
		return fmt.Errorf("creating store capacity gauge: %w", err)
	}

	oe.captured, err = oe.meter.Int64ObservableCounter(
		"webhook.captured",
		metric.WithDescription("Number of webhooks captured since startup"),
		metric.WithUnit("{webhooks}"),
	)
	if err != nil {
		return fmt.Errorf("creating captured counter: %w", err)
	}

	oe.evicted, err = oe.meter.Int64ObservableCounter(
		"webhook.evicted",
		metric.WithDescription("Number of webhooks evicted to make room for newer ones"),
		metric.WithUnit("{webhooks}"),
	)
	if err != nil {
		return fmt.Errorf("creating evicted counter: %w", err)
	}

	oe.registration, err = oe.meter.RegisterCallback(
		oe.observeStats,
		oe.storeSize, oe.storeCapacity, oe.captured, oe.evicted,
	)
	if err != nil {
		return fmt.Errorf("registering stats callback: %w", err)
	}

	return nil
}

// observeStats is a callback that reports one consistent snapshot of the store
func (oe *OTelExporter) observeStats(ctx context.Context, observer metric.Observer) error {
	stats, err := oe.collector.Stats(ctx)
	if err != nil {
		return err
	}

	observer.ObserveInt64(oe.storeSize, stats.Stored)
	observer.ObserveInt64(oe.storeCapacity, stats.Capacity)
	observer.ObserveInt64(oe.captured, stats.Captured)
	observer.ObserveInt64(oe.evicted, stats.Evicted)

	return nil
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.registration != nil {
		if err := oe.registration.Unregister(); err != nil {
			return fmt.Errorf("unregistering stats callback: %w", err)
		}
	}
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
