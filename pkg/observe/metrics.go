// Package observe holds the OpenTelemetry instruments for wordbook and the
// provider that exports them to Prometheus.
//
// Tests should build their own [Metrics] with [NewMetrics] and a ManualReader
// instead of touching the global provider.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/japaniel/wordbook"

// Metrics holds the metric instruments. All fields are safe for concurrent use.
type Metrics struct {
	// TranslationRequests counts translation calls by target language and
	// outcome ("ok" or an error kind).
	TranslationRequests metric.Int64Counter

	// TranslationDuration tracks translation round-trip latency.
	TranslationDuration metric.Float64Histogram

	// TranslationsCoalesced counts calls that shared another caller's
	// in-flight request.
	TranslationsCoalesced metric.Int64Counter

	// StoreMutations counts committed store changes by kind.
	StoreMutations metric.Int64Counter

	// EventSubscribers tracks open change-feed streams.
	EventSubscribers metric.Int64UpDownCounter

	// HTTPRequestDuration tracks API latency by method, route and status.
	HTTPRequestDuration metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates every instrument from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TranslationRequests, err = m.Int64Counter("wordbook.translation.requests",
		metric.WithDescription("Translation requests by target language and outcome."),
	); err != nil {
		return nil, err
	}
	if met.TranslationDuration, err = m.Float64Histogram("wordbook.translation.duration",
		metric.WithDescription("Latency of translation requests."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TranslationsCoalesced, err = m.Int64Counter("wordbook.translation.coalesced",
		metric.WithDescription("Translation calls served by an identical in-flight request."),
	); err != nil {
		return nil, err
	}
	if met.StoreMutations, err = m.Int64Counter("wordbook.store.mutations",
		metric.WithDescription("Committed vocabulary and sample sentence changes by kind."),
	); err != nil {
		return nil, err
	}
	if met.EventSubscribers, err = m.Int64UpDownCounter("wordbook.events.subscribers",
		metric.WithDescription("Open change-feed streams."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("wordbook.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a package-level [Metrics] built from
// [otel.GetMeterProvider] on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordTranslation records one finished translation call.
func (m *Metrics) RecordTranslation(ctx context.Context, to, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("to", to),
		attribute.String("outcome", outcome),
	)
	m.TranslationRequests.Add(ctx, 1, attrs)
	m.TranslationDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordCoalesced counts a call that reused an in-flight translation.
func (m *Metrics) RecordCoalesced(ctx context.Context, to string) {
	m.TranslationsCoalesced.Add(ctx, 1, metric.WithAttributes(attribute.String("to", to)))
}

// RecordMutation counts a committed store change.
func (m *Metrics) RecordMutation(ctx context.Context, kind string) {
	m.StoreMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
