// Package observe provides the service's OpenTelemetry metrics, the
// Prometheus bridge that exposes them on /metrics, and HTTP middleware that
// records request latency.
//
// Tests should build Metrics with NewMetrics and a ManualReader-backed
// provider instead of relying on the global provider.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "memory-companion-go"

// Metrics holds every instrument the service records.
type Metrics struct {
	// AnalysisDuration is the time spent analysing one session.
	AnalysisDuration metric.Float64Histogram

	// TranscriptionDuration is the time spent fetching one transcript.
	TranscriptionDuration metric.Float64Histogram

	// AnswersGraded counts graded answers. Attribute: matched.
	AnswersGraded metric.Int64Counter

	// HealthIntents counts detected health intents. Attribute: intent.
	HealthIntents metric.Int64Counter

	// SessionsProcessed counts pipeline results. Attribute: status.
	SessionsProcessed metric.Int64Counter

	// HTTPRequestDuration is request latency by method and path.
	HTTPRequestDuration metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates all instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.AnalysisDuration, err = m.Float64Histogram("companion.analysis.duration",
		metric.WithDescription("Latency of analysing one journal session."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TranscriptionDuration, err = m.Float64Histogram("companion.transcription.duration",
		metric.WithDescription("Latency of fetching a transcript from the speech-to-text service."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AnswersGraded, err = m.Int64Counter("companion.answers.graded",
		metric.WithDescription("Answers graded by the answer matcher."),
	); err != nil {
		return nil, err
	}
	if met.HealthIntents, err = m.Int64Counter("companion.health_intents",
		metric.WithDescription("Health intents detected in transcripts."),
	); err != nil {
		return nil, err
	}
	if met.SessionsProcessed, err = m.Int64Counter("companion.sessions.processed",
		metric.WithDescription("Sessions processed by the batch pipeline."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("companion.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a package-level Metrics built on the global meter
// provider the first time it is called.
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

// RecordAnswer counts one graded answer.
func (m *Metrics) RecordAnswer(ctx context.Context, matched bool) {
	m.AnswersGraded.Add(ctx, 1, metric.WithAttributes(attribute.Bool("matched", matched)))
}

// RecordHealthIntent counts one detected intent.
func (m *Metrics) RecordHealthIntent(ctx context.Context, intent string) {
	m.HealthIntents.Add(ctx, 1, metric.WithAttributes(attribute.String("intent", intent)))
}

// RecordSession counts one processed session with status "ok" or "error".
func (m *Metrics) RecordSession(ctx context.Context, status string) {
	m.SessionsProcessed.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
