package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"editorial_ai/generator"
	"editorial_ai/narration"
)

// Metrics contains all Prometheus metrics for the service
type Metrics struct {
	registry *prometheus.Registry

	// Transformation metrics
	TransformRequests *prometheus.CounterVec
	TransformFailures *prometheus.CounterVec
	TransformDuration *prometheus.HistogramVec

	// Narration metrics
	SynthesisRequests prometheus.Counter
	SynthesisFailures prometheus.Counter
	SynthesisDuration prometheus.Histogram
	SynthesisBytes    prometheus.Histogram

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates all metrics on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		TransformRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "editorial_transform_requests_total",
			Help: "Total number of transformation requests sent to the language backend",
		}, []string{"tier"}),
		TransformFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "editorial_transform_failures_total",
			Help: "Total number of failed transformation requests",
		}, []string{"tier"}),
		TransformDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "editorial_transform_duration_seconds",
			Help:    "Duration of transformation requests",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2 minutes
		}, []string{"tier"}),

		SynthesisRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "editorial_synthesis_requests_total",
			Help: "Total number of speech synthesis requests",
		}),
		SynthesisFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "editorial_synthesis_failures_total",
			Help: "Total number of failed speech synthesis requests",
		}),
		SynthesisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "editorial_synthesis_duration_seconds",
			Help:    "Duration of speech synthesis requests",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		SynthesisBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "editorial_synthesis_payload_bytes",
			Help:    "Size of base64 audio payloads returned by the speech backend",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10), // 16KB to ~8MB
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "editorial_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "editorial_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// LLM wraps an LLM client with request/failure/latency metrics.
func (m *Metrics) LLM(next generator.LLMClient) generator.LLMClient {
	return &instrumentedLLM{next: next, m: m}
}

// Synthesizer wraps a synthesizer with request/failure/latency metrics.
func (m *Metrics) Synthesizer(next narration.Synthesizer) narration.Synthesizer {
	return &instrumentedSynthesizer{next: next, m: m}
}

type instrumentedLLM struct {
	next generator.LLMClient
	m    *Metrics
}

func (l *instrumentedLLM) Complete(ctx context.Context, prompt generator.Prompt) (string, error) {
	tier := prompt.Tier.String()
	l.m.TransformRequests.WithLabelValues(tier).Inc()
	start := time.Now()
	out, err := l.next.Complete(ctx, prompt)
	l.m.TransformDuration.WithLabelValues(tier).Observe(time.Since(start).Seconds())
	if err != nil || out == "" {
		l.m.TransformFailures.WithLabelValues(tier).Inc()
	}
	return out, err
}

type instrumentedSynthesizer struct {
	next narration.Synthesizer
	m    *Metrics
}

func (s *instrumentedSynthesizer) Synthesize(ctx context.Context, text string) (narration.Asset, error) {
	s.m.SynthesisRequests.Inc()
	start := time.Now()
	asset, err := s.next.Synthesize(ctx, text)
	s.m.SynthesisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.m.SynthesisFailures.Inc()
		return asset, err
	}
	s.m.SynthesisBytes.Observe(float64(len(asset.Data)))
	return asset, nil
}
