package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"editorial_ai/generator"
	"editorial_ai/narration"
)

type llmFunc func(context.Context, generator.Prompt) (string, error)

func (f llmFunc) Complete(ctx context.Context, p generator.Prompt) (string, error) { return f(ctx, p) }

type synthFunc func(context.Context, string) (narration.Asset, error)

func (f synthFunc) Synthesize(ctx context.Context, text string) (narration.Asset, error) {
	return f(ctx, text)
}

func TestInstrumentedLLM(t *testing.T) {
	m := NewMetrics()
	ok := m.LLM(llmFunc(func(context.Context, generator.Prompt) (string, error) { return "{}", nil }))
	bad := m.LLM(llmFunc(func(context.Context, generator.Prompt) (string, error) { return "", errors.New("boom") }))

	_, _ = ok.Complete(context.Background(), generator.Prompt{Tier: generator.TierFast})
	_, _ = ok.Complete(context.Background(), generator.Prompt{Tier: generator.TierPro})
	_, _ = bad.Complete(context.Background(), generator.Prompt{Tier: generator.TierPro})

	if got := testutil.ToFloat64(m.TransformRequests.WithLabelValues("pro")); got != 2 {
		t.Errorf("expected 2 pro requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.TransformRequests.WithLabelValues("fast")); got != 1 {
		t.Errorf("expected 1 fast request, got %v", got)
	}
	if got := testutil.ToFloat64(m.TransformFailures.WithLabelValues("pro")); got != 1 {
		t.Errorf("expected 1 pro failure, got %v", got)
	}
}

func TestInstrumentedSynthesizer(t *testing.T) {
	m := NewMetrics()
	calls := 0
	s := m.Synthesizer(synthFunc(func(context.Context, string) (narration.Asset, error) {
		calls++
		if calls == 2 {
			return narration.Asset{}, narration.ErrSynthesisFailed
		}
		return narration.Asset{Data: "AAAA"}, nil
	}))

	_, _ = s.Synthesize(context.Background(), "a")
	if _, err := s.Synthesize(context.Background(), "b"); !errors.Is(err, narration.ErrSynthesisFailed) {
		t.Errorf("errors should pass through, got %v", err)
	}

	if got := testutil.ToFloat64(m.SynthesisRequests); got != 2 {
		t.Errorf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.SynthesisFailures); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordHTTPRequest("POST", "/api/transform", "200", 0.5)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `editorial_http_requests_total{endpoint="/api/transform",method="POST",status_code="200"} 1`) {
		t.Errorf("http counter missing from exposition:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("go collector should be registered")
	}
}
