package usecase

import (
	"context"
	"testing"
)

func TestRequestsHandlerRunsValidPayload(t *testing.T) {
	metrics := newFakeMetrics()
	h := NewRequestsHandler("gwp.projection.requests", NewProjector(nil, 0, metrics, nil))

	if got := h.Topic(); got != "gwp.projection.requests" {
		t.Fatalf("Topic() = %q", got)
	}

	payload := []byte(`{"gwp_life_base": 50, "gwp_non_life_base": 75}`)
	if err := h.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if metrics.runs["kafka"] != 1 {
		t.Fatalf("run counters: %v", metrics.runs)
	}
}

func TestRequestsHandlerRejectsMalformedJSON(t *testing.T) {
	h := NewRequestsHandler("gwp.projection.requests", NewProjector(nil, 0, newFakeMetrics(), nil))
	if err := h.Handle(context.Background(), []byte(`{"gwp_life_base":`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRequestsHandlerRejectsOutOfRangeAssumption(t *testing.T) {
	h := NewRequestsHandler("gwp.projection.requests", NewProjector(nil, 0, newFakeMetrics(), nil))
	payload := []byte(`{"gdp_growth": 99}`)
	if err := h.Handle(context.Background(), payload); err == nil {
		t.Fatal("expected validation error for gdp_growth above range")
	}
}
