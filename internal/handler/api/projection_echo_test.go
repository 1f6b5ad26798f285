package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"PremCast/internal/usecase"
	xlogger "PremCast/pkg/logger"
)

func newTestHandler(t *testing.T) *ProjectionEchoHandler {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	projector := usecase.NewProjector(nil, 0, noopMetrics{}, nil)
	return NewProjectionEchoHandler(l, projector, nil, RateLimitSettings{})
}

type noopMetrics struct{}

func (noopMetrics) RecordRun(string)                  {}
func (noopMetrics) RecordCacheHit()                   {}
func (noopMetrics) RecordCacheMiss()                  {}
func (noopMetrics) RecordError(string)                {}
func (noopMetrics) RecordLatency(string, float64)     {}
func (noopMetrics) RecordProjectedGWP(string, float64) {}

func TestProjectEndpointDefaultsToDocumentedScenario(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/projection", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Project(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Project: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Status int `json:"status"`
		Data   struct {
			Rows []struct {
				Year       int     `json:"year"`
				Label      string  `json:"label"`
				GWPLife    float64 `json:"gwp_life"`
				GWPNonLife float64 `json:"gwp_non_life"`
			} `json:"rows"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != http.StatusOK {
		t.Fatalf("envelope status = %d", body.Status)
	}
	if len(body.Data.Rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(body.Data.Rows))
	}
	if body.Data.Rows[0].GWPLife != 34.72 || body.Data.Rows[0].GWPNonLife != 69.43 {
		t.Fatalf("year one = (%v, %v), want (34.72, 69.43)",
			body.Data.Rows[0].GWPLife, body.Data.Rows[0].GWPNonLife)
	}
	if body.Data.Rows[4].Label != "t+5" {
		t.Fatalf("final label = %q", body.Data.Rows[4].Label)
	}
}

func TestProjectEndpointRejectsOutOfRangeInput(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/projection", strings.NewReader(`{"churn_rate": 90}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Project(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Project: %v", err)
	}
	var body struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", body.Status)
	}
}

func TestHealthWithoutHistoryBackend(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	if err := h.Health(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
