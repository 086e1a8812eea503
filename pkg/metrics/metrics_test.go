package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequestRecordsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	collector.ObserveRequest(http.MethodPost, "/api/routes", 200, 0.05)
	collector.ObserveRequest(http.MethodPost, "/api/routes", 200, 0.07)
	collector.ObserveRequest(http.MethodPost, "/api/routes", 400, 0.01)

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("POST", "/api/routes", "200")); got != 2 {
		t.Fatalf("http_requests_total{code=200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("POST", "/api/routes", "400")); got != 1 {
		t.Fatalf("http_requests_total{code=400} = %v, want 1", got)
	}
}

func TestGaugeAndCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	collector.SetActiveAccidents(7)
	if got := testutil.ToFloat64(collector.ActiveAccidents); got != 7 {
		t.Fatalf("active_accident_reports = %v, want 7", got)
	}

	collector.RoutesComputed.Inc()
	collector.RoutesComputed.Inc()
	if got := testutil.ToFloat64(collector.RoutesComputed); got != 2 {
		t.Fatalf("routes_computed_total = %v, want 2", got)
	}
}

func TestDuplicateRegistrationReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("first NewCollector: %v", err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}

	first.RoutesComputed.Inc()
	if got := testutil.ToFloat64(second.RoutesComputed); got != 1 {
		t.Fatalf("collectors not shared: routes_computed_total = %v, want 1", got)
	}
}

func TestMetricsHandlerServesExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	collector.SetActiveAccidents(3)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "active_accident_reports 3") {
		t.Errorf("exposition missing gauge:\n%s", rec.Body.String())
	}
}
