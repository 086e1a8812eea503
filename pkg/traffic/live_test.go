package traffic

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lintang-b-s/saferoutes/pkg/geo"
	"go.uber.org/zap"
)

func TestDelayMinutesWithoutKeySimulates(t *testing.T) {
	s := NewLiveService(NewService(rand.NewSource(1)), "", zap.NewNop())

	d := s.DelayMinutes(context.Background(), geo.NewCoordinate(19.05, 72.82),
		geo.NewCoordinate(19.11, 72.86), 20)
	if d != 0 {
		t.Errorf("low-risk simulated delay = %d, want 0", d)
	}
}

func TestDelayMinutesLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("api key not forwarded")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"routes": [{"legs": [{
				"duration": {"value": 1200},
				"duration_in_traffic": {"value": 1680}
			}]}]
		}`))
	}))
	defer srv.Close()

	s := NewLiveService(NewService(rand.NewSource(1)), "test-key", zap.NewNop())
	s.baseURL = srv.URL

	d := s.DelayMinutes(context.Background(), geo.NewCoordinate(19.05, 72.82),
		geo.NewCoordinate(19.11, 72.86), 20)
	if d != 8 {
		t.Errorf("delay = %d, want 8 (480s of traffic)", d)
	}
}

func TestDelayMinutesFailsSoftOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewLiveService(NewService(rand.NewSource(1)), "test-key", zap.NewNop())
	s.baseURL = srv.URL

	d := s.DelayMinutes(context.Background(), geo.NewCoordinate(19.05, 72.82),
		geo.NewCoordinate(19.11, 72.86), 75)
	if d < 5 || d > 15 {
		t.Errorf("fallback delay out of high-risk range: %d", d)
	}
}
