package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestEnforceJSONHandler(t *testing.T) {
	h := EnforceJSONHandler(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/routes", strings.NewReader(`{"start":"Bandra"}`))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Errorf("text body: status = %d, want 415", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/routes", strings.NewReader(`{"start":"Bandra"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("json body: status = %d, want 200", rr.Code)
	}

	// bodyless requests pass regardless of headers
	req = httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("no body: status = %d, want 200", rr.Code)
	}
}

func TestHeartbeat(t *testing.T) {
	h := Heartbeat("healthz")(okHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "." {
		t.Errorf("heartbeat: status = %d, body = %q", rr.Code, rr.Body.String())
	}
}

func TestRealIP(t *testing.T) {
	var seen string
	h := RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "203.0.113.7" {
		t.Errorf("remote addr = %s, want first forwarded hop", seen)
	}
}

func TestRecoverPanic(t *testing.T) {
	api := NewAPI(zap.NewNop(), nil)
	h := api.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if rr.Header().Get("Connection") != "close" {
		t.Error("connection close header not set after panic")
	}
}

func TestLoggerSetsRequestID(t *testing.T) {
	h := Logger(zap.NewNop())(okHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("request id header missing")
	}
}
