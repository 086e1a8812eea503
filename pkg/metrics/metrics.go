// Package metrics bundles the Prometheus collectors for the HTTP surface and
// the accident registry, plus the /metrics handler that exposes them.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	RoutesComputed  prometheus.Counter
	ActiveAccidents prometheus.Gauge
}

// NewCollector registers the collectors against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by method, route, and status code.",
	}, []string{"method", "route", "code"})
	requests, err := registerCounterVec(reg, requests, "http_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"method", "route"})
	durations, err = registerHistogramVec(reg, durations, "http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	routes, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routes_computed_total",
		Help: "Total number of route scoring requests served.",
	}), "routes_computed_total")
	if err != nil {
		return nil, err
	}

	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "active_accident_reports",
		Help: "Current number of unexpired accident reports.",
	}), "active_accident_reports")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:        gatherer,
		HTTPRequests:    requests,
		HTTPDurations:   durations,
		RoutesComputed:  routes,
		ActiveAccidents: active,
	}, nil
}

// ObserveRequest records one finished HTTP request.
func (c *Collector) ObserveRequest(method, route string, code int, seconds float64) {
	if c == nil {
		return
	}
	if c.HTTPRequests != nil {
		c.HTTPRequests.WithLabelValues(method, route, fmt.Sprintf("%d", code)).Inc()
	}
	if c.HTTPDurations != nil {
		c.HTTPDurations.WithLabelValues(method, route).Observe(seconds)
	}
}

// SetActiveAccidents drives the gauge from the registry after each mutation.
func (c *Collector) SetActiveAccidents(n int) {
	if c == nil || c.ActiveAccidents == nil {
		return
	}
	c.ActiveAccidents.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
