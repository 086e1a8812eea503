package traffic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lintang-b-s/saferoutes/pkg/geo"
	"go.uber.org/zap"
)

const requestTimeout = 5 * time.Second

// LiveService asks a directions API for the real traffic delay between two
// points. without an api key, or on any fetch failure, it falls back to the
// simulation - traffic must never abort a route computation.
type LiveService struct {
	*Service

	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewLiveService(sim *Service, apiKey string, log *zap.Logger) *LiveService {
	return &LiveService{
		Service:    sim,
		apiKey:     apiKey,
		baseURL:    "https://maps.googleapis.com/maps/api/directions/json",
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

type directionsResponse struct {
	Routes []struct {
		Legs []struct {
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
			DurationInTraffic struct {
				Value int `json:"value"`
			} `json:"duration_in_traffic"`
		} `json:"legs"`
	} `json:"routes"`
	Status string `json:"status"`
}

// DelayMinutes returns the live traffic delay for the leg, falling back to the
// risk-bucketed simulation when no key is configured or the fetch fails.
func (s *LiveService) DelayMinutes(ctx context.Context, start, end geo.Coordinate, riskScore float64) int {
	if s.apiKey == "" {
		return s.SimulatedDelayMinutes(riskScore)
	}

	q := url.Values{}
	q.Set("origin", fmt.Sprintf("%f,%f", start.Lat, start.Lon))
	q.Set("destination", fmt.Sprintf("%f,%f", end.Lat, end.Lon))
	q.Set("departure_time", "now")
	q.Set("traffic_model", "best_guess")
	q.Set("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return s.fallback(riskScore, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return s.fallback(riskScore, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.fallback(riskScore, fmt.Errorf("directions api status %d", resp.StatusCode))
	}

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return s.fallback(riskScore, err)
	}
	if body.Status != "OK" || len(body.Routes) == 0 || len(body.Routes[0].Legs) == 0 {
		return s.fallback(riskScore, fmt.Errorf("directions api status %q", body.Status))
	}

	leg := body.Routes[0].Legs[0]
	delaySec := leg.DurationInTraffic.Value - leg.Duration.Value
	if delaySec < 0 {
		delaySec = 0
	}
	return delaySec / 60
}

func (s *LiveService) fallback(riskScore float64, err error) int {
	s.log.Warn("live traffic fetch failed, simulating delay", zap.Error(err))
	return s.SimulatedDelayMinutes(riskScore)
}
