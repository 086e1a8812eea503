package traffic

import (
	"math/rand"
	"time"
)

// Service estimates traffic delay when no live directions provider is wired.
// the simulation is a documented placeholder, not a modeled contract: it buckets
// an additive delay by route risk and shapes a congestion index by time of day.
type Service struct {
	rng *rand.Rand
	now func() time.Time
}

func NewService(src rand.Source) *Service {
	return &Service{
		rng: rand.New(src),
		now: time.Now,
	}
}

// SimulatedDelayMinutes returns a random additive delay bucketed by risk score:
// low-risk routes get none, mid-risk 1-4 minutes, high-risk 5-15.
func (s *Service) SimulatedDelayMinutes(riskScore float64) int {
	switch {
	case riskScore <= 30:
		return 0
	case riskScore <= 50:
		return 1 + s.rng.Intn(4) // 1..4
	default:
		return 5 + s.rng.Intn(11) // 5..15
	}
}

// CongestionLevel names an index in [0,100].
func CongestionLevel(index float64) string {
	switch {
	case index < 25:
		return "Free Flow"
	case index < 50:
		return "Light"
	case index < 75:
		return "Moderate"
	default:
		return "Heavy"
	}
}

// CongestionIndex models the city's daily traffic curve: rush hour peaks on
// weekdays, flatter weekends.
func (s *Service) CongestionIndex() float64 {
	now := s.now()
	hour := now.Hour()
	weekend := now.Weekday() == time.Saturday || now.Weekday() == time.Sunday

	var index float64
	switch {
	case hour >= 8 && hour <= 10: // morning peak
		index = 85
	case hour >= 17 && hour <= 20: // evening peak
		index = 90
	case hour >= 11 && hour <= 16:
		index = 55
	case hour >= 21 || hour <= 5:
		index = 15
	default:
		index = 40
	}

	if weekend {
		index *= 0.6
	}
	return index
}
