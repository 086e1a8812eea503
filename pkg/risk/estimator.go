package risk

import (
	"github.com/lintang-b-s/saferoutes/pkg/geo"
	"github.com/lintang-b-s/saferoutes/pkg/util"
)

const (
	baselineSpeedKMH = 30.0

	// routes scoring above the high-risk threshold get a flat caution penalty on
	// the estimated time.
	highRiskTimePenalty = 1.15
)

// Metadata is the estimated distance and travel time for a route.
type Metadata struct {
	DistanceKM  float64 `json:"distance_km"`
	TimeMinutes int     `json:"time_minutes"`
}

// Estimate converts waypoints + risk score + vehicle into distance and a travel
// time with penalties. the baseline assumes 30 km/h urban driving, scaled by the
// vehicle's speed factor, plus 15% when the risk score crosses the high band.
func Estimate(waypoints []geo.Coordinate, riskScore float64, vehicleType string) Metadata {
	distance := util.RoundFloat(geo.PolylineDistance(waypoints), 2)

	baseTime := int(distance / baselineSpeedKMH * 60)

	timeMinutes := baseTime
	if p, ok := vehicleProfiles[vehicleType]; ok {
		timeMinutes = int(float64(baseTime) / p.SpeedFactor)
	}

	if riskScore > highThreshold {
		timeMinutes = int(float64(timeMinutes) * highRiskTimePenalty)
	}

	return Metadata{DistanceKM: distance, TimeMinutes: timeMinutes}
}
