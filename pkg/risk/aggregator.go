package risk

import (
	"math"

	"github.com/lintang-b-s/saferoutes/pkg/geo"
	"github.com/lintang-b-s/saferoutes/pkg/roads"
	"github.com/lintang-b-s/saferoutes/pkg/util"
	"go.uber.org/zap"
)

const (
	defaultBaseRisk = 40.0
	maxRisk         = 100.0
	epsilonKM       = 0.001
	maxRiskDetails  = 5

	// risk level thresholds. consumers depend on this exact pair.
	mediumThreshold = 35.0
	highThreshold   = 60.0
)

// Level classifies a 0-100 risk score.
func Level(score float64) string {
	switch {
	case score < mediumThreshold:
		return "low"
	case score < highThreshold:
		return "medium"
	default:
		return "high"
	}
}

// MultiplierSource yields the accident impact multiplier for a route. implemented
// by the accident registry.
type MultiplierSource interface {
	ImpactMultiplier(waypoints []geo.Coordinate) (float64, error)
}

// SegmentIndex resolves the nearest known road segment to a point. implemented by
// the roads store.
type SegmentIndex interface {
	NearestToPoint(p geo.Coordinate) (roads.Segment, bool)
}

// SegmentRisk is one entry in the per-route risk breakdown.
type SegmentRisk struct {
	Road string  `json:"road"`
	Risk float64 `json:"risk"`
}

// Result is the aggregated risk for one route.
type Result struct {
	RiskScore          float64       `json:"risk_score"`
	RiskLevel          string        `json:"risk_level"`
	AccidentMultiplier float64       `json:"accident_multiplier"`
	VehicleMultiplier  float64       `json:"vehicle_multiplier"`
	WeatherMultiplier  float64       `json:"weather_multiplier"`
	CombinedMultiplier float64       `json:"combined_multiplier"`
	Details            []SegmentRisk `json:"risk_details"`
	Vehicle            VehicleProfile `json:"vehicle_info"`
}

// Options configure which multiplier layers a deployment applies.
type Options struct {
	// UseWeather applies the standalone weather multiplier. vehicle-only
	// deployments turn this off.
	UseWeather bool
	// UseVehicleWeatherSensitivity additionally applies the per-vehicle weather
	// sub-table. when both layers are on they multiply.
	UseVehicleWeatherSensitivity bool
}

// Aggregator scores routes by combining static segment risk with dynamic
// multipliers.
type Aggregator struct {
	log       *zap.Logger
	accidents MultiplierSource
	segments  SegmentIndex
	opts      Options
}

func NewAggregator(accidents MultiplierSource, segments SegmentIndex, opts Options,
	log *zap.Logger) *Aggregator {
	return &Aggregator{
		log:       log,
		accidents: accidents,
		segments:  segments,
		opts:      opts,
	}
}

// ScoreRoute produces the distance-weighted risk score for a route plus the
// multiplier breakdown. a route always scores: a leg with no nearby segment falls
// back to the default base risk of 40, zero-length legs weigh epsilon.
func (a *Aggregator) ScoreRoute(waypoints []geo.Coordinate, vehicleType,
	weatherCondition string) (Result, error) {

	accidentMult, err := a.accidents.ImpactMultiplier(waypoints)
	if err != nil {
		return Result{}, util.WrapErrorf(err, util.ErrInternalServerError, "risk: accident multiplier")
	}

	vehicle := ResolveVehicle(vehicleType)
	vehicleMult := vehicle.RiskMultiplier

	weatherMult := 1.0
	if a.opts.UseWeather {
		weatherMult = WeatherMultiplier(weatherCondition)
	}
	if a.opts.UseVehicleWeatherSensitivity {
		if s, ok := vehicle.WeatherSensitivity[weatherCondition]; ok {
			weatherMult *= s
		}
	}

	combined := accidentMult * vehicleMult * weatherMult

	var (
		totalWeighted float64
		totalDist     float64
		details       []SegmentRisk
	)
	for i := 0; i < len(waypoints)-1; i++ {
		from, to := waypoints[i], waypoints[i+1]
		legDist := geo.CalculateHaversineDistance(from.Lat, from.Lon, to.Lat, to.Lon)
		if legDist == 0 {
			legDist = epsilonKM
		}
		mid := geo.Midpoint(from, to)

		baseRisk := defaultBaseRisk
		roadName := "Unknown Road"
		if seg, ok := a.segments.NearestToPoint(mid); ok {
			baseRisk = seg.BaseRisk
			roadName = seg.RoadName
		}

		adjusted := math.Min(maxRisk, baseRisk*combined)
		totalWeighted += adjusted * legDist
		totalDist += legDist
		if len(details) < maxRiskDetails {
			details = append(details, SegmentRisk{Road: roadName, Risk: util.RoundFloat(adjusted, 2)})
		}
	}

	score := util.RoundFloat(totalWeighted/math.Max(totalDist, epsilonKM), 2)

	return Result{
		RiskScore:          score,
		RiskLevel:          Level(score),
		AccidentMultiplier: accidentMult,
		VehicleMultiplier:  vehicleMult,
		WeatherMultiplier:  weatherMult,
		CombinedMultiplier: util.RoundFloat(combined, 2),
		Details:            details,
		Vehicle:            vehicle,
	}, nil
}
