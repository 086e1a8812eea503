package accidents

import (
	"math"

	"github.com/lintang-b-s/saferoutes/pkg/geo"
)

const maxImpactMultiplier = 2.0

// ImpactMultiplier computes the accident risk multiplier for a route, in [1.0, 2.0].
//
// this is the additive-decay model: starting at 1.0, each report matched within the
// registry's route buffer contributes (severityWeight - 1.0) * timeDecay * verification,
// where timeDecay is 1.0 for the first 30 minutes, 0.8 up to an hour and 0.5 after,
// and verified reports count 1.2x. the sum is capped at 2.0. the multiplicative
// model that an earlier revision of this service used (product of raw severity
// weights, no recency or verification) is intentionally gone - the two formulas
// produce incomparable scores and must never be mixed in one deployment.
func (r *Registry) ImpactMultiplier(waypoints []geo.Coordinate) (float64, error) {
	matched, err := r.FindOnRoute(waypoints, r.routeBufferKM)
	if err != nil {
		return 0, err
	}
	if len(matched) == 0 {
		return 1.0, nil
	}

	now := r.now()
	total := 1.0
	for _, acc := range matched {
		weight := severityWeight(acc.Severity)

		ageMinutes := now.Sub(acc.Timestamp).Minutes()
		timeFactor := 0.5
		if ageMinutes <= 30 {
			timeFactor = 1.0
		} else if ageMinutes <= 60 {
			timeFactor = 0.8
		}

		verificationFactor := 1.0
		if acc.Verified {
			verificationFactor = 1.2
		}

		total += (weight - 1.0) * timeFactor * verificationFactor
	}

	return math.Min(maxImpactMultiplier, total), nil
}
