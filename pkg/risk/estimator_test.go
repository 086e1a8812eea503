package risk

import (
	"testing"

	"github.com/lintang-b-s/saferoutes/pkg/geo"
	"github.com/stretchr/testify/require"
)

func TestEstimateCarBaseline(t *testing.T) {
	// a ~7.3 km route at 30 km/h baseline
	meta := Estimate(bandraAndheri, 30.0, "car")

	require.Greater(t, meta.DistanceKM, 6.5)
	require.Less(t, meta.DistanceKM, 8.0)
	require.Equal(t, int(meta.DistanceKM/30*60), meta.TimeMinutes)
}

func TestEstimateSpeedFactors(t *testing.T) {
	carMeta := Estimate(bandraAndheri, 30.0, "car")

	testCases := []struct {
		vehicle string
		factor  float64
	}{
		{"bike", 0.85},
		{"auto", 0.75},
		{"bus", 0.80},
		{"truck", 0.70},
	}
	for _, tt := range testCases {
		t.Run(tt.vehicle, func(t *testing.T) {
			meta := Estimate(bandraAndheri, 30.0, tt.vehicle)
			require.Equal(t, int(float64(carMeta.TimeMinutes)/tt.factor), meta.TimeMinutes)
			require.Equal(t, carMeta.DistanceKM, meta.DistanceKM)
		})
	}
}

func TestEstimateUnknownVehicleNoAdjustment(t *testing.T) {
	base := Estimate(bandraAndheri, 30.0, "hovercraft")
	car := Estimate(bandraAndheri, 30.0, "car")
	require.Equal(t, car.TimeMinutes, base.TimeMinutes)
}

func TestEstimateHighRiskPenalty(t *testing.T) {
	safe := Estimate(bandraAndheri, 60.0, "car") // 60 is not "above 60"
	risky := Estimate(bandraAndheri, 60.01, "car")

	require.Equal(t, int(float64(safe.TimeMinutes)*1.15), risky.TimeMinutes)
}

func TestEstimateEmptyRoute(t *testing.T) {
	meta := Estimate([]geo.Coordinate{geo.NewCoordinate(19, 72)}, 0, "car")
	require.Equal(t, 0.0, meta.DistanceKM)
	require.Equal(t, 0, meta.TimeMinutes)
}
