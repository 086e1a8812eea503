package risk

// Weather categories used across the pipeline. the weather client maps provider
// conditions onto exactly these four.
const (
	WeatherClear     = "Clear"
	WeatherRain      = "Rain"
	WeatherFog       = "Fog"
	WeatherHeavyRain = "Heavy Rain"
)

// VehicleProfile carries the per-vehicle risk multiplier and the speed factor used
// by the travel time estimator. WeatherSensitivity is a second, vehicle-specific
// weather layer on top of the standalone weather multiplier; when both are active
// they multiply.
type VehicleProfile struct {
	Key    string `json:"vehicle_type"`
	Name   string `json:"name"`

	RiskMultiplier     float64            `json:"risk_multiplier"`
	SpeedFactor        float64            `json:"speed_factor"`
	WeatherSensitivity map[string]float64 `json:"weather_sensitivity"`
}

const defaultVehicle = "car"

// these numbers are load-bearing: historical scores were produced with exactly
// this table, so changing any entry breaks comparability.
var vehicleProfiles = map[string]VehicleProfile{
	"car": {
		Key: "car", Name: "Car",
		RiskMultiplier: 1.0, SpeedFactor: 1.0,
		WeatherSensitivity: map[string]float64{
			WeatherClear: 1.0, WeatherRain: 1.0, WeatherFog: 1.0, WeatherHeavyRain: 1.0,
		},
	},
	"bike": {
		Key: "bike", Name: "Motorcycle",
		RiskMultiplier: 1.8, SpeedFactor: 0.85,
		WeatherSensitivity: map[string]float64{
			WeatherClear: 1.0, WeatherRain: 1.5, WeatherFog: 1.3, WeatherHeavyRain: 2.0,
		},
	},
	"auto": {
		Key: "auto", Name: "Auto Rickshaw",
		RiskMultiplier: 1.5, SpeedFactor: 0.75,
		WeatherSensitivity: map[string]float64{
			WeatherClear: 1.0, WeatherRain: 1.3, WeatherFog: 1.2, WeatherHeavyRain: 1.6,
		},
	},
	"bus": {
		Key: "bus", Name: "Bus",
		RiskMultiplier: 1.2, SpeedFactor: 0.80,
		WeatherSensitivity: map[string]float64{
			WeatherClear: 1.0, WeatherRain: 1.1, WeatherFog: 1.1, WeatherHeavyRain: 1.3,
		},
	},
	"truck": {
		Key: "truck", Name: "Truck",
		RiskMultiplier: 1.3, SpeedFactor: 0.70,
		WeatherSensitivity: map[string]float64{
			WeatherClear: 1.0, WeatherRain: 1.2, WeatherFog: 1.2, WeatherHeavyRain: 1.4,
		},
	},
}

// ResolveVehicle returns the profile for a vehicle type, falling back to the car
// baseline for anything unrecognized.
func ResolveVehicle(vehicleType string) VehicleProfile {
	if p, ok := vehicleProfiles[vehicleType]; ok {
		return p
	}
	return vehicleProfiles[defaultVehicle]
}

// Vehicles returns all known profiles for the UI, in a stable order.
func Vehicles() []VehicleProfile {
	keys := []string{"car", "bike", "auto", "bus", "truck"}
	out := make([]VehicleProfile, 0, len(keys))
	for _, k := range keys {
		out = append(out, vehicleProfiles[k])
	}
	return out
}

// standalone weather multiplier, distinct from per-vehicle weather sensitivity.
var weatherMultipliers = map[string]float64{
	WeatherClear:     1.00,
	WeatherRain:      1.20,
	WeatherFog:       1.21,
	WeatherHeavyRain: 1.29,
}

// WeatherMultiplier returns the standalone weather factor, 1.0 for unknown conditions.
func WeatherMultiplier(condition string) float64 {
	if m, ok := weatherMultipliers[condition]; ok {
		return m
	}
	return 1.0
}
