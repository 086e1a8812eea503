package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lintang-b-s/saferoutes/pkg/risk"
	"go.uber.org/zap"
)

const requestTimeout = 5 * time.Second

// Conditions is the weather snapshot consumed by the risk pipeline. Category is
// always one of the four categories the multiplier tables know.
type Conditions struct {
	Category string  `json:"weather_category"`
	RainMM   float64 `json:"rain_mm"`
	Humidity int     `json:"humidity"`
	TempC    float64 `json:"temp"`
	IsLive   bool    `json:"is_live"`
}

// Service fetches live weather from OpenWeatherMap. without an api key, or on any
// fetch failure, it degrades to seasonal mock data - weather must never abort a
// route computation.
type Service struct {
	apiKey     string
	city       string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	now        func() time.Time
}

func NewService(apiKey, city string, log *zap.Logger) *Service {
	return &Service{
		apiKey:  apiKey,
		city:    city,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		log: log,
		now: time.Now,
	}
}

type openWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

// Current returns the current conditions, live when possible.
func (s *Service) Current(ctx context.Context) Conditions {
	if s.apiKey == "" {
		return s.mock()
	}

	q := url.Values{}
	q.Set("q", s.city)
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?%s", s.baseURL, q.Encode()), nil)
	if err != nil {
		return s.mock()
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn("weather fetch failed, using mock", zap.Error(err))
		return s.mock()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Warn("weather api returned non-200, using mock", zap.Int("status", resp.StatusCode))
		return s.mock()
	}

	var owm openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&owm); err != nil {
		s.log.Warn("weather decode failed, using mock", zap.Error(err))
		return s.mock()
	}

	cond := Conditions{
		Category: risk.WeatherClear,
		RainMM:   owm.Rain.OneHour,
		Humidity: owm.Main.Humidity,
		TempC:    owm.Main.Temp,
		IsLive:   true,
	}
	if len(owm.Weather) > 0 {
		cond.Category = mapCategory(owm.Weather[0].Main, owm.Weather[0].Description)
	}
	return cond
}

// mapCategory folds provider conditions onto the model's four categories.
func mapCategory(main, description string) string {
	main = strings.ToLower(main)
	description = strings.ToLower(description)

	switch {
	case strings.Contains(description, "rain") || strings.Contains(description, "drizzle"):
		if strings.Contains(description, "heavy") {
			return risk.WeatherHeavyRain
		}
		return risk.WeatherRain
	case strings.Contains(main, "fog") || strings.Contains(main, "mist") || strings.Contains(main, "haze"):
		return risk.WeatherFog
	default:
		return risk.WeatherClear
	}
}

// mock generates seasonal conditions. monsoon months get rain, the rest clear sky.
func (s *Service) mock() Conditions {
	month := s.now().Month()
	switch {
	case month >= time.June && month <= time.September: // monsoon
		return Conditions{Category: risk.WeatherRain, RainMM: 2.5, Humidity: 85, TempC: 28.0}
	case month >= time.March && month <= time.May: // summer
		return Conditions{Category: risk.WeatherClear, Humidity: 65, TempC: 33.0}
	default: // winter
		return Conditions{Category: risk.WeatherClear, Humidity: 55, TempC: 24.0}
	}
}
