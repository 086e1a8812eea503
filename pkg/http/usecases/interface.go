package usecases

import (
	"context"

	"github.com/lintang-b-s/saferoutes/pkg/accidents"
	"github.com/lintang-b-s/saferoutes/pkg/geo"
	"github.com/lintang-b-s/saferoutes/pkg/history"
	"github.com/lintang-b-s/saferoutes/pkg/risk"
	"github.com/lintang-b-s/saferoutes/pkg/routegen"
	"github.com/lintang-b-s/saferoutes/pkg/weather"
)

type Gazetteer interface {
	Resolve(name string) (geo.Coordinate, bool)
}

type RouteGenerator interface {
	Generate(start, end geo.Coordinate, style routegen.Style) []geo.Coordinate
}

type RiskScorer interface {
	ScoreRoute(waypoints []geo.Coordinate, vehicleType, weatherCondition string) (risk.Result, error)
}

type AccidentFinder interface {
	FindOnRoute(waypoints []geo.Coordinate, bufferKM float64) ([]accidents.RouteReport, error)
	ListActive() ([]accidents.Report, error)
}

type WeatherProvider interface {
	Current(ctx context.Context) weather.Conditions
}

type TrafficEstimator interface {
	DelayMinutes(ctx context.Context, start, end geo.Coordinate, riskScore float64) int
}

type SearchRecorder interface {
	AddSearch(start, end string, chosen history.ChosenRoute, routeCount int, weatherCondition string) (history.Entry, error)
}
