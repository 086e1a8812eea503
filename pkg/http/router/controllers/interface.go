package controllers

import (
	"context"

	"github.com/lintang-b-s/saferoutes/pkg/accidents"
	"github.com/lintang-b-s/saferoutes/pkg/cities"
	"github.com/lintang-b-s/saferoutes/pkg/history"
	"github.com/lintang-b-s/saferoutes/pkg/http/usecases"
	"github.com/lintang-b-s/saferoutes/pkg/weather"
)

type RoutePlannerService interface {
	PlanRoutes(ctx context.Context, startName, endName, vehicleType string) (*usecases.Plan, error)
}

type AccidentService interface {
	Report(lat, lon float64, severity accidents.Severity, description, reporterID string) (accidents.Report, error)
	ListActive() ([]accidents.Report, error)
	FindNear(lat, lon, radiusKM float64) ([]accidents.NearbyReport, error)
	Vote(id string, vote accidents.VoteType) (bool, error)
	Delete(id, requesterID string) (bool, error)
	Stats() (accidents.Statistics, error)
}

type HistoryService interface {
	Recent(limit int) ([]history.Entry, error)
	StatsFor(start, end string) (history.PairStats, error)
	Popular(limit int) ([]history.PopularRoute, error)
	Delete(id string) (bool, error)
	Clear() error
}

type WeatherService interface {
	Current(ctx context.Context) weather.Conditions
}

type LocationService interface {
	All() []cities.Location
}
