package usecases

import (
	"context"
	"fmt"
	"sort"

	"github.com/lintang-b-s/saferoutes/pkg/accidents"
	"github.com/lintang-b-s/saferoutes/pkg/concurrent"
	"github.com/lintang-b-s/saferoutes/pkg/geo"
	"github.com/lintang-b-s/saferoutes/pkg/history"
	"github.com/lintang-b-s/saferoutes/pkg/metrics"
	"github.com/lintang-b-s/saferoutes/pkg/risk"
	"github.com/lintang-b-s/saferoutes/pkg/routegen"
	"github.com/lintang-b-s/saferoutes/pkg/util"
	"github.com/lintang-b-s/saferoutes/pkg/weather"
	"go.uber.org/zap"
)

const maxAccidentDetails = 3

// PlannedRoute is one scored alternative between two locations.
type PlannedRoute struct {
	ID                 int                     `json:"id"`
	Name               string                  `json:"name"`
	Waypoints          []geo.Coordinate        `json:"waypoints"`
	Polyline           string                  `json:"polyline"`
	RiskScore          float64                 `json:"risk_score"`
	RiskLevel          string                  `json:"risk_level"`
	DistanceKM         float64                 `json:"distance_km"`
	TimeMinutes        int                     `json:"time_minutes"`
	TrafficDelayMin    int                     `json:"traffic_delay_minutes"`
	RiskDetails        []risk.SegmentRisk      `json:"risk_details"`
	AccidentMultiplier float64                 `json:"accident_multiplier"`
	VehicleMultiplier  float64                 `json:"vehicle_multiplier"`
	WeatherMultiplier  float64                 `json:"weather_multiplier"`
	CombinedMultiplier float64                 `json:"combined_multiplier"`
	VehicleInfo        risk.VehicleProfile     `json:"vehicle_info"`
	AccidentsOnRoute   int                     `json:"accidents_on_route"`
	AccidentDetails    []accidents.RouteReport `json:"accident_details"`
	Recommended        bool                    `json:"recommended"`
}

// Plan is the full answer for one start/end pair: every alternative scored and
// sorted, safest first.
type Plan struct {
	Start                string             `json:"start"`
	End                  string             `json:"end"`
	VehicleType          string             `json:"vehicle_type"`
	Weather              weather.Conditions `json:"weather"`
	Routes               []PlannedRoute     `json:"routes"`
	ActiveAccidentsCount int                `json:"active_accidents_count"`
}

type RoutePlannerService struct {
	log       *zap.Logger
	gazetteer Gazetteer
	generator RouteGenerator
	scorer    RiskScorer
	accidents AccidentFinder
	weather   WeatherProvider
	traffic   TrafficEstimator
	history   SearchRecorder
	collector *metrics.Collector

	routeBufferKM float64
}

func NewRoutePlannerService(log *zap.Logger, gazetteer Gazetteer, generator RouteGenerator,
	scorer RiskScorer, accidentFinder AccidentFinder, weatherProvider WeatherProvider,
	trafficEstimator TrafficEstimator, searchRecorder SearchRecorder,
	collector *metrics.Collector, routeBufferKM float64) *RoutePlannerService {
	return &RoutePlannerService{
		log:           log,
		gazetteer:     gazetteer,
		generator:     generator,
		scorer:        scorer,
		accidents:     accidentFinder,
		weather:       weatherProvider,
		traffic:       trafficEstimator,
		history:       searchRecorder,
		collector:     collector,
		routeBufferKM: routeBufferKM,
	}
}

type scoreJob struct {
	id        int
	name      string
	waypoints []geo.Coordinate
}

type scoreResult struct {
	route PlannedRoute
	err   error
}

// PlanRoutes generates every route alternative between two named locations and
// scores them concurrently. routes come back sorted by risk score ascending with
// the safest flagged as recommended.
func (ps *RoutePlannerService) PlanRoutes(ctx context.Context, startName, endName,
	vehicleType string) (*Plan, error) {

	start, ok := ps.gazetteer.Resolve(startName)
	if !ok {
		return nil, util.WrapErrorf(fmt.Errorf("start location %q not found", startName),
			util.ErrBadParamInput, "planner")
	}
	end, ok := ps.gazetteer.Resolve(endName)
	if !ok {
		return nil, util.WrapErrorf(fmt.Errorf("end location %q not found", endName),
			util.ErrBadParamInput, "planner")
	}

	conditions := ps.weather.Current(ctx)

	jobs := make([]scoreJob, 0, len(routegen.Styles))
	for i, style := range routegen.Styles {
		jobs = append(jobs, scoreJob{
			id:        i + 1,
			name:      style.Name,
			waypoints: ps.generator.Generate(start, end, style.Style),
		})
	}

	pool := concurrent.NewWorkerPool[scoreJob, scoreResult](len(jobs), len(jobs))
	pool.Start(func(job scoreJob) scoreResult {
		return ps.scoreOne(ctx, job, vehicleType, conditions.Category)
	})
	for _, job := range jobs {
		pool.AddJob(job)
	}
	pool.Close()
	pool.Wait()

	routes := make([]PlannedRoute, 0, len(jobs))
	for res := range pool.CollectResults() {
		if res.err != nil {
			return nil, res.err
		}
		routes = append(routes, res.route)
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].RiskScore != routes[j].RiskScore {
			return routes[i].RiskScore < routes[j].RiskScore
		}
		return routes[i].ID < routes[j].ID
	})
	routes[0].Recommended = true

	active, err := ps.accidents.ListActive()
	if err != nil {
		return nil, err
	}

	ps.recordSearch(startName, endName, routes, conditions.Category)

	if ps.collector != nil {
		ps.collector.RoutesComputed.Inc()
		ps.collector.SetActiveAccidents(len(active))
	}

	return &Plan{
		Start:                startName,
		End:                  endName,
		VehicleType:          vehicleType,
		Weather:              conditions,
		Routes:               routes,
		ActiveAccidentsCount: len(active),
	}, nil
}

func (ps *RoutePlannerService) scoreOne(ctx context.Context, job scoreJob, vehicleType,
	weatherCondition string) scoreResult {
	scored, err := ps.scorer.ScoreRoute(job.waypoints, vehicleType, weatherCondition)
	if err != nil {
		return scoreResult{err: err}
	}

	meta := risk.Estimate(job.waypoints, scored.RiskScore, vehicleType)

	onRoute, err := ps.accidents.FindOnRoute(job.waypoints, ps.routeBufferKM)
	if err != nil {
		return scoreResult{err: err}
	}
	details := onRoute
	if len(details) > maxAccidentDetails {
		details = details[:maxAccidentDetails]
	}

	return scoreResult{route: PlannedRoute{
		ID:                 job.id,
		Name:               job.name,
		Waypoints:          job.waypoints,
		Polyline:           geo.PolylineFromCoords(job.waypoints),
		RiskScore:          scored.RiskScore,
		RiskLevel:          scored.RiskLevel,
		DistanceKM:         meta.DistanceKM,
		TimeMinutes:        meta.TimeMinutes,
		TrafficDelayMin:    ps.traffic.DelayMinutes(ctx, job.waypoints[0], job.waypoints[len(job.waypoints)-1], scored.RiskScore),
		RiskDetails:        scored.Details,
		AccidentMultiplier: scored.AccidentMultiplier,
		VehicleMultiplier:  scored.VehicleMultiplier,
		WeatherMultiplier:  scored.WeatherMultiplier,
		CombinedMultiplier: scored.CombinedMultiplier,
		VehicleInfo:        scored.Vehicle,
		AccidentsOnRoute:   len(onRoute),
		AccidentDetails:    details,
	}}
}

// recordSearch logs the chosen route into history. failures are logged, never
// surfaced: history must not break route planning.
func (ps *RoutePlannerService) recordSearch(startName, endName string, routes []PlannedRoute,
	weatherCondition string) {
	if ps.history == nil {
		return
	}
	best := routes[0]
	_, err := ps.history.AddSearch(startName, endName, history.ChosenRoute{
		Name:       best.Name,
		RiskScore:  best.RiskScore,
		RiskLevel:  best.RiskLevel,
		DistanceKM: best.DistanceKM,
		TimeMin:    best.TimeMinutes,
	}, len(routes), weatherCondition)
	if err != nil {
		ps.log.Warn("failed to record route search", zap.Error(err))
	}
}
