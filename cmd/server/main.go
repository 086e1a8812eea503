package main

import (
	"context"
	"flag"
	"math/rand"
	"strings"
	"time"

	"github.com/lintang-b-s/saferoutes/pkg/accidents"
	"github.com/lintang-b-s/saferoutes/pkg/cities"
	"github.com/lintang-b-s/saferoutes/pkg/history"
	"github.com/lintang-b-s/saferoutes/pkg/http"
	"github.com/lintang-b-s/saferoutes/pkg/http/usecases"
	"github.com/lintang-b-s/saferoutes/pkg/logger"
	"github.com/lintang-b-s/saferoutes/pkg/metrics"
	"github.com/lintang-b-s/saferoutes/pkg/risk"
	"github.com/lintang-b-s/saferoutes/pkg/roads"
	"github.com/lintang-b-s/saferoutes/pkg/routegen"
	"github.com/lintang-b-s/saferoutes/pkg/storage/sqlite"
	"github.com/lintang-b-s/saferoutes/pkg/traffic"
	"github.com/lintang-b-s/saferoutes/pkg/util"
	"github.com/lintang-b-s/saferoutes/pkg/weather"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	roadSegmentsPath = flag.String("road_segments", "./data/road_segments.csv", "road segment csv with per-segment base risk")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		log.Warn("no config file found, using defaults", zap.Error(err))
	}
	viper.SetDefault("ROUTE_BUFFER_KM", 0.5)
	viper.SetDefault("USE_WEATHER", true)
	viper.SetDefault("USE_VEHICLE_WEATHER_SENSITIVITY", false)
	viper.SetDefault("USE_RATE_LIMIT", true)
	viper.SetDefault("STORAGE_BACKEND", "memory")
	viper.SetDefault("SQLITE_PATH", "./data/saferoutes.db")
	viper.SetDefault("WEATHER_CITY", "Mumbai")

	var (
		accidentRepo accidents.Repository
		historyRepo  history.Repository
	)
	switch backend := viper.GetString("STORAGE_BACKEND"); backend {
	case "sqlite":
		db, err := sqlite.Open(viper.GetString("SQLITE_PATH"))
		if err != nil {
			panic(err)
		}
		defer db.Close()
		accidentRepo = sqlite.NewAccidentRepository(db)
		historyRepo = sqlite.NewHistoryRepository(db)
		log.Info("using sqlite storage", zap.String("path", viper.GetString("SQLITE_PATH")))
	default:
		accidentRepo = accidents.NewMemoryRepository()
		historyRepo = history.NewMemoryRepository()
		log.Info("using in-memory storage", zap.String("backend", backend))
	}

	routeBufferKM := viper.GetFloat64("ROUTE_BUFFER_KM")
	registry, err := accidents.NewRegistry(accidentRepo, routeBufferKM, log)
	if err != nil {
		panic(err)
	}

	segments, err := roads.LoadCSV(*roadSegmentsPath)
	if err != nil {
		panic(err)
	}
	store := roads.NewStore(segments)
	log.Info("loaded road segments", zap.Int("count", store.Len()))

	aggregator := risk.NewAggregator(registry, store, risk.Options{
		UseWeather:                   viper.GetBool("USE_WEATHER"),
		UseVehicleWeatherSensitivity: viper.GetBool("USE_VEHICLE_WEATHER_SENSITIVITY"),
	}, log)

	gazetteer := cities.NewGazetteer()
	for name, raw := range viper.GetStringMapString("EXTRA_LOCATIONS") {
		lat, lon, err := parseLatLon(raw)
		if err != nil {
			log.Warn("skipping bad extra location", zap.String("name", name), zap.Error(err))
			continue
		}
		gazetteer.Add(name, lat, lon)
	}

	generator := routegen.NewGenerator(rand.NewSource(time.Now().UnixNano()))
	weatherService := weather.NewService(viper.GetString("OPENWEATHER_API_KEY"),
		viper.GetString("WEATHER_CITY"), log)
	trafficService := traffic.NewLiveService(
		traffic.NewService(rand.NewSource(time.Now().UnixNano())),
		viper.GetString("GOOGLE_MAPS_API_KEY"), log)
	historyManager := history.NewManager(historyRepo)

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		panic(err)
	}

	planner := usecases.NewRoutePlannerService(log, gazetteer, generator, aggregator,
		registry, weatherService, trafficService, historyManager, collector, routeBufferKM)

	api := http.NewServer(log)

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	api.Use(ctx, log, collector, viper.GetBool("USE_RATE_LIMIT"),
		planner, registry, historyManager, weatherService, gazetteer)

	signal := http.GracefulShutdown()

	log.Info("SafeRoutes server stopped", zap.String("signal", signal.String()))
	cleanup()
}

func parseLatLon(raw string) (float64, float64, error) {
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return 0, 0, util.WrapErrorf(nil, util.ErrBadParamInput, "want \"lat,lon\", got %q", raw)
	}
	lat, err := util.StringToFloat64(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	lon, err := util.StringToFloat64(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
