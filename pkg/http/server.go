package http

import (
	"context"

	http_router "github.com/lintang-b-s/saferoutes/pkg/http/router"
	"github.com/lintang-b-s/saferoutes/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/saferoutes/pkg/http/server"
	"github.com/lintang-b-s/saferoutes/pkg/metrics"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger

	g errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,
	collector *metrics.Collector,

	useRateLimit bool,
	planner controllers.RoutePlannerService,
	accidentService controllers.AccidentService,
	historyService controllers.HistoryService,
	weatherService controllers.WeatherService,
	locationService controllers.LocationService,

) (*Server, error) {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "1000s")

	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}

	server := http_router.NewAPI(log, collector)

	s.g.Go(func() error {
		return server.Run(
			ctx, config, log,
			useRateLimit, planner, accidentService, historyService,
			weatherService, locationService,
		)
	})

	return s, nil
}

// Wait blocks until the API goroutine exits.
func (s *Server) Wait() error {
	return s.g.Wait()
}
