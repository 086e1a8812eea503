package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/saferoutes/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/saferoutes/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/saferoutes/pkg/http/server"
	"github.com/lintang-b-s/saferoutes/pkg/metrics"
	"github.com/rs/cors"
	"go.uber.org/zap"

	_ "net/http/pprof"
)

type API struct {
	log       *zap.Logger
	collector *metrics.Collector
}

func NewAPI(log *zap.Logger, collector *metrics.Collector) *API {
	return &API{log: log, collector: collector}
}

func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	log *zap.Logger,

	useRateLimit bool,
	planner controllers.RoutePlannerService,
	accidentService controllers.AccidentService,
	historyService controllers.HistoryService,
	weatherService controllers.WeatherService,
	locationService controllers.LocationService,
) error {
	log.Info("Run httprouter API")

	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	router.Handler(http.MethodGet, "/debug/pprof/*item", http.DefaultServeMux)
	if api.collector != nil {
		router.Handler(http.MethodGet, "/metrics", api.collector.Handler())
	}

	group := router_helper.NewRouteGroup(router, "/api")

	safeRoutes := controllers.New(planner, accidentService, historyService,
		weatherService, locationService, log)
	safeRoutes.Routes(group)

	var mwChain []alice.Constructor
	if useRateLimit {
		mwChain = append(mwChain, corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
			RealIP, Heartbeat("healthz"), Logger(log), api.instrument, Limit)
	} else {
		mwChain = append(mwChain, corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
			RealIP, Heartbeat("healthz"), Logger(log), api.instrument)
	}
	mainMwChain := alice.New(mwChain...).Then(router)

	srv := http_server.New(ctx, mainMwChain, config)
	log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		log.Info("HTTP server stopped", zap.Error(err))
		return err

	case <-ctx.Done():
		log.Info("Context canceled, shutting down server")
		_ = srv.Shutdown(context.Background())
		return ctx.Err()
	}
}
