package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/saferoutes/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/saferoutes/pkg/risk"
	"go.uber.org/zap"
)

type safeRoutesAPI struct {
	planner   RoutePlannerService
	accidents AccidentService
	history   HistoryService
	weather   WeatherService
	locations LocationService
	log       *zap.Logger
}

func New(planner RoutePlannerService, accidentService AccidentService,
	historyService HistoryService, weatherService WeatherService,
	locationService LocationService, log *zap.Logger) *safeRoutesAPI {
	return &safeRoutesAPI{
		planner:   planner,
		accidents: accidentService,
		history:   historyService,
		weather:   weatherService,
		locations: locationService,
		log:       log,
	}
}

func (api *safeRoutesAPI) Routes(group *helper.RouteGroup) {
	group.POST("/routes", api.planRoutes)

	group.POST("/accidents/report", api.reportAccident)
	group.GET("/accidents/active", api.activeAccidents)
	group.GET("/accidents/nearby", api.nearbyAccidents)
	group.POST("/accidents/vote", api.voteAccident)
	group.DELETE("/accidents/:id", api.deleteAccident)
	group.GET("/accidents/stats", api.accidentStats)

	group.GET("/history", api.recentHistory)
	group.GET("/history/popular", api.popularRoutes)
	group.GET("/history/stats", api.historyStats)
	group.DELETE("/history/:id", api.deleteHistoryEntry)
	group.DELETE("/history", api.clearHistory)

	group.GET("/vehicles", api.vehicles)
	group.GET("/weather", api.currentWeather)
	group.GET("/locations", api.listLocations)
}

func (api *safeRoutesAPI) validateRequest(w http.ResponseWriter, r *http.Request, request interface{}) bool {
	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return false
	}
	return true
}

func (api *safeRoutesAPI) planRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request planRoutesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
	if !api.validateRequest(w, r, request) {
		return
	}
	if request.VehicleType == "" {
		request.VehicleType = "car"
	}

	plan, err := api.planner.PlanRoutes(r.Context(), request.Start, request.End, request.VehicleType)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": plan}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) vehicles(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": risk.Vehicles()}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) currentWeather(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	conditions := api.weather.Current(r.Context())
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": conditions}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) listLocations(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": api.locations.All()}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
