package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/saferoutes/pkg/accidents"
)

const defaultNearbyRadiusKM = 2.0

func (api *safeRoutesAPI) reportAccident(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request reportAccidentRequest
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
	if request.Severity == "" {
		request.Severity = string(accidents.SeverityModerate)
	}

	report, err := api.accidents.Report(request.Latitude, request.Longitude,
		accidents.Severity(request.Severity), request.Description, request.ReporterID)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusCreated, envelope{"data": report}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) activeAccidents(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	active, err := api.accidents.ListActive()
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{
		"data":  active,
		"count": len(active),
	}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) nearbyAccidents(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lat is required and must be a valid float"))
		return
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lon is required and must be a valid float"))
		return
	}
	radius := defaultNearbyRadiusKM
	if raw := query.Get("radius_km"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			api.BadRequestResponse(w, r, errors.New("radius_km must be a positive float"))
			return
		}
	}

	nearby, err := api.accidents.FindNear(lat, lon, radius)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{
		"data":  nearby,
		"count": len(nearby),
	}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) voteAccident(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request voteAccidentRequest
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

	ok, err := api.accidents.Vote(request.AccidentID, accidents.VoteType(request.VoteType))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if !ok {
		api.NotFoundResponse(w, r, errors.New("accident not found or expired"))
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": envelope{"voted": true}}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) deleteAccident(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id := p.ByName("id")
	requesterID := r.URL.Query().Get("reporter_id")

	ok, err := api.accidents.Delete(id, requesterID)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if !ok {
		// ownership mismatch answers exactly like a missing id
		api.NotFoundResponse(w, r, errors.New("accident not found"))
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": envelope{"deleted": true}}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) accidentStats(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	stats, err := api.accidents.Stats()
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": stats}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
