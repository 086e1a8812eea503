package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

const (
	defaultHistoryLimit = 10
	defaultPopularLimit = 5
)

func (api *safeRoutesAPI) recentHistory(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	limit, ok := api.parseLimit(w, r, defaultHistoryLimit)
	if !ok {
		return
	}

	entries, err := api.history.Recent(limit)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{
		"data":  entries,
		"count": len(entries),
	}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) popularRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	limit, ok := api.parseLimit(w, r, defaultPopularLimit)
	if !ok {
		return
	}

	popular, err := api.history.Popular(limit)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": popular}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) historyStats(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()
	start := query.Get("start")
	end := query.Get("end")
	if start == "" || end == "" {
		api.BadRequestResponse(w, r, errors.New("start and end are required"))
		return
	}

	stats, err := api.history.StatsFor(start, end)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": stats}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) deleteHistoryEntry(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	ok, err := api.history.Delete(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if !ok {
		api.NotFoundResponse(w, r, errors.New("history entry not found"))
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": envelope{"deleted": true}}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) clearHistory(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.history.Clear(); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": envelope{"cleared": true}}, make(http.Header)); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *safeRoutesAPI) parseLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		api.BadRequestResponse(w, r, errors.New("limit must be a positive int"))
		return 0, false
	}
	return limit, true
}
