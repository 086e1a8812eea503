package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/saferoutes/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]interface{}

func (api *safeRoutesAPI) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)
	return nil
}

func (api *safeRoutesAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, code string, message interface{}) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = fmt.Sprintf("%v", message)

	js, err := json.Marshal(resp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)
}

func (api *safeRoutesAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, "bad_request", err.Error())
}

func (api *safeRoutesAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, "not_found", err.Error())
}

func (api *safeRoutesAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal server error", zap.Error(err),
		zap.String("method", r.Method), zap.String("url", r.URL.String()))
	api.errorResponse(w, r, http.StatusInternalServerError, "internal_error", util.MessageInternalServerError)
}

// getStatusCode maps domain error codes onto HTTP responses.
func (api *safeRoutesAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *util.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Code() {
		case util.ErrBadParamInput:
			api.BadRequestResponse(w, r, err)
			return
		case util.ErrNotFound:
			api.NotFoundResponse(w, r, err)
			return
		case util.ErrConflict:
			api.errorResponse(w, r, http.StatusConflict, "conflict", err.Error())
			return
		}
	}
	api.ServerErrorResponse(w, r, err)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}
