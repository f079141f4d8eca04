package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/verte-zerg/readquiz/internal/log"
)

const contentTypeJSON = "application/json"

type errorBody struct {
	Error string `json:"error"`
}

// writeJSON encodes body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn("encode response", zap.Error(err))
	}
}

func ok(w http.ResponseWriter, body any) {
	writeJSON(w, http.StatusOK, body)
}

func created(w http.ResponseWriter, body any) {
	writeJSON(w, http.StatusCreated, body)
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	log.Warn(http.StatusText(http.StatusBadRequest),
		zap.Error(err),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
	)
	writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
}

func notFound(w http.ResponseWriter, r *http.Request, err error) {
	log.Debug(http.StatusText(http.StatusNotFound),
		zap.Error(err),
		zap.String("request.uri", r.RequestURI),
	)
	writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error(http.StatusText(http.StatusInternalServerError),
		zap.Error(err),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
	)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
}
