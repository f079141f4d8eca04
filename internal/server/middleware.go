package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/readquiz/internal/log"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("request.method", r.Method),
			zap.String("request.uri", r.RequestURI),
			zap.String("client_remote_addr", r.RemoteAddr),
			zap.Int("response.status_code", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
