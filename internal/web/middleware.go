package web

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// requestLogger logs one line per request and feeds the latency histogram.
// Request bodies are never logged; they can contain patient identifiers.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("X-Request-Id", requestID)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		s.metrics.ObserveRequestLatency(r.URL.Path, strconv.Itoa(ww.Status()), elapsed.Seconds())

		log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", elapsed).
			Int("bytes", ww.BytesWritten()).
			Msg("http request")
	})
}
