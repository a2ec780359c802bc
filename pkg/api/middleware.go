package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bibnet/pkg/observability"
)

// observe logs every request and reports it to the HTTP hooks. Panics are
// reported as errors and re-raised for the recoverer further out.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		ctx := r.Context()
		start := time.Now()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			if rec := recover(); rec != nil {
				hooks.OnError(ctx, r.Method, r.URL.Path, fmt.Errorf("panic: %v", rec))
				panic(rec)
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			dur := time.Since(start)
			hooks.OnResponse(ctx, r.Method, r.URL.Path, status, dur)
			s.logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", dur.Round(time.Microsecond),
				"request_id", middleware.GetReqID(ctx))
		}()
		next.ServeHTTP(ww, r)
	})
}
