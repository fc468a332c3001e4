// Package middleware provides reusable HTTP middleware for the API server.
package middleware

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/labstack/gommon/bytes"
	"github.com/labstack/gommon/log"
)

// wrappedWriter captures the status code and body size written by downstream handlers.
type wrappedWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *wrappedWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *wrappedWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logger logs method, path, status code, response size and duration for every request.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &wrappedWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		line := "%s %s %d %s %s reqid=%s"
		args := []interface{}{r.Method, r.URL.Path, ww.statusCode, bytes.Format(ww.written),
			time.Since(start), chiMiddleware.GetReqID(r.Context())}
		if ww.statusCode >= http.StatusInternalServerError {
			log.Errorf(line, args...)
			return
		}
		log.Infof(line, args...)
	})
}
