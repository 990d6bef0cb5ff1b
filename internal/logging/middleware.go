package logging

import (
	"net/http"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware attaches a fresh LogData to every request and emits one log
// line when the request finishes. Requests served by LoggingWrapper log
// themselves and are skipped here.
func Middleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logData := NewLogData(logger)

			requestID := req.Header.Get(RequestIDHeader)
			if requestID == "" {
				if id, err := uuid.NewV4(); err == nil {
					requestID = id.String()
				}
			}
			w.Header().Set(RequestIDHeader, requestID)
			logData.AddData("requestID", requestID)
			logData.AddData("method", req.Method)

			routeName := req.URL.Path
			if route := mux.CurrentRoute(req); route != nil {
				if name := route.GetName(); name != "" {
					logData.AddData("path", req.URL.Path)
					next.ServeHTTP(w, req.WithContext(WithLogData(req.Context(), logData)))
					return
				}
				if template, err := route.GetPathTemplate(); err == nil {
					routeName = template
				}
			}
			logData.AddData("path", req.URL.Path)

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			endTimer := logData.AddTiming("duration")
			next.ServeHTTP(recorder, req.WithContext(WithLogData(req.Context(), logData)))
			endTimer()

			logData.AddData("status", recorder.status)
			entry := logData.Log().WithField("route", routeName)
			if recorder.status >= http.StatusInternalServerError {
				entry.Error("Handler.Request.Error")
				return
			}
			entry.Info("Handler.Request.Complete")
		})
	}
}
