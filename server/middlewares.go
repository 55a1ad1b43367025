package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Daskott/addressbook/colors"
	"github.com/Daskott/addressbook/server/auth"
	"github.com/Daskott/addressbook/server/auth/key"
	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const REQUEST_ID_HEADER = "X-Request-Id"

type RequestContextKey string

type DecodedJWT struct {
	Claims   *auth.AddressBookTokenClaims
	ErrorMsg string
}

type ResponseWriterWithStatus struct {
	http.ResponseWriter
	Status int
}

func (r *ResponseWriterWithStatus) WriteHeader(status int) {
	r.Status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestIDMiddleware makes sure every request carries an id, reusing the caller's if provided
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(REQUEST_ID_HEADER)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(REQUEST_ID_HEADER, requestID)

		ctx := context.WithValue(r.Context(), RequestContextKey("requestID"), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logg *zap.SugaredLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			responseWriter := &ResponseWriterWithStatus{
				ResponseWriter: w,
				Status:         http.StatusOK,
			}

			defer func() {
				responseStatus := colors.Green(responseWriter.Status)
				if responseWriter.Status >= http.StatusBadRequest {
					responseStatus = colors.Red(responseWriter.Status)
				}

				logg.Infof("%v %v %v %v %v",
					r.Method,
					r.RequestURI,
					responseStatus,
					colors.Yellow(fmt.Sprintf("[%v]", time.Since(start))),
					r.Context().Value(RequestContextKey("requestID")))
			}()

			next.ServeHTTP(responseWriter, r)
		})
	}
}

// metricsMiddleware counts requests & records their duration, labelled by route name
func metricsMiddleware(set *metrics.Set) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			responseWriter := &ResponseWriterWithStatus{
				ResponseWriter: w,
				Status:         http.StatusOK,
			}

			next.ServeHTTP(responseWriter, r)

			routeName := "unknown"
			if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
				routeName = route.GetName()
			}

			labels := fmt.Sprintf(`{method="%s",route="%s",status="%d"}`, r.Method, routeName, responseWriter.Status)
			set.GetOrCreateCounter("http_requests_total" + labels).Inc()
			set.GetOrCreateHistogram("http_request_duration_seconds" + labels).UpdateDuration(start)
		})
	}
}

// protectedRouteMiddleware only lets through requests with a valid token that can write contacts
func protectedRouteMiddleware(keyPair *key.KeyPair, logg *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decodedJWT := decodeAndVerifyAuthHeader(r.Header.Get("Authorization"), keyPair)
			if decodedJWT.ErrorMsg != "" {
				writeResponse(w, logg, ResponsePayload{Errors: []string{decodedJWT.ErrorMsg}}, http.StatusUnauthorized)
				return
			}

			if !decodedJWT.Claims.HasScope(auth.WRITE_CONTACTS_SCOPE) {
				writeResponse(w, logg, ResponsePayload{Errors: []string{"action is forbidden"}}, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), RequestContextKey("decodedJWT"), decodedJWT)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
