package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Daskott/addressbook/server/auth/key"
	"github.com/Daskott/addressbook/server/directory"
	"github.com/VictoriaMetrics/metrics"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type RouterDependencies struct {
	Contacts *directory.Service
	Health   HealthChecker
	Metrics  *metrics.Set

	// KeyPair turns on auth for routes that change contacts, when set
	KeyPair *key.KeyPair
	Logg    *zap.SugaredLogger
}

// NewRouter builds the route table for the server
func NewRouter(deps RouterDependencies) (*mux.Router, error) {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, loggingMiddleware(deps.Logg), metricsMiddleware(deps.Metrics))

	router.HandleFunc("/healthz", healthHandler(deps.Health, deps.Logg)).Methods("GET").Name("health")
	router.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		deps.Metrics.WritePrometheus(rw)
		metrics.WriteProcessMetrics(rw)
	}).Methods("GET").Name("metrics")

	handlers := &contactHandlers{contacts: deps.Contacts, logg: deps.Logg}
	protected := func(handler http.HandlerFunc) http.Handler { return handler }

	api := router.PathPrefix("/api/v1").Subrouter()

	if deps.KeyPair != nil {
		jwksHandler, err := newJWKSHandler(deps.KeyPair)
		if err != nil {
			return nil, err
		}
		api.HandleFunc("/jwks", jwksHandler).Methods("GET").Name("jwks")

		protected = func(handler http.HandlerFunc) http.Handler {
			return protectedRouteMiddleware(deps.KeyPair, deps.Logg)(handler)
		}
	}

	api.HandleFunc("/contacts", handlers.listContacts).Methods("GET").Name("listContacts")
	api.HandleFunc("/contacts/{id:[0-9]+}", handlers.getContact).Methods("GET").Name("getContact")
	api.Handle("/contacts", protected(handlers.createContact)).Methods("POST").Name("createContact")
	api.Handle("/contacts/{id:[0-9]+}", protected(handlers.updateContact)).Methods("PUT").Name("updateContact")
	api.Handle("/contacts/{id:[0-9]+}", protected(handlers.deleteContact)).Methods("DELETE").Name("deleteContact")

	return router, nil
}

func healthHandler(health HealthChecker, logg *zap.SugaredLogger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if health != nil {
			if err := health.Ping(ctx); err != nil {
				logg.Errorf("health probe failed: %v", err)
				writeJSON(rw, map[string]string{"status": "degraded"}, http.StatusServiceUnavailable)
				return
			}
		}

		writeJSON(rw, map[string]string{"status": "ok"}, http.StatusOK)
	}
}

func newJWKSHandler(keyPair *key.KeyPair) (http.HandlerFunc, error) {
	jwk, err := keyPair.JWK()
	if err != nil {
		return nil, err
	}
	jwks := key.ExportJWKAsJWKS(jwk)

	return func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, jwks, http.StatusOK)
	}, nil
}
