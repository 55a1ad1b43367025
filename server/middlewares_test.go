package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Daskott/addressbook/server/auth"
	"github.com/Daskott/addressbook/server/auth/key"
	"github.com/Daskott/addressbook/server/directory"
	"github.com/VictoriaMetrics/metrics"
	"github.com/golang-jwt/jwt"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type unhealthyStore struct{}

func (unhealthyStore) Ping(context.Context) error { return errors.New("database is locked") }

func newTestKeyPair(t *testing.T) *key.KeyPair {
	t.Helper()

	privateKeyPem, err := key.NewRSAPrivateKeyPem(2048)
	require.Nil(t, err)

	keyPair, err := key.NewKeyPairFromRSAPrivateKeyPem(privateKeyPem)
	require.Nil(t, err)

	return keyPair
}

func newProtectedTestRouter(t *testing.T, keyPair *key.KeyPair) *mux.Router {
	t.Helper()

	logg := zap.NewNop().Sugar()
	store := directory.NewMemoryStore()

	router, err := NewRouter(RouterDependencies{
		Contacts: directory.NewService(store, logg),
		Health:   store,
		Metrics:  metrics.NewSet(),
		KeyPair:  keyPair,
		Logg:     logg,
	})
	require.Nil(t, err)

	return router
}

func TestProtectedRoutes(t *testing.T) {
	keyPair := newTestKeyPair(t)
	router := newProtectedTestRouter(t, keyPair)

	writeToken, err := auth.NewAccessToken("ops", time.Hour, keyPair)
	require.Nil(t, err)

	readOnlyToken, err := auth.EncodeJWT(auth.AddressBookTokenClaims{
		Scope: "contacts:read",
		StandardClaims: jwt.StandardClaims{
			Issuer:    auth.ISSUER,
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}, keyPair)
	require.Nil(t, err)

	cases := []struct {
		description  string
		method       string
		path         string
		authHeader   string
		expectedCode int
	}{
		{
			description:  "Should allow reads without a token",
			method:       "GET",
			path:         "/api/v1/contacts",
			expectedCode: http.StatusOK,
		},
		{
			description:  "Should reject writes without a token",
			method:       "POST",
			path:         "/api/v1/contacts",
			expectedCode: http.StatusUnauthorized,
		},
		{
			description:  "Should reject writes with an invalid token",
			method:       "POST",
			path:         "/api/v1/contacts",
			authHeader:   "Bearer not-a-token",
			expectedCode: http.StatusUnauthorized,
		},
		{
			description:  "Should forbid writes without the write scope",
			method:       "DELETE",
			path:         "/api/v1/contacts/1",
			authHeader:   "Bearer " + readOnlyToken,
			expectedCode: http.StatusForbidden,
		},
		{
			description:  "Should allow writes with the write scope",
			method:       "POST",
			path:         "/api/v1/contacts",
			authHeader:   "Bearer " + writeToken,
			expectedCode: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{"firstName":"Ada"}`))
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func TestJWKSRoute(t *testing.T) {
	keyPair := newTestKeyPair(t)

	rr := doRequest(newProtectedTestRouter(t, keyPair), "GET", "/api/v1/jwks", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), keyPair.Kid)
	assert.Contains(t, rr.Body.String(), `"RS256"`)
}

func TestJWKSRouteWithoutAuth(t *testing.T) {
	rr := doRequest(newTestRouter(t), "GET", "/api/v1/jwks", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthRoute(t *testing.T) {
	rr := doRequest(newTestRouter(t), "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	logg := zap.NewNop().Sugar()
	router, err := NewRouter(RouterDependencies{
		Contacts: directory.NewService(directory.NewMemoryStore(), logg),
		Health:   unhealthyStore{},
		Metrics:  metrics.NewSet(),
		Logg:     logg,
	})
	require.Nil(t, err)

	rr = doRequest(router, "GET", "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"degraded"}`, rr.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	router := newTestRouter(t)

	doRequest(router, "GET", "/api/v1/contacts", "")
	doRequest(router, "GET", "/api/v1/contacts", "")

	rr := doRequest(router, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `http_requests_total{method="GET",route="listContacts",status="200"} 2`)
	assert.Contains(t, rr.Body.String(), `http_request_duration_seconds_bucket{method="GET",route="listContacts",status="200"`)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(router, "GET", "/api/v1/contacts", "")
	assert.NotEmpty(t, rr.Header().Get(REQUEST_ID_HEADER))

	req := httptest.NewRequest("GET", "/api/v1/contacts", nil)
	req.Header.Set(REQUEST_ID_HEADER, "req-123")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "req-123", rr.Header().Get(REQUEST_ID_HEADER))
}
