package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Daskott/addressbook/server/directory"
	"github.com/Daskott/addressbook/server/models"
	"github.com/VictoriaMetrics/metrics"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type TestDataProvider []struct {
	description  string
	method       string
	path         string
	body         string
	expectedCode int
	expectedBody string
}

func newTestRouter(t *testing.T, contacts ...models.Contact) *mux.Router {
	t.Helper()

	logg := zap.NewNop().Sugar()
	store := directory.NewMemoryStore(contacts...)

	router, err := NewRouter(RouterDependencies{
		Contacts: directory.NewService(store, logg),
		Health:   store,
		Metrics:  metrics.NewSet(),
		Logg:     logg,
	})
	require.Nil(t, err)

	return router
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestContactRoutes(t *testing.T) {
	seed := []models.Contact{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace"},
		{ID: 2, FirstName: "Alan", LastName: "Turing", Address: &models.Address{
			Country: "UK", State: "England", City: "London", Address: "2 Hampton Rd", PostalCode: "SW1",
		}},
	}

	cases := TestDataProvider{
		{
			description:  "Should list all contacts",
			method:       "GET",
			path:         "/api/v1/contacts",
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":1,"firstName":"Ada","lastName":"Lovelace","address":null},` +
				`{"id":2,"firstName":"Alan","lastName":"Turing","address":{"country":"UK","state":"England","city":"London","address":"2 Hampton Rd","postalCode":"SW1"}}]`,
		},
		{
			description:  "Should get contact by id",
			method:       "GET",
			path:         "/api/v1/contacts/1",
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"firstName":"Ada","lastName":"Lovelace","address":null}`,
		},
		{
			description:  "Should respond with null for a missing contact",
			method:       "GET",
			path:         "/api/v1/contacts/99",
			expectedCode: http.StatusOK,
			expectedBody: `null`,
		},
		{
			description:  "Should respond with null when updating a missing contact",
			method:       "PUT",
			path:         "/api/v1/contacts/99",
			body:         `{"firstName":"X","lastName":"Y"}`,
			expectedCode: http.StatusOK,
			expectedBody: `null`,
		},
		{
			description:  "Should fail with server error when deleting a missing contact",
			method:       "DELETE",
			path:         "/api/v1/contacts/99",
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"errors":["No contact found!"],"success":false}`,
		},
		{
			description:  "Should reject malformed json",
			method:       "POST",
			path:         "/api/v1/contacts",
			body:         `{"firstName":`,
			expectedCode: http.StatusBadRequest,
		},
		{
			description:  "Should not route non numeric ids",
			method:       "GET",
			path:         "/api/v1/contacts/abc",
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			rr := doRequest(newTestRouter(t, seed...), tc.method, tc.path, tc.body)

			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestListContactsWhenEmpty(t *testing.T) {
	rr := doRequest(newTestRouter(t), "GET", "/api/v1/contacts", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestCreateUpdateDeleteContact(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(router, "POST", "/api/v1/contacts",
		`{"id":42,"firstName":"Grace","lastName":"Hopper","address":{"country":"US","state":"NY","city":"New York","address":"1 Main St","postalCode":"10001"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	created := models.Contact{}
	require.Nil(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "Grace", created.FirstName)

	rr = doRequest(router, "PUT", "/api/v1/contacts/1",
		`{"firstName":"Grace B.","lastName":"Hopper","address":{"country":"CA","state":"ON","city":"Toronto","address":"2 King St","postalCode":"00000"}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"id":1,"firstName":"Grace B.","lastName":"Hopper","address":{"country":"CA","state":"ON","city":"Toronto","address":"2 King St","postalCode":"10001"}}`,
		rr.Body.String())

	rr = doRequest(router, "DELETE", "/api/v1/contacts/1", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, CONTACT_DELETED_MSG, rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")

	rr = doRequest(router, "GET", "/api/v1/contacts/1", "")
	assert.JSONEq(t, `null`, rr.Body.String())
}
