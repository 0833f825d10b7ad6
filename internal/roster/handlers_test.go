package roster

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balaji0322/smart-ai-triage/pkg/config"
	"github.com/balaji0322/smart-ai-triage/pkg/logger"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

func newTestRouter() *mux.Router {
	service := New(&config.Config{}, logger.New("error"))
	router := mux.NewRouter()
	service.setupRoutes(router)
	return router
}

func doRequest(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDoctorsEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "GET", "/api/v1/doctors", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doctors []types.Doctor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doctors))
	assert.Len(t, doctors, 5)
}

func TestGetDoctorEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "GET", "/api/v1/doctors/d1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doctor types.Doctor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doctor))
	assert.Equal(t, "Dr. Sarah Wilson", doctor.Name)

	rec = doRequest(t, router, "GET", "/api/v1/doctors/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignReleaseEndpoints(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "POST", "/api/v1/doctors/d1/assign", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Assigning a busy doctor conflicts.
	rec = doRequest(t, router, "POST", "/api/v1/doctors/d1/assign", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, "POST", "/api/v1/doctors/d1/release", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, "POST", "/api/v1/doctors/d1/assign", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetDoctorStatusEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "PUT", "/api/v1/doctors/d1/status", StatusRequest{Status: "Offline"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, "PUT", "/api/v1/doctors/d1/status", StatusRequest{Status: "Vacation"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAmbulanceEndpoints(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "GET", "/api/v1/ambulances", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var units []types.Ambulance
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&units))
	assert.Len(t, units, 4)

	rec = doRequest(t, router, "PUT", "/api/v1/ambulances/a2/status", StatusRequest{Status: "DISPATCHED"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, "PUT", "/api/v1/ambulances/a2/status", StatusRequest{Status: "PARKED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
