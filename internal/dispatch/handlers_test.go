package dispatch

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

func newTestRouter(service *Service) *mux.Router {
	router := mux.NewRouter()
	service.setupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeHandler(t *testing.T) {
	mockClassifier := new(MockClassifier)
	service := newTestService(mockClassifier, new(MockRoster))
	router := newTestRouter(service)

	expected := testAnalysis(types.RiskHigh)
	mockClassifier.On("Classify", mock.Anything, mock.Anything).Return(expected, nil)

	rec := doJSON(t, router, "POST", "/api/v1/triage/analyze", testPatient(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis types.AnalysisResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&analysis))
	assert.Equal(t, types.RiskHigh, analysis.RiskLevel)
	assert.Equal(t, "Cardiology", analysis.Department.Primary)
}

func TestAnalyzeHandler_InvalidBody(t *testing.T) {
	service := newTestService(new(MockClassifier), new(MockRoster))
	router := newTestRouter(service)

	req := httptest.NewRequest("POST", "/api/v1/triage/analyze", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler_ClassifierFailure(t *testing.T) {
	mockClassifier := new(MockClassifier)
	service := newTestService(mockClassifier, new(MockRoster))
	router := newTestRouter(service)

	mockClassifier.On("Classify", mock.Anything, mock.Anything).
		Return(nil, types.NewClassificationError(types.ErrCodeClassificationFailed, "analysis failed - check classifier connectivity", nil))

	rec := doJSON(t, router, "POST", "/api/v1/triage/analyze", testPatient(), nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Contains(t, response["details"], "classifier connectivity")
}

func TestHospitalsHandler(t *testing.T) {
	service := newTestService(new(MockClassifier), new(MockRoster))
	router := newTestRouter(service)

	rec := doJSON(t, router, "GET", "/api/v1/hospitals", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var hospitals []types.Hospital
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&hospitals))
	assert.Len(t, hospitals, 4)
}

func TestRankHandler(t *testing.T) {
	service := newTestService(new(MockClassifier), new(MockRoster))
	router := newTestRouter(service)

	rec := doJSON(t, router, "GET", "/api/v1/hospitals/rank?department=Cardiology", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var ranked []types.RankedHospital
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ranked))
	require.Len(t, ranked, 4)
	assert.True(t, ranked[0].Recommended)
}

func TestDispatchHandler(t *testing.T) {
	service := newTestService(new(MockClassifier), new(MockRoster))
	router := newTestRouter(service)

	req := DispatchRequest{
		Patient:    testPatient(),
		Analysis:   testAnalysis(types.RiskHigh),
		HospitalID: "HOSP-001",
	}

	rec := doJSON(t, router, "POST", "/api/v1/dispatch", req, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var alert types.Alert
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&alert))
	assert.Equal(t, "HOSP-001", alert.TargetHospitalID)
	assert.Equal(t, types.AlertPending, alert.Status)

	// The alert shows up on the hospital queue endpoint.
	rec = doJSON(t, router, "GET", "/api/v1/hospitals/HOSP-001/alerts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var alerts []types.Alert
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, alert.ID, alerts[0].ID)
}

func TestDispatchHandler_UnknownHospital(t *testing.T) {
	service := newTestService(new(MockClassifier), new(MockRoster))
	router := newTestRouter(service)

	req := DispatchRequest{
		Patient:    testPatient(),
		Analysis:   testAnalysis(types.RiskHigh),
		HospitalID: "HOSP-999",
	}

	rec := doJSON(t, router, "POST", "/api/v1/dispatch", req, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignAndResolveHandlers(t *testing.T) {
	mockRoster := new(MockRoster)
	service := newTestService(new(MockClassifier), mockRoster)
	router := newTestRouter(service)

	alert, err := service.Dispatch(testAnalysis(types.RiskHigh), testPatient(), "HOSP-001")
	require.NoError(t, err)

	mockRoster.On("Assign", "d1").Return(nil)
	mockRoster.On("Release", "d1").Return(nil)

	rec := doJSON(t, router, "POST", "/api/v1/alerts/"+alert.ID+"/assign", AssignRequest{DoctorID: "d1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "POST", "/api/v1/alerts/"+alert.ID+"/resolve", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Resolving again conflicts.
	rec = doJSON(t, router, "POST", "/api/v1/alerts/"+alert.ID+"/resolve", nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAssignHandler_MissingDoctorID(t *testing.T) {
	service := newTestService(new(MockClassifier), new(MockRoster))
	router := newTestRouter(service)

	rec := doJSON(t, router, "POST", "/api/v1/alerts/some-alert/assign", AssignRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsHandler(t *testing.T) {
	service := newTestService(new(MockClassifier), new(MockRoster))
	router := newTestRouter(service)

	for _, level := range []types.RiskLevel{types.RiskHigh, types.RiskHigh, types.RiskMedium, types.RiskLow} {
		_, err := service.Dispatch(testAnalysis(level), testPatient(), "HOSP-002")
		require.NoError(t, err)
	}

	rec := doJSON(t, router, "GET", "/api/v1/hospitals/HOSP-002/stats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats types.DashboardStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 2, stats.Queue.High)
	assert.Equal(t, 4, stats.Queue.Total)
}

func TestAnalyticsHandler_RequiresAdminToken(t *testing.T) {
	service := newTestService(new(MockClassifier), new(MockRoster))
	router := newTestRouter(service)

	// No token.
	rec := doJSON(t, router, "GET", "/api/v1/admin/analytics", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong role.
	staffToken, err := service.validator.GenerateToken(&types.UserClaims{
		UserID: "u1", Username: "nurse", Role: types.RoleHospitalStaff,
	})
	require.NoError(t, err)

	rec = doJSON(t, router, "GET", "/api/v1/admin/analytics", nil, map[string]string{
		"Authorization": "Bearer " + staffToken.AccessToken,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin token reaches the handler; without a database the endpoint
	// reports unavailable rather than unauthorized.
	adminToken, err := service.validator.GenerateToken(&types.UserClaims{
		UserID: "u2", Username: "admin", Role: types.RoleAdministrator,
	})
	require.NoError(t, err)

	rec = doJSON(t, router, "GET", "/api/v1/admin/analytics", nil, map[string]string{
		"Authorization": "Bearer " + adminToken.AccessToken,
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUpdateTriageStatusHandler(t *testing.T) {
	mockRepo := new(MockTriageRepository)
	service := newTestService(new(MockClassifier), new(MockRoster))
	service.repository = mockRepo
	router := newTestRouter(service)

	mockRepo.On("UpdateStatus", mock.Anything, "rec-1", "completed", "d1").Return(nil)

	rec := doJSON(t, router, "PATCH", "/api/v1/triage/rec-1/status", TriageStatusRequest{Status: "completed", DoctorID: "d1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "rec-1", response["triage_id"])
	mockRepo.AssertExpectations(t)
}

func TestUpdateTriageStatusHandler_UnknownRecord(t *testing.T) {
	mockRepo := new(MockTriageRepository)
	service := newTestService(new(MockClassifier), new(MockRoster))
	service.repository = mockRepo
	router := newTestRouter(service)

	mockRepo.On("UpdateStatus", mock.Anything, "missing", "completed", "").
		Return(types.NewNotFoundError(types.ErrCodeNotFound, "triage record not found: missing"))

	rec := doJSON(t, router, "PATCH", "/api/v1/triage/missing/status", TriageStatusRequest{Status: "completed"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTriageStatusHandler_InvalidStatus(t *testing.T) {
	service := newTestService(new(MockClassifier), new(MockRoster))
	service.repository = new(MockTriageRepository)
	router := newTestRouter(service)

	rec := doJSON(t, router, "PATCH", "/api/v1/triage/rec-1/status", TriageStatusRequest{Status: "escalated"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPendingHandler_InvalidLimit(t *testing.T) {
	service := newTestService(new(MockClassifier), new(MockRoster))
	router := newTestRouter(service)

	rec := doJSON(t, router, "GET", "/api/v1/triage/pending?limit=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
