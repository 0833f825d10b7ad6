package dispatch

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// DispatchRequest carries everything needed to route an alert
type DispatchRequest struct {
	Patient    *types.PatientData    `json:"patient"`
	Analysis   *types.AnalysisResult `json:"analysis"`
	HospitalID string                `json:"hospital_id"`
}

// AssignRequest names the doctor taking ownership of an alert
type AssignRequest struct {
	DoctorID string `json:"doctor_id"`
}

// TriageStatusRequest transitions a persisted triage record
type TriageStatusRequest struct {
	Status   string `json:"status"`
	DoctorID string `json:"doctor_id,omitempty"`
}

// setupRoutes configures HTTP routes for the dispatch service
func (s *Service) setupRoutes(router *mux.Router) {
	router.Use(s.metrics.HTTPMiddleware)
	router.Use(s.loggingMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Triage routes
	api.HandleFunc("/triage/analyze", s.analyzeHandler).Methods("POST")
	api.HandleFunc("/triage/history/{patientId}", s.historyHandler).Methods("GET")
	api.HandleFunc("/triage/pending", s.pendingHandler).Methods("GET")
	api.HandleFunc("/triage/{id}/status", s.updateTriageStatusHandler).Methods("PATCH")

	// Hospital routes
	api.HandleFunc("/hospitals", s.hospitalsHandler).Methods("GET")
	api.HandleFunc("/hospitals/rank", s.rankHandler).Methods("GET")

	// Dispatch and alert routes
	api.HandleFunc("/dispatch", s.dispatchHandler).Methods("POST")
	api.HandleFunc("/hospitals/{hospitalId}/alerts", s.alertsHandler).Methods("GET")
	api.HandleFunc("/hospitals/{hospitalId}/stats", s.statsHandler).Methods("GET")
	api.HandleFunc("/alerts/{id}/assign", s.assignHandler).Methods("POST")
	api.HandleFunc("/alerts/{id}/resolve", s.resolveHandler).Methods("POST")

	// Admin routes require an administrator token
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.validator.Middleware(types.RoleAdministrator))
	admin.HandleFunc("/analytics", s.analyticsHandler).Methods("GET")

	if s.config.Monitoring.Enabled {
		router.Handle(s.config.Monitoring.MetricsPath, s.metrics.Handler()).Methods("GET")
		router.HandleFunc(s.config.Monitoring.HealthPath, s.health.HTTPHandler()).Methods("GET")
	}

	s.logger.Info("Dispatch service routes configured")
}

// analyzeHandler runs classification for a patient intake
func (s *Service) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	var patient types.PatientData
	if err := json.NewDecoder(r.Body).Decode(&patient); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	analysis, err := s.Analyze(r.Context(), &patient)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Analysis failed", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, analysis)
}

// rankHandler ranks the hospital catalog for a department
func (s *Service) rankHandler(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")
	s.writeJSONResponse(w, http.StatusOK, s.RankHospitals(department))
}

// hospitalsHandler lists the hospital catalog
func (s *Service) hospitalsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, s.catalog.Hospitals())
}

// dispatchHandler routes an alert to a hospital
func (s *Service) dispatchHandler(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	alert, err := s.Dispatch(req.Analysis, req.Patient, req.HospitalID)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Dispatch failed", err)
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, alert)
}

// alertsHandler lists a hospital's alert queue
func (s *Service) alertsHandler(w http.ResponseWriter, r *http.Request) {
	hospitalID := mux.Vars(r)["hospitalId"]
	s.writeJSONResponse(w, http.StatusOK, s.AlertsForHospital(hospitalID))
}

// statsHandler returns the dashboard stats projection for a hospital
func (s *Service) statsHandler(w http.ResponseWriter, r *http.Request) {
	hospitalID := mux.Vars(r)["hospitalId"]
	s.writeJSONResponse(w, http.StatusOK, s.Stats(hospitalID))
}

// assignHandler assigns a doctor to a pending alert
func (s *Service) assignHandler(w http.ResponseWriter, r *http.Request) {
	alertID := mux.Vars(r)["id"]

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.DoctorID == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "doctor_id is required", nil)
		return
	}

	if err := s.AssignDoctor(alertID, req.DoctorID); err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to assign doctor", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Doctor assigned successfully"})
}

// resolveHandler closes out an alert
func (s *Service) resolveHandler(w http.ResponseWriter, r *http.Request) {
	alertID := mux.Vars(r)["id"]

	if err := s.ResolveAlert(alertID); err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to resolve alert", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Alert resolved successfully"})
}

// historyHandler returns a patient's triage history
func (s *Service) historyHandler(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patientId"]

	records, err := s.History(r.Context(), patientID)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to get triage history", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, records)
}

// pendingHandler returns the persisted pending queue, urgent first
func (s *Service) pendingHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeErrorResponse(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = parsed
	}

	records, err := s.PendingTriages(r.Context(), limit)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to get pending triages", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, records)
}

// updateTriageStatusHandler transitions a persisted triage record
func (s *Service) updateTriageStatusHandler(w http.ResponseWriter, r *http.Request) {
	recordID := mux.Vars(r)["id"]

	var req TriageStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := s.UpdateTriageStatus(r.Context(), recordID, req.Status, req.DoctorID); err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to update triage status", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Status updated successfully", "triage_id": recordID})
}

// analyticsHandler returns aggregate triage analytics
func (s *Service) analyticsHandler(w http.ResponseWriter, r *http.Request) {
	userID := "anonymous"
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		userID = claims.UserID
	}

	analytics, err := s.Analytics(r.Context())
	s.logger.Audit(userID, "view_analytics", "triage_analytics", err == nil, nil)
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to get analytics", err)
		return
	}

	response := map[string]interface{}{
		"analytics":    analytics,
		"generated_at": time.Now().UTC(),
	}
	s.writeJSONResponse(w, http.StatusOK, response)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware emits one structured log line per request
func (s *Service) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.HTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start).Milliseconds())
	})
}

// statusForError maps domain error types onto HTTP status codes
func statusForError(err error) int {
	var triageErr *types.TriageError
	if !errors.As(err, &triageErr) {
		return http.StatusInternalServerError
	}

	switch triageErr.Type {
	case types.ErrorTypeValidation:
		return http.StatusBadRequest
	case types.ErrorTypeNotFound:
		return http.StatusNotFound
	case types.ErrorTypeConflict:
		return http.StatusConflict
	case types.ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case types.ErrorTypeAuthorization:
		return http.StatusForbidden
	case types.ErrorTypeClassification, types.ErrorTypeExternal:
		return http.StatusBadGateway
	case types.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONResponse writes a JSON response
func (s *Service) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse writes an error response
func (s *Service) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	s.logger.Errorf("%s: %v", message, err)

	response := map[string]interface{}{
		"error":  message,
		"status": statusCode,
	}
	if err != nil {
		response["details"] = err.Error()
	}

	s.writeJSONResponse(w, statusCode, response)
}
