package roster

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// StatusRequest carries a status transition for a doctor or ambulance
type StatusRequest struct {
	Status string `json:"status"`
}

// setupRoutes configures HTTP routes for the roster service
func (s *Service) setupRoutes(router *mux.Router) {
	router.Use(s.metrics.HTTPMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Doctor routes
	api.HandleFunc("/doctors", s.doctorsHandler).Methods("GET")
	api.HandleFunc("/doctors/{id}", s.getDoctorHandler).Methods("GET")
	api.HandleFunc("/doctors/{id}/status", s.setDoctorStatusHandler).Methods("PUT")
	api.HandleFunc("/doctors/{id}/assign", s.assignDoctorHandler).Methods("POST")
	api.HandleFunc("/doctors/{id}/release", s.releaseDoctorHandler).Methods("POST")

	// Ambulance routes
	api.HandleFunc("/ambulances", s.ambulancesHandler).Methods("GET")
	api.HandleFunc("/ambulances/{id}/status", s.setAmbulanceStatusHandler).Methods("PUT")

	// Health check
	api.HandleFunc("/health", s.healthHandler).Methods("GET")

	if s.config.Monitoring.Enabled {
		router.Handle(s.config.Monitoring.MetricsPath, s.metrics.Handler()).Methods("GET")
	}

	s.logger.Info("Roster service routes configured")
}

// doctorsHandler lists the doctor roster
func (s *Service) doctorsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, s.Doctors())
}

// getDoctorHandler returns a single doctor
func (s *Service) getDoctorHandler(w http.ResponseWriter, r *http.Request) {
	doctor, err := s.GetDoctor(mux.Vars(r)["id"])
	if err != nil {
		s.writeErrorResponse(w, statusForError(err), "Doctor not found", err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, doctor)
}

// setDoctorStatusHandler applies a manual doctor status override
func (s *Service) setDoctorStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := s.SetDoctorStatus(mux.Vars(r)["id"], types.DoctorStatus(req.Status)); err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to update doctor status", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Doctor status updated"})
}

// assignDoctorHandler flips an available doctor to Busy
func (s *Service) assignDoctorHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Assign(mux.Vars(r)["id"]); err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to assign doctor", err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Doctor assigned"})
}

// releaseDoctorHandler returns a doctor to Available
func (s *Service) releaseDoctorHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Release(mux.Vars(r)["id"]); err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to release doctor", err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Doctor released"})
}

// ambulancesHandler lists the fleet roster
func (s *Service) ambulancesHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, s.Ambulances())
}

// setAmbulanceStatusHandler transitions a fleet unit
func (s *Service) setAmbulanceStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := s.SetAmbulanceStatus(mux.Vars(r)["id"], types.AmbulanceStatus(req.Status)); err != nil {
		s.writeErrorResponse(w, statusForError(err), "Failed to update ambulance status", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Ambulance status updated"})
}

// healthHandler reports service health
func (s *Service) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "roster",
		"timestamp": time.Now().UTC(),
	})
}

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
