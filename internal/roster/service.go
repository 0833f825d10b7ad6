package roster

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/balaji0322/smart-ai-triage/pkg/config"
	"github.com/balaji0322/smart-ai-triage/pkg/interfaces"
	"github.com/balaji0322/smart-ai-triage/pkg/logger"
	"github.com/balaji0322/smart-ai-triage/pkg/monitoring"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// Service implements the RosterService interface
type Service struct {
	config  *config.Config
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector
	store   *MemoryStore
	server  *http.Server
}

// New creates a new roster service over the built-in seed rosters
func New(cfg *config.Config, log *logger.Logger) *Service {
	log.WithService("roster").Info("Roster service initialized")
	return &Service{
		config:  cfg,
		logger:  log,
		metrics: monitoring.NewMetricsCollector("roster"),
		store:   NewMemoryStore(nil, nil),
	}
}

// Store exposes the underlying roster store so the dispatch service can
// share the same doctor assignment state in single-process deployments.
func (s *Service) Store() interfaces.DoctorRoster {
	return s.store
}

// Assign marks a doctor Busy for an alert
func (s *Service) Assign(doctorID string) error {
	return s.store.Assign(doctorID)
}

// Release returns a doctor to Available
func (s *Service) Release(doctorID string) error {
	return s.store.Release(doctorID)
}

// GetDoctor returns the doctor with the given id
func (s *Service) GetDoctor(doctorID string) (*types.Doctor, error) {
	return s.store.GetDoctor(doctorID)
}

// Doctors returns the doctor roster
func (s *Service) Doctors() []*types.Doctor {
	return s.store.Doctors()
}

// Ambulances returns the fleet roster
func (s *Service) Ambulances() []*types.Ambulance {
	return s.store.Ambulances()
}

// SetDoctorStatus applies a manual doctor status override
func (s *Service) SetDoctorStatus(doctorID string, status types.DoctorStatus) error {
	if err := s.store.SetDoctorStatus(doctorID, status); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{"doctor_id": doctorID, "status": status}).Info("Doctor status updated")
	return nil
}

// SetAmbulanceStatus transitions a fleet unit
func (s *Service) SetAmbulanceStatus(ambulanceID string, status types.AmbulanceStatus) error {
	if err := s.store.SetAmbulanceStatus(ambulanceID, status); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{"ambulance_id": ambulanceID, "status": status}).Info("Ambulance status updated")
	return nil
}

// Start starts the roster service HTTP server
func (s *Service) Start(addr string) error {
	router := mux.NewRouter()
	s.setupRoutes(router)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}

	s.logger.Infof("Starting Roster Service on %s", addr)
	return s.server.ListenAndServe()
}

// Stop stops the roster service
func (s *Service) Stop() error {
	if s.server != nil {
		s.logger.Info("Stopping Roster Service")
		return s.server.Close()
	}
	return nil
}
