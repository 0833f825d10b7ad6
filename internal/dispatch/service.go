package dispatch

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"

	"github.com/balaji0322/smart-ai-triage/internal/classifier"
	"github.com/balaji0322/smart-ai-triage/pkg/config"
	"github.com/balaji0322/smart-ai-triage/pkg/database"
	"github.com/balaji0322/smart-ai-triage/pkg/interfaces"
	"github.com/balaji0322/smart-ai-triage/pkg/logger"
	"github.com/balaji0322/smart-ai-triage/pkg/monitoring"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// Service implements the DispatchService interface
type Service struct {
	config     *config.Config
	logger     *logger.Logger
	metrics    *monitoring.MetricsCollector
	health     *monitoring.HealthManager
	classifier interfaces.Classifier
	catalog    *Catalog
	ranker     *Ranker
	store      interfaces.AlertStore
	dispatcher *Dispatcher
	roster     interfaces.DoctorRoster
	repository interfaces.TriageRepository
	publisher  interfaces.AlertPublisher
	validator  *TokenValidator
	db         *database.DB
	cron       *cron.Cron
	server     *http.Server
}

// New creates a new dispatch service. The roster is the doctor assignment
// capability, typically backed by the roster service's store.
func New(cfg *config.Config, log *logger.Logger, roster interfaces.DoctorRoster) (*Service, error) {
	catalog, err := LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	riskClassifier, err := classifier.New(&cfg.Classifier, log)
	if err != nil {
		return nil, err
	}

	store := NewMemoryAlertStore()

	s := &Service{
		config:     cfg,
		logger:     log,
		metrics:    monitoring.NewMetricsCollector("dispatch"),
		health:     monitoring.NewHealthManager("dispatch", "1.0.0"),
		classifier: riskClassifier,
		catalog:    catalog,
		ranker:     NewRanker(types.Coordinate{Lat: cfg.Ranking.OriginLat, Lng: cfg.Ranking.OriginLng}, cfg.Ranking.SpecialtyBonusKm),
		store:      store,
		dispatcher: NewDispatcher(store, log),
		roster:     roster,
		publisher:  NoopPublisher{},
		validator:  NewTokenValidator(&cfg.JWT),
		cron:       cron.New(),
	}

	// Triage history and analytics need PostgreSQL; the live dispatch path
	// does not. A missing database degrades those endpoints instead of
	// refusing to start.
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Warnf("Database unavailable, triage history disabled: %v", err)
	} else {
		if err := db.CreateSchema(context.Background()); err != nil {
			db.Close()
			return nil, err
		}
		s.db = db
		s.repository = NewTriageRepository(db, log)
		s.health.RegisterChecker("database", monitoring.NewDatabaseHealthChecker(db.DB))
	}

	if cfg.Redis.Enabled {
		publisher, err := NewRedisPublisher(&cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		s.publisher = publisher
	}

	if cfg.Classifier.Provider == "http" && cfg.Classifier.Endpoint != "" {
		s.health.RegisterChecker("classifier", monitoring.NewClassifierHealthChecker(cfg.Classifier.Endpoint, 5*time.Second))
	}

	log.WithService("dispatch").Info("Dispatch service initialized")
	return s, nil
}

// Analyze runs the external risk classification for a patient intake. The
// configured classifier timeout bounds the call; the result is persisted as
// a triage record when the database is up.
func (s *Service) Analyze(ctx context.Context, patient *types.PatientData) (*types.AnalysisResult, error) {
	if patient == nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient data is required", nil)
	}
	if patient.Symptoms == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient symptoms are required", nil)
	}

	timeout := time.Duration(s.config.Classifier.TimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	analysis, err := s.classifier.Classify(ctx, patient)
	s.metrics.RecordClassifierCall(s.config.Classifier.Provider, time.Since(start))

	if err != nil {
		s.metrics.RecordTriageRequest("unknown", "failed")
		return nil, err
	}

	s.metrics.RecordTriageRequest(string(analysis.RiskLevel), "completed")
	s.persistAnalysis(ctx, patient, analysis)
	return analysis, nil
}

// persistAnalysis records the finished classification for history and
// analytics. Persistence failures are logged, not surfaced: the operator
// already has the result on screen.
func (s *Service) persistAnalysis(ctx context.Context, patient *types.PatientData, analysis *types.AnalysisResult) {
	if s.repository == nil {
		return
	}

	record := &types.TriageRecord{
		ID:            uuid.New().String(),
		PatientID:     patient.ID,
		Symptoms:      patient.Symptoms,
		RiskLevel:     analysis.RiskLevel,
		Confidence:    analysis.Confidence,
		PriorityScore: priorityScore(analysis.Priority),
		Status:        "pending",
		CreatedAt:     time.Now(),
	}
	if record.PatientID == "" {
		record.PatientID = uuid.New().String()
	}

	start := time.Now()
	if err := s.repository.CreateRecord(ctx, record); err != nil {
		s.logger.WithPatientID(record.PatientID).Warnf("Failed to persist triage record: %v", err)
		s.metrics.RecordSystemError("persistence", "repository")
		return
	}
	s.metrics.RecordDBQuery("insert_triage_record", time.Since(start))
}

// priorityScore maps the priority bucket onto the urgency scale used for
// queue ordering, where lower means more urgent.
func priorityScore(priority string) int {
	switch priority {
	case "P1":
		return 1
	case "P2":
		return 2
	default:
		return 3
	}
}

// RankHospitals ranks the catalog for the recommended department
func (s *Service) RankHospitals(department string) []types.RankedHospital {
	start := time.Now()
	ranked := s.ranker.Rank(s.catalog.Hospitals(), department)
	s.metrics.RecordRanking(time.Since(start))
	return ranked
}

// Dispatch routes an alert to the chosen hospital. The hospital must exist
// in the catalog; dispatching against an empty catalog is refused rather
// than silently dropped.
func (s *Service) Dispatch(analysis *types.AnalysisResult, patient *types.PatientData, hospitalID string) (*types.Alert, error) {
	if s.catalog.Len() == 0 {
		return nil, types.NewConflictError(types.ErrCodeConflict, "no hospitals available for dispatch")
	}

	hospital, ok := s.catalog.Get(hospitalID)
	if !ok {
		return nil, types.NewNotFoundError(types.ErrCodeNotFound, "hospital not found: "+hospitalID)
	}

	alert, err := s.dispatcher.Dispatch(analysis, patient, hospital)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAlertDispatched(hospital.ID, string(alert.TriageLevel))

	// Fan-out is best effort; dashboards poll the queue as a fallback.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, alert); err != nil {
		s.logger.WithAlertID(alert.ID).Warnf("Failed to publish alert: %v", err)
		s.metrics.RecordSystemError("publish", "redis")
	}

	return alert, nil
}

// AlertsForHospital returns a hospital's alert queue, newest first
func (s *Service) AlertsForHospital(hospitalID string) []*types.Alert {
	return s.store.ByHospital(hospitalID)
}

// AssignDoctor assigns an available doctor to a pending alert. The doctor
// flips to Busy; if recording the assignment fails the doctor is released
// again so the roster cannot leak Busy doctors.
func (s *Service) AssignDoctor(alertID, doctorID string) error {
	alert, err := s.store.Get(alertID)
	if err != nil {
		return err
	}
	if alert.Status != types.AlertPending {
		return types.NewConflictError(types.ErrCodeConflict, "alert is not pending: "+alertID)
	}

	if err := s.roster.Assign(doctorID); err != nil {
		return err
	}

	if err := s.store.SetStatus(alertID, types.AlertAssigned, doctorID); err != nil {
		if releaseErr := s.roster.Release(doctorID); releaseErr != nil {
			s.logger.Warnf("Failed to release doctor %s after assignment rollback: %v", doctorID, releaseErr)
		}
		return err
	}

	s.logger.WithAlertID(alertID).WithFields(map[string]interface{}{"doctor_id": doctorID}).Info("Doctor assigned to alert")
	return nil
}

// ResolveAlert closes out an alert and releases its assigned doctor
func (s *Service) ResolveAlert(alertID string) error {
	alert, err := s.store.Get(alertID)
	if err != nil {
		return err
	}
	if alert.Status == types.AlertResolved {
		return types.NewConflictError(types.ErrCodeConflict, "alert already resolved: "+alertID)
	}

	doctorID := alert.AssignedDoctorID
	if err := s.store.SetStatus(alertID, types.AlertResolved, ""); err != nil {
		return err
	}

	if doctorID != "" {
		if err := s.roster.Release(doctorID); err != nil {
			s.logger.Warnf("Failed to release doctor %s on resolve: %v", doctorID, err)
		}
	}

	s.logger.WithAlertID(alertID).Info("Alert resolved")
	return nil
}

// Stats computes the dashboard projection for a hospital's queue
func (s *Service) Stats(hospitalID string) types.DashboardStats {
	return ComputeStats(s.store.ByHospital(hospitalID), time.Now())
}

// History returns a patient's persisted triage records
func (s *Service) History(ctx context.Context, patientID string) ([]*types.TriageRecord, error) {
	if s.repository == nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "triage history is unavailable", nil)
	}
	return s.repository.HistoryByPatient(ctx, patientID)
}

// PendingTriages returns persisted records awaiting a doctor, urgent first
func (s *Service) PendingTriages(ctx context.Context, limit int) ([]*types.TriageRecord, error) {
	if s.repository == nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "triage queue is unavailable", nil)
	}
	return s.repository.PendingByPriority(ctx, limit)
}

// UpdateTriageStatus transitions a persisted triage record, recording the
// doctor who took it when one is named. Status values follow the record
// lifecycle, not the alert lifecycle.
func (s *Service) UpdateTriageStatus(ctx context.Context, recordID, status, doctorID string) error {
	if s.repository == nil {
		return types.NewInternalError(types.ErrCodeInternalError, "triage records are unavailable", nil)
	}

	switch status {
	case "pending", "in_progress", "completed":
	default:
		return types.NewValidationError(types.ErrCodeInvalidInput, "unknown triage status: "+status, nil)
	}

	if err := s.repository.UpdateStatus(ctx, recordID, status, doctorID); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{"record_id": recordID, "status": status}).Info("Triage record status updated")
	return nil
}

// Analytics aggregates persisted triage records for the admin console
func (s *Service) Analytics(ctx context.Context) (*types.TriageAnalytics, error) {
	if s.repository == nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "triage analytics is unavailable", nil)
	}
	return s.repository.Analytics(ctx, time.Now().Add(-24*time.Hour))
}

// logQueueDepth emits a periodic snapshot of every hospital queue so queue
// growth shows up in the logs even when no dashboard is connected.
func (s *Service) logQueueDepth() {
	now := time.Now()
	for _, h := range s.catalog.Hospitals() {
		stats := ComputeStats(s.store.ByHospital(h.ID), now)
		if stats.Queue.Total == 0 {
			continue
		}
		s.logger.WithHospitalID(h.ID).WithFields(map[string]interface{}{
			"high":     stats.Queue.High,
			"medium":   stats.Queue.Medium,
			"low":      stats.Queue.Low,
			"total":    stats.Queue.Total,
			"avg_wait": stats.Queue.AvgWait,
		}).Info("Queue depth snapshot")
	}
}

// Start starts the dispatch service HTTP server and background jobs
func (s *Service) Start(addr string) error {
	router := mux.NewRouter()
	s.setupRoutes(router)

	if _, err := s.cron.AddFunc("@every 1m", s.logQueueDepth); err != nil {
		return err
	}
	s.cron.Start()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}

	s.logger.Infof("Starting Dispatch Service on %s", addr)
	return s.server.ListenAndServe()
}

// Stop stops the dispatch service
func (s *Service) Stop() error {
	s.logger.Info("Stopping Dispatch Service")

	if s.cron != nil {
		s.cron.Stop()
	}
	if err := s.publisher.Close(); err != nil {
		s.logger.Warnf("Failed to close alert publisher: %v", err)
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warnf("Failed to close database: %v", err)
		}
	}
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
