package interfaces

import (
	"context"
	"time"

	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// DispatchService defines the interface for triage analysis and alert dispatch
type DispatchService interface {
	// Triage workflow
	Analyze(ctx context.Context, patient *types.PatientData) (*types.AnalysisResult, error)
	RankHospitals(department string) []types.RankedHospital
	Dispatch(analysis *types.AnalysisResult, patient *types.PatientData, hospitalID string) (*types.Alert, error)

	// Alert queue operations
	AlertsForHospital(hospitalID string) []*types.Alert
	AssignDoctor(alertID, doctorID string) error
	ResolveAlert(alertID string) error
	Stats(hospitalID string) types.DashboardStats

	// Persisted triage views
	History(ctx context.Context, patientID string) ([]*types.TriageRecord, error)
	PendingTriages(ctx context.Context, limit int) ([]*types.TriageRecord, error)
	UpdateTriageStatus(ctx context.Context, recordID, status, doctorID string) error
	Analytics(ctx context.Context) (*types.TriageAnalytics, error)

	// Service management
	Start(addr string) error
	Stop() error
}

// AlertStore defines the interface for the session-scoped alert collection
type AlertStore interface {
	Append(alert *types.Alert) error
	ByHospital(hospitalID string) []*types.Alert
	Get(alertID string) (*types.Alert, error)
	SetStatus(alertID string, status types.AlertStatus, doctorID string) error
	All() []*types.Alert
}

// TriageRepository defines the interface for triage record persistence
type TriageRepository interface {
	CreateRecord(ctx context.Context, record *types.TriageRecord) error
	HistoryByPatient(ctx context.Context, patientID string) ([]*types.TriageRecord, error)
	PendingByPriority(ctx context.Context, limit int) ([]*types.TriageRecord, error)
	UpdateStatus(ctx context.Context, recordID, status, doctorID string) error
	Analytics(ctx context.Context, since time.Time) (*types.TriageAnalytics, error)
}

// AlertPublisher defines the interface for alert fan-out to hospital consumers
type AlertPublisher interface {
	Publish(ctx context.Context, alert *types.Alert) error
	Close() error
}
