package dispatch

import (
	"time"

	"github.com/google/uuid"

	"github.com/balaji0322/smart-ai-triage/pkg/interfaces"
	"github.com/balaji0322/smart-ai-triage/pkg/logger"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// Dispatcher turns a finalized analysis and patient data into an alert on a
// hospital's queue.
type Dispatcher struct {
	store  interfaces.AlertStore
	logger *logger.Logger
}

// NewDispatcher creates an alert dispatcher over the given store
func NewDispatcher(store interfaces.AlertStore, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		logger: log,
	}
}

// Dispatch creates an alert for the chosen hospital and appends it to the
// queue. The embedded analysis is a snapshot copy, so later mutation of the
// caller's result cannot reach the alert. Precondition violations fail fast
// with a validation error; nothing is silently coerced.
func (d *Dispatcher) Dispatch(analysis *types.AnalysisResult, patient *types.PatientData, hospital *types.Hospital) (*types.Alert, error) {
	if analysis == nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "analysis result is required", nil)
	}
	if patient == nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient data is required", nil)
	}
	if patient.ID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient id is required", nil)
	}
	if patient.Symptoms == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient symptoms are required", nil)
	}
	if hospital == nil || hospital.ID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "target hospital is required", nil)
	}

	patientName := patient.Name
	if patientName == "" {
		patientName = "Unknown Patient"
	}

	alert := &types.Alert{
		ID:               uuid.New().String(),
		TargetHospitalID: hospital.ID,
		PatientID:        patient.ID,
		PatientName:      patientName,
		Age:              patient.Age,
		Gender:           patient.Gender,
		Symptoms:         patient.Symptoms,
		TriageLevel:      analysis.RiskLevel,
		Timestamp:        time.Now(),
		Status:           types.AlertPending,
		Analysis:         analysis.Clone(),
	}

	if err := d.store.Append(alert); err != nil {
		d.logger.Dispatch(alert.ID, hospital.ID, string(alert.TriageLevel), false)
		return nil, err
	}

	d.logger.Dispatch(alert.ID, hospital.ID, string(alert.TriageLevel), true)
	return alert, nil
}
