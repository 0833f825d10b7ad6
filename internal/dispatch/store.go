package dispatch

import (
	"sync"

	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// MemoryAlertStore is the session-scoped alert collection. Appends are
// serialized under a mutex so insertion order and the stats derived from
// the stream survive concurrent operator sessions.
type MemoryAlertStore struct {
	mu     sync.RWMutex
	alerts []*types.Alert // newest first
	byID   map[string]*types.Alert
}

// NewMemoryAlertStore creates an empty alert store
func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{
		byID: make(map[string]*types.Alert),
	}
}

// Append adds an alert at the head of the collection
func (s *MemoryAlertStore) Append(alert *types.Alert) error {
	if alert == nil {
		return types.NewValidationError(types.ErrCodeInvalidInput, "alert is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[alert.ID]; exists {
		return types.NewConflictError(types.ErrCodeConflict, "alert already exists: "+alert.ID)
	}

	s.alerts = append([]*types.Alert{alert}, s.alerts...)
	s.byID[alert.ID] = alert
	return nil
}

// ByHospital returns the alerts targeted at the given hospital, newest
// first. Filtering is exact equality on the routing key.
func (s *MemoryAlertStore) ByHospital(hospitalID string) []*types.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*types.Alert, 0)
	for _, a := range s.alerts {
		if a.TargetHospitalID == hospitalID {
			matched = append(matched, a)
		}
	}
	return matched
}

// Get returns the alert with the given id
func (s *MemoryAlertStore) Get(alertID string) (*types.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alert, ok := s.byID[alertID]
	if !ok {
		return nil, types.NewNotFoundError(types.ErrCodeNotFound, "alert not found: "+alertID)
	}
	return alert, nil
}

// SetStatus applies a status transition. doctorID is recorded for the
// Assigned transition and ignored otherwise.
func (s *MemoryAlertStore) SetStatus(alertID string, status types.AlertStatus, doctorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.byID[alertID]
	if !ok {
		return types.NewNotFoundError(types.ErrCodeNotFound, "alert not found: "+alertID)
	}

	alert.Status = status
	if status == types.AlertAssigned {
		alert.AssignedDoctorID = doctorID
	}
	return nil
}

// All returns every alert in the session, newest first
func (s *MemoryAlertStore) All() []*types.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}
