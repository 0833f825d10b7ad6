package roster

import (
	"sync"

	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// defaultDoctors seeds the roster when no external staffing feed is wired
var defaultDoctors = []types.Doctor{
	{ID: "d1", Name: "Dr. Sarah Wilson", Department: "Cardiology", Status: types.DoctorAvailable},
	{ID: "d2", Name: "Dr. James Chen", Department: "Emergency", Status: types.DoctorBusy},
	{ID: "d3", Name: "Dr. Emily Ross", Department: "Neurology", Status: types.DoctorAvailable},
	{ID: "d4", Name: "Dr. Michael Patel", Department: "General Med", Status: types.DoctorOffline},
	{ID: "d5", Name: "Dr. Lisa Wong", Department: "Trauma", Status: types.DoctorAvailable},
}

// defaultAmbulances seeds the fleet view
var defaultAmbulances = []types.Ambulance{
	{ID: "a1", UnitNumber: "AMB-101", Status: types.AmbulanceTransporting, DriverName: "John Doe", CurrentLocation: "I-95 South, Exit 42", ETA: "8 mins", PatientID: "PT-2026-1024"},
	{ID: "a2", UnitNumber: "AMB-102", Status: types.AmbulanceIdle, DriverName: "Jane Smith", CurrentLocation: "Hospital Base"},
	{ID: "a3", UnitNumber: "AMB-103", Status: types.AmbulanceDispatched, DriverName: "Mike Johnson", CurrentLocation: "Downtown Sector 4", ETA: "12 mins"},
	{ID: "a4", UnitNumber: "AMB-104", Status: types.AmbulanceOnScene, DriverName: "Sarah Connor", CurrentLocation: "Westside Apts"},
}

// MemoryStore keeps the doctor and ambulance rosters in memory. Transitions
// are serialized under a mutex so an alert assignment cannot race a manual
// status change for the same doctor.
type MemoryStore struct {
	mu         sync.RWMutex
	doctors    []*types.Doctor
	ambulances []*types.Ambulance
	doctorByID map[string]*types.Doctor
	unitByID   map[string]*types.Ambulance
}

// NewMemoryStore builds a store from the given rosters; nil slices fall
// back to the built-in seed data.
func NewMemoryStore(doctors []types.Doctor, ambulances []types.Ambulance) *MemoryStore {
	if doctors == nil {
		doctors = defaultDoctors
	}
	if ambulances == nil {
		ambulances = defaultAmbulances
	}

	s := &MemoryStore{
		doctorByID: make(map[string]*types.Doctor, len(doctors)),
		unitByID:   make(map[string]*types.Ambulance, len(ambulances)),
	}
	for i := range doctors {
		d := doctors[i]
		s.doctors = append(s.doctors, &d)
		s.doctorByID[d.ID] = s.doctors[len(s.doctors)-1]
	}
	for i := range ambulances {
		a := ambulances[i]
		s.ambulances = append(s.ambulances, &a)
		s.unitByID[a.ID] = s.ambulances[len(s.ambulances)-1]
	}
	return s
}

// GetDoctor returns the doctor with the given id
func (s *MemoryStore) GetDoctor(doctorID string) (*types.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doctor, ok := s.doctorByID[doctorID]
	if !ok {
		return nil, types.NewNotFoundError(types.ErrCodeNotFound, "doctor not found: "+doctorID)
	}
	cp := *doctor
	return &cp, nil
}

// Assign marks a doctor Busy for an alert. Only an Available doctor can be
// assigned; Busy and Offline doctors are rejected with a conflict.
func (s *MemoryStore) Assign(doctorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doctor, ok := s.doctorByID[doctorID]
	if !ok {
		return types.NewNotFoundError(types.ErrCodeNotFound, "doctor not found: "+doctorID)
	}
	if doctor.Status != types.DoctorAvailable {
		return types.NewConflictError(types.ErrCodeConflict, "doctor is not available: "+doctorID)
	}

	doctor.Status = types.DoctorBusy
	return nil
}

// Release returns a doctor to Available after their alert resolves
func (s *MemoryStore) Release(doctorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doctor, ok := s.doctorByID[doctorID]
	if !ok {
		return types.NewNotFoundError(types.ErrCodeNotFound, "doctor not found: "+doctorID)
	}

	doctor.Status = types.DoctorAvailable
	return nil
}

// SetDoctorStatus applies a manual status override from the admin console
func (s *MemoryStore) SetDoctorStatus(doctorID string, status types.DoctorStatus) error {
	switch status {
	case types.DoctorAvailable, types.DoctorBusy, types.DoctorOffline:
	default:
		return types.NewValidationError(types.ErrCodeInvalidInput, "unknown doctor status: "+string(status), nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doctor, ok := s.doctorByID[doctorID]
	if !ok {
		return types.NewNotFoundError(types.ErrCodeNotFound, "doctor not found: "+doctorID)
	}

	doctor.Status = status
	return nil
}

// SetAmbulanceStatus transitions a fleet unit
func (s *MemoryStore) SetAmbulanceStatus(ambulanceID string, status types.AmbulanceStatus) error {
	if !status.Valid() {
		return types.NewValidationError(types.ErrCodeInvalidInput, "unknown ambulance status: "+string(status), nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unit, ok := s.unitByID[ambulanceID]
	if !ok {
		return types.NewNotFoundError(types.ErrCodeNotFound, "ambulance not found: "+ambulanceID)
	}

	unit.Status = status
	if status == types.AmbulanceIdle {
		unit.ETA = ""
		unit.PatientID = ""
	}
	return nil
}

// Doctors returns a snapshot of the doctor roster in seed order
func (s *MemoryStore) Doctors() []*types.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Doctor, 0, len(s.doctors))
	for _, d := range s.doctors {
		cp := *d
		out = append(out, &cp)
	}
	return out
}

// Ambulances returns a snapshot of the fleet roster in seed order
func (s *MemoryStore) Ambulances() []*types.Ambulance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Ambulance, 0, len(s.ambulances))
	for _, a := range s.ambulances {
		cp := *a
		out = append(out, &cp)
	}
	return out
}
