package interfaces

import (
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// DoctorRoster is the narrow capability the dispatch core depends on for
// alert assignment. Assign flips the doctor to Busy; it fails when the
// doctor is unknown or not available.
type DoctorRoster interface {
	Assign(doctorID string) error
	Release(doctorID string) error
	GetDoctor(doctorID string) (*types.Doctor, error)
}

// RosterService defines the full fleet/roster service surface
type RosterService interface {
	DoctorRoster

	// Roster queries
	Doctors() []*types.Doctor
	Ambulances() []*types.Ambulance

	// Fleet transitions
	SetDoctorStatus(doctorID string, status types.DoctorStatus) error
	SetAmbulanceStatus(ambulanceID string, status types.AmbulanceStatus) error

	// Service management
	Start(addr string) error
	Stop() error
}
