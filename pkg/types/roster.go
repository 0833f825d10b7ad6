package types

// DoctorStatus tracks doctor availability
type DoctorStatus string

const (
	DoctorAvailable DoctorStatus = "Available"
	DoctorBusy      DoctorStatus = "Busy"
	DoctorOffline   DoctorStatus = "Offline"
)

// Doctor is a roster entry used for display and alert assignment linkage
type Doctor struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Department string       `json:"department"`
	Status     DoctorStatus `json:"status"`
}

// AmbulanceStatus tracks the unit lifecycle
type AmbulanceStatus string

const (
	AmbulanceIdle         AmbulanceStatus = "IDLE"
	AmbulanceDispatched   AmbulanceStatus = "DISPATCHED"
	AmbulanceOnScene      AmbulanceStatus = "ON_SCENE"
	AmbulanceTransporting AmbulanceStatus = "TRANSPORTING"
	AmbulanceReturning    AmbulanceStatus = "RETURNING"
)

// Valid reports whether the status is a known ambulance state
func (s AmbulanceStatus) Valid() bool {
	switch s {
	case AmbulanceIdle, AmbulanceDispatched, AmbulanceOnScene, AmbulanceTransporting, AmbulanceReturning:
		return true
	}
	return false
}

// Ambulance is a fleet roster entry
type Ambulance struct {
	ID              string          `json:"id"`
	UnitNumber      string          `json:"unit_number"`
	Status          AmbulanceStatus `json:"status"`
	DriverName      string          `json:"driver_name"`
	CurrentLocation string          `json:"current_location"`
	ETA             string          `json:"eta,omitempty"`
	PatientID       string          `json:"patient_id,omitempty"`
}
