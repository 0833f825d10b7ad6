package types

import "time"

// AlertStatus tracks the lifecycle of a dispatched alert
type AlertStatus string

const (
	AlertPending  AlertStatus = "Pending"
	AlertAssigned AlertStatus = "Assigned"
	AlertResolved AlertStatus = "Resolved"
)

// Alert is the immutable dispatch record routed to a hospital queue.
// TargetHospitalID is the routing key; queue views filter on exact equality.
// TriageLevel always equals the embedded analysis risk level at creation time.
type Alert struct {
	ID               string          `json:"id"`
	TargetHospitalID string          `json:"target_hospital_id"`
	PatientID        string          `json:"patient_id"`
	PatientName      string          `json:"patient_name"`
	Age              int             `json:"age"`
	Gender           string          `json:"gender"`
	Symptoms         string          `json:"symptoms"`
	TriageLevel      RiskLevel       `json:"triage_level"`
	Timestamp        time.Time       `json:"timestamp"`
	Status           AlertStatus     `json:"status"`
	AssignedDoctorID string          `json:"assigned_doctor_id,omitempty"`
	Analysis         *AnalysisResult `json:"analysis,omitempty"`
}

// QueueStats are per-hospital queue counters derived from the alert stream
type QueueStats struct {
	High    int     `json:"high"`
	Medium  int     `json:"medium"`
	Low     int     `json:"low"`
	Total   int     `json:"total"`
	AvgWait float64 `json:"avg_wait"` // minutes, unresolved alerts only
}

// DeptLoad is the display load of a single department
type DeptLoad struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"` // 0-100
}

// DashboardStats is a read-only projection over a hospital's alert queue.
// It is recomputed from the alert collection, never independently mutated.
type DashboardStats struct {
	Queue    QueueStats `json:"queue"`
	DeptLoad []DeptLoad `json:"dept_load"`
}
