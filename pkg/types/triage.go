package types

import "time"

// RiskLevel classifies patient urgency
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// Valid reports whether the risk level is one of the known tiers
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskHigh, RiskMedium, RiskLow:
		return true
	}
	return false
}

// Vitals represents the six numeric vital signs captured at intake
type Vitals struct {
	Systolic        float64 `json:"systolic"`
	Diastolic       float64 `json:"diastolic"`
	HeartRate       float64 `json:"heart_rate"`
	Temperature     float64 `json:"temperature"`
	SpO2            float64 `json:"spo2"`
	RespiratoryRate float64 `json:"respiratory_rate"`
}

// PatientData represents a single intake session, immutable once submitted
type PatientData struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Age             int      `json:"age"`
	Gender          string   `json:"gender"`
	ArrivalTime     string   `json:"arrival_time"`
	Vitals          Vitals   `json:"vitals"`
	Symptoms        string   `json:"symptoms"`
	Conditions      []string `json:"conditions"`
	ManualRiskLevel string   `json:"manual_risk_level,omitempty"`
	FileRefs        []string `json:"file_refs,omitempty"`
}

// ContributingFactor is a single weighted factor behind a classification
type ContributingFactor struct {
	Factor    string  `json:"factor"`
	Influence float64 `json:"influence"` // 0-1
}

// DepartmentRecommendation is the classifier's department routing advice
type DepartmentRecommendation struct {
	Primary        string `json:"primary"`
	Secondary      string `json:"secondary,omitempty"`
	Reasoning      string `json:"reasoning"`
	ActionTimeline string `json:"action_timeline"`
}

// Probabilities holds per-tier risk probabilities; they need not sum to 1
type Probabilities struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
	Low    float64 `json:"low"`
}

// AnalysisResult is the internal shape of a finalized classification.
// Produced once per classification call and immutable thereafter.
type AnalysisResult struct {
	RiskLevel           RiskLevel                `json:"risk_level"`
	Confidence          float64                  `json:"confidence"` // 0-100
	Priority            string                   `json:"priority"`   // P1, P2, P3
	Department          DepartmentRecommendation `json:"department"`
	ContributingFactors []ContributingFactor     `json:"contributing_factors"`
	ClinicalReasoning   []string                 `json:"clinical_reasoning"`
	Probabilities       Probabilities            `json:"probabilities"`
	RecommendedActions  []string                 `json:"recommended_actions"`
	Timestamp           time.Time                `json:"timestamp"`
}

// Clone returns a deep copy of the analysis result so later mutation of the
// original cannot reach an embedded snapshot.
func (a *AnalysisResult) Clone() *AnalysisResult {
	if a == nil {
		return nil
	}
	cp := *a
	if a.ContributingFactors != nil {
		cp.ContributingFactors = make([]ContributingFactor, len(a.ContributingFactors))
		copy(cp.ContributingFactors, a.ContributingFactors)
	}
	if a.ClinicalReasoning != nil {
		cp.ClinicalReasoning = make([]string, len(a.ClinicalReasoning))
		copy(cp.ClinicalReasoning, a.ClinicalReasoning)
	}
	if a.RecommendedActions != nil {
		cp.RecommendedActions = make([]string, len(a.RecommendedActions))
		copy(cp.RecommendedActions, a.RecommendedActions)
	}
	return &cp
}

// TriageRecord is the persisted form of one analysis for history and analytics
type TriageRecord struct {
	ID            string    `json:"id" db:"id"`
	PatientID     string    `json:"patient_id" db:"patient_id"`
	Symptoms      string    `json:"symptoms" db:"symptoms"`
	RiskLevel     RiskLevel `json:"risk_level" db:"risk_level"`
	Confidence    float64   `json:"confidence" db:"confidence"`
	PriorityScore int       `json:"priority_score" db:"priority_score"`
	Status        string    `json:"status" db:"status"`
	DoctorID      string    `json:"doctor_id,omitempty" db:"doctor_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// TriageAnalytics aggregates persisted triage records for the admin console
type TriageAnalytics struct {
	TotalTriages     int               `json:"total_triages"`
	RiskDistribution map[RiskLevel]int `json:"risk_distribution"`
	Last24Hours      int               `json:"last_24_hours"`
}
