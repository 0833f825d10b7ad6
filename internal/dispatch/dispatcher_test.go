package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balaji0322/smart-ai-triage/pkg/logger"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

func testAnalysis(level types.RiskLevel) *types.AnalysisResult {
	return &types.AnalysisResult{
		RiskLevel:  level,
		Confidence: 85,
		Priority:   "P1",
		Department: types.DepartmentRecommendation{
			Primary:        "Cardiology",
			Reasoning:      "chest pain with elevated heart rate",
			ActionTimeline: "IMMEDIATE",
		},
		ClinicalReasoning: []string{"elevated heart rate"},
		Probabilities:     types.Probabilities{High: 0.8, Medium: 0.2, Low: 0.1},
	}
}

func testPatient() *types.PatientData {
	return &types.PatientData{
		ID:       "patient-1",
		Name:     "Jane Roe",
		Age:      57,
		Gender:   "female",
		Symptoms: "crushing chest pain",
	}
}

func testHospital() *types.Hospital {
	return &types.Hospital{
		ID:   "HOSP-001",
		Name: "St. Mary's Medical Center",
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	store := NewMemoryAlertStore()
	dispatcher := NewDispatcher(store, logger.New("error"))

	analysis := testAnalysis(types.RiskHigh)
	patient := testPatient()

	alert, err := dispatcher.Dispatch(analysis, patient, testHospital())
	require.NoError(t, err)

	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, "HOSP-001", alert.TargetHospitalID)
	assert.Equal(t, "patient-1", alert.PatientID)
	assert.Equal(t, "Jane Roe", alert.PatientName)
	assert.Equal(t, 57, alert.Age)
	assert.Equal(t, types.RiskHigh, alert.TriageLevel)
	assert.Equal(t, types.AlertPending, alert.Status)
	assert.False(t, alert.Timestamp.IsZero())

	// The alert landed on the store.
	queued := store.ByHospital("HOSP-001")
	require.Len(t, queued, 1)
	assert.Equal(t, alert.ID, queued[0].ID)
}

func TestDispatcher_DistinctAlertIDs(t *testing.T) {
	store := NewMemoryAlertStore()
	dispatcher := NewDispatcher(store, logger.New("error"))

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		alert, err := dispatcher.Dispatch(testAnalysis(types.RiskMedium), testPatient(), testHospital())
		require.NoError(t, err)
		assert.False(t, seen[alert.ID], "alert id %s reused", alert.ID)
		seen[alert.ID] = true
	}
}

func TestDispatcher_AnalysisSnapshot(t *testing.T) {
	store := NewMemoryAlertStore()
	dispatcher := NewDispatcher(store, logger.New("error"))

	analysis := testAnalysis(types.RiskHigh)
	alert, err := dispatcher.Dispatch(analysis, testPatient(), testHospital())
	require.NoError(t, err)

	require.NotNil(t, alert.Analysis)
	assert.Equal(t, *analysis, *alert.Analysis)

	// Mutating the caller's result after dispatch must not reach the alert.
	analysis.RiskLevel = types.RiskLow
	analysis.ClinicalReasoning[0] = "rewritten"
	analysis.Department.Primary = "Dermatology"

	assert.Equal(t, types.RiskHigh, alert.Analysis.RiskLevel)
	assert.Equal(t, "elevated heart rate", alert.Analysis.ClinicalReasoning[0])
	assert.Equal(t, "Cardiology", alert.Analysis.Department.Primary)
}

func TestDispatcher_DefaultsPatientName(t *testing.T) {
	store := NewMemoryAlertStore()
	dispatcher := NewDispatcher(store, logger.New("error"))

	patient := testPatient()
	patient.Name = ""

	alert, err := dispatcher.Dispatch(testAnalysis(types.RiskLow), patient, testHospital())
	require.NoError(t, err)
	assert.Equal(t, "Unknown Patient", alert.PatientName)
}

func TestDispatcher_PreconditionFailures(t *testing.T) {
	store := NewMemoryAlertStore()
	dispatcher := NewDispatcher(store, logger.New("error"))

	missingID := testPatient()
	missingID.ID = ""

	missingSymptoms := testPatient()
	missingSymptoms.Symptoms = ""

	tests := []struct {
		name     string
		analysis *types.AnalysisResult
		patient  *types.PatientData
		hospital *types.Hospital
	}{
		{"nil analysis", nil, testPatient(), testHospital()},
		{"nil patient", testAnalysis(types.RiskHigh), nil, testHospital()},
		{"empty patient id", testAnalysis(types.RiskHigh), missingID, testHospital()},
		{"empty symptoms", testAnalysis(types.RiskHigh), missingSymptoms, testHospital()},
		{"nil hospital", testAnalysis(types.RiskHigh), testPatient(), nil},
		{"empty hospital id", testAnalysis(types.RiskHigh), testPatient(), &types.Hospital{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert, err := dispatcher.Dispatch(tt.analysis, tt.patient, tt.hospital)
			assert.Nil(t, alert)
			assert.True(t, types.IsValidation(err))
		})
	}

	// Nothing was enqueued by the failed attempts.
	assert.Empty(t, store.All())
}
