package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balaji0322/smart-ai-triage/pkg/config"
	"github.com/balaji0322/smart-ai-triage/pkg/logger"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

func testPatient() *types.PatientData {
	return &types.PatientData{
		ID:       "PT-1001",
		Name:     "John Smith",
		Age:      58,
		Gender:   "Male",
		Symptoms: "Severe crushing chest pain radiating to left arm",
		Vitals: types.Vitals{
			Systolic:        165,
			Diastolic:       105,
			HeartRate:       118,
			Temperature:     98.9,
			SpO2:            94,
			RespiratoryRate: 24,
		},
		Conditions: []string{"Hypertension", "Diabetes"},
	}
}

func newTestClassifier(t *testing.T, endpoint, schema string, maxRetries int) *HTTPClassifier {
	t.Helper()
	return NewHTTPClassifier(&config.ClassifierConfig{
		Provider:   "http",
		Endpoint:   endpoint,
		Schema:     schema,
		TimeoutSec: 5,
		MaxRetries: maxRetries,
	}, logger.New("error"))
}

func TestHTTPClassifier_LegacySchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Severe crushing chest pain radiating to left arm", req.Symptoms["description"])
		assert.Equal(t, 118.0, req.Vitals["heart_rate"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"risk_level":      "high",
			"ai_confidence":   0.92,
			"priority_score":  2,
			"recommendations": "Immediate cardiac workup",
			"created_at":      time.Now().UTC(),
		})
	}))
	defer server.Close()

	c := newTestClassifier(t, server.URL, "legacy", 3)
	result, err := c.Classify(context.Background(), testPatient())

	require.NoError(t, err)
	assert.Equal(t, types.RiskHigh, result.RiskLevel)
	assert.Equal(t, "P1", result.Priority)
	assert.InDelta(t, 92.0, result.Confidence, 1e-9)
	assert.Equal(t, "IMMEDIATE", result.Department.ActionTimeline)
}

func TestHTTPClassifier_StructuredSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"riskLevel": "MEDIUM",
			"confidence": 78,
			"priority": "P2",
			"department": {"primary": "Pulmonology", "reasoning": "productive cough", "actionTimeline": "15-30 mins"},
			"contributingFactors": [{"factor": "Fever", "influence": 0.6}],
			"clinicalReasoning": ["fever for 3 days"],
			"probabilities": {"high": 0.1, "medium": 0.7, "low": 0.2},
			"recommendedActions": ["chest x-ray"]
		}`))
	}))
	defer server.Close()

	c := newTestClassifier(t, server.URL, "structured", 1)
	result, err := c.Classify(context.Background(), testPatient())

	require.NoError(t, err)
	assert.Equal(t, types.RiskMedium, result.RiskLevel)
	assert.Equal(t, "Pulmonology", result.Department.Primary)
	assert.Equal(t, 0.7, result.Probabilities.Medium)
}

func TestHTTPClassifier_RetriesThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"risk_level": "low", "ai_confidence": 0.5, "priority_score": 8,
			"recommendations": "rest",
		})
	}))
	defer server.Close()

	c := newTestClassifier(t, server.URL, "legacy", 3)
	result, err := c.Classify(context.Background(), testPatient())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, types.RiskLow, result.RiskLevel)
}

func TestHTTPClassifier_ExhaustedRetriesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClassifier(t, server.URL, "legacy", 3)
	_, err := c.Classify(context.Background(), testPatient())

	require.Error(t, err)
	assert.True(t, types.IsClassification(err))
	assert.Contains(t, err.Error(), "CLASSIFICATION_FAILED")
}

func TestHTTPClassifier_UnknownRiskLevelNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"risk_level": "critical", "ai_confidence": 0.9, "priority_score": 1,
			"recommendations": "x",
		})
	}))
	defer server.Close()

	c := newTestClassifier(t, server.URL, "legacy", 3)
	_, err := c.Classify(context.Background(), testPatient())

	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
	assert.Equal(t, 1, attempts)
}

func TestHTTPClassifier_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := newTestClassifier(t, server.URL, "legacy", 3)
	_, err := c.Classify(ctx, testPatient())

	require.Error(t, err)
	assert.True(t, types.IsClassification(err))
}

func TestHTTPClassifier_NilPatient(t *testing.T) {
	c := newTestClassifier(t, "http://localhost:0", "legacy", 1)
	_, err := c.Classify(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}
