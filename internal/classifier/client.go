package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/balaji0322/smart-ai-triage/pkg/config"
	"github.com/balaji0322/smart-ai-triage/pkg/logger"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// classifyRequest is the payload sent to the external classifier
type classifyRequest struct {
	Symptoms map[string]interface{} `json:"symptoms"`
	Vitals   map[string]interface{} `json:"vitals"`
}

// HTTPClassifier calls an external classification service over HTTP.
// The response schema is fixed by configuration, not guessed from content.
type HTTPClassifier struct {
	endpoint   string
	apiKey     string
	schema     Schema
	maxRetries int
	client     *http.Client
	logger     *logger.Logger
}

// NewHTTPClassifier creates a classifier client from configuration
func NewHTTPClassifier(cfg *config.ClassifierConfig, log *logger.Logger) *HTTPClassifier {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 1
	}

	return &HTTPClassifier{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		schema:     Schema(cfg.Schema),
		maxRetries: retries,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		logger: log,
	}
}

// Classify submits the patient payload and adapts the response into the
// internal analysis shape. Transient failures are retried up to the
// configured limit; exhaustion surfaces as a classification error. There is
// no fallback result: a failed classification must never look like a
// low-confidence success.
func (c *HTTPClassifier) Classify(ctx context.Context, patient *types.PatientData) (*types.AnalysisResult, error) {
	if patient == nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient data is required", nil)
	}

	body, err := json.Marshal(buildClassifyRequest(patient))
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to marshal classify request", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		start := time.Now()
		raw, err := c.post(ctx, body)
		c.logger.Classification(patient.ID, attempt, time.Since(start).Milliseconds(), err == nil)

		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		result, err := c.adapt(raw)
		if err != nil {
			if types.IsValidation(err) {
				// The classifier answered with a value outside its
				// contract; retrying will not change that.
				return nil, err
			}
			lastErr = err
			continue
		}
		return result, nil
	}

	return nil, types.NewClassificationError(types.ErrCodeClassificationFailed,
		"analysis failed - check classifier connectivity", lastErr)
}

// post performs one classify call and returns the raw response body
func (c *HTTPClassifier) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	return raw, nil
}

// adapt decodes the raw response under the configured schema
func (c *HTTPClassifier) adapt(raw []byte) (*types.AnalysisResult, error) {
	switch c.schema {
	case SchemaStructured:
		var resp StructuredResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode structured response: %w", err)
		}
		return AdaptStructured(&resp)
	case SchemaLegacy:
		var resp LegacyResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode legacy response: %w", err)
		}
		return AdaptLegacy(&resp)
	default:
		return nil, types.NewValidationError(types.ErrCodeInvalidInput,
			"unknown classifier schema: "+string(c.schema), nil)
	}
}

// buildClassifyRequest flattens patient data into the classifier payload
func buildClassifyRequest(patient *types.PatientData) *classifyRequest {
	return &classifyRequest{
		Symptoms: map[string]interface{}{
			"description": patient.Symptoms,
			"conditions":  patient.Conditions,
		},
		Vitals: map[string]interface{}{
			"systolic":         patient.Vitals.Systolic,
			"diastolic":        patient.Vitals.Diastolic,
			"heart_rate":       patient.Vitals.HeartRate,
			"temperature":      patient.Vitals.Temperature,
			"spo2":             patient.Vitals.SpO2,
			"respiratory_rate": patient.Vitals.RespiratoryRate,
		},
	}
}
