package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/balaji0322/smart-ai-triage/pkg/config"
	"github.com/balaji0322/smart-ai-triage/pkg/logger"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// defaultOpenAIModel is a literal so the pinned client version does not
// bound which models can be configured.
const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClassifier drives an OpenAI-compatible model as the classification
// service. The model is instructed to answer in the legacy response schema,
// which the shared adapter then maps into the internal shape.
type OpenAIClassifier struct {
	client     *openai.Client
	model      string
	maxRetries int
	logger     *logger.Logger
}

// NewOpenAIClassifier creates a model-backed classifier from configuration
func NewOpenAIClassifier(cfg *config.ClassifierConfig, log *logger.Logger) *OpenAIClassifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 1
	}

	return &OpenAIClassifier{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      model,
		maxRetries: retries,
		logger:     log,
	}
}

// Classify prompts the model for a risk assessment and adapts its answer.
// Failed or malformed completions are retried; exhaustion surfaces as a
// classification error with no fabricated fallback result.
func (c *OpenAIClassifier) Classify(ctx context.Context, patient *types.PatientData) (*types.AnalysisResult, error) {
	if patient == nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient data is required", nil)
	}

	prompt := buildTriagePrompt(patient)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		start := time.Now()
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: 0.3,
			MaxTokens:   1000,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: triageSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		c.logger.Classification(patient.ID, attempt, time.Since(start).Milliseconds(), err == nil)

		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("model returned no choices")
			continue
		}

		var legacy LegacyResponse
		if err := json.Unmarshal([]byte(stripCodeFence(resp.Choices[0].Message.Content)), &legacy); err != nil {
			lastErr = fmt.Errorf("failed to decode model response: %w", err)
			continue
		}

		result, err := AdaptLegacy(&legacy)
		if err != nil {
			if types.IsValidation(err) {
				// The model can rephrase on a retry; an off-contract
				// risk level is worth one more attempt.
				lastErr = err
				continue
			}
			lastErr = err
			continue
		}
		return result, nil
	}

	return nil, types.NewClassificationError(types.ErrCodeClassificationFailed,
		"analysis failed - check classifier connectivity", lastErr)
}

const triageSystemPrompt = `You are a medical AI assistant specialized in patient triage. ` +
	`Analyze the patient data and respond with JSON ONLY in this exact shape: ` +
	`{"risk_level": "high|medium|low", "priority_score": <integer 1-10>, ` +
	`"ai_confidence": <float 0.0-1.0>, "primary_concerns": ["..."], ` +
	`"recommendations": "...", "reasoning": "..."}`

// buildTriagePrompt renders the patient payload for the model
func buildTriagePrompt(patient *types.PatientData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient: %d year old %s\n", patient.Age, patient.Gender)
	fmt.Fprintf(&b, "Symptoms: %s\n", patient.Symptoms)
	fmt.Fprintf(&b, "Vitals: BP %.0f/%.0f, HR %.0f, Temp %.1fF, SpO2 %.0f%%, RR %.0f\n",
		patient.Vitals.Systolic, patient.Vitals.Diastolic, patient.Vitals.HeartRate,
		patient.Vitals.Temperature, patient.Vitals.SpO2, patient.Vitals.RespiratoryRate)
	if len(patient.Conditions) > 0 {
		fmt.Fprintf(&b, "Pre-existing conditions: %s\n", strings.Join(patient.Conditions, ", "))
	}
	return b.String()
}

// stripCodeFence removes a markdown code fence some models wrap JSON in
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
