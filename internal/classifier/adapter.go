package classifier

import (
	"strings"
	"time"

	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// Schema identifies which classifier response shape an adapter handles.
// The two upstream contracts are genuinely different; selection is always
// explicit, never inferred from which fields happen to be present.
type Schema string

const (
	// SchemaLegacy is the minimal shape: risk_level, ai_confidence,
	// priority_score, recommendations, created_at.
	SchemaLegacy Schema = "legacy"

	// SchemaStructured is the full analysis shape with departments,
	// contributing factors, probabilities and actions.
	SchemaStructured Schema = "structured"
)

// LegacyResponse is the wire shape of the minimal classifier contract
type LegacyResponse struct {
	RiskLevel       string    `json:"risk_level"`
	AIConfidence    float64   `json:"ai_confidence"`
	PriorityScore   int       `json:"priority_score"`
	Recommendations string    `json:"recommendations"`
	PrimaryConcerns []string  `json:"primary_concerns,omitempty"`
	Reasoning       string    `json:"reasoning,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// StructuredResponse is the wire shape of the full classifier contract
type StructuredResponse struct {
	RiskLevel  string  `json:"riskLevel"`
	Confidence float64 `json:"confidence"`
	Priority   string  `json:"priority"`
	Department struct {
		Primary        string `json:"primary"`
		Secondary      string `json:"secondary,omitempty"`
		Reasoning      string `json:"reasoning"`
		ActionTimeline string `json:"actionTimeline"`
	} `json:"department"`
	ContributingFactors []struct {
		Factor    string  `json:"factor"`
		Influence float64 `json:"influence"`
	} `json:"contributingFactors"`
	ClinicalReasoning []string `json:"clinicalReasoning"`
	Probabilities     struct {
		High   float64 `json:"high"`
		Medium float64 `json:"medium"`
		Low    float64 `json:"low"`
	} `json:"probabilities"`
	RecommendedActions []string  `json:"recommendedActions"`
	Timestamp          time.Time `json:"timestamp,omitempty"`
}

// AdaptLegacy maps the minimal classifier response into the internal
// analysis shape. Fields the legacy contract cannot provide are synthesized
// from what it does provide; populated upstream fields are never replaced by
// placeholders. An unrecognized risk level is a validation error, never a
// silent default.
func AdaptLegacy(resp *LegacyResponse) (*types.AnalysisResult, error) {
	risk, timeline, probs, err := mapLegacyRisk(resp.RiskLevel)
	if err != nil {
		return nil, err
	}

	factors := []types.ContributingFactor{
		{Factor: "Vital Signs", Influence: 0.8},
		{Factor: "Symptoms", Influence: 0.7},
	}
	if len(resp.PrimaryConcerns) > 0 {
		factors = make([]types.ContributingFactor, 0, len(resp.PrimaryConcerns))
		for _, concern := range resp.PrimaryConcerns {
			factors = append(factors, types.ContributingFactor{Factor: concern, Influence: 0.7})
		}
	}

	reasoning := []string{resp.Recommendations}
	if resp.Reasoning != "" {
		reasoning = []string{resp.Reasoning}
	}

	ts := resp.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	return &types.AnalysisResult{
		RiskLevel:  risk,
		Confidence: resp.AIConfidence * 100,
		Priority:   mapPriorityScore(resp.PriorityScore),
		Department: types.DepartmentRecommendation{
			Primary:        "Emergency",
			Secondary:      "General Medicine",
			Reasoning:      resp.Recommendations,
			ActionTimeline: timeline,
		},
		ContributingFactors: factors,
		ClinicalReasoning:   reasoning,
		Probabilities:       probs,
		RecommendedActions:  []string{resp.Recommendations},
		Timestamp:           ts,
	}, nil
}

// AdaptStructured maps the full classifier response into the internal
// analysis shape. No placeholder synthesis happens on this path; only the
// timestamp is defaulted when the classifier omits it.
func AdaptStructured(resp *StructuredResponse) (*types.AnalysisResult, error) {
	risk := types.RiskLevel(strings.ToUpper(resp.RiskLevel))
	if !risk.Valid() {
		return nil, types.NewValidationError(types.ErrCodeUnknownRiskLevel,
			"unrecognized risk level: "+resp.RiskLevel,
			map[string]interface{}{"risk_level": resp.RiskLevel, "schema": string(SchemaStructured)})
	}

	factors := make([]types.ContributingFactor, 0, len(resp.ContributingFactors))
	for _, f := range resp.ContributingFactors {
		factors = append(factors, types.ContributingFactor{Factor: f.Factor, Influence: f.Influence})
	}

	ts := resp.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return &types.AnalysisResult{
		RiskLevel:  risk,
		Confidence: resp.Confidence,
		Priority:   resp.Priority,
		Department: types.DepartmentRecommendation{
			Primary:        resp.Department.Primary,
			Secondary:      resp.Department.Secondary,
			Reasoning:      resp.Department.Reasoning,
			ActionTimeline: resp.Department.ActionTimeline,
		},
		ContributingFactors: factors,
		ClinicalReasoning:   resp.ClinicalReasoning,
		Probabilities: types.Probabilities{
			High:   resp.Probabilities.High,
			Medium: resp.Probabilities.Medium,
			Low:    resp.Probabilities.Low,
		},
		RecommendedActions: resp.RecommendedActions,
		Timestamp:          ts,
	}, nil
}

// mapPriorityScore maps the conventional 1-10 priority score to a code
func mapPriorityScore(score int) string {
	switch {
	case score <= 3:
		return "P1"
	case score <= 6:
		return "P2"
	default:
		return "P3"
	}
}

// mapLegacyRisk translates the legacy risk string into the internal tier,
// its action timeline, and the derived probability triple
func mapLegacyRisk(riskLevel string) (types.RiskLevel, string, types.Probabilities, error) {
	switch strings.ToLower(riskLevel) {
	case "high":
		return types.RiskHigh, "IMMEDIATE", types.Probabilities{High: 0.8, Medium: 0.2, Low: 0.1}, nil
	case "medium":
		return types.RiskMedium, "15-30 mins", types.Probabilities{High: 0.2, Medium: 0.7, Low: 0.1}, nil
	case "low":
		return types.RiskLow, "1-2 hours", types.Probabilities{High: 0.2, Medium: 0.2, Low: 0.8}, nil
	default:
		return "", "", types.Probabilities{}, types.NewValidationError(types.ErrCodeUnknownRiskLevel,
			"unrecognized risk level: "+riskLevel,
			map[string]interface{}{"risk_level": riskLevel, "schema": string(SchemaLegacy)})
	}
}
