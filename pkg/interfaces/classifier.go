package interfaces

import (
	"context"

	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// Classifier defines the interface to the external risk classification
// service. Implementations perform the only I/O in the triage path and must
// honor ctx cancellation and deadlines. A failed or timed-out call returns a
// classification error, never a fabricated result.
type Classifier interface {
	Classify(ctx context.Context, patient *types.PatientData) (*types.AnalysisResult, error)
}
