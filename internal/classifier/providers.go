package classifier

import (
	"fmt"

	"github.com/balaji0322/smart-ai-triage/pkg/config"
	"github.com/balaji0322/smart-ai-triage/pkg/interfaces"
	"github.com/balaji0322/smart-ai-triage/pkg/logger"
)

// New selects a classifier implementation by configured provider
func New(cfg *config.ClassifierConfig, log *logger.Logger) (interfaces.Classifier, error) {
	switch cfg.Provider {
	case "http":
		return NewHTTPClassifier(cfg, log), nil
	case "openai":
		return NewOpenAIClassifier(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider: %s", cfg.Provider)
	}
}
