package llm

import (
	"context"
	"fmt"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	middlewarex "github.com/napatw/CareLine-Appointment-Assistant/agent/middleware"
	promptx "github.com/napatw/CareLine-Appointment-Assistant/agent/prompt"
)

// Suite bundles the two LLM roles the workflow needs. Each role gets its own
// chat model (per-role overrides apply) wrapped in the retry/call-budget
// middleware.
type Suite struct {
	classifier *Classifier
	drafter    *Drafter
}

func NewSuite(ctx context.Context, cfg Config, retryOpts ...middlewarex.RetryOption) (*Suite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()

	classifierModelCfg := cfg.OpenRouterFor(RoleClassifier)
	classifierModel, err := classifierModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create classifier model: %v", contractx.ErrModelInvoke, err)
	}
	drafterModelCfg := cfg.OpenRouterFor(RoleDrafter)
	drafterModel, err := drafterModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create drafter model: %v", contractx.ErrModelInvoke, err)
	}

	classifier, err := NewClassifier(ctx, middlewarex.WrapModel(classifierModel, retryOpts...), prompts.Classifier)
	if err != nil {
		return nil, err
	}
	drafter, err := NewDrafter(ctx, middlewarex.WrapModel(drafterModel, retryOpts...), prompts.Drafter)
	if err != nil {
		return nil, err
	}

	return &Suite{classifier: classifier, drafter: drafter}, nil
}

func (s *Suite) Classifier() contractx.Classifier {
	return s.classifier
}

func (s *Suite) Drafter() contractx.Drafter {
	return s.drafter
}
