package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

// Drafter turns an executed action into the patient-facing reply.
type Drafter struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.Drafter = (*Drafter)(nil)

func NewDrafter(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*Drafter, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: drafter prompt", contractx.ErrPromptMissing)
	}
	runner, err := compileMessageGraph(ctx, chatModel, systemPrompt, "drafter.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile drafter graph: %v", contractx.ErrModelInvoke, err)
	}
	return &Drafter{runner: runner}, nil
}

func (d *Drafter) Draft(ctx context.Context, req contractx.DraftRequest) (string, error) {
	payload := map[string]any{
		"user_message":  req.UserMessage,
		"intent":        req.Intent,
		"action_result": req.ActionResult,
	}
	inputBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal drafter payload: %v", contractx.ErrValidation, err)
	}

	msg, err := d.runner.Invoke(ctx, map[string]any{
		"input": string(inputBytes),
	})
	if err != nil {
		return "", fmt.Errorf("%w: drafter invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: drafter returned no message", contractx.ErrSchemaViolation)
	}

	draft := strings.TrimSpace(msg.Content)
	if draft == "" {
		return "", fmt.Errorf("%w: drafter returned empty reply", contractx.ErrSchemaViolation)
	}
	return draft, nil
}
