package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

// Identifier formats the classifier is allowed to hand back. Anything the
// model invents outside these shapes is dropped rather than trusted.
var (
	appointmentIDPattern = regexp.MustCompile(`^APT-\d{4,}$`)
	patientIDPattern     = regexp.MustCompile(`^P-\d{3,}$`)
	datePattern          = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern          = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

type classifierLLMOutput struct {
	Intent        string `json:"intent"`
	AppointmentID string `json:"appointment_id,omitempty"`
	PatientID     string `json:"patient_id,omitempty"`
	NewDate       string `json:"new_date,omitempty"`
	NewTime       string `json:"new_time,omitempty"`
}

// Classifier maps a free-text patient message to an intent plus extracted
// identifiers via a structured LLM graph.
type Classifier struct {
	runner compose.Runnable[map[string]any, classifierLLMOutput]
}

var _ contractx.Classifier = (*Classifier)(nil)

func NewClassifier(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*Classifier, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: classifier prompt", contractx.ErrPromptMissing)
	}
	runner, err := compileStructuredLLMGraph[classifierLLMOutput](ctx, chatModel, systemPrompt, "classifier.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile classifier graph: %v", contractx.ErrModelInvoke, err)
	}
	return &Classifier{runner: runner}, nil
}

func (c *Classifier) Classify(ctx context.Context, userMessage string) (contractx.Classification, error) {
	if strings.TrimSpace(userMessage) == "" {
		return contractx.Classification{}, fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	payload := map[string]any{"user_message": userMessage}
	inputBytes, err := json.Marshal(payload)
	if err != nil {
		return contractx.Classification{}, fmt.Errorf("%w: marshal classifier payload: %v", contractx.ErrValidation, err)
	}

	out, err := c.runner.Invoke(ctx, map[string]any{
		"input": string(inputBytes),
	})
	if err != nil {
		return contractx.Classification{}, fmt.Errorf("%w: classifier invoke: %v", contractx.ErrModelInvoke, err)
	}

	return contractx.Classification{
		Intent:        contractx.ParseIntent(strings.TrimSpace(out.Intent)),
		AppointmentID: sanitize(out.AppointmentID, appointmentIDPattern),
		PatientID:     sanitize(out.PatientID, patientIDPattern),
		NewDate:       sanitize(out.NewDate, datePattern),
		NewTime:       sanitize(out.NewTime, timePattern),
	}, nil
}

// sanitize keeps a value only when it matches the expected shape; the NONE
// sentinel some models emit counts as absent.
func sanitize(raw string, pattern *regexp.Regexp) string {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "none") {
		return ""
	}
	if !pattern.MatchString(v) {
		return ""
	}
	return v
}
