package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	appointmentx "github.com/napatw/CareLine-Appointment-Assistant/agent/appointment"
	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	middlewarex "github.com/napatw/CareLine-Appointment-Assistant/agent/middleware"
	nodex "github.com/napatw/CareLine-Appointment-Assistant/agent/nodes"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
)

var ErrEmptyMessage = statex.ErrEmptyMessage

type Config struct {
	// MaxLLMCalls caps model invocations per run. Zero means the default.
	MaxLLMCalls int
}

// Assistant runs the appointment-request workflow. The graph is compiled once
// at construction; each HandleRequest invocation gets its own run state and
// call budget.
type Assistant struct {
	store      appointmentx.Store
	tools      contractx.ToolGateway
	classifier contractx.Classifier
	drafter    contractx.Drafter
	reviewer   contractx.Reviewer
	notifier   contractx.Notifier
	masker     *middlewarex.PIIMasker

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	maxLLMCalls int

	now      func() time.Time
	newRunID func() string
}

func New(
	store appointmentx.Store,
	tools contractx.ToolGateway,
	classifier contractx.Classifier,
	drafter contractx.Drafter,
	reviewer contractx.Reviewer,
	notifier contractx.Notifier,
	cfg Config,
) (*Assistant, error) {
	if store == nil {
		return nil, errors.New("appointment store is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if drafter == nil {
		return nil, errors.New("drafter is required")
	}
	if reviewer == nil {
		return nil, errors.New("reviewer is required")
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}

	maxCalls := cfg.MaxLLMCalls
	if maxCalls <= 0 {
		maxCalls = middlewarex.DefaultMaxLLMCalls
	}

	names, err := store.PatientNames(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load patient names for masking: %w", err)
	}

	a := &Assistant{
		store:       store,
		tools:       tools,
		classifier:  classifier,
		drafter:     drafter,
		reviewer:    reviewer,
		notifier:    notifier,
		masker:      middlewarex.NewPIIMasker(names),
		maxLLMCalls: maxCalls,
		now:         time.Now,
		newRunID:    defaultRunID,
	}

	graphRunner, err := a.compileHandleRequestGraph(context.Background())
	if err != nil {
		return nil, err
	}
	a.graphRunner = graphRunner

	return a, nil
}

// HandleRequest runs one patient message through the full workflow and
// returns the run report.
func (a *Assistant) HandleRequest(ctx context.Context, text string) (nodex.GraphOutput, error) {
	ctx = middlewarex.WithCallLimiter(ctx, middlewarex.NewCallLimiter(a.maxLLMCalls))
	return a.graphRunner.Invoke(ctx, nodex.GraphInput{Text: text})
}

// FinalizeRequest carries the reviewer decision for a run that was handled
// with a deferring reviewer (two-phase flow).
type FinalizeRequest struct {
	RunID      string                 `json:"run_id"`
	Route      string                 `json:"route"`
	Draft      string                 `json:"draft"`
	Action     contractx.ReviewAction `json:"action"`
	EditedText string                 `json:"edited_text,omitempty"`
}

// FinalizeResult is the released reply after the reviewer decision is applied.
type FinalizeResult struct {
	RunID         string                 `json:"run_id"`
	Status        contractx.Status       `json:"status"`
	HITLAction    contractx.ReviewAction `json:"hitl_action"`
	FinalResponse string                 `json:"final_response"`
}

// Finalize applies a deferred reviewer decision to a run's draft. Rejections
// escalate and notify staff the same way an inline reject would.
func (a *Assistant) Finalize(ctx context.Context, req FinalizeRequest) (FinalizeResult, error) {
	if strings.TrimSpace(req.RunID) == "" {
		return FinalizeResult{}, fmt.Errorf("%w: run id is required", contractx.ErrValidation)
	}

	res := FinalizeResult{
		RunID:      req.RunID,
		Status:     contractx.StatusReady,
		HITLAction: req.Action,
	}

	switch req.Action {
	case contractx.ReviewApprove:
		res.FinalResponse = req.Draft
	case contractx.ReviewEdit:
		edited := strings.TrimSpace(req.EditedText)
		if edited == "" {
			edited = req.Draft
		}
		res.FinalResponse = edited
	case contractx.ReviewReject:
		res.FinalResponse = nodex.RejectedReply
		res.Status = contractx.StatusEscalate
		err := a.notifier.NotifyEscalation(ctx, contractx.Escalation{
			RunID:      req.RunID,
			Route:      req.Route,
			Reason:     "draft rejected by reviewer",
			OccurredAt: a.now().UTC(),
		})
		if err != nil {
			log.Error().Err(err).Str("run_id", req.RunID).Msg("escalation notify failed")
		}
	default:
		return FinalizeResult{}, fmt.Errorf("%w: review action %q", contractx.ErrValidation, req.Action)
	}

	log.Info().
		Str("run_id", res.RunID).
		Str("action", string(res.HITLAction)).
		Str("status", string(res.Status)).
		Msg("run finalized")
	return res, nil
}

func defaultRunID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "RUN-" + strings.ToUpper(raw[:8])
}

type noopNotifier struct{}

func (noopNotifier) NotifyEscalation(context.Context, contractx.Escalation) error { return nil }
