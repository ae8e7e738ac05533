package assistantnode

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	middlewarex "github.com/napatw/CareLine-Appointment-Assistant/agent/middleware"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
)

// FinalizeOutput closes the run: it fills defensive fallbacks, snapshots the
// LLM call count, notifies staff on escalations, and emits the run report.
// A notifier failure is logged, never surfaced to the patient.
func FinalizeOutput(
	ctx context.Context,
	st *statex.RunState,
	notifier contractx.Notifier,
	nowFn func() time.Time,
) (GraphOutput, error) {
	if st == nil {
		return GraphOutput{}, statex.ErrNilRunState
	}
	now := nowFn()
	st.Visit(NodeFinalizeOutput, now)

	if st.FinalResponse == "" {
		st.FinalResponse = st.DraftResponse
	}
	if st.FinalResponse == "" {
		st.FinalResponse = "No response generated."
	}
	if st.Status == "" {
		st.Status = contractx.StatusReady
	}
	if st.RouteTaken == "" {
		st.RouteTaken = "unknown"
	}
	if limiter := middlewarex.CallLimiterFrom(ctx); limiter != nil {
		st.LLMCalls = limiter.Count()
	}

	if st.Status == contractx.StatusEscalate && notifier != nil {
		err := notifier.NotifyEscalation(ctx, contractx.Escalation{
			RunID:      st.RunID,
			Route:      st.RouteTaken,
			Reason:     st.FinalResponse,
			OccurredAt: now.UTC(),
		})
		if err != nil {
			log.Error().Err(err).Str("run_id", st.RunID).Msg("escalation notify failed")
		}
	}

	out := GraphOutput{
		RunID:         st.RunID,
		Status:        st.Status,
		Route:         st.RouteTaken,
		HITLAction:    st.HITLAction,
		DraftResponse: st.DraftResponse,
		FinalResponse: st.FinalResponse,
		Trace:         st.Trace,
		TraceSummary:  st.TraceSummary(),
		LLMCalls:      st.LLMCalls,
	}

	log.Info().
		Str("run_id", out.RunID).
		Str("status", string(out.Status)).
		Str("route", out.Route).
		Str("hitl_action", string(out.HITLAction)).
		Int("llm_calls", out.LLMCalls).
		Str("trace", out.TraceSummary).
		Msg("run finished")
	return out, nil
}
