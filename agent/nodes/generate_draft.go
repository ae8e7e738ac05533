package assistantnode

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
)

// GenerateDraft writes the patient-facing reply from the action outcome.
// Runs that already carry a canned draft (NEED_INFO and escalations) keep it;
// drafting over a follow-up question would silently flip the run to READY.
func GenerateDraft(
	ctx context.Context,
	st *statex.RunState,
	drafter contractx.Drafter,
	nowFn func() time.Time,
) (*statex.RunState, error) {
	if st == nil {
		return nil, statex.ErrNilRunState
	}
	st.Visit(NodeGenerateDraft, nowFn())

	if st.Status == contractx.StatusNeedInfo || st.Status == contractx.StatusEscalate {
		log.Debug().
			Str("run_id", st.RunID).
			Str("status", string(st.Status)).
			Msg("keeping canned draft")
		return st, nil
	}

	draft, err := drafter.Draft(ctx, contractx.DraftRequest{
		UserMessage:  st.UserInput,
		Intent:       st.Intent,
		ActionResult: st.ActionResult,
	})
	if err != nil {
		return nil, err
	}

	st.DraftResponse = draft
	st.Status = contractx.StatusReady
	log.Info().Str("run_id", st.RunID).Int("draft_len", len(draft)).Msg("draft generated")
	return st, nil
}
