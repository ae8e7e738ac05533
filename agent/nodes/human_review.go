package assistantnode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
)

// HumanReview gates every outbound reply behind a reviewer decision. No text
// reaches the patient without an approve, an edit, or an explicit deferral to
// the two-phase flow.
func HumanReview(
	ctx context.Context,
	st *statex.RunState,
	reviewer contractx.Reviewer,
	nowFn func() time.Time,
) (*statex.RunState, error) {
	if st == nil {
		return nil, statex.ErrNilRunState
	}
	st.Visit(NodeHumanReview, nowFn())

	decision, err := reviewer.Review(ctx, contractx.ReviewRequest{
		RunID:  st.RunID,
		Status: st.Status,
		Route:  st.RouteTaken,
		Draft:  st.DraftResponse,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrReviewAborted, err)
	}

	st.HITLAction = decision.Action
	switch decision.Action {
	case contractx.ReviewApprove:
		st.FinalResponse = st.DraftResponse
	case contractx.ReviewEdit:
		edited := strings.TrimSpace(decision.EditedText)
		if edited == "" {
			edited = st.DraftResponse
		}
		st.HITLEditedResponse = edited
		st.FinalResponse = edited
	case contractx.ReviewReject:
		st.FinalResponse = RejectedReply
		st.Status = contractx.StatusEscalate
	case contractx.ReviewPending:
		// Two-phase flow: the draft goes back to the operator and the run
		// finishes later through Finalize.
	default:
		return nil, fmt.Errorf("%w: review action %q", contractx.ErrSchemaViolation, decision.Action)
	}

	log.Info().
		Str("run_id", st.RunID).
		Str("action", string(decision.Action)).
		Msg("review decision recorded")
	return st, nil
}
