package assistantnode

import (
	"time"

	"github.com/rs/zerolog/log"

	middlewarex "github.com/napatw/CareLine-Appointment-Assistant/agent/middleware"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
)

// ScreenInput runs the PII and moderation screens before any LLM sees the
// message. Flagged content escalates straight to human review; PII findings
// and profanity only produce log notes.
func ScreenInput(
	st *statex.RunState,
	masker *middlewarex.PIIMasker,
	nowFn func() time.Time,
) (*statex.RunState, error) {
	if st == nil {
		return nil, statex.ErrNilRunState
	}
	st.Visit(NodeScreenInput, nowFn())

	if found := masker.Detect(st.UserInput); len(found) > 0 {
		log.Warn().
			Str("run_id", st.RunID).
			Strs("kinds", found).
			Msg("pii detected in input, masking in logs")
	}

	verdict := middlewarex.ScreenMessage(st.UserInput)
	switch {
	case verdict.Flagged:
		log.Warn().Str("run_id", st.RunID).Msg("moderation flagged input")
		st.Escalate(RouteModerationFlagged, middlewarex.ModerationReply)
	case verdict.Profanity:
		log.Info().Str("run_id", st.RunID).Msg("mild language detected, proceeding")
	default:
		log.Debug().Str("run_id", st.RunID).Msg("input passed moderation")
	}
	return st, nil
}
