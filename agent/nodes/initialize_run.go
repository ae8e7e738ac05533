package assistantnode

import (
	"time"

	"github.com/rs/zerolog/log"

	middlewarex "github.com/napatw/CareLine-Appointment-Assistant/agent/middleware"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
)

// InitializeRun validates the incoming message and opens the run with a
// fresh run id. User input is always masked before it reaches a log line.
func InitializeRun(
	in GraphInput,
	masker *middlewarex.PIIMasker,
	newRunID func() string,
	nowFn func() time.Time,
) (*statex.RunState, error) {
	now := nowFn()
	st, err := statex.NewRunState(newRunID(), in.Text, now)
	if err != nil {
		return nil, err
	}
	st.Visit(NodeInitializeRun, now)

	log.Info().
		Str("run_id", st.RunID).
		Str("input", masker.Mask(st.UserInput)).
		Msg("run started")
	return st, nil
}
