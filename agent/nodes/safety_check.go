package assistantnode

import (
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
)

// SafetyCheck short-circuits emergencies. An emergency intent never reaches
// the action layer; the run escalates with the canned emergency reply.
func SafetyCheck(st *statex.RunState, nowFn func() time.Time) (*statex.RunState, error) {
	if st == nil {
		return nil, statex.ErrNilRunState
	}
	st.Visit(NodeSafetyCheck, nowFn())

	if st.Intent == contractx.IntentEmergency {
		log.Warn().Str("run_id", st.RunID).Msg("emergency intent, escalating")
		st.Escalate(RouteEmergencyEscalation, EmergencyReply)
	}
	return st, nil
}
