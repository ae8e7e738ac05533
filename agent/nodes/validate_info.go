package assistantnode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	appointmentx "github.com/napatw/CareLine-Appointment-Assistant/agent/appointment"
	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
)

const rescheduleNeedSlotFmt = "I found your appointment (%s) for %s on %s at %s with %s. " +
	"What new date and time would you like to reschedule to?"

// ValidateInfo checks the run has everything the action layer needs:
// an identifier, an appointment that actually exists, and for reschedules
// a target slot. Anything missing ends the run NEED_INFO with a follow-up
// question instead of a failed action.
func ValidateInfo(
	ctx context.Context,
	st *statex.RunState,
	store appointmentx.Store,
	nowFn func() time.Time,
) (*statex.RunState, error) {
	if st == nil {
		return nil, statex.ErrNilRunState
	}
	st.Visit(NodeValidateInfo, nowFn())

	switch st.Intent {
	case contractx.IntentReschedule, contractx.IntentCancel, contractx.IntentPrepInfo:
	default:
		// Unknown intents carry nothing to validate.
		return st, nil
	}

	if !st.HasIdentifier() {
		log.Info().
			Str("run_id", st.RunID).
			Str("intent", string(st.Intent)).
			Msg("missing identifier, asking patient")
		st.NeedInfo(needInfoRoute(st.Intent), askIDReply(st.Intent))
		return st, nil
	}

	apt, err := store.Lookup(ctx, st.AppointmentID, st.PatientID)
	if err != nil {
		if errors.Is(err, appointmentx.ErrNotFound) {
			log.Info().
				Str("run_id", st.RunID).
				Str("intent", string(st.Intent)).
				Msg("no matching appointment")
			st.NeedInfo(notFoundRoute(st.Intent), notFoundReply)
			return st, nil
		}
		return nil, err
	}

	// Resolve the appointment id so the action layer never needs the
	// patient-id lookup path again.
	st.AppointmentID = apt.ID

	if st.Intent == contractx.IntentReschedule && (st.NewDate == "" || st.NewTime == "") {
		log.Info().Str("run_id", st.RunID).Msg("reschedule missing target slot")
		st.NeedInfo(RouteRescheduleNeedSlot,
			fmt.Sprintf(rescheduleNeedSlotFmt, apt.ID, apt.Type, apt.Date, apt.Time, apt.Doctor))
		return st, nil
	}

	return st, nil
}

func askIDReply(intent contractx.Intent) string {
	switch intent {
	case contractx.IntentCancel:
		return askIDCancel
	case contractx.IntentPrepInfo:
		return askIDPrep
	default:
		return askIDReschedule
	}
}
