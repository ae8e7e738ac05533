package assistantnode

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
)

// ClassifyIntent asks the LLM for the intent and any identifiers in the
// message and copies the sanitized result onto the run.
func ClassifyIntent(
	ctx context.Context,
	st *statex.RunState,
	classifier contractx.Classifier,
	nowFn func() time.Time,
) (*statex.RunState, error) {
	if st == nil {
		return nil, statex.ErrNilRunState
	}
	st.Visit(NodeClassifyIntent, nowFn())

	out, err := classifier.Classify(ctx, st.UserInput)
	if err != nil {
		return nil, err
	}

	st.Intent = out.Intent
	st.AppointmentID = out.AppointmentID
	st.PatientID = out.PatientID
	st.NewDate = out.NewDate
	st.NewTime = out.NewTime

	// The raw patient id never reaches a log line.
	maskedPatientID := ""
	if st.PatientID != "" {
		maskedPatientID = "P-***"
	}
	log.Info().
		Str("run_id", st.RunID).
		Str("intent", string(st.Intent)).
		Str("appointment_id", st.AppointmentID).
		Str("patient_id", maskedPatientID).
		Str("new_date", st.NewDate).
		Str("new_time", st.NewTime).
		Msg("intent classified")
	return st, nil
}
