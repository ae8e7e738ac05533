package assistantnode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	appointmentx "github.com/napatw/CareLine-Appointment-Assistant/agent/appointment"
	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
	toolx "github.com/napatw/CareLine-Appointment-Assistant/agent/tool"
)

// ExecuteAction runs the appointment tool matching the intent and records the
// outcome on the run. Validation already confirmed the appointment exists, so
// a tool-level not-found here means the store changed under us; it still ends
// the run NEED_INFO rather than failing.
func ExecuteAction(
	ctx context.Context,
	st *statex.RunState,
	tools contractx.ToolGateway,
	nowFn func() time.Time,
) (*statex.RunState, error) {
	if st == nil {
		return nil, statex.ErrNilRunState
	}
	st.Visit(NodeExecuteAction, nowFn())

	switch st.Intent {
	case contractx.IntentReschedule:
		return executeTool(ctx, st, tools, contractx.ToolRequest{
			Tool: toolx.ToolReschedule,
			Args: map[string]any{
				"appointment_id": st.AppointmentID,
				"new_date":       st.NewDate,
				"new_time":       st.NewTime,
			},
		})
	case contractx.IntentCancel:
		return executeTool(ctx, st, tools, contractx.ToolRequest{
			Tool: toolx.ToolCancel,
			Args: map[string]any{"appointment_id": st.AppointmentID},
		})
	case contractx.IntentPrepInfo:
		return executePrep(ctx, st, tools)
	default:
		st.ActionResult = unknownHelpResult
		st.RouteTaken = RouteUnknownIntent
		log.Info().Str("run_id", st.RunID).Msg("unknown intent, offering help menu")
		return st, nil
	}
}

func executeTool(
	ctx context.Context,
	st *statex.RunState,
	tools contractx.ToolGateway,
	req contractx.ToolRequest,
) (*statex.RunState, error) {
	res, err := tools.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		log.Warn().
			Str("run_id", st.RunID).
			Str("tool", req.Tool).
			Str("tool_error", res.Error).
			Msg("tool reported failure")
		st.NeedInfo(notFoundRoute(st.Intent), notFoundReply)
		return st, nil
	}

	st.ActionResult = fmt.Sprintf("%v", res.Result)
	st.RouteTaken = successRoute(st.Intent)
	log.Info().
		Str("run_id", st.RunID).
		Str("tool", req.Tool).
		Str("route", st.RouteTaken).
		Msg("action executed")
	return st, nil
}

// executePrep resolves the appointment first because preparation
// instructions are keyed by appointment type, not id.
func executePrep(ctx context.Context, st *statex.RunState, tools contractx.ToolGateway) (*statex.RunState, error) {
	lookup, err := tools.Execute(ctx, contractx.ToolRequest{
		Tool: toolx.ToolLookup,
		Args: map[string]any{
			"appointment_id": st.AppointmentID,
			"patient_id":     st.PatientID,
		},
	})
	if err != nil {
		return nil, err
	}
	if lookup.Error != "" {
		st.NeedInfo(notFoundRoute(st.Intent), notFoundReply)
		return st, nil
	}
	apt, ok := lookup.Result.(*appointmentx.Appointment)
	if !ok {
		return nil, fmt.Errorf("%w: lookup returned %T", contractx.ErrSchemaViolation, lookup.Result)
	}

	prep, err := tools.Execute(ctx, contractx.ToolRequest{
		Tool: toolx.ToolPrepInstructions,
		Args: map[string]any{"appointment_type": apt.Type},
	})
	if err != nil {
		return nil, err
	}

	st.ActionResult = fmt.Sprintf("Preparation instructions for your %s on %s at %s: %v",
		apt.Type, apt.Date, apt.Time, prep.Result)
	st.RouteTaken = successRoute(st.Intent)
	log.Info().
		Str("run_id", st.RunID).
		Str("appointment_type", apt.Type).
		Msg("preparation instructions resolved")
	return st, nil
}
