package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appointmentx "github.com/napatw/CareLine-Appointment-Assistant/agent/appointment"
	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

// Tool names exposed to the workflow.
const (
	ToolLookup           = "appointment.lookup"
	ToolReschedule       = "appointment.reschedule"
	ToolCancel           = "appointment.cancel"
	ToolPrepInstructions = "appointment.prep_instructions"
)

// Gateway executes appointment tools against the store. It is the only path
// the workflow uses to touch appointment data.
type Gateway struct {
	store appointmentx.Store
}

var _ contractx.ToolGateway = (*Gateway)(nil)

func NewGateway(store appointmentx.Store) (*Gateway, error) {
	if store == nil {
		return nil, errors.New("appointment store is required")
	}
	return &Gateway{store: store}, nil
}

func (g *Gateway) Execute(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	switch req.Tool {
	case ToolLookup:
		return g.lookup(ctx, req)
	case ToolReschedule:
		return g.reschedule(ctx, req)
	case ToolCancel:
		return g.cancel(ctx, req)
	case ToolPrepInstructions:
		return g.prepInstructions(ctx, req)
	default:
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("tool=%s is not available", req.Tool),
		}, nil
	}
}

func stringArg(req contractx.ToolRequest, key string) string {
	raw, ok := req.Args[key]
	if !ok {
		return ""
	}
	s, _ := raw.(string)
	return strings.TrimSpace(s)
}

func (g *Gateway) lookup(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	appointmentID := stringArg(req, "appointment_id")
	patientID := stringArg(req, "patient_id")

	apt, err := g.store.Lookup(ctx, appointmentID, patientID)
	if err != nil {
		if errors.Is(err, appointmentx.ErrNotFound) {
			return contractx.ToolResult{Tool: req.Tool, Error: "appointment not found"}, nil
		}
		return contractx.ToolResult{}, err
	}
	return contractx.ToolResult{Tool: req.Tool, Result: apt}, nil
}

func (g *Gateway) reschedule(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	appointmentID := stringArg(req, "appointment_id")
	newDate := stringArg(req, "new_date")
	newTime := stringArg(req, "new_time")

	res, err := g.store.Reschedule(ctx, appointmentID, newDate, newTime)
	if err != nil {
		if errors.Is(err, appointmentx.ErrNotFound) {
			return contractx.ToolResult{
				Tool:  req.Tool,
				Error: fmt.Sprintf("Appointment %s not found.", appointmentID),
			}, nil
		}
		return contractx.ToolResult{}, err
	}
	return contractx.ToolResult{
		Tool: req.Tool,
		Result: fmt.Sprintf("Appointment %s rescheduled from %s at %s to %s at %s.",
			appointmentID, res.OldDate, res.OldTime, newDate, newTime),
	}, nil
}

func (g *Gateway) cancel(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	appointmentID := stringArg(req, "appointment_id")

	if _, err := g.store.Cancel(ctx, appointmentID); err != nil {
		if errors.Is(err, appointmentx.ErrNotFound) {
			return contractx.ToolResult{
				Tool:  req.Tool,
				Error: fmt.Sprintf("Appointment %s not found.", appointmentID),
			}, nil
		}
		return contractx.ToolResult{}, err
	}
	return contractx.ToolResult{
		Tool:   req.Tool,
		Result: fmt.Sprintf("Appointment %s has been cancelled.", appointmentID),
	}, nil
}

func (g *Gateway) prepInstructions(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	appointmentType := stringArg(req, "appointment_type")

	instructions, err := g.store.PrepInstructions(ctx, appointmentType)
	if err != nil {
		if errors.Is(err, appointmentx.ErrNoInstructions) {
			return contractx.ToolResult{
				Tool:   req.Tool,
				Result: fmt.Sprintf("No preparation instructions found for '%s'.", appointmentType),
			}, nil
		}
		return contractx.ToolResult{}, err
	}
	return contractx.ToolResult{Tool: req.Tool, Result: instructions}, nil
}
