package tool

import (
	"context"
	"strings"
	"testing"

	appointmentx "github.com/napatw/CareLine-Appointment-Assistant/agent/appointment"
	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

type fakeStore struct {
	apt         *appointmentx.Appointment
	lookupErr   error
	rescheduled bool
	cancelled   bool
}

func (f *fakeStore) Lookup(ctx context.Context, appointmentID, patientID string) (*appointmentx.Appointment, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.apt, nil
}

func (f *fakeStore) Reschedule(ctx context.Context, appointmentID, newDate, newTime string) (appointmentx.RescheduleResult, error) {
	if f.apt == nil || f.apt.ID != appointmentID {
		return appointmentx.RescheduleResult{}, appointmentx.ErrNotFound
	}
	f.rescheduled = true
	res := appointmentx.RescheduleResult{OldDate: f.apt.Date, OldTime: f.apt.Time}
	f.apt.Date = newDate
	f.apt.Time = newTime
	f.apt.Status = appointmentx.StatusRescheduled
	res.Appointment = f.apt
	return res, nil
}

func (f *fakeStore) Cancel(ctx context.Context, appointmentID string) (*appointmentx.Appointment, error) {
	if f.apt == nil || f.apt.ID != appointmentID {
		return nil, appointmentx.ErrNotFound
	}
	f.cancelled = true
	f.apt.Status = appointmentx.StatusCancelled
	return f.apt, nil
}

func (f *fakeStore) PrepInstructions(ctx context.Context, appointmentType string) (string, error) {
	if appointmentType != "MRI Scan" {
		return "", appointmentx.ErrNoInstructions
	}
	return "Remove all metal objects.", nil
}

func (f *fakeStore) PatientNames(ctx context.Context) ([]string, error) {
	return []string{"Sarah Johnson"}, nil
}

func sampleAppointment() *appointmentx.Appointment {
	return &appointmentx.Appointment{
		ID:          "APT-1001",
		PatientID:   "P-201",
		PatientName: "Sarah Johnson",
		Type:        "MRI Scan",
		Date:        "2026-03-10",
		Time:        "10:30",
		Doctor:      "Dr. Patel",
		Status:      appointmentx.StatusConfirmed,
	}
}

func TestGatewayReschedule(t *testing.T) {
	t.Parallel()

	store := &fakeStore{apt: sampleAppointment()}
	gw, err := NewGateway(store)
	if err != nil {
		t.Fatalf("NewGateway() error = %v", err)
	}

	res, err := gw.Execute(context.Background(), contractx.ToolRequest{
		Tool: ToolReschedule,
		Args: map[string]any{
			"appointment_id": "APT-1001",
			"new_date":       "2026-03-15",
			"new_time":       "14:00",
		},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	msg, _ := res.Result.(string)
	if !strings.Contains(msg, "rescheduled from 2026-03-10 at 10:30 to 2026-03-15 at 14:00") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if !store.rescheduled {
		t.Fatal("store not mutated")
	}
}

func TestGatewayCancelNotFound(t *testing.T) {
	t.Parallel()

	gw, _ := NewGateway(&fakeStore{})
	res, err := gw.Execute(context.Background(), contractx.ToolRequest{
		Tool: ToolCancel,
		Args: map[string]any{"appointment_id": "APT-9999"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(res.Error, "not found") {
		t.Fatalf("expected not-found error text, got %q", res.Error)
	}
}

func TestGatewayPrepInstructionsFallback(t *testing.T) {
	t.Parallel()

	gw, _ := NewGateway(&fakeStore{})
	res, err := gw.Execute(context.Background(), contractx.ToolRequest{
		Tool: ToolPrepInstructions,
		Args: map[string]any{"appointment_type": "Brain Surgery"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	msg, _ := res.Result.(string)
	if !strings.Contains(msg, "No preparation instructions found") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestGatewayUnknownTool(t *testing.T) {
	t.Parallel()

	gw, _ := NewGateway(&fakeStore{})
	res, err := gw.Execute(context.Background(), contractx.ToolRequest{Tool: "math.evaluate"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Error == "" {
		t.Fatal("unknown tool should report an error result")
	}
}
