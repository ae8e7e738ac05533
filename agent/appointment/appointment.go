package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrNoInstructions = errors.New("no preparation instructions for appointment type")
)

// Appointment statuses as stored.
const (
	StatusConfirmed   = "confirmed"
	StatusRescheduled = "rescheduled"
	StatusCancelled   = "cancelled"
)

type Appointment struct {
	ID          string `json:"id"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Doctor      string `json:"doctor"`
	Status      string `json:"status"`
}

// RescheduleResult reports a completed reschedule, keeping the old slot so
// callers can phrase "moved from X to Y".
type RescheduleResult struct {
	Appointment *Appointment
	OldDate     string
	OldTime     string
}

// Store is the persistence contract for appointment data. Lookup resolves by
// appointment id first, then by patient id; both empty is an error.
type Store interface {
	Lookup(ctx context.Context, appointmentID, patientID string) (*Appointment, error)
	Reschedule(ctx context.Context, appointmentID, newDate, newTime string) (RescheduleResult, error)
	Cancel(ctx context.Context, appointmentID string) (*Appointment, error)
	PrepInstructions(ctx context.Context, appointmentType string) (string, error)
	PatientNames(ctx context.Context) ([]string, error)
}

// Config selects and parameterizes the store backend.
type Config struct {
	Driver      string `split_words:"true" default:"json"`
	Path        string `split_words:"true" default:"data/appointments.json"`
	PostgresDSN string `split_words:"true"`
}

// NewStore builds the configured Store implementation.
func NewStore(cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "json":
		return NewJSONFileStore(cfg.Path)
	case "postgres":
		return NewBunStore(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
