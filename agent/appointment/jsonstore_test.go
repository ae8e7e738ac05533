package appointment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// tempStore copies the fixture into a temp dir so mutations don't leak
// between tests.
func tempStore(t *testing.T) *JSONFileStore {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join("testdata", "appointments.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "appointments.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write fixture copy: %v", err)
	}

	store, err := NewJSONFileStore(path)
	if err != nil {
		t.Fatalf("NewJSONFileStore() error = %v", err)
	}
	return store
}

func TestLookupByAppointmentID(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	apt, err := store.Lookup(context.Background(), "APT-1001", "")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if apt.PatientName != "Sarah Johnson" {
		t.Fatalf("wrong patient: %s", apt.PatientName)
	}
	if apt.Type != "MRI Scan" {
		t.Fatalf("wrong type: %s", apt.Type)
	}
}

func TestLookupByPatientID(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	apt, err := store.Lookup(context.Background(), "", "P-202")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if apt.ID != "APT-1002" {
		t.Fatalf("wrong appointment: %s", apt.ID)
	}
}

func TestLookupNotFound(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	_, err := store.Lookup(context.Background(), "APT-9999", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = store.Lookup(context.Background(), "", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty identifiers should be not-found, got %v", err)
	}
}

func TestRescheduleUpdatesSlotAndStatus(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	res, err := store.Reschedule(context.Background(), "APT-1004", "2026-04-01", "09:00")
	if err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}
	if res.OldDate != "2026-03-22" || res.OldTime != "09:45" {
		t.Fatalf("old slot not captured: %s %s", res.OldDate, res.OldTime)
	}

	apt, err := store.Lookup(context.Background(), "APT-1004", "")
	if err != nil {
		t.Fatalf("Lookup() after reschedule error = %v", err)
	}
	if apt.Date != "2026-04-01" || apt.Time != "09:00" {
		t.Fatalf("slot not updated: %s %s", apt.Date, apt.Time)
	}
	if apt.Status != StatusRescheduled {
		t.Fatalf("status = %s", apt.Status)
	}
}

func TestCancelMarksStatus(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	apt, err := store.Cancel(context.Background(), "APT-1004")
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if apt.Status != StatusCancelled {
		t.Fatalf("status = %s", apt.Status)
	}

	reloaded, err := store.Lookup(context.Background(), "APT-1004", "")
	if err != nil {
		t.Fatalf("Lookup() after cancel error = %v", err)
	}
	if reloaded.Status != StatusCancelled {
		t.Fatalf("persisted status = %s", reloaded.Status)
	}
}

func TestPrepInstructions(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	instructions, err := store.PrepInstructions(context.Background(), "MRI Scan")
	if err != nil {
		t.Fatalf("PrepInstructions() error = %v", err)
	}
	lower := strings.ToLower(instructions)
	if !strings.Contains(lower, "metal") || !strings.Contains(lower, "eat") {
		t.Fatalf("unexpected instructions: %q", instructions)
	}

	_, err = store.PrepInstructions(context.Background(), "Brain Surgery")
	if !errors.Is(err, ErrNoInstructions) {
		t.Fatalf("expected ErrNoInstructions, got %v", err)
	}
}

func TestPatientNamesDistinct(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	names, err := store.PatientNames(context.Background())
	if err != nil {
		t.Fatalf("PatientNames() error = %v", err)
	}
	if len(names) != 4 {
		t.Fatalf("expected 4 names, got %#v", names)
	}
}
