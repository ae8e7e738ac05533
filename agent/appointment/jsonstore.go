package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// JSONFileStore keeps the whole appointment book in a single JSON document
// on disk. Every mutation rewrites the file. A mutex serializes access; there
// is no durability guarantee beyond the OS write.
type JSONFileStore struct {
	mu   sync.Mutex
	path string
}

type document struct {
	Appointments            []*Appointment    `json:"appointments"`
	PreparationInstructions map[string]string `json:"preparation_instructions"`
}

func NewJSONFileStore(path string) (*JSONFileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("appointment data path is required")
	}
	s := &JSONFileStore{path: path}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONFileStore) load() (*document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read appointment data: %w", err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode appointment data: %w", err)
	}
	if doc.PreparationInstructions == nil {
		doc.PreparationInstructions = map[string]string{}
	}
	return &doc, nil
}

func (s *JSONFileStore) save(doc *document) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode appointment data: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write appointment data: %w", err)
	}
	return nil
}

// findLocked returns the first appointment matching the appointment id or,
// failing that on each row, the patient id. Document order wins.
func findLocked(doc *document, appointmentID, patientID string) *Appointment {
	for _, apt := range doc.Appointments {
		if appointmentID != "" && apt.ID == appointmentID {
			return apt
		}
		if patientID != "" && apt.PatientID == patientID {
			return apt
		}
	}
	return nil
}

func (s *JSONFileStore) Lookup(ctx context.Context, appointmentID, patientID string) (*Appointment, error) {
	if appointmentID == "" && patientID == "" {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	apt := findLocked(doc, appointmentID, patientID)
	if apt == nil {
		return nil, ErrNotFound
	}
	copied := *apt
	return &copied, nil
}

func (s *JSONFileStore) Reschedule(ctx context.Context, appointmentID, newDate, newTime string) (RescheduleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return RescheduleResult{}, err
	}
	apt := findLocked(doc, appointmentID, "")
	if apt == nil {
		return RescheduleResult{}, ErrNotFound
	}

	res := RescheduleResult{OldDate: apt.Date, OldTime: apt.Time}
	apt.Date = newDate
	apt.Time = newTime
	apt.Status = StatusRescheduled

	if err := s.save(doc); err != nil {
		return RescheduleResult{}, err
	}
	copied := *apt
	res.Appointment = &copied
	return res, nil
}

func (s *JSONFileStore) Cancel(ctx context.Context, appointmentID string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	apt := findLocked(doc, appointmentID, "")
	if apt == nil {
		return nil, ErrNotFound
	}
	apt.Status = StatusCancelled

	if err := s.save(doc); err != nil {
		return nil, err
	}
	copied := *apt
	return &copied, nil
}

func (s *JSONFileStore) PrepInstructions(ctx context.Context, appointmentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", err
	}
	instructions, ok := doc.PreparationInstructions[appointmentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoInstructions, appointmentType)
	}
	return instructions, nil
}

func (s *JSONFileStore) PatientNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(doc.Appointments))
	names := make([]string, 0, len(doc.Appointments))
	for _, apt := range doc.Appointments {
		name := strings.TrimSpace(apt.PatientName)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
