package state

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

var (
	ErrNilRunState  = errors.New("run state is nil")
	ErrEmptyMessage = errors.New("patient message is empty")
)

// RunState flows through the workflow graph. Each node reads the fields it
// needs and writes the fields it owns as the run progresses.
type RunState struct {
	// Identity
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`

	// Input
	UserInput string `json:"user_input"`

	// Intent classification
	Intent        contractx.Intent `json:"intent,omitempty"`
	PatientID     string           `json:"patient_id,omitempty"`
	AppointmentID string           `json:"appointment_id,omitempty"`
	NewDate       string           `json:"new_date,omitempty"`
	NewTime       string           `json:"new_time,omitempty"`

	// Processing
	ActionResult  string `json:"action_result,omitempty"`
	DraftResponse string `json:"draft_response,omitempty"`

	// Human-in-the-loop
	HITLAction         contractx.ReviewAction `json:"hitl_action,omitempty"`
	HITLEditedResponse string                 `json:"hitl_edited_response,omitempty"`

	// Output
	FinalResponse string           `json:"final_response,omitempty"`
	Status        contractx.Status `json:"status,omitempty"`
	RouteTaken    string           `json:"route_taken,omitempty"`

	// Tracing
	Trace    []NodeVisit `json:"trace,omitempty"`
	LLMCalls int         `json:"llm_calls"`
}

func NewRunState(runID, userInput string, now time.Time) (*RunState, error) {
	input := strings.TrimSpace(userInput)
	if input == "" {
		return nil, ErrEmptyMessage
	}
	return &RunState{
		RunID:     runID,
		StartedAt: now.UTC(),
		UserInput: input,
	}, nil
}

// Escalate stamps the run with the ESCALATE status, a canned draft, and the
// route that triggered it. Used by the moderation, safety, and reject paths.
func (s *RunState) Escalate(route, draft string) {
	s.Status = contractx.StatusEscalate
	s.DraftResponse = draft
	s.RouteTaken = route
}

// NeedInfo stamps the run with the NEED_INFO status and a follow-up question
// for the patient.
func (s *RunState) NeedInfo(route, draft string) {
	s.Status = contractx.StatusNeedInfo
	s.DraftResponse = draft
	s.RouteTaken = route
}

// HasIdentifier reports whether the patient supplied either of the two
// identifiers the store can look up by.
func (s *RunState) HasIdentifier() bool {
	return s.AppointmentID != "" || s.PatientID != ""
}
