package contract

import "time"

// Intent is the category assigned to a patient message by the classifier.
type Intent string

const (
	IntentReschedule Intent = "reschedule"
	IntentCancel     Intent = "cancel"
	IntentPrepInfo   Intent = "prep_info"
	IntentEmergency  Intent = "emergency"
	IntentUnknown    Intent = "unknown"
)

// ParseIntent normalizes a raw classifier value; anything outside the known
// set maps to IntentUnknown so a sloppy model response never crashes a run.
func ParseIntent(raw string) Intent {
	switch Intent(raw) {
	case IntentReschedule, IntentCancel, IntentPrepInfo, IntentEmergency:
		return Intent(raw)
	default:
		return IntentUnknown
	}
}

// Status is the terminal status of a workflow run.
type Status string

const (
	StatusReady    Status = "READY"
	StatusNeedInfo Status = "NEED_INFO"
	StatusEscalate Status = "ESCALATE"
)

// ReviewAction is the decision a human reviewer takes on a draft.
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewEdit    ReviewAction = "edit"
	ReviewReject  ReviewAction = "reject"
	// ReviewPending marks a run whose review happens out of band
	// (two-phase HTTP flow: the draft is returned and finalized later).
	ReviewPending ReviewAction = "pending"
)

// Classification is the structured result of the intent classifier:
// the intent plus any identifiers extracted from the message.
type Classification struct {
	Intent        Intent `json:"intent"`
	AppointmentID string `json:"appointment_id,omitempty"`
	PatientID     string `json:"patient_id,omitempty"`
	NewDate       string `json:"new_date,omitempty"`
	NewTime       string `json:"new_time,omitempty"`
}

// DraftRequest carries everything the drafter needs to write the
// patient-facing reply.
type DraftRequest struct {
	UserMessage  string `json:"user_message"`
	Intent       Intent `json:"intent"`
	ActionResult string `json:"action_result"`
}

// ReviewRequest is shown to the human reviewer before any reply is released.
type ReviewRequest struct {
	RunID  string `json:"run_id"`
	Status Status `json:"status"`
	Route  string `json:"route"`
	Draft  string `json:"draft"`
}

// ReviewDecision is the reviewer's verdict. EditedText is only meaningful
// for ReviewEdit.
type ReviewDecision struct {
	Action     ReviewAction `json:"action"`
	EditedText string       `json:"edited_text,omitempty"`
}

// ToolRequest names a tool invocation against the appointment store.
type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the outcome of a single tool invocation.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Escalation describes a run that terminated ESCALATE and needs staff
// attention.
type Escalation struct {
	RunID      string    `json:"run_id"`
	Route      string    `json:"route"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
