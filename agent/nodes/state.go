package assistantnode

import (
	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	statex "github.com/napatw/CareLine-Appointment-Assistant/agent/state"
)

// Node names, as they appear in the graph and the run trace.
const (
	NodeInitializeRun  = "initialize_run"
	NodeScreenInput    = "screen_input"
	NodeClassifyIntent = "classify_intent"
	NodeSafetyCheck    = "safety_check"
	NodeValidateInfo   = "validate_info"
	NodeExecuteAction  = "execute_action"
	NodeGenerateDraft  = "generate_draft"
	NodeHumanReview    = "human_review"
	NodeFinalizeOutput = "finalize_output"
)

// Routes a run can take. Intent-dependent routes are derived with
// needInfoRoute / notFoundRoute / successRoute.
const (
	RouteModerationFlagged   = "moderation_flagged"
	RouteEmergencyEscalation = "emergency_escalation"
	RouteRescheduleNeedSlot  = "reschedule_need_datetime"
	RouteUnknownIntent       = "unknown_intent"
)

func needInfoRoute(intent contractx.Intent) string { return string(intent) + "_need_info" }
func notFoundRoute(intent contractx.Intent) string { return string(intent) + "_not_found" }
func successRoute(intent contractx.Intent) string  { return string(intent) + "_success" }

// GraphInput starts a run: just the raw patient message.
type GraphInput struct {
	Text string
}

// GraphOutput is the terminal report of one run.
type GraphOutput struct {
	RunID         string                 `json:"run_id"`
	Status        contractx.Status       `json:"status"`
	Route         string                 `json:"route"`
	HITLAction    contractx.ReviewAction `json:"hitl_action"`
	DraftResponse string                 `json:"draft_response"`
	FinalResponse string                 `json:"final_response"`
	Trace         []statex.NodeVisit     `json:"trace"`
	TraceSummary  string                 `json:"trace_summary"`
	LLMCalls      int                    `json:"llm_calls"`
}

// Canned patient-facing replies used by the short-circuit paths.
const (
	EmergencyReply = "EMERGENCY ALERT: Based on your message, this appears to be an urgent " +
		"medical situation. Please call 911 or go to your nearest emergency room " +
		"immediately. Do not wait for an appointment. If you are in immediate danger, " +
		"call emergency services right away."

	RejectedReply = "This request has been escalated for manual handling."

	notFoundReply = "I couldn't find an appointment matching the information provided. " +
		"Please double-check your appointment ID or patient ID."

	askIDReschedule = "I'd be happy to help reschedule your appointment. Could you please " +
		"provide your appointment ID (e.g., APT-1001) or patient ID (e.g., P-201)?"

	askIDCancel = "I can help you cancel your appointment. Could you please provide " +
		"your appointment ID (e.g., APT-1001) or patient ID (e.g., P-201)?"

	askIDPrep = "I can provide preparation instructions for your appointment. " +
		"Could you please provide your appointment ID (e.g., APT-1001) " +
		"or patient ID (e.g., P-201)?"

	unknownHelpResult = "I can help with rescheduling, cancelling, or preparation " +
		"instructions for appointments."
)
