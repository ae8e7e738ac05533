package contract

import "context"

type Classifier interface {
	Classify(ctx context.Context, userMessage string) (Classification, error)
}

type Drafter interface {
	Draft(ctx context.Context, req DraftRequest) (string, error)
}

// Reviewer is the mandatory human gate. Every run passes through Review
// before its reply is released.
type Reviewer interface {
	Review(ctx context.Context, req ReviewRequest) (ReviewDecision, error)
}

type ToolGateway interface {
	Execute(ctx context.Context, req ToolRequest) (ToolResult, error)
}

// Notifier delivers escalation alerts to staff. Implementations must be
// safe to call with a short-lived context.
type Notifier interface {
	NotifyEscalation(ctx context.Context, esc Escalation) error
}
