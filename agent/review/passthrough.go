package review

import (
	"context"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

// PassthroughReviewer defers the decision: the draft is returned to the
// caller and the run is finalized later through a separate request. Used by
// the HTTP front end's two-phase flow.
type PassthroughReviewer struct{}

var _ contractx.Reviewer = PassthroughReviewer{}

func (PassthroughReviewer) Review(ctx context.Context, req contractx.ReviewRequest) (contractx.ReviewDecision, error) {
	return contractx.ReviewDecision{Action: contractx.ReviewPending}, nil
}
